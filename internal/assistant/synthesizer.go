package assistant

import (
	"context"
	"log"
	"math/rand/v2"
	"strings"
	"time"

	"askdata/internal/ai"
	"askdata/internal/model"
)

type ChartType string

const (
	ChartBar  ChartType = "bar"
	ChartLine ChartType = "line"
	ChartPie  ChartType = "pie"
)

// Chart is the transient chart payload returned next to a narrative.
type Chart struct {
	Type ChartType
	Data []map[string]any
}

type Result struct {
	Narrative string
	Chart     *Chart
}

// Request carries the question, its topic and the dataset rows. Rows is nil
// when the dataset has no content.
type Request struct {
	Query string
	Topic Topic
	Rows  []model.Row
}

// Synthesizer never fails: every error path degrades to the apology result.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) Result
}

type Options struct {
	Chat        ai.ChatConfig
	StepTimeout time.Duration
	MaxRetries  int
	SampleChars int
}

// New picks delegated mode when a provider credential is configured and
// fixture mode otherwise.
func New(opts Options, client JSONCompleter) Synthesizer {
	if !opts.Chat.Enabled() || client == nil {
		log.Printf("assistant: no provider credential, using fixture responses")
		return NewFixtureSynthesizer()
	}
	log.Printf("assistant: delegating to model %s", opts.Chat.Model)
	return NewDelegatedSynthesizer(client, opts)
}

func fallbackResult() Result {
	return Result{Narrative: ApologyNarrative}
}

type FixtureSynthesizer struct {
	pick func(n int) int
}

func NewFixtureSynthesizer() *FixtureSynthesizer {
	return &FixtureSynthesizer{pick: rand.IntN}
}

func (s *FixtureSynthesizer) Synthesize(_ context.Context, req Request) Result {
	if f, ok := fixtures[req.Topic]; ok {
		return Result{Narrative: f.narrative, Chart: f.chart.clone()}
	}
	idx := s.pick(len(genericNarratives))
	if idx < 0 || idx >= len(genericNarratives) {
		idx = 0
	}
	return Result{Narrative: genericNarratives[idx]}
}

func (c *Chart) clone() *Chart {
	if c == nil {
		return nil
	}
	data := make([]map[string]any, len(c.Data))
	for i, rec := range c.Data {
		cp := make(map[string]any, len(rec))
		for k, v := range rec {
			cp[k] = v
		}
		data[i] = cp
	}
	return &Chart{Type: c.Type, Data: data}
}

// ParseChartType maps a provider supplied kind onto the supported set.
// Unknown kinds render as bars.
func ParseChartType(kind string) ChartType {
	switch ChartType(strings.ToLower(strings.TrimSpace(kind))) {
	case ChartLine:
		return ChartLine
	case ChartPie:
		return ChartPie
	default:
		return ChartBar
	}
}
