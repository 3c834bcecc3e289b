package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"askdata/internal/ai"
	"askdata/internal/model"
)

const (
	defaultStepTimeout = 30 * time.Second
	defaultSampleChars = 8000
	truncatedMarker    = " ... (data truncated)"
)

// JSONCompleter is the slice of the provider client the delegated path uses.
type JSONCompleter interface {
	CompleteJSON(ctx context.Context, cfg ai.ChatConfig, messages []ai.ChatMessage, temperature *float64, out interface{}) error
}

type state int

const (
	stateClassifyNeed state = iota
	stateGenerateNarrative
	stateGenerateChart
	stateDone
	stateFallback
)

func (s state) String() string {
	switch s {
	case stateClassifyNeed:
		return "classify_need"
	case stateGenerateNarrative:
		return "generate_narrative"
	case stateGenerateChart:
		return "generate_chart"
	case stateDone:
		return "done"
	default:
		return "fallback"
	}
}

type chartNeed struct {
	NeedsVisualization bool   `json:"needsVisualization"`
	ChartType          string `json:"chartType"`
}

type narrativeReply struct {
	Text string
	Raw  map[string]any
}

type chartReply struct {
	ChartData []map[string]any `json:"chartData"`
	ChartType string           `json:"chartType"`
}

// run holds the typed intermediate results of one synthesis.
type run struct {
	req       Request
	sample    string
	need      chartNeed
	narrative narrativeReply
	chart     *Chart
}

type DelegatedSynthesizer struct {
	client      JSONCompleter
	chat        ai.ChatConfig
	stepTimeout time.Duration
	maxRetries  int
	sampleChars int
}

func NewDelegatedSynthesizer(client JSONCompleter, opts Options) *DelegatedSynthesizer {
	if opts.StepTimeout <= 0 {
		opts.StepTimeout = defaultStepTimeout
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.SampleChars <= 0 {
		opts.SampleChars = defaultSampleChars
	}
	return &DelegatedSynthesizer{
		client:      client,
		chat:        opts.Chat,
		stepTimeout: opts.StepTimeout,
		maxRetries:  opts.MaxRetries,
		sampleChars: opts.SampleChars,
	}
}

func (s *DelegatedSynthesizer) Synthesize(ctx context.Context, req Request) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("assistant: synthesis panic recovered: %v", r)
			result = fallbackResult()
		}
	}()

	r := &run{req: req, sample: sampleRows(req.Rows, s.sampleChars)}
	current := stateClassifyNeed
	for {
		var next state
		var err error
		switch current {
		case stateClassifyNeed:
			next, err = s.classifyNeed(ctx, r)
		case stateGenerateNarrative:
			next, err = s.generateNarrative(ctx, r)
		case stateGenerateChart:
			next, err = s.generateChart(ctx, r)
		case stateDone:
			return Result{Narrative: r.narrative.Text, Chart: r.chart}
		default:
			return fallbackResult()
		}
		if err != nil {
			log.Printf("assistant: step %s failed for topic %s: %v", current, req.Topic, err)
			next = stateFallback
		}
		current = next
	}
}

func (s *DelegatedSynthesizer) classifyNeed(ctx context.Context, r *run) (state, error) {
	prompt := fmt.Sprintf(
		"User query: %s\n\nFirst, determine if this query requires a data visualization. "+
			"If yes, also determine what type of chart would be best (bar, line or pie).\n"+
			"Respond with JSON in this format: { \"needsVisualization\": boolean, \"chartType\": string | null }",
		r.req.Query,
	)
	messages := []ai.ChatMessage{
		{Role: "system", Content: "You are a data visualization expert. Determine if the user query requires a data visualization and what type."},
		{Role: "user", Content: prompt},
	}
	if err := s.call(ctx, messages, nil, &r.need); err != nil {
		return stateFallback, err
	}
	return stateGenerateNarrative, nil
}

func (s *DelegatedSynthesizer) generateNarrative(ctx context.Context, r *run) (state, error) {
	prompt := fmt.Sprintf(
		"User query: %s\n\nGenerate a detailed response based on the data provided. "+
			"Respond with JSON in this format: { \"response\": string }\n\nData: %s",
		r.req.Query, r.sample,
	)
	messages := []ai.ChatMessage{
		{Role: "system", Content: "You are a data analyst assistant. Provide a detailed response to the user's query about their data."},
		{Role: "user", Content: prompt},
	}
	temperature := 0.2
	var raw map[string]any
	if err := s.call(ctx, messages, &temperature, &raw); err != nil {
		return stateFallback, err
	}
	text, err := narrativeText(raw)
	if err != nil {
		return stateFallback, err
	}
	r.narrative = narrativeReply{Text: text, Raw: raw}

	if r.need.NeedsVisualization {
		return stateGenerateChart, nil
	}
	return stateDone, nil
}

func (s *DelegatedSynthesizer) generateChart(ctx context.Context, r *run) (state, error) {
	analytics, err := json.Marshal(r.narrative.Raw)
	if err != nil {
		return stateFallback, fmt.Errorf("marshal narrative failed: %w", err)
	}
	kind := ParseChartType(r.need.ChartType)
	prompt := fmt.Sprintf(
		"Based on the user query: %s\nAnd the data analytics response: %s\n\n"+
			"Generate the data needed for a %s chart as a list of flat records. "+
			"Respond with JSON in this format: { \"chartData\": object[], \"chartType\": string }",
		r.req.Query, analytics, kind,
	)
	messages := []ai.ChatMessage{
		{Role: "system", Content: "You are a data visualization expert. Generate chart data based on the user query and analytics response."},
		{Role: "user", Content: prompt},
	}
	var reply chartReply
	if err := s.call(ctx, messages, nil, &reply); err != nil {
		return stateFallback, err
	}
	if len(reply.ChartData) == 0 {
		return stateDone, nil
	}
	if reply.ChartType != "" {
		kind = ParseChartType(reply.ChartType)
	}
	r.chart = &Chart{Type: kind, Data: reply.ChartData}
	return stateDone, nil
}

// call applies the step policy: each attempt gets its own timeout and failed
// attempts are retried up to maxRetries times while the parent context lives.
func (s *DelegatedSynthesizer) call(ctx context.Context, messages []ai.ChatMessage, temperature *float64, out interface{}) error {
	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		stepCtx, cancel := context.WithTimeout(ctx, s.stepTimeout)
		lastErr = s.client.CompleteJSON(stepCtx, s.chat, messages, temperature, out)
		cancel()
		if lastErr == nil {
			return nil
		}
	}
	return lastErr
}

func narrativeText(raw map[string]any) (string, error) {
	for _, key := range []string{"response", "text"} {
		if text, ok := raw[key].(string); ok && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text), nil
		}
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("empty narrative")
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return "", fmt.Errorf("marshal narrative failed: %w", err)
	}
	return string(b), nil
}

// sampleRows serializes rows and keeps the first limit characters.
func sampleRows(rows []model.Row, limit int) string {
	if rows == nil {
		rows = []model.Row{}
	}
	b, err := json.Marshal(rows)
	if err != nil {
		return "[]"
	}
	runes := []rune(string(b))
	if len(runes) <= limit {
		return string(runes)
	}
	return string(runes[:limit]) + truncatedMarker
}
