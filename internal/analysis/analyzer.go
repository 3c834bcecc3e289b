package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"askdata/internal/ai"
	"askdata/internal/model"
)

const (
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeString  = "string"
	TypeEmpty   = "empty"

	llmSampleRows = 10
)

const (
	FallbackAnalysis = "Error analyzing dataset"
	FallbackSummary  = "Unable to process data sample"
)

// Report is the outcome of analyzing one dataset.
type Report struct {
	Analysis string            `json:"analysis"`
	Schema   map[string]string `json:"schema"`
	Summary  string            `json:"summary"`
}

type Analyzer interface {
	Analyze(ctx context.Context, dataset *model.Dataset, rows []model.Row) (*Report, error)
}

// LocalAnalyzer infers column types from the values themselves.
type LocalAnalyzer struct{}

func (LocalAnalyzer) Analyze(_ context.Context, dataset *model.Dataset, rows []model.Row) (*Report, error) {
	columns := columnOrder(dataset, rows)
	schema := make(map[string]string, len(columns))
	parts := make([]string, 0, len(columns))
	for _, col := range columns {
		schema[col] = inferType(rows, col)
		parts = append(parts, col+": "+schema[col])
	}

	summary := fmt.Sprintf("%d rows across %d columns", len(rows), len(columns))
	if len(parts) > 0 {
		summary += " (" + strings.Join(parts, ", ") + ")"
	}
	return &Report{
		Analysis: "Column types inferred from the uploaded values.",
		Schema:   schema,
		Summary:  summary + ".",
	}, nil
}

func columnOrder(dataset *model.Dataset, rows []model.Row) []string {
	if dataset != nil && len(dataset.Columns) > 0 {
		return append([]string(nil), dataset.Columns...)
	}
	if len(rows) == 0 {
		return nil
	}
	keys := make([]string, 0, len(rows[0]))
	for k := range rows[0] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// inferType returns the narrowest type shared by every non-empty value of col.
func inferType(rows []model.Row, col string) string {
	numeric, boolean, seen := true, true, false
	for _, row := range rows {
		v, ok := row[col]
		if !ok || v == nil {
			continue
		}
		switch val := v.(type) {
		case float64, float32, int, int64, json.Number:
			seen = true
			boolean = false
		case bool:
			seen = true
			numeric = false
		case string:
			s := strings.TrimSpace(val)
			if s == "" {
				continue
			}
			seen = true
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				numeric = false
			}
			if _, err := strconv.ParseBool(strings.ToLower(s)); err != nil || isBinaryDigit(s) {
				boolean = false
			}
		default:
			seen = true
			numeric, boolean = false, false
		}
	}
	switch {
	case !seen:
		return TypeEmpty
	case numeric:
		return TypeNumber
	case boolean:
		return TypeBoolean
	default:
		return TypeString
	}
}

// isBinaryDigit reports values strconv.ParseBool would accept that are
// better read as numbers.
func isBinaryDigit(s string) bool {
	return s == "0" || s == "1"
}

// JSONCompleter is the provider call used by LLMAnalyzer.
type JSONCompleter interface {
	CompleteJSON(ctx context.Context, cfg ai.ChatConfig, messages []ai.ChatMessage, temperature *float64, out interface{}) error
}

// LLMAnalyzer asks the provider to describe a sample of the first rows.
type LLMAnalyzer struct {
	client JSONCompleter
	chat   ai.ChatConfig
}

func NewLLMAnalyzer(client JSONCompleter, chat ai.ChatConfig) *LLMAnalyzer {
	return &LLMAnalyzer{client: client, chat: chat}
}

type llmReport struct {
	Analysis any            `json:"analysis"`
	Schema   map[string]any `json:"schema"`
	Summary  any            `json:"summary"`
}

func (a *LLMAnalyzer) Analyze(ctx context.Context, _ *model.Dataset, rows []model.Row) (*Report, error) {
	sample := rows
	if len(sample) > llmSampleRows {
		sample = sample[:llmSampleRows]
	}
	if sample == nil {
		sample = []model.Row{}
	}
	payload, err := json.Marshal(sample)
	if err != nil {
		return nil, fmt.Errorf("marshal dataset sample failed: %w", err)
	}

	messages := []ai.ChatMessage{
		{
			Role: "system",
			Content: "You are a data analyst expert. Analyze the dataset sample provided and extract its schema, data types, " +
				"and provide a brief summary of what the data represents. Respond with JSON in this format: " +
				"{ \"analysis\": string, \"schema\": Record<string, string>, \"summary\": string }",
		},
		{Role: "user", Content: string(payload)},
	}

	var reply llmReport
	if err := a.client.CompleteJSON(ctx, a.chat, messages, nil, &reply); err != nil {
		log.Printf("analysis: provider failed, using fallback report: %v", err)
		return fallbackReport(), nil
	}

	report := &Report{
		Analysis: stringify(reply.Analysis),
		Schema:   make(map[string]string, len(reply.Schema)),
		Summary:  stringify(reply.Summary),
	}
	for k, v := range reply.Schema {
		report.Schema[k] = stringify(v)
	}
	return report, nil
}

// fallbackReport is stored when the provider cannot describe the sample.
// The dataset still completes as processed.
func fallbackReport() *Report {
	return &Report{
		Analysis: FallbackAnalysis,
		Schema:   map[string]string{},
		Summary:  FallbackSummary,
	}
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}
