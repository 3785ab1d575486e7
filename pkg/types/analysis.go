package types

import (
	"encoding/json"
	"math"
	"strings"
	"time"
)

// AnalysisType selects the prompt template and how severity/sentiment read
type AnalysisType string

const (
	AnalysisBug       AnalysisType = "bug"
	AnalysisFeature   AnalysisType = "feature"
	AnalysisSentiment AnalysisType = "sentiment"
	AnalysisGeneral   AnalysisType = "general"
)

// ParseAnalysisType maps any input onto the closed set; unknown values
// become general, never an error.
func ParseAnalysisType(s string) AnalysisType {
	switch AnalysisType(strings.ToLower(strings.TrimSpace(s))) {
	case AnalysisBug:
		return AnalysisBug
	case AnalysisFeature:
		return AnalysisFeature
	case AnalysisSentiment:
		return AnalysisSentiment
	default:
		return AnalysisGeneral
	}
}

// Severity of the analysed problem
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// ParseSeverity normalizes a backend-provided severity, defaulting to medium
func ParseSeverity(s string) Severity {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case SeverityHigh:
		return SeverityHigh
	case SeverityLow:
		return SeverityLow
	default:
		return SeverityMedium
	}
}

// ModelUsed names the backend that produced an AnalysisResult
type ModelUsed string

const (
	ModelAzure     ModelUsed = "azure"
	ModelOpenAI    ModelUsed = "openai"
	ModelHeuristic ModelUsed = "heuristic"
)

// DefaultConfidence applies when a backend omits a confidence value
const DefaultConfidence = 0.8

// Analysis is the typed core of a result plus the backend's extra fields.
// Extra is preserved verbatim when marshalled; typed fields win on conflict.
type Analysis struct {
	MainPoints     []string
	TechnicalAreas []string
	Severity       Severity
	ActionItems    []string
	Extra          map[string]any
}

var analysisCoreKeys = map[string]bool{
	"mainPoints":     true,
	"technicalAreas": true,
	"severity":       true,
	"actionItems":    true,
}

// IsCoreKey reports whether key is one of the typed analysis fields
func IsCoreKey(key string) bool {
	return analysisCoreKeys[key]
}

// MarshalJSON flattens Extra and the typed core into one object
func (a Analysis) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(a.Extra)+4)
	for k, v := range a.Extra {
		out[k] = v
	}
	out["mainPoints"] = nonNil(a.MainPoints)
	out["technicalAreas"] = nonNil(a.TechnicalAreas)
	out["severity"] = a.Severity
	out["actionItems"] = nonNil(a.ActionItems)
	return json.Marshal(out)
}

// UnmarshalJSON reads the typed core and keeps every other key in Extra.
// Only malformed JSON is an error: a core field of the wrong type falls back
// to its default (a lone string becomes a one-element list) and the raw
// value is kept in Extra under the same key.
func (a *Analysis) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*a = Analysis{Severity: SeverityMedium}
	for k, v := range raw {
		if !IsCoreKey(k) {
			a.keep(k, v)
			continue
		}

		ok := true
		switch k {
		case "mainPoints":
			a.MainPoints, ok = stringList(v)
		case "technicalAreas":
			a.TechnicalAreas, ok = stringList(v)
		case "actionItems":
			a.ActionItems, ok = stringList(v)
		case "severity":
			s, isString := v.(string)
			a.Severity, ok = ParseSeverity(s), isString || v == nil
		}
		if !ok {
			a.keep(k, v)
		}
	}
	return nil
}

func (a *Analysis) keep(key string, v any) {
	if a.Extra == nil {
		a.Extra = make(map[string]any)
	}
	a.Extra[key] = v
}

// stringList reads a list of strings. ok is false when v had another shape;
// the strings that could be recovered are still returned.
func stringList(v any) ([]string, bool) {
	switch val := v.(type) {
	case nil:
		return nil, true
	case string:
		if strings.TrimSpace(val) == "" {
			return nil, true
		}
		return []string{val}, true
	case []any:
		out := make([]string, 0, len(val))
		ok := true
		for _, e := range val {
			if s, isString := e.(string); isString {
				out = append(out, s)
			} else {
				ok = false
			}
		}
		return out, ok
	default:
		return nil, false
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Metadata records cost and provenance of a single analysis
type Metadata struct {
	ProcessingTimeMs int64     `json:"processingTimeMs"`
	ModelUsed        ModelUsed `json:"modelUsed"`
	PromptTokens     int       `json:"promptTokens"`
	CompletionTokens int       `json:"completionTokens"`
}

// AnalysisResult is produced by an analyzer from one FeedbackItem
type AnalysisResult struct {
	ID         string       `json:"id"`
	Type       AnalysisType `json:"type"`
	Source     string       `json:"source"`
	Title      string       `json:"title,omitempty"`
	URL        string       `json:"url,omitempty"`
	Confidence float64      `json:"confidence"`
	Analysis   Analysis     `json:"analysis"`
	Metadata   Metadata     `json:"metadata"`
	CreatedAt  time.Time    `json:"created_at"`
	AnalyzedAt time.Time    `json:"analyzed_at"`
}

// ClampConfidence keeps a confidence value inside [0,1]
func ClampConfidence(c float64) float64 {
	if math.IsNaN(c) {
		return DefaultConfidence
	}
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
