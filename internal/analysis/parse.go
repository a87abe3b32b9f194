package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
)

const defaultConfidence = 0.85

// parseAnalysis locates the first balanced {...} region in the model's text
// response and decodes it field by field. The model's output shape is
// untrusted: every field is type-checked and defaulted rather than assumed.
func parseAnalysis(text string) (DocumentAnalysis, error) {
	region, ok := jsonRegion(text)
	if !ok {
		return DocumentAnalysis{}, fmt.Errorf("%w: no JSON object in response", ErrParse)
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(region), &raw); err != nil {
		return DocumentAnalysis{}, fmt.Errorf("%w: %v", ErrParse, err)
	}

	result := DocumentAnalysis{
		CaseNumber: stringField(raw["caseNumber"]),
		Parties:    stringSlice(raw["parties"]),
		KeyFacts:   stringSlice(raw["keyFacts"]),
		Confidence: confidenceField(raw["confidence"]),
	}

	for _, entry := range anySlice(raw["deadlines"]) {
		result.Deadlines = append(result.Deadlines, Deadline{
			Date:        stringField(entry["date"]),
			Description: stringField(entry["description"]),
			Priority:    normalizePriority(stringField(entry["priority"])),
		})
	}

	for _, entry := range anySlice(raw["suggestedActions"]) {
		result.SuggestedActions = append(result.SuggestedActions, ActionSuggestion{
			Title:       stringField(entry["title"]),
			Description: stringField(entry["description"]),
			Rationale:   stringField(entry["rationale"]),
			Priority:    normalizePriority(stringField(entry["priority"])),
		})
	}

	if result.Parties == nil {
		result.Parties = []string{}
	}
	if result.KeyFacts == nil {
		result.KeyFacts = []string{}
	}
	if result.Deadlines == nil {
		result.Deadlines = []Deadline{}
	}
	if result.SuggestedActions == nil {
		result.SuggestedActions = []ActionSuggestion{}
	}

	return result, nil
}

// jsonRegion returns the first balanced top-level JSON object in text.
func jsonRegion(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

func stringField(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

func anySlice(v any) []map[string]any {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []map[string]any
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func confidenceField(v any) float64 {
	f, ok := v.(float64)
	if !ok || f <= 0 {
		return defaultConfidence
	}
	if f > 1 {
		return 1
	}
	return f
}

func normalizePriority(raw string) string {
	switch strings.ToLower(raw) {
	case PriorityHigh:
		return PriorityHigh
	case PriorityLow:
		return PriorityLow
	default:
		return PriorityMedium
	}
}
