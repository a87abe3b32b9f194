package analysis

import (
	"errors"
	"testing"
)

func TestParseAnalysisExtractsEmbeddedJSON(t *testing.T) {
	text := "Here is the analysis you asked for:\n```json\n" + `{
		"caseNumber": "2024-CV-1234",
		"parties": ["Acme Corp", "Jane Doe"],
		"deadlines": [{"date": "2024-09-15", "description": "Answer due", "priority": "high"}],
		"keyFacts": ["Contract signed 2023-01-05"],
		"confidence": 0.92,
		"suggestedActions": [{"title": "File answer", "description": "Prepare and file", "rationale": "Deadline approaching", "priority": "high"}]
	}` + "\n```\nLet me know if you need anything else."

	got, err := parseAnalysis(text)
	if err != nil {
		t.Fatalf("parseAnalysis: %v", err)
	}
	if got.CaseNumber != "2024-CV-1234" {
		t.Errorf("case number = %q", got.CaseNumber)
	}
	if len(got.Parties) != 2 || got.Parties[0] != "Acme Corp" {
		t.Errorf("parties = %v", got.Parties)
	}
	if len(got.Deadlines) != 1 || got.Deadlines[0].Priority != PriorityHigh {
		t.Errorf("deadlines = %v", got.Deadlines)
	}
	if got.Confidence != 0.92 {
		t.Errorf("confidence = %v", got.Confidence)
	}
	if len(got.SuggestedActions) != 1 || got.SuggestedActions[0].Title != "File answer" {
		t.Errorf("actions = %v", got.SuggestedActions)
	}
}

func TestParseAnalysisDefaultsMissingFields(t *testing.T) {
	got, err := parseAnalysis(`{"caseNumber": "X-1"}`)
	if err != nil {
		t.Fatalf("parseAnalysis: %v", err)
	}
	if got.Confidence != defaultConfidence {
		t.Errorf("confidence = %v, want default %v", got.Confidence, defaultConfidence)
	}
	if got.Parties == nil || len(got.Parties) != 0 {
		t.Errorf("parties = %#v, want empty non-nil", got.Parties)
	}
	if got.Deadlines == nil || got.KeyFacts == nil || got.SuggestedActions == nil {
		t.Error("list fields must default to empty, not nil")
	}
}

func TestParseAnalysisIgnoresWrongTypes(t *testing.T) {
	got, err := parseAnalysis(`{
		"caseNumber": 42,
		"parties": "not a list",
		"confidence": "high",
		"deadlines": [{"date": "2024-01-01", "priority": "urgent"}],
		"keyFacts": [1, 2, "real fact"]
	}`)
	if err != nil {
		t.Fatalf("parseAnalysis: %v", err)
	}
	if got.CaseNumber != "" {
		t.Errorf("caseNumber = %q, want empty for non-string", got.CaseNumber)
	}
	if len(got.Parties) != 0 {
		t.Errorf("parties = %v", got.Parties)
	}
	if got.Confidence != defaultConfidence {
		t.Errorf("confidence = %v", got.Confidence)
	}
	if got.Deadlines[0].Priority != PriorityMedium {
		t.Errorf("unknown priority should map to medium, got %q", got.Deadlines[0].Priority)
	}
	if len(got.KeyFacts) != 1 || got.KeyFacts[0] != "real fact" {
		t.Errorf("keyFacts = %v", got.KeyFacts)
	}
}

func TestParseAnalysisClampsConfidence(t *testing.T) {
	got, err := parseAnalysis(`{"confidence": 3.5}`)
	if err != nil {
		t.Fatalf("parseAnalysis: %v", err)
	}
	if got.Confidence != 1 {
		t.Errorf("confidence = %v, want 1", got.Confidence)
	}
}

func TestParseAnalysisRejectsNonJSON(t *testing.T) {
	for _, text := range []string{
		"I could not read the documents, sorry.",
		"{ \"unterminated\": ",
	} {
		if _, err := parseAnalysis(text); !errors.Is(err, ErrParse) {
			t.Errorf("parseAnalysis(%q) err = %v, want ErrParse", text, err)
		}
	}
}

func TestJSONRegionSkipsBracesInStrings(t *testing.T) {
	text := `prefix {"note": "a { stray \" brace }", "n": 1} suffix`
	region, ok := jsonRegion(text)
	if !ok {
		t.Fatal("jsonRegion found nothing")
	}
	want := `{"note": "a { stray \" brace }", "n": 1}`
	if region != want {
		t.Errorf("region = %q, want %q", region, want)
	}
}
