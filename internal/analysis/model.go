package analysis

import "errors"

// Priority levels shared by deadlines and suggested actions.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// ErrParse reports a model response with no usable JSON region.
var ErrParse = errors.New("analysis response is not well-formed")

// BatchFile is one file of an intake batch prepared for analysis.
type BatchFile struct {
	FileName string
	MimeType string
	// Text holds decoded content; Native holds the raw buffer for formats
	// the model consumes directly. Exactly one of the two is set.
	Text   string
	Native []byte
}

// Deadline is a dated item surfaced by the model.
type Deadline struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// ActionSuggestion is a proposed next step surfaced by the model.
type ActionSuggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Rationale   string `json:"rationale"`
	Priority    string `json:"priority"`
}

// DocumentAnalysis is the structured result of one analysis batch.
type DocumentAnalysis struct {
	CaseNumber       string             `json:"caseNumber,omitempty"`
	Parties          []string           `json:"parties"`
	Deadlines        []Deadline         `json:"deadlines"`
	KeyFacts         []string           `json:"keyFacts"`
	Confidence       float64            `json:"confidence"`
	SuggestedActions []ActionSuggestion `json:"suggestedActions"`
	// ConversationalResponse is only set when the caller supplied
	// instructions and the follow-up call succeeded.
	ConversationalResponse string `json:"conversationalResponse,omitempty"`
}
