package extracted

import (
	"errors"
	"time"
)

// Deadline is a dated item embedded in an extraction result.
type Deadline struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// ExtractedData is the structured result of one analysis batch, linked to the
// batch's first document. Created once per successful batch; never mutated.
type ExtractedData struct {
	ID          string     `json:"id"`
	DocumentID  string     `json:"documentId"`
	CaseNumber  string     `json:"caseNumber,omitempty"`
	Parties     []string   `json:"parties"`
	Deadlines   []Deadline `json:"deadlines"`
	KeyFacts    []string   `json:"keyFacts"`
	Confidence  float64    `json:"confidence"`
	ExtractedAt time.Time  `json:"extractedAt"`
}

// WithDocument pairs an extraction with its originating document for reads.
type WithDocument struct {
	Extracted    ExtractedData `json:"extracted"`
	DocumentName string        `json:"documentName"`
	CaseID       string        `json:"caseId"`
}

// DeadlineView is a deadline annotated with its case and document origin,
// denormalized at query time.
type DeadlineView struct {
	Deadline
	CaseID       string `json:"caseId"`
	CaseName     string `json:"caseName"`
	CaseNumber   string `json:"caseNumber"`
	DocumentName string `json:"documentName"`
}

var ErrNotFound = errors.New("extracted data not found")
