package actions

import (
	"errors"
	"time"
)

// Action statuses. Approved and rejected are terminal.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// SuggestedAction is a proposed next step derived from an analysis batch.
// Status is the only mutable field after creation.
type SuggestedAction struct {
	ID              string    `json:"id"`
	ExtractedDataID string    `json:"extractedDataId"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Rationale       string    `json:"rationale"`
	Priority        string    `json:"priority"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ApprovedView annotates an approved action with its case and document
// origin for the global approvals view.
type ApprovedView struct {
	Action       SuggestedAction `json:"action"`
	CaseID       string          `json:"caseId"`
	CaseName     string          `json:"caseName"`
	CaseNumber   string          `json:"caseNumber"`
	DocumentID   string          `json:"documentId"`
	DocumentName string          `json:"documentName"`
}

var (
	ErrNotFound      = errors.New("action not found")
	ErrInvalidStatus = errors.New("invalid status")
)
