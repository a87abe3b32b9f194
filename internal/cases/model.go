package cases

import (
	"errors"
	"time"
)

// Case statuses.
const (
	StatusActive   = "active"
	StatusClosed   = "closed"
	StatusArchived = "archived"
)

// Case is a legal matter owned by a user.
type Case struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Name       string    `json:"name"`
	CaseNumber string    `json:"caseNumber,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Summary is a Case with dashboard counters attached.
type Summary struct {
	Case
	DocumentCount    int `json:"documentCount"`
	PendingApprovals int `json:"pendingApprovals"`
}

// ErrNotFound is returned when a case does not exist.
var ErrNotFound = errors.New("case not found")
