package chat

import "time"

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry of a case's conversation. Messages are append-only
// and ordered by creation time.
type Message struct {
	ID         string    `json:"id"`
	CaseID     string    `json:"caseId"`
	Role       string    `json:"role"`
	Content    string    `json:"content"`
	IsAnalysis bool      `json:"isAnalysis"`
	CreatedAt  time.Time `json:"timestamp"`
}
