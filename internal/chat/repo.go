package chat

import "context"

// Repo defines persistence operations for chat messages.
type Repo interface {
	Create(ctx context.Context, msg Message) error
	ListByCase(ctx context.Context, caseID string) ([]Message, error)
	Delete(ctx context.Context, messageID string) error
}
