package extracted

import "context"

// Repo defines persistence operations for extraction results.
type Repo interface {
	Create(ctx context.Context, data ExtractedData) error
	ListByCase(ctx context.Context, caseID string) ([]WithDocument, error)
	ListDeadlines(ctx context.Context) ([]DeadlineView, error)
	Delete(ctx context.Context, extractedID string) error
}
