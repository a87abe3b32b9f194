package documents

import "context"

// Repo defines persistence operations for documents.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, documentID string) (Document, error)
	ListByCase(ctx context.Context, caseID string) ([]Document, error)
	CountByCase(ctx context.Context, caseID string) (int, error)
	Delete(ctx context.Context, documentID string) error
}
