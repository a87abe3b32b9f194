package cases

import "context"

// Repo abstracts case persistence.
type Repo interface {
	Create(ctx context.Context, cs Case) error
	GetByID(ctx context.Context, caseID string) (Case, error)
	ListByUser(ctx context.Context, userID string) ([]Case, error)
	Delete(ctx context.Context, caseID string) error
}
