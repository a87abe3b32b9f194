package actions

import (
	"context"
	"time"
)

// Repo defines persistence operations for suggested actions.
type Repo interface {
	Create(ctx context.Context, action SuggestedAction) error
	UpdateStatus(ctx context.Context, actionID, status string, updatedAt time.Time) (SuggestedAction, error)
	Delete(ctx context.Context, actionID string) (SuggestedAction, error)
	ListByCase(ctx context.Context, caseID string) ([]SuggestedAction, error)
	ListApproved(ctx context.Context) ([]ApprovedView, error)
	CountPendingByCase(ctx context.Context, caseID string) (int, error)
}
