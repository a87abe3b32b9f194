package actions

import (
	"context"
	"fmt"
	"time"
)

// Service contains business logic for the action lifecycle.
type Service struct {
	Repo Repo
}

// SetStatus transitions an action to approved or rejected. Re-applying a
// terminal status succeeds as an idempotent overwrite.
func (s *Service) SetStatus(ctx context.Context, actionID, status string) (SuggestedAction, error) {
	if status != StatusApproved && status != StatusRejected {
		return SuggestedAction{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s.Repo.UpdateStatus(ctx, actionID, status, time.Now().UTC())
}

// Delete removes an action, returning the deleted row.
func (s *Service) Delete(ctx context.Context, actionID string) (SuggestedAction, error) {
	return s.Repo.Delete(ctx, actionID)
}

// ListByCase returns a case's actions newest-first.
func (s *Service) ListByCase(ctx context.Context, caseID string) ([]SuggestedAction, error) {
	return s.Repo.ListByCase(ctx, caseID)
}

// ListApproved returns the global approvals view.
func (s *Service) ListApproved(ctx context.Context) ([]ApprovedView, error) {
	return s.Repo.ListApproved(ctx)
}
