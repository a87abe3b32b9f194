package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidInput reports a malformed message payload.
var ErrInvalidInput = errors.New("invalid message")

// Replier produces a single conversational assistant response.
type Replier interface {
	Reply(ctx context.Context, message string) (string, error)
}

// Service contains business logic for case chat.
type Service struct {
	Repo    Repo
	Replier Replier
}

// Post appends a message to a case. Posting a user message triggers exactly
// one assistant reply.
func (s *Service) Post(ctx context.Context, caseID, role, content string) (Message, *Message, error) {
	if strings.TrimSpace(content) == "" {
		return Message{}, nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if role != RoleUser && role != RoleAssistant {
		return Message{}, nil, fmt.Errorf("%w: role must be user or assistant", ErrInvalidInput)
	}

	msg := Message{
		ID:        uuid.NewString(),
		CaseID:    caseID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, msg); err != nil {
		return Message{}, nil, err
	}

	// Upload notifications are posted as user messages but the pipeline
	// answers them with its own analysis summary, so skip the chat reply.
	if role != RoleUser || s.Replier == nil || strings.Contains(strings.ToLower(content), "uploaded:") {
		return msg, nil, nil
	}

	replyText, err := s.Replier.Reply(ctx, content)
	if err != nil {
		return Message{}, nil, err
	}

	reply := Message{
		ID:        uuid.NewString(),
		CaseID:    caseID,
		Role:      RoleAssistant,
		Content:   replyText,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, reply); err != nil {
		return Message{}, nil, err
	}
	return msg, &reply, nil
}

// List returns a case's messages ordered by timestamp ascending.
func (s *Service) List(ctx context.Context, caseID string) ([]Message, error) {
	return s.Repo.ListByCase(ctx, caseID)
}
