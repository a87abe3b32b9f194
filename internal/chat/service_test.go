package chat

import (
	"context"
	"errors"
	"testing"
)

type memRepo struct {
	msgs []Message
}

func (m *memRepo) Create(_ context.Context, msg Message) error {
	m.msgs = append(m.msgs, msg)
	return nil
}

func (m *memRepo) ListByCase(_ context.Context, caseID string) ([]Message, error) {
	var out []Message
	for _, msg := range m.msgs {
		if msg.CaseID == caseID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *memRepo) Delete(_ context.Context, messageID string) error {
	for i, msg := range m.msgs {
		if msg.ID == messageID {
			m.msgs = append(m.msgs[:i], m.msgs[i+1:]...)
			return nil
		}
	}
	return nil
}

type staticReplier struct {
	reply string
	err   error
	calls int
}

func (s *staticReplier) Reply(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.reply, s.err
}

func TestPostUserMessageGetsReply(t *testing.T) {
	repo := &memRepo{}
	replier := &staticReplier{reply: "A subpoena is a court order to appear or produce documents."}
	svc := &Service{Repo: repo, Replier: replier}

	msg, reply, err := svc.Post(context.Background(), "case-1", RoleUser, "what is a subpoena?")
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if msg.Role != RoleUser || msg.Content != "what is a subpoena?" {
		t.Errorf("user message = %+v", msg)
	}
	if reply == nil || reply.Role != RoleAssistant || reply.Content != replier.reply {
		t.Errorf("reply = %+v", reply)
	}
	if len(repo.msgs) != 2 {
		t.Errorf("persisted %d messages, want 2", len(repo.msgs))
	}
}

func TestPostAssistantMessageGetsNoReply(t *testing.T) {
	replier := &staticReplier{reply: "unused"}
	svc := &Service{Repo: &memRepo{}, Replier: replier}

	_, reply, err := svc.Post(context.Background(), "case-1", RoleAssistant, "analysis summary")
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if reply != nil || replier.calls != 0 {
		t.Error("assistant messages must not trigger replies")
	}
}

func TestPostUploadNoticeSkipsReply(t *testing.T) {
	replier := &staticReplier{reply: "unused"}
	svc := &Service{Repo: &memRepo{}, Replier: replier}

	_, reply, err := svc.Post(context.Background(), "case-1", RoleUser, "Uploaded: complaint.pdf")
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if reply != nil || replier.calls != 0 {
		t.Error("upload notices must not trigger replies")
	}
}

func TestPostValidation(t *testing.T) {
	svc := &Service{Repo: &memRepo{}}

	if _, _, err := svc.Post(context.Background(), "case-1", RoleUser, "   "); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("blank content err = %v, want ErrInvalidInput", err)
	}
	if _, _, err := svc.Post(context.Background(), "case-1", "system", "hello"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad role err = %v, want ErrInvalidInput", err)
	}
}

func TestListReturnsCaseMessagesInOrder(t *testing.T) {
	repo := &memRepo{}
	svc := &Service{Repo: repo}

	for _, content := range []string{"first", "second"} {
		if _, _, err := svc.Post(context.Background(), "case-1", RoleAssistant, content); err != nil {
			t.Fatalf("Post: %v", err)
		}
	}
	if _, _, err := svc.Post(context.Background(), "case-2", RoleAssistant, "other case"); err != nil {
		t.Fatalf("Post: %v", err)
	}

	msgs, err := svc.List(context.Background(), "case-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Content != "first" || msgs[1].Content != "second" {
		t.Errorf("messages = %+v", msgs)
	}
}
