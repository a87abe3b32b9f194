// Package memory provides a process-local store backing every repository
// interface. It exists for development and tests when no DATABASE_URL is
// configured; one shared mutex keeps cross-entity reads consistent.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"casefile-backend/internal/actions"
	"casefile-backend/internal/auth"
	"casefile-backend/internal/cases"
	"casefile-backend/internal/chat"
	"casefile-backend/internal/documents"
	"casefile-backend/internal/extracted"
)

// Store holds all entities in insertion order.
type Store struct {
	mu        sync.RWMutex
	users     []auth.User
	sessions  []auth.Session
	cases     []cases.Case
	documents []documents.Document
	messages  []chat.Message
	extracted []extracted.ExtractedData
	actions   []actions.SuggestedAction
}

// New constructs an empty Store.
func New() *Store {
	return &Store{}
}

// Cases returns the cases.Repo view of the store.
func (s *Store) Cases() *CaseRepo { return &CaseRepo{s} }

// Documents returns the documents.Repo view of the store.
func (s *Store) Documents() *DocumentRepo { return &DocumentRepo{s} }

// Chat returns the chat.Repo view of the store.
func (s *Store) Chat() *ChatRepo { return &ChatRepo{s} }

// Extracted returns the extracted.Repo view of the store.
func (s *Store) Extracted() *ExtractedRepo { return &ExtractedRepo{s} }

// Actions returns the actions.Repo view of the store.
func (s *Store) Actions() *ActionRepo { return &ActionRepo{s} }

// Users returns the auth.UserRepo view of the store.
func (s *Store) Users() *UserRepo { return &UserRepo{s} }

// Sessions returns the auth.SessionRepo view of the store.
func (s *Store) Sessions() *SessionRepo { return &SessionRepo{s} }

// CaseRepo implements cases.Repo.
type CaseRepo struct{ s *Store }

func (r *CaseRepo) Create(_ context.Context, cs cases.Case) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.cases = append(r.s.cases, cs)
	return nil
}

func (r *CaseRepo) GetByID(_ context.Context, caseID string) (cases.Case, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, cs := range r.s.cases {
		if cs.ID == caseID {
			return cs, nil
		}
	}
	return cases.Case{}, cases.ErrNotFound
}

func (r *CaseRepo) ListByUser(_ context.Context, userID string) ([]cases.Case, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]cases.Case, 0)
	for i := len(r.s.cases) - 1; i >= 0; i-- {
		if r.s.cases[i].UserID == userID {
			out = append(out, r.s.cases[i])
		}
	}
	return out, nil
}

// Delete removes the case and everything hanging off it, mirroring the
// database's ON DELETE CASCADE chain.
func (r *CaseRepo) Delete(_ context.Context, caseID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	found := false
	kept := r.s.cases[:0]
	for _, cs := range r.s.cases {
		if cs.ID == caseID {
			found = true
			continue
		}
		kept = append(kept, cs)
	}
	if !found {
		return cases.ErrNotFound
	}
	r.s.cases = kept

	docIDs := map[string]bool{}
	docsKept := r.s.documents[:0]
	for _, d := range r.s.documents {
		if d.CaseID == caseID {
			docIDs[d.ID] = true
			continue
		}
		docsKept = append(docsKept, d)
	}
	r.s.documents = docsKept

	msgsKept := r.s.messages[:0]
	for _, m := range r.s.messages {
		if m.CaseID != caseID {
			msgsKept = append(msgsKept, m)
		}
	}
	r.s.messages = msgsKept

	extIDs := map[string]bool{}
	extKept := r.s.extracted[:0]
	for _, e := range r.s.extracted {
		if docIDs[e.DocumentID] {
			extIDs[e.ID] = true
			continue
		}
		extKept = append(extKept, e)
	}
	r.s.extracted = extKept

	actsKept := r.s.actions[:0]
	for _, a := range r.s.actions {
		if !extIDs[a.ExtractedDataID] {
			actsKept = append(actsKept, a)
		}
	}
	r.s.actions = actsKept
	return nil
}

// DocumentRepo implements documents.Repo.
type DocumentRepo struct{ s *Store }

func (r *DocumentRepo) Create(_ context.Context, doc documents.Document) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.documents = append(r.s.documents, doc)
	return nil
}

func (r *DocumentRepo) GetByID(_ context.Context, documentID string) (documents.Document, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, d := range r.s.documents {
		if d.ID == documentID {
			return d, nil
		}
	}
	return documents.Document{}, documents.ErrNotFound
}

func (r *DocumentRepo) ListByCase(_ context.Context, caseID string) ([]documents.Document, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]documents.Document, 0)
	for _, d := range r.s.documents {
		if d.CaseID == caseID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *DocumentRepo) CountByCase(_ context.Context, caseID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, d := range r.s.documents {
		if d.CaseID == caseID {
			n++
		}
	}
	return n, nil
}

func (r *DocumentRepo) Delete(_ context.Context, documentID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, d := range r.s.documents {
		if d.ID == documentID {
			r.s.documents = append(r.s.documents[:i], r.s.documents[i+1:]...)
			return nil
		}
	}
	return documents.ErrNotFound
}

// ChatRepo implements chat.Repo.
type ChatRepo struct{ s *Store }

func (r *ChatRepo) Create(_ context.Context, msg chat.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.messages = append(r.s.messages, msg)
	return nil
}

func (r *ChatRepo) ListByCase(_ context.Context, caseID string) ([]chat.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]chat.Message, 0)
	for _, m := range r.s.messages {
		if m.CaseID == caseID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *ChatRepo) Delete(_ context.Context, messageID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, m := range r.s.messages {
		if m.ID == messageID {
			r.s.messages = append(r.s.messages[:i], r.s.messages[i+1:]...)
			return nil
		}
	}
	return nil
}

// ExtractedRepo implements extracted.Repo.
type ExtractedRepo struct{ s *Store }

func (r *ExtractedRepo) Create(_ context.Context, data extracted.ExtractedData) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.extracted = append(r.s.extracted, data)
	return nil
}

func (r *ExtractedRepo) ListByCase(_ context.Context, caseID string) ([]extracted.WithDocument, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]extracted.WithDocument, 0)
	for i := len(r.s.extracted) - 1; i >= 0; i-- {
		e := r.s.extracted[i]
		doc, ok := r.s.findDocument(e.DocumentID)
		if !ok || doc.CaseID != caseID {
			continue
		}
		out = append(out, extracted.WithDocument{
			Extracted:    e,
			DocumentName: doc.FileName,
			CaseID:       doc.CaseID,
		})
	}
	return out, nil
}

func (r *ExtractedRepo) ListDeadlines(_ context.Context) ([]extracted.DeadlineView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]extracted.DeadlineView, 0)
	for _, e := range r.s.extracted {
		doc, ok := r.s.findDocument(e.DocumentID)
		if !ok {
			continue
		}
		cs, ok := r.s.findCase(doc.CaseID)
		if !ok {
			continue
		}
		for _, d := range e.Deadlines {
			out = append(out, extracted.DeadlineView{
				Deadline:     d,
				CaseID:       cs.ID,
				CaseName:     cs.Name,
				CaseNumber:   cs.CaseNumber,
				DocumentName: doc.FileName,
			})
		}
	}
	return out, nil
}

func (r *ExtractedRepo) Delete(_ context.Context, extractedID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, e := range r.s.extracted {
		if e.ID == extractedID {
			r.s.extracted = append(r.s.extracted[:i], r.s.extracted[i+1:]...)
			return nil
		}
	}
	return extracted.ErrNotFound
}

// ActionRepo implements actions.Repo.
type ActionRepo struct{ s *Store }

func (r *ActionRepo) Create(_ context.Context, action actions.SuggestedAction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.actions = append(r.s.actions, action)
	return nil
}

func (r *ActionRepo) UpdateStatus(_ context.Context, actionID, status string, updatedAt time.Time) (actions.SuggestedAction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.actions {
		if r.s.actions[i].ID == actionID {
			r.s.actions[i].Status = status
			r.s.actions[i].UpdatedAt = updatedAt
			return r.s.actions[i], nil
		}
	}
	return actions.SuggestedAction{}, actions.ErrNotFound
}

func (r *ActionRepo) Delete(_ context.Context, actionID string) (actions.SuggestedAction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, a := range r.s.actions {
		if a.ID == actionID {
			r.s.actions = append(r.s.actions[:i], r.s.actions[i+1:]...)
			return a, nil
		}
	}
	return actions.SuggestedAction{}, actions.ErrNotFound
}

func (r *ActionRepo) ListByCase(_ context.Context, caseID string) ([]actions.SuggestedAction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]actions.SuggestedAction, 0)
	for i := len(r.s.actions) - 1; i >= 0; i-- {
		a := r.s.actions[i]
		if r.s.actionCaseID(a) == caseID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *ActionRepo) ListApproved(_ context.Context) ([]actions.ApprovedView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]actions.ApprovedView, 0)
	for _, a := range r.s.actions {
		if a.Status != actions.StatusApproved {
			continue
		}
		ext, ok := r.s.findExtracted(a.ExtractedDataID)
		if !ok {
			continue
		}
		doc, ok := r.s.findDocument(ext.DocumentID)
		if !ok {
			continue
		}
		cs, ok := r.s.findCase(doc.CaseID)
		if !ok {
			continue
		}
		out = append(out, actions.ApprovedView{
			Action:       a,
			CaseID:       cs.ID,
			CaseName:     cs.Name,
			CaseNumber:   cs.CaseNumber,
			DocumentID:   doc.ID,
			DocumentName: doc.FileName,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Action.UpdatedAt.After(out[j].Action.UpdatedAt)
	})
	return out, nil
}

func (r *ActionRepo) CountPendingByCase(_ context.Context, caseID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, a := range r.s.actions {
		if a.Status == actions.StatusPending && r.s.actionCaseID(a) == caseID {
			n++
		}
	}
	return n, nil
}

// UserRepo implements auth.UserRepo.
type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, user auth.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users = append(r.s.users, user)
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, userID string) (auth.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.ID == userID {
			return u, nil
		}
	}
	return auth.User{}, auth.ErrNotFound
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (auth.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return auth.User{}, auth.ErrNotFound
}

// SessionRepo implements auth.SessionRepo.
type SessionRepo struct{ s *Store }

func (r *SessionRepo) Create(_ context.Context, sess auth.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sessions = append(r.s.sessions, sess)
	return nil
}

func (r *SessionRepo) Get(_ context.Context, token string) (auth.Session, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, sess := range r.s.sessions {
		if sess.Token == token {
			return sess, nil
		}
	}
	return auth.Session{}, auth.ErrInvalidSession
}

func (r *SessionRepo) Delete(_ context.Context, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, sess := range r.s.sessions {
		if sess.Token == token {
			r.s.sessions = append(r.s.sessions[:i], r.s.sessions[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *SessionRepo) DeleteExpired(_ context.Context, now time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.sessions[:0]
	for _, sess := range r.s.sessions {
		if sess.ExpiresAt.After(now) {
			kept = append(kept, sess)
		}
	}
	r.s.sessions = kept
	return nil
}

// lookup helpers; callers hold the lock.

func (s *Store) findDocument(id string) (documents.Document, bool) {
	for _, d := range s.documents {
		if d.ID == id {
			return d, true
		}
	}
	return documents.Document{}, false
}

func (s *Store) findCase(id string) (cases.Case, bool) {
	for _, cs := range s.cases {
		if cs.ID == id {
			return cs, true
		}
	}
	return cases.Case{}, false
}

func (s *Store) findExtracted(id string) (extracted.ExtractedData, bool) {
	for _, e := range s.extracted {
		if e.ID == id {
			return e, true
		}
	}
	return extracted.ExtractedData{}, false
}

func (s *Store) actionCaseID(a actions.SuggestedAction) string {
	ext, ok := s.findExtracted(a.ExtractedDataID)
	if !ok {
		return ""
	}
	doc, ok := s.findDocument(ext.DocumentID)
	if !ok {
		return ""
	}
	return doc.CaseID
}
