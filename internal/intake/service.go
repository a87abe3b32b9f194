package intake

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"casefile-backend/internal/actions"
	"casefile-backend/internal/analysis"
	"casefile-backend/internal/cases"
	"casefile-backend/internal/chat"
	"casefile-backend/internal/documents"
	"casefile-backend/internal/extract"
	"casefile-backend/internal/extracted"
	"casefile-backend/internal/shared/storage/object"
	"casefile-backend/internal/shared/telemetry"
)

// ErrEmptyBatch is returned when an upload carries no files.
var ErrEmptyBatch = errors.New("no files uploaded")

// UnreadableError reports a file whose decoded text is too thin to analyze.
type UnreadableError struct {
	FileName string
}

func (e *UnreadableError) Error() string {
	return fmt.Sprintf("could not extract text from %s", e.FileName)
}

// minTextLength is the smallest decoded text accepted for analysis.
const minTextLength = 50

// UploadFile is one file of an intake batch as received over HTTP.
type UploadFile struct {
	FileName string
	MimeType string
	Data     []byte
}

// Result is everything one successful ingest produced.
type Result struct {
	Documents []documents.Document      `json:"documents"`
	Extracted extracted.ExtractedData   `json:"extracted"`
	Actions   []actions.SuggestedAction `json:"actions"`
	Message   chat.Message              `json:"message"`
}

// Analyzer turns a prepared batch into a structured analysis.
type Analyzer interface {
	Analyze(ctx context.Context, files []analysis.BatchFile, instructions string) (analysis.DocumentAnalysis, error)
}

// Service orchestrates the document intake pipeline: store blobs, record
// documents, run extraction and analysis, and persist the derived rows. A
// failure at any step undoes everything the batch created.
type Service struct {
	Cases     cases.Repo
	Docs      documents.Repo
	Chat      chat.Repo
	Extracted extracted.Repo
	Actions   actions.Repo
	Store     object.ObjectStore
	Analyzer  Analyzer
}

// Ingest runs the full pipeline for one upload batch.
func (s *Service) Ingest(ctx context.Context, caseID string, files []UploadFile, instructions string) (Result, error) {
	if len(files) == 0 {
		return Result{}, ErrEmptyBatch
	}
	if _, err := s.Cases.GetByID(ctx, caseID); err != nil {
		return Result{}, err
	}
	instructions = strings.TrimSpace(instructions)

	var undo undoLog
	res, err := s.ingest(ctx, caseID, files, instructions, &undo)
	if err != nil {
		undo.run(caseID, s)
		return Result{}, err
	}
	return res, nil
}

func (s *Service) ingest(ctx context.Context, caseID string, files []UploadFile, instructions string, undo *undoLog) (Result, error) {
	// Blobs and document rows are written in upload order so the first
	// document anchors the batch's extraction record.
	docs := make([]documents.Document, 0, len(files))
	for _, f := range files {
		key, size, sniffed, err := s.Store.Save(ctx, caseID, f.FileName, bytes.NewReader(f.Data))
		if err != nil {
			return Result{}, fmt.Errorf("store %s: %w", f.FileName, err)
		}
		undo.blobs = append(undo.blobs, key)

		// The row keeps the media type the client declared; the store's
		// content sniff only fills in when the upload carried none.
		fileType := strings.TrimSpace(f.MimeType)
		if fileType == "" {
			fileType = sniffed
		}

		doc := documents.Document{
			ID:         uuid.NewString(),
			CaseID:     caseID,
			FileName:   f.FileName,
			FileType:   fileType,
			FileSize:   size,
			StorageKey: key,
			UploadedAt: time.Now().UTC(),
		}
		if err := s.Docs.Create(ctx, doc); err != nil {
			return Result{}, err
		}
		undo.docIDs = append(undo.docIDs, doc.ID)
		docs = append(docs, doc)
	}

	batch, err := s.prepareBatch(ctx, files)
	if err != nil {
		return Result{}, err
	}

	uploadMsg := chat.Message{
		ID:        uuid.NewString(),
		CaseID:    caseID,
		Role:      chat.RoleUser,
		Content:   uploadSummary(files, instructions),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Chat.Create(ctx, uploadMsg); err != nil {
		return Result{}, err
	}
	undo.msgIDs = append(undo.msgIDs, uploadMsg.ID)

	result, err := s.Analyzer.Analyze(ctx, batch, instructions)
	if err != nil {
		return Result{}, err
	}

	ext := extracted.ExtractedData{
		ID:          uuid.NewString(),
		DocumentID:  docs[0].ID,
		CaseNumber:  result.CaseNumber,
		Parties:     result.Parties,
		Deadlines:   toDeadlines(result.Deadlines),
		KeyFacts:    result.KeyFacts,
		Confidence:  result.Confidence,
		ExtractedAt: time.Now().UTC(),
	}
	if err := s.Extracted.Create(ctx, ext); err != nil {
		return Result{}, err
	}
	undo.extractedIDs = append(undo.extractedIDs, ext.ID)

	acts := make([]actions.SuggestedAction, 0, len(result.SuggestedActions))
	for _, sa := range result.SuggestedActions {
		now := time.Now().UTC()
		act := actions.SuggestedAction{
			ID:              uuid.NewString(),
			ExtractedDataID: ext.ID,
			Title:           sa.Title,
			Description:     sa.Description,
			Rationale:       sa.Rationale,
			Priority:        sa.Priority,
			Status:          actions.StatusPending,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := s.Actions.Create(ctx, act); err != nil {
			return Result{}, err
		}
		undo.actionIDs = append(undo.actionIDs, act.ID)
		acts = append(acts, act)
	}

	content := result.ConversationalResponse
	if content == "" {
		content = analysisSummary(len(files))
	}
	analysisMsg := chat.Message{
		ID:         uuid.NewString(),
		CaseID:     caseID,
		Role:       chat.RoleAssistant,
		Content:    content,
		IsAnalysis: true,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.Chat.Create(ctx, analysisMsg); err != nil {
		return Result{}, err
	}
	undo.msgIDs = append(undo.msgIDs, analysisMsg.ID)

	telemetry.Info("intake.batch_complete", map[string]any{
		"case_id":   caseID,
		"documents": len(docs),
		"actions":   len(acts),
	})

	return Result{Documents: docs, Extracted: ext, Actions: acts, Message: analysisMsg}, nil
}

// prepareBatch decodes every file concurrently, keeping upload order. Formats
// the model reads natively skip decoding; everything else must yield enough
// text to be worth analyzing.
func (s *Service) prepareBatch(ctx context.Context, files []UploadFile) ([]analysis.BatchFile, error) {
	batch := make([]analysis.BatchFile, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			if extract.NativeCapable(f.MimeType) {
				batch[i] = analysis.BatchFile{FileName: f.FileName, MimeType: f.MimeType, Native: f.Data}
				return nil
			}
			res, err := extract.FromBytes(gctx, f.Data, f.MimeType, f.FileName, true)
			if err != nil {
				return fmt.Errorf("extract %s: %w", f.FileName, err)
			}
			if len(strings.TrimSpace(res.Text)) < minTextLength {
				return &UnreadableError{FileName: f.FileName}
			}
			batch[i] = analysis.BatchFile{FileName: f.FileName, MimeType: f.MimeType, Text: res.Text}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return batch, nil
}

// undoLog records everything a batch created so a failure can remove it all.
type undoLog struct {
	blobs        []string
	docIDs       []string
	msgIDs       []string
	extractedIDs []string
	actionIDs    []string
}

// run deletes in reverse dependency order with a fresh context so cleanup
// still happens when the request context is already dead.
func (u *undoLog) run(caseID string, s *Service) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, id := range u.actionIDs {
		if _, err := s.Actions.Delete(ctx, id); err != nil {
			logUndoFailure(caseID, "action", id, err)
		}
	}
	for _, id := range u.extractedIDs {
		if err := s.Extracted.Delete(ctx, id); err != nil {
			logUndoFailure(caseID, "extracted_data", id, err)
		}
	}
	for _, id := range u.msgIDs {
		if err := s.Chat.Delete(ctx, id); err != nil {
			logUndoFailure(caseID, "chat_message", id, err)
		}
	}
	for _, id := range u.docIDs {
		if err := s.Docs.Delete(ctx, id); err != nil {
			logUndoFailure(caseID, "document", id, err)
		}
	}
	for _, key := range u.blobs {
		if err := s.Store.Delete(ctx, key); err != nil {
			logUndoFailure(caseID, "blob", key, err)
		}
	}
}

func logUndoFailure(caseID, kind, id string, err error) {
	telemetry.Error("intake.rollback_failed", map[string]any{
		"case_id": caseID,
		"kind":    kind,
		"id":      id,
		"error":   err.Error(),
	})
}

func uploadSummary(files []UploadFile, instructions string) string {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.FileName
	}
	msg := fmt.Sprintf("Uploaded %d %s: %s", len(files), plural(len(files), "document"), strings.Join(names, ", "))
	if instructions != "" {
		msg += "\nInstructions: " + instructions
	}
	return msg
}

func analysisSummary(n int) string {
	return fmt.Sprintf("Analysis complete! I've extracted key information from %d %s. "+
		"Please review the extracted data in the documents and approve or reject the suggested actions.",
		n, plural(n, "document"))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func toDeadlines(in []analysis.Deadline) []extracted.Deadline {
	out := make([]extracted.Deadline, len(in))
	for i, d := range in {
		out[i] = extracted.Deadline{Date: d.Date, Description: d.Description, Priority: d.Priority}
	}
	return out
}
