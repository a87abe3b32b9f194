package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"casefile-backend/internal/llm"
	"casefile-backend/internal/shared/telemetry"
)

// Requester turns an intake batch into a structured DocumentAnalysis by
// calling the model once for the whole batch.
type Requester struct {
	LLM llm.Client
}

// Analyze submits all files of a batch in one model call and parses the
// structured result. When instructions are present, a second call produces a
// conversational restatement; its failure never fails the batch.
func (r *Requester) Analyze(ctx context.Context, files []BatchFile, instructions string) (DocumentAnalysis, error) {
	if r.LLM == nil {
		return DocumentAnalysis{}, llm.ErrNotConfigured
	}
	if len(files) == 0 {
		return DocumentAnalysis{}, errors.New("no files to analyze")
	}

	var attachments []llm.Attachment
	for _, f := range files {
		if len(f.Native) > 0 {
			attachments = append(attachments, llm.Attachment{
				FileName: f.FileName,
				MimeType: f.MimeType,
				Data:     f.Native,
			})
		}
	}

	prompt := buildBatchPrompt(files, instructions)
	text, err := r.LLM.Generate(ctx, prompt, attachments)
	if err != nil {
		return DocumentAnalysis{}, fmt.Errorf("analysis request: %w", err)
	}

	result, err := parseAnalysis(text)
	if err != nil {
		return DocumentAnalysis{}, err
	}

	if strings.TrimSpace(instructions) != "" {
		reply, err := r.LLM.Generate(ctx, buildConversationalPrompt(result, instructions), nil)
		if err != nil {
			// The extraction already succeeded; the caller falls back to a
			// templated summary.
			telemetry.Error("analysis.conversational_failed", map[string]any{"error": err.Error()})
		} else {
			result.ConversationalResponse = strings.TrimSpace(reply)
		}
	}

	return result, nil
}

// Reply produces a single conversational assistant response for case chat.
func (r *Requester) Reply(ctx context.Context, message string) (string, error) {
	if r.LLM == nil {
		return "", llm.ErrNotConfigured
	}
	text, err := r.LLM.Generate(ctx, buildChatPrompt(message), nil)
	if err != nil {
		return "", fmt.Errorf("chat reply: %w", err)
	}
	return strings.TrimSpace(text), nil
}
