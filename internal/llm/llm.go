package llm

import (
	"context"
	"errors"
)

// Attachment is a binary payload forwarded natively to the model, used for
// formats where visual layout carries information (e.g. PDFs).
type Attachment struct {
	FileName string
	MimeType string
	Data     []byte
}

// Client abstracts generative model providers. Generate submits one prompt
// plus optional native attachments and returns the model's text response.
type Client interface {
	Generate(ctx context.Context, prompt string, attachments []Attachment) (string, error)
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("llm client not configured")

// PlaceholderClient is a stub implementation until provider wiring is added.
type PlaceholderClient struct{}

// Generate returns ErrNotConfigured.
func (PlaceholderClient) Generate(ctx context.Context, prompt string, attachments []Attachment) (string, error) {
	_ = ctx
	_ = prompt
	_ = attachments
	return "", ErrNotConfigured
}
