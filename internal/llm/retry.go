package llm

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"casefile-backend/internal/shared/telemetry"
)

const retryBaseDelay = 300 * time.Millisecond

type retryingClient struct {
	base    Client
	timeout time.Duration
}

// WithRetry wraps a client with a per-call timeout and a single retry on
// transient network failures. Malformed model output is never retried here.
func WithRetry(base Client, timeout time.Duration) Client {
	if base == nil {
		return nil
	}
	return retryingClient{base: base, timeout: timeout}
}

func (r retryingClient) Generate(ctx context.Context, prompt string, attachments []Attachment) (string, error) {
	resp, err := r.generateOnce(ctx, prompt, attachments)
	if err == nil || !shouldRetry(err) {
		return resp, err
	}

	telemetry.Error("llm.retry", map[string]any{"attempt": 1, "error": err.Error()})
	select {
	case <-time.After(retryBaseDelay):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	return r.generateOnce(ctx, prompt, attachments)
}

func (r retryingClient) generateOnce(ctx context.Context, prompt string, attachments []Attachment) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return r.base.Generate(ctx, prompt, attachments)
}

func shouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "http status 5") || strings.Contains(msg, "unavailable") {
		return true
	}
	if strings.Contains(msg, "timeout") && (strings.Contains(msg, "llm") || strings.Contains(msg, "client.timeout")) {
		return true
	}
	if strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection closed") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "tls handshake timeout") ||
		strings.Contains(msg, "eof") {
		return true
	}

	return false
}
