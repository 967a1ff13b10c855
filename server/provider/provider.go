// Package provider wraps the external generative-AI backend behind a small
// interface. The adapter is intentionally thin: it sends a prompt (plus an
// optional inline image) and hands back the raw reply text. It never
// interprets or validates the reply's contents beyond checking non-emptiness;
// that is the normalizer's job.
package provider

import (
	"context"
	"errors"
)

// ErrEmptyReply is returned when the model produced no text at all.
var ErrEmptyReply = errors.New("empty reply from model")

// Provider is the contract the rest of the server programs against.
// Implementations must be safe for concurrent use; one Provider is shared by
// every in-flight request.
type Provider interface {
	// Analyze sends the prompt and optional inline image bytes to the model
	// and returns the raw text of its single reply. mime tags the image part
	// and is ignored when image is empty. Network failures, backend auth
	// failures, context expiry, and empty replies all surface as errors; no
	// retry, no partial result.
	Analyze(ctx context.Context, prompt string, image []byte, mime string) (string, error)

	// Name identifies the backend (e.g. "gemini") for logs and metrics.
	Name() string

	// Model returns the configured model identifier.
	Model() string
}
