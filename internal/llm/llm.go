// Package llm defines the client interfaces the describe and report services
// consume. Adapters live in subpackages, one per hosted provider.
package llm

import (
	"context"
	"errors"
)

// ErrUnavailable marks transport, HTTP, or provider-side failures reaching a
// model service. Adapters wrap it so callers can classify failures with
// errors.Is without knowing the provider.
var ErrUnavailable = errors.New("model service unavailable")

// CompletionRequest is a single-turn text completion.
type CompletionRequest struct {
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int
}

// VisionRequest is a single-turn instruction paired with one inline image.
type VisionRequest struct {
	Prompt      string
	ImageData   []byte
	MimeType    string
	Temperature float32
	MaxTokens   int
}

// TextCompleter produces one free-text completion for a prompt.
type TextCompleter interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// VisionCompleter produces one free-text completion for a prompt plus image.
type VisionCompleter interface {
	CompleteVision(ctx context.Context, req VisionRequest) (string, error)
}
