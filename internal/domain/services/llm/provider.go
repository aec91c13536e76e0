package llm

import (
	"context"

	"clarity/internal/domain/models/insight"
)

// Provider is the bounded-context inference service behind one vendor.
// The core never assumes a call succeeds: any invocation may fail with a
// network, availability or validation error, and the caller records that
// per batch instead of aborting the run.
type Provider interface {
	// Complete sends one prompt and returns the raw completion. The
	// response text is expected to be a JSON document conforming to
	// req.Schema; validating that is the caller's job.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name (e.g. "anthropic", "lorem")
	Name() string

	// SupportsModel returns true if the provider serves the given model.
	SupportsModel(model string) bool
}

// CompletionRequest is one inference call: a prompt for a single batch
// plus the level's result schema.
type CompletionRequest struct {
	// Model is the model identifier (e.g. "claude-haiku-4-5")
	Model string

	// System is the per-level instruction preamble.
	System string

	// Prompt is the rendered batch payload.
	Prompt string

	// Schema describes the JSON shape the completion must conform to.
	Schema insight.SchemaDescriptor

	// MaxTokens bounds the completion length. Zero means the provider
	// default.
	MaxTokens int
}

// CompletionResponse is the provider's reply.
type CompletionResponse struct {
	// Text is the completion body, expected to contain the JSON result.
	Text string

	// Model is the model that served the request.
	Model string

	InputTokens  int
	OutputTokens int

	// StopReason indicates why generation stopped (e.g. "end_turn").
	StopReason string
}
