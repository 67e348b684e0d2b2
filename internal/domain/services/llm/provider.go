package llm

import "context"

// Provider abstracts a text completion backend. Implementations live in
// internal/service/llm and are selected by model name.
type Provider interface {
	// Complete sends a single prompt and returns the model's text.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider's identifier for logging.
	Name() string

	// SupportsModel reports whether this provider can serve the model.
	SupportsModel(model string) bool
}

// CompletionRequest is a single prompt exchange. Temperature is an
// absolute value; zero means provider default.
type CompletionRequest struct {
	Model       string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// CompletionResponse carries the raw model text plus accounting fields.
type CompletionResponse struct {
	Text         string
	Model        string
	InputTokens  int
	OutputTokens int
}
