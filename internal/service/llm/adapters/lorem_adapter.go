package adapters

import (
	"context"
	"strings"

	llmprovider "github.com/haowjy/meridian-llm-go"
	"github.com/haowjy/meridian-llm-go/providers/lorem"

	domainllm "dossier/internal/domain/services/llm"
)

// LoremAdapter wraps the library's Lorem provider behind the text
// completion interface. It produces deterministic-shaped filler text
// without a running model daemon, which makes it the offline backend
// for dry runs and placeholder document content.
type LoremAdapter struct {
	provider llmprovider.Provider
}

// NewLoremAdapter creates a new Lorem adapter using the library's provider.
func NewLoremAdapter() *LoremAdapter {
	return &LoremAdapter{
		provider: lorem.NewProvider(),
	}
}

// Name returns the provider name.
func (a *LoremAdapter) Name() string {
	return a.provider.Name().String()
}

// SupportsModel returns true if this provider supports the given model.
func (a *LoremAdapter) SupportsModel(model string) bool {
	return a.provider.SupportsModel(model)
}

// Complete sends the prompt to the Lorem provider and flattens the
// block response into plain text.
func (a *LoremAdapter) Complete(ctx context.Context, req *domainllm.CompletionRequest) (*domainllm.CompletionResponse, error) {
	libReq := toLibraryRequest(req)

	libResp, err := a.provider.GenerateResponse(ctx, libReq)
	if err != nil {
		return nil, err
	}

	return fromLibraryResponse(libResp), nil
}

// toLibraryRequest wraps a single prompt as a one-message conversation,
// which is the shape the library expects.
func toLibraryRequest(req *domainllm.CompletionRequest) *llmprovider.GenerateRequest {
	text := req.Prompt
	block := &llmprovider.Block{
		BlockType:   "text",
		Sequence:    0,
		TextContent: &text,
	}
	return &llmprovider.GenerateRequest{
		Messages: []llmprovider.Message{
			{Role: "user", Blocks: []*llmprovider.Block{block}},
		},
		Model: req.Model,
	}
}

// fromLibraryResponse concatenates the text blocks of a library
// response into a single completion string.
func fromLibraryResponse(resp *llmprovider.GenerateResponse) *domainllm.CompletionResponse {
	var b strings.Builder
	for _, block := range resp.Blocks {
		if block.BlockType == "text" && block.TextContent != nil {
			b.WriteString(*block.TextContent)
		}
	}
	return &domainllm.CompletionResponse{
		Text:         b.String(),
		Model:        resp.Model,
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
	}
}
