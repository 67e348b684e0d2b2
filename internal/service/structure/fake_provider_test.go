package structure

import (
	"context"
	"sync"

	domainllm "dossier/internal/domain/services/llm"
)

// fakeProvider answers completions from a reply function. It records
// every prompt it sees so tests can assert on call counts and content.
type fakeProvider struct {
	mu    sync.Mutex
	calls []string
	reply func(prompt string, call int) (string, error)
}

func (f *fakeProvider) Complete(ctx context.Context, req *domainllm.CompletionRequest) (*domainllm.CompletionResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.calls = append(f.calls, req.Prompt)
	call := len(f.calls)
	f.mu.Unlock()

	text, err := f.reply(req.Prompt, call)
	if err != nil {
		return nil, err
	}
	return &domainllm.CompletionResponse{Text: text, Model: req.Model}, nil
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) SupportsModel(model string) bool { return true }

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeProvider) lastCall() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return ""
	}
	return f.calls[len(f.calls)-1]
}
