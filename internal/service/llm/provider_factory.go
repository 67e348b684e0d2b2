package llm

import (
	"fmt"

	"dossier/internal/config"
	domainllm "dossier/internal/domain/services/llm"
	"dossier/internal/service/llm/adapters"
	"dossier/internal/service/llm/providers/ollama"
)

// ProviderFactory creates provider instances by name.
type ProviderFactory struct {
	config *config.Config
}

// NewProviderFactory creates a new provider factory.
func NewProviderFactory(cfg *config.Config) *ProviderFactory {
	return &ProviderFactory{
		config: cfg,
	}
}

// GetProvider returns a provider instance for the given provider name
//
// Supported providers:
//   - "ollama" - locally served models via the Ollama daemon
//   - "lorem" - offline filler text provider, no daemon required
func (f *ProviderFactory) GetProvider(providerName string) (domainllm.Provider, error) {
	switch providerName {
	case "ollama":
		return f.createOllamaProvider(0), nil

	case "lorem":
		return adapters.NewLoremAdapter(), nil

	default:
		return nil, fmt.Errorf("unsupported provider: %s", providerName)
	}
}

// ProviderForModel parses the model string and returns the provider
// that serves it together with the bare model name. maxRetries bounds
// transport retries for this provider instance; zero falls back to the
// configured default.
func (f *ProviderFactory) ProviderForModel(modelStr string, maxRetries int) (domainllm.Provider, string, error) {
	info, err := ParseModel(modelStr)
	if err != nil {
		return nil, "", err
	}
	if info.Provider == "ollama" {
		return f.createOllamaProvider(maxRetries), info.Model, nil
	}
	p, err := f.GetProvider(info.Provider)
	if err != nil {
		return nil, "", err
	}
	return p, info.Model, nil
}

func (f *ProviderFactory) createOllamaProvider(maxRetries int) domainllm.Provider {
	if maxRetries <= 0 {
		maxRetries = f.config.MaxTransportRetries
	}
	return ollama.NewClient(
		f.config.OllamaBaseURL,
		ollama.WithTimeout(f.config.RequestTimeout),
		ollama.WithMaxRetries(maxRetries),
	)
}
