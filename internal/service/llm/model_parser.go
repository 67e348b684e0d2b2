package llm

import (
	"fmt"
	"strings"
)

// ModelInfo contains parsed provider and model information
type ModelInfo struct {
	Provider string // Provider name: "ollama", "lorem"
	Model    string // Model identifier for that provider
}

// ParseModel extracts provider information from a model string
//
// Supported formats:
//   - "llama3.2" → {Provider: "ollama", Model: "llama3.2"}
//   - "lorem-fast" → {Provider: "lorem", Model: "lorem-fast"}
//   - "ollama/mistral:7b" → {Provider: "ollama", Model: "mistral:7b"}
//
// Rules:
//   - If model contains "/" → split on first "/" to extract provider
//   - Else → infer provider from model prefix, defaulting to ollama
func ParseModel(modelStr string) (*ModelInfo, error) {
	if modelStr == "" {
		return nil, fmt.Errorf("model string cannot be empty")
	}

	// Check if provider is explicitly specified (contains "/")
	if strings.Contains(modelStr, "/") {
		parts := strings.SplitN(modelStr, "/", 2)
		provider := parts[0]
		model := parts[1]

		if provider == "" {
			return nil, fmt.Errorf("provider cannot be empty in model string: %s", modelStr)
		}
		if model == "" {
			return nil, fmt.Errorf("model cannot be empty in model string: %s", modelStr)
		}

		return &ModelInfo{
			Provider: provider,
			Model:    model,
		}, nil
	}

	return &ModelInfo{
		Provider: inferProvider(modelStr),
		Model:    modelStr,
	}, nil
}

// inferProvider infers the provider from the model name prefix. Any
// locally served model name routes to ollama.
func inferProvider(model string) string {
	modelLower := strings.ToLower(model)

	if modelLower == "lorem" || strings.HasPrefix(modelLower, "lorem-") {
		return "lorem"
	}

	return "ollama"
}
