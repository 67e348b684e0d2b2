package structure

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"dossier/internal/domain"
	models "dossier/internal/domain/models/structure"
	domainllm "dossier/internal/domain/services/llm"
	domainstructure "dossier/internal/domain/services/structure"
	"dossier/internal/locale"
)

// Sampling temperatures. Repairs run cooler than first attempts so a
// model that produced prose gets nudged toward literal JSON.
const (
	baseTemperature  = 0.7
	temperatureStep  = 0.3
	floorTemperature = 0.1
)

// Enforcer drives a single prompt exchange until the response honors
// its JSON contract, or the repair budget runs out. Each repair embeds
// the rejected response in a localized fix-it prompt rather than
// resending the original, so the model sees what it got wrong.
type Enforcer struct {
	provider   domainllm.Provider
	resolver   *locale.Resolver
	maxRepairs int
	logger     *slog.Logger
}

func NewEnforcer(provider domainllm.Provider, resolver *locale.Resolver, maxRepairs int, logger *slog.Logger) *Enforcer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enforcer{
		provider:   provider,
		resolver:   resolver,
		maxRepairs: maxRepairs,
		logger:     logger,
	}
}

// Demand sends prompt for gc's model and returns the decoded top-level
// object once it carries every required key. Transport and availability
// errors pass through untouched; contract violations consume repair
// attempts and surface as RepairExhaustedError when the budget is gone.
func (e *Enforcer) Demand(ctx context.Context, gc *models.GenerationContext, prompt string, spec domainstructure.ContractSpec) (map[string]json.RawMessage, error) {
	attempts := e.maxRepairs + 1
	temperature := baseTemperature

	nextPrompt := prompt
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := e.provider.Complete(ctx, &domainllm.CompletionRequest{
			Model:       gc.Model,
			Prompt:      nextPrompt,
			Temperature: temperature,
		})
		if err != nil {
			// Not a contract problem: repairing cannot help.
			return nil, err
		}

		obj, err := e.accept(resp.Text, spec)
		if err == nil {
			if attempt > 0 {
				e.logger.Info("response repaired", "attempts", attempt+1)
			}
			return obj, nil
		}
		lastErr = err
		e.logger.Warn("response rejected",
			"attempt", attempt+1,
			"of", attempts,
			"error", err,
		)

		fix, fixErr := e.resolver.Resolve("json_fix", gc.Language, map[string]string{
			"response":      resp.Text,
			"required_keys": strings.Join(spec.RequiredKeys, ", "),
		})
		if fixErr != nil {
			return nil, fixErr
		}
		// Repairs are where models drift into a fallback language, so
		// the fix prompt restates the naming language.
		constraint, fixErr := e.resolver.Resolve("naming_constraint", gc.Language, nil)
		if fixErr != nil {
			return nil, fixErr
		}
		nextPrompt = fix + constraint
		temperature -= temperatureStep
		if temperature < floorTemperature {
			temperature = floorTemperature
		}
	}

	return nil, &domain.RepairExhaustedError{Attempts: attempts, Last: lastErr}
}

// accept runs the full parse-and-check pipeline on one response.
func (e *Enforcer) accept(text string, spec domainstructure.ContractSpec) (map[string]json.RawMessage, error) {
	candidate, err := ExtractObject(text)
	if err != nil {
		return nil, err
	}
	obj, err := decodeObject(candidate)
	if err != nil {
		return nil, err
	}
	if err := checkKeys(obj, spec); err != nil {
		return nil, err
	}
	return obj, nil
}
