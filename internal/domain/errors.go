package domain

import (
	"errors"
	"fmt"
)

// Domain error types for the generation pipeline. Typed errors carry the
// context a caller needs to decide between retrying, repairing, or
// aborting the run; sentinel errors support errors.Is checks across
// package boundaries.
type (
	// TemplateNotFoundError indicates a prompt template key exists in
	// neither the requested nor the default language bundle.
	TemplateNotFoundError struct {
		Key      string
		Language string
	}

	// MissingPlaceholderError indicates a template declares a placeholder
	// that was not supplied at resolution time.
	MissingPlaceholderError struct {
		Key         string
		Placeholder string
	}

	// TransportError indicates a retryable failure reaching the model
	// service (connection refused, timeout, malformed response).
	TransportError struct {
		Endpoint string
		Err      error
	}

	// ModelUnavailableError indicates the model service is reachable but
	// the requested model is not loaded. Not retryable within a step.
	ModelUnavailableError struct {
		Model string
	}

	// ParseError indicates the model response could not be decoded as JSON
	// even after stripping wrapper markers. Triggers the repair loop.
	ParseError struct {
		Err error
	}

	// SchemaError indicates decoded JSON that does not satisfy the step's
	// contract (missing required keys or malformed children). Triggers the
	// repair loop.
	SchemaError struct {
		MissingKeys []string
	}

	// RepairExhaustedError is the terminal failure of one generation step
	// after the repair budget is spent.
	RepairExhaustedError struct {
		Attempts int
		Last     error
	}

	// PersistenceError indicates the metadata record or tree output could
	// not be written or read. Fatal to the run.
	PersistenceError struct {
		Path string
		Err  error
	}
)

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("template %q not found for language %q or the default language", e.Key, e.Language)
}

func (e *MissingPlaceholderError) Error() string {
	return fmt.Sprintf("template %q: no value supplied for placeholder %q", e.Key, e.Placeholder)
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("model service transport failure (%s): %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *ModelUnavailableError) Error() string {
	return fmt.Sprintf("model %q is not available on the service", e.Model)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("response is not valid JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *SchemaError) Error() string {
	return fmt.Sprintf("response JSON is missing required keys: %v", e.MissingKeys)
}

func (e *RepairExhaustedError) Error() string {
	return fmt.Sprintf("step failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *RepairExhaustedError) Unwrap() error { return e.Last }

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure at %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation failed")
	ErrTransport   = errors.New("transport failure")
	ErrUnavailable = errors.New("model unavailable")
	ErrContract    = errors.New("response contract violated")
)

// Is implementations so the typed errors match their sentinels.
func (e *TemplateNotFoundError) Is(target error) bool { return target == ErrNotFound }
func (e *TransportError) Is(target error) bool        { return target == ErrTransport }
func (e *ModelUnavailableError) Is(target error) bool { return target == ErrUnavailable }
func (e *ParseError) Is(target error) bool            { return target == ErrContract }
func (e *SchemaError) Is(target error) bool           { return target == ErrContract }
