package structure

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Generation limits applied when the caller does not override them.
const (
	DefaultConcurrency         = 4
	DefaultMaxRepairs          = 2
	DefaultMaxTransportRetries = 3
	DefaultLanguage            = "en"
)

// Overrides carries the explicitly supplied parameters for a run. Zero
// values mean "not supplied" and defer to persisted metadata, then to
// defaults.
type Overrides struct {
	Industry  string
	Role      string
	Language  string
	Model     string
	DateStart time.Time
	DateEnd   time.Time
	Sample    string

	Concurrency         int
	MaxRepairs          int
	MaxTransportRetries int
}

// GenerationContext is the fully resolved parameter set a run executes
// under. It is immutable once constructed.
type GenerationContext struct {
	Industry  string
	Role      string
	Language  string
	Model     string
	DateStart time.Time
	DateEnd   time.Time
	Sample    string

	Concurrency         int
	MaxRepairs          int
	MaxTransportRetries int
}

// NewGenerationContext merges explicit overrides with previously
// persisted metadata. Explicit values win; metadata fills the gaps;
// anything still unset falls back to defaults. Industry must be present
// from one of the two sources.
func NewGenerationContext(o Overrides, meta *Metadata) (*GenerationContext, error) {
	gc := &GenerationContext{
		Industry:            o.Industry,
		Role:                o.Role,
		Language:            o.Language,
		Model:               o.Model,
		DateStart:           o.DateStart,
		DateEnd:             o.DateEnd,
		Sample:              o.Sample,
		Concurrency:         o.Concurrency,
		MaxRepairs:          o.MaxRepairs,
		MaxTransportRetries: o.MaxTransportRetries,
	}
	if meta != nil {
		if gc.Industry == "" {
			gc.Industry = meta.Industry
		}
		if gc.Role == "" {
			gc.Role = meta.Role
		}
		if gc.Language == "" {
			gc.Language = meta.Language
		}
		if gc.Model == "" {
			gc.Model = meta.Model
		}
		if gc.DateStart.IsZero() {
			gc.DateStart = meta.DateStart
		}
		if gc.DateEnd.IsZero() {
			gc.DateEnd = meta.DateEnd
		}
	}
	gc.applyDefaults()
	if err := gc.Validate(); err != nil {
		return nil, err
	}
	return gc, nil
}

// NewEditContext builds a context for edit runs. Edits never consult
// persisted metadata: role and date range come from the overrides alone.
func NewEditContext(o Overrides) (*GenerationContext, error) {
	return NewGenerationContext(o, nil)
}

func (gc *GenerationContext) applyDefaults() {
	if gc.Language == "" {
		gc.Language = DefaultLanguage
	}
	if gc.Concurrency <= 0 {
		gc.Concurrency = DefaultConcurrency
	}
	if gc.MaxRepairs <= 0 {
		gc.MaxRepairs = DefaultMaxRepairs
	}
	if gc.MaxTransportRetries <= 0 {
		gc.MaxTransportRetries = DefaultMaxTransportRetries
	}
	if gc.DateStart.IsZero() && !gc.DateEnd.IsZero() {
		gc.DateStart = gc.DateEnd
	}
	if gc.DateEnd.IsZero() && !gc.DateStart.IsZero() {
		gc.DateEnd = gc.DateStart
	}
}

// Validate checks the resolved context for internal consistency.
func (gc *GenerationContext) Validate() error {
	err := validation.ValidateStruct(gc,
		validation.Field(&gc.Industry, validation.Required),
		validation.Field(&gc.Language, validation.Required),
	)
	if err != nil {
		return err
	}
	if !gc.DateStart.IsZero() && gc.DateEnd.Before(gc.DateStart) {
		return fmt.Errorf("date range ends (%s) before it starts (%s)",
			gc.DateEnd.Format("2006-01-02"), gc.DateStart.Format("2006-01-02"))
	}
	return nil
}

// HasDateRange reports whether the run is dated.
func (gc *GenerationContext) HasDateRange() bool {
	return !gc.DateStart.IsZero()
}

// SpansMultipleMonths reports whether the date range crosses a month
// boundary, which triggers period-aware naming in prompts.
func (gc *GenerationContext) SpansMultipleMonths() bool {
	if !gc.HasDateRange() {
		return false
	}
	return gc.DateStart.Year() != gc.DateEnd.Year() || gc.DateStart.Month() != gc.DateEnd.Month()
}
