package batch

import (
	"fmt"
	"io"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	models "dossier/internal/domain/models/structure"
)

// dateLayout is the wire format for dates in plan files.
const dateLayout = "2006-01-02"

// Run describes one generation in a plan file.
type Run struct {
	Output    string `yaml:"output"`
	Industry  string `yaml:"industry"`
	Role      string `yaml:"role"`
	Language  string `yaml:"language"`
	Model     string `yaml:"model"`
	DateStart string `yaml:"date_start"`
	DateEnd   string `yaml:"date_end"`
	Sample    string `yaml:"sample"`
}

// Plan is a sequence of runs executed in file order.
type Plan struct {
	Runs []Run `yaml:"runs"`
}

// Load reads and validates a plan file.
func Load(path string) (*Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	plan, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("plan %s: %w", path, err)
	}
	return plan, nil
}

// Parse decodes a plan and rejects one that could not execute.
func Parse(r io.Reader) (*Plan, error) {
	var plan Plan
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&plan); err != nil {
		return nil, fmt.Errorf("decoding plan: %w", err)
	}
	if len(plan.Runs) == 0 {
		return nil, fmt.Errorf("plan contains no runs")
	}
	for i, run := range plan.Runs {
		if err := run.validate(); err != nil {
			return nil, fmt.Errorf("run %d: %w", i+1, err)
		}
	}
	return &plan, nil
}

func (r Run) validate() error {
	if err := validation.ValidateStruct(&r,
		validation.Field(&r.Output, validation.Required),
		validation.Field(&r.Industry, validation.Required),
		validation.Field(&r.DateStart, validation.Date(dateLayout)),
		validation.Field(&r.DateEnd, validation.Date(dateLayout)),
	); err != nil {
		return err
	}
	// One-sided ranges are completed downstream, so both fields stay
	// individually optional.
	return nil
}

// Overrides converts the run's wire form into generation parameters.
func (r Run) Overrides() (models.Overrides, error) {
	o := models.Overrides{
		Industry: r.Industry,
		Role:     r.Role,
		Language: r.Language,
		Model:    r.Model,
		Sample:   r.Sample,
	}
	var err error
	if r.DateStart != "" {
		if o.DateStart, err = time.Parse(dateLayout, r.DateStart); err != nil {
			return o, fmt.Errorf("date_start: %w", err)
		}
	}
	if r.DateEnd != "" {
		if o.DateEnd, err = time.Parse(dateLayout, r.DateEnd); err != nil {
			return o, fmt.Errorf("date_end: %w", err)
		}
	}
	return o, nil
}
