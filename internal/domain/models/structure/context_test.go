package structure

import (
	"testing"
	"time"
)

func TestNewGenerationContextOverridePrecedence(t *testing.T) {
	meta := &Metadata{
		Industry:  "dentistry",
		Role:      "office manager",
		Language:  "ja",
		Model:     "llama3.2",
		DateStart: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		DateEnd:   time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC),
	}

	gc, err := NewGenerationContext(Overrides{
		Role:     "hygienist",
		Language: "en",
	}, meta)
	if err != nil {
		t.Fatalf("NewGenerationContext() error = %v", err)
	}

	// Explicit values win.
	if gc.Role != "hygienist" {
		t.Errorf("Role = %q, want hygienist", gc.Role)
	}
	if gc.Language != "en" {
		t.Errorf("Language = %q, want en", gc.Language)
	}
	// Metadata fills the gaps.
	if gc.Industry != "dentistry" {
		t.Errorf("Industry = %q, want dentistry", gc.Industry)
	}
	if gc.Model != "llama3.2" {
		t.Errorf("Model = %q, want llama3.2", gc.Model)
	}
	if !gc.DateStart.Equal(meta.DateStart) || !gc.DateEnd.Equal(meta.DateEnd) {
		t.Errorf("dates = %s..%s, want metadata's", gc.DateStart, gc.DateEnd)
	}
}

func TestNewGenerationContextDefaults(t *testing.T) {
	gc, err := NewGenerationContext(Overrides{Industry: "law"}, nil)
	if err != nil {
		t.Fatalf("NewGenerationContext() error = %v", err)
	}
	if gc.Language != DefaultLanguage {
		t.Errorf("Language = %q, want %q", gc.Language, DefaultLanguage)
	}
	if gc.Concurrency != DefaultConcurrency {
		t.Errorf("Concurrency = %d, want %d", gc.Concurrency, DefaultConcurrency)
	}
	if gc.MaxRepairs != DefaultMaxRepairs {
		t.Errorf("MaxRepairs = %d, want %d", gc.MaxRepairs, DefaultMaxRepairs)
	}
	if gc.MaxTransportRetries != DefaultMaxTransportRetries {
		t.Errorf("MaxTransportRetries = %d, want %d", gc.MaxTransportRetries, DefaultMaxTransportRetries)
	}
	if gc.HasDateRange() {
		t.Error("context without dates should be undated")
	}
}

func TestNewGenerationContextRequiresIndustry(t *testing.T) {
	if _, err := NewGenerationContext(Overrides{Role: "clerk"}, nil); err == nil {
		t.Fatal("context without an industry should be rejected")
	}
	// Metadata can supply it.
	if _, err := NewGenerationContext(Overrides{}, &Metadata{Industry: "law", Language: "en"}); err != nil {
		t.Fatalf("industry from metadata should satisfy validation: %v", err)
	}
}

func TestNewGenerationContextRejectsInvertedRange(t *testing.T) {
	_, err := NewGenerationContext(Overrides{
		Industry:  "law",
		DateStart: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		DateEnd:   time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
	}, nil)
	if err == nil {
		t.Fatal("inverted date range should be rejected")
	}
}

func TestNewGenerationContextCompletesHalfOpenRange(t *testing.T) {
	start := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	gc, err := NewGenerationContext(Overrides{Industry: "law", DateStart: start}, nil)
	if err != nil {
		t.Fatalf("NewGenerationContext() error = %v", err)
	}
	if !gc.DateEnd.Equal(start) {
		t.Errorf("DateEnd = %s, want start date", gc.DateEnd)
	}
}

func TestNewEditContextIgnoresMetadata(t *testing.T) {
	gc, err := NewEditContext(Overrides{
		Industry: "law",
		Role:     "paralegal",
	})
	if err != nil {
		t.Fatalf("NewEditContext() error = %v", err)
	}
	if gc.Role != "paralegal" {
		t.Errorf("Role = %q, want paralegal", gc.Role)
	}
}

func TestSpansMultipleMonths(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{
			name:  "within one month",
			start: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC),
			want:  false,
		},
		{
			name:  "crosses a month boundary",
			start: time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC),
			want:  true,
		},
		{
			name:  "same month across years",
			start: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
			want:  true,
		},
		{
			name: "undated",
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gc := &GenerationContext{DateStart: tt.start, DateEnd: tt.end}
			if got := gc.SpansMultipleMonths(); got != tt.want {
				t.Errorf("SpansMultipleMonths() = %v, want %v", got, tt.want)
			}
		})
	}
}
