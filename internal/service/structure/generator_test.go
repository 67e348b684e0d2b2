package structure

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	models "dossier/internal/domain/models/structure"
)

// Prompt markers from the reference language pack, used to route fake
// replies by generation level.
const (
	level1Marker = "Propose the top-level folders"
	level2Marker = "propose the subfolders"
	level3Marker = "propose any deeper subfolders"
	filesMarker  = "List the files that belong directly"
	repairMarker = "could not be parsed"
)

func datedContext(t *testing.T) *models.GenerationContext {
	t.Helper()
	gc, err := models.NewGenerationContext(models.Overrides{
		Industry:    "dentistry",
		Role:        "office manager",
		Model:       "llama3.2",
		DateStart:   time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		DateEnd:     time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC),
		Concurrency: 2,
	}, nil)
	if err != nil {
		t.Fatalf("NewGenerationContext() error = %v", err)
	}
	return gc
}

// happyReply routes prompts to canned, contract-conforming responses.
func happyReply(prompt string, call int) (string, error) {
	switch {
	case strings.Contains(prompt, level1Marker):
		return `{"folders": {
			"Patients": {"description": "Patient records"},
			"Finance": {"description": "Money matters"}
		}}`, nil
	case strings.Contains(prompt, level2Marker):
		if strings.Contains(prompt, `"Patients"`) {
			return `{"folders": {"Charts": {"description": "Dental charts"}}}`, nil
		}
		return `{"folders": {
			"Invoices": {"description": "Outgoing invoices"},
			"Payroll": {"description": "Staff payroll"}
		}}`, nil
	case strings.Contains(prompt, level3Marker):
		return `{"folders": {"Archive": {"description": "Older material"}}}`, nil
	case strings.Contains(prompt, filesMarker):
		return `{"files": {"summary.xlsx": {"description": "Period summary", "type": "xlsx"},
			"notes.txt": {"description": "Working notes", "type": "txt"}}}`, nil
	default:
		return "", fmt.Errorf("unrecognized prompt: %.80s", prompt)
	}
}

func newTestGenerator(t *testing.T, fake *fakeProvider, maxRepairs int) *Generator {
	t.Helper()
	resolver := testResolver(t)
	enforcer := NewEnforcer(fake, resolver, maxRepairs, nil)
	return NewGenerator(enforcer, resolver, nil, WithRand(rand.New(rand.NewSource(1))))
}

func TestGenerateBuildsThreeLevels(t *testing.T) {
	fake := &fakeProvider{reply: happyReply}
	g := newTestGenerator(t, fake, 2)
	gc := datedContext(t)

	tree, report, err := g.Generate(context.Background(), gc)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !report.Complete() {
		t.Fatalf("report has failures: %s", report.Summary())
	}

	if len(tree.Root.Folders) != 2 {
		t.Fatalf("top level has %d folders, want 2", len(tree.Root.Folders))
	}

	finance := tree.FolderAt("Finance")
	if finance == nil {
		t.Fatal("Finance folder missing")
	}
	if len(finance.Folders) != 2 {
		t.Fatalf("Finance has %d subfolders, want 2", len(finance.Folders))
	}

	invoices := tree.FolderAt("Finance/Invoices")
	if invoices == nil {
		t.Fatal("Finance/Invoices missing")
	}
	if len(invoices.Folders) != 1 || invoices.Folders[0].Name != "Archive" {
		t.Errorf("Finance/Invoices subfolders = %+v, want Archive", invoices.Folders)
	}
	if invoices.Folders[0].Level != 3 {
		t.Errorf("Archive level = %d, want 3", invoices.Folders[0].Level)
	}
	if len(invoices.Files) != 2 {
		t.Fatalf("Finance/Invoices has %d files, want 2", len(invoices.Files))
	}

	for _, file := range invoices.Files {
		if file.Date == nil {
			t.Fatalf("file %s has no date in a dated run", file.Name)
		}
		if file.Date.Before(gc.DateStart) || file.Date.After(gc.DateEnd) {
			t.Errorf("file %s dated %s outside the range", file.Name, file.Date.Format("2006-01-02"))
		}
	}

	// 1 top-level exchange, 2 second-level, and 2 per second-level
	// folder below that (subfolders, then files).
	if got := fake.callCount(); got != 9 {
		t.Errorf("provider called %d times, want 9", got)
	}

	// The file step sees the subfolders produced just before it.
	var sawSiblings bool
	fake.mu.Lock()
	for _, prompt := range fake.calls {
		if strings.Contains(prompt, filesMarker) && strings.Contains(prompt, "Archive") {
			sawSiblings = true
		}
	}
	fake.mu.Unlock()
	if !sawSiblings {
		t.Error("file prompts never mention the sibling subfolder names")
	}

	// 2 top-level + 3 second-level + 3 Archive folders.
	if report.Folders != 8 {
		t.Errorf("report.Folders = %d, want 8", report.Folders)
	}
	if report.Files != 6 {
		t.Errorf("report.Files = %d, want 6", report.Files)
	}
}

func TestGenerateEmbedsSampleAtEveryLevel(t *testing.T) {
	fake := &fakeProvider{reply: happyReply}
	g := newTestGenerator(t, fake, 2)

	gc, err := models.NewGenerationContext(models.Overrides{
		Industry:    "dentistry",
		Model:       "llama3.2",
		Sample:      "Ledgers/\n  2024.xlsx",
		Concurrency: 2,
	}, nil)
	if err != nil {
		t.Fatalf("NewGenerationContext() error = %v", err)
	}

	if _, _, err := g.Generate(context.Background(), gc); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	for i, prompt := range fake.calls {
		if !strings.Contains(prompt, "Ledgers/") {
			t.Errorf("prompt %d does not embed the existing structure: %.80s", i+1, prompt)
		}
	}
}

func TestGenerateInfersContentTypes(t *testing.T) {
	fake := &fakeProvider{reply: happyReply}
	g := newTestGenerator(t, fake, 2)

	tree, _, err := g.Generate(context.Background(), datedContext(t))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	for _, ref := range tree.Files() {
		switch ref.File.Name {
		case "summary.xlsx":
			if ref.File.Type != models.ContentSpreadsheet {
				t.Errorf("summary.xlsx type = %s, want spreadsheet", ref.File.Type)
			}
		case "notes.txt":
			if ref.File.Type != models.ContentText {
				t.Errorf("notes.txt type = %s, want text", ref.File.Type)
			}
		}
	}
}

func TestGenerateFailedSubtreeIsPruned(t *testing.T) {
	fake := &fakeProvider{reply: func(prompt string, call int) (string, error) {
		// The Patients branch never produces usable JSON, including
		// under repair.
		if strings.Contains(prompt, `"Patients"`) ||
			(strings.Contains(prompt, repairMarker) && strings.Contains(prompt, "patients gibberish")) {
			return "patients gibberish", nil
		}
		return happyReply(prompt, call)
	}}
	g := newTestGenerator(t, fake, 1)

	tree, report, err := g.Generate(context.Background(), datedContext(t))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if len(report.Failures) != 1 {
		t.Fatalf("failures = %+v, want exactly one", report.Failures)
	}
	f := report.Failures[0]
	if f.Level != 2 || f.ParentPath != "Patients" {
		t.Errorf("failure = %+v, want level 2 at Patients", f)
	}

	patients := tree.FolderAt("Patients")
	if patients == nil {
		t.Fatal("Patients folder should survive its failed expansion")
	}
	if len(patients.Folders) != 0 {
		t.Errorf("Patients has %d subfolders, want 0", len(patients.Folders))
	}

	// The sibling branch is unaffected.
	if tree.FolderAt("Finance/Invoices") == nil {
		t.Error("Finance subtree should be intact")
	}
}

func TestGenerateAbortsWhenTopLevelFails(t *testing.T) {
	fake := &fakeProvider{reply: func(prompt string, call int) (string, error) {
		return "never json", nil
	}}
	g := newTestGenerator(t, fake, 1)

	_, _, err := g.Generate(context.Background(), datedContext(t))
	if err == nil {
		t.Fatal("Generate() should fail when the top level cannot be produced")
	}
}

func TestGenerateUndatedRunLeavesFilesUndated(t *testing.T) {
	fake := &fakeProvider{reply: happyReply}
	g := newTestGenerator(t, fake, 2)

	gc, err := models.NewGenerationContext(models.Overrides{
		Industry: "dentistry",
		Model:    "llama3.2",
	}, nil)
	if err != nil {
		t.Fatalf("NewGenerationContext() error = %v", err)
	}

	tree, _, err := g.Generate(context.Background(), gc)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	for _, ref := range tree.Files() {
		if ref.File.Date != nil {
			t.Errorf("file %s has a date in an undated run", ref.File.Name)
		}
	}
}

func TestGenerateSanitizesFolderNames(t *testing.T) {
	fake := &fakeProvider{reply: func(prompt string, call int) (string, error) {
		if strings.Contains(prompt, level1Marker) {
			return `{"folders": {" Fin/ance ": {"description": "d"}}}`, nil
		}
		return `{"folders": {}, "files": {}}`, nil
	}}
	g := newTestGenerator(t, fake, 2)

	tree, _, err := g.Generate(context.Background(), datedContext(t))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(tree.Root.Folders) != 1 {
		t.Fatalf("top level has %d folders, want 1", len(tree.Root.Folders))
	}
	if got := tree.Root.Folders[0].Name; got != "Fin-ance" {
		t.Errorf("sanitized name = %q, want %q", got, "Fin-ance")
	}
}
