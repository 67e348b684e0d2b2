package structure

import (
	"strings"
	"testing"
)

func buildTree() *Tree {
	tree := NewTree()
	finance := &FolderNode{Name: "Finance", Level: 1}
	invoices := &FolderNode{Name: "Invoices", Level: 2}
	invoices.Files = []*FileNode{{Name: "summary.xlsx", Type: ContentSpreadsheet}}
	finance.Folders = []*FolderNode{invoices}
	hr := &FolderNode{Name: "HR", Level: 1}
	tree.Root.Folders = []*FolderNode{finance, hr}
	return tree
}

func TestFolderAt(t *testing.T) {
	tree := buildTree()

	if got := tree.FolderAt(""); got != tree.Root {
		t.Error("empty path should resolve to the root")
	}
	if got := tree.FolderAt("Finance/Invoices"); got == nil || got.Name != "Invoices" {
		t.Errorf("FolderAt(Finance/Invoices) = %v", got)
	}
	if got := tree.FolderAt("Finance/Missing"); got != nil {
		t.Errorf("FolderAt on a missing segment = %v, want nil", got)
	}
	if got := tree.FolderAt("Nope"); got != nil {
		t.Errorf("FolderAt on a missing top folder = %v, want nil", got)
	}
}

func TestFilesAndCounts(t *testing.T) {
	tree := buildTree()

	files := tree.Files()
	if len(files) != 1 {
		t.Fatalf("Files() returned %d, want 1", len(files))
	}
	if files[0].Dir != "Finance/Invoices" {
		t.Errorf("Dir = %q, want Finance/Invoices", files[0].Dir)
	}
	if files[0].Folder.Name != "Invoices" {
		t.Errorf("Folder = %q, want Invoices", files[0].Folder.Name)
	}

	if got := tree.FolderCount(); got != 3 {
		t.Errorf("FolderCount() = %d, want 3", got)
	}
}

func TestOutline(t *testing.T) {
	got := buildTree().Outline()

	want := "Finance/\n  Invoices/\n    summary.xlsx\nHR/\n"
	if got != want {
		t.Errorf("Outline() =\n%s\nwant:\n%s", got, want)
	}
	if !strings.HasSuffix(got, "\n") {
		t.Error("outline should end with a newline")
	}
}
