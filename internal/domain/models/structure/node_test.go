package structure

import "testing"

func TestInferContentType(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		declared string
		want     ContentType
	}{
		{"txt extension", "notes.txt", "", ContentText},
		{"markdown extension", "readme.md", "", ContentText},
		{"xlsx extension", "ledger.xlsx", "", ContentSpreadsheet},
		{"csv extension", "export.csv", "", ContentSpreadsheet},
		{"docx extension", "letter.docx", "", ContentDocument},
		{"pdf extension", "contract.pdf", "", ContentDocument},
		{"png extension", "xray.png", "", ContentImage},
		{"jpg extension", "photo.jpg", "", ContentImage},
		{"uppercase extension", "LEDGER.XLSX", "", ContentSpreadsheet},
		{"extension wins over declared", "ledger.xlsx", "txt", ContentSpreadsheet},
		{"declared type fills the gap", "statement", "pdf", ContentDocument},
		{"declared image", "scan", "image", ContentImage},
		{"nothing known defaults to text", "misc", "", ContentText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferContentType(tt.file, tt.declared); got != tt.want {
				t.Errorf("InferContentType(%q, %q) = %q, want %q", tt.file, tt.declared, got, tt.want)
			}
		})
	}
}

func TestHasExtension(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"summary.xlsx", true},
		{"archive.tar.gz", true},
		{"no extension", false},
		{".hidden", false},
	}
	for _, tt := range tests {
		f := &FileNode{Name: tt.name}
		if got := f.HasExtension(); got != tt.want {
			t.Errorf("HasExtension(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
