package structure

import (
	"encoding/json"
	"errors"
	"testing"

	"dossier/internal/domain"
)

func TestExtractObject(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{
			name: "bare object",
			in:   `{"a": 1}`,
			want: `{"a": 1}`,
		},
		{
			name: "nested braces",
			in:   `{"a": {"b": {"c": 1}}}`,
			want: `{"a": {"b": {"c": 1}}}`,
		},
		{
			name: "braces inside strings",
			in:   `{"a": "value with } and { inside"}`,
			want: `{"a": "value with } and { inside"}`,
		},
		{
			name: "escaped quote inside string",
			in:   `{"a": "quote \" then }"}`,
			want: `{"a": "quote \" then }"}`,
		},
		{
			name: "prose before and after",
			in:   "Here it is: {\"a\": 1} hope that helps",
			want: `{"a": 1}`,
		},
		{
			name: "only the first object",
			in:   `{"a": 1} {"b": 2}`,
			want: `{"a": 1}`,
		},
		{
			name:    "no object",
			in:      "no json here",
			wantErr: true,
		},
		{
			name:    "unterminated object",
			in:      `{"a": 1`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractObject(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ExtractObject(%q) = %q, want error", tt.in, got)
				}
				if !errors.Is(err, domain.ErrContract) {
					t.Errorf("error = %v, want ErrContract", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractObject(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ExtractObject(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecodeFolderEntriesShapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "name to object map",
			in:   `{"Billing": {"description": "invoices"}, "Archive": {"description": "old"}}`,
			want: []string{"Archive", "Billing"},
		},
		{
			name: "name to description map",
			in:   `{"Billing": "invoices"}`,
			want: []string{"Billing"},
		},
		{
			name: "array of entries",
			in:   `[{"name": "Billing", "description": "invoices"}, {"name": "Archive"}]`,
			want: []string{"Billing", "Archive"},
		},
		{
			name: "empty object",
			in:   `{}`,
			want: nil,
		},
		{
			name: "null",
			in:   `null`,
			want: nil,
		},
		{
			name: "array drops unnamed entries",
			in:   `[{"name": "", "description": "x"}, {"name": "Kept"}]`,
			want: []string{"Kept"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := DecodeFolderEntries(json.RawMessage(tt.in))
			if err != nil {
				t.Fatalf("DecodeFolderEntries() error = %v", err)
			}
			if len(entries) != len(tt.want) {
				t.Fatalf("got %d entries, want %d: %+v", len(entries), len(tt.want), entries)
			}
			for i, name := range tt.want {
				if entries[i].Name != name {
					t.Errorf("entry %d = %q, want %q", i, entries[i].Name, name)
				}
			}
		})
	}
}

func TestDecodeFolderEntriesRejectsScalars(t *testing.T) {
	_, err := DecodeFolderEntries(json.RawMessage(`"just a string"`))
	if !errors.Is(err, domain.ErrContract) {
		t.Fatalf("error = %v, want ErrContract", err)
	}
}

func TestDecodeFileEntriesShapes(t *testing.T) {
	byName := json.RawMessage(`{"invoice.xlsx": {"description": "monthly", "type": "xlsx"}}`)
	entries, err := DecodeFileEntries(byName)
	if err != nil {
		t.Fatalf("DecodeFileEntries() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "invoice.xlsx" || entries[0].Type != "xlsx" {
		t.Errorf("entries = %+v", entries)
	}

	asList := json.RawMessage(`[{"name": "notes.txt", "description": "d", "type": "txt"}]`)
	entries, err = DecodeFileEntries(asList)
	if err != nil {
		t.Fatalf("DecodeFileEntries() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "notes.txt" {
		t.Errorf("entries = %+v", entries)
	}
}
