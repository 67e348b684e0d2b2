package structure

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"dossier/internal/config"
)

// LoadSample renders an existing directory tree as an indented outline
// for embedding in prompts. Hidden entries are skipped. The result is
// truncated to the configured byte budget on a rune boundary.
func LoadSample(root string, maxBytes int) (string, error) {
	if maxBytes <= 0 {
		maxBytes = config.SampleMaxBytes
	}
	var b strings.Builder
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		depth := strings.Count(rel, string(filepath.Separator))
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(name)
		if d.IsDir() {
			b.WriteString("/")
		}
		b.WriteString("\n")
		return nil
	})
	if err != nil {
		return "", err
	}
	return TruncateSample(b.String(), maxBytes), nil
}

// TruncateSample caps s at maxBytes without splitting a rune. The cut
// falls back to the last full line so the outline stays well formed.
func TruncateSample(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	truncated := s[:cut]
	if nl := strings.LastIndexByte(truncated, '\n'); nl > 0 {
		truncated = truncated[:nl+1]
	}
	return truncated
}

// ResolveSample accepts either a directory path, which is rendered as
// an outline, or literal outline text, which is passed through. Both
// forms are truncated to the byte budget.
func ResolveSample(s string, maxBytes int) (string, error) {
	if s == "" {
		return "", nil
	}
	if statDir(s) {
		return LoadSample(s, maxBytes)
	}
	if maxBytes <= 0 {
		maxBytes = config.SampleMaxBytes
	}
	return TruncateSample(s, maxBytes), nil
}

// statDir reports whether path exists and is a directory.
func statDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
