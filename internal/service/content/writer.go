package content

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	models "dossier/internal/domain/models/structure"
	domainllm "dossier/internal/domain/services/llm"
	"dossier/internal/locale"
)

// loremModel is the model name the filler provider answers to.
const loremModel = "lorem-fast"

// Writer fills materialized files with placeholder content. Text-like
// files get filler prose headed by the file's description and date;
// binary-like files are created empty since their format is opaque.
type Writer struct {
	provider domainllm.Provider
	resolver *locale.Resolver
	language string
	logger   *slog.Logger
}

func NewWriter(provider domainllm.Provider, resolver *locale.Resolver, language string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		provider: provider,
		resolver: resolver,
		language: language,
		logger:   logger,
	}
}

// Write materializes one file at path.
func (w *Writer) Write(ctx context.Context, path string, file *models.FileNode) error {
	switch file.Type {
	case models.ContentText, models.ContentDocument:
		return w.writeText(ctx, path, file)
	case models.ContentSpreadsheet:
		return w.writeRows(ctx, path, file)
	default:
		// Images and anything unrecognized stay empty.
		return os.WriteFile(path, nil, 0644)
	}
}

func (w *Writer) writeText(ctx context.Context, path string, file *models.FileNode) error {
	body, err := w.filler(ctx, file.Description)
	if err != nil {
		return err
	}

	var b strings.Builder
	if file.Description != "" {
		b.WriteString(file.Description)
		b.WriteString("\n")
	}
	if file.Date != nil {
		b.WriteString(w.resolver.FormatDocumentDate(w.language, *file.Date))
		b.WriteString("\n")
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		b.WriteString("\n")
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

// writeRows produces comma separated filler so spreadsheet files open
// as tabular data.
func (w *Writer) writeRows(ctx context.Context, path string, file *models.FileNode) error {
	body, err := w.filler(ctx, file.Description)
	if err != nil {
		return err
	}

	words := strings.Fields(body)
	var b strings.Builder
	if file.Description != "" {
		fmt.Fprintf(&b, "# %s\n", file.Description)
	}
	const columns = 4
	for i := 0; i < len(words); i += columns {
		end := i + columns
		if end > len(words) {
			end = len(words)
		}
		b.WriteString(strings.Join(words[i:end], ","))
		b.WriteString("\n")
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

func (w *Writer) filler(ctx context.Context, seed string) (string, error) {
	resp, err := w.provider.Complete(ctx, &domainllm.CompletionRequest{
		Model:  loremModel,
		Prompt: seed,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}
