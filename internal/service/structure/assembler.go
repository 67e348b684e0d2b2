package structure

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"dossier/internal/config"
	"dossier/internal/domain"
	models "dossier/internal/domain/models/structure"
)

// ContentWriter fills a materialized file with placeholder content.
// A nil writer leaves files empty.
type ContentWriter interface {
	Write(ctx context.Context, path string, file *models.FileNode) error
}

// Assembler materializes trees on disk and owns the run metadata file.
// Attach is idempotent: existing folders are reused and existing files
// are left untouched, so a rerun only fills the gaps.
type Assembler struct {
	writer ContentWriter
	logger *slog.Logger
}

func NewAssembler(writer ContentWriter, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{
		writer: writer,
		logger: logger,
	}
}

// Attach creates the tree's folders and files under root.
func (a *Assembler) Attach(ctx context.Context, tree *models.Tree, root string) error {
	if err := os.MkdirAll(root, 0755); err != nil {
		return &domain.PersistenceError{Path: root, Err: err}
	}

	var attachErr error
	tree.Walk(func(dir string, f *models.FolderNode) {
		if attachErr != nil || ctx.Err() != nil {
			return
		}
		abs := filepath.Join(root, filepath.FromSlash(dir))
		if err := os.MkdirAll(abs, 0755); err != nil {
			attachErr = &domain.PersistenceError{Path: abs, Err: err}
			return
		}
		for _, file := range f.Files {
			path := filepath.Join(abs, file.Name)
			if _, err := os.Stat(path); err == nil {
				continue
			}
			if err := a.materialize(ctx, path, file); err != nil {
				attachErr = err
				return
			}
		}
	})
	if attachErr != nil {
		return attachErr
	}
	return ctx.Err()
}

func (a *Assembler) materialize(ctx context.Context, path string, file *models.FileNode) error {
	if a.writer != nil {
		if err := a.writer.Write(ctx, path, file); err != nil {
			return &domain.PersistenceError{Path: path, Err: err}
		}
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil
		}
		return &domain.PersistenceError{Path: path, Err: err}
	}
	return f.Close()
}

// Remove deletes a single materialized file if present.
func (a *Assembler) Remove(root string, ref models.FileRef) error {
	path := filepath.Join(root, filepath.FromSlash(ref.Dir), ref.File.Name)
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &domain.PersistenceError{Path: path, Err: err}
	}
	return nil
}

// Scan rebuilds a tree from a materialized hierarchy so edits can run
// against output produced earlier. Hidden entries, including the
// metadata marker, are skipped, as are directories nested deeper than
// a generated hierarchy goes. Descriptions are not recoverable from
// disk and come back empty.
func (a *Assembler) Scan(root string) (*models.Tree, error) {
	tree := models.NewTree()
	if err := a.scanDir(root, tree.Root, 0); err != nil {
		return nil, err
	}
	return tree, nil
}

func (a *Assembler) scanDir(dir string, node *models.FolderNode, depth int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return &domain.PersistenceError{Path: dir, Err: err}
	}
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if entry.IsDir() {
			// Anything nested past the generated depth is hand-made
			// and not ours to edit.
			if depth >= config.MaxPathDepth {
				continue
			}
			child := &models.FolderNode{Name: name, Level: depth + 1}
			if err := a.scanDir(filepath.Join(dir, name), child, depth+1); err != nil {
				return err
			}
			node.Folders = append(node.Folders, child)
			continue
		}
		node.Files = append(node.Files, &models.FileNode{
			Name: name,
			Type: models.InferContentType(name, ""),
		})
	}
	return nil
}

// Persist writes the run metadata marker at the root. A missing RunID
// or CreatedAt is filled in here.
func (a *Assembler) Persist(meta *models.Metadata, root string) error {
	if meta.RunID == "" {
		meta.RunID = uuid.NewString()
	}
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = time.Now().UTC()
	}

	raw, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(root, models.MetadataFileName)
	if err := os.WriteFile(path, append(raw, '\n'), 0644); err != nil {
		return &domain.PersistenceError{Path: path, Err: err}
	}
	a.logger.Info("metadata persisted", "path", path, "run_id", meta.RunID)
	return nil
}

// Load reads the run metadata marker under root. A directory that was
// never a run output yields (nil, nil).
func (a *Assembler) Load(root string) (*models.Metadata, error) {
	path := filepath.Join(root, models.MetadataFileName)
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &domain.PersistenceError{Path: path, Err: err}
	}
	var meta models.Metadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, &domain.PersistenceError{Path: path, Err: err}
	}
	return &meta, nil
}
