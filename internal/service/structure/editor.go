package structure

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"path"
	"strings"
	"sync"
	"time"

	"dossier/internal/config"
	models "dossier/internal/domain/models/structure"
	domainstructure "dossier/internal/domain/services/structure"
	"dossier/internal/locale"
)

var fileAddSpec = domainstructure.ContractSpec{RequiredKeys: []string{"folder", "file"}}
var fileRegenerateSpec = domainstructure.ContractSpec{RequiredKeys: []string{"name", "description"}}

// Editor mutates an existing hierarchy. Regeneration works against the
// edit context alone, never against the original run's parameters.
type Editor struct {
	enforcer *Enforcer
	resolver *locale.Resolver
	logger   *slog.Logger
	rng      *rand.Rand
	mu       sync.Mutex
}

type EditorOption func(*Editor)

// WithEditorRand fixes the random source used for file selection and
// dates.
func WithEditorRand(rng *rand.Rand) EditorOption {
	return func(e *Editor) { e.rng = rng }
}

func NewEditor(enforcer *Enforcer, resolver *locale.Resolver, logger *slog.Logger, opts ...EditorOption) *Editor {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Editor{
		enforcer: enforcer,
		resolver: resolver,
		logger:   logger,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddFile asks the model where the hinted document belongs, then
// attaches it there. A folder path the model invents is resolved to its
// deepest existing prefix.
func (e *Editor) AddFile(ctx context.Context, gc *models.GenerationContext, tree *models.Tree, hint string) (*models.FileRef, error) {
	if len(tree.Root.Folders) == 0 {
		return nil, fmt.Errorf("cannot add a file to an empty hierarchy")
	}

	roleText, err := e.resolver.RoleText(gc.Language, gc.Role)
	if err != nil {
		return nil, err
	}
	prompt, err := e.resolver.Resolve("file_add", gc.Language, map[string]string{
		"industry":  gc.Industry,
		"role_text": roleText,
		"outline":   tree.Outline(),
		"hint":      hint,
	})
	if err != nil {
		return nil, err
	}

	obj, err := e.enforcer.Demand(ctx, gc, prompt, fileAddSpec)
	if err != nil {
		return nil, err
	}

	var folderPath string
	if err := json.Unmarshal(obj["folder"], &folderPath); err != nil {
		return nil, fmt.Errorf("folder is not a string: %w", err)
	}
	var entry domainstructure.FileEntry
	if err := json.Unmarshal(obj["file"], &entry); err != nil {
		return nil, fmt.Errorf("file is not an object: %w", err)
	}
	if entry.Name == "" {
		return nil, fmt.Errorf("file entry has no name")
	}

	dir, folder := e.resolveFolder(tree, folderPath)
	file := &models.FileNode{
		Name:        uniqueName(folder, sanitizeName(entry.Name, config.MaxFileNameLength)),
		Description: entry.Description,
		Type:        models.InferContentType(entry.Name, entry.Type),
	}
	if gc.HasDateRange() {
		d := e.randomDateIn(gc.DateStart, gc.DateEnd)
		file.Date = &d
	}
	folder.Files = append(folder.Files, file)

	e.logger.Info("file added", "folder", dir, "name", file.Name)
	return &models.FileRef{Dir: dir, Folder: folder, File: file}, nil
}

// Regenerate picks n files and replaces each description in place.
// When the edit context carries a date range, every regenerated file is
// also renamed to carry a date drawn from it; an undated context leaves
// names untouched.
func (e *Editor) Regenerate(ctx context.Context, gc *models.GenerationContext, tree *models.Tree, n int) ([]models.FileRef, error) {
	roleText, err := e.resolver.RoleText(gc.Language, gc.Role)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	selected := Select(tree, n, e.rng)
	e.mu.Unlock()

	out := make([]models.FileRef, 0, len(selected))
	for _, ref := range selected {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		var date time.Time
		if gc.HasDateRange() {
			date = e.randomDateIn(gc.DateStart, gc.DateEnd)
		} else {
			date = time.Now().UTC().Truncate(24 * time.Hour)
		}
		dateText := e.resolver.FormatPromptDate(gc.Language, date)

		prompt, err := e.resolver.Resolve("file_regenerate", gc.Language, map[string]string{
			"industry":  gc.Industry,
			"role_text": roleText,
			"name":      ref.File.Name,
			"date":      dateText,
		})
		if err != nil {
			return out, err
		}

		obj, err := e.enforcer.Demand(ctx, gc, prompt, fileRegenerateSpec)
		if err != nil {
			e.logger.Warn("regeneration abandoned", "file", ref.File.Name, "error", err)
			continue
		}

		var name, description string
		if err := json.Unmarshal(obj["name"], &name); err != nil || name == "" {
			e.logger.Warn("regeneration abandoned", "file", ref.File.Name, "error", "name is not a string")
			continue
		}
		_ = json.Unmarshal(obj["description"], &description)

		// Names change only when the date policy asks for it; an
		// undated edit refreshes the description in place.
		if gc.HasDateRange() {
			name = sanitizeName(name, config.MaxFileNameLength)
			stamp := e.resolver.FormatFilenameDate(gc.Language, date)
			if !strings.Contains(name, stamp) {
				name = datedName(name, stamp)
			}
			ref.File.Name = name
			ref.File.Date = &date
			ref.File.Type = models.InferContentType(name, string(ref.File.Type))
		}
		ref.File.Description = description
		out = append(out, ref)
	}
	return out, nil
}

// Select draws n distinct files from the tree. When enough files carry
// extensions, the draw is restricted to those, since extensionless
// entries are usually misparsed folder names.
func Select(tree *models.Tree, n int, rng *rand.Rand) []models.FileRef {
	all := tree.Files()
	if n <= 0 || len(all) == 0 {
		return nil
	}

	var extensioned []models.FileRef
	for _, ref := range all {
		if ref.File.HasExtension() {
			extensioned = append(extensioned, ref)
		}
	}
	pool := all
	if n <= len(extensioned) {
		pool = extensioned
	}
	if n > len(pool) {
		n = len(pool)
	}

	picked := append([]models.FileRef(nil), pool...)
	rng.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	return picked[:n]
}

// resolveFolder walks the proposed path to its deepest existing prefix,
// falling back to the first top-level folder.
func (e *Editor) resolveFolder(tree *models.Tree, folderPath string) (string, *models.FolderNode) {
	cur := tree.Root
	var dir []string
	for _, seg := range strings.Split(strings.Trim(folderPath, "/"), "/") {
		next := folderByName(cur, seg)
		if next == nil {
			break
		}
		cur = next
		dir = append(dir, seg)
	}
	if cur == tree.Root {
		cur = tree.Root.Folders[0]
		dir = []string{cur.Name}
	}
	return strings.Join(dir, "/"), cur
}

func folderByName(parent *models.FolderNode, name string) *models.FolderNode {
	for _, f := range parent.Folders {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// uniqueName suffixes a counter before the extension until the name is
// free within the folder.
func uniqueName(folder *models.FolderNode, name string) string {
	taken := make(map[string]bool, len(folder.Files))
	for _, f := range folder.Files {
		taken[f.Name] = true
	}
	if !taken[name] {
		return name
	}
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s (%d)%s", base, i, ext)
		if !taken[candidate] {
			return candidate
		}
	}
}

// datedName inserts the date stamp before the extension.
func datedName(name, stamp string) string {
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s_%s%s", base, stamp, ext)
}

func (e *Editor) randomDateIn(start, end time.Time) time.Time {
	days := int(end.Sub(start).Hours()/24) + 1
	if days <= 1 {
		return start
	}
	e.mu.Lock()
	n := e.rng.Intn(days)
	e.mu.Unlock()
	return start.AddDate(0, 0, n)
}
