package structure

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"dossier/internal/config"
	models "dossier/internal/domain/models/structure"
	domainstructure "dossier/internal/domain/services/structure"
	"dossier/internal/locale"
)

var foldersOnly = domainstructure.ContractSpec{RequiredKeys: []string{"folders"}}
var filesOnly = domainstructure.ContractSpec{RequiredKeys: []string{"files"}}

// Generator synthesizes a hierarchy top-down: one exchange for the top
// level, one per folder below it. Sibling steps run concurrently under
// a bounded worker limit; a step that exhausts its repairs forfeits its
// subtree and nothing else.
type Generator struct {
	enforcer *Enforcer
	resolver *locale.Resolver
	logger   *slog.Logger
	rng      *rand.Rand
	mu       sync.Mutex
}

type GeneratorOption func(*Generator)

// WithRand fixes the random source used for file dates.
func WithRand(rng *rand.Rand) GeneratorOption {
	return func(g *Generator) { g.rng = rng }
}

func NewGenerator(enforcer *Enforcer, resolver *locale.Resolver, logger *slog.Logger, opts ...GeneratorOption) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Generator{
		enforcer: enforcer,
		resolver: resolver,
		logger:   logger,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// promptParams holds the clauses shared by every prompt of a run.
type promptParams struct {
	roleText        string
	dateRangeText   string
	periodDirective string
	sampleText      string
}

func (g *Generator) runParams(gc *models.GenerationContext) (*promptParams, error) {
	roleText, err := g.resolver.RoleText(gc.Language, gc.Role)
	if err != nil {
		return nil, err
	}
	dateRangeText, err := g.resolver.DateRangeText(gc.Language, gc.DateStart, gc.DateEnd)
	if err != nil {
		return nil, err
	}
	p := &promptParams{
		roleText:      roleText,
		dateRangeText: dateRangeText,
	}
	if gc.SpansMultipleMonths() {
		p.periodDirective, err = g.resolver.Resolve("period_directive", gc.Language, nil)
		if err != nil {
			return nil, err
		}
	}
	if gc.Sample != "" {
		p.sampleText, err = g.resolver.Resolve("sample_text", gc.Language, map[string]string{
			"sample": gc.Sample,
		})
		if err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Generate builds a complete tree for gc. A failed top-level exchange
// aborts the run; failures below the top level are recorded in the
// report and only forfeit the affected subtree.
func (g *Generator) Generate(ctx context.Context, gc *models.GenerationContext) (*models.Tree, *domainstructure.Report, error) {
	params, err := g.runParams(gc)
	if err != nil {
		return nil, nil, err
	}

	tree := models.NewTree()
	report := &domainstructure.Report{}

	if err := g.generateLevel1(ctx, gc, params, tree); err != nil {
		return nil, nil, err
	}
	g.logger.Info("top level generated", "folders", len(tree.Root.Folders))

	if err := g.generateLevel2(ctx, gc, params, tree, report); err != nil {
		return nil, nil, err
	}
	if err := g.generateLevel3(ctx, gc, params, tree, report); err != nil {
		return nil, nil, err
	}

	report.Folders = tree.FolderCount()
	report.Files = len(tree.Files())
	g.logger.Info("generation finished",
		"folders", report.Folders,
		"files", report.Files,
		"failures", len(report.Failures),
	)
	return tree, report, nil
}

func (g *Generator) generateLevel1(ctx context.Context, gc *models.GenerationContext, params *promptParams, tree *models.Tree) error {
	prompt, err := g.resolver.Resolve("level1_folders", gc.Language, map[string]string{
		"industry":         gc.Industry,
		"role_text":        params.roleText,
		"date_range_text":  params.dateRangeText,
		"period_directive": params.periodDirective,
		"sample_text":      params.sampleText,
	})
	if err != nil {
		return err
	}

	obj, err := g.enforcer.Demand(ctx, gc, prompt, foldersOnly)
	if err != nil {
		return err
	}
	entries, err := DecodeFolderEntries(obj["folders"])
	if err != nil {
		return err
	}
	for _, e := range entries {
		tree.Root.Folders = append(tree.Root.Folders, &models.FolderNode{
			Name:        sanitizeName(e.Name, config.MaxFolderNameLength),
			Description: e.Description,
			Level:       1,
		})
	}
	return nil
}

func (g *Generator) generateLevel2(ctx context.Context, gc *models.GenerationContext, params *promptParams, tree *models.Tree, report *domainstructure.Report) error {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(gc.Concurrency)

	for _, parent := range tree.Root.Folders {
		parent := parent
		eg.Go(func() error {
			prompt, err := g.resolver.Resolve("level2_folders", gc.Language, map[string]string{
				"industry":           gc.Industry,
				"role_text":          params.roleText,
				"parent_name":        parent.Name,
				"parent_description": parent.Description,
				"sample_text":        params.sampleText,
				"period_directive":   params.periodDirective,
			})
			if err != nil {
				return err
			}

			obj, err := g.enforcer.Demand(egCtx, gc, prompt, foldersOnly)
			if err != nil {
				return g.recordOrAbort(egCtx, report, 2, parent.Name, err)
			}
			entries, err := DecodeFolderEntries(obj["folders"])
			if err != nil {
				return g.recordOrAbort(egCtx, report, 2, parent.Name, err)
			}
			for _, e := range entries {
				parent.Folders = append(parent.Folders, &models.FolderNode{
					Name:        sanitizeName(e.Name, config.MaxFolderNameLength),
					Description: e.Description,
					Level:       2,
				})
			}
			return nil
		})
	}
	return eg.Wait()
}

func (g *Generator) generateLevel3(ctx context.Context, gc *models.GenerationContext, params *promptParams, tree *models.Tree, report *domainstructure.Report) error {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(gc.Concurrency)

	for _, top := range tree.Root.Folders {
		top := top
		for _, parent := range top.Folders {
			parent := parent
			parentPath := top.Name + "/" + parent.Name

			eg.Go(func() error {
				// Two steps per folder: child folders first, then the
				// files alongside them. A failed folder step still
				// leaves the file step its chance.
				if err := g.level3Folders(egCtx, gc, params, parent, parentPath, report); err != nil {
					return err
				}
				return g.level3Files(egCtx, gc, params, parent, parentPath, report)
			})
		}
	}
	return eg.Wait()
}

func (g *Generator) level3Folders(ctx context.Context, gc *models.GenerationContext, params *promptParams, parent *models.FolderNode, parentPath string, report *domainstructure.Report) error {
	prompt, err := g.resolver.Resolve("level3_folders", gc.Language, map[string]string{
		"industry":           gc.Industry,
		"role_text":          params.roleText,
		"parent_name":        parent.Name,
		"parent_description": parent.Description,
		"sample_text":        params.sampleText,
	})
	if err != nil {
		return err
	}

	obj, err := g.enforcer.Demand(ctx, gc, prompt, foldersOnly)
	if err != nil {
		return g.recordOrAbort(ctx, report, 3, parentPath, err)
	}
	entries, err := DecodeFolderEntries(obj["folders"])
	if err != nil {
		return g.recordOrAbort(ctx, report, 3, parentPath, err)
	}
	for _, e := range entries {
		parent.Folders = append(parent.Folders, &models.FolderNode{
			Name:        sanitizeName(e.Name, config.MaxFolderNameLength),
			Description: e.Description,
			Level:       3,
		})
	}
	return nil
}

func (g *Generator) level3Files(ctx context.Context, gc *models.GenerationContext, params *promptParams, parent *models.FolderNode, parentPath string, report *domainstructure.Report) error {
	prompt, err := g.resolver.Resolve("level3_files", gc.Language, map[string]string{
		"industry":           gc.Industry,
		"role_text":          params.roleText,
		"parent_name":        parent.Name,
		"parent_description": parent.Description,
		"sibling_names":      childFolderNames(parent),
		"date_range_text":    params.dateRangeText,
		"sample_text":        params.sampleText,
	})
	if err != nil {
		return err
	}

	obj, err := g.enforcer.Demand(ctx, gc, prompt, filesOnly)
	if err != nil {
		return g.recordOrAbort(ctx, report, 3, parentPath, err)
	}
	entries, err := DecodeFileEntries(obj["files"])
	if err != nil {
		return g.recordOrAbort(ctx, report, 3, parentPath, err)
	}
	for _, e := range entries {
		file := &models.FileNode{
			Name:        sanitizeName(e.Name, config.MaxFileNameLength),
			Description: e.Description,
			Type:        models.InferContentType(e.Name, e.Type),
		}
		if gc.HasDateRange() {
			d := g.randomDateIn(gc.DateStart, gc.DateEnd)
			file.Date = &d
		}
		parent.Files = append(parent.Files, file)
	}
	return nil
}

// recordOrAbort files a step failure unless the error is the context's,
// in which case the whole run is being torn down.
func (g *Generator) recordOrAbort(ctx context.Context, report *domainstructure.Report, level int, parentPath string, err error) error {
	if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return err
	}
	g.mu.Lock()
	report.Failures = append(report.Failures, domainstructure.StepFailure{
		Level:      level,
		ParentPath: parentPath,
		Err:        err,
	})
	g.mu.Unlock()
	g.logger.Warn("step abandoned", "level", level, "parent", parentPath, "error", err)
	return nil
}

// randomDateIn draws a day uniformly from the inclusive range.
func (g *Generator) randomDateIn(start, end time.Time) time.Time {
	days := int(end.Sub(start).Hours()/24) + 1
	if days <= 1 {
		return start
	}
	g.mu.Lock()
	n := g.rng.Intn(days)
	g.mu.Unlock()
	return start.AddDate(0, 0, n)
}

func childFolderNames(parent *models.FolderNode) string {
	var names []string
	for _, f := range parent.Folders {
		names = append(names, f.Name)
	}
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}

// sanitizeName makes a model-proposed name safe to use as a path
// segment.
func sanitizeName(name string, maxLen int) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.ReplaceAll(name, "\\", "-")
	name = strings.Trim(name, ".")
	if len(name) > maxLen {
		cut := maxLen
		for cut > 0 && (name[cut]&0xC0) == 0x80 {
			cut--
		}
		name = name[:cut]
	}
	return name
}
