package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dossier/internal/config"
	models "dossier/internal/domain/models/structure"
	domainllm "dossier/internal/domain/services/llm"
	"dossier/internal/locale"
	"dossier/internal/service/content"
	llmservice "dossier/internal/service/llm"
	"dossier/internal/service/llm/adapters"
	structureservice "dossier/internal/service/structure"
)

const flagDateLayout = "2006-01-02"

// app bundles the long-lived services every command needs.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	resolver  *locale.Resolver
	factory   *llmservice.ProviderFactory
	assembler *structureservice.Assembler
}

func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	bundle, err := locale.LoadBundle()
	if err != nil {
		return nil, fmt.Errorf("loading language packs: %w", err)
	}
	return &app{
		cfg:       cfg,
		logger:    logger,
		resolver:  locale.NewResolver(bundle),
		factory:   llmservice.NewProviderFactory(cfg),
		assembler: structureservice.NewAssembler(nil, logger),
	}, nil
}

// contextFor resolves overrides against any metadata persisted at out
// and the process configuration.
func (a *app) contextFor(out string, o models.Overrides) (*models.GenerationContext, domainllm.Provider, error) {
	meta, err := a.assembler.Load(out)
	if err != nil {
		return nil, nil, err
	}

	a.applyConfig(&o, meta)

	provider, bare, err := a.factory.ProviderForModel(o.Model, o.MaxTransportRetries)
	if err != nil {
		return nil, nil, err
	}
	o.Model = bare

	gc, err := models.NewGenerationContext(o, meta)
	if err != nil {
		return nil, nil, err
	}
	return gc, provider, nil
}

// applyConfig fills whatever neither the flags nor the metadata set.
func (a *app) applyConfig(o *models.Overrides, meta *models.Metadata) {
	if o.Model == "" {
		if meta != nil && meta.Model != "" {
			o.Model = meta.Model
		} else {
			o.Model = a.cfg.DefaultModel
		}
	}
	if o.Concurrency == 0 {
		o.Concurrency = a.cfg.Concurrency
	}
	if o.MaxRepairs == 0 {
		o.MaxRepairs = a.cfg.MaxRepairs
	}
	if o.MaxTransportRetries == 0 {
		o.MaxTransportRetries = a.cfg.MaxTransportRetries
	}
}

// generate runs a full structure generation into out. When withContent
// is set, materialized files are filled with placeholder content.
func (a *app) generate(ctx context.Context, out string, o models.Overrides, withContent bool) error {
	sample, err := structureservice.ResolveSample(o.Sample, a.cfg.SampleMaxBytes)
	if err != nil {
		return fmt.Errorf("resolving sample: %w", err)
	}
	o.Sample = sample

	gc, provider, err := a.contextFor(out, o)
	if err != nil {
		return err
	}

	a.logger.Info("generation starting",
		"industry", gc.Industry,
		"role", gc.Role,
		"language", gc.Language,
		"model", gc.Model,
		"provider", provider.Name(),
		"output", out,
	)

	enforcer := structureservice.NewEnforcer(provider, a.resolver, gc.MaxRepairs, a.logger)
	generator := structureservice.NewGenerator(enforcer, a.resolver, a.logger)

	tree, report, err := generator.Generate(ctx, gc)
	if err != nil {
		return err
	}

	assembler := a.assembler
	if withContent {
		writer := content.NewWriter(adapters.NewLoremAdapter(), a.resolver, gc.Language, a.logger)
		assembler = structureservice.NewAssembler(writer, a.logger)
	}
	if err := assembler.Attach(ctx, tree, out); err != nil {
		return err
	}

	meta := models.MetadataFrom(gc)
	for _, f := range tree.Root.Folders {
		meta.Folders = append(meta.Folders, f.Name)
	}
	if err := a.assembler.Persist(meta, out); err != nil {
		return err
	}

	fmt.Println(report.Summary())
	return nil
}

// addFile asks the model to place one new document in an existing
// hierarchy.
func (a *app) addFile(ctx context.Context, out, hint string, o models.Overrides) error {
	gc, provider, err := a.contextFor(out, o)
	if err != nil {
		return err
	}

	tree, err := a.assembler.Scan(out)
	if err != nil {
		return err
	}

	enforcer := structureservice.NewEnforcer(provider, a.resolver, gc.MaxRepairs, a.logger)
	editor := structureservice.NewEditor(enforcer, a.resolver, a.logger)

	ref, err := editor.AddFile(ctx, gc, tree, hint)
	if err != nil {
		return err
	}

	writer := content.NewWriter(adapters.NewLoremAdapter(), a.resolver, gc.Language, a.logger)
	assembler := structureservice.NewAssembler(writer, a.logger)
	if err := assembler.Attach(ctx, tree, out); err != nil {
		return err
	}

	fmt.Printf("added %s/%s\n", ref.Dir, ref.File.Name)
	return nil
}

// edit regenerates count files under a role and date range that come
// from the flags alone.
func (a *app) edit(ctx context.Context, out string, count int, o models.Overrides) error {
	meta, err := a.assembler.Load(out)
	if err != nil {
		return err
	}
	if meta == nil {
		return fmt.Errorf("%s is not a generated hierarchy (no %s)", out, models.MetadataFileName)
	}

	// Identity comes from the original run; role and dates do not.
	if o.Industry == "" {
		o.Industry = meta.Industry
	}
	if o.Language == "" {
		o.Language = meta.Language
	}
	a.applyConfig(&o, meta)

	provider, bare, err := a.factory.ProviderForModel(o.Model, o.MaxTransportRetries)
	if err != nil {
		return err
	}
	o.Model = bare

	gc, err := models.NewEditContext(o)
	if err != nil {
		return err
	}

	tree, err := a.assembler.Scan(out)
	if err != nil {
		return err
	}

	oldNames := make(map[*models.FileNode]string)
	for _, ref := range tree.Files() {
		oldNames[ref.File] = ref.File.Name
	}

	enforcer := structureservice.NewEnforcer(provider, a.resolver, gc.MaxRepairs, a.logger)
	editor := structureservice.NewEditor(enforcer, a.resolver, a.logger)

	refs, err := editor.Regenerate(ctx, gc, tree, count)
	if err != nil {
		return err
	}

	writer := content.NewWriter(adapters.NewLoremAdapter(), a.resolver, gc.Language, a.logger)
	assembler := structureservice.NewAssembler(writer, a.logger)
	for _, ref := range refs {
		old := oldNames[ref.File]
		if old != "" && old != ref.File.Name {
			stale := ref
			staleFile := *ref.File
			staleFile.Name = old
			stale.File = &staleFile
			if err := assembler.Remove(out, stale); err != nil {
				return err
			}
		}
	}
	if err := assembler.Attach(ctx, tree, out); err != nil {
		return err
	}

	fmt.Printf("regenerated %d file(s)\n", len(refs))
	return nil
}

func parseDateFlag(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(flagDateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s must be %s: %w", name, flagDateLayout, err)
	}
	return t, nil
}
