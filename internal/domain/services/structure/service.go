package structure

import (
	"context"

	models "dossier/internal/domain/models/structure"
)

// Generator synthesizes a folder hierarchy level by level. A partial
// tree plus failures is still a valid outcome; only a context error or
// a total level 1 failure aborts the run.
type Generator interface {
	Generate(ctx context.Context, gc *models.GenerationContext) (*models.Tree, *Report, error)
}

// Editor mutates an existing hierarchy: adding files to fitting folders
// and regenerating selected files with a new role and date range.
type Editor interface {
	// AddFile asks the model to place and name one new file described
	// by hint, then attaches it to the chosen folder.
	AddFile(ctx context.Context, gc *models.GenerationContext, tree *models.Tree, hint string) (*models.FileRef, error)

	// Regenerate picks n files, renames them for the new date range and
	// replaces their descriptions in place.
	Regenerate(ctx context.Context, gc *models.GenerationContext, tree *models.Tree, n int) ([]models.FileRef, error)
}

// Assembler owns materialization: attaching nodes under a root
// directory and persisting run metadata alongside it.
type Assembler interface {
	Attach(ctx context.Context, tree *models.Tree, root string) error
	Persist(meta *models.Metadata, root string) error
	Load(root string) (*models.Metadata, error)
}
