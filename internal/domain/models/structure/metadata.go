package structure

import "time"

// MetadataFileName is the hidden marker written at the root of every
// generated hierarchy. Its presence identifies a directory as a run
// output and lets later invocations resume with the same parameters.
const MetadataFileName = ".dossier.json"

// Metadata is the persisted record of a completed run's parameters.
type Metadata struct {
	RunID     string    `json:"run_id"`
	Industry  string    `json:"industry"`
	Role      string    `json:"role,omitempty"`
	Language  string    `json:"language"`
	Model     string    `json:"model,omitempty"`
	DateStart time.Time `json:"date_start,omitempty"`
	DateEnd   time.Time `json:"date_end,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Folders   []string  `json:"folders,omitempty"`
}

// MetadataFrom captures a context's parameters for persistence. The
// caller assigns RunID and CreatedAt.
func MetadataFrom(gc *GenerationContext) *Metadata {
	return &Metadata{
		Industry:  gc.Industry,
		Role:      gc.Role,
		Language:  gc.Language,
		Model:     gc.Model,
		DateStart: gc.DateStart,
		DateEnd:   gc.DateEnd,
	}
}
