package config

const (
	// MaxFolderNameLength is the maximum length for generated folder
	// names. Longer names almost always mean the model returned prose
	// instead of a name.
	MaxFolderNameLength = 255

	// MaxFileNameLength is the maximum length for generated file names.
	// Same as folder names for consistency.
	MaxFileNameLength = 255

	// MaxPathDepth is the deepest nesting a generated hierarchy may
	// reach, counting from the root. Level 3 folders hold files only.
	MaxPathDepth = 3

	// SampleMaxBytes caps how much of a sample structure is embedded
	// into prompts. Oversized samples crowd out the instructions and
	// degrade responses; truncation keeps whole runes.
	SampleMaxBytes = 4096
)
