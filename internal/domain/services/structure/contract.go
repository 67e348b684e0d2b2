package structure

// ContractSpec declares what a structured model response must contain
// before it is accepted. RequiredKeys are top-level JSON object keys.
type ContractSpec struct {
	RequiredKeys []string
}

// FolderEntry is one folder proposed by the model at some level.
type FolderEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// FileEntry is one file proposed by the model for a folder.
type FileEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// StepResult is the decoded, contract-conforming payload of a single
// generation step.
type StepResult struct {
	Folders []FolderEntry
	Files   []FileEntry
}
