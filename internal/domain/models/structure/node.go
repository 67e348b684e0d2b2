package structure

import (
	"path"
	"strings"
	"time"
)

// ContentType classifies what kind of placeholder content a generated
// file should receive downstream.
type ContentType string

const (
	ContentText        ContentType = "text"
	ContentSpreadsheet ContentType = "spreadsheet"
	ContentDocument    ContentType = "document"
	ContentImage       ContentType = "image"
)

// FolderNode is a folder in the generated hierarchy. Level 1 folders hang
// off the tree root; nesting goes at most three levels deep. A node is
// owned exclusively by its parent (strict tree, no sharing).
type FolderNode struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Level       int           `json:"level"`
	Folders     []*FolderNode `json:"folders,omitempty"`
	Files       []*FileNode   `json:"files,omitempty"`
}

// FileNode is a placeholder file inside a folder. Date is set for files
// drawn from a dated generation context and drives dated filenames.
type FileNode struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Type        ContentType `json:"type"`
	Date        *time.Time  `json:"date,omitempty"`
}

// HasExtension reports whether the file name carries a recognizable
// extension (a non-empty suffix after a dot that is not the whole name).
func (f *FileNode) HasExtension() bool {
	ext := path.Ext(f.Name)
	return ext != "" && ext != f.Name
}

// childByName returns the child folder with the given name, or nil.
func (n *FolderNode) childByName(name string) *FolderNode {
	for _, c := range n.Folders {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// extensionTypes maps file extensions to the content type downstream
// writers use. Unknown extensions default to text.
var extensionTypes = map[string]ContentType{
	".txt":  ContentText,
	".md":   ContentText,
	".csv":  ContentSpreadsheet,
	".xlsx": ContentSpreadsheet,
	".docx": ContentDocument,
	".pdf":  ContentDocument,
	".png":  ContentImage,
	".jpg":  ContentImage,
	".jpeg": ContentImage,
}

// InferContentType derives a ContentType from a file name's extension,
// falling back to the model-declared type string when the extension is
// unknown.
func InferContentType(name, declared string) ContentType {
	if ct, ok := extensionTypes[strings.ToLower(path.Ext(name))]; ok {
		return ct
	}
	switch strings.ToLower(declared) {
	case "xlsx", "csv", "spreadsheet":
		return ContentSpreadsheet
	case "docx", "pdf", "document":
		return ContentDocument
	case "png", "jpg", "jpeg", "image":
		return ContentImage
	default:
		return ContentText
	}
}
