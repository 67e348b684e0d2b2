package structure

import (
	"fmt"
	"sort"
	"strings"
)

// Tree is a complete generated hierarchy. The root node itself is
// anonymous; its children are the level 1 folders.
type Tree struct {
	Root *FolderNode `json:"root"`
}

// NewTree returns an empty tree with an initialized root.
func NewTree() *Tree {
	return &Tree{Root: &FolderNode{Level: 0}}
}

// FolderAt resolves a slash-separated path ("Finance/Invoices") to the
// folder node it names, or nil when any segment is missing. The empty
// path resolves to the root.
func (t *Tree) FolderAt(p string) *FolderNode {
	cur := t.Root
	if p == "" {
		return cur
	}
	for _, seg := range strings.Split(p, "/") {
		cur = cur.childByName(seg)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// FileRef points at a file together with the folder that owns it and the
// folder's path from the root.
type FileRef struct {
	Dir    string
	Folder *FolderNode
	File   *FileNode
}

// Files returns every file in the tree in depth-first order.
func (t *Tree) Files() []FileRef {
	var out []FileRef
	t.Walk(func(dir string, f *FolderNode) {
		for _, file := range f.Files {
			out = append(out, FileRef{Dir: dir, Folder: f, File: file})
		}
	})
	return out
}

// Walk visits every folder in depth-first order, root first. The path
// passed to fn is slash-separated and empty for the root.
func (t *Tree) Walk(fn func(dir string, f *FolderNode)) {
	var walk func(dir string, f *FolderNode)
	walk = func(dir string, f *FolderNode) {
		fn(dir, f)
		for _, c := range f.Folders {
			p := c.Name
			if dir != "" {
				p = dir + "/" + c.Name
			}
			walk(p, c)
		}
	}
	walk("", t.Root)
}

// FolderCount returns the number of folders excluding the root.
func (t *Tree) FolderCount() int {
	n := 0
	t.Walk(func(dir string, f *FolderNode) {
		if f != t.Root {
			n++
		}
	})
	return n
}

// Outline renders the hierarchy as an indented listing, folders suffixed
// with a slash, suitable for embedding in prompts and run summaries.
func (t *Tree) Outline() string {
	var b strings.Builder
	var render func(f *FolderNode, depth int)
	render = func(f *FolderNode, depth int) {
		indent := strings.Repeat("  ", depth)
		folders := append([]*FolderNode(nil), f.Folders...)
		sort.Slice(folders, func(i, j int) bool { return folders[i].Name < folders[j].Name })
		for _, c := range folders {
			fmt.Fprintf(&b, "%s%s/\n", indent, c.Name)
			render(c, depth+1)
		}
		files := append([]*FileNode(nil), f.Files...)
		sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
		for _, file := range files {
			fmt.Fprintf(&b, "%s%s\n", indent, file.Name)
		}
	}
	render(t.Root, 0)
	return b.String()
}
