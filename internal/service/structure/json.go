package structure

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"dossier/internal/domain"
	domainstructure "dossier/internal/domain/services/structure"
)

// ExtractObject pulls the first complete JSON object out of raw model
// text. Models wrap objects in code fences or prose; the extractor
// strips fences first, then scans for a balanced brace span outside of
// string literals.
func ExtractObject(text string) (string, error) {
	text = stripCodeFence(text)

	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", &domain.ParseError{Err: fmt.Errorf("no JSON object in response")}
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", &domain.ParseError{Err: fmt.Errorf("unterminated JSON object in response")}
}

// stripCodeFence removes a surrounding markdown fence, with or without
// a language tag.
func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return text
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if nl := strings.IndexByte(trimmed, '\n'); nl >= 0 {
		trimmed = trimmed[nl+1:]
	}
	if end := strings.LastIndex(trimmed, "```"); end >= 0 {
		trimmed = trimmed[:end]
	}
	return trimmed
}

// decodeObject parses an extracted object into its top-level members
// and normalizes the key variants models produce ("subfolders" for
// "folders").
func decodeObject(candidate string) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &obj); err != nil {
		return nil, &domain.ParseError{Err: err}
	}
	if raw, ok := obj["subfolders"]; ok {
		if _, exists := obj["folders"]; !exists {
			obj["folders"] = raw
		}
		delete(obj, "subfolders")
	}
	return obj, nil
}

// checkKeys verifies the contract's required keys are all present.
func checkKeys(obj map[string]json.RawMessage, spec domainstructure.ContractSpec) error {
	var missing []string
	for _, key := range spec.RequiredKeys {
		if _, ok := obj[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &domain.SchemaError{MissingKeys: missing}
	}
	return nil
}

// folderPayload is the object form of a folder entry.
type folderPayload struct {
	Description string `json:"description"`
}

// DecodeFolderEntries accepts the three shapes models return for a
// folder listing: a name-to-object map, a name-to-description map, or
// an array of entries. Entries with empty names are dropped.
func DecodeFolderEntries(raw json.RawMessage) ([]domainstructure.FolderEntry, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var byName map[string]folderPayload
	if err := json.Unmarshal(raw, &byName); err == nil {
		out := make([]domainstructure.FolderEntry, 0, len(byName))
		for name, p := range byName {
			if name == "" {
				continue
			}
			out = append(out, domainstructure.FolderEntry{Name: name, Description: p.Description})
		}
		sortFolders(out)
		return out, nil
	}

	var byDescription map[string]string
	if err := json.Unmarshal(raw, &byDescription); err == nil {
		out := make([]domainstructure.FolderEntry, 0, len(byDescription))
		for name, desc := range byDescription {
			if name == "" {
				continue
			}
			out = append(out, domainstructure.FolderEntry{Name: name, Description: desc})
		}
		sortFolders(out)
		return out, nil
	}

	var list []domainstructure.FolderEntry
	if err := json.Unmarshal(raw, &list); err == nil {
		out := list[:0]
		for _, e := range list {
			if e.Name != "" {
				out = append(out, e)
			}
		}
		return out, nil
	}

	return nil, &domain.ParseError{Err: fmt.Errorf("folders is neither an object nor an array")}
}

// filePayload is the object form of a file entry.
type filePayload struct {
	Description string `json:"description"`
	Type        string `json:"type"`
}

// DecodeFileEntries accepts the map and array shapes models return for
// a file listing.
func DecodeFileEntries(raw json.RawMessage) ([]domainstructure.FileEntry, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var byName map[string]filePayload
	if err := json.Unmarshal(raw, &byName); err == nil {
		out := make([]domainstructure.FileEntry, 0, len(byName))
		for name, p := range byName {
			if name == "" {
				continue
			}
			out = append(out, domainstructure.FileEntry{Name: name, Description: p.Description, Type: p.Type})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return out, nil
	}

	var list []domainstructure.FileEntry
	if err := json.Unmarshal(raw, &list); err == nil {
		out := list[:0]
		for _, e := range list {
			if e.Name != "" {
				out = append(out, e)
			}
		}
		return out, nil
	}

	return nil, &domain.ParseError{Err: fmt.Errorf("files is neither an object nor an array")}
}

func sortFolders(entries []domainstructure.FolderEntry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
}
