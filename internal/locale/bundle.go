package locale

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
)

//go:embed resources/*.json
var resourcesFS embed.FS

// ReferenceLanguage is the pack every other pack is checked against at
// load time. It must define every template key.
const ReferenceLanguage = "en"

// DateFormats are Go reference layouts for the three date renderings a
// run needs.
type DateFormats struct {
	Prompt   string `json:"prompt"`
	Filename string `json:"filename"`
	Document string `json:"document"`
}

type pack struct {
	Language    string            `json:"language"`
	DateFormats DateFormats       `json:"date_formats"`
	Templates   map[string]string `json:"templates"`
}

// Bundle holds every embedded language pack, validated for mutual
// consistency.
type Bundle struct {
	packs map[string]*pack
}

var placeholderPattern = regexp.MustCompile(`\{([a-z_]+)\}`)

// LoadBundle parses the embedded language packs and verifies that every
// pack defines the reference pack's template keys with the same
// placeholder sets. A malformed bundle is a build defect, so errors
// here are fatal to the caller.
func LoadBundle() (*Bundle, error) {
	b := &Bundle{packs: make(map[string]*pack)}
	entries, err := fs.ReadDir(resourcesFS, "resources")
	if err != nil {
		return nil, fmt.Errorf("reading embedded locale resources: %w", err)
	}
	for _, e := range entries {
		raw, err := resourcesFS.ReadFile("resources/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("reading locale pack %s: %w", e.Name(), err)
		}
		var p pack
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("parsing locale pack %s: %w", e.Name(), err)
		}
		if p.Language == "" {
			return nil, fmt.Errorf("locale pack %s declares no language", e.Name())
		}
		b.packs[p.Language] = &p
	}
	ref, ok := b.packs[ReferenceLanguage]
	if !ok {
		return nil, fmt.Errorf("reference language pack %q missing", ReferenceLanguage)
	}
	for lang, p := range b.packs {
		if lang == ReferenceLanguage {
			continue
		}
		if err := checkParity(ref, p); err != nil {
			return nil, fmt.Errorf("locale pack %q: %w", lang, err)
		}
	}
	return b, nil
}

// checkParity verifies that p covers every reference key with an
// identical placeholder set, so a language switch can never change
// which parameters a template needs.
func checkParity(ref, p *pack) error {
	for key, refTmpl := range ref.Templates {
		tmpl, ok := p.Templates[key]
		if !ok {
			return fmt.Errorf("missing template %q", key)
		}
		want := placeholders(refTmpl)
		got := placeholders(tmpl)
		if len(want) != len(got) {
			return fmt.Errorf("template %q placeholders %v, reference has %v", key, got, want)
		}
		for i := range want {
			if want[i] != got[i] {
				return fmt.Errorf("template %q placeholders %v, reference has %v", key, got, want)
			}
		}
	}
	return nil
}

func placeholders(tmpl string) []string {
	seen := make(map[string]bool)
	for _, m := range placeholderPattern.FindAllStringSubmatch(tmpl, -1) {
		seen[m[1]] = true
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Languages lists the available pack languages, sorted.
func (b *Bundle) Languages() []string {
	out := make([]string, 0, len(b.packs))
	for lang := range b.packs {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}
