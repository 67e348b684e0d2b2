package locale

import (
	"strings"

	"golang.org/x/text/language"

	"dossier/internal/domain"
)

// Resolver turns template keys plus parameters into rendered prompt
// text, falling back across related languages when a pack is missing.
type Resolver struct {
	bundle *Bundle
}

func NewResolver(b *Bundle) *Resolver {
	return &Resolver{bundle: b}
}

// Normalize canonicalizes a user-supplied language tag ("JA", "en_US")
// to the form packs are keyed by. Unparseable tags pass through
// lowercased so the fallback chain still gets a chance.
func Normalize(lang string) string {
	tag, err := language.Parse(strings.ReplaceAll(lang, "_", "-"))
	if err != nil {
		return strings.ToLower(lang)
	}
	return tag.String()
}

// packFor resolves a language to a pack: exact match, then base
// language, then any regional variant of the base, then the reference
// language.
func (r *Resolver) packFor(lang string) *pack {
	lang = Normalize(lang)
	if p, ok := r.bundle.packs[lang]; ok {
		return p
	}
	base := lang
	if i := strings.IndexByte(base, '-'); i > 0 {
		base = base[:i]
	}
	if p, ok := r.bundle.packs[base]; ok {
		return p
	}
	for have, p := range r.bundle.packs {
		if strings.HasPrefix(have, base+"-") {
			return p
		}
	}
	return r.bundle.packs[ReferenceLanguage]
}

// Resolve renders the template key for lang, substituting every
// placeholder from params. A placeholder the template references but
// params lack is an error; surplus params are ignored.
func (r *Resolver) Resolve(key, lang string, params map[string]string) (string, error) {
	p := r.packFor(lang)
	tmpl, ok := p.Templates[key]
	if !ok {
		// Packs are parity-checked, but tolerate a partially
		// translated pack by falling through to the reference.
		tmpl, ok = r.bundle.packs[ReferenceLanguage].Templates[key]
		if !ok {
			return "", &domain.TemplateNotFoundError{Key: key, Language: lang}
		}
	}
	for _, name := range placeholders(tmpl) {
		val, ok := params[name]
		if !ok {
			return "", &domain.MissingPlaceholderError{Key: key, Placeholder: name}
		}
		tmpl = strings.ReplaceAll(tmpl, "{"+name+"}", val)
	}
	return tmpl, nil
}

// Languages lists the languages the underlying bundle ships.
func (r *Resolver) Languages() []string {
	return r.bundle.Languages()
}

// DateFormats returns the date layouts for lang, following the same
// fallback chain as template resolution.
func (r *Resolver) DateFormats(lang string) DateFormats {
	return r.packFor(lang).DateFormats
}
