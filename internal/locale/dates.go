package locale

import "time"

// FormatPromptDate renders a date the way prompts in lang spell dates.
func (r *Resolver) FormatPromptDate(lang string, t time.Time) string {
	return t.Format(r.DateFormats(lang).Prompt)
}

// FormatFilenameDate renders a date for embedding in generated file
// names.
func (r *Resolver) FormatFilenameDate(lang string, t time.Time) string {
	return t.Format(r.DateFormats(lang).Filename)
}

// FormatDocumentDate renders a date for use inside generated document
// content.
func (r *Resolver) FormatDocumentDate(lang string, t time.Time) string {
	return t.Format(r.DateFormats(lang).Document)
}

// DateRangeText renders the localized "covering period X to Y" clause,
// or the empty string for an undated run.
func (r *Resolver) DateRangeText(lang string, start, end time.Time) (string, error) {
	if start.IsZero() {
		return "", nil
	}
	return r.Resolve("date_range_text", lang, map[string]string{
		"start": r.FormatPromptDate(lang, start),
		"end":   r.FormatPromptDate(lang, end),
	})
}

// RoleText renders the localized role qualifier clause, or the empty
// string when no role is set.
func (r *Resolver) RoleText(lang, role string) (string, error) {
	if role == "" {
		return "", nil
	}
	return r.Resolve("role_text", lang, map[string]string{"role": role})
}
