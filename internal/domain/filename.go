package domain

import (
	"path/filepath"
	"strings"
)

const defaultPDFName = "document.pdf"

// IsPDFFilename reports whether name ends in ".pdf", ignoring case.
func IsPDFFilename(name string) bool {
	return strings.EqualFold(filepath.Ext(strings.TrimSpace(name)), ".pdf")
}

// SanitizeFilename reduces an uploaded name to a safe ASCII file name:
// path separators and whitespace become underscores, anything outside
// [A-Za-z0-9_.-] is dropped, and leading or trailing dots and underscores
// are trimmed. A name that loses its .pdf extension falls back to document.pdf.
func SanitizeFilename(name string) string {
	name = strings.NewReplacer("/", " ", "\\", " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '_', r == '.', r == '-':
			b.WriteRune(r)
		}
	}

	out := strings.Trim(b.String(), "._")
	if len(out) > 255 {
		ext := filepath.Ext(out)
		out = out[:255-len(ext)] + ext
	}
	if !IsPDFFilename(out) || strings.TrimSuffix(out, filepath.Ext(out)) == "" {
		return defaultPDFName
	}
	return out
}
