// src/security/validation/sanitizers.go
package validation

import (
	"html"
	"path"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// Definition of strict sanitization policy
	strictHTMLPolicy *bluemonday.Policy
)

func init() {
	// Initialize strict policy once at startup
	strictHTMLPolicy = bluemonday.StrictPolicy() // Removes all HTML tags
}

// SanitizeText removes all HTML tags and attributes from an input string.
// The result is plain text; escaping is left to the template that renders it.
func SanitizeText(s string) string {
	return html.UnescapeString(strictHTMLPolicy.Sanitize(s))
}

// SanitizeFilename reduces a client-supplied file name to a printable base
// name without markup, safe to log and render.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = path.Base(name)
	if name == "." || name == "/" {
		return ""
	}
	name = SanitizeText(StripUnprintable(name))
	return strings.Map(func(r rune) rune {
		if r == '\t' || r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, strings.TrimSpace(name))
}

// SanitizeForFormulaInjection prepends a single quote if the string starts with a formula character.
// This prevents CSV Injection (Formula Injection) in Excel/Sheets.
func SanitizeForFormulaInjection(s string) string {
	// Check the trimmed string to find the trigger character,
	// but apply the fix to the original string to preserve formatting.
	trimmed := strings.TrimLeft(s, " ")

	if len(trimmed) == 0 {
		return s
	}

	// List of characters that trigger formula execution in Excel/LibreOffice/Sheets
	switch trimmed[0] {
	case '=', '+', '-', '@', '\t', '\r', '\n':
		// Prepend a single quote (') which forces the cell to be treated as text
		return "'" + s
	}

	return s
}

// StripUnprintable removes non-printable characters, allowing common whitespace
// like space, tab, newline, and carriage return.
func StripUnprintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		return -1 // Drop the rune
	}, s)
}
