// Package loaders holds helpers shared by the file format loaders.
// Each format lives in its own subpackage and implements driven.Loader.
package loaders

import "strings"

// SanitizeText removes NUL and other non-printing control characters,
// keeping newlines, carriage returns and tabs, and trims the result.
func SanitizeText(s string) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "\x00", "")

	r := make([]rune, 0, len(s))
	for _, ch := range s {
		if ch == '\n' || ch == '\r' || ch == '\t' {
			r = append(r, ch)
			continue
		}
		if ch < 0x20 || ch == 0x7f {
			continue
		}
		r = append(r, ch)
	}
	return strings.TrimSpace(string(r))
}
