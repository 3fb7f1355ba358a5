// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package artifact turns literature items into files on disk: a validated
// PDF download when the item's link really serves one, otherwise a fallback
// HTML document with a narrated audio summary. A batch processor runs the
// resolver over whole result sets with per-item failure isolation.
package artifact

import (
	"regexp"
	"strings"
)

// maxFilenameLen bounds the sanitized title used as an artifact base name.
const maxFilenameLen = 100

// unknownFilename is the base name for items whose title sanitizes away
// entirely.
const unknownFilename = "unknown_title"

var (
	markupRe   = regexp.MustCompile(`<[^>]+>`)
	collapseRe = regexp.MustCompile(`[_\s]+`)
)

const invalidFilenameChars = "<>:\"/\\|?*\n\r\t"

// SanitizeTitle converts a paper title into a safe filename base: markup
// stripped, filesystem-hostile characters replaced with underscores, runs
// of underscores and whitespace collapsed, trimmed, and truncated to
// maxFilenameLen runes. The result is never empty and sanitizing is
// idempotent.
func SanitizeTitle(title string) string {
	s := markupRe.ReplaceAllString(title, "")
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidFilenameChars, r) {
			return '_'
		}
		return r
	}, s)
	s = collapseRe.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")

	if runes := []rune(s); len(runes) > maxFilenameLen {
		s = strings.Trim(string(runes[:maxFilenameLen]), "_")
	}

	if s == "" {
		return unknownFilename
	}
	return s
}
