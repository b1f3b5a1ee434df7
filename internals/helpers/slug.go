// file: internals/helpers/slug.go
package helper

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	reHyphen   = regexp.MustCompile(`-+`)
)

// Slugify turns free text into a [a-z0-9-] slug, compresses "-", trims the
// ends and enforces maxLen (default 100 if <=0), fallback "item".
func Slugify(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = 100
	}
	s = strings.ToLower(strings.TrimSpace(s))
	s = reNonAlnum.ReplaceAllString(s, "-")
	s = reHyphen.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "item"
	}
	if utf8.RuneCountInString(s) > maxLen {
		rs := []rune(s)
		s = strings.Trim(string(rs[:maxLen]), "-")
	}
	if s == "" {
		return "item"
	}
	return s
}
