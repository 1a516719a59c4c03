package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	slugBaseMaxLen   = 50
	slugSuffixLen    = 6
	summaryMaxRunes  = 160
	fallbackSlugBase = "listing"
)

var (
	slugStripPattern = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpacePattern = regexp.MustCompile(`\s+`)
)

// BusinessSlug derives a listing slug from the business name and the id of the
// request that created it, e.g. "castle-street-coffee-a1b2c3".
func BusinessSlug(name, requestID string) string {
	base := strings.ToLower(name)
	base = slugStripPattern.ReplaceAllString(base, "")
	base = strings.TrimSpace(base)
	base = slugSpacePattern.ReplaceAllString(base, "-")
	if len(base) > slugBaseMaxLen {
		base = base[:slugBaseMaxLen]
	}
	if base == "" {
		base = fallbackSlugBase
	}

	suffix := requestID
	if len(suffix) > slugSuffixLen {
		suffix = suffix[len(suffix)-slugSuffixLen:]
	}
	return base + "-" + suffix
}

// Summarize cuts free text down to the listing summary length.
func Summarize(text string) string {
	if utf8.RuneCountInString(text) <= summaryMaxRunes {
		return text
	}
	return string([]rune(text)[:summaryMaxRunes])
}
