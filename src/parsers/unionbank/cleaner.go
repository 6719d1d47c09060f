package unionbank

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/cloudflare/ahocorasick"
)

var separatorPattern = regexp.MustCompile(`^-[-\s]{19,}$`)

// Cleaner removes page furniture (bank letterhead, customer block, page
// numbers, column titles and dashed rules) from extracted page text.
type Cleaner struct {
	markers []string
}

// NewCleaner returns a Cleaner for the given header markers.
func NewCleaner(markers []string) *Cleaner {
	return &Cleaner{markers: markers}
}

// CleanPages cleans every page and joins the non-empty results with "\n".
// The result is the RawText offered as transactions.txt.
func (c *Cleaner) CleanPages(pages []string) string {
	// ahocorasick.Matcher keeps per-search state, so each call gets its own.
	var matcher *ahocorasick.Matcher
	if len(c.markers) > 0 {
		matcher = ahocorasick.NewStringMatcher(c.markers)
	}

	var out []string
	for _, page := range pages {
		cleaned := cleanPage(page, matcher)
		if strings.TrimSpace(cleaned) != "" {
			out = append(out, cleaned)
		}
	}
	return strings.Join(out, "\n")
}

// Clean cleans a single page.
func (c *Cleaner) Clean(page string) string {
	return c.CleanPages([]string{page})
}

func cleanPage(text string, matcher *ahocorasick.Matcher) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		if matcher != nil && len(matcher.Match([]byte(line))) > 0 {
			continue
		}
		if separatorPattern.MatchString(strings.TrimSpace(line)) {
			continue
		}
		line = strings.TrimRightFunc(line, unicode.IsSpace)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
