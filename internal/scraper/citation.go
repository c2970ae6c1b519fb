package scraper

import "regexp"

var citationPattern = regexp.MustCompile(`\[\d+\]`)

// StripCitations removes bracketed numeric citation markers such as "[12]".
func StripCitations(s string) string {
	return citationPattern.ReplaceAllString(s, "")
}
