package search

import (
	"regexp"
	"strings"
)

var (
	// inline images and links, keeping the visible text
	inlineLink = regexp.MustCompile(`!?\[([^\]]+)\]\([^)]+\)`)
	// empty link brackets left over after the first pass
	emptyLink = regexp.MustCompile(`\[\]\([^)]+\)`)
)

// CleanMarkdown strips embedded images and links from scraped page content
// so only readable text reaches the model.
func CleanMarkdown(md string) string {
	md = inlineLink.ReplaceAllString(md, "$1")
	md = emptyLink.ReplaceAllString(md, "")
	return strings.TrimSpace(md)
}
