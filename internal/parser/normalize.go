package parser

import (
	"html"
	"regexp"
	"strings"
)

var (
	brTagRe      = regexp.MustCompile(`(?i)<br\s*/?>`)
	pOpenTagRe   = regexp.MustCompile(`(?i)<p[^>]*>`)
	pCloseTagRe  = regexp.MustCompile(`(?i)</p>`)
	anyTagRe     = regexp.MustCompile(`<[^>]+>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	blankLinesRe = regexp.MustCompile(`\n\s*\n`)
)

// StripHTML converts a raw (possibly HTML) email body into plain text
// suitable for pattern matching. Line breaks and paragraph boundaries
// become newlines before the remaining markup is dropped, so sentence
// boundaries survive tag stripping. Total function: empty in, empty out.
func StripHTML(text string) string {
	text = brTagRe.ReplaceAllString(text, "\n")
	text = pOpenTagRe.ReplaceAllString(text, "\n")
	text = pCloseTagRe.ReplaceAllString(text, "\n")
	text = anyTagRe.ReplaceAllString(text, " ")
	text = html.UnescapeString(text)
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = blankLinesRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
