// Package markdown extracts plain text and a cover image from README
// Markdown. It is a best-effort heuristic built from ordered regexp passes,
// not a CommonMark parser.
package markdown

import (
	"regexp"
	"strings"
)

var (
	fencedCodeRe = regexp.MustCompile("(?s)```.*?```")
	inlineCodeRe = regexp.MustCompile("`[^`]*`")
	imageRe      = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	linkRe       = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Strip flattens Markdown into a single line of plain text.
//
// Code is removed before images and links are flattened so that bracket and
// parenthesis sequences inside code are never read as link syntax.
func Strip(md string) string {
	if md == "" {
		return ""
	}

	text := fencedCodeRe.ReplaceAllString(md, " ")
	text = inlineCodeRe.ReplaceAllString(text, " ")

	// A flattened label can complete an outer link ("[[a](b)](c)"), so
	// repeat until nothing changes. Every replacement shortens the text.
	for {
		next := imageRe.ReplaceAllString(text, "$1")
		next = linkRe.ReplaceAllString(next, "$1")
		if next == text {
			break
		}
		text = next
	}

	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
