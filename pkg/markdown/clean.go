// Package markdown strips markdown decoration from LLM output so it renders
// as plain text in the portal.
package markdown

import (
	"regexp"
	"strings"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Order matters: paired delimiters go before the stray-character sweep so
// their inner text survives.
var rules = []rule{
	{regexp.MustCompile(`(?m)^#{1,6}\s+`), ""},
	{regexp.MustCompile(`\*\*(.+?)\*\*`), "$1"},
	{regexp.MustCompile(`__(.+?)__`), "$1"},
	{regexp.MustCompile(`\*(.+?)\*`), "$1"},
	{regexp.MustCompile(`_(.+?)_`), "$1"},
	{regexp.MustCompile("`(.+?)`"), "$1"},
	{regexp.MustCompile(`(?m)^[-*_]{3,}[ \t]*$`), ""},
	{regexp.MustCompile(`[*#]`), ""},
	{regexp.MustCompile(`\n{3,}`), "\n\n"},
	{regexp.MustCompile(`(?m)[ \t]+$`), ""},
	{regexp.MustCompile(`[ \t]{2,}`), " "},
}

func cleanPass(text string) string {
	for _, r := range rules {
		text = r.pattern.ReplaceAllString(text, r.replacement)
	}
	return strings.TrimSpace(text)
}

// Clean removes headings, emphasis, inline code, horizontal rules and stray
// markers, then normalizes whitespace. Passes repeat until the text stops
// changing, so Clean(Clean(x)) == Clean(x). Every rule only shortens the
// text, which bounds the loop.
func Clean(text string) string {
	if text == "" {
		return text
	}
	for {
		next := cleanPass(text)
		if next == text {
			return next
		}
		text = next
	}
}
