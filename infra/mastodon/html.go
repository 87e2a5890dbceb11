package mastodon

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy = bluemonday.StrictPolicy()
	lineBreakRe  = regexp.MustCompile(`(?i)</p>|<br\s*/?>`)
)

// plainText converts status HTML to terminal-safe plain text: paragraph
// ends and breaks become newlines, everything else is stripped and
// entities are decoded. Not a security boundary for the terminal, but the
// sanitizer also drops scripts and attributes wholesale.
func plainText(s string) string {
	s = lineBreakRe.ReplaceAllString(s, "\n")
	s = strictPolicy.Sanitize(s)
	return strings.TrimSpace(html.UnescapeString(s))
}
