package content

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeDescription strips all markup from feed-provided HTML and
// collapses whitespace. Ingested descriptions go through this before
// they are stored or shown.
func SanitizeDescription(s string) string {
	cleaned := strictPolicy.Sanitize(s)
	cleaned = html.UnescapeString(cleaned)
	return strings.Join(strings.Fields(cleaned), " ")
}
