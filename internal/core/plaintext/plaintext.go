// Package plaintext normalizes user supplied text fields (titles,
// descriptions, comments, bios) before they are stored.
package plaintext

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rivo/uniseg"
)

var policy = bluemonday.StrictPolicy()

// Clean strips every HTML element from s and trims surrounding whitespace.
// Entities escaped by the policy are decoded again so that the stored
// value is plain text, not HTML.
func Clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(policy.Sanitize(s)))
}

// Len counts user-perceived characters (grapheme clusters) in s
func Len(s string) int {
	return uniseg.GraphemeClusterCount(s)
}
