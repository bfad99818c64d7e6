package normalize

import (
	"strings"

	"golang.org/x/net/html"
)

// Description cleans a raw description for display and embedding input:
// HTML markup is stripped down to its text content, em and en dashes are
// replaced with sentence breaks, and whitespace is collapsed. Enrichment
// APIs return descriptions in wildly different shapes; everything funnels
// through here before a length check is meaningful.
func Description(raw string) string {
	text := raw
	if strings.ContainsAny(raw, "<&") {
		text = stripHTML(raw)
	}

	text = strings.ReplaceAll(text, "—", ". ") // em dash
	text = strings.ReplaceAll(text, "–", ". ") // en dash

	return strings.Join(strings.Fields(SanitizeString(text)), " ")
}

// stripHTML extracts the text content of an HTML fragment. The tokenizer
// tolerates the malformed markup enrichment APIs routinely return; on a
// fragment with no markup it simply yields the input (with entities
// decoded).
func stripHTML(fragment string) string {
	tok := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	for {
		switch tok.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(tok.Text())
			b.WriteByte(' ')
		}
	}
}
