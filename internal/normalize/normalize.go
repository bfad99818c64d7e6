// Package normalize provides pure canonicalization of titles, authors,
// ISBNs and descriptions for matching and deduplication. Every function
// is side-effect free and idempotent: normalize(normalize(x)) == normalize(x).
package normalize

import (
	"strings"
	"unicode"
)

// ISBN canonicalizes a raw ISBN value. Spreadsheet-escaping artifacts
// (`="9780439708180"`), hyphens and whitespace are stripped, everything
// that is not a digit or the X checksum character is removed, and the
// result is uppercased. Values with fewer than 10 remaining characters
// are rejected and reported as absent.
func ISBN(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == 'X' || r == 'x':
			b.WriteRune('X')
		}
	}
	cleaned := b.String()
	if len(cleaned) < 10 {
		return ""
	}
	return cleaned
}

// Text normalizes free text for matching: lowercase, trim, collapse
// internal whitespace to single spaces.
func Text(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(raw)), " ")
}

// TitleForDedup applies the stronger title normalization used by the
// deduplicator's second pass. On top of Text it strips:
//   - a trailing series annotation: "Title (Series, #3)" -> "Title"
//   - any other trailing parenthetical: "Title (Unabridged)" -> "Title"
//   - bracketed annotations anywhere: "Title [Special Edition]" -> "Title"
//   - subtitle boilerplate: ": A Novel" and ": Book N" suffixes
func TitleForDedup(raw string) string {
	title := strings.TrimSpace(raw)

	// Trailing parentheticals, series-numbered or otherwise. Stripping
	// repeatedly handles "Title (Series, #1) (Unabridged)".
	for {
		stripped := stripTrailingParen(title)
		if stripped == title {
			break
		}
		title = stripped
	}

	title = stripBrackets(title)
	title = Text(title)

	if idx := indexOfSuffix(title, ": a novel"); idx >= 0 {
		title = strings.TrimSpace(title[:idx])
	}
	if idx := indexOfBookSuffix(title); idx >= 0 {
		title = strings.TrimSpace(title[:idx])
	}

	return title
}

// Author converts "Last, First" to "First Last". Only the first comma is
// significant; author strings without a comma pass through trimmed.
func Author(raw string) string {
	author := strings.TrimSpace(raw)
	if last, first, ok := strings.Cut(author, ","); ok {
		last = strings.TrimSpace(last)
		first = strings.TrimSpace(first)
		if last != "" && first != "" {
			return first + " " + last
		}
	}
	return author
}

// AuthorForDedup extracts the primary author in a lowercased comparison
// form. Parenthetical role annotations ("(Illustrator)") are removed,
// co-authors after a comma-then-capitalized-token boundary are dropped,
// and a remaining "Last, First" is flipped when the first-name part has
// at most two tokens.
//
//	"J.K. Rowling, Mary GrandPre (Illustrator)" -> "j.k. rowling"
func AuthorForDedup(raw string) string {
	author := stripParens(strings.TrimSpace(raw))
	author = primarySegment(author)

	if last, first, ok := strings.Cut(author, ","); ok {
		last = strings.TrimSpace(last)
		first = strings.TrimSpace(first)
		if last != "" && first != "" && len(strings.Fields(first)) <= 2 {
			author = first + " " + last
		}
	}

	return Text(author)
}

// SanitizeString removes NUL bytes, which upset JSON encoders and some
// CSV readers. Spreadsheet exports occasionally embed them.
func SanitizeString(s string) string {
	return strings.Map(func(r rune) rune {
		if r == 0 {
			return -1
		}
		return r
	}, s)
}

// stripTrailingParen removes one parenthetical group at the very end of
// the string, if present.
func stripTrailingParen(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasSuffix(s, ")") {
		return s
	}
	open := strings.LastIndex(s, "(")
	if open <= 0 {
		return s
	}
	return strings.TrimSpace(s[:open])
}

// stripBrackets removes bracketed annotations anywhere in the string.
func stripBrackets(s string) string {
	for {
		open := strings.Index(s, "[")
		if open < 0 {
			return s
		}
		end := strings.Index(s[open:], "]")
		if end < 0 {
			return s
		}
		s = strings.TrimSpace(strings.TrimSpace(s[:open]) + " " + strings.TrimSpace(s[open+end+1:]))
	}
}

// stripParens removes parenthetical groups anywhere in the string.
func stripParens(s string) string {
	for {
		open := strings.Index(s, "(")
		if open < 0 {
			return strings.TrimSpace(s)
		}
		end := strings.Index(s[open:], ")")
		if end < 0 {
			return strings.TrimSpace(s)
		}
		s = strings.TrimSpace(s[:open]) + " " + strings.TrimSpace(s[open+end+1:])
	}
}

// primarySegment returns the text before the first comma that is
// followed by a capitalized token. That boundary separates co-authors
// ("A. One, Beth Two") without splitting "Rowling, J.K." differently
// from the co-author case: both cut at the comma, keeping the first
// segment as the primary name.
func primarySegment(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] != ',' {
			continue
		}
		j := i + 1
		for j < len(s) && (s[j] == ' ' || s[j] == '\t') {
			j++
		}
		if j > i+1 && j < len(s) && unicode.IsUpper(rune(s[j])) {
			return strings.TrimSpace(s[:i])
		}
	}
	return strings.TrimSpace(s)
}

// indexOfSuffix finds where a ": a novel..." style suffix begins, or -1.
// The suffix may be followed by further text ("...: a novel of the war").
func indexOfSuffix(s, marker string) int {
	idx := strings.Index(s, marker)
	if idx < 0 {
		return -1
	}
	return idx
}

// indexOfBookSuffix finds a ": book N" suffix, or -1.
func indexOfBookSuffix(s string) int {
	idx := strings.Index(s, ": book ")
	if idx < 0 {
		return -1
	}
	rest := s[idx+len(": book "):]
	if rest == "" || rest[0] < '0' || rest[0] > '9' {
		return -1
	}
	return idx
}
