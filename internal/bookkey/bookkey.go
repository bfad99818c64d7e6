// Package bookkey derives the stable identity of a book record.
//
// A book_key takes one of three mutually exclusive shapes, checked in
// fixed priority order:
//
//	isbn:<isbn13>  - when a normalized ISBN13 is present
//	gr:<book_id>   - when the source collection carries its own book id
//	ta:<hash>      - content hash over normalized title+author
//
// The order is load-bearing: swapping it changes which records collide.
// Two records with the same ISBN always share a key regardless of
// title/author differences; two records with neither ISBN nor native id
// collide only on an exact normalized title+author match.
package bookkey

import (
	"crypto/md5" //#nosec G401 -- non-cryptographic, stable content key
	"encoding/hex"

	"github.com/izachstanford/smart-books-ai/internal/normalize"
)

// Key shape prefixes.
const (
	PrefixISBN      = "isbn:"
	PrefixGoodreads = "gr:"
	PrefixTitleHash = "ta:"
)

// hashLen is the number of hex characters kept from the content hash.
// 48 bits is collision-resistant at corpus scale (1e4-1e5 records).
const hashLen = 12

// Generate returns the book_key for a raw record. isbn13 must already be
// normalized (see normalize.ISBN); title and author may be raw.
// Deterministic across calls and process restarts.
func Generate(isbn13, title, author, sourceID string) string {
	if isbn13 != "" {
		return PrefixISBN + isbn13
	}
	if sourceID != "" {
		return PrefixGoodreads + sourceID
	}
	return PrefixTitleHash + contentHash(title, author)
}

// contentHash hashes the normalized title+author pair into a short
// stable hex string.
func contentHash(title, author string) string {
	combined := normalize.Text(title) + "|" + normalize.Text(author)
	sum := md5.Sum([]byte(combined)) //#nosec G401
	return hex.EncodeToString(sum[:])[:hashLen]
}
