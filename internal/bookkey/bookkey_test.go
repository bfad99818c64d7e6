package bookkey

import (
	"strings"
	"testing"
)

func TestGenerate_PriorityOrder(t *testing.T) {
	// ISBN always wins, even when a native id is present.
	key := Generate("9780439708180", "Harry Potter", "J.K. Rowling", "12345")
	if key != "isbn:9780439708180" {
		t.Errorf("Generate with ISBN = %q, want isbn form", key)
	}

	// Native id wins over the content hash.
	key = Generate("", "Harry Potter", "J.K. Rowling", "12345")
	if key != "gr:12345" {
		t.Errorf("Generate with source id = %q, want gr form", key)
	}

	// Content hash is the last resort.
	key = Generate("", "Harry Potter", "J.K. Rowling", "")
	if !strings.HasPrefix(key, PrefixTitleHash) {
		t.Errorf("Generate fallback = %q, want ta: prefix", key)
	}
	if len(key) != len(PrefixTitleHash)+hashLen {
		t.Errorf("Generate fallback key length = %d", len(key))
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate("", "The Hobbit", "J.R.R. Tolkien", "")
	for i := 0; i < 10; i++ {
		if b := Generate("", "The Hobbit", "J.R.R. Tolkien", ""); b != a {
			t.Fatalf("Generate not deterministic: %q vs %q", a, b)
		}
	}
}

func TestGenerate_HashUsesNormalizedForms(t *testing.T) {
	a := Generate("", "The Hobbit", "J.R.R. Tolkien", "")
	b := Generate("", "  the   HOBBIT ", "j.r.r. tolkien", "")
	if a != b {
		t.Errorf("case/whitespace variants should collide: %q vs %q", a, b)
	}

	// Wording differences do not collide - a recall limitation the
	// deduplicator's second pass compensates for.
	c := Generate("", "The Hobbit: There and Back Again", "J.R.R. Tolkien", "")
	if a == c {
		t.Errorf("distinct titles should not collide")
	}
}
