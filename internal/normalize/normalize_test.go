package normalize

import "testing"

func TestISBN(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// Spreadsheet-escaped exports
		{`="9780439708180"`, "9780439708180"},
		{`="0439708184"`, "0439708184"},
		// Hyphenated and spaced
		{"978-0-439-70818-0", "9780439708180"},
		{" 978 0439 708180 ", "9780439708180"},
		// ISBN10 with checksum X
		{"043970818x", "043970818X"},
		// Too short after cleaning
		{"12345", ""},
		{`=""`, ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ISBN(tt.input); got != tt.expected {
				t.Errorf("ISBN(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"The Hobbit", "the hobbit"},
		{"  The   Hobbit  ", "the hobbit"},
		{"THE\tHOBBIT", "the hobbit"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Text(tt.input); got != tt.expected {
				t.Errorf("Text(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTitleForDedup(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Harry Potter and the Sorcerer's Stone (Harry Potter, #1)", "harry potter and the sorcerer's stone"},
		{"The Fellowship of the Ring (The Lord of the Rings, #1)", "the fellowship of the ring"},
		{"Dune (Dune Chronicles #1.5)", "dune"},
		{"Some Title (Unabridged)", "some title"},
		{"Title [Special Edition]", "title"},
		{"Title [Hardcover] (Series, #2)", "title"},
		{"The Road: A Novel", "the road"},
		{"Saga: Book 2 of the Trilogy", "saga"},
		// No annotation - just lowercased and collapsed
		{"  Plain   Title ", "plain title"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := TitleForDedup(tt.input); got != tt.expected {
				t.Errorf("TitleForDedup(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestAuthor(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Rowling, J.K.", "J.K. Rowling"},
		{"King, Stephen", "Stephen King"},
		{"Stephen King", "Stephen King"},
		{"  Tolkien, J.R.R. ", "J.R.R. Tolkien"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Author(tt.input); got != tt.expected {
				t.Errorf("Author(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestAuthorForDedup(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// Illustrator credit dropped, primary author kept
		{"J.K. Rowling, Mary GrandPre (Illustrator)", "j.k. rowling"},
		{"Neil Gaiman, Terry Pratchett", "neil gaiman"},
		// "Last, First" flipped when remainder is short
		{"King, stephen", "stephen king"},
		{"Tolkien, j.r.r.", "j.r.r. tolkien"},
		// Comma followed by a capital cuts at the primary segment
		{"Rowling, J.K.", "rowling"},
		{"Stephen King", "stephen king"},
		{"(Editor) Jane Doe", "jane doe"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := AuthorForDedup(tt.input); got != tt.expected {
				t.Errorf("AuthorForDedup(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDescription(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"html stripped", "<p>A <b>great</b> book.</p>", "A great book."},
		{"em dash replaced", "One—two", "One. two"},
		{"whitespace collapsed", "  spaced   out  ", "spaced out"},
		{"plain text passthrough", "Just a description.", "Just a description."},
		{"entity decoded", "Tom &amp; Jerry", "Tom & Jerry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Description(tt.input); got != tt.expected {
				t.Errorf("Description(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

// Every normalizer must be idempotent: feeding its own output back in
// yields the same result.
func TestIdempotence(t *testing.T) {
	inputs := []string{
		`="9780439708180"`,
		"Harry Potter and the Sorcerer's Stone (Harry Potter, #1)",
		"J.K. Rowling, Mary GrandPre (Illustrator)",
		"Rowling, J.K.",
		"<p>Some — description</p>",
		"  Plain   text ",
	}

	for _, in := range inputs {
		if got := ISBN(ISBN(in)); got != ISBN(in) {
			t.Errorf("ISBN not idempotent for %q", in)
		}
		if got := Text(Text(in)); got != Text(in) {
			t.Errorf("Text not idempotent for %q", in)
		}
		if got := TitleForDedup(TitleForDedup(in)); got != TitleForDedup(in) {
			t.Errorf("TitleForDedup not idempotent for %q", in)
		}
		if got := AuthorForDedup(AuthorForDedup(in)); got != AuthorForDedup(in) {
			t.Errorf("AuthorForDedup not idempotent for %q", in)
		}
		if got := Description(Description(in)); got != Description(in) {
			t.Errorf("Description not idempotent for %q", in)
		}
	}
}
