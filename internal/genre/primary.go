package genre

import "strings"

// FictionType is the coarse fiction/nonfiction classification.
type FictionType string

const (
	Fiction    FictionType = "Fiction"
	Nonfiction FictionType = "Nonfiction"
	Unknown    FictionType = "Unknown"
)

var nonfictionGenres = map[string]bool{
	"Business": true, "Self-Help": true, "Psychology": true, "Philosophy": true,
	"Biography": true, "History": true, "Science": true, "Technology": true,
	"Finance": true, "Religion": true, "Parenting": true, "Health": true,
	"Nonfiction": true, "Memoir": true, "Economics": true, "Politics": true,
	"Sociology": true, "Education": true, "Leadership": true, "Spirituality": true,
	"Personal Development": true, "True Crime": true,
}

var fictionGenres = map[string]bool{
	"Fantasy": true, "Science Fiction": true, "Mystery": true, "Romance": true,
	"Classics": true, "Fiction": true, "Thriller": true, "Horror": true,
	"Young Adult": true, "Childrens": true, "Graphic Novels": true,
	"Historical Fiction": true, "Literary Fiction": true, "Adventure": true,
	"Action": true,
}

// Classify decides whether a genre list reads as fiction or nonfiction
// by counting which side claims more of its entries. Ties and empty
// lists are Unknown.
func Classify(genres []string) FictionType {
	if len(genres) == 0 {
		return Unknown
	}

	var fiction, nonfiction int
	for _, g := range genres {
		if matchesAny(g, nonfictionGenres) {
			nonfiction++
		}
		if matchesAny(g, fictionGenres) {
			fiction++
		}
	}

	switch {
	case nonfiction > fiction:
		return Nonfiction
	case fiction > nonfiction:
		return Fiction
	default:
		return Unknown
	}
}

func matchesAny(genre string, set map[string]bool) bool {
	if set[genre] {
		return true
	}
	genreLower := strings.ToLower(genre)
	for member := range set {
		if strings.Contains(genreLower, strings.ToLower(member)) {
			return true
		}
	}
	return false
}

// Ordered, coarse-first: the first priority genre found anywhere in the
// list becomes primary.
var nonfictionPriority = []string{
	"Business", "Self-Help", "Psychology", "Philosophy", "Biography",
	"History", "Science", "Technology", "Finance", "Religion", "Health",
	"Parenting",
}

var fictionPriority = []string{
	"Fantasy", "Science Fiction", "Mystery", "Thriller", "Romance",
	"Horror", "Classics", "Young Adult",
}

// PrimaryGenre picks the single display genre for a book. The fiction
// classification decides which priority list applies; when the
// classification is Unknown the first genre is returned as-is.
func PrimaryGenre(genres []string) string {
	if len(genres) == 0 {
		return "Unknown"
	}

	var priority []string
	switch Classify(genres) {
	case Nonfiction:
		priority = nonfictionPriority
	case Fiction:
		priority = fictionPriority
	default:
		return genres[0]
	}

	for _, p := range priority {
		for _, g := range genres {
			if g == p || strings.Contains(strings.ToLower(g), strings.ToLower(p)) {
				return p
			}
		}
	}

	// Classified but nothing from the priority list matched.
	if Classify(genres) == Nonfiction {
		return "Nonfiction"
	}
	return "Fiction"
}
