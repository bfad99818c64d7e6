package genre

import "strings"

// KeywordRule associates a genre with the title keywords that imply it.
// Rules are evaluated in order and the order is load-bearing: earlier
// rules claim ambiguous titles ("space" marks Science Fiction before
// Science gets a chance).
type KeywordRule struct {
	Genre    string
	Keywords []string
}

// KeywordRules is the built-in rule set for title-based imputation.
// Nonfiction categories first, fiction after, matching the priority the
// primary-genre mapping uses.
var KeywordRules = []KeywordRule{
	{"Business", []string{
		"leadership", "management", "business", "entrepreneur", "startup", "company",
		"marketing", "sales", "negotiat", "strategy", "innovation", "ceo", "executive",
		"corporate", "career", "workplace", "productivity", "efficiency", "agile", "lean",
		"habits", "success", "winning", "performance", "peak", "teams", "organizations",
	}},
	{"Self-Help", []string{
		"self-help", "self help", "habits", "mindset", "motivation", "happiness",
		"confidence", "anxiety", "stress", "well-being", "wellbeing", "improve",
		"better", "transform", "change your", "how to", "guide to", "secrets of",
		"power of", "art of", "way of", "path to", "rules for", "principles",
	}},
	{"Psychology", []string{
		"psychology", "brain", "mind", "cognitive", "behavior", "thinking", "mental",
		"emotional", "intelligence", "decision", "bias", "influence", "persuasion",
		"neuroscience", "consciousness", "perception", "memory", "learning",
	}},
	{"Philosophy", []string{
		"philosophy", "philosophical", "stoic", "stoicism", "meditations", "wisdom",
		"meaning", "purpose", "existence", "ethics", "moral", "virtue", "truth",
		"socrates", "plato", "aristotle", "nietzsche", "kant", "seneca", "marcus aurelius",
	}},
	{"Biography", []string{
		"biography", "autobiography", "memoir", "life of", "story of", "journey of",
		"my life", "my story", "letters", "diaries", "journals",
	}},
	{"History", []string{
		"history", "historical", "war", "revolution", "empire", "ancient", "medieval",
		"century", "civilization", "world war", "civil war", "american revolution",
	}},
	{"Science Fiction", []string{
		"science fiction", "sci-fi", "scifi", "space", "future", "dystopia", "robot",
		"alien", "galactic", "starship", "mars", "moon", "planet", "cyberpunk",
	}},
	{"Science", []string{
		"science", "scientific", "physics", "chemistry", "biology", "evolution",
		"universe", "cosmos", "quantum", "astronomy", "nature", "natural",
	}},
	{"Technology", []string{
		"technology", "tech", "software", "programming", "code", "coding", "developer",
		"engineering", "data", "artificial intelligence", "machine learning",
		"algorithm", "computer", "digital", "internet", "web", "cloud", "system",
	}},
	{"Finance", []string{
		"finance", "financial", "money", "investing", "investment", "stock", "market",
		"wealth", "rich", "millionaire", "economy", "economic", "capital", "trading",
	}},
	{"Religion", []string{
		"religion", "religious", "god", "jesus", "christ", "christian", "bible",
		"faith", "prayer", "spiritual", "church", "gospel", "scripture", "prophet",
	}},
	{"Parenting", []string{
		"parenting", "parent", "child", "children", "kids", "baby", "toddler",
		"family", "raising", "discipline",
	}},
	{"Health", []string{
		"health", "healthy", "diet", "nutrition", "exercise", "fitness", "body",
		"weight", "sleep", "medical", "medicine", "healing", "wellness", "energy",
	}},
	{"Fantasy", []string{
		"fantasy", "magic", "wizard", "dragon", "sword", "quest", "kingdom", "throne",
		"elves", "dwarves", "mythical", "enchant", "sorcerer", "witch", "spell",
	}},
	{"Mystery", []string{
		"mystery", "detective", "murder", "crime", "thriller", "suspense", "investigation",
		"clue", "whodunit", "police", "forensic",
	}},
	{"Romance", []string{
		"romance", "love story", "love", "heart", "passion", "desire", "wedding",
		"bride", "marriage", "relationship",
	}},
	{"Classics", []string{
		"classic", "literary", "literature",
	}},
}

// AuthorGenres maps well-known authors to their usual genres, tried
// before the title keywords because it is the stronger signal.
var AuthorGenres = map[string][]string{
	"Malcolm Gladwell":      {"Nonfiction", "Psychology", "Business"},
	"Adam Grant":            {"Nonfiction", "Business", "Psychology"},
	"Simon Sinek":           {"Nonfiction", "Business", "Leadership"},
	"Ryan Holiday":          {"Nonfiction", "Philosophy"},
	"Cal Newport":           {"Nonfiction", "Business", "Productivity"},
	"James Clear":           {"Nonfiction", "Self-Help"},
	"Daniel Kahneman":       {"Nonfiction", "Psychology", "Economics"},
	"Yuval Noah Harari":     {"Nonfiction", "History", "Science"},
	"Stephen R. Covey":      {"Nonfiction", "Self-Help", "Business"},
	"Dale Carnegie":         {"Nonfiction", "Self-Help", "Business"},
	"Tim Ferriss":           {"Nonfiction", "Business", "Self-Help"},
	"Seth Godin":            {"Nonfiction", "Business", "Marketing"},
	"Patrick Lencioni":      {"Nonfiction", "Business", "Leadership"},
	"Walter Isaacson":       {"Nonfiction", "Biography", "History"},
	"Michael Lewis":         {"Nonfiction", "Business", "Finance"},
	"Nassim Nicholas Taleb": {"Nonfiction", "Finance", "Philosophy"},
	"Ray Dalio":             {"Nonfiction", "Finance", "Business"},
	"David Goggins":         {"Nonfiction", "Memoir", "Self-Help"},
	"Michelle Obama":        {"Nonfiction", "Biography", "Memoir"},
	"Marcus Aurelius":       {"Nonfiction", "Philosophy", "Classics"},
	"Angela Duckworth":      {"Nonfiction", "Psychology", "Self-Help"},
	"Carol S. Dweck":        {"Nonfiction", "Psychology", "Education"},
	"Stephen King":          {"Fiction", "Horror", "Thriller"},
	"Brandon Sanderson":     {"Fiction", "Fantasy", "Epic Fantasy"},
	"J.K. Rowling":          {"Fiction", "Fantasy", "Young Adult"},
	"J.R.R. Tolkien":        {"Fiction", "Fantasy", "Classics"},
	"C.S. Lewis":            {"Fiction", "Fantasy", "Classics"},
	"Orson Scott Card":      {"Fiction", "Science Fiction", "Fantasy"},
	"Rick Riordan":          {"Fiction", "Fantasy", "Young Adult"},
	"Dan Brown":             {"Fiction", "Thriller", "Mystery"},
	"Roald Dahl":            {"Fiction", "Childrens", "Fantasy"},
	"Suzanne Collins":       {"Fiction", "Young Adult", "Science Fiction"},
}

// Impute guesses genres for a book with no genre metadata. Known
// authors are tried first, exact then by last-plus-first name parts.
// Title keywords fill in after, in rule order, so results are
// deterministic for identical input. Returns nil when nothing matches.
func Impute(title, author string) []string {
	var genres []string
	seen := make(map[string]bool)
	add := func(gs []string) {
		for _, g := range gs {
			if !seen[g] {
				seen[g] = true
				genres = append(genres, g)
			}
		}
	}

	add(authorGenres(author))

	titleLower := strings.ToLower(title)
	for _, rule := range KeywordRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(titleLower, kw) {
				add([]string{rule.Genre})
				break
			}
		}
	}

	return genres
}

func authorGenres(author string) []string {
	if gs, ok := AuthorGenres[author]; ok {
		return gs
	}

	// Tolerate name variations like "Stephen Covey" for "Stephen R. Covey".
	authorLower := strings.ToLower(author)
	for known, gs := range AuthorGenres {
		parts := strings.Fields(strings.ToLower(known))
		if len(parts) < 2 {
			continue
		}
		if strings.Contains(authorLower, parts[len(parts)-1]) && strings.Contains(authorLower, parts[0]) {
			return gs
		}
	}
	return nil
}
