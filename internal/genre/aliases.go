package genre

// CanonicalAliases maps common label variations seen in Goodreads
// exports and corpus data to canonical slugs.
var CanonicalAliases = map[string][]string{
	// Science Fiction variations
	"sci-fi":                  {"science-fiction"},
	"scifi":                   {"science-fiction"},
	"sf":                      {"science-fiction"},
	"speculative-fiction":     {"science-fiction"},
	"science-fiction-fantasy": {"science-fiction", "fantasy"},
	"sci-fi-fantasy":          {"science-fiction", "fantasy"},
	"dystopia":                {"dystopian"},

	// Fantasy variations
	"high-fantasy":      {"epic-fantasy"},
	"sword-and-sorcery": {"fantasy"},
	"magical-realism":   {"fantasy"},

	// Mystery / thriller
	"mystery-thriller":          {"mystery", "thriller"},
	"mystery-thriller-suspense": {"mystery", "thriller"},
	"suspense":                  {"thriller"},
	"detective":                 {"mystery"},
	"crime":                     {"mystery"},
	"true-crime":                {"true-crime"},

	// Young adult and children
	"ya":                {"young-adult"},
	"young-adult":       {"young-adult"},
	"teen":              {"young-adult"},
	"teens-young-adult": {"young-adult"},
	"childrens":         {"childrens"},
	"children-s-books":  {"childrens"},
	"kids":              {"childrens"},
	"middle-grade":      {"childrens"},

	// Nonfiction variations
	"non-fiction":           {"nonfiction"},
	"nonfiction":            {"nonfiction"},
	"biographies-memoirs":   {"biography", "memoir"},
	"autobiography":         {"biography", "memoir"},
	"self-improvement":      {"self-help"},
	"personal-development":  {"self-help"},
	"business-careers":      {"business"},
	"business-economics":    {"business", "economics"},
	"money-finance":         {"finance"},
	"investing":             {"finance"},
	"popular-science":       {"science"},
	"health-wellness":       {"health"},
	"religion-spirituality": {"religion", "spirituality"},
	"faith":                 {"religion"},
	"stoicism":              {"philosophy"},
	"leadership":            {"business", "leadership"},
	"productivity":          {"business", "self-help"},

	// Literary
	"classic":            {"classics"},
	"literature":         {"literary-fiction"},
	"literary":           {"literary-fiction"},
	"literature-fiction": {"fiction"},
	"contemporary":       {"contemporary-fiction"},
	"historical":         {"historical-fiction"},

	// Romance
	"love-story":         {"romance"},
	"romantic":           {"romance"},
	"paranormal-romance": {"romance", "fantasy"},

	// Horror
	"scary":  {"horror"},
	"ghost":  {"horror"},
	"gothic": {"horror"},

	// Graphic
	"comics":         {"graphic-novels"},
	"comic":          {"graphic-novels"},
	"manga":          {"graphic-novels"},
	"graphic-novel":  {"graphic-novels"},
	"graphic-novels": {"graphic-novels"},
}

// NormalizeToSlugs takes a raw genre label and returns canonical slug(s).
// Returns the slugified input if no specific mapping is found.
func NormalizeToSlugs(raw string) []string {
	slug := Slugify(raw)

	if canonical, ok := CanonicalAliases[slug]; ok {
		return canonical
	}

	return []string{slug}
}
