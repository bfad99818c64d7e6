package domain

// QueueEntry is one row of the enrichment queue emitted by cmd/build and
// consumed by cmd/enrich. Flags record why the book was queued.
type QueueEntry struct {
	BookKey          string `json:"book_key"`
	Title            string `json:"title"`
	Author           string `json:"author"`
	ISBN             string `json:"isbn,omitempty"`
	IsRead           bool   `json:"is_read"`
	Source           string `json:"source"`
	NeedsDescription bool   `json:"needs_description"`
	NeedsCover       bool   `json:"needs_cover"`
}

// GalaxyPoint is one book positioned in the reduced embedding space,
// carrying the display metadata the galaxy view needs.
type GalaxyPoint struct {
	BookKey      string   `json:"id"`
	Title        string   `json:"title"`
	Author       string   `json:"author"`
	MyRating     int      `json:"my_rating"`
	AvgRating    float64  `json:"avg_rating"`
	Shelf        string   `json:"shelf"`
	IsRead       bool     `json:"is_read"`
	DateRead     string   `json:"date_read,omitempty"`
	CoverURL     string   `json:"cover_url,omitempty"`
	Genres       []string `json:"genres,omitempty"`
	GenrePrimary string   `json:"genre_primary,omitempty"`
	Color        string   `json:"color,omitempty"`
	Popularity   int64    `json:"popularity_score"`

	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`

	X2D float64 `json:"x2d"`
	Y2D float64 `json:"y2d"`
}

// Analytics is the full precomputed analytics artifact. It is always
// recomputed from a complete record set, never patched incrementally.
type Analytics struct {
	Summary            AnalyticsSummary `json:"summary"`
	ReadingTimeline    []TimelineBucket `json:"reading_timeline"`
	GenreBreakdown     []GenreCount     `json:"genre_breakdown"`
	RatingDistribution []RatingBucket   `json:"rating_distribution"`
	TopAuthors         []AuthorCount    `json:"top_authors"`
	ShelfSummary       []ShelfCount     `json:"shelf_summary"`
}

// AnalyticsSummary holds library-wide headline numbers.
type AnalyticsSummary struct {
	TotalBooks            int     `json:"total_books"`
	BooksRead             int     `json:"books_read"`
	BooksUnread           int     `json:"books_unread"`
	BooksWithDescriptions int     `json:"books_with_descriptions"`
	FiveStarBooks         int     `json:"five_star_books"`
	AverageRating         float64 `json:"average_rating"`
	CoveragePercent       float64 `json:"coverage_percent"`
	GeneratedAt           string  `json:"generated_at"`
}

// TimelineBucket counts books read in one year-month.
type TimelineBucket struct {
	YearMonth string `json:"year_month"`
	Count     int    `json:"count"`
}

// GenreCount counts books tagged with one genre.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// RatingBucket counts read books with one personal rating.
type RatingBucket struct {
	Rating int `json:"rating"`
	Count  int `json:"count"`
}

// AuthorCount counts read books by one author.
type AuthorCount struct {
	Author string `json:"author"`
	Count  int    `json:"count"`
}

// ShelfCount counts books on one shelf.
type ShelfCount struct {
	Shelf string `json:"shelf"`
	Count int    `json:"count"`
}
