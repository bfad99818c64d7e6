// Package exclusions filters sensitive books out of the published
// artifacts. It runs after the main pipeline, immediately before the
// artifacts are copied to their public location.
package exclusions

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/izachstanford/smart-books-ai/internal/domain"
	"github.com/izachstanford/smart-books-ai/internal/validation"
)

// Reason tags why a record was excluded.
type Reason string

const (
	ReasonNoDateRead Reason = "no_date_read"
	ReasonOneStar    Reason = "one_star"
	ReasonUnread     Reason = "unread"
	ReasonTitleList  Reason = "title_list"
	ReasonAuthorList Reason = "author_list"
	ReasonIDList     Reason = "id_list"
)

// Rules are the toggleable blanket exclusions.
type Rules struct {
	// ExcludeNoDateRead drops read books missing a read date.
	ExcludeNoDateRead bool `json:"exclude_no_date_read"`
	// ExcludeOneStar drops books with a personal rating of 1.
	ExcludeOneStar bool `json:"exclude_one_star"`
	// ExcludeUnread drops the entire unread shelf.
	ExcludeUnread bool `json:"exclude_unread"`
}

// Config holds blanket rules plus explicit exclusion lists. Title and
// author matches are case insensitive, IDs are exact book keys.
type Config struct {
	Rules          Rules    `json:"rules"`
	ExcludeTitles  []string `json:"exclude_titles" validate:"dive,min=1"`
	ExcludeAuthors []string `json:"exclude_authors" validate:"dive,min=1"`
	ExcludeIDs     []string `json:"exclude_ids" validate:"dive,min=1"`
}

// Default returns the config written when none exists on disk.
func Default() Config {
	return Config{
		Rules: Rules{
			ExcludeNoDateRead: true,
			ExcludeOneStar:    true,
			ExcludeUnread:     false,
		},
		ExcludeTitles:  []string{},
		ExcludeAuthors: []string{},
		ExcludeIDs:     []string{},
	}
}

var validate = validation.New()

// Ensure writes the default config at path when none exists, so the
// operator has something to edit. An existing file is left untouched.
func Ensure(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat exclusions config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create exclusions config dir: %w", err)
	}
	data, err := json.MarshalIndent(Default(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode exclusions config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write exclusions config: %w", err)
	}
	return nil
}

// Load reads and validates the config at path. It never writes; run
// Ensure first when the file may not exist yet.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read exclusions config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse exclusions config %s: %w", path, err)
	}
	if err := validate.Validate(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid exclusions config %s: %w", path, err)
	}
	return cfg, nil
}

// Matcher evaluates records against one loaded config. Lists are
// lowered once at construction.
type Matcher struct {
	cfg     Config
	titles  map[string]struct{}
	authors map[string]struct{}
	ids     map[string]struct{}
}

// NewMatcher prepares a matcher for cfg.
func NewMatcher(cfg Config) *Matcher {
	m := &Matcher{
		cfg:     cfg,
		titles:  make(map[string]struct{}, len(cfg.ExcludeTitles)),
		authors: make(map[string]struct{}, len(cfg.ExcludeAuthors)),
		ids:     make(map[string]struct{}, len(cfg.ExcludeIDs)),
	}
	for _, t := range cfg.ExcludeTitles {
		m.titles[strings.ToLower(t)] = struct{}{}
	}
	for _, a := range cfg.ExcludeAuthors {
		m.authors[strings.ToLower(a)] = struct{}{}
	}
	for _, id := range cfg.ExcludeIDs {
		m.ids[id] = struct{}{}
	}
	return m
}

// Evaluate reports whether rec is excluded and why. Rules are checked
// in a fixed order so a record matching several reports the first.
func (m *Matcher) Evaluate(rec *domain.BookRecord) (bool, Reason) {
	if m.cfg.Rules.ExcludeNoDateRead && rec.IsRead && rec.DateRead == "" {
		return true, ReasonNoDateRead
	}
	if m.cfg.Rules.ExcludeOneStar && rec.MyRating == 1 {
		return true, ReasonOneStar
	}
	if m.cfg.Rules.ExcludeUnread && !rec.IsRead {
		return true, ReasonUnread
	}
	if _, ok := m.titles[strings.ToLower(rec.Title)]; ok {
		return true, ReasonTitleList
	}
	if _, ok := m.authors[strings.ToLower(rec.Author)]; ok {
		return true, ReasonAuthorList
	}
	if _, ok := m.ids[rec.BookKey]; ok {
		return true, ReasonIDList
	}
	return false, ""
}

// Result summarizes one exclusion pass.
type Result struct {
	Kept     []domain.BookRecord
	Excluded []domain.BookRecord
	Reasons  map[Reason]int
}

// Apply partitions records into kept and excluded sets, counting
// exclusions per reason. Input order is preserved on both sides.
func Apply(records []domain.BookRecord, cfg Config) Result {
	m := NewMatcher(cfg)
	res := Result{
		Kept:    make([]domain.BookRecord, 0, len(records)),
		Reasons: make(map[Reason]int),
	}
	for i := range records {
		if excluded, reason := m.Evaluate(&records[i]); excluded {
			res.Excluded = append(res.Excluded, records[i])
			res.Reasons[reason]++
		} else {
			res.Kept = append(res.Kept, records[i])
		}
	}
	return res
}

// FilterPoints drops galaxy points whose book no longer appears in the
// kept record set.
func FilterPoints(points []domain.GalaxyPoint, kept []domain.BookRecord) []domain.GalaxyPoint {
	keys := make(map[string]struct{}, len(kept))
	for i := range kept {
		keys[kept[i].BookKey] = struct{}{}
	}
	out := make([]domain.GalaxyPoint, 0, len(points))
	for _, p := range points {
		if _, ok := keys[p.BookKey]; ok {
			out = append(out, p)
		}
	}
	return out
}
