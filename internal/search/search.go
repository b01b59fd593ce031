// Package search provides fuzzy filtering over course and lecture titles.
package search

import (
	"log/slog"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	fuzzyrank "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/lectern/internal/catalog"
	"github.com/mmcdole/lectern/internal/domain"
	"github.com/mmcdole/lectern/internal/route"
)

// Item is a searchable entry: a course or one of its lectures
type Item struct {
	Kind        route.Kind
	CourseID    string
	CourseTitle string
	LectureID   string
	Title       string
	Order       int
}

// Route returns where selecting this item navigates to
func (i Item) Route() route.Route {
	if i.Kind == route.KindCourse {
		return route.Course(i.CourseID)
	}
	return route.Lecture(i.CourseID, i.LectureID)
}

// Result is a match with highlighting metadata
type Result struct {
	Item
	MatchedIndexes []int // Rune positions in Title
	Score          int   // Higher is better
}

// index implements fuzzy.Source over lowercase "title id" strings
type index struct {
	items []Item
	keys  []string
}

func (idx *index) String(i int) string { return idx.keys[i] }
func (idx *index) Len() int            { return len(idx.items) }

func searchKey(it Item) string {
	if it.Kind == route.KindCourse {
		return strings.ToLower(it.Title + " " + it.CourseID)
	}
	return strings.ToLower(it.Title + " " + it.LectureID)
}

// Service handles fuzzy search across the catalog
type Service struct {
	logger *slog.Logger

	mu  sync.RWMutex
	idx *index
}

// NewService indexes every course and lecture of the catalog
func NewService(cat *catalog.Catalog, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{logger: logger, idx: &index{}}

	for _, c := range cat.Courses() {
		if !cat.SingleCourse() {
			s.add(Item{Kind: route.KindCourse, CourseID: c.ID, CourseTitle: c.Title, Title: c.Title})
		}
		for _, l := range c.Lectures {
			s.add(Item{
				Kind:        route.KindLecture,
				CourseID:    c.ID,
				CourseTitle: c.Title,
				LectureID:   l.ID,
				Title:       l.Title,
				Order:       l.Order,
			})
		}
	}

	s.logger.Debug("indexed catalog for search", "items", s.idx.Len())
	return s
}

func (s *Service) add(it Item) {
	s.idx.items = append(s.idx.items, it)
	s.idx.keys = append(s.idx.keys, searchKey(it))
}

// UpdateTitles replaces configured lecture titles with titles derived from content
func (s *Service) UpdateTitles(courseID string, lectures []domain.LectureMetadata) {
	titles := make(map[string]string, len(lectures))
	for _, l := range lectures {
		titles[l.ID] = l.Title
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	updated := 0
	for i, it := range s.idx.items {
		if it.Kind != route.KindLecture || it.CourseID != courseID {
			continue
		}
		if t, ok := titles[it.LectureID]; ok && t != "" && t != it.Title {
			s.idx.items[i].Title = t
			s.idx.keys[i] = searchKey(s.idx.items[i])
			updated++
		}
	}
	if updated > 0 {
		s.logger.Debug("updated search titles", "course", courseID, "updated", updated)
	}
}

// Len returns the number of indexed items
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idx.Len()
}

// Filter returns items matching query, best first. Subsequence matches come from
// sahilm/fuzzy; when there are none, words within a small edit distance are accepted
// so a typo still finds the lecture. limit <= 0 means no limit.
func (s *Service) Filter(query string, limit int) []Result {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []Result
	for _, m := range fuzzy.FindFrom(query, s.idx) {
		it := s.idx.items[m.Index]
		results = append(results, Result{
			Item:           it,
			MatchedIndexes: titleRunePositions(s.idx.keys[m.Index], it.Title, m.MatchedIndexes),
			Score:          m.Score,
		})
	}

	if len(results) == 0 {
		results = s.typoMatches(query)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		di := fuzzyrank.LevenshteinDistance(query, strings.ToLower(results[i].Title))
		dj := fuzzyrank.LevenshteinDistance(query, strings.ToLower(results[j].Title))
		if di != dj {
			return di < dj
		}
		return results[i].Order < results[j].Order
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// typoMatches accepts items where every query word is within allowedTypos of some word
func (s *Service) typoMatches(query string) []Result {
	words := strings.FieldsFunc(query, isSeparator)
	if len(words) == 0 {
		return nil
	}

	var results []Result
	for i, key := range s.idx.keys {
		keyWords := strings.FieldsFunc(key, isSeparator)
		total := 0
		ok := true
		for _, w := range words {
			best := -1
			for _, kw := range keyWords {
				d := fuzzyrank.LevenshteinDistance(w, kw)
				if d <= allowedTypos(utf8.RuneCountInString(w)) && (best < 0 || d < best) {
					best = d
				}
			}
			if best < 0 {
				ok = false
				break
			}
			total += best
		}
		if ok {
			results = append(results, Result{Item: s.idx.items[i], Score: -total})
		}
	}
	return results
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// allowedTypos returns the number of typos allowed based on word length
func allowedTypos(length int) int {
	switch {
	case length <= 3:
		return 0
	case length <= 6:
		return 1
	default:
		return 2
	}
}

// titleRunePositions converts byte offsets within key into rune positions within the
// title prefix of the key, dropping positions that fall on the id suffix.
func titleRunePositions(key, title string, byteIdx []int) []int {
	titleBytes := len(strings.ToLower(title))
	var out []int
	for _, b := range byteIdx {
		if b >= titleBytes || b > len(key) {
			continue
		}
		out = append(out, utf8.RuneCountInString(key[:b]))
	}
	return out
}
