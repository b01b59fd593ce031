package library

import (
	"github.com/mmcdole/lectern/internal/domain"
	"github.com/mmcdole/lectern/internal/lecture"
)

// Queries provides synchronous, cache-only reads.
// Safe to call from View() and navigation code: never touches the network.
type Queries struct {
	store domain.LectureStore
}

// NewQueries creates a new Queries instance.
func NewQueries(store domain.LectureStore) *Queries {
	return &Queries{store: store}
}

// GetCachedLecture returns a parsed lecture when a fresh cache entry exists
func (q *Queries) GetCachedLecture(courseID, lectureID string) (domain.Lecture, bool) {
	content, ok := q.store.GetLecture(courseID, lectureID)
	if !ok {
		return domain.Lecture{}, false
	}
	return lecture.Parse(content, lectureID), true
}

func (q *Queries) GetCachedLectureList(courseID string) ([]domain.LectureMetadata, bool) {
	return q.store.GetLectureList(courseID)
}

func (q *Queries) GetLastRoute() (string, bool) {
	return q.store.GetLastRoute()
}

// IsCached reports whether a fresh entry exists without parsing it
func (q *Queries) IsCached(courseID, lectureID string) bool {
	_, ok := q.store.GetLecture(courseID, lectureID)
	return ok
}
