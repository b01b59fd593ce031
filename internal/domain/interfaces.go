package domain

import "context"

// ContentSource: read-only access to lecture files (implemented by internal/content)
type ContentSource interface {
	// Fetch returns the raw body of the lecture file.
	// Missing files and non-success statuses wrap ErrLectureNotFound.
	Fetch(ctx context.Context, courseID, lectureID string) (string, error)

	// Exists reports whether the lecture file is reachable without reading it.
	Exists(ctx context.Context, courseID, lectureID string) (bool, error)
}

// LectureStore handles the expiring content cache.
// Keys are composite: "<courseID>:<lectureID>", or "<lectureID>" when courseID is empty.
// Expired and absent entries are both reported as misses.
type LectureStore interface {
	// === Lecture content ===
	GetLecture(courseID, lectureID string) (string, bool)
	SaveLecture(courseID, lectureID, content string) error

	// === Lecture lists ===
	GetLectureList(courseID string) ([]LectureMetadata, bool)
	SaveLectureList(courseID string, lectures []LectureMetadata) error

	// === Session ===
	GetLastRoute() (string, bool)
	SaveLastRoute(route string) error

	// === Invalidation ===
	InvalidateLecture(courseID, lectureID string)
	InvalidateCourse(courseID string)
	InvalidateAll()
}
