package domain

import "fmt"

// Lecture is a single unit of course content with its raw markdown body
type Lecture struct {
	ID      string // "<order>-<slug>", unique within a course
	Title   string // First "# " heading, or ID when there is none
	Content string // Raw markdown, never modified after fetch
	Order   int    // Leading digit run of ID (0 if absent)
}

// Metadata projects the lecture without its body
func (l Lecture) Metadata() LectureMetadata {
	return LectureMetadata{ID: l.ID, Title: l.Title, Order: l.Order}
}

// LectureMetadata is the listing view of a lecture
type LectureMetadata struct {
	ID    string `json:"id" mapstructure:"id"`
	Title string `json:"title" mapstructure:"title"`
	Order int    `json:"order" mapstructure:"order"`
}

// Course is a named, ordered collection of lectures. Static configuration.
type Course struct {
	ID          string            `mapstructure:"id"`
	Title       string            `mapstructure:"title"`
	Description string            `mapstructure:"description"`
	Lectures    []LectureMetadata `mapstructure:"lectures"`
}

// LectureCount returns a human-readable lecture count
func (c Course) LectureCount() string {
	if len(c.Lectures) == 1 {
		return "1 lecture"
	}
	return fmt.Sprintf("%d lectures", len(c.Lectures))
}

// LoadResult is what the loader hands to the presentation layer
type LoadResult struct {
	CourseID  string
	Lecture   Lecture
	FromCache bool
}
