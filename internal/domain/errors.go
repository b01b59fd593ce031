package domain

import "errors"

// Sentinel errors for lecture loading
var (
	// ErrLectureNotFound indicates the lecture file is missing or the source returned a non-success status
	ErrLectureNotFound = errors.New("lecture file not found")

	// ErrLectureEmpty indicates the lecture file was retrieved but has no content
	ErrLectureEmpty = errors.New("lecture file is empty")

	// ErrUnknown covers any other failure during fetch or parse
	ErrUnknown = errors.New("unknown error")

	// ErrCourseNotFound indicates the course id is not in the catalog
	ErrCourseNotFound = errors.New("course not found")

	// ErrNoLectures indicates the course has no configured lectures
	ErrNoLectures = errors.New("course has no lectures")
)

// UserMessage converts a load error into the message shown in place of content.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrLectureEmpty):
		return "Lecture file is empty"
	case errors.Is(err, ErrLectureNotFound):
		return "Lecture file not found"
	case errors.Is(err, ErrCourseNotFound):
		return "Course not found"
	case errors.Is(err, ErrNoLectures):
		return "This course has no lectures yet"
	default:
		return "Unknown error"
	}
}
