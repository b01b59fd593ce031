// Package route parses and formats navigation routes.
//
// Multi-course layout:
//
//	/                                     course listing
//	/course/:courseId                     course root, redirects to the first lecture
//	/course/:courseId/lecture/:lectureId  lecture view
//
// Single-course layout uses / and /lecture/:lectureId.
package route

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRoute is returned for paths that match no route form
var ErrInvalidRoute = errors.New("invalid route")

// Kind identifies which screen a route addresses
type Kind int

const (
	KindHome Kind = iota
	KindCourse
	KindLecture
)

func (k Kind) String() string {
	switch k {
	case KindCourse:
		return "course"
	case KindLecture:
		return "lecture"
	default:
		return "home"
	}
}

// Route is a parsed navigation target
type Route struct {
	CourseID  string
	LectureID string
}

// Home is the course listing (or the lecture listing in single-course mode)
var Home = Route{}

// Course returns the route of a course root
func Course(courseID string) Route {
	return Route{CourseID: courseID}
}

// Lecture returns the route of a lecture view. An empty courseID yields the single-course form.
func Lecture(courseID, lectureID string) Route {
	return Route{CourseID: courseID, LectureID: lectureID}
}

// Kind reports the screen this route addresses
func (r Route) Kind() Kind {
	switch {
	case r.LectureID != "":
		return KindLecture
	case r.CourseID != "":
		return KindCourse
	default:
		return KindHome
	}
}

// String formats the route as a path
func (r Route) String() string {
	switch {
	case r.LectureID != "" && r.CourseID == "":
		return "/lecture/" + r.LectureID
	case r.LectureID != "":
		return "/course/" + r.CourseID + "/lecture/" + r.LectureID
	case r.CourseID != "":
		return "/course/" + r.CourseID
	default:
		return "/"
	}
}

// Parse reads a route path. In single-course mode only / and /lecture/:lectureId are accepted.
// Trailing slashes and a missing leading slash are tolerated.
func Parse(raw string, singleCourse bool) (Route, error) {
	trimmed := strings.Trim(strings.TrimSpace(raw), "/")
	if trimmed == "" {
		return Home, nil
	}
	parts := strings.Split(trimmed, "/")
	for _, p := range parts {
		if p == "" || p == "." || p == ".." {
			return Route{}, fmt.Errorf("%q: %w", raw, ErrInvalidRoute)
		}
	}

	if singleCourse {
		if len(parts) == 2 && parts[0] == "lecture" {
			return Lecture("", parts[1]), nil
		}
		return Route{}, fmt.Errorf("%q: %w", raw, ErrInvalidRoute)
	}

	switch {
	case len(parts) == 2 && parts[0] == "course":
		return Course(parts[1]), nil
	case len(parts) == 4 && parts[0] == "course" && parts[2] == "lecture":
		return Lecture(parts[1], parts[3]), nil
	}
	return Route{}, fmt.Errorf("%q: %w", raw, ErrInvalidRoute)
}

// StripBase removes a deployment base path (for example /js-course-mvp) from the front of
// a path, so routes copied from the hosted site parse the same way as local ones.
func StripBase(raw, base string) string {
	base = strings.TrimRight(base, "/")
	if base == "" {
		return raw
	}
	if raw == base {
		return "/"
	}
	if strings.HasPrefix(raw, base+"/") {
		return raw[len(base):]
	}
	return raw
}
