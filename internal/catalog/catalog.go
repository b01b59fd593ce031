// Package catalog holds the static course configuration. It is the allow-list every
// lecture path is resolved against.
package catalog

import (
	"fmt"
	"strings"

	"github.com/mmcdole/lectern/internal/domain"
	"github.com/mmcdole/lectern/internal/lecture"
)

// Catalog is immutable after construction and safe for concurrent reads
type Catalog struct {
	courses []domain.Course
	byID    map[string]int
	single  bool
}

// New builds a catalog. In single-course mode only the first course is kept and its id is
// cleared, so lectures resolve under lectures/<id>.md.
// Missing lecture titles default to the id and missing orders are parsed from it.
func New(courses []domain.Course, singleCourse bool) (*Catalog, error) {
	if singleCourse && len(courses) > 1 {
		courses = courses[:1]
	}

	c := &Catalog{
		courses: make([]domain.Course, 0, len(courses)),
		byID:    make(map[string]int, len(courses)),
		single:  singleCourse,
	}

	for _, course := range courses {
		if singleCourse {
			course.ID = ""
		} else if course.ID == "" {
			return nil, fmt.Errorf("course %q has no id", course.Title)
		} else if err := checkID(course.ID); err != nil {
			return nil, fmt.Errorf("course %q: %w", course.ID, err)
		}
		if _, dup := c.byID[course.ID]; dup {
			return nil, fmt.Errorf("duplicate course id %q", course.ID)
		}

		lectures := make([]domain.LectureMetadata, 0, len(course.Lectures))
		seen := make(map[string]bool, len(course.Lectures))
		for _, l := range course.Lectures {
			if l.ID == "" {
				return nil, fmt.Errorf("course %q: lecture with empty id", course.ID)
			}
			if err := checkID(l.ID); err != nil {
				return nil, fmt.Errorf("course %q: lecture %q: %w", course.ID, l.ID, err)
			}
			if seen[l.ID] {
				return nil, fmt.Errorf("course %q: duplicate lecture id %q", course.ID, l.ID)
			}
			seen[l.ID] = true
			if l.Title == "" {
				l.Title = l.ID
			}
			if l.Order == 0 {
				l.Order = lecture.Order(l.ID)
			}
			lectures = append(lectures, l)
		}
		course.Lectures = lectures

		c.byID[course.ID] = len(c.courses)
		c.courses = append(c.courses, course)
	}

	return c, nil
}

// checkID rejects identifiers that would escape a content path or collide in the
// "<course>:<lecture>" cache key space
func checkID(id string) error {
	if strings.ContainsAny(id, "/\\:") || strings.Contains(id, "..") {
		return fmt.Errorf("invalid identifier %q", id)
	}
	return nil
}

// SingleCourse reports whether the catalog runs in single-course layout
func (c *Catalog) SingleCourse() bool {
	return c.single
}

// Courses returns a copy of all courses in configuration order
func (c *Catalog) Courses() []domain.Course {
	out := make([]domain.Course, len(c.courses))
	copy(out, c.courses)
	return out
}

// Course looks up a course by id
func (c *Catalog) Course(courseID string) (domain.Course, error) {
	idx, ok := c.byID[courseID]
	if !ok {
		return domain.Course{}, fmt.Errorf("%q: %w", courseID, domain.ErrCourseNotFound)
	}
	return c.courses[idx], nil
}

// Lecture looks up a lecture inside a course's allow-list
func (c *Catalog) Lecture(courseID, lectureID string) (domain.LectureMetadata, error) {
	course, err := c.Course(courseID)
	if err != nil {
		return domain.LectureMetadata{}, err
	}
	for _, l := range course.Lectures {
		if l.ID == lectureID {
			return l, nil
		}
	}
	return domain.LectureMetadata{}, fmt.Errorf("%s/%s is not in the catalog: %w", courseID, lectureID, domain.ErrLectureNotFound)
}

// FirstLecture returns the first configured lecture of a course
func (c *Catalog) FirstLecture(courseID string) (domain.LectureMetadata, error) {
	course, err := c.Course(courseID)
	if err != nil {
		return domain.LectureMetadata{}, err
	}
	if len(course.Lectures) == 0 {
		return domain.LectureMetadata{}, fmt.Errorf("%q: %w", courseID, domain.ErrNoLectures)
	}
	return course.Lectures[0], nil
}

// Allowed reports whether (courseID, lectureID) is a configured lecture
func (c *Catalog) Allowed(courseID, lectureID string) bool {
	_, err := c.Lecture(courseID, lectureID)
	return err == nil
}
