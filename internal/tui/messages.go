package tui

import (
	"github.com/mmcdole/lectern/internal/domain"
	"github.com/mmcdole/lectern/internal/route"
)

// Message types for the TUI.
//
// Messages answering a navigation carry the generation (Seq) they were issued for.
// Update drops them unless Seq still matches the model's current generation.

// ErrMsg represents an error not tied to a navigation
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// LectureLoadedMsg signals that a lecture load finished successfully
type LectureLoadedMsg struct {
	Seq    uint64
	Route  route.Route
	Result domain.LoadResult
}

// LectureFailedMsg signals that a lecture load failed
type LectureFailedMsg struct {
	Seq   uint64
	Route route.Route
	Err   error
}

// CourseRootResolvedMsg carries the lecture a course root redirects to
type CourseRootResolvedMsg struct {
	Seq       uint64
	CourseID  string
	LectureID string
}

// CourseRootFailedMsg signals that the first lecture of a course is unreachable
type CourseRootFailedMsg struct {
	Seq      uint64
	CourseID string
	Err      error
}

// LecturesListedMsg carries lecture metadata with titles derived from content
type LecturesListedMsg struct {
	CourseID string
	Lectures []domain.LectureMetadata
}

// CacheClearedMsg signals that every cached lecture was dropped
type CacheClearedMsg struct{}

// TickMsg is a general tick message for animations
type TickMsg struct{}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}
