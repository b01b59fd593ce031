package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/lectern/internal/library"
	"github.com/mmcdole/lectern/internal/route"
)

// Command factories for async operations

// LoadLectureCmd fetches a lecture through the loader. With refresh set the cache entry
// is dropped first.
func LoadLectureCmd(svc *library.Service, seq uint64, r route.Route, refresh bool, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		load := svc.Load
		if refresh {
			load = svc.Refresh
		}

		result, err := load(ctx, r.CourseID, r.LectureID)
		if err != nil {
			return LectureFailedMsg{Seq: seq, Route: r, Err: err}
		}
		return LectureLoadedMsg{Seq: seq, Route: r, Result: result}
	}
}

// ResolveCourseRootCmd finds the lecture a course route redirects to
func ResolveCourseRootCmd(svc *library.Service, seq uint64, courseID string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		lectureID, err := svc.ResolveCourseRoot(ctx, courseID)
		if err != nil {
			return CourseRootFailedMsg{Seq: seq, CourseID: courseID, Err: err}
		}
		return CourseRootResolvedMsg{Seq: seq, CourseID: courseID, LectureID: lectureID}
	}
}

// ListLecturesCmd derives lecture titles from content for the sidebar and search
func ListLecturesCmd(svc *library.Service, courseID string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		lectures, err := svc.ListLectures(ctx, courseID)
		if err != nil {
			return ErrMsg{Err: err, Context: "listing lectures"}
		}
		return LecturesListedMsg{CourseID: courseID, Lectures: lectures}
	}
}

// ClearCacheCmd drops every cached lecture and lecture list
func ClearCacheCmd(svc *library.Service) tea.Cmd {
	return func() tea.Msg {
		svc.InvalidateAll()
		return CacheClearedMsg{}
	}
}

// RememberRouteCmd persists the route so the next session starts there
func RememberRouteCmd(svc *library.Service, r route.Route) tea.Cmd {
	return func() tea.Msg {
		svc.RememberRoute(r.String())
		return nil
	}
}

// OpenURLCmd opens url in the browser
func OpenURLCmd(opener URLOpener, url string) tea.Cmd {
	return func() tea.Msg {
		if err := opener.Launch(url); err != nil {
			return ErrMsg{Err: err, Context: "opening browser"}
		}
		return StatusMsg{Message: "Opened " + url}
	}
}

// TickCmd returns a command that sends a tick after a duration
func TickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears the status after a duration
func ClearStatusCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
