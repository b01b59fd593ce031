package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/lectern/internal/domain"
	"github.com/mmcdole/lectern/internal/route"
	"github.com/mmcdole/lectern/internal/tui/components"
)

// navigate moves the model to r and starts a new generation. A cached lecture is shown
// immediately; anything else returns commands whose results are tagged with the new
// generation.
func (m *Model) navigate(r route.Route) tea.Cmd {
	m.seq++
	m.Current = r
	cmds := []tea.Cmd{RememberRouteCmd(m.LibrarySvc, r)}

	// A listing owed by the previous navigation carries over when it stays in that course
	carried := m.listPending
	m.listPending = ""

	switch r.Kind() {
	case route.KindHome:
		m.Viewer.SetIdle()
		if m.catalog.SingleCourse() {
			m.showLectures("")
			cmds = append(cmds, ListLecturesCmd(m.LibrarySvc, "", m.timeout))
			break
		}
		prev := m.Sidebar.CourseID()
		m.Sidebar.ShowCourses(m.catalog.Courses())
		m.Sidebar.SelectID(prev)

	case route.KindCourse:
		course, err := m.catalog.Course(r.CourseID)
		if err != nil {
			m.Sidebar.ShowCourses(m.catalog.Courses())
			m.Viewer.SetError(domain.UserMessage(err))
			break
		}
		m.showLectures(course.ID)
		m.Viewer.SetLoading(course.Title)
		m.listPending = course.ID
		cmds = append(cmds, ResolveCourseRootCmd(m.LibrarySvc, m.seq, course.ID, m.timeout))

	case route.KindLecture:
		meta, err := m.catalog.Lecture(r.CourseID, r.LectureID)
		if err != nil {
			if _, cerr := m.catalog.Course(r.CourseID); cerr == nil {
				m.showLectures(r.CourseID)
			} else {
				m.Sidebar.ShowCourses(m.catalog.Courses())
			}
			m.Viewer.SetError(domain.UserMessage(err))
			break
		}

		entering := m.Sidebar.Mode() != components.SidebarLectures || m.Sidebar.CourseID() != r.CourseID
		needList := entering || carried == r.CourseID
		m.showLectures(r.CourseID)
		m.Sidebar.SelectID(r.LectureID)

		if lecture, ok := m.Queries.GetCachedLecture(r.CourseID, r.LectureID); ok {
			m.Viewer.SetLecture(lecture, true)
			if needList {
				cmds = append(cmds, ListLecturesCmd(m.LibrarySvc, r.CourseID, m.timeout))
			}
			break
		}

		// Titles are derived once the selected lecture has loaded, so the listing never
		// competes with it for the source
		m.Viewer.SetLoading(meta.Title)
		if needList {
			m.listPending = r.CourseID
		}
		cmds = append(cmds, LoadLectureCmd(m.LibrarySvc, m.seq, r, false, m.timeout))
	}

	return tea.Batch(cmds...)
}

// takePendingList returns the deferred title listing, if any
func (m *Model) takePendingList() tea.Cmd {
	if m.listPending == "" {
		return nil
	}
	courseID := m.listPending
	m.listPending = ""
	return ListLecturesCmd(m.LibrarySvc, courseID, m.timeout)
}

// reload refetches the current lecture, bypassing the cache
func (m *Model) reload() tea.Cmd {
	if m.Current.Kind() != route.KindLecture || !m.catalog.Allowed(m.Current.CourseID, m.Current.LectureID) {
		return nil
	}
	m.seq++
	title := m.Current.LectureID
	if meta, err := m.catalog.Lecture(m.Current.CourseID, m.Current.LectureID); err == nil {
		title = meta.Title
	}
	m.Viewer.SetLoading(title)
	return LoadLectureCmd(m.LibrarySvc, m.seq, m.Current, true, m.timeout)
}

// openSelected navigates to the highlighted sidebar entry
func (m *Model) openSelected() tea.Cmd {
	switch item := m.Sidebar.SelectedItem().(type) {
	case components.CourseItem:
		return m.navigate(route.Course(item.Course.ID))
	case components.LectureItem:
		return m.navigate(route.Lecture(m.Sidebar.CourseID(), item.Lecture.ID))
	}
	return nil
}

// back returns to the course listing
func (m *Model) back() tea.Cmd {
	if m.catalog.SingleCourse() || m.Sidebar.Mode() == components.SidebarCourses {
		return nil
	}
	return m.navigate(route.Home)
}

// showLectures lists a course's lectures, preferring content-derived titles when cached
func (m *Model) showLectures(courseID string) {
	course, err := m.catalog.Course(courseID)
	if err != nil {
		return
	}
	lectures := course.Lectures
	if cached, ok := m.Queries.GetCachedLectureList(courseID); ok {
		lectures = cached
	}

	selected := ""
	if m.Sidebar.Mode() == components.SidebarLectures && m.Sidebar.CourseID() == courseID {
		if item, ok := m.Sidebar.SelectedItem().(components.LectureItem); ok {
			selected = item.Lecture.ID
		}
	}

	m.Sidebar.ShowLectures(course, lectures, func(id string) bool {
		return m.Queries.IsCached(courseID, id)
	})
	if selected != "" {
		m.Sidebar.SelectID(selected)
	}
}

// refreshSidebarMarks re-evaluates the cached markers of the listed lectures
func (m *Model) refreshSidebarMarks() {
	if m.Sidebar.Mode() == components.SidebarLectures {
		m.showLectures(m.Sidebar.CourseID())
	}
}
