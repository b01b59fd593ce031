package components

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/lectern/internal/domain"
	"github.com/mmcdole/lectern/internal/tui/styles"
)

// SidebarMode is what the sidebar currently lists
type SidebarMode int

const (
	SidebarCourses SidebarMode = iota
	SidebarLectures
)

// CourseItem implements list.Item for courses
type CourseItem struct {
	Course domain.Course
}

func (i CourseItem) FilterValue() string { return i.Course.Title }
func (i CourseItem) Title() string       { return i.Course.Title }
func (i CourseItem) Description() string { return i.Course.LectureCount() }

// LectureItem implements list.Item for lectures
type LectureItem struct {
	Lecture domain.LectureMetadata
	Cached  bool
}

func (i LectureItem) FilterValue() string { return i.Lecture.Title }
func (i LectureItem) Title() string {
	mark := "  "
	if i.Cached {
		mark = "• "
	}
	return mark + i.Lecture.Title
}
func (i LectureItem) Description() string { return i.Lecture.ID }

// Border overhead for the sidebar panel
const BorderSize = 2

// Sidebar lists courses, or the lectures of one course
type Sidebar struct {
	list     list.Model
	focused  bool
	width    int
	height   int
	mode     SidebarMode
	courseID string
}

// NewSidebar creates a new sidebar component
func NewSidebar() Sidebar {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	delegate.Styles.SelectedTitle = styles.SelectedItemStyle
	delegate.Styles.NormalTitle = styles.NormalItemStyle

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Courses"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	l.Styles.Title = styles.ListTitleStyle

	return Sidebar{list: l}
}

// ShowCourses switches to the course listing
func (s *Sidebar) ShowCourses(courses []domain.Course) {
	items := make([]list.Item, len(courses))
	for i, c := range courses {
		items[i] = CourseItem{Course: c}
	}
	s.mode = SidebarCourses
	s.courseID = ""
	s.list.Title = "Courses"
	s.list.SetItems(items)
}

// ShowLectures switches to the lecture listing of a course. cached reports which
// lectures have a fresh cache entry.
func (s *Sidebar) ShowLectures(course domain.Course, lectures []domain.LectureMetadata, cached func(id string) bool) {
	items := make([]list.Item, len(lectures))
	for i, l := range lectures {
		items[i] = LectureItem{Lecture: l, Cached: cached != nil && cached(l.ID)}
	}
	if s.mode != SidebarLectures || s.courseID != course.ID {
		s.list.Select(0)
	}
	s.mode = SidebarLectures
	s.courseID = course.ID
	s.list.Title = course.Title
	if s.list.Title == "" {
		s.list.Title = "Lectures"
	}
	s.list.SetItems(items)
}

// Mode returns what the sidebar is listing
func (s Sidebar) Mode() SidebarMode {
	return s.mode
}

// CourseID returns the course whose lectures are listed (empty in course mode)
func (s Sidebar) CourseID() string {
	return s.courseID
}

// Len returns the number of listed items
func (s Sidebar) Len() int {
	return len(s.list.Items())
}

// SelectedItem returns the highlighted item, a CourseItem or LectureItem
func (s Sidebar) SelectedItem() list.Item {
	return s.list.SelectedItem()
}

// SelectedIndex returns the selected index
func (s Sidebar) SelectedIndex() int {
	return s.list.Index()
}

// SelectID moves the cursor to the course or lecture with the given id
func (s *Sidebar) SelectID(id string) bool {
	for i, it := range s.list.Items() {
		switch v := it.(type) {
		case CourseItem:
			if v.Course.ID == id {
				s.list.Select(i)
				return true
			}
		case LectureItem:
			if v.Lecture.ID == id {
				s.list.Select(i)
				return true
			}
		}
	}
	return false
}

// SetSize updates the component dimensions
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.list.SetSize(width-BorderSize, height-BorderSize)
}

// SetFocused sets the focus state
func (s *Sidebar) SetFocused(focused bool) {
	s.focused = focused
}

// IsFocused returns the focus state
func (s Sidebar) IsFocused() bool {
	return s.focused
}

// Update handles cursor movement
func (s Sidebar) Update(msg tea.Msg) (Sidebar, tea.Cmd) {
	if !s.focused {
		return s, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		half := max(1, (s.height-BorderSize)/2)
		switch {
		case key.Matches(msg, ScrollKeys.Down):
			s.list.CursorDown()
		case key.Matches(msg, ScrollKeys.Up):
			s.list.CursorUp()
		case key.Matches(msg, ScrollKeys.Home):
			s.list.Select(0)
		case key.Matches(msg, ScrollKeys.End):
			s.list.Select(len(s.list.Items()) - 1)
		case key.Matches(msg, ScrollKeys.HalfDown):
			s.list.Select(min(s.list.Index()+half, len(s.list.Items())-1))
		case key.Matches(msg, ScrollKeys.HalfUp):
			s.list.Select(max(s.list.Index()-half, 0))
		}
	}

	return s, nil
}

// View renders the component
func (s Sidebar) View() string {
	style := styles.InactiveBorder
	if s.focused {
		style = styles.ActiveBorder
	}

	// Subtract frame (border) size so total rendered size equals s.width x s.height
	frameW, frameH := style.GetFrameSize()

	return style.
		Width(s.width - frameW).
		Height(s.height - frameH).
		Render(lipgloss.NewStyle().MaxWidth(s.width - frameW).Render(s.list.View()))
}
