package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/lectern/internal/route"
	"github.com/mmcdole/lectern/internal/tui/components"
	"github.com/mmcdole/lectern/internal/tui/styles"
)

// breadcrumb names the current location, e.g. "Продвинутый JavaScript > Замыкания"
func (m Model) breadcrumb() string {
	var parts []string
	if course, err := m.catalog.Course(m.Current.CourseID); err == nil && course.Title != "" {
		parts = append(parts, course.Title)
	}
	if m.Current.Kind() == route.KindLecture {
		title := m.Current.LectureID
		if m.Viewer.State() == components.LoadSuccess {
			title = m.Viewer.Lecture().Title
		} else if meta, err := m.catalog.Lecture(m.Current.CourseID, m.Current.LectureID); err == nil {
			title = meta.Title
		}
		parts = append(parts, title)
	}
	if len(parts) == 0 {
		return "Courses"
	}
	return strings.Join(parts, " > ")
}

// renderStatusBar renders the single footer line
func (m Model) renderStatusBar() string {
	var right string
	switch {
	case m.StatusMsg != "" && m.StatusIsErr:
		right = styles.ErrorStyle.Render(m.StatusMsg)
	case m.StatusMsg != "":
		right = styles.SuccessStyle.Render(m.StatusMsg)
	default:
		right = styles.HelpKeyStyle.Render("?") + styles.HelpDescStyle.Render(" help")
	}

	var badges []string
	if m.Viewer.State() == components.LoadSuccess {
		if m.Viewer.FromCache() {
			badges = append(badges, styles.DimBadgeStyle.Render("cached"))
		}
		badges = append(badges, styles.DimStyle.Render(fmt.Sprintf("%3.0f%%", m.Viewer.ScrollPercent()*100)))
	}
	badge := strings.Join(badges, " ")

	leftWidth := m.Width - lipgloss.Width(right) - lipgloss.Width(badge) - 3
	left := styles.AccentStyle.Render(styles.Truncate(m.breadcrumb(), max(leftWidth, 0)))

	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(badge) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return " " + left + strings.Repeat(" ", gap) + badge + " " + right
}

// renderHelp renders the key binding reference
func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(styles.ModalTitleStyle.Render("Keys"))
	b.WriteString("\n")

	for _, binding := range Keys.HelpBindings() {
		h := binding.Help()
		b.WriteString(styles.HelpKeyStyle.Render(styles.Pad(h.Key, 12)))
		b.WriteString(styles.HelpDescStyle.Render(h.Desc))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render("esc to close"))

	modal := styles.ModalStyle.Render(b.String())
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, modal)
}
