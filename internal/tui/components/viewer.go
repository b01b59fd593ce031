package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/lectern/internal/domain"
	"github.com/mmcdole/lectern/internal/tui/styles"
)

// LoadState is the lifecycle of the lecture shown in the viewer
type LoadState int

const (
	LoadIdle LoadState = iota
	LoadLoading
	LoadSuccess
	LoadError
)

func (s LoadState) String() string {
	switch s {
	case LoadLoading:
		return "loading"
	case LoadSuccess:
		return "success"
	case LoadError:
		return "error"
	default:
		return "idle"
	}
}

// RenderFunc formats markdown for the given wrap width
type RenderFunc func(markdown string, width int) string

// Spinner frames for the loading animation
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Viewer shows the rendered lecture, a loading indicator or an error message
type Viewer struct {
	viewport viewport.Model
	render   RenderFunc
	focused  bool
	width    int
	height   int
	wrap     int // 0 wraps at the pane width

	state     LoadState
	lecture   domain.Lecture
	fromCache bool
	errMsg    string
	pending   string // Title shown while loading
	frame     int

	renderedWidth int
}

// NewViewer creates a viewer. wrap fixes the word wrap width; 0 follows the pane.
func NewViewer(render RenderFunc, wrap int) Viewer {
	vp := viewport.New(0, 0)
	vp.KeyMap = viewport.KeyMap{} // Scrolling is driven by Update with the shared bindings
	return Viewer{
		viewport: vp,
		render:   render,
		wrap:     wrap,
	}
}

// State returns the current load state
func (v Viewer) State() LoadState {
	return v.state
}

// Lecture returns the displayed lecture (zero unless State is LoadSuccess)
func (v Viewer) Lecture() domain.Lecture {
	return v.lecture
}

// FromCache reports whether the displayed lecture was served from the cache
func (v Viewer) FromCache() bool {
	return v.fromCache
}

// ErrorMessage returns the user-facing error (empty unless State is LoadError)
func (v Viewer) ErrorMessage() string {
	return v.errMsg
}

// SetIdle clears the viewer
func (v *Viewer) SetIdle() {
	v.state = LoadIdle
	v.lecture = domain.Lecture{}
	v.errMsg = ""
	v.pending = ""
	v.viewport.SetContent("")
}

// SetLoading shows the loading indicator for the named lecture
func (v *Viewer) SetLoading(title string) {
	v.state = LoadLoading
	v.errMsg = ""
	v.pending = title
}

// SetLecture shows a loaded lecture scrolled to the top
func (v *Viewer) SetLecture(l domain.Lecture, fromCache bool) {
	v.state = LoadSuccess
	v.lecture = l
	v.fromCache = fromCache
	v.errMsg = ""
	v.rerender()
	v.viewport.GotoTop()
}

// SetError shows a user-facing error message
func (v *Viewer) SetError(message string) {
	v.state = LoadError
	v.lecture = domain.Lecture{}
	v.errMsg = message
}

// SetSpinnerFrame updates the loading animation frame
func (v *Viewer) SetSpinnerFrame(frame int) {
	v.frame = frame
}

// SetSize updates the component dimensions and re-wraps the lecture if needed
func (v *Viewer) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.viewport.Width = max(0, width-BorderSize)
	v.viewport.Height = max(0, height-BorderSize)
	if v.state == LoadSuccess && v.wrapWidth() != v.renderedWidth {
		offset := v.viewport.YOffset
		v.rerender()
		v.viewport.SetYOffset(offset)
	}
}

// SetFocused sets the focus state
func (v *Viewer) SetFocused(focused bool) {
	v.focused = focused
}

// IsFocused returns the focus state
func (v Viewer) IsFocused() bool {
	return v.focused
}

// ScrollPercent reports how far the lecture is scrolled
func (v Viewer) ScrollPercent() float64 {
	return v.viewport.ScrollPercent()
}

func (v Viewer) wrapWidth() int {
	if v.wrap > 0 {
		return v.wrap
	}
	return max(0, v.viewport.Width-2)
}

func (v *Viewer) rerender() {
	width := v.wrapWidth()
	content := v.lecture.Content
	if v.render != nil {
		content = v.render(content, width)
	}
	v.renderedWidth = width
	v.viewport.SetContent(content)
}

// Update handles scrolling
func (v Viewer) Update(msg tea.Msg) (Viewer, tea.Cmd) {
	if !v.focused || v.state != LoadSuccess {
		return v, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, ScrollKeys.Down):
			v.viewport.LineDown(1)
		case key.Matches(msg, ScrollKeys.Up):
			v.viewport.LineUp(1)
		case key.Matches(msg, ScrollKeys.HalfDown):
			v.viewport.HalfViewDown()
		case key.Matches(msg, ScrollKeys.HalfUp):
			v.viewport.HalfViewUp()
		case key.Matches(msg, ScrollKeys.PageDown):
			v.viewport.ViewDown()
		case key.Matches(msg, ScrollKeys.PageUp):
			v.viewport.ViewUp()
		case key.Matches(msg, ScrollKeys.Home):
			v.viewport.GotoTop()
		case key.Matches(msg, ScrollKeys.End):
			v.viewport.GotoBottom()
		}
	case tea.MouseMsg:
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd
	}
	return v, nil
}

// View renders the component
func (v Viewer) View() string {
	style := styles.InactiveBorder
	if v.focused {
		style = styles.ActiveBorder
	}
	frameW, frameH := style.GetFrameSize()
	innerW, innerH := v.width-frameW, v.height-frameH

	var body string
	switch v.state {
	case LoadSuccess:
		body = v.viewport.View()
	case LoadLoading:
		spinner := styles.SpinnerStyle.Render(spinnerFrames[v.frame%len(spinnerFrames)])
		body = center(innerW, innerH, spinner+" Loading lecture... "+styles.DimStyle.Render(v.pending))
	case LoadError:
		body = center(innerW, innerH, styles.ErrorStyle.Render(v.errMsg))
	default:
		body = center(innerW, innerH, styles.DimStyle.Render("Select a lecture"))
	}

	return style.
		Width(innerW).
		Height(innerH).
		Render(body)
}

func center(width, height int, s string) string {
	if width <= 0 || height <= 0 {
		return s
	}
	s = strings.TrimRight(s, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, s)
}
