package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/lectern/internal/route"
	"github.com/mmcdole/lectern/internal/search"
	"github.com/mmcdole/lectern/internal/tui/styles"
)

// Omnibar is the fuzzy search modal component
type Omnibar struct {
	input     textinput.Model
	results   []search.Result
	cursor    int
	visible   bool
	width     int
	height    int
	prevQuery string // Track query changes for real-time filtering
}

// NewOmnibar creates a new omnibar component
func NewOmnibar() Omnibar {
	ti := textinput.New()
	ti.Placeholder = "Search lectures..."
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = "/ "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return Omnibar{
		input: ti,
	}
}

// Show makes the omnibar visible and focuses the input
func (o *Omnibar) Show() {
	o.visible = true
	o.input.Focus()
	o.input.SetValue("")
	o.results = nil
	o.cursor = 0
	o.prevQuery = ""
}

// Hide hides the omnibar
func (o *Omnibar) Hide() {
	o.visible = false
	o.input.Blur()
}

// IsVisible returns true if the omnibar is visible
func (o Omnibar) IsVisible() bool {
	return o.visible
}

// SetResults sets the search results
func (o *Omnibar) SetResults(results []search.Result) {
	o.results = results
	o.cursor = 0
}

// SetSize updates the component dimensions
func (o *Omnibar) SetSize(width, height int) {
	o.width = width
	o.height = height
	o.input.Width = max(10, o.modalWidth()-10)
}

// Query returns the current search query
func (o Omnibar) Query() string {
	return o.input.Value()
}

// QueryChanged returns true if the query changed since last check and updates prevQuery
func (o *Omnibar) QueryChanged() bool {
	current := o.input.Value()
	if current != o.prevQuery {
		o.prevQuery = current
		return true
	}
	return false
}

// SelectedResult returns the selected search result
func (o Omnibar) SelectedResult() *search.Result {
	if len(o.results) == 0 || o.cursor >= len(o.results) {
		return nil
	}
	return &o.results[o.cursor]
}

// Init initializes the component
func (o Omnibar) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages. The bool result is true when a result was chosen.
func (o Omnibar) Update(msg tea.Msg) (Omnibar, tea.Cmd, bool) {
	if !o.visible {
		return o, nil, false
	}

	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, OmnibarKeys.Escape):
			o.Hide()
			return o, nil, false

		case key.Matches(msg, OmnibarKeys.Enter):
			return o, nil, len(o.results) > 0

		case key.Matches(msg, OmnibarKeys.Down):
			if o.cursor < len(o.results)-1 {
				o.cursor++
			}
			return o, nil, false

		case key.Matches(msg, OmnibarKeys.Up):
			if o.cursor > 0 {
				o.cursor--
			}
			return o, nil, false
		}
	}

	o.input, cmd = o.input.Update(msg)
	return o, cmd, false
}

func (o Omnibar) modalWidth() int {
	return min(max(o.width*2/3, 40), 80)
}

// View renders the component
func (o Omnibar) View() string {
	if !o.visible {
		return ""
	}

	modalWidth := o.modalWidth()
	maxResults := 10

	var b strings.Builder
	b.WriteString(o.input.View())
	b.WriteString("\n\n")
	o.renderResults(&b, modalWidth, maxResults)

	content := lipgloss.NewStyle().
		Width(modalWidth - 4).
		Render(b.String())

	modal := styles.ModalStyle.
		Width(modalWidth).
		Render(content)

	return lipgloss.Place(
		o.width,
		o.height,
		lipgloss.Center,
		lipgloss.Center,
		modal,
	)
}

func (o Omnibar) renderResults(b *strings.Builder, modalWidth, maxResults int) {
	if len(o.results) == 0 {
		if o.input.Value() != "" {
			b.WriteString(styles.DimStyle.Render("No matches found"))
		}
		return
	}

	displayCount := min(len(o.results), maxResults)

	// Keep the cursor visible when it moves past the first page
	start := 0
	if o.cursor >= displayCount {
		start = o.cursor - displayCount + 1
	}

	for i := start; i < start+displayCount; i++ {
		result := o.results[i]
		selected := i == o.cursor

		var line strings.Builder

		badge := "LEC"
		if result.Kind == route.KindCourse {
			badge = "COURSE"
		}
		line.WriteString(styles.DimBadgeStyle.Render(badge))
		line.WriteString(" ")

		if result.Kind == route.KindLecture && result.CourseTitle != "" {
			line.WriteString(styles.DimStyle.Render(styles.Truncate(result.CourseTitle, 20)))
			line.WriteString(styles.DimStyle.Render(" > "))
		}

		style := styles.NormalItemStyle
		if selected {
			style = styles.SelectedItemStyle
		}

		title := result.Title
		maxTitleWidth := modalWidth - 35
		if lipgloss.Width(title) > maxTitleWidth {
			// Highlight positions no longer line up once truncated
			line.WriteString(style.Render(styles.Truncate(title, maxTitleWidth)))
		} else {
			line.WriteString(styles.HighlightMatches(title, result.MatchedIndexes, style, selected))
		}

		b.WriteString(line.String())
		b.WriteString("\n")
	}

	if len(o.results) > maxResults {
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("... and %d more", len(o.results)-maxResults)))
	}
}
