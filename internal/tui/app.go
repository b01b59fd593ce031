package tui

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/lectern/internal/catalog"
	"github.com/mmcdole/lectern/internal/domain"
	"github.com/mmcdole/lectern/internal/library"
	"github.com/mmcdole/lectern/internal/route"
	"github.com/mmcdole/lectern/internal/search"
	"github.com/mmcdole/lectern/internal/tui/components"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateSearching
	StateHelp
)

// Focus is the pane receiving scroll keys
type Focus int

const (
	FocusSidebar Focus = iota
	FocusViewer
)

const (
	// Vertical layout: single footer line
	ChromeHeight = 1

	DefaultSidebarWidth = 32
	MinViewerWidth      = 30
	DefaultLoadTimeout  = 15 * time.Second
	maxSearchResults    = 50
)

// URLOpener opens a web page, see browser.Launcher
type URLOpener interface {
	Launch(url string) error
}

// Options wires the model to its services
type Options struct {
	Library      *library.Service
	Queries      *library.Queries
	Search       *search.Service
	Render       components.RenderFunc
	StartRoute   route.Route
	SidebarWidth int
	WrapWidth    int
	LoadTimeout  time.Duration
	Logger       *slog.Logger

	// Opening the current page on the hosted site; disabled when SiteURL is empty
	Browser  URLOpener
	SiteURL  string
	BasePath string
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Ready bool
	Focus Focus

	// Services
	LibrarySvc *library.Service
	Queries    *library.Queries
	SearchSvc  *search.Service
	catalog    *catalog.Catalog

	// UI Components
	Sidebar components.Sidebar
	Viewer  components.Viewer
	Omnibar components.Omnibar

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg    string
	StatusIsErr  bool
	SpinnerFrame int

	// Navigation. seq is the generation of the latest navigation; async results
	// carrying an older generation are discarded.
	Current route.Route
	seq     uint64

	// listPending is the course whose titles are listed after the current load settles
	listPending string

	sidebarWidth int
	timeout      time.Duration
	logger       *slog.Logger
	initCmd      tea.Cmd

	browser  URLOpener
	siteURL  string
	basePath string
}

// NewModel creates a new application model positioned at opts.StartRoute
func NewModel(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.SidebarWidth <= 0 {
		opts.SidebarWidth = DefaultSidebarWidth
	}
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = DefaultLoadTimeout
	}

	m := Model{
		State:        StateBrowsing,
		Focus:        FocusSidebar,
		LibrarySvc:   opts.Library,
		Queries:      opts.Queries,
		SearchSvc:    opts.Search,
		catalog:      opts.Library.Catalog(),
		Sidebar:      components.NewSidebar(),
		Viewer:       components.NewViewer(opts.Render, opts.WrapWidth),
		Omnibar:      components.NewOmnibar(),
		sidebarWidth: opts.SidebarWidth,
		timeout:      opts.LoadTimeout,
		logger:       opts.Logger,
		browser:      opts.Browser,
		siteURL:      opts.SiteURL,
		basePath:     opts.BasePath,
	}
	m.Sidebar.SetFocused(true)
	m.initCmd = m.navigate(opts.StartRoute)
	return m
}

// Seq returns the current navigation generation
func (m Model) Seq() uint64 {
	return m.seq
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.initCmd,
		TickCmd(100*time.Millisecond),
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.Viewer, cmd = m.Viewer.Update(msg)
		return m, cmd

	case TickMsg:
		m.SpinnerFrame++
		m.Viewer.SetSpinnerFrame(m.SpinnerFrame)
		return m, TickCmd(100 * time.Millisecond)

	case LectureLoadedMsg:
		if m.stale(msg.Seq) {
			return m, nil
		}
		m.Viewer.SetLecture(msg.Result.Lecture, msg.Result.FromCache)
		m.refreshSidebarMarks()
		cmd := m.takePendingList()
		return m, cmd

	case LectureFailedMsg:
		if m.stale(msg.Seq) {
			return m, nil
		}
		m.logger.Warn("lecture load failed", "route", msg.Route.String(), "error", msg.Err)
		m.Viewer.SetError(domain.UserMessage(msg.Err))
		cmd := m.takePendingList()
		return m, cmd

	case CourseRootResolvedMsg:
		if m.stale(msg.Seq) {
			return m, nil
		}
		// Redirect replaces the course route
		cmd := m.navigate(route.Lecture(msg.CourseID, msg.LectureID))
		return m, cmd

	case CourseRootFailedMsg:
		if m.stale(msg.Seq) {
			return m, nil
		}
		m.logger.Warn("course root unreachable", "course", msg.CourseID, "error", msg.Err)
		m.Viewer.SetError(domain.UserMessage(msg.Err))
		cmd := m.takePendingList()
		return m, cmd

	case LecturesListedMsg:
		m.SearchSvc.UpdateTitles(msg.CourseID, msg.Lectures)
		if m.Sidebar.Mode() == components.SidebarLectures && m.Sidebar.CourseID() == msg.CourseID {
			m.showLectures(msg.CourseID)
		}
		return m, nil

	case CacheClearedMsg:
		m.refreshSidebarMarks()
		m.StatusMsg = "Cache cleared"
		m.StatusIsErr = false
		return m, ClearStatusCmd(3 * time.Second)

	case ErrMsg:
		m.logger.Error("command failed", "context", msg.Context, "error", msg.Err)
		m.StatusMsg = msg.Error()
		m.StatusIsErr = true
		return m, ClearStatusCmd(5 * time.Second)

	case StatusMsg:
		m.StatusMsg = msg.Message
		m.StatusIsErr = msg.IsError
		return m, ClearStatusCmd(3 * time.Second)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	return m, nil
}

// stale reports whether a navigation result belongs to an older generation
func (m Model) stale(seq uint64) bool {
	if seq != m.seq {
		m.logger.Debug("dropping stale result", "seq", seq, "current", m.seq)
		return true
	}
	return false
}

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.State == StateHelp {
		return m.renderHelp()
	}
	if m.State == StateSearching && m.Omnibar.IsVisible() {
		return m.Omnibar.View()
	}

	panes := lipgloss.JoinHorizontal(lipgloss.Top, m.Sidebar.View(), m.Viewer.View())
	return lipgloss.JoinVertical(lipgloss.Left, panes, m.renderStatusBar())
}
