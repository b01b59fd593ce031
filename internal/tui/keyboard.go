package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/lectern/internal/browser"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle state-specific keys
	switch m.State {
	case StateHelp:
		if key.Matches(msg, Keys.Escape, Keys.Help, Keys.Quit) {
			m.State = StateBrowsing
		}
		return m, nil

	case StateSearching:
		return m.handleOmnibarKey(msg)
	}

	// Global keys
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Search):
		m.State = StateSearching
		m.Omnibar.Show()
		m.Omnibar.SetSize(m.Width, m.Height)
		return m, m.Omnibar.Init()

	case key.Matches(msg, Keys.Focus):
		m.toggleFocus()
		return m, nil

	case key.Matches(msg, Keys.Refresh):
		cmd := m.reload()
		return m, cmd

	case key.Matches(msg, Keys.ClearCache):
		m.StatusMsg = "Clearing cache..."
		m.StatusIsErr = false
		return m, ClearCacheCmd(m.LibrarySvc)

	case key.Matches(msg, Keys.Open):
		return m.openInBrowser()

	case key.Matches(msg, Keys.Back):
		cmd := m.back()
		return m, cmd

	case key.Matches(msg, Keys.Enter):
		if m.Focus == FocusSidebar {
			cmd := m.openSelected()
			return m, cmd
		}
		return m, nil

	case key.Matches(msg, Keys.Escape):
		if m.Focus == FocusViewer {
			m.toggleFocus()
		}
		return m, nil
	}

	// Scroll keys go to the focused pane
	var cmd tea.Cmd
	if m.Focus == FocusViewer {
		m.Viewer, cmd = m.Viewer.Update(msg)
	} else {
		m.Sidebar, cmd = m.Sidebar.Update(msg)
	}
	return m, cmd
}

// handleOmnibarKey routes input to the search modal and filters as the query changes
func (m Model) handleOmnibarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var selected bool
	m.Omnibar, cmd, selected = m.Omnibar.Update(msg)

	if selected {
		result := m.Omnibar.SelectedResult()
		m.Omnibar.Hide()
		m.State = StateBrowsing
		if result == nil {
			return m, nil
		}
		navCmd := m.navigate(result.Route())
		return m, navCmd
	}

	if !m.Omnibar.IsVisible() {
		m.State = StateBrowsing
		return m, cmd
	}

	if m.Omnibar.QueryChanged() {
		results := m.SearchSvc.Filter(m.Omnibar.Query(), maxSearchResults)
		m.Omnibar.SetResults(results)
		if len(results) == 0 && m.Omnibar.Query() != "" {
			m.logger.Debug("search found nothing", "query", m.Omnibar.Query())
		}
	}
	return m, cmd
}

func (m *Model) toggleFocus() {
	if m.Focus == FocusSidebar {
		m.Focus = FocusViewer
	} else {
		m.Focus = FocusSidebar
	}
	m.Sidebar.SetFocused(m.Focus == FocusSidebar)
	m.Viewer.SetFocused(m.Focus == FocusViewer)
}

// openInBrowser opens the current route on the hosted site
func (m Model) openInBrowser() (tea.Model, tea.Cmd) {
	if m.browser == nil || m.siteURL == "" {
		m.StatusMsg = "No site URL configured"
		m.StatusIsErr = true
		return m, ClearStatusCmd(3 * time.Second)
	}
	url := browser.PageURL(m.siteURL, m.basePath, m.Current)
	return m, OpenURLCmd(m.browser, url)
}
