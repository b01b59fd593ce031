package tui

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}

	contentHeight := max(0, m.Height-ChromeHeight)
	sidebarWidth := m.sidebarWidth

	// Narrow terminals give the viewer priority
	if m.Width-sidebarWidth < MinViewerWidth {
		sidebarWidth = max(m.Width/3, 0)
	}

	m.Sidebar.SetSize(sidebarWidth, contentHeight)
	m.Viewer.SetSize(m.Width-sidebarWidth, contentHeight)
	m.Omnibar.SetSize(m.Width, m.Height)
}
