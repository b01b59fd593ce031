// Package browser opens lecture pages of the hosted course site in a web browser.
package browser

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"

	"github.com/mmcdole/lectern/internal/route"
)

// startFunc starts a process without waiting for it
type startFunc func(name string, args ...string) error

// lookFunc reports whether a command is available
type lookFunc func(name string) error

func startProcess(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

func lookPath(name string) error {
	_, err := exec.LookPath(name)
	return err
}

// candidateBrowsers defines the preferred launchers for each platform, tried in order
var candidateBrowsers = map[string][]string{
	"linux":   {"xdg-open", "sensible-browser", "x-www-browser", "firefox", "chromium"},
	"freebsd": {"xdg-open", "firefox"},
}

// Launcher opens URLs in the configured browser or the system default
type Launcher struct {
	command string   // configured browser command, empty for system default
	args    []string // additional arguments for the browser
	logger  *slog.Logger

	start startFunc
	look  lookFunc
	goos  string
}

// NewLauncher creates a launcher. An empty command uses the platform default.
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command: command,
		args:    args,
		logger:  logger,
		start:   startProcess,
		look:    lookPath,
		goos:    runtime.GOOS,
	}
}

// PageURL returns the site address of a route, e.g.
// https://user.github.io/js-course-mvp/course/js-advanced/lecture/09-closures
func PageURL(siteURL, basePath string, r route.Route) string {
	return strings.TrimRight(siteURL, "/") + strings.TrimRight(basePath, "/") + r.String()
}

// Launch opens url
func (l *Launcher) Launch(url string) error {
	// Tier 1: User configured a specific browser
	if l.command != "" {
		args := append(append([]string{}, l.args...), url)
		l.logger.Info("launching browser", "command", l.command, "args", args)
		if err := l.start(l.command, args...); err != nil {
			return fmt.Errorf("launch %s: %w", l.command, err)
		}
		return nil
	}

	// Tier 2: Platform handlers that are always present
	switch l.goos {
	case "darwin":
		return l.start("open", url)
	case "windows":
		return l.start("rundll32", "url.dll,FileProtocolHandler", url)
	}

	// Tier 3: Candidate chain for Unix desktops
	candidates, ok := candidateBrowsers[l.goos]
	if !ok {
		candidates = candidateBrowsers["linux"]
	}
	for _, name := range candidates {
		if err := l.look(name); err != nil {
			l.logger.Debug("browser not available", "command", name, "error", err)
			continue
		}
		if err := l.start(name, url); err != nil {
			l.logger.Debug("browser failed to start", "command", name, "error", err)
			continue
		}
		l.logger.Info("launched with detected browser", "command", name, "url", url)
		return nil
	}

	return fmt.Errorf("no browser found (set ui.browser in the config)")
}
