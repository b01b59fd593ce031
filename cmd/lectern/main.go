package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/mmcdole/lectern/internal/browser"
	"github.com/mmcdole/lectern/internal/catalog"
	"github.com/mmcdole/lectern/internal/config"
	"github.com/mmcdole/lectern/internal/content"
	"github.com/mmcdole/lectern/internal/domain"
	"github.com/mmcdole/lectern/internal/library"
	"github.com/mmcdole/lectern/internal/log"
	"github.com/mmcdole/lectern/internal/render"
	"github.com/mmcdole/lectern/internal/route"
	"github.com/mmcdole/lectern/internal/search"
	"github.com/mmcdole/lectern/internal/store"
	"github.com/mmcdole/lectern/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

const usage = `Usage:
  lectern [flags] [route]                 open the reader, e.g. /course/js-advanced
  lectern [flags] print <course> <lecture> render one lecture to stdout
  lectern [flags] courses                 list configured courses and lectures

Flags:
`

func main() {
	var (
		showVersion bool
		configPath  string
		clearCache  bool
		initConfig  bool
	)
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&configPath, "config", "", "config file (default: ~/.config/lectern/config.yaml)")
	flag.BoolVar(&clearCache, "clear-cache", false, "drop all cached lectures before starting")
	flag.BoolVar(&initConfig, "init-config", false, "write the default configuration and exit")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("lectern %s\n", Version)
		return
	}

	if err := run(configPath, clearCache, initConfig, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds everything a command needs
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	catalog  *catalog.Catalog
	store    *store.LectureStore
	library  *library.Service
	queries  *library.Queries
	renderer *render.Renderer
}

func run(configPath string, clearCache, initConfig bool, args []string) error {
	// Load configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if initConfig {
		target := configPath
		if target == "" {
			target = config.DefaultConfigFile()
		}
		if err := config.SaveConfig(cfg, target); err != nil {
			return err
		}
		fmt.Printf("✓ Configuration written to %s\n", target)
		return nil
	}

	// Setup logger
	logger, closer, err := log.SetupLogger(log.Config{File: cfg.Logging.File, Level: cfg.Logging.Level})
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	} else {
		defer closer.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting lectern", "version", Version, "source", cfg.SourceKey())

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.store.Close()

	if clearCache || cfg.Cache.ClearOnStart {
		a.library.InvalidateAll()
	}

	switch {
	case len(args) > 0 && args[0] == "print":
		if len(args) != 3 && !(cfg.Content.SingleCourse && len(args) == 2) {
			return fmt.Errorf("usage: lectern print <course> <lecture>")
		}
		courseID, lectureID := "", args[len(args)-1]
		if len(args) == 3 {
			courseID = args[1]
		}
		return a.print(courseID, lectureID, os.Stdout)

	case len(args) > 0 && args[0] == "courses":
		a.listCourses(os.Stdout)
		return nil

	case len(args) > 1:
		return fmt.Errorf("unexpected arguments: %s", strings.Join(args[1:], " "))
	}

	start, err := a.startRoute(args)
	if err != nil {
		return err
	}
	return a.runTUI(start)
}

func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	cat, err := catalog.New(cfg.Courses, cfg.Content.SingleCourse)
	if err != nil {
		return nil, fmt.Errorf("invalid course configuration: %w", err)
	}

	source, err := content.NewSource(cfg.SourceConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create content source: %w", err)
	}

	st, err := store.NewLectureStore(cfg.CachePath(), cfg.SourceKey(), store.WithExpiry(cfg.Cache.Expiry))
	if err != nil {
		logger.Warn("failed to open cache, using memory only", "error", err)
		st, err = store.NewLectureStore("", "", store.WithExpiry(cfg.Cache.Expiry))
		if err != nil {
			return nil, err
		}
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		catalog:  cat,
		store:    st,
		library:  library.NewService(cat, source, st, logger),
		queries:  library.NewQueries(st),
		renderer: render.New(cfg.UI.Style, logger),
	}, nil
}

// startRoute picks the CLI route, else the last visited one, else the home screen
func (a *app) startRoute(args []string) (route.Route, error) {
	single := a.catalog.SingleCourse()
	if len(args) == 1 {
		r, err := route.Parse(route.StripBase(args[0], a.cfg.BasePath()), single)
		if err != nil {
			return route.Route{}, err
		}
		return r, nil
	}

	if last, ok := a.queries.GetLastRoute(); ok {
		if r, err := route.Parse(last, single); err == nil {
			return r, nil
		}
		a.logger.Warn("ignoring stored route", "route", last)
	}
	return route.Home, nil
}

func (a *app) runTUI(start route.Route) error {
	model := tui.NewModel(tui.Options{
		Library:      a.library,
		Queries:      a.queries,
		Search:       search.NewService(a.catalog, a.logger),
		Render:       a.renderer.Render,
		StartRoute:   start,
		SidebarWidth: a.cfg.UI.SidebarWidth,
		WrapWidth:    a.cfg.UI.WrapWidth,
		LoadTimeout:  a.cfg.Content.Timeout,
		Logger:       a.logger,
		Browser:      browser.NewLauncher(a.cfg.UI.Browser, a.cfg.UI.BrowserArgs, a.logger),
		SiteURL:      a.cfg.SiteURL(),
		BasePath:     a.cfg.BasePath(),
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	a.logger.Info("starting TUI", "route", start.String())

	if _, err := p.Run(); err != nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	a.logger.Info("shutting down")
	return nil
}

// print renders one lecture to w, plain when w is not a terminal
func (a *app) print(courseID, lectureID string, w io.Writer) error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Content.Timeout)
	defer cancel()

	result, err := a.library.Load(ctx, courseID, lectureID)
	if err != nil {
		a.logger.Error("print failed", "course", courseID, "lecture", lectureID, "error", err)
		if errors.Is(err, domain.ErrUnknown) {
			return fmt.Errorf("%s: %w", domain.UserMessage(err), err)
		}
		return errors.New(domain.UserMessage(err))
	}

	renderer := a.renderer
	width := 80
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if cols, _, err := term.GetSize(fd); err == nil && cols > 0 {
			width = cols
		}
	} else {
		renderer = render.New(render.StyleNoTTY, a.logger)
	}
	if a.cfg.UI.WrapWidth > 0 {
		width = a.cfg.UI.WrapWidth
	}

	_, err = fmt.Fprint(w, renderer.Render(result.Lecture.Content, width))
	return err
}

// listCourses prints the catalog with the route of each lecture
func (a *app) listCourses(w io.Writer) {
	for _, c := range a.catalog.Courses() {
		if c.ID != "" {
			fmt.Fprintf(w, "%s  %s (%s)\n", c.ID, c.Title, c.LectureCount())
		}
		for _, l := range c.Lectures {
			mark := " "
			if a.queries.IsCached(c.ID, l.ID) {
				mark = "•"
			}
			fmt.Fprintf(w, "  %s %-20s %s\n", mark, l.ID, l.Title)
		}
	}
}
