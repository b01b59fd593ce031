// Package render turns lecture markdown into styled terminal output.
package render

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

const (
	StyleAuto  = "auto"
	StyleDark  = "dark"
	StyleLight = "light"
	StyleNoTTY = "notty"
)

// minWidth keeps word wrap usable in very narrow panes
const minWidth = 20

// Renderer renders markdown with a fixed glamour style. Term renderers are built lazily
// per wrap width and reused, since constructing one parses the whole style sheet.
type Renderer struct {
	style  string
	logger *slog.Logger

	mu      sync.Mutex
	byWidth map[int]*glamour.TermRenderer
}

// New creates a renderer. Unknown styles fall back to auto detection.
func New(style string, logger *slog.Logger) *Renderer {
	switch style {
	case StyleAuto, StyleDark, StyleLight, StyleNoTTY:
	default:
		style = StyleAuto
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		style:   style,
		logger:  logger,
		byWidth: make(map[int]*glamour.TermRenderer),
	}
}

// Style returns the effective style name
func (r *Renderer) Style() string {
	return r.style
}

// Render formats markdown wrapped at width columns.
// On any renderer failure the raw markdown is returned unchanged.
func (r *Renderer) Render(markdown string, width int) string {
	if width < minWidth {
		width = minWidth
	}

	tr, err := r.termRenderer(width)
	if err != nil {
		r.logger.Error("failed to create markdown renderer", "error", err, "style", r.style)
		return markdown
	}

	r.mu.Lock()
	out, err := tr.Render(markdown)
	r.mu.Unlock()
	if err != nil {
		r.logger.Error("failed to render markdown", "error", err)
		return markdown
	}
	return strings.TrimRight(out, "\n") + "\n"
}

func (r *Renderer) termRenderer(width int) (*glamour.TermRenderer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tr, ok := r.byWidth[width]; ok {
		return tr, nil
	}

	styleOpt := glamour.WithStandardStyle(r.style)
	if r.style == StyleAuto {
		styleOpt = glamour.WithAutoStyle()
	}

	tr, err := glamour.NewTermRenderer(
		styleOpt,
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("glamour renderer (width %d): %w", width, err)
	}
	r.byWidth[width] = tr
	return tr, nil
}
