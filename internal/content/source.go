package content

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/mmcdole/lectern/internal/domain"
)

// SourceConfig contains what is needed to create a content source.
// Exactly one of BaseURL or Dir must be set.
type SourceConfig struct {
	BaseURL  string
	Dir      string
	BasePath string // deployment prefix, e.g. "/js-course-mvp"
	Timeout  time.Duration
}

// NewSource creates an HTTP or directory source depending on configuration
func NewSource(cfg *SourceConfig, logger *slog.Logger) (domain.ContentSource, error) {
	if cfg == nil {
		return nil, fmt.Errorf("source config is nil")
	}

	switch {
	case cfg.BaseURL != "" && cfg.Dir != "":
		return nil, fmt.Errorf("content base_url and dir are mutually exclusive")
	case cfg.BaseURL != "":
		return NewHTTPSource(cfg.BaseURL, cfg.BasePath, cfg.Timeout, logger), nil
	case cfg.Dir != "":
		return NewDirSource(filepath.Join(cfg.Dir, cfg.BasePath), logger), nil
	default:
		return nil, fmt.Errorf("content base_url or dir is required")
	}
}
