package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/mmcdole/lectern/internal/domain"
	"github.com/spf13/afero"
)

// FSSource reads lecture files from a directory tree
type FSSource struct {
	fs     afero.Fs
	root   string
	logger *slog.Logger
}

// NewFSSource creates a source over fsys, with lecture paths resolved under root.
// Use afero.NewOsFs() for a real directory and afero.NewMemMapFs() in tests.
func NewFSSource(fsys afero.Fs, root string, logger *slog.Logger) *FSSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &FSSource{fs: fsys, root: root, logger: logger}
}

// NewDirSource creates a source over a directory on the local disk
func NewDirSource(dir string, logger *slog.Logger) *FSSource {
	return NewFSSource(afero.NewReadOnlyFs(afero.NewOsFs()), dir, logger)
}

func (s *FSSource) resolve(courseID, lectureID string) (string, error) {
	p, err := Path(courseID, lectureID)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrLectureNotFound, err)
	}
	return filepath.Join(s.root, filepath.FromSlash(p)), nil
}

// Fetch reads the lecture body
func (s *FSSource) Fetch(ctx context.Context, courseID, lectureID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name, err := s.resolve(courseID, lectureID)
	if err != nil {
		return "", err
	}

	info, err := s.fs.Stat(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", name, domain.ErrLectureNotFound)
		}
		return "", fmt.Errorf("failed to stat %s: %w", name, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory: %w", name, domain.ErrLectureNotFound)
	}

	data, err := afero.ReadFile(s.fs, name)
	if err != nil {
		s.logger.Error("failed to read lecture", "error", err, "path", name)
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	return string(data), nil
}

// Exists reports whether the lecture file is present
func (s *FSSource) Exists(ctx context.Context, courseID, lectureID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	name, err := s.resolve(courseID, lectureID)
	if err != nil {
		return false, nil
	}
	info, err := s.fs.Stat(name)
	if err != nil {
		return false, nil
	}
	return !info.IsDir(), nil
}
