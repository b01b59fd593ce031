package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmcdole/lectern/internal/catalog"
	"github.com/mmcdole/lectern/internal/domain"
	"github.com/mmcdole/lectern/internal/lecture"
	"github.com/mmcdole/lectern/internal/store"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// listConcurrency bounds parallel fetches when indexing a course
const listConcurrency = 4

// Service orchestrates catalog + content source + store operations.
type Service struct {
	catalog *catalog.Catalog
	source  domain.ContentSource
	store   domain.LectureStore
	logger  *slog.Logger

	// inflight joins concurrent fetches of the same lecture
	inflight singleflight.Group
}

// NewService creates a new lecture loading service.
func NewService(cat *catalog.Catalog, source domain.ContentSource, store domain.LectureStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{catalog: cat, source: source, store: store, logger: logger}
}

// Catalog exposes the static course configuration
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// Load returns a lecture from cache when a fresh entry exists, otherwise fetches it from
// the content source, parses it and caches it. Returned errors wrap one of
// domain.ErrLectureNotFound, domain.ErrLectureEmpty, domain.ErrCourseNotFound or
// domain.ErrUnknown.
func (s *Service) Load(ctx context.Context, courseID, lectureID string) (domain.LoadResult, error) {
	if _, err := s.catalog.Lecture(courseID, lectureID); err != nil {
		s.logger.Warn("lecture outside catalog", "course", courseID, "lecture", lectureID)
		return domain.LoadResult{}, err
	}

	if content, ok := s.store.GetLecture(courseID, lectureID); ok {
		s.logger.Debug("cache hit", "course", courseID, "lecture", lectureID)
		return domain.LoadResult{
			CourseID:  courseID,
			Lecture:   lecture.Parse(content, lectureID),
			FromCache: true,
		}, nil
	}

	s.logger.Debug("cache miss, fetching", "course", courseID, "lecture", lectureID)
	return s.fetch(ctx, courseID, lectureID)
}

// Refresh drops the cached entry and fetches the lecture again
func (s *Service) Refresh(ctx context.Context, courseID, lectureID string) (domain.LoadResult, error) {
	if _, err := s.catalog.Lecture(courseID, lectureID); err != nil {
		return domain.LoadResult{}, err
	}
	s.store.InvalidateLecture(courseID, lectureID)
	return s.fetch(ctx, courseID, lectureID)
}

// fetch reads the lecture from the source. Callers asking for a lecture that is already
// being fetched wait for that fetch instead of issuing another.
func (s *Service) fetch(ctx context.Context, courseID, lectureID string) (domain.LoadResult, error) {
	v, err, shared := s.inflight.Do(store.LectureKey(courseID, lectureID), func() (any, error) {
		return s.fetchSource(ctx, courseID, lectureID)
	})
	if err != nil {
		return domain.LoadResult{}, err
	}
	if shared {
		s.logger.Debug("joined in-flight fetch", "course", courseID, "lecture", lectureID)
	}
	return v.(domain.LoadResult), nil
}

func (s *Service) fetchSource(ctx context.Context, courseID, lectureID string) (domain.LoadResult, error) {
	body, err := s.source.Fetch(ctx, courseID, lectureID)
	if err != nil {
		s.logger.Error("failed to fetch lecture", "error", err, "course", courseID, "lecture", lectureID)
		return domain.LoadResult{}, classify(err)
	}
	if strings.TrimSpace(body) == "" {
		s.logger.Warn("lecture file is empty", "course", courseID, "lecture", lectureID)
		return domain.LoadResult{}, fmt.Errorf("%s/%s: %w", courseID, lectureID, domain.ErrLectureEmpty)
	}

	lec := lecture.Parse(body, lectureID)

	if err := s.store.SaveLecture(courseID, lectureID, lec.Content); err != nil {
		s.logger.Error("failed to save lecture", "error", err, "course", courseID, "lecture", lectureID)
	}
	s.logger.Debug("fetched lecture", "course", courseID, "lecture", lectureID, "bytes", len(body))

	return domain.LoadResult{CourseID: courseID, Lecture: lec}, nil
}

// classify maps a source error onto the loader's error taxonomy
func classify(err error) error {
	switch {
	case errors.Is(err, domain.ErrLectureNotFound), errors.Is(err, domain.ErrLectureEmpty):
		return err
	default:
		return fmt.Errorf("%w: %w", domain.ErrUnknown, err)
	}
}

// ResolveCourseRoot picks the lecture to redirect to when a course is opened without one:
// the course's first configured lecture, provided its file is reachable.
func (s *Service) ResolveCourseRoot(ctx context.Context, courseID string) (string, error) {
	first, err := s.catalog.FirstLecture(courseID)
	if err != nil {
		return "", err
	}

	if _, ok := s.store.GetLecture(courseID, first.ID); ok {
		return first.ID, nil
	}

	ok, err := s.source.Exists(ctx, courseID, first.ID)
	if err != nil {
		s.logger.Error("failed to probe first lecture", "error", err, "course", courseID)
		return "", fmt.Errorf("%w: %w", domain.ErrUnknown, err)
	}
	if !ok {
		return "", fmt.Errorf("%s/%s: %w", courseID, first.ID, domain.ErrLectureNotFound)
	}
	return first.ID, nil
}

// ListLectures returns the course's lectures sorted by order, with titles taken from each
// lecture's first heading where its file is reachable. Unreachable lectures keep their
// configured title. The list is cached under the course id.
func (s *Service) ListLectures(ctx context.Context, courseID string) ([]domain.LectureMetadata, error) {
	if list, ok := s.store.GetLectureList(courseID); ok {
		return list, nil
	}

	course, err := s.catalog.Course(courseID)
	if err != nil {
		return nil, err
	}

	list := make([]domain.LectureMetadata, len(course.Lectures))
	copy(list, course.Lectures)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(listConcurrency)
	for i := range list {
		g.Go(func() error {
			res, err := s.Load(gctx, courseID, list[i].ID)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				s.logger.Debug("keeping configured title", "lecture", list[i].ID, "error", err)
				return nil
			}
			list[i] = res.Lecture.Metadata()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnknown, err)
	}

	lecture.SortByOrder(list)

	if err := s.store.SaveLectureList(courseID, list); err != nil {
		s.logger.Error("failed to save lecture list", "error", err, "course", courseID)
	}
	s.logger.Debug("indexed course", "course", courseID, "count", len(list))
	return list, nil
}

func (s *Service) InvalidateLecture(courseID, lectureID string) {
	s.store.InvalidateLecture(courseID, lectureID)
	s.logger.Info("invalidated lecture cache", "course", courseID, "lecture", lectureID)
}

func (s *Service) InvalidateCourse(courseID string) {
	s.store.InvalidateCourse(courseID)
	s.logger.Info("invalidated course cache", "course", courseID)
}

func (s *Service) InvalidateAll() {
	s.store.InvalidateAll()
	s.logger.Info("invalidated all cache")
}

// RememberRoute persists the last visited route so the next session resumes there
func (s *Service) RememberRoute(route string) {
	if err := s.store.SaveLastRoute(route); err != nil {
		s.logger.Error("failed to save last route", "error", err, "route", route)
	}
}
