package content

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/lectern/internal/domain"
)

const (
	defaultTimeout = 15 * time.Second
	userAgent      = "Lectern/1.0"
)

// HTTPSource reads lecture files from a static web host
type HTTPSource struct {
	baseURL    string // scheme://host plus deployment base path, no trailing slash
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPSource creates a source rooted at baseURL + basePath
func NewHTTPSource(baseURL, basePath string, timeout time.Duration, logger *slog.Logger) *HTTPSource {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/") + strings.TrimRight(basePath, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// URL returns the absolute URL of a lecture file
func (s *HTTPSource) URL(courseID, lectureID string) (string, error) {
	p, err := Path(courseID, lectureID)
	if err != nil {
		return "", err
	}
	return url.JoinPath(s.baseURL, p)
}

// Fetch downloads the lecture body.
func (s *HTTPSource) Fetch(ctx context.Context, courseID, lectureID string) (string, error) {
	resp, err := s.get(ctx, courseID, lectureID)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.logger.Warn("lecture request failed", "status", resp.StatusCode, "course", courseID, "lecture", lectureID)
		return "", fmt.Errorf("status %d: %w", resp.StatusCode, domain.ErrLectureNotFound)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	return string(body), nil
}

// Exists probes the lecture file. Only transport failures are returned as errors.
func (s *HTTPSource) Exists(ctx context.Context, courseID, lectureID string) (bool, error) {
	resp, err := s.get(ctx, courseID, lectureID)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return false, nil
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode >= 200 && resp.StatusCode <= 299, nil
}

func (s *HTTPSource) get(ctx context.Context, courseID, lectureID string) (*http.Response, error) {
	reqURL, err := s.URL(courseID, lectureID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLectureNotFound, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/markdown, text/plain;q=0.9, */*;q=0.1")
	req.Header.Set("User-Agent", userAgent)

	s.logger.Debug("lecture request", "url", reqURL)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Error("lecture request failed", "error", err, "url", reqURL)
		return nil, fmt.Errorf("%w: %w", domain.ErrLectureNotFound, err)
	}
	return resp, nil
}
