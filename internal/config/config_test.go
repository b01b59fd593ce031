package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/lectern/internal/catalog"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Content.Dir != "." {
		t.Errorf("Content.Dir = %q, want \".\"", cfg.Content.Dir)
	}
	if cfg.Cache.Expiry != 24*time.Hour {
		t.Errorf("Cache.Expiry = %s, want 24h", cfg.Cache.Expiry)
	}
	if cfg.Cache.ClearOnStart {
		t.Error("ClearOnStart should default to false")
	}
	if cfg.Content.Timeout != 15*time.Second {
		t.Errorf("Content.Timeout = %s", cfg.Content.Timeout)
	}
	if len(cfg.Courses) != 3 || cfg.Courses[1].ID != "js-advanced" {
		t.Errorf("expected built-in courses, got %d", len(cfg.Courses))
	}
	if cfg.BasePath() != "" {
		t.Errorf("BasePath = %q, want empty", cfg.BasePath())
	}
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "lectern.yaml", `
content:
  base_url: https://example.github.io
  deployment: github
  timeout: 5s
cache:
  expiry: 1h
  clear_on_start: true
courses:
  - id: go-basics
    title: Go
    lectures:
      - id: 0-introduction
        title: Intro
      - id: 01-types
ui:
  style: notty
  browser: firefox
  browser_args: ["--new-tab"]
logging:
  level: debug
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Content.BaseURL != "https://example.github.io" || cfg.Content.Dir != "" {
		t.Errorf("content = %+v", cfg.Content)
	}
	if cfg.BasePath() != "/js-course-mvp" {
		t.Errorf("BasePath = %q", cfg.BasePath())
	}
	if cfg.Content.Timeout != 5*time.Second || cfg.Cache.Expiry != time.Hour || !cfg.Cache.ClearOnStart {
		t.Errorf("durations/flags not parsed: %+v %+v", cfg.Content, cfg.Cache)
	}
	if len(cfg.Courses) != 1 || len(cfg.Courses[0].Lectures) != 2 {
		t.Fatalf("courses = %+v", cfg.Courses)
	}
	if cfg.Courses[0].Lectures[1].ID != "01-types" {
		t.Errorf("lecture = %+v", cfg.Courses[0].Lectures[1])
	}
	if cfg.UI.Style != "notty" || cfg.Logging.Level != "debug" {
		t.Errorf("ui/logging = %+v %+v", cfg.UI, cfg.Logging)
	}
	if cfg.UI.Browser != "firefox" || len(cfg.UI.BrowserArgs) != 1 || cfg.UI.BrowserArgs[0] != "--new-tab" {
		t.Errorf("browser = %q %v", cfg.UI.Browser, cfg.UI.BrowserArgs)
	}
	if cfg.SiteURL() != "https://example.github.io" {
		t.Errorf("SiteURL = %q, want base_url fallback", cfg.SiteURL())
	}

	src := cfg.SourceConfig()
	if src.BaseURL != cfg.Content.BaseURL || src.BasePath != "/js-course-mvp" || src.Timeout != 5*time.Second {
		t.Errorf("SourceConfig = %+v", src)
	}
	if cfg.SourceKey() != "https://example.github.io/js-course-mvp" {
		t.Errorf("SourceKey = %q", cfg.SourceKey())
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "content:\n  dir: /srv/site\n")
	t.Setenv("LECTERN_CONTENT_DIR", "/srv/other")
	t.Setenv("LECTERN_CACHE_EXPIRY", "30m")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Content.Dir != "/srv/other" {
		t.Errorf("Content.Dir = %q, want env override", cfg.Content.Dir)
	}
	if cfg.Cache.Expiry != 30*time.Minute {
		t.Errorf("Cache.Expiry = %s, want 30m", cfg.Cache.Expiry)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		body string
		want string
	}{
		{"both origins", "content:\n  base_url: http://x\n  dir: /tmp\n", "mutually exclusive"},
		{"bad deployment", "content:\n  deployment: netlify\n", "unknown target"},
		{"bad expiry", "cache:\n  expiry: -1h\n", "must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, strings.ReplaceAll(tt.name, " ", "_")+".yaml", tt.body)
			_, err := LoadConfig(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want containing %q", err, tt.want)
			}
		})
	}

	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("explicit missing config file should fail")
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Content.Dir = "/srv/site"
	cfg.Content.Deployment = DeploymentGitHub
	cfg.Cache.Expiry = 2 * time.Hour
	cfg.UI.Style = "light"
	cfg.Courses = catalog.DefaultCourses()

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Content.Dir != "/srv/site" || loaded.Content.Deployment != DeploymentGitHub {
		t.Errorf("content = %+v", loaded.Content)
	}
	if loaded.Cache.Expiry != 2*time.Hour || loaded.UI.Style != "light" {
		t.Errorf("cache/ui = %+v %+v", loaded.Cache, loaded.UI)
	}
	if len(loaded.Courses) != len(cfg.Courses) {
		t.Fatalf("courses = %d, want %d", len(loaded.Courses), len(cfg.Courses))
	}
	if got := loaded.Courses[1].Lectures[9].Title; got != "Замыкания" {
		t.Errorf("lecture title = %q", got)
	}
}
