package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mmcdole/lectern/internal/catalog"
	"github.com/mmcdole/lectern/internal/content"
	"github.com/mmcdole/lectern/internal/domain"
	"github.com/mmcdole/lectern/internal/store"
)

// Deployment names the hosting target content is served from
type Deployment string

const (
	DeploymentRoot   Deployment = "root"
	DeploymentGitHub Deployment = "github"
)

// Config holds all application configuration
type Config struct {
	Content ContentConfig   `mapstructure:"content"`
	Cache   CacheConfig     `mapstructure:"cache"`
	Courses []domain.Course `mapstructure:"courses"`
	UI      UIConfig        `mapstructure:"ui"`
	Logging LoggingConfig   `mapstructure:"logging"`
}

// ContentConfig describes where lecture files are read from
type ContentConfig struct {
	BaseURL      string        `mapstructure:"base_url"`   // HTTP static host
	Dir          string        `mapstructure:"dir"`        // Local checkout, exclusive with base_url
	Deployment   Deployment    `mapstructure:"deployment"` // "root" or "github"
	BasePath     string        `mapstructure:"base_path"`  // Overrides the deployment prefix
	SiteURL      string        `mapstructure:"site_url"`   // Hosted site opened by "o"; defaults to base_url
	SingleCourse bool          `mapstructure:"single_course"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// CacheConfig holds content cache configuration
type CacheConfig struct {
	Dir          string        `mapstructure:"dir"` // Empty keeps the cache in memory only
	Expiry       time.Duration `mapstructure:"expiry"`
	ClearOnStart bool          `mapstructure:"clear_on_start"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	Style        string `mapstructure:"style"`         // glamour style: dark, light, notty, auto
	SidebarWidth int    `mapstructure:"sidebar_width"` // Columns
	WrapWidth    int    `mapstructure:"wrap_width"`    // 0 wraps at the viewer width

	Browser     string   `mapstructure:"browser"`      // Empty uses the system default
	BrowserArgs []string `mapstructure:"browser_args"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration.
// Courses are left empty and filled with the built-in catalog after loading.
func DefaultConfig() *Config {
	return &Config{
		Content: ContentConfig{
			Deployment: DeploymentRoot,
			Timeout:    15 * time.Second,
		},
		Cache: CacheConfig{
			Dir:    defaultCachePath(),
			Expiry: store.DefaultExpiry,
		},
		UI: UIConfig{
			Style:        "auto",
			SidebarWidth: 32,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "lectern", "lectern.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "lectern", "lectern.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "lectern")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "lectern")
	}
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "lectern", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "lectern", "cache")
	}
}

// DefaultConfigFile is where SaveConfig writes when no explicit path is given
func DefaultConfigFile() string {
	return filepath.Join(defaultConfigPath(), "config.yaml")
}

// newViper registers every scalar default so LECTERN_* variables override keys
// that are absent from the config file.
func newViper(cfg *Config) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("LECTERN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("content.base_url", cfg.Content.BaseURL)
	v.SetDefault("content.dir", cfg.Content.Dir)
	v.SetDefault("content.deployment", string(cfg.Content.Deployment))
	v.SetDefault("content.base_path", cfg.Content.BasePath)
	v.SetDefault("content.site_url", cfg.Content.SiteURL)
	v.SetDefault("content.single_course", cfg.Content.SingleCourse)
	v.SetDefault("content.timeout", cfg.Content.Timeout)

	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("cache.expiry", cfg.Cache.Expiry)
	v.SetDefault("cache.clear_on_start", cfg.Cache.ClearOnStart)

	v.SetDefault("ui.style", cfg.UI.Style)
	v.SetDefault("ui.sidebar_width", cfg.UI.SidebarWidth)
	v.SetDefault("ui.wrap_width", cfg.UI.WrapWidth)
	v.SetDefault("ui.browser", cfg.UI.Browser)
	v.SetDefault("ui.browser_args", cfg.UI.BrowserArgs)

	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
	return v
}

// LoadConfig loads configuration from file and environment.
// An explicit path must exist; otherwise config.yaml is searched in the user config
// directory and the working directory, and a missing file means defaults.
func LoadConfig(explicitPath string) (*Config, error) {
	cfg := DefaultConfig()
	v := newViper(cfg)

	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicitPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	// Without any content origin, read from the working directory
	if cfg.Content.BaseURL == "" && cfg.Content.Dir == "" {
		cfg.Content.Dir = "."
	}
	if len(cfg.Courses) == 0 {
		cfg.Courses = catalog.DefaultCourses()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail later with a less helpful error
func (c *Config) Validate() error {
	switch c.Content.Deployment {
	case DeploymentRoot, DeploymentGitHub, "":
	default:
		return fmt.Errorf("content.deployment: unknown target %q (want root or github)", c.Content.Deployment)
	}
	if c.Content.BaseURL != "" && c.Content.Dir != "" {
		return fmt.Errorf("content.base_url and content.dir are mutually exclusive")
	}
	if c.Content.Timeout <= 0 {
		return fmt.Errorf("content.timeout must be positive, got %s", c.Content.Timeout)
	}
	if c.Cache.Expiry <= 0 {
		return fmt.Errorf("cache.expiry must be positive, got %s", c.Cache.Expiry)
	}
	return nil
}

// BasePath resolves the deployment prefix content is served under
func (c *Config) BasePath() string {
	return content.DeploymentBasePath(string(c.Content.Deployment), c.Content.BasePath)
}

// SiteURL returns the hosted site root, without the deployment base path.
// Empty when neither site_url nor base_url is set.
func (c *Config) SiteURL() string {
	if c.Content.SiteURL != "" {
		return c.Content.SiteURL
	}
	return c.Content.BaseURL
}

// SourceConfig converts content settings for content.NewSource
func (c *Config) SourceConfig() *content.SourceConfig {
	return &content.SourceConfig{
		BaseURL:  c.Content.BaseURL,
		Dir:      expandHome(c.Content.Dir),
		BasePath: c.BasePath(),
		Timeout:  c.Content.Timeout,
	}
}

// SourceKey identifies the content origin, so caches of different origins never mix
func (c *Config) SourceKey() string {
	if c.Content.BaseURL != "" {
		return strings.TrimRight(c.Content.BaseURL, "/") + c.BasePath()
	}
	abs, err := filepath.Abs(expandHome(c.Content.Dir))
	if err != nil {
		abs = c.Content.Dir
	}
	return "file://" + filepath.ToSlash(abs) + c.BasePath()
}

// CachePath returns the cache directory with ~ expanded
func (c *Config) CachePath() string {
	return expandHome(c.Cache.Dir)
}

// SaveConfig writes the configuration as YAML. An empty path writes DefaultConfigFile().
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = DefaultConfigFile()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()

	// Set fields individually to ensure correct key names (snake_case)
	v.Set("content.base_url", cfg.Content.BaseURL)
	v.Set("content.dir", cfg.Content.Dir)
	v.Set("content.deployment", string(cfg.Content.Deployment))
	v.Set("content.base_path", cfg.Content.BasePath)
	v.Set("content.site_url", cfg.Content.SiteURL)
	v.Set("content.single_course", cfg.Content.SingleCourse)
	v.Set("content.timeout", cfg.Content.Timeout.String())

	v.Set("cache.dir", cfg.Cache.Dir)
	v.Set("cache.expiry", cfg.Cache.Expiry.String())
	v.Set("cache.clear_on_start", cfg.Cache.ClearOnStart)

	v.Set("courses", coursesToMaps(cfg.Courses))

	v.Set("ui.style", cfg.UI.Style)
	v.Set("ui.sidebar_width", cfg.UI.SidebarWidth)
	v.Set("ui.wrap_width", cfg.UI.WrapWidth)
	v.Set("ui.browser", cfg.UI.Browser)
	v.Set("ui.browser_args", cfg.UI.BrowserArgs)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func coursesToMaps(courses []domain.Course) []map[string]any {
	out := make([]map[string]any, 0, len(courses))
	for _, c := range courses {
		lectures := make([]map[string]any, 0, len(c.Lectures))
		for _, l := range c.Lectures {
			lectures = append(lectures, map[string]any{
				"id":    l.ID,
				"title": l.Title,
				"order": l.Order,
			})
		}
		out = append(out, map[string]any{
			"id":          c.ID,
			"title":       c.Title,
			"description": c.Description,
			"lectures":    lectures,
		})
	}
	return out
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[1:])
}
