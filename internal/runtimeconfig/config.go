package runtimeconfig

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/goliatone/go-blog/internal/markdown"
)

var ErrSiteTitleRequired = errors.New("blog config: site title is required")
var ErrSiteBaseURLInvalid = errors.New("blog config: site base URL must be absolute")
var ErrArticlesDirRequired = errors.New("blog config: articles directory is required")
var ErrArticlesPatternInvalid = errors.New("blog config: articles pattern is not a valid glob")
var ErrArticlesLocationInvalid = errors.New("blog config: articles location is not a known time zone")
var ErrMarkdownStyleUnknown = errors.New("blog config: highlight style is not registered")
var ErrHTTPAddrRequired = errors.New("blog config: http address is required")
var ErrHTTPTimeoutInvalid = errors.New("blog config: http timeouts must be zero or positive")
var ErrLoggingProviderRequired = errors.New("blog config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("blog config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("blog config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("blog config: logging format is invalid")

// Config is the full runtime configuration. Every field has a usable default
// from DefaultConfig, so a config file only needs to list overrides.
type Config struct {
	Site     SiteConfig
	Articles ArticlesConfig
	Markdown MarkdownConfig
	HTTP     HTTPConfig
	Logging  LoggingConfig
	Features Features
}

// SiteConfig holds presentation settings shared by every page.
type SiteConfig struct {
	// Title is appended to page titles as "<article> | <Title>".
	Title   string
	BaseURL string `mapstructure:"base_url"`
}

// ArticlesConfig locates article sources.
type ArticlesConfig struct {
	Dir     string
	Pattern string
	// Location is an IANA zone name used for timestamps without an offset.
	Location string
}

// MarkdownConfig tunes the renderer.
type MarkdownConfig struct {
	Style       string
	LineNumbers bool `mapstructure:"line_numbers"`
}

// HTTPConfig configures the web server.
type HTTPConfig struct {
	Addr              string
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool `mapstructure:"add_source"`
	Focus     []string
}

// Features toggles optional behaviour.
type Features struct {
	Logger bool
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Site: SiteConfig{
			Title: "GRPM | Blog",
		},
		Articles: ArticlesConfig{
			Dir:      "articles",
			Pattern:  "*.md",
			Location: "UTC",
		},
		Markdown: MarkdownConfig{
			Style: markdown.DefaultStyle,
		},
		HTTP: HTTPConfig{
			Addr:              ":3000",
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Site.Title) == "" {
		return ErrSiteTitleRequired
	}
	if base := strings.TrimSpace(cfg.Site.BaseURL); base != "" {
		parsed, err := url.Parse(base)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%w: %s", ErrSiteBaseURLInvalid, base)
		}
	}
	if strings.TrimSpace(cfg.Articles.Dir) == "" {
		return ErrArticlesDirRequired
	}
	if pattern := strings.TrimSpace(cfg.Articles.Pattern); pattern != "" {
		if _, err := path.Match(pattern, ""); err != nil {
			return fmt.Errorf("%w: %s", ErrArticlesPatternInvalid, pattern)
		}
		// Only top-level file names are enumerated, so a separator never matches.
		if strings.Contains(pattern, "/") {
			return fmt.Errorf("%w: %s must match file names, not paths", ErrArticlesPatternInvalid, pattern)
		}
	}
	if _, err := cfg.Location(); err != nil {
		return err
	}
	if style := strings.TrimSpace(cfg.Markdown.Style); style != "" && !markdown.StyleExists(style) {
		return fmt.Errorf("%w: %s", ErrMarkdownStyleUnknown, style)
	}
	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		return ErrHTTPAddrRequired
	}
	if cfg.HTTP.ReadHeaderTimeout < 0 {
		return fmt.Errorf("%w: read header", ErrHTTPTimeoutInvalid)
	}
	if cfg.HTTP.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: shutdown", ErrHTTPTimeoutInvalid)
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

// Location resolves Articles.Location, treating an empty value as UTC.
func (cfg Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(cfg.Articles.Location)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrArticlesLocationInvalid, name)
	}
	return loc, nil
}

// LoggingProvider returns the normalised provider name.
func (cfg Config) LoggingProvider() string {
	return normalizeProvider(cfg.Logging.Provider)
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
