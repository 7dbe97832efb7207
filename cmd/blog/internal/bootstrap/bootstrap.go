// Package bootstrap loads CLI configuration and builds the blog module.
package bootstrap

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	blog "github.com/goliatone/go-blog"
)

// EnvPrefix is prepended to every environment override, e.g.
// BLOG_ARTICLES_DIR.
const EnvPrefix = "BLOG"

// Options captures where configuration comes from.
type Options struct {
	// ConfigFile is an explicit config path. When empty, blog.yaml in the
	// working directory is used if present.
	ConfigFile string
	// EnvFile is loaded into the environment before reading config. Missing
	// files are ignored.
	EnvFile string
	// Overrides are applied last, keyed like the config file
	// ("articles.dir").
	Overrides map[string]any
}

// LoadConfig merges defaults, the config file, environment variables and
// overrides, then validates the result.
func LoadConfig(opts Options) (blog.Config, error) {
	envFile := strings.TrimSpace(opts.EnvFile)
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return blog.Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v, blog.DefaultConfig())

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("blog")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("logging.focus"); err != nil {
		return blog.Config{}, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && opts.ConfigFile == "":
		case errors.Is(err, fs.ErrNotExist):
			return blog.Config{}, fmt.Errorf("config file %s not found: %w", opts.ConfigFile, err)
		default:
			return blog.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	for key, value := range opts.Overrides {
		v.Set(key, value)
	}

	var cfg blog.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return blog.Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return blog.Config{}, err
	}
	return cfg, nil
}

// BuildModule loads configuration and constructs the blog module.
func BuildModule(opts Options, moduleOpts ...blog.Option) (*blog.Module, error) {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}
	module, err := blog.New(cfg, moduleOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise blog module: %w", err)
	}
	return module, nil
}

// setDefaults registers every key so AutomaticEnv can resolve it.
func setDefaults(v *viper.Viper, cfg blog.Config) {
	v.SetDefault("site.title", cfg.Site.Title)
	v.SetDefault("site.base_url", cfg.Site.BaseURL)
	v.SetDefault("articles.dir", cfg.Articles.Dir)
	v.SetDefault("articles.pattern", cfg.Articles.Pattern)
	v.SetDefault("articles.location", cfg.Articles.Location)
	v.SetDefault("markdown.style", cfg.Markdown.Style)
	v.SetDefault("markdown.line_numbers", cfg.Markdown.LineNumbers)
	v.SetDefault("http.addr", cfg.HTTP.Addr)
	v.SetDefault("http.read_header_timeout", cfg.HTTP.ReadHeaderTimeout)
	v.SetDefault("http.shutdown_timeout", cfg.HTTP.ShutdownTimeout)
	v.SetDefault("logging.provider", cfg.Logging.Provider)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.add_source", cfg.Logging.AddSource)
	if len(cfg.Logging.Focus) > 0 {
		v.SetDefault("logging.focus", cfg.Logging.Focus)
	}
	v.SetDefault("features.logger", cfg.Features.Logger)
}
