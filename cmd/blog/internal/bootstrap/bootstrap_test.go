package bootstrap

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	blog "github.com/goliatone/go-blog"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig(Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(blog.DefaultConfig(), cfg); diff != "" {
		t.Fatalf("unexpected config (-want +got):\n%s", diff)
	}
}

func TestLoadConfigReadsYAMLFromWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, "blog.yaml"), `
site:
  title: Field Notes
  base_url: https://notes.example.com
articles:
  dir: posts
  location: Europe/Madrid
http:
  addr: ":8080"
  read_header_timeout: 2s
logging:
  focus: [blog.http]
features:
  logger: true
`)

	cfg, err := LoadConfig(Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := blog.DefaultConfig()
	want.Site.Title = "Field Notes"
	want.Site.BaseURL = "https://notes.example.com"
	want.Articles.Dir = "posts"
	want.Articles.Location = "Europe/Madrid"
	want.HTTP.Addr = ":8080"
	want.HTTP.ReadHeaderTimeout = 2 * time.Second
	want.Logging.Focus = []string{"blog.http"}
	want.Features.Logger = true
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("unexpected config (-want +got):\n%s", diff)
	}
}

func TestLoadConfigEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, "blog.yaml"), "site:\n  title: From File\n")
	t.Setenv("BLOG_SITE_TITLE", "From Env")
	t.Setenv("BLOG_HTTP_SHUTDOWN_TIMEOUT", "3s")

	cfg, err := LoadConfig(Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Site.Title != "From Env" {
		t.Fatalf("expected env title, got %q", cfg.Site.Title)
	}
	if cfg.HTTP.ShutdownTimeout != 3*time.Second {
		t.Fatalf("expected 3s shutdown timeout, got %s", cfg.HTTP.ShutdownTimeout)
	}
}

func TestLoadConfigReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("BLOG_ARTICLES_PATTERN", "")
	os.Unsetenv("BLOG_ARTICLES_PATTERN")
	writeFile(t, filepath.Join(dir, ".env"), "BLOG_ARTICLES_PATTERN=*.markdown\n")

	cfg, err := LoadConfig(Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Articles.Pattern != "*.markdown" {
		t.Fatalf("expected pattern from .env, got %q", cfg.Articles.Pattern)
	}
}

func TestLoadConfigOverridesWin(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("BLOG_ARTICLES_DIR", "from-env")

	cfg, err := LoadConfig(Options{Overrides: map[string]any{"articles.dir": "from-flag"}})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Articles.Dir != "from-flag" {
		t.Fatalf("expected override, got %q", cfg.Articles.Dir)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())

	if _, err := LoadConfig(Options{ConfigFile: "missing.yaml"}); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoadConfigValidates(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, "markdown:\n  style: no-such-style\n")

	_, err := LoadConfig(Options{ConfigFile: path})
	if !errors.Is(err, blog.ErrMarkdownStyleUnknown) {
		t.Fatalf("expected ErrMarkdownStyleUnknown, got %v", err)
	}
}

func TestBuildModule(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	module, err := BuildModule(Options{Overrides: map[string]any{"articles.dir": dir}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if module.Config().Articles.Dir != dir {
		t.Fatalf("expected articles dir %q, got %q", dir, module.Config().Articles.Dir)
	}
}
