package blog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/goliatone/go-blog/internal/articles"
	bloghttp "github.com/goliatone/go-blog/internal/http"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/logging/console"
	"github.com/goliatone/go-blog/internal/logging/gologger"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/scaffold"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Article is a parsed article source file.
type Article = articles.Article

// NotFoundError reports a title lookup without a match.
type NotFoundError = articles.NotFoundError

// ParseError reports a malformed article source file.
type ParseError = articles.ParseError

// IOError reports an unreadable article directory or file.
type IOError = articles.IOError

// ScaffoldInput describes an article to create with Module.NewArticle.
type ScaffoldInput = scaffold.Input

// IsNotFound reports whether err is a title lookup miss.
func IsNotFound(err error) bool {
	return articles.IsNotFound(err)
}

// Module wires the loader, renderer, web handlers and scaffolder from one
// Config.
type Module struct {
	cfg        Config
	provider   interfaces.LoggerProvider
	renderer   *markdown.Renderer
	service    *articles.Service
	site       *bloghttp.Site
	scaffolder *scaffold.Scaffolder
}

// Option overrides collaborators New would otherwise build from Config.
type Option func(*options)

type options struct {
	provider interfaces.LoggerProvider
	articles fs.FS
}

// WithLoggerProvider supplies the logger provider, bypassing
// Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

// WithArticlesFS reads articles from fsys instead of Config.Articles.Dir.
// The scaffolder still writes to Config.Articles.Dir.
func WithArticlesFS(fsys fs.FS) Option {
	return func(o *options) {
		o.articles = fsys
	}
}

// New validates cfg and builds a Module.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	provider := o.provider
	if provider == nil {
		var err error
		if provider, err = newLoggerProvider(cfg); err != nil {
			return nil, err
		}
	}

	location, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	fsys := o.articles
	if fsys == nil {
		fsys = os.DirFS(cfg.Articles.Dir)
	}

	renderer := markdown.NewRenderer(markdown.Options{
		Style:       cfg.Markdown.Style,
		LineNumbers: cfg.Markdown.LineNumbers,
		Logger:      logging.MarkdownLogger(provider),
	})

	articlesLogger := logging.ArticlesLogger(provider)
	loader := articles.NewLoader(fsys, articles.LoaderConfig{
		Pattern:  cfg.Articles.Pattern,
		Location: location,
		Logger:   articlesLogger,
	})
	service := articles.NewService(loader, renderer, articles.WithLogger(articlesLogger))

	site := bloghttp.NewSite(
		bloghttp.WithArticleService(service),
		bloghttp.WithStylesheet(renderer),
		bloghttp.WithSiteTitle(cfg.Site.Title),
		bloghttp.WithBaseURL(cfg.Site.BaseURL),
		bloghttp.WithLogger(logging.HTTPLogger(provider)),
	)

	return &Module{
		cfg:        cfg,
		provider:   provider,
		renderer:   renderer,
		service:    service,
		site:       site,
		scaffolder: scaffold.New(cfg.Articles.Dir, scaffold.WithLogger(logging.ScaffoldLogger(provider))),
	}, nil
}

// Config returns the configuration the module was built from.
func (m *Module) Config() Config {
	return m.cfg
}

// Logger returns a logger for module, e.g. "blog.cli".
func (m *Module) Logger(module string) interfaces.Logger {
	return logging.ModuleLogger(m.provider, module)
}

// Articles returns every article, most recent first.
func (m *Module) Articles(ctx context.Context) ([]*Article, error) {
	return m.service.List(ctx)
}

// Article returns the first article titled exactly title.
func (m *Module) Article(ctx context.Context, title string) (*Article, error) {
	return m.service.Get(ctx, title)
}

// RenderMarkdown converts raw markdown into sanitized HTML.
func (m *Module) RenderMarkdown(raw string) string {
	return string(m.renderer.Render(raw))
}

// RenderArticle converts the body of article into sanitized HTML.
func (m *Module) RenderArticle(article *Article) string {
	return string(m.service.Render(article))
}

// Handler returns the HTTP handler serving every blog route.
func (m *Module) Handler() (http.Handler, error) {
	return m.site.Handler()
}

// NewArticle writes a new article source file and returns its path.
func (m *Module) NewArticle(ctx context.Context, in ScaffoldInput) (string, error) {
	return m.scaffolder.Create(ctx, in)
}

// Serve listens on Config.HTTP.Addr until ctx is cancelled, then shuts the
// server down gracefully.
func (m *Module) Serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", m.cfg.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("blog: listen on %s: %w", m.cfg.HTTP.Addr, err)
	}
	return m.ServeListener(ctx, listener)
}

// ServeListener is Serve on an existing listener.
func (m *Module) ServeListener(ctx context.Context, listener net.Listener) error {
	handler, err := m.Handler()
	if err != nil {
		return err
	}
	logger := logging.HTTPLogger(m.provider)

	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: m.cfg.HTTP.ReadHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http.server.started", "addr", listener.Addr().String())
		errCh <- server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := m.cfg.HTTP.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	logger.Info("http.server.stopping")
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("blog: shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stylesheet returns the highlight CSS for the configured style.
func (m *Module) Stylesheet() (string, error) {
	var buf strings.Builder
	if err := m.renderer.Stylesheet(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// newLoggerProvider picks the provider named by cfg.Logging. With the logger
// feature off every entry is dropped.
func newLoggerProvider(cfg Config) (interfaces.LoggerProvider, error) {
	if !cfg.Features.Logger {
		return nil, nil
	}
	switch cfg.LoggingProvider() {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
			Focus:     cfg.Logging.Focus,
		})
		if err != nil {
			return nil, err
		}
		return provider, nil
	default:
		level, err := console.ParseLevel(cfg.Logging.Level)
		if err != nil {
			return nil, err
		}
		return console.NewProvider(console.Options{MinLevel: &level}), nil
	}
}
