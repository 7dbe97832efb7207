package articles

import (
	"context"
	"html/template"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Service is the entry point the web layer calls into. Every call reloads the
// article directory from scratch; nothing is cached between calls.
type Service struct {
	loader   *Loader
	renderer interfaces.MarkdownRenderer
	logger   interfaces.Logger
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*Service)

// WithLogger overrides the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService wires a loader and a renderer together.
func NewService(loader *Loader, renderer interfaces.MarkdownRenderer, opts ...ServiceOption) *Service {
	svc := &Service{
		loader:   loader,
		renderer: renderer,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// List returns every article, most recent first.
func (s *Service) List(ctx context.Context) ([]*Article, error) {
	return s.loader.Load(ctx)
}

// Get returns the first article titled exactly title. A miss is reported as
// *NotFoundError so the boundary can turn it into a 404.
func (s *Service) Get(ctx context.Context, title string) (*Article, error) {
	list, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	article, ok := FindByTitle(list, title)
	if !ok {
		s.logger.WithContext(ctx).Debug("articles.lookup.miss", "title", title)
		return nil, newNotFoundError(title)
	}
	return article, nil
}

// Render converts the article body to HTML. The article is left untouched.
func (s *Service) Render(article *Article) template.HTML {
	if article == nil {
		return ""
	}
	return s.renderer.Render(article.Content)
}
