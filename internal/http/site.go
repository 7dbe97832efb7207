package http

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"

	"github.com/goliatone/go-blog/internal/articles"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// DefaultSiteTitle is used when no site title is configured.
const DefaultSiteTitle = "GRPM | Blog"

// ArticleService is the subset of articles.Service the handlers need.
type ArticleService interface {
	List(ctx context.Context) ([]*articles.Article, error)
	Get(ctx context.Context, title string) (*articles.Article, error)
	Render(article *articles.Article) template.HTML
}

// Stylesheet writes the CSS that colours highlighted code.
type Stylesheet interface {
	Stylesheet(w io.Writer) error
}

// Site registers the public blog pages.
type Site struct {
	articles   ArticleService
	stylesheet Stylesheet
	title      string
	baseURL    string
	routes     *routes
	routesErr  error
	views      *views
	logger     interfaces.Logger
}

// SiteOption mutates the Site configuration.
type SiteOption func(*Site)

// NewSite constructs a Site. An ArticleService must be supplied with
// WithArticleService before Register is called.
func NewSite(opts ...SiteOption) *Site {
	site := &Site{
		title:  DefaultSiteTitle,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(site)
		}
	}
	site.routes, site.routesErr = newRoutes(site.baseURL)
	site.views = mustLoadViews(site.viewFuncs())
	return site
}

// WithArticleService wires the article lookup service.
func WithArticleService(service ArticleService) SiteOption {
	return func(site *Site) {
		if site != nil {
			site.articles = service
		}
	}
}

// WithStylesheet wires the highlight stylesheet source. Without one the CSS
// route answers 404.
func WithStylesheet(stylesheet Stylesheet) SiteOption {
	return func(site *Site) {
		if site != nil {
			site.stylesheet = stylesheet
		}
	}
}

// WithSiteTitle overrides the title appended to every page title.
func WithSiteTitle(title string) SiteOption {
	return func(site *Site) {
		if site == nil {
			return
		}
		if trimmed := strings.TrimSpace(title); trimmed != "" {
			site.title = trimmed
		}
	}
}

// WithBaseURL sets the absolute origin used for canonical links, e.g.
// "https://blog.example.com".
func WithBaseURL(baseURL string) SiteOption {
	return func(site *Site) {
		if site != nil {
			site.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
		}
	}
}

// WithLogger overrides the request logger.
func WithLogger(logger interfaces.Logger) SiteOption {
	return func(site *Site) {
		if site != nil && logger != nil {
			site.logger = logger
		}
	}
}

// Register attaches the blog routes to mux.
func (site *Site) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if site == nil {
		return fmt.Errorf("http: site is nil")
	}
	if site.articles == nil {
		return fmt.Errorf("http: article service is required")
	}
	if site.routesErr != nil {
		return site.routesErr
	}

	mux.HandleFunc("GET /{$}", site.handleIndex)
	mux.HandleFunc("GET /article/{title}", site.handleArticle)
	mux.HandleFunc("GET /welcome/about", site.handleAbout)
	mux.HandleFunc("GET /assets/highlight.css", site.handleStylesheet)
	mux.HandleFunc("/", site.handleNotFound)
	return nil
}

// Handler returns a mux with every route registered, wrapped in request
// logging.
func (site *Site) Handler() (http.Handler, error) {
	mux := http.NewServeMux()
	if err := site.Register(mux); err != nil {
		return nil, err
	}
	return logRequests(site.logger, mux), nil
}

func (site *Site) handleIndex(w http.ResponseWriter, r *http.Request) {
	list, err := site.articles.List(r.Context())
	if err != nil {
		site.writeError(w, r, err)
		return
	}
	site.render(w, r, http.StatusOK, "index", site.page("", pageView{Articles: list}))
}

func (site *Site) handleArticle(w http.ResponseWriter, r *http.Request) {
	title := r.PathValue("title")
	article, err := site.articles.Get(r.Context(), title)
	if err != nil {
		site.writeError(w, r, err)
		return
	}
	view := pageView{
		Article:   article,
		Body:      site.articles.Render(article),
		Canonical: site.routes.CanonicalArticle(article.Title),
	}
	site.render(w, r, http.StatusOK, "article", site.page(article.Title, view))
}

func (site *Site) handleAbout(w http.ResponseWriter, r *http.Request) {
	site.render(w, r, http.StatusOK, "about", site.page("About", pageView{}))
}

func (site *Site) handleStylesheet(w http.ResponseWriter, r *http.Request) {
	if site.stylesheet == nil {
		site.handleNotFound(w, r)
		return
	}
	var buf strings.Builder
	if err := site.stylesheet.Stylesheet(&buf); err != nil {
		site.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, buf.String())
}

func (site *Site) handleNotFound(w http.ResponseWriter, r *http.Request) {
	view := pageView{Status: http.StatusNotFound, Message: "Page not found."}
	site.render(w, r, http.StatusNotFound, "error", site.page("Not Found", view))
}

func (site *Site) page(title string, view pageView) pageView {
	view.Title = title
	view.SiteTitle = site.title
	return view
}
