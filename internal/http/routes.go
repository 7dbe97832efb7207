package http

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"
)

const (
	routeGroup      = "frontend"
	routeHome       = "home"
	routeArticle    = "article"
	routeAbout      = "about"
	routeStylesheet = "stylesheet"

	titleParam = "title"
	// titlePlaceholder stands in for the title while the article route is
	// built once. Letters only, so no encoder rewrites it.
	titlePlaceholder = "articletitleplaceholder"
)

// routePaths mirrors the patterns registered on the mux.
var routePaths = map[string]string{
	routeHome:       "/",
	routeArticle:    "/article/:" + titleParam,
	routeAbout:      "/welcome/about",
	routeStylesheet: "/assets/highlight.css",
}

// routes resolves page links through a go-urlkit frontend group whose base
// URL is the site origin. In-page links keep only the path, canonical links
// keep the origin.
type routes struct {
	baseURL string

	home       string
	about      string
	stylesheet string

	articlePrefix, articleSuffix                 string
	absoluteArticlePrefix, absoluteArticleSuffix string
}

func newRoutes(baseURL string) (*routes, error) {
	var origin string
	if baseURL != "" {
		parsed, err := url.Parse(baseURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return nil, fmt.Errorf("http: base URL %q must be an absolute URL", baseURL)
		}
		origin = parsed.Scheme + "://" + parsed.Host
	}

	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    routeGroup,
				BaseURL: baseURL,
				Paths:   routePaths,
			},
		},
	})
	group, err := lookupGroup(manager, routeGroup)
	if err != nil {
		return nil, err
	}

	r := &routes{baseURL: baseURL}
	for name, target := range map[string]*string{
		routeHome:       &r.home,
		routeAbout:      &r.about,
		routeStylesheet: &r.stylesheet,
	} {
		built, err := buildRoute(group, name, nil)
		if err != nil {
			return nil, err
		}
		*target = pathOf(built)
	}

	article, err := buildRoute(group, routeArticle, map[string]any{titleParam: titlePlaceholder})
	if err != nil {
		return nil, err
	}
	var found bool
	r.articlePrefix, r.articleSuffix, found = strings.Cut(pathOf(article), titlePlaceholder)
	if !found {
		return nil, fmt.Errorf("http: article route %q lost its title parameter", article)
	}
	r.absoluteArticlePrefix, r.absoluteArticleSuffix, _ = strings.Cut(origin+pathOf(article), titlePlaceholder)
	return r, nil
}

// Article returns the site-relative link for title. The title is path
// escaped here so "/" and spaces survive as %2F and %20.
func (r *routes) Article(title string) string {
	return r.articlePrefix + url.PathEscape(title) + r.articleSuffix
}

// CanonicalArticle returns the absolute link for title, or "" when the site
// has no base URL.
func (r *routes) CanonicalArticle(title string) string {
	if r.baseURL == "" {
		return ""
	}
	return r.absoluteArticlePrefix + url.PathEscape(title) + r.absoluteArticleSuffix
}

func buildRoute(group *urlkit.Group, name string, params map[string]any) (string, error) {
	builder, err := safeBuilder(group, name)
	if err != nil {
		return "", err
	}
	for key, val := range params {
		builder.WithParam(key, val)
	}
	built, err := builder.Build()
	if err != nil {
		return "", fmt.Errorf("http: build route %q: %w", name, err)
	}
	return built, nil
}

// pathOf drops any scheme and host from a built URL and cleans the rest.
func pathOf(built string) string {
	escaped := built
	if parsed, err := url.Parse(built); err == nil {
		escaped = parsed.EscapedPath()
	}
	return path.Clean("/" + escaped)
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("http: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	return group, err
}

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	if group == nil {
		return nil, fmt.Errorf("http: route group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("http: route %q not found: %v", route, rec)
		}
	}()
	builder = group.Builder(route)
	return builder, err
}
