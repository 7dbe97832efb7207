package http

import (
	"embed"
	"html/template"
	"time"

	"github.com/goliatone/go-blog/internal/articles"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"index", "article", "about", "error"}

type pageView struct {
	Title     string
	SiteTitle string
	Canonical string
	Articles  []*articles.Article
	Article   *articles.Article
	Body      template.HTML
	Status    int
	Message   string
}

// PageTitle renders as "<title> | <site title>", or the site title alone.
func (v pageView) PageTitle() string {
	if v.Title == "" {
		return v.SiteTitle
	}
	return v.Title + " | " + v.SiteTitle
}

type views struct {
	pages map[string]*template.Template
}

// viewFuncs exposes the site's routes to the templates. The closures read
// site.routes at render time, and Register refuses to serve without them.
func (site *Site) viewFuncs() template.FuncMap {
	return template.FuncMap{
		"articleURL":    func(title string) string { return site.routes.Article(title) },
		"homeURL":       func() string { return site.routes.home },
		"aboutURL":      func() string { return site.routes.about },
		"stylesheetURL": func() string { return site.routes.stylesheet },
		"displayDate":   displayDate,
		"isoDate":       isoDate,
	}
}

// mustLoadViews parses every page together with the shared layout. The
// templates are embedded, so a failure here is a build defect.
func mustLoadViews(funcs template.FuncMap) *views {
	v := &views{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		v.pages[name] = template.Must(template.New(name).Funcs(funcs).ParseFS(
			templateFS, "templates/layout.html", "templates/"+name+".html",
		))
	}
	return v
}

func displayDate(ts time.Time) string {
	return ts.Format("January 2, 2006")
}

func isoDate(ts time.Time) string {
	return ts.Format(time.RFC3339)
}
