package http

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/goliatone/go-blog/internal/articles"
)

type errorView struct {
	Status  int
	Title   string
	Message string
}

func (site *Site) render(w http.ResponseWriter, r *http.Request, status int, page string, view pageView) {
	tmpl, ok := site.views.pages[page]
	if !ok {
		site.logger.WithContext(r.Context()).Error("http.render.missing_view", "view", page)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", view); err != nil {
		site.logger.WithContext(r.Context()).Error("http.render.failed", "view", page, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (site *Site) writeError(w http.ResponseWriter, r *http.Request, err error) {
	mapped := mapError(err)
	if mapped.Status >= http.StatusInternalServerError {
		site.logger.WithContext(r.Context()).Error("http.request.failed", "path", r.URL.Path, "error", err)
	}
	view := pageView{Status: mapped.Status, Message: mapped.Message}
	site.render(w, r, mapped.Status, "error", site.page(mapped.Title, view))
}

// mapError turns a lookup miss into 404. Everything else, load and parse
// failures included, is a 500 whose details stay in the log.
func mapError(err error) errorView {
	var notFound *articles.NotFoundError
	if errors.As(err, &notFound) {
		return errorView{
			Status:  http.StatusNotFound,
			Title:   "Not Found",
			Message: "No article is titled “" + notFound.Title + "”.",
		}
	}
	return errorView{
		Status:  http.StatusInternalServerError,
		Title:   "Error",
		Message: "Something went wrong while loading articles.",
	}
}
