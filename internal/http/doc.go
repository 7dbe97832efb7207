// Package http serves the blog over net/http.
//
// Routes are registered on a caller supplied *http.ServeMux:
//   - GET /                      article listing, most recent first
//   - GET /article/{title}       one article, looked up by exact title
//   - GET /welcome/about         static about page
//   - GET /assets/highlight.css  stylesheet for highlighted code blocks
//
// Handlers reload articles on every request, so edits on disk show up
// without a restart.
package http
