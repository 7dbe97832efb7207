package articles

import (
	"time"
)

// Article is a single blog post: its front matter plus the raw markdown body.
// Content is never replaced by rendered output; rendering produces a new value.
type Article struct {
	Title string
	Date  time.Time
	// Edited is nil when the source file carries no edited key.
	Edited  *time.Time
	Content string
	// Extra holds every other front matter key with its value stringified.
	Extra map[string]string
	// Path is the source file name relative to the article directory.
	Path string
}

// Meta returns the extra metadata value for key and whether it was present.
func (a *Article) Meta(key string) (string, bool) {
	if a == nil || a.Extra == nil {
		return "", false
	}
	value, ok := a.Extra[key]
	return value, ok
}

// WasEdited reports whether the article carries an edited timestamp.
func (a *Article) WasEdited() bool {
	return a != nil && a.Edited != nil
}

// FindByTitle returns the first article whose title equals title exactly.
// The comparison is case-sensitive. When titles repeat, the first match in
// the supplied order wins.
func FindByTitle(articles []*Article, title string) (*Article, bool) {
	for _, article := range articles {
		if article != nil && article.Title == title {
			return article, true
		}
	}
	return nil, false
}
