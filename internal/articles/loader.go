package articles

import (
	"context"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// DefaultPattern matches article source files inside the article directory.
const DefaultPattern = "*.md"

// LoaderConfig configures how article files are discovered.
type LoaderConfig struct {
	// Pattern limits discovered files to those matching the glob (defaults to "*.md").
	Pattern string
	// Location resolves timestamps that carry no zone. Defaults to UTC.
	Location *time.Location
	Logger   interfaces.Logger
}

// Loader turns a flat directory of article files into a date-ordered slice.
// It keeps no state between calls and is safe for concurrent use.
type Loader struct {
	fs       fs.FS
	pattern  string
	location *time.Location
	logger   interfaces.Logger
}

// NewLoader constructs a Loader reading from the root of filesystem.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	pattern := cfg.Pattern
	if strings.TrimSpace(pattern) == "" {
		pattern = DefaultPattern
	}
	location := cfg.Location
	if location == nil {
		location = time.UTC
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}

	return &Loader{
		fs:       filesystem,
		pattern:  pattern,
		location: location,
		logger:   logger,
	}
}

// LoadArticles reads every article under dir using the default configuration.
func LoadArticles(ctx context.Context, dir string) ([]*Article, error) {
	return NewLoader(os.DirFS(dir), LoaderConfig{}).Load(ctx)
}

// Load enumerates matching files, parses each one, and returns the articles
// sorted most recent first. Any unreadable or malformed file fails the whole
// load. Articles sharing a date keep file name order.
func (l *Loader) Load(ctx context.Context) ([]*Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := fs.ReadDir(l.fs, ".")
	if err != nil {
		return nil, newIOError(".", err)
	}

	articles := make([]*Article, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !l.matches(entry.Name()) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		article, err := l.LoadFile(entry.Name())
		if err != nil {
			l.logger.WithContext(ctx).Error("articles.load.failed", "path", entry.Name(), "error", err)
			return nil, err
		}
		articles = append(articles, article)
	}

	SortByDate(articles)

	l.logger.WithContext(ctx).Debug("articles.loaded", "count", len(articles))
	return articles, nil
}

// LoadFile reads and parses a single article file relative to the loader root.
func (l *Loader) LoadFile(name string) (*Article, error) {
	data, err := fs.ReadFile(l.fs, name)
	if err != nil {
		return nil, newIOError(name, err)
	}
	return ParseArticle(name, data, l.location)
}

func (l *Loader) matches(name string) bool {
	match, err := path.Match(l.pattern, name)
	if err != nil {
		return false
	}
	return match
}

// SortByDate orders articles most recent first. The sort is stable so equal
// dates keep their incoming order.
func SortByDate(articles []*Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].Date.After(articles[j].Date)
	})
}
