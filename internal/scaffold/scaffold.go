// Package scaffold writes new article source files in the format the
// article loader reads back.
package scaffold

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-slug"
	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

const (
	scaffoldValidationCode = "SCAFFOLD_VALIDATION_FAILED"
	scaffoldExistsCode     = "SCAFFOLD_ARTICLE_EXISTS"
	scaffoldWriteCode      = "SCAFFOLD_WRITE_FAILED"

	extension   = ".md"
	maxTitleLen = 200
)

// ErrArticleExists is returned instead of overwriting an existing file.
var ErrArticleExists = errors.New("scaffold: article file already exists")

var reservedKeys = []string{"title", "date", "edited"}

// Input describes the article to create.
type Input struct {
	Title string `json:"title"`
	// Date defaults to the scaffolder clock when zero.
	Date time.Time `json:"date"`
	// Extra becomes additional metadata keys, written in key order.
	Extra map[string]string `json:"extra"`
	// Body is written after the blank separator line.
	Body string `json:"body"`
}

// Validate checks the title and rejects extra keys the loader reserves.
func (in Input) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title,
			validation.Required,
			validation.Length(1, maxTitleLen),
			validation.By(func(value any) error {
				title, _ := value.(string)
				if strings.ContainsAny(title, "\r\n") {
					return validation.NewError("blog.scaffold.title_multiline", "title must be a single line")
				}
				if name, err := slug.Normalize(title); err != nil || name == "" {
					return validation.NewError("blog.scaffold.title_unsluggable", "title must contain letters or digits")
				}
				return nil
			}),
		),
		validation.Field(&in.Extra, validation.By(func(value any) error {
			extra, _ := value.(map[string]string)
			for key := range extra {
				if slices.Contains(reservedKeys, strings.ToLower(strings.TrimSpace(key))) {
					return validation.NewError("blog.scaffold.extra_reserved", fmt.Sprintf("%q is set from the input fields", key))
				}
				if strings.TrimSpace(key) == "" {
					return validation.NewError("blog.scaffold.extra_blank", "metadata keys must not be blank")
				}
			}
			return nil
		})),
	)
}

// Scaffolder creates article files inside one directory.
type Scaffolder struct {
	dir    string
	clock  func() time.Time
	logger interfaces.Logger
}

// Option configures a Scaffolder.
type Option func(*Scaffolder)

// WithClock overrides the time source used for a zero Input.Date.
func WithClock(clock func() time.Time) Option {
	return func(s *Scaffolder) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger overrides the scaffolder logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Scaffolder) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New returns a Scaffolder writing into dir.
func New(dir string, opts ...Option) *Scaffolder {
	s := &Scaffolder{
		dir:    dir,
		clock:  time.Now,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Create writes a new article with default options.
func Create(ctx context.Context, dir string, in Input) (string, error) {
	return New(dir).Create(ctx, in)
}

// Create validates in, derives the file name from the slugged title and
// writes the file atomically. It returns the path written.
func (s *Scaffolder) Create(ctx context.Context, in Input) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := in.Validate(); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryValidation, "article input invalid").
			WithTextCode(scaffoldValidationCode)
	}
	if in.Date.IsZero() {
		in.Date = s.clock()
	}

	name, err := FileName(in.Title)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryValidation, "article input invalid").
			WithTextCode(scaffoldValidationCode)
	}
	target := filepath.Join(s.dir, name)
	logger := logging.WithArticle(s.logger.WithContext(ctx), name, in.Title)

	if _, err := os.Stat(target); err == nil {
		return "", goerrors.Wrap(ErrArticleExists, goerrors.CategoryConflict, "article already exists").
			WithTextCode(scaffoldExistsCode).
			WithMetadata(map[string]any{"path": target})
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", s.writeFailed(target, err)
	}

	source, err := Render(in)
	if err != nil {
		return "", s.writeFailed(target, err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", s.writeFailed(target, err)
	}
	if err := atomic.WriteFile(target, bytes.NewReader(source)); err != nil {
		return "", s.writeFailed(target, err)
	}

	logger.Info("scaffold.article.created")
	return target, nil
}

func (s *Scaffolder) writeFailed(target string, err error) error {
	s.logger.Error("scaffold.article.write_failed", "path", target, "error", err)
	return goerrors.Wrap(err, goerrors.CategoryInternal, "article file not written").
		WithTextCode(scaffoldWriteCode).
		WithMetadata(map[string]any{"path": target})
}

// FileName returns the slugged file name for title, e.g. "hello-world.md".
func FileName(title string) (string, error) {
	name, err := slug.Normalize(title)
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", fmt.Errorf("scaffold: title %q has no usable characters", title)
	}
	return name + extension, nil
}

// Render produces the file contents: the YAML metadata block, one blank line,
// then the body. Keys are written as title, date, then extras in key order.
func Render(in Input) ([]byte, error) {
	meta := &yaml.Node{Kind: yaml.MappingNode}
	if err := appendPair(meta, "title", in.Title); err != nil {
		return nil, err
	}
	if err := appendPair(meta, "date", in.Date); err != nil {
		return nil, err
	}
	for _, key := range slices.Sorted(maps.Keys(in.Extra)) {
		if err := appendPair(meta, strings.TrimSpace(key), in.Extra[key]); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	if err := encoder.Encode(meta); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}

	buf.WriteString("\n")
	buf.WriteString(in.Body)
	if in.Body != "" && !strings.HasSuffix(in.Body, "\n") {
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

func appendPair(mapping *yaml.Node, key string, value any) error {
	var valueNode yaml.Node
	if err := valueNode.Encode(value); err != nil {
		return fmt.Errorf("scaffold: encode %s: %w", key, err)
	}
	// Block scalars may hold blank lines, which would end the metadata early.
	if text, ok := value.(string); ok && strings.Contains(text, "\n") {
		valueNode.Style = yaml.DoubleQuotedStyle
	}
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&valueNode,
	)
	return nil
}
