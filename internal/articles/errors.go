package articles

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

const (
	articleIOFailedCode    = "ARTICLE_IO_FAILED"
	articleParseFailedCode = "ARTICLE_PARSE_FAILED"
	articleNotFoundCode    = "ARTICLE_NOT_FOUND"
)

var (
	ErrNoSeparator        = errors.New("articles: no blank line between metadata and content")
	ErrMetadataNotMapping = errors.New("articles: metadata is not a key/value mapping")
	ErrDateMissing        = errors.New("articles: date is required")
	ErrDateInvalid        = errors.New("articles: date could not be parsed")
	ErrEditedInvalid      = errors.New("articles: edited could not be parsed")
)

// IOError reports an unreadable article directory or file.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("articles: read %s: %v", e.Path, causeOf(e.Err))
}

func (e *IOError) Unwrap() error { return e.Err }

// ParseError reports an article file whose metadata block is missing,
// malformed, or lacks a usable date.
type ParseError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("articles: parse %s: %v", e.Path, causeOf(e.Err))
	}
	return fmt.Sprintf("articles: parse %s: %s: %v", e.Path, e.Reason, causeOf(e.Err))
}

func (e *ParseError) Unwrap() error { return e.Err }

// NotFoundError reports a title lookup with no matching article.
type NotFoundError struct {
	Title string
	Err   error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("article %q not found", e.Title)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a lookup miss.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

// newIOError keeps the filesystem error reachable through errors.Is while
// tagging the chain with the go-errors internal category.
func newIOError(path string, err error) error {
	return &IOError{
		Path: path,
		Err: goerrors.Wrap(err, goerrors.CategoryInternal, "article source unreadable").
			WithTextCode(articleIOFailedCode).
			WithMetadata(map[string]any{"path": path}),
	}
}

func newParseError(path, reason string, err error) error {
	return &ParseError{
		Path:   path,
		Reason: reason,
		Err: goerrors.Wrap(err, goerrors.CategoryBadInput, "article source malformed").
			WithTextCode(articleParseFailedCode).
			WithMetadata(map[string]any{"path": path, "reason": reason}),
	}
}

func newNotFoundError(title string) error {
	return &NotFoundError{
		Title: title,
		Err: goerrors.New("article not found", goerrors.CategoryNotFound).
			WithTextCode(articleNotFoundCode).
			WithMetadata(map[string]any{"title": title}),
	}
}

// causeOf strips the go-errors envelope so messages read like the underlying
// failure instead of repeating category and code.
func causeOf(err error) error {
	var categorised *goerrors.Error
	if errors.As(err, &categorised) && categorised.Source != nil {
		return categorised.Source
	}
	return err
}
