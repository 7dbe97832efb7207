package articles

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/araddon/dateparse"
	"gopkg.in/yaml.v3"
)

const (
	keyTitle  = "title"
	keyDate   = "date"
	keyEdited = "edited"

	metadataSeparator    = "\n\n"
	frontMatterDelimiter = "---"
)

var delimitedFormats = []*frontmatter.Format{
	frontmatter.NewFormat(frontMatterDelimiter, frontMatterDelimiter, yaml.Unmarshal),
}

// ParseArticle builds an Article from the raw bytes of one source file.
//
// The metadata block runs up to the first blank line and the body is
// everything after it. When that block is fenced by "---" lines it is read as
// delimited front matter, so a "---" rule later in the body never moves the
// split. Timestamps are resolved in loc, UTC when nil.
func ParseArticle(path string, source []byte, loc *time.Location) (*Article, error) {
	if loc == nil {
		loc = time.UTC
	}
	text := strings.ReplaceAll(string(source), "\r\n", "\n")

	meta, body, err := splitSource(path, text)
	if err != nil {
		return nil, err
	}
	return buildArticle(path, meta, body, loc)
}

func splitSource(path, text string) (map[string]any, string, error) {
	head, body, found := strings.Cut(text, metadataSeparator)
	if isDelimited(head) {
		var meta map[string]any
		rest, err := frontmatter.MustParse(strings.NewReader(text), &meta, delimitedFormats...)
		if err != nil {
			return nil, "", newParseError(path, "front matter", err)
		}
		return meta, strings.TrimLeft(string(rest), "\n"), nil
	}
	if !found {
		return nil, "", newParseError(path, "split", ErrNoSeparator)
	}

	meta, err := decodeMetadata(head)
	if err != nil {
		return nil, "", newParseError(path, "metadata", err)
	}
	return meta, body, nil
}

// isDelimited reports whether head both opens and closes with a "---" line.
// A lone opening marker is a YAML document start and the block still ends at
// the first blank line.
func isDelimited(head string) bool {
	lines := strings.Split(head, "\n")
	if len(lines) < 2 || strings.TrimSpace(lines[0]) != frontMatterDelimiter {
		return false
	}
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == frontMatterDelimiter {
			return true
		}
	}
	return false
}

func decodeMetadata(head string) (map[string]any, error) {
	var doc any
	if err := yaml.Unmarshal([]byte(head), &doc); err != nil {
		return nil, err
	}
	switch typed := doc.(type) {
	case map[string]any:
		return typed, nil
	case nil:
		return map[string]any{}, nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrMetadataNotMapping, doc)
	}
}

func buildArticle(path string, meta map[string]any, body string, loc *time.Location) (*Article, error) {
	rawDate, ok := meta[keyDate]
	if !ok || rawDate == nil {
		return nil, newParseError(path, keyDate, ErrDateMissing)
	}
	date, err := parseTimestamp(rawDate, loc)
	if err != nil {
		return nil, newParseError(path, keyDate, fmt.Errorf("%w: %v", ErrDateInvalid, err))
	}

	article := &Article{
		Title:   stringify(meta[keyTitle]),
		Date:    date,
		Content: body,
		Extra:   map[string]string{},
		Path:    path,
	}

	if rawEdited, ok := meta[keyEdited]; ok && rawEdited != nil {
		edited, err := parseTimestamp(rawEdited, loc)
		if err != nil {
			return nil, newParseError(path, keyEdited, fmt.Errorf("%w: %v", ErrEditedInvalid, err))
		}
		article.Edited = &edited
	}

	for key, value := range meta {
		switch key {
		case keyTitle, keyDate, keyEdited:
			continue
		}
		article.Extra[key] = stringify(value)
	}

	return article, nil
}

// parseTimestamp accepts YAML-native timestamps as-is and hands any other
// scalar to dateparse, so "2020-01-01", "Jan 2 2020 10:00" and RFC 3339
// values all resolve.
func parseTimestamp(value any, loc *time.Location) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		return dateparse.ParseIn(strings.TrimSpace(v), loc)
	default:
		return dateparse.ParseIn(fmt.Sprint(v), loc)
	}
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.Format(time.RFC3339)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, stringify(item))
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		return stringifyMap(v)
	default:
		return fmt.Sprint(v)
	}
}

func stringifyMap(value map[string]any) string {
	keys := make([]string, 0, len(value))
	for key := range value {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+stringify(value[key]))
	}
	return strings.Join(parts, ", ")
}
