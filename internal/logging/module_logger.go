package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

const (
	rootModule     = "blog"
	articlesModule = "blog.articles"
	markdownModule = "blog.markdown"
	httpModule     = "blog.http"
	scaffoldModule = "blog.scaffold"
)

const (
	fieldArticlePath  = "article_path"
	fieldArticleTitle = "article_title"
)

// ModuleLogger returns a logger scoped to module. Without a provider, or when
// the provider hands back nil, entries are dropped. Every logger carries a
// "module" field so output can be filtered per package.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	module = strings.TrimSpace(module)
	if module == "" {
		module = rootModule
	}

	var logger interfaces.Logger = NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{"module": module})
}

// ArticlesLogger is used by the article loader and lookup service.
func ArticlesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, articlesModule)
}

// MarkdownLogger is used by the markdown renderer.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// HTTPLogger is used by request handlers and the server lifecycle.
func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

// ScaffoldLogger is used when writing new article files.
func ScaffoldLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, scaffoldModule)
}

// WithArticle attaches the source path and title of an article. Blank values
// are skipped.
func WithArticle(logger interfaces.Logger, path, title string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldArticlePath] = trimmed
	}
	if trimmed := strings.TrimSpace(title); trimmed != "" {
		fields[fieldArticleTitle] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that discards everything.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var (
	_ interfaces.Logger       = noopLogger{}
	_ interfaces.FieldsLogger = noopLogger{}
)

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger { return n }

func (n noopLogger) WithContext(context.Context) interfaces.Logger { return n }
