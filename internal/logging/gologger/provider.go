// Package gologger backs the blog logger contract with go-logger.
package gologger

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

var formats = map[string]func() glog.Option{
	"":        glog.WithLoggerTypeJSON,
	"json":    glog.WithLoggerTypeJSON,
	"console": glog.WithLoggerTypeConsole,
	"pretty":  glog.WithLoggerTypePretty,
}

var levels = map[string]string{
	"trace":   glog.Trace,
	"debug":   glog.Debug,
	"info":    glog.Info,
	"warn":    glog.Warn,
	"warning": glog.Warn,
	"error":   glog.Error,
	"fatal":   glog.Fatal,
}

// Config mirrors the logging section of the blog configuration.
type Config struct {
	Level     string
	Format    string
	AddSource bool
	// Focus limits output to the named modules, e.g. "blog.http".
	Focus []string
}

// Provider hands out go-logger children named after blog modules.
type Provider struct {
	root *glog.BaseLogger
}

// NewProvider builds a go-logger root from cfg. Format is json when empty.
func NewProvider(cfg Config) (*Provider, error) {
	format, ok := formats[normalize(cfg.Format)]
	if !ok {
		return nil, fmt.Errorf("gologger: unsupported format %q", cfg.Format)
	}
	options := []glog.Option{format()}

	if level, ok := levels[normalize(cfg.Level)]; ok {
		options = append(options, glog.WithLevel(level))
	}
	if cfg.AddSource {
		options = append(options, glog.WithAddSource(true))
	}

	root := glog.NewLogger(options...)
	if focus := focusModules(cfg.Focus); len(focus) > 0 {
		root.Focus(focus...)
	}
	return &Provider{root: root}, nil
}

// GetLogger returns the child logger for a blog module. An empty name
// returns the root.
func (p *Provider) GetLogger(module string) interfaces.Logger {
	if p == nil || p.root == nil {
		return logging.NoOp()
	}
	module = strings.TrimSpace(module)
	if module == "" {
		return adapt(p.root)
	}
	return adapt(p.root.GetLogger(module))
}

type adapter struct {
	inner glog.Logger
}

var (
	_ interfaces.LoggerProvider = (*Provider)(nil)
	_ interfaces.FieldsLogger   = (*adapter)(nil)
)

func adapt(inner glog.Logger) interfaces.Logger {
	if inner == nil {
		return logging.NoOp()
	}
	return &adapter{inner: inner}
}

func (a *adapter) Trace(msg string, args ...any) { a.inner.Trace(msg, args...) }
func (a *adapter) Debug(msg string, args ...any) { a.inner.Debug(msg, args...) }
func (a *adapter) Info(msg string, args ...any)  { a.inner.Info(msg, args...) }
func (a *adapter) Warn(msg string, args ...any)  { a.inner.Warn(msg, args...) }
func (a *adapter) Error(msg string, args ...any) { a.inner.Error(msg, args...) }
func (a *adapter) Fatal(msg string, args ...any) { a.inner.Fatal(msg, args...) }

// WithFields uses go-logger's field support when the inner logger has it,
// else With with pairs in key order.
func (a *adapter) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return a
	}
	switch inner := a.inner.(type) {
	case glog.FieldsLogger:
		return adapt(inner.WithFields(maps.Clone(fields)))
	case interface{ With(...any) *glog.BaseLogger }:
		pairs := make([]any, 0, 2*len(fields))
		for _, key := range slices.Sorted(maps.Keys(fields)) {
			pairs = append(pairs, key, fields[key])
		}
		return adapt(inner.With(pairs...))
	default:
		return a
	}
}

func (a *adapter) WithContext(ctx context.Context) interfaces.Logger {
	if ctx == nil {
		return a
	}
	return adapt(a.inner.WithContext(ctx))
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func focusModules(names []string) []string {
	var out []string
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}
