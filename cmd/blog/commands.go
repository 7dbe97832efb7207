package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/cobra"

	blog "github.com/goliatone/go-blog"
	"github.com/goliatone/go-blog/cmd/blog/internal/bootstrap"
)

var moduleBuilder = bootstrap.BuildModule

const cliModule = "blog.cli"

type cli struct {
	configFile  string
	envFile     string
	articlesDir string
	addr        string

	module *blog.Module
}

func newRootCommand() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "blog",
		Short: "Serve and manage a directory of markdown articles",
		Long: `blog reads markdown articles with a YAML metadata header from a
directory, renders them to HTML with syntax highlighting, and serves them
over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.initialize()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "config file (default is ./blog.yaml)")
	flags.StringVar(&c.envFile, "env-file", ".env", "dotenv file loaded before reading config")
	flags.StringVar(&c.articlesDir, "dir", "", "articles directory (overrides articles.dir)")

	root.AddCommand(
		c.serveCommand(),
		c.listCommand(),
		c.showCommand(),
		c.newCommand(),
		c.cssCommand(),
	)
	return root
}

func (c *cli) initialize() error {
	overrides := map[string]any{}
	if dir := strings.TrimSpace(c.articlesDir); dir != "" {
		overrides["articles.dir"] = dir
	}
	if addr := strings.TrimSpace(c.addr); addr != "" {
		overrides["http.addr"] = addr
	}

	module, err := moduleBuilder(bootstrap.Options{
		ConfigFile: c.configFile,
		EnvFile:    c.envFile,
		Overrides:  overrides,
	})
	if err != nil {
		return err
	}
	c.module = module
	return nil
}

func (c *cli) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr := c.module.Config().HTTP.Addr
			c.module.Logger(cliModule).Info("cli.serve", "addr", addr)
			fmt.Fprintf(cmd.ErrOrStderr(), "listening on %s\n", addr)
			return c.module.Serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&c.addr, "addr", "", "listen address (overrides http.addr)")
	return cmd
}

func (c *cli) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every article, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := c.module.Articles(cmd.Context())
			if err != nil {
				return err
			}
			return writeList(cmd.OutOrStdout(), list)
		},
	}
}

func writeList(w io.Writer, list []*blog.Article) error {
	for _, article := range list {
		if _, err := fmt.Fprintf(w, "%s  %s\n", article.Date.Format(time.DateOnly), article.Title); err != nil {
			return err
		}
	}
	return nil
}

func (c *cli) showCommand() *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "show <title>",
		Short: "Print the rendered HTML of one article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			article, err := c.module.Article(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			body := article.Content
			if !raw {
				body = c.module.RenderArticle(article)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(body, "\n"))
			return err
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the markdown source instead of HTML")
	return cmd
}

func (c *cli) newCommand() *cobra.Command {
	var (
		date string
		body string
		meta map[string]string
	)
	cmd := &cobra.Command{
		Use:   "new <title>",
		Short: "Create a new article file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := blog.ScaffoldInput{
				Title: strings.Join(args, " "),
				Extra: meta,
				Body:  body,
			}
			if strings.TrimSpace(date) != "" {
				loc, err := c.module.Config().Location()
				if err != nil {
					return err
				}
				parsed, err := dateparse.ParseIn(date, loc)
				if err != nil {
					return fmt.Errorf("parse --date %q: %w", date, err)
				}
				in.Date = parsed
			}

			path, err := c.module.NewArticle(cmd.Context(), in)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "publication date (defaults to now)")
	cmd.Flags().StringVar(&body, "body", "", "initial markdown body")
	cmd.Flags().StringToStringVar(&meta, "meta", nil, "extra metadata as key=value pairs")
	return cmd
}

func (c *cli) cssCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "css",
		Short: "Print the syntax highlighting stylesheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			css, err := c.module.Stylesheet()
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), css)
			return err
		},
	}
}
