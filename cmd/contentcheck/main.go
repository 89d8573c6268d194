// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command contentcheck validates the content tree at build time and prints
// document outlines and categories.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/olegiv/sitecontent/internal/content"
	"github.com/olegiv/sitecontent/internal/i18n"
	"github.com/olegiv/sitecontent/internal/logging"
	"github.com/olegiv/sitecontent/internal/model"
	"github.com/olegiv/sitecontent/internal/present"
	"github.com/olegiv/sitecontent/internal/resolve"
	"github.com/olegiv/sitecontent/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// Global is shared with every command.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer
}

// CLI definition and global flags.
type CLI struct {
	Dir     string           `short:"d" help:"Content directory" default:"./content" env:"SITECONTENT_CONTENT_DIR"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Check      CheckCmd      `cmd:"" default:"1" help:"Load every document and report problems"`
	Outline    OutlineCmd    `cmd:"" help:"Print the heading outline of a document"`
	Categories CategoriesCmd `cmd:"" help:"Print the categories of a kind and locale"`
}

// loadStore parses the whole content tree. The first malformed document
// aborts loading with a *content.ParseError.
func (c *CLI) loadStore(ctx context.Context, logger *slog.Logger) (*content.Store, error) {
	info, err := os.Stat(c.Dir)
	if err != nil {
		return nil, fmt.Errorf("content directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content directory: %s is not a directory", c.Dir)
	}
	loader := content.NewLoader(os.DirFS(c.Dir), logger)
	return content.NewStore(ctx, loader, model.Kinds, model.Locales, logger)
}

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	Strict bool `help:"Fail when translations point at missing documents"`
}

// Run executes the check command.
func (cmd *CheckCmd) Run(g *Global, root *CLI) error {
	store, err := root.loadStore(context.Background(), g.Logger)
	if err != nil {
		return err
	}

	counts := store.Counts()
	for _, kind := range model.Kinds {
		for _, locale := range model.Locales {
			_, _ = fmt.Fprintf(g.Out, "%-6s %-3s %d\n", kind, locale, counts[kind][locale])
		}
	}

	stale := store.Stale()
	for _, s := range stale {
		_, _ = fmt.Fprintf(g.Out, "stale translation: %s/%s/%s -> %s:%s\n",
			s.Document.Kind, s.Document.Locale, s.Document.Slug, s.Target, s.Slug)
	}
	_, _ = fmt.Fprintf(g.Out, "%d documents, %d stale translations\n", store.Count(), len(stale))

	if cmd.Strict && len(stale) > 0 {
		return fmt.Errorf("%d stale translations", len(stale))
	}
	return nil
}

// OutlineCmd implements the 'outline' command.
type OutlineCmd struct {
	Kind   string `arg:"" help:"Content kind (blog, guide or kennisbank)"`
	Locale string `arg:"" help:"Locale (nl or en)"`
	Slug   string `arg:"" help:"Document slug"`
}

// Run executes the outline command.
func (cmd *OutlineCmd) Run(g *Global, root *CLI) error {
	kind, locale, err := parseKindLocale(cmd.Kind, cmd.Locale)
	if err != nil {
		return err
	}

	ctx := context.Background()
	store, err := root.loadStore(ctx, g.Logger)
	if err != nil {
		return err
	}
	doc, err := store.LoadOne(ctx, kind, locale, cmd.Slug)
	if err != nil {
		return fmt.Errorf("%s/%s/%s: %w", kind, locale, cmd.Slug, err)
	}

	_, _ = fmt.Fprintln(g.Out, doc.Title)
	for _, h := range present.Outline([]byte(doc.Body)) {
		indent := strings.Repeat("  ", h.Level-2)
		_, _ = fmt.Fprintf(g.Out, "%s- %s (#%s)\n", indent, h.Text, h.ID)
	}
	return nil
}

// CategoriesCmd implements the 'categories' command.
type CategoriesCmd struct {
	Kind   string `arg:"" help:"Content kind (blog, guide or kennisbank)"`
	Locale string `arg:"" help:"Locale (nl or en)"`
}

// Run executes the categories command.
func (cmd *CategoriesCmd) Run(g *Global, root *CLI) error {
	kind, locale, err := parseKindLocale(cmd.Kind, cmd.Locale)
	if err != nil {
		return err
	}

	ctx := context.Background()
	store, err := root.loadStore(ctx, g.Logger)
	if err != nil {
		return err
	}
	categories, err := resolve.New(store, model.Locales, g.Logger).Categories(ctx, kind, locale)
	if err != nil {
		return err
	}

	for _, c := range categories {
		_, _ = fmt.Fprintf(g.Out, "%s (%s): %d\n", c.Name, c.Slug, c.Count)
	}
	return nil
}

func parseKindLocale(k, l string) (model.Kind, model.Locale, error) {
	kind, ok := model.ParseKind(k)
	if !ok {
		return "", "", fmt.Errorf("unknown content kind %q", k)
	}
	locale, ok := model.ParseLocale(l)
	if !ok {
		return "", "", fmt.Errorf("unsupported locale %q", l)
	}
	return kind, locale, nil
}

func newParser(cli *CLI, g *Global, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("contentcheck"),
		kong.Description("Validate and inspect the site content tree."),
		kong.Vars{"version": version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}.String()},
		kong.Bind(g),
		kong.UsageOnError(),
	}, options...)
	return kong.New(cli, options...)
}

// newLogger logs warnings and errors, or everything when verbose. No
// metrics are recorded for a one-shot run.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return logging.New(w, level, nil)
}

func main() {
	var cli CLI
	g := &Global{Out: os.Stdout}

	parser, err := newParser(&cli, g)
	if err != nil {
		panic(err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	g.Logger = newLogger(os.Stderr, cli.Verbose)
	slog.SetDefault(g.Logger)

	if err := i18n.Init(g.Logger); err != nil {
		ctx.FatalIfErrorf(fmt.Errorf("initializing i18n: %w", err))
	}

	ctx.FatalIfErrorf(ctx.Run(&cli))
}
