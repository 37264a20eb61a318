// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"

	"github.com/open-edge-platform/comment-highlighter/internal/diagnostics"
	"github.com/open-edge-platform/comment-highlighter/internal/highlight"
	"github.com/open-edge-platform/comment-highlighter/internal/scanner"
	"github.com/open-edge-platform/comment-highlighter/internal/syntax"
)

const (
	exitOK = iota
	exitDiagnostics
	exitFailure
)

const (
	formatText  = "text"
	formatJSON  = "json"
	formatColor = "color"
)

type options struct {
	lang        string
	format      string
	diagnostics bool
	languages   string
	paths       []string
}

// file is the outcome of scanning one input file.
type file struct {
	path    string
	lang    *syntax.Language
	src     string
	regions []scanner.Region
	diags   diagnostics.Diagnostics
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	} else if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailure
	}

	languages := syntax.Builtin()
	if opts.languages != "" {
		overrides, err := syntax.Load(opts.languages)
		if err != nil {
			fmt.Fprintf(stderr, "failed to load languages: %v\n", err)
			return exitFailure
		}
		languages = languages.Merge(overrides)
	}

	files, err := scanFiles(ctx, languages, opts)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailure
	}

	if err := render(stdout, opts, files); err != nil {
		fmt.Fprintf(stderr, "failed to write output: %v\n", err)
		return exitFailure
	}

	for _, f := range files {
		if f.diags.HasErrors() {
			return exitDiagnostics
		}
	}
	return exitOK
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("highlight", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.lang, "lang", "", "language of every file, picked from the file extension when empty")
	fs.StringVar(&opts.format, "format", formatText, "output format: text, json or color")
	fs.BoolVar(&opts.diagnostics, "diagnostics", false, "report unterminated literals and unbalanced brackets")
	fs.StringVar(&opts.languages, "languages", "", "languages file overriding the builtin languages")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: highlight [flags] file...")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	switch opts.format {
	case formatText, formatJSON, formatColor:
	default:
		return opts, fmt.Errorf("invalid format %q", opts.format)
	}

	opts.paths = fs.Args()
	if len(opts.paths) == 0 {
		fs.Usage()
		return opts, errors.New("no input files")
	}
	return opts, nil
}

// scanFiles reads and scans the files in parallel. The result keeps the order of the paths.
func scanFiles(ctx context.Context, languages *syntax.Registry, opts options) ([]file, error) {
	files := make([]file, len(opts.paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range opts.paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			lang, err := languages.Resolve(opts.lang, path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read file %q: %w", path, err)
			}

			src := string(data)
			f := file{
				path:    path,
				lang:    lang,
				src:     src,
				regions: scanner.All(src, lang.Rules),
			}
			if opts.diagnostics {
				f.diags = diagnostics.Check(src, lang)
			}
			files[i] = f
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

func render(w io.Writer, opts options, files []file) error {
	switch opts.format {
	case formatJSON:
		return renderJSON(w, files)
	case formatColor:
		return renderColor(w, files)
	default:
		return renderText(w, files)
	}
}

func renderText(w io.Writer, files []file) error {
	for i, f := range files {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "==> %s (%s) <==\n", f.path, f.lang.Name); err != nil {
			return err
		}
		for _, r := range f.regions {
			if _, err := fmt.Fprintf(w, "%6d %6d  %-26s %q\n", r.Start, r.End, r.Kind, r.Text); err != nil {
				return err
			}
		}
		if err := renderDiagnostics(w, f); err != nil {
			return err
		}
	}
	return nil
}

type jsonRegion struct {
	File     string `json:"file"`
	Language string `json:"language"`
	scanner.Region
}

type jsonDiagnostic struct {
	File string `json:"file"`
	diagnostics.Diagnostic
}

// renderJSON writes one JSON object per line: the regions of each file followed by its diagnostics.
func renderJSON(w io.Writer, files []file) error {
	enc := json.NewEncoder(w)
	for _, f := range files {
		for _, r := range f.regions {
			if err := enc.Encode(jsonRegion{File: f.path, Language: f.lang.Name, Region: r}); err != nil {
				return err
			}
		}
		for _, d := range f.diags {
			if err := enc.Encode(jsonDiagnostic{File: f.path, Diagnostic: d}); err != nil {
				return err
			}
		}
	}
	return nil
}

func classColors() map[highlight.Class]*color.Color {
	colors := map[highlight.Class]*color.Color{
		highlight.Keyword:  color.New(color.FgBlue, color.Bold),
		highlight.Type:     color.New(color.FgCyan),
		highlight.Modifier: color.New(color.FgMagenta),
		highlight.Comment:  color.New(color.FgGreen),
		highlight.Doc:      color.New(color.FgGreen, color.Italic),
		highlight.String:   color.New(color.FgYellow),
		highlight.Error:    color.New(color.FgRed, color.Underline),
	}
	for _, c := range colors {
		c.EnableColor()
	}
	return colors
}

func renderColor(w io.Writer, files []file) error {
	colors := classColors()
	for _, f := range files {
		for s := range highlight.Spans(f.src, f.lang) {
			c, ok := colors[s.Class]
			if !ok {
				if _, err := io.WriteString(w, s.Text); err != nil {
					return err
				}
				continue
			}
			// Sprint honours the per-color EnableColor, Fprint checks the global NoColor.
			if _, err := io.WriteString(w, c.Sprint(s.Text)); err != nil {
				return err
			}
		}
		if err := renderDiagnostics(w, f); err != nil {
			return err
		}
	}
	return nil
}

func renderDiagnostics(w io.Writer, f file) error {
	for _, d := range f.diags {
		if _, err := fmt.Fprintf(w, "%s:%s\n", f.path, d); err != nil {
			return err
		}
	}
	return nil
}
