// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/pipeline"
)

func setupLogging(ctx *cli.Context) {
	level := slog.LevelWarn
	if ctx.GlobalBool("v") {
		level = slog.LevelInfo
	}
	if ctx.GlobalBool("vv") {
		level = slog.LevelDebug
	}
	framegraph.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// loadPipeline loads the pipeline file named by the first argument.
// Paths in the file are relative to its directory.
func loadPipeline(ctx *cli.Context) (*pipeline.Pipeline, error) {
	path := ctx.Args().First()
	if path == "" {
		return nil, fmt.Errorf("missing pipeline file")
	}
	vars, err := parseVars(ctx.StringSlice("var"))
	if err != nil {
		return nil, err
	}
	return pipeline.Load(os.DirFS(filepath.Dir(path)), filepath.Base(path), vars)
}

func parseVars(args []string) (map[string]any, error) {
	vars := make(map[string]any, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --var %q: want name=value", arg)
		}
		vars[name] = value
	}
	return vars, nil
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader(header)
	return table
}

var title = cases.Title(language.English)

// displayName returns the node's own display name or its name in title
// case.
func displayName(n framegraph.Node) string {
	if d, ok := n.(interface{ DisplayName() string }); ok {
		return d.DisplayName()
	}
	return title.String(strings.ReplaceAll(n.Name(), "-", " "))
}
