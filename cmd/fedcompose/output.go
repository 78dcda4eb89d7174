package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"fedcompose/internal/diag"
	"fedcompose/internal/diagfmt"
	"fedcompose/internal/source"
)

type outputOptions struct {
	format   string
	color    bool
	max      int
	pathMode diagfmt.PathMode
}

func readOutputOptions(cmd *cobra.Command) (outputOptions, error) {
	flags := cmd.Root().PersistentFlags()
	format, err := flags.GetString("format")
	if err != nil {
		return outputOptions{}, err
	}
	colorFlag, err := flags.GetString("color")
	if err != nil {
		return outputOptions{}, err
	}
	maxDiagnostics, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return outputOptions{}, err
	}
	fullPath, err := flags.GetBool("full-path")
	if err != nil {
		return outputOptions{}, err
	}

	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "pretty", "short", "json":
	default:
		return outputOptions{}, fmt.Errorf("unsupported format %q (must be pretty, short or json)", format)
	}
	mode, err := readColorMode(colorFlag)
	if err != nil {
		return outputOptions{}, err
	}
	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	return outputOptions{
		format:   format,
		color:    useColor(mode, os.Stderr),
		max:      maxDiagnostics,
		pathMode: pathMode,
	}, nil
}

// printIssues renders issues; JSON goes to out, text formats to errOut.
func printIssues(out, errOut io.Writer, issues []diag.Issue, files *source.FileSet, opts outputOptions) error {
	if opts.format == "json" {
		return diagfmt.JSON(out, issues, diagfmt.JSONOpts{Max: opts.max, Indent: true})
	}
	if len(issues) == 0 {
		return nil
	}
	shown := issues
	if opts.max > 0 && len(shown) > opts.max {
		shown = shown[:opts.max]
	}
	baseDir, _ := os.Getwd()
	var err error
	if opts.format == "short" {
		err = diagfmt.Short(errOut, shown, files, opts.pathMode, baseDir)
	} else {
		err = diagfmt.Pretty(errOut, shown, files, diagfmt.PrettyOpts{
			Color:    opts.color,
			Context:  2,
			PathMode: opts.pathMode,
			BaseDir:  baseDir,
		})
	}
	if err != nil {
		return err
	}
	if len(shown) < len(issues) {
		fmt.Fprintf(errOut, "... %d more not shown\n", len(issues)-len(shown))
	}
	if opts.format == "pretty" {
		fmt.Fprintf(errOut, "\n%s\n", diagfmt.Summary(issues))
	}
	return nil
}
