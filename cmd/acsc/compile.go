package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"acsc/internal/config"
	"acsc/internal/diag"
	"acsc/internal/diagfmt"
	"acsc/internal/driver"
	"acsc/internal/observ"
	"acsc/internal/source"
)

func compileFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringArrayP("include", "i", nil, "add a directory to search for imported files (repeatable)")
	f.StringArrayP("include-dir", "I", nil, "same as --include")
	f.Int("tab-size", source.DefaultTabSize, fmt.Sprintf("columns per tab in reported positions (%d..%d)", config.TabSizeMin, config.TabSizeMax))
	f.Bool("one-column", false, "count columns from 1 instead of 0")
	f.Bool("acc-err-file", false, "also write errors to "+diagfmt.AccErrFileName+" next to the source file")
	f.String("format", "pretty", "diagnostics format (pretty|short|json)")
	f.Bool("timings", false, "show timing information")
	f.Int("max-diagnostics", 100, "maximum number of diagnostics to collect, 0 for no limit")
	_ = f.MarkHidden("include-dir")
}

// runCompile executes the root command: it loads configuration, compiles the
// source file and prints the diagnostics. It returns errCompileFailed when
// any error was reported.
func runCompile(cmd *cobra.Command, args []string) error {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	path := args[0]
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	switch format {
	case "pretty", "short", "json":
	default:
		return fmt.Errorf("unknown format %q (must be pretty, short or json)", format)
	}
	colored, err := useColor(cmd)
	if err != nil {
		return err
	}
	timings, err := cmd.Flags().GetBool("timings")
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, filepath.Dir(path))
	if err != nil {
		return err
	}
	libCache, err := openCache(cfg)
	if err != nil {
		return err
	}

	var timer *observ.Timer
	if timings {
		timer = observ.NewTimer()
	}
	out, err := driver.Compile(cmd.Context(), driver.Options{
		Path:           path,
		Includes:       cfg.Compile.Include,
		MaxDiagnostics: cfg.Compile.MaxDiagnostics,
		Cache:          libCache,
		Timer:          timer,
	})
	if err != nil {
		return err
	}
	out.Bag.Sort()

	pos := source.PosOptions{TabSize: cfg.Compile.TabSize, OneColumn: cfg.Compile.OneColumn}
	w := cmd.OutOrStdout()
	if err := render(w, out, format, colored, pos); err != nil {
		return err
	}
	if cfg.Compile.AccErrFile {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		errPath := filepath.Join(filepath.Dir(abs), diagfmt.AccErrFileName)
		if err := diagfmt.WriteAccErrFile(errPath, out.Bag, out.FileSet, pos); err != nil {
			return err
		}
	}
	if timer != nil {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}
	if out.Bag.HasErrors() {
		return errCompileFailed
	}
	return nil
}

func render(w io.Writer, out *driver.Output, format string, colored bool, pos source.PosOptions) error {
	switch format {
	case "json":
		return diagfmt.JSON(w, out.Bag, out.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
			Pos:              pos,
		})
	case "short":
		if s := diag.FormatShortDiagnostics(out.Bag.Items(), out.FileSet, true); s != "" {
			fmt.Fprintln(w, s)
		}
	default:
		diagfmt.Pretty(w, out.Bag, out.FileSet, diagfmt.PrettyOpts{
			Color:     colored,
			PathMode:  diagfmt.PathModeAuto,
			ShowNotes: true,
			Pos:       pos,
		})
	}
	if n := out.Bag.Dropped(); n > 0 && format != "json" {
		fmt.Fprintf(w, "... %d more diagnostics not shown\n", n)
	}
	return nil
}
