package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"acsc/internal/config"
	"acsc/internal/version"
)

// errCompileFailed is returned after error diagnostics were printed; main
// exits with status 1 without printing it again.
var errCompileFailed = errors.New("compilation failed")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "acsc [flags] <source-file>",
		Short:         "ACS compiler front end",
		Long:          `acsc parses and analyses an ACS source file and the libraries it imports`,
		Args:          cobra.ExactArgs(1),
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runCompile,
	}

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("cache", false, "enable the library cache")
	pf.String("cache-dir", "", "library cache directory (default $XDG_CACHE_HOME/acsc)")
	pf.Int("cache-lifetime", config.DefaultLifetime, "hours a cached library stays valid, <0 keeps it forever")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")

	compileFlags(root)
	root.AddCommand(newCacheCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// main builds the command tree and runs it. Any error exits with status 1.
func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errCompileFailed) {
			fmt.Fprintf(os.Stderr, "%s %v\n", color.New(color.FgRed, color.Bold).Sprint("error:"), err)
		}
		os.Exit(1)
	}
}

// useColor resolves --color and applies it to everything printed with
// fatih/color.
func useColor(cmd *cobra.Command) (bool, error) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	var enabled bool
	switch mode {
	case "on":
		enabled = true
	case "off":
		enabled = false
	case "auto":
		enabled = isTerminal(os.Stdout) && os.Getenv("NO_COLOR") == ""
	default:
		return false, fmt.Errorf("unknown color mode %q (must be auto, on or off)", mode)
	}
	color.NoColor = !enabled
	return enabled, nil
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) // #nosec G115 -- file descriptors fit in int
}
