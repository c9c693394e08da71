package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"acsc/internal/cache"
	"acsc/internal/config"
)

// loadConfig reads acsc.toml from startDir upwards and applies the flags
// given on the command line over it.
func loadConfig(cmd *cobra.Command, startDir string) (config.Config, error) {
	cfg, err := config.Discover(startDir)
	if err != nil {
		return config.Config{}, err
	}
	if err := applyFlags(cmd, &cfg); err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	// каталоги из командной строки ищутся раньше каталогов из acsc.toml
	var includes []string
	for _, name := range []string{"include", "include-dir"} {
		if flags.Lookup(name) == nil {
			continue
		}
		dirs, err := flags.GetStringArray(name)
		if err != nil {
			return err
		}
		for _, dir := range dirs {
			includes = append(includes, trimDir(dir))
		}
	}
	if len(includes) > 0 {
		cfg.Compile.Include = append(includes, cfg.Compile.Include...)
	}

	if flags.Changed("tab-size") {
		n, err := flags.GetInt("tab-size")
		if err != nil {
			return err
		}
		cfg.Compile.TabSize = n
	}
	if flags.Changed("one-column") {
		v, err := flags.GetBool("one-column")
		if err != nil {
			return err
		}
		cfg.Compile.OneColumn = v
	}
	if flags.Changed("acc-err-file") {
		v, err := flags.GetBool("acc-err-file")
		if err != nil {
			return err
		}
		cfg.Compile.AccErrFile = v
	}
	if flags.Changed("max-diagnostics") {
		n, err := flags.GetInt("max-diagnostics")
		if err != nil {
			return err
		}
		cfg.Compile.MaxDiagnostics = n
	}

	if flags.Changed("cache") {
		v, err := flags.GetBool("cache")
		if err != nil {
			return err
		}
		cfg.Cache.Enable = v
	}
	if flags.Changed("cache-dir") {
		dir, err := flags.GetString("cache-dir")
		if err != nil {
			return err
		}
		cfg.Cache.Dir = trimDir(dir)
	}
	if flags.Changed("cache-lifetime") {
		n, err := flags.GetInt("cache-lifetime")
		if err != nil {
			return err
		}
		cfg.Cache.Lifetime = n
	}
	return nil
}

// trimDir strips trailing path separators: "lib/" and "lib" name the same
// include directory.
func trimDir(dir string) string {
	trimmed := strings.TrimRight(dir, `/\`)
	if trimmed == "" {
		return dir
	}
	return filepath.Clean(trimmed)
}

// openCache returns nil when the cache is disabled.
func openCache(cfg config.Config) (*cache.Cache, error) {
	if !cfg.Cache.Enable {
		return nil, nil
	}
	dir, err := cfg.CacheDir()
	if err != nil {
		return nil, err
	}
	return cache.Open(dir, cfg.Cache.Lifetime)
}
