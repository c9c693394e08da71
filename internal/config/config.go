package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the project file looked up from the source directory upwards.
const FileName = "acsc.toml"

const (
	TabSizeMin = 1
	TabSizeMax = 100

	// DefaultLifetime is how long, in hours, a cached library stays valid.
	DefaultLifetime = 24
)

// ErrTabSize is returned for a tab size outside [TabSizeMin, TabSizeMax].
var ErrTabSize = fmt.Errorf("tab size not between %d and %d", TabSizeMin, TabSizeMax)

// Config is the merged configuration of one compiler run.
type Config struct {
	Compile Compile `toml:"compile"`
	Cache   Cache   `toml:"cache"`

	// Path of the project file the values came from; empty for defaults.
	Path string `toml:"-"`
}

type Compile struct {
	Include        []string `toml:"include"`
	TabSize        int      `toml:"tab_size"`
	OneColumn      bool     `toml:"one_column"`
	AccErrFile     bool     `toml:"acc_err_file"`
	MaxDiagnostics int      `toml:"max_diagnostics"`
}

type Cache struct {
	Enable bool   `toml:"enable"`
	Dir    string `toml:"dir"`
	// Lifetime in hours; a negative value keeps entries forever.
	Lifetime int `toml:"lifetime"`
}

// Default returns the values used when no project file is found.
func Default() Config {
	return Config{
		Compile: Compile{
			TabSize:        4,
			MaxDiagnostics: 100,
		},
		Cache: Cache{
			Lifetime: DefaultLifetime,
		},
	}
}

// Find walks up from startDir to locate acsc.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes one project file over the defaults. Relative include and
// cache directories are taken relative to the file.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	root := filepath.Dir(path)
	for i, dir := range cfg.Compile.Include {
		cfg.Compile.Include[i] = resolveDir(root, dir)
	}
	if cfg.Cache.Dir != "" {
		cfg.Cache.Dir = resolveDir(root, cfg.Cache.Dir)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover finds the project file for startDir and loads it. Without one
// the defaults are returned.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks the ranges the compiler relies on.
func (c *Config) Validate() error {
	if c.Compile.TabSize < TabSizeMin || c.Compile.TabSize > TabSizeMax {
		return ErrTabSize
	}
	if c.Compile.MaxDiagnostics < 0 {
		return fmt.Errorf("max_diagnostics is negative: %d", c.Compile.MaxDiagnostics)
	}
	return nil
}

// CacheDir returns the cache directory, falling back to
// $XDG_CACHE_HOME/acsc or ~/.cache/acsc.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, "acsc"), nil
}

func resolveDir(root, dir string) string {
	dir = strings.TrimRight(strings.TrimSpace(dir), `/\`)
	if dir == "" {
		return root
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(root, filepath.FromSlash(dir))
}
