package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), "")
	nested := filepath.Join(root, "maps", "e1m1")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path, ok, err := Find(nested)
	if err != nil || !ok {
		t.Fatalf("find: ok=%v err=%v", ok, err)
	}
	if path != filepath.Join(root, FileName) {
		t.Fatalf("path %s", path)
	}
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, FileName)
	writeFile(t, path, `
[compile]
include = ["lib", "/abs/shared/"]
tab_size = 8
one_column = true

[cache]
enable = true
dir = "cache"
lifetime = -1
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Compile.TabSize != 8 || !cfg.Compile.OneColumn || cfg.Compile.AccErrFile {
		t.Fatalf("compile section: %+v", cfg.Compile)
	}
	if cfg.Compile.MaxDiagnostics != 100 {
		t.Fatalf("defaults lost: %+v", cfg.Compile)
	}
	wantInclude := []string{filepath.Join(root, "lib"), filepath.Clean("/abs/shared")}
	if len(cfg.Compile.Include) != 2 || cfg.Compile.Include[0] != wantInclude[0] || cfg.Compile.Include[1] != wantInclude[1] {
		t.Fatalf("include %v, want %v", cfg.Compile.Include, wantInclude)
	}
	if !cfg.Cache.Enable || cfg.Cache.Lifetime != -1 || cfg.Cache.Dir != filepath.Join(root, "cache") {
		t.Fatalf("cache section: %+v", cfg.Cache)
	}
	if dir, err := cfg.CacheDir(); err != nil || dir != cfg.Cache.Dir {
		t.Fatalf("cache dir %q, %v", dir, err)
	}
}

func TestLoadRejectsBadTabSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	writeFile(t, path, "[compile]\ntab_size = 0\n")
	_, err := Load(path)
	if !errors.Is(err, ErrTabSize) {
		t.Fatalf("want ErrTabSize, got %v", err)
	}
	if !strings.Contains(err.Error(), "tab size not between 1 and 100") {
		t.Fatalf("message: %v", err)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	writeFile(t, path, "[compile]\ntabsize = 2\n")
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "compile.tabsize") {
		t.Fatalf("want unknown key error, got %v", err)
	}
}

func TestDiscoverWithoutFile(t *testing.T) {
	cfg, err := Discover(t.TempDir())
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if cfg.Path != "" || cfg.Compile.TabSize != 4 || cfg.Cache.Enable || cfg.Cache.Lifetime != DefaultLifetime {
		t.Fatalf("defaults: %+v", cfg)
	}
}

func TestCacheDirDefault(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	cfg := Default()
	dir, err := cfg.CacheDir()
	if err != nil || dir != filepath.Join("/tmp/xdg", "acsc") {
		t.Fatalf("cache dir %q, %v", dir, err)
	}
}
