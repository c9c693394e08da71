package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"
)

// ErrDisabled is returned by cache commands when caching is off.
var ErrDisabled = errors.New("cache is not enabled")

const entryExt = ".mp"

// Cache keeps analysed libraries on disk, one file per library path.
// Records are read by Load and written back by Close.
// Thread-safe for concurrent access.
type Cache struct {
	mu       sync.RWMutex
	dir      string
	lifetime time.Duration // < 0: entries never expire
	entries  map[string]*Record
	dirty    map[string]bool
	now      func() time.Time
}

// Open prepares the cache directory. lifetimeHours < 0 keeps entries forever.
func Open(dir string, lifetimeHours int) (*Cache, error) {
	if err := os.MkdirAll(filepath.Join(dir, "libs"), 0o755); err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	lifetime := time.Duration(lifetimeHours) * time.Hour
	if lifetimeHours < 0 {
		lifetime = -1
	}
	return &Cache{
		dir:      dir,
		lifetime: lifetime,
		entries:  make(map[string]*Record),
		dirty:    make(map[string]bool),
		now:      time.Now,
	}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// pathFor maps a library path to its entry file.
func (c *Cache) pathFor(libPath string) string {
	sum := sha256.Sum256([]byte(libPath))
	return filepath.Join(c.dir, "libs", hex.EncodeToString(sum[:])+entryExt)
}

func (c *Cache) expired(rec *Record) bool {
	return c.lifetime >= 0 && c.now().Sub(rec.CachedAt) > c.lifetime
}

// Load reads every entry in parallel. Corrupt, outdated and expired entries
// are removed; failures to remove them are returned together.
func (c *Cache) Load(ctx context.Context) error {
	files, err := filepath.Glob(filepath.Join(c.dir, "libs", "*"+entryExt))
	if err != nil {
		return err
	}
	records := make([]*Record, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, err := readEntry(path)
			if err == nil && rec.Schema == schemaVersion {
				records[i] = rec
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var result *multierror.Error
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, rec := range records {
		if rec == nil || c.expired(rec) || c.pathFor(rec.Path) != files[i] {
			if err := os.Remove(files[i]); err != nil && !errors.Is(err, os.ErrNotExist) {
				result = multierror.Append(result, err)
			}
			continue
		}
		c.entries[rec.Path] = rec
	}
	return result.ErrorOrNil()
}

func readEntry(path string) (*Record, error) {
	// #nosec G304 -- entries live in the cache directory
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var rec Record
	if err := msgpack.NewDecoder(f).Decode(&rec); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &rec, nil
}

// Get returns the record of a library whose content still has the given
// hash and which has not expired.
func (c *Cache) Get(libPath string, hash Digest) (*Record, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.entries[libPath]
	if !ok || rec.Hash != hash || c.expired(rec) {
		return nil, false
	}
	return rec, true
}

// Put stores a record; it is written to disk by Close.
func (c *Cache) Put(rec *Record) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	rec.Schema = schemaVersion
	if rec.CachedAt.IsZero() {
		rec.CachedAt = c.now()
	}
	c.entries[rec.Path] = rec
	c.dirty[rec.Path] = true
}

// Entries returns the loaded records ordered by path.
func (c *Cache) Entries() []*Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Record, 0, len(c.entries))
	for _, rec := range c.entries {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Print lists the cached libraries.
func (c *Cache) Print(w io.Writer) {
	entries := c.Entries()
	head := color.New(color.Bold)
	dim := color.New(color.Faint)
	head.Fprintf(w, "cache: %s\n", c.dir)
	if len(entries) == 0 {
		fmt.Fprintln(w, "  (empty)")
		return
	}
	for _, rec := range entries {
		name := rec.Name
		if name == "" {
			name = "-"
		}
		age := c.now().Sub(rec.CachedAt).Truncate(time.Second)
		fmt.Fprintf(w, "  %s\n", rec.Path)
		dim.Fprintf(w, "    library: %s  age: %s  objects: %d\n", name, age, rec.Objects())
	}
	fmt.Fprintf(w, "%d librar%s cached\n", len(entries), plural(len(entries)))
}

func plural(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

// Clear deletes every entry, on disk and in memory.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Record)
	c.dirty = make(map[string]bool)
	files, err := os.ReadDir(filepath.Join(c.dir, "libs"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	var result *multierror.Error
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), entryExt) && !strings.HasPrefix(f.Name(), "tmp-") {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, "libs", f.Name())); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// Close writes the records stored since Open.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	var result *multierror.Error
	for libPath := range c.dirty {
		if err := c.write(c.entries[libPath]); err != nil {
			result = multierror.Append(result, fmt.Errorf("cache %s: %w", libPath, err))
		}
	}
	c.dirty = make(map[string]bool)
	return result.ErrorOrNil()
}

// write replaces an entry atomically.
func (c *Cache) write(rec *Record) (err error) {
	p := c.pathFor(rec.Path)
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()
	if err = msgpack.NewEncoder(f).Encode(rec); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}
