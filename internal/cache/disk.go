package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"fedcompose/internal/diag"
)

// Current schema version - increment when Entry format or the rule set changes.
const schemaVersion uint16 = 1

// Key identifies one validated subgraph text.
type Key [sha256.Size]byte

// KeyFor hashes the schema version, the subgraph name and its SDL.
func KeyFor(subgraph, sdl string) Key {
	h := sha256.New()
	var ver [2]byte
	binary.BigEndian.PutUint16(ver[:], schemaVersion)
	h.Write(ver[:])
	// длина имени, чтобы ("ab","c") и ("a","bc") не совпали
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(subgraph)))
	h.Write(n[:])
	h.Write([]byte(subgraph))
	h.Write([]byte(sdl))
	var k Key
	copy(k[:], h.Sum(nil))
	return k
}

func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

// Entry is the cached validation outcome of one subgraph.
type Entry struct {
	Schema   uint16
	Subgraph string
	Issues   []diag.Issue
}

// DiskCache хранит результаты валидации сабграфов на диске.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDir(filepath.Join(base, app))
}

// OpenDir opens a cache rooted at dir, creating it when needed.
func OpenDir(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key Key) string {
	// подкаталог "subgraphs" для удобства очистки
	return filepath.Join(c.dir, "subgraphs", key.String()+".mp")
}

// Put serializes and writes an entry to the disk cache.
func (c *DiskCache) Put(key Key, entry *Entry) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	renamed := false
	defer func() {
		if !renamed {
			_ = os.Remove(f.Name())
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(entry); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	if err := os.Rename(f.Name(), p); err != nil {
		return err
	}
	renamed = true
	return nil
}

// Get reads and deserializes an entry. Entries written under another schema
// version count as misses.
func (c *DiskCache) Get(key Key, out *Entry) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return out.Schema == schemaVersion, nil
}

// DropAll invalidates the cache.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// Lookup returns the cached issues for a subgraph text. Read errors are misses.
func (c *DiskCache) Lookup(subgraph, sdl string) ([]diag.Issue, bool) {
	var e Entry
	ok, err := c.Get(KeyFor(subgraph, sdl), &e)
	if err != nil || !ok || e.Subgraph != subgraph {
		return nil, false
	}
	return e.Issues, true
}

// Store records the issues of a subgraph text. Write errors are dropped;
// the next run validates again.
func (c *DiskCache) Store(subgraph, sdl string, issues []diag.Issue) {
	_ = c.Put(KeyFor(subgraph, sdl), &Entry{
		Schema:   schemaVersion,
		Subgraph: subgraph,
		Issues:   issues,
	})
}
