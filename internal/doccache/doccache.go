// Package doccache кеширует Parsed-документы на диске по хешу исходника.
package doccache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when Payload format changes
const schemaVersion uint16 = 1

// Digest keys a cache entry: sha256 over the source text plus the
// export options that shape the document.
type Digest [sha256.Size]byte

// Key derives the cache key for one source unit. Compact form produces a
// different document, so it is part of the key.
func Key(src string, compact bool) Digest {
	h := sha256.New()
	h.Write([]byte(src))
	if compact {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// Payload is the on-disk envelope around a cached interchange document.
type Payload struct {
	Schema     uint16
	SourceUnit string
	Document   []byte
}

// Cache хранит документы под XDG-кеш-каталогом.
// Thread-safe for concurrent access.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// Open initializes a cache at the standard location for the given app.
func Open(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app, "docs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) pathFor(key Digest) string {
	return filepath.Join(c.dir, hex.EncodeToString(key[:])+".mp")
}

// Put serializes and atomically writes a document under its key.
func (c *Cache) Put(key Digest, sourceUnit string, doc []byte) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(&Payload{
		Schema:     schemaVersion,
		SourceUnit: sourceUnit,
		Document:   doc,
	}); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	// Атомарная замена
	return os.Rename(tmp, p)
}

// Get reads the document cached under key. A missing entry, a schema
// mismatch and a source-unit mismatch all count as a miss.
func (c *Cache) Get(key Digest, sourceUnit string) ([]byte, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var p Payload
	if err := msgpack.NewDecoder(f).Decode(&p); err != nil {
		// Повреждённая запись трактуется как промах.
		return nil, false, nil
	}
	if p.Schema != schemaVersion || p.SourceUnit != sourceUnit {
		return nil, false, nil
	}
	return p.Document, true, nil
}
