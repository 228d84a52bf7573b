// Package cache persists decoded source maps on disk so repeated CLI
// invocations over the same document skip JSON parsing and VLQ decoding.
// The cache is keyed by a SHA-256 digest of the raw document.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"srcmap/internal/sourcemap"
	"srcmap/internal/token"
)

// Current schema version - increment when Payload format changes
const schemaVersion uint16 = 1

// Digest identifies a cached document by the SHA-256 of its raw bytes.
type Digest [sha256.Size]byte

// Key computes the cache key for a raw source map document.
func Key(data []byte) Digest {
	return sha256.Sum256(data)
}

// DiskCache stores decoded source maps under a cache directory.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// Payload is the msgpack wire form of a decoded map. Tokens are laid out as
// parallel columns, which msgpack packs far tighter than an array of structs.
// Absent source/name ids are stored as the all-ones sentinel.
type Payload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	File           string
	SourceRoot     string
	DebugID        string
	Names          []string
	Sources        []string
	SourceContents []*string
	IgnoreList     []uint32

	// Token columns, all the same length
	DstLines  []uint32
	DstCols   []uint32
	SrcLines  []uint32
	SrcCols   []uint32
	SourceIDs []uint32
	NameIDs   []uint32
}

// Open initializes a disk cache at dir, or under $XDG_CACHE_HOME/app
// (falling back to ~/.cache/app) when dir is empty.
func Open(app, dir string) (*DiskCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, app)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "maps", hexKey+".mp")
}

// Put serializes a decoded map and writes it to the cache, replacing any
// previous entry atomically.
func (c *DiskCache) Put(key Digest, sm *sourcemap.SourceMap) error {
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
	defer os.Remove(f.Name())

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(toPayload(sm)); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get loads a cached map. The bool reports whether the key was present with
// a current schema; a stale schema is a miss, not an error.
func (c *DiskCache) Get(key Digest) (*sourcemap.SourceMap, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload Payload
	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(&payload); err != nil {
		return nil, false, err
	}
	if payload.Schema != schemaVersion {
		return nil, false, nil
	}
	return fromPayload(&payload), true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}

func toPayload(sm *sourcemap.SourceMap) *Payload {
	n := sm.TokenCount()
	p := &Payload{
		Schema:         schemaVersion,
		File:           sm.File(),
		SourceRoot:     sm.SourceRoot(),
		DebugID:        sm.DebugID(),
		Names:          sm.Names(),
		Sources:        sm.Sources(),
		SourceContents: sm.SourceContents(),
		IgnoreList:     sm.IgnoreList(),
		DstLines:       make([]uint32, 0, n),
		DstCols:        make([]uint32, 0, n),
		SrcLines:       make([]uint32, 0, n),
		SrcCols:        make([]uint32, 0, n),
		SourceIDs:      make([]uint32, 0, n),
		NameIDs:        make([]uint32, 0, n),
	}

	it := sm.Tokens()
	for {
		t, ok := it.Next()
		if !ok {
			break
		}
		p.DstLines = append(p.DstLines, t.DstLine)
		p.DstCols = append(p.DstCols, t.DstCol)
		p.SrcLines = append(p.SrcLines, t.SrcLine)
		p.SrcCols = append(p.SrcCols, t.SrcCol)
		p.SourceIDs = append(p.SourceIDs, optionalID(t.Source()))
		p.NameIDs = append(p.NameIDs, optionalID(t.Name()))
	}
	return p
}

func fromPayload(p *Payload) *sourcemap.SourceMap {
	tokens := make([]token.Token, len(p.DstLines))
	for i := range tokens {
		switch {
		case p.SourceIDs[i] == absentID:
			tokens[i] = token.New(p.DstLines[i], p.DstCols[i])
		case p.NameIDs[i] == absentID:
			tokens[i] = token.NewWithSource(p.DstLines[i], p.DstCols[i],
				p.SrcLines[i], p.SrcCols[i], p.SourceIDs[i])
		default:
			tokens[i] = token.NewWithName(p.DstLines[i], p.DstCols[i],
				p.SrcLines[i], p.SrcCols[i], p.SourceIDs[i], p.NameIDs[i])
		}
	}

	sm := sourcemap.New(p.File, p.Names, p.SourceRoot, p.Sources,
		p.SourceContents, tokens, nil)
	sm.SetDebugID(p.DebugID)
	sm.SetIgnoreList(p.IgnoreList)
	return sm
}

const absentID = ^uint32(0)

func optionalID(id uint32, ok bool) uint32 {
	if !ok {
		return absentID
	}
	return id
}
