package cache

import (
	"testing"

	"srcmap/internal/sourcemap"
)

// ============================================================================
// Disk Cache Tests
// ============================================================================

const testDocument = `{
	"version": 3,
	"file": "out.js",
	"sources": ["coolstuff.js"],
	"sourceRoot": "x",
	"names": ["x","alert"],
	"mappings": "AAAA,GAAIA,GAAI,EACR,IAAIA,GAAK,EAAG,CACVC,MAAM",
	"x_google_ignoreList": [0],
	"debugId": "56431d54-c0a6-451d-8ea2-ba5de5d8ca2e"
}`

func TestCacheRoundTrip(t *testing.T) {
	dc, err := Open("srcmap-test", t.TempDir())
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}

	data := []byte(testDocument)
	sm, err := sourcemap.FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON error: %v", err)
	}

	key := Key(data)
	if err := dc.Put(key, sm); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	got, ok, err := dc.Get(key)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !ok {
		t.Fatalf("Get reported a miss after Put")
	}

	if got.File() != sm.File() {
		t.Errorf("File() = %q, want %q", got.File(), sm.File())
	}
	if got.SourceRoot() != sm.SourceRoot() {
		t.Errorf("SourceRoot() = %q, want %q", got.SourceRoot(), sm.SourceRoot())
	}
	if got.DebugID() != sm.DebugID() {
		t.Errorf("DebugID() = %q, want %q", got.DebugID(), sm.DebugID())
	}
	if len(got.IgnoreList()) != 1 || got.IgnoreList()[0] != 0 {
		t.Errorf("IgnoreList() = %v, want [0]", got.IgnoreList())
	}

	if got.TokenCount() != sm.TokenCount() {
		t.Fatalf("TokenCount() = %d, want %d", got.TokenCount(), sm.TokenCount())
	}
	for i := 0; i < sm.TokenCount(); i++ {
		a, _ := sm.Token(i)
		b, _ := got.Token(i)
		if a != b {
			t.Errorf("token %d = %+v, want %+v", i, b, a)
		}
	}

	// The restored map re-encodes identically.
	aj, err := sm.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON error: %v", err)
	}
	bj, err := got.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON error: %v", err)
	}
	if string(aj) != string(bj) {
		t.Errorf("re-encoded documents differ:\n%s\n%s", aj, bj)
	}
}

func TestCacheMiss(t *testing.T) {
	dc, err := Open("srcmap-test", t.TempDir())
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}

	_, ok, err := dc.Get(Key([]byte("never stored")))
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if ok {
		t.Errorf("Get reported a hit for a key that was never stored")
	}
}

func TestCacheKeyIsContentAddressed(t *testing.T) {
	a := Key([]byte("document a"))
	b := Key([]byte("document b"))
	if a == b {
		t.Errorf("different documents produced the same key")
	}
	if a != Key([]byte("document a")) {
		t.Errorf("same document produced different keys")
	}
}

func TestCacheNilReceiver(t *testing.T) {
	// A nil cache is a no-op, so callers can skip the enabled check.
	var dc *DiskCache
	if err := dc.Put(Digest{}, nil); err != nil {
		t.Errorf("nil Put error: %v", err)
	}
	if _, ok, err := dc.Get(Digest{}); ok || err != nil {
		t.Errorf("nil Get = (%v, %v), want miss", ok, err)
	}
	if err := dc.DropAll(); err != nil {
		t.Errorf("nil DropAll error: %v", err)
	}
}

func TestCacheDropAll(t *testing.T) {
	dir := t.TempDir()
	dc, err := Open("srcmap-test", dir)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}

	data := []byte(testDocument)
	sm, err := sourcemap.FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON error: %v", err)
	}
	key := Key(data)
	if err := dc.Put(key, sm); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	if err := dc.DropAll(); err != nil {
		t.Fatalf("DropAll error: %v", err)
	}
	if _, ok, _ := dc.Get(key); ok {
		t.Errorf("Get reported a hit after DropAll")
	}
}
