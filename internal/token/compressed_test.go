package token

import (
	"fmt"
	"testing"
)

// ============================================================================
// Token Tests
// ============================================================================

func TestTokenEquality(t *testing.T) {
	// Constructors normalize unused ids so == compares logical fields.
	a := New(1, 2)
	b := New(1, 2)
	if a != b {
		t.Errorf("New(1,2) != New(1,2)")
	}

	withSource := NewWithSource(1, 2, 3, 4, 5)
	if a == withSource {
		t.Errorf("token without source compared equal to token with source")
	}

	if _, ok := a.Source(); ok {
		t.Errorf("New token reports a source id")
	}
	if id, ok := withSource.Source(); !ok || id != 5 {
		t.Errorf("Source() = (%d, %v), want (5, true)", id, ok)
	}
	if _, ok := withSource.Name(); ok {
		t.Errorf("NewWithSource token reports a name id")
	}

	withName := NewWithName(1, 2, 3, 4, 5, 6)
	if id, ok := withName.Name(); !ok || id != 6 {
		t.Errorf("Name() = (%d, %v), want (6, true)", id, ok)
	}
}

// ============================================================================
// Compressed Store Tests
// ============================================================================

// makeTokens builds a deterministic sequence that exercises every delta
// format: small and large jumps, id appearance, disappearance and drift.
func makeTokens(n int) []Token {
	tokens := make([]Token, 0, n)
	for i := 0; i < n; i++ {
		dstLine := uint32(i / 3)
		dstCol := uint32(i%3) * 7
		switch i % 4 {
		case 0:
			tokens = append(tokens, New(dstLine, dstCol))
		case 1:
			tokens = append(tokens, NewWithSource(dstLine, dstCol, uint32(i), uint32(i*1000), uint32(i%5)))
		case 2:
			// Jumps past int32 range force the wider formats, including the
			// absolute fallback.
			tokens = append(tokens, NewWithSource(dstLine, dstCol+100000, uint32(i), 4000000000, uint32(i*70000)))
		default:
			tokens = append(tokens, NewWithName(dstLine, dstCol, uint32(i), uint32(i), uint32(i%5), uint32(i%7)))
		}
	}
	return tokens
}

func TestCompressedRoundTrip(t *testing.T) {
	sizes := []int{0, 1, 2, 3, 255, 256, 257, 700}

	for _, size := range sizes {
		t.Run(fmt.Sprintf("size_%d", size), func(t *testing.T) {
			original := makeTokens(size)
			store := Compress(original)

			if store.Len() != size {
				t.Fatalf("Len() = %d, want %d", store.Len(), size)
			}

			collected := store.Iter().Collect()
			if len(collected) != size {
				t.Fatalf("Collect() returned %d tokens, want %d", len(collected), size)
			}
			for i := range original {
				if collected[i] != original[i] {
					t.Errorf("iter token %d = %+v, want %+v", i, collected[i], original[i])
				}
			}
		})
	}
}

func TestCompressedGet(t *testing.T) {
	// Spans three checkpoint intervals so Get crosses checkpoint boundaries.
	original := makeTokens(600)
	store := Compress(original)

	for i := range original {
		got, ok := store.Get(i)
		if !ok {
			t.Fatalf("Get(%d) reported missing", i)
		}
		if got != original[i] {
			t.Errorf("Get(%d) = %+v, want %+v", i, got, original[i])
		}
	}
}

func TestCompressedGetOutOfRange(t *testing.T) {
	store := Compress(makeTokens(10))

	if _, ok := store.Get(-1); ok {
		t.Errorf("Get(-1) reported present")
	}
	if _, ok := store.Get(10); ok {
		t.Errorf("Get(10) reported present")
	}
}

func TestCompressedLast(t *testing.T) {
	original := makeTokens(300)
	store := Compress(original)

	last, ok := store.Last()
	if !ok {
		t.Fatalf("Last() reported missing")
	}
	if last != original[299] {
		t.Errorf("Last() = %+v, want %+v", last, original[299])
	}

	empty := Compress(nil)
	if _, ok := empty.Last(); ok {
		t.Errorf("empty store Last() reported present")
	}
}

func TestCompressedIterFrom(t *testing.T) {
	original := makeTokens(600)
	store := Compress(original)

	// Starts around checkpoint boundaries are the interesting cases.
	starts := []int{0, 1, 2, 255, 256, 257, 511, 512, 599, 600}

	for _, start := range starts {
		t.Run(fmt.Sprintf("start_%d", start), func(t *testing.T) {
			got := store.IterFrom(start).Collect()
			want := original[start:]
			if len(got) != len(want) {
				t.Fatalf("IterFrom(%d) yielded %d tokens, want %d", start, len(got), len(want))
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("token %d = %+v, want %+v", i, got[i], want[i])
				}
			}
		})
	}
}

func TestCompressedEmptyIter(t *testing.T) {
	store := Compress(nil)
	if got := store.Iter().Collect(); len(got) != 0 {
		t.Errorf("empty store iter yielded %d tokens", len(got))
	}
}
