package token

// Store is the read contract every consumer of a token stream depends on.
// Implementations must preserve the stream invariant that (DstLine, DstCol)
// is non-decreasing in iteration order.
//
// The concrete storage strategy behind a Store is swappable: the codec,
// lookup and merge layers only ever call Len, Get, Last and Iter.
type Store interface {
	// Len returns the number of tokens.
	Len() int

	// Get returns the token at index i, or false when i is out of range.
	Get(i int) (Token, bool)

	// Last returns the final token, or false for an empty store.
	Last() (Token, bool)

	// Iter returns a forward iterator positioned before the first token.
	// Sequential iteration costs O(1) amortized per token.
	Iter() *Iterator

	// IterFrom returns a forward iterator positioned before index i, so a
	// chunk encoder can resume mid-stream without re-reading earlier tokens.
	IterFrom(i int) *Iterator
}

// Iterator walks a token stream front to back.
type Iterator struct {
	next func() (Token, bool)
}

// Next returns the next token, or false when the stream is exhausted.
func (it *Iterator) Next() (Token, bool) {
	return it.next()
}

// Collect drains the iterator into a slice. Mostly a test convenience.
func (it *Iterator) Collect() []Token {
	var out []Token
	for {
		t, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, t)
	}
}
