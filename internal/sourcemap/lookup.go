package sourcemap

import (
	"sort"

	"srcmap/internal/token"
)

// LookupTable is a read-only index for reverse lookup: one slice of tokens
// per generated line, in destination-column order (inherited from the token
// stream invariant). Lines with no tokens get an empty slice.
type LookupTable [][]token.Token

// GenerateLookupTable partitions the token stream by generated line. The
// table is a pure function of the immutable token store, so it can be built
// once and queried from any number of goroutines.
func (sm *SourceMap) GenerateLookupTable() LookupTable {
	last, ok := sm.tokens.Last()
	if !ok {
		return nil
	}

	table := make(LookupTable, last.DstLine+1)
	it := sm.tokens.Iter()
	for {
		t, ok := it.Next()
		if !ok {
			break
		}
		table[t.DstLine] = append(table[t.DstLine], t)
	}
	return table
}

// LookupToken finds the token mapping the generated position (line, col),
// using greatest-lower-bound search: the token with the largest
// (DstLine, DstCol) not exceeding the query. Columns conceptually extend to
// the end of their line, but lines do not extrapolate: a line past the
// table has no mapping.
func (sm *SourceMap) LookupToken(table LookupTable, line, col uint32) (token.Token, bool) {
	if int64(line) >= int64(len(table)) {
		return token.Token{}, false
	}
	return greatestLowerBound(table[line], col)
}

// LookupTokenView is LookupToken with the string tables attached.
func (sm *SourceMap) LookupTokenView(table LookupTable, line, col uint32) (TokenView, bool) {
	t, ok := sm.LookupToken(table, line, col)
	if !ok {
		return TokenView{}, false
	}
	return TokenView{Token: t, sm: sm}, true
}

// greatestLowerBound returns the token on one line with the largest DstCol
// not exceeding col. On an exact column match it walks back over preceding
// tokens with the same column and returns the first of the run: when several
// tokens describe the same generated offset, the first recorded mapping wins.
func greatestLowerBound(line []token.Token, col uint32) (token.Token, bool) {
	idx := sort.Search(len(line), func(i int) bool {
		return line[i].DstCol > col
	})
	if idx == 0 {
		return token.Token{}, false
	}
	idx--

	if line[idx].DstCol == col {
		// Exact matches are rare and runs of them short, so a linear walk
		// back beats restructuring the search.
		for idx > 0 && line[idx-1].DstCol == col {
			idx--
		}
	}
	return line[idx], true
}
