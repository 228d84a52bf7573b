package sourcemap

import (
	"srcmap/internal/token"
)

// Input pairs a source map with the generated-line offset at which its
// output was placed in the concatenated artifact.
type Input struct {
	Map        *SourceMap
	LineOffset uint32
}

// ConcatBuilder merges several source maps into one, renumbering source and
// name ids past the already-merged tables and shifting generated lines by
// each input's offset. Inputs are never mutated; Build produces a fresh
// aggregate.
//
// Every added map contributes one token chunk whose snapshot captures the
// encoder state before the map's tokens, so the combined map re-encodes per
// chunk without re-reading earlier chunks.
type ConcatBuilder struct {
	names          []string
	sources        []string
	sourceContents []*string
	tokens         []token.Token
	tokenChunks    []token.Chunk

	// Last source/name id actually emitted; chunk snapshots need the
	// delta baseline, which only advances when a field is present.
	prevSourceID uint32
	prevNameID   uint32
}

// NewConcatBuilder returns an empty ConcatBuilder.
func NewConcatBuilder() *ConcatBuilder {
	return &ConcatBuilder{}
}

// NewConcatBuilderWithCapacity pre-allocates the combined tables. Purely a
// performance knob: results are identical to the zero-capacity path.
func NewConcatBuilderWithCapacity(namesLen, sourcesLen, tokensLen, chunksLen int) *ConcatBuilder {
	return &ConcatBuilder{
		names:          make([]string, 0, namesLen),
		sources:        make([]string, 0, sourcesLen),
		sourceContents: make([]*string, 0, sourcesLen),
		tokens:         make([]token.Token, 0, tokensLen),
		tokenChunks:    make([]token.Chunk, 0, chunksLen),
	}
}

// FromSourceMaps computes the total capacity up front, then adds every
// input. The resulting mappings are byte-identical to building with
// repeated AddSourceMap calls.
func FromSourceMaps(inputs []Input) *ConcatBuilder {
	var namesLen, sourcesLen, tokensLen int
	for _, in := range inputs {
		namesLen += len(in.Map.names)
		sourcesLen += len(in.Map.sources)
		tokensLen += in.Map.TokenCount()
	}

	b := NewConcatBuilderWithCapacity(namesLen, sourcesLen, tokensLen, len(inputs))
	for _, in := range inputs {
		b.AddSourceMap(in.Map, in.LineOffset)
	}
	return b
}

// AddSourceMap appends one map's names, sources, contents and tokens,
// offsetting generated lines by lineOffset and ids by the pre-append table
// lengths. When the first re-emitted token is logically identical to the
// last combined token, it is dropped: two inputs that abut exactly would
// otherwise leave a duplicate mapping at the concatenation boundary.
func (b *ConcatBuilder) AddSourceMap(sm *SourceMap, lineOffset uint32) {
	sourceOffset := mustUint32(len(b.sources))
	nameOffset := mustUint32(len(b.names))

	// Snapshot the encoder resume state before this input's tokens.
	chunk := token.Chunk{
		Start:        mustUint32(len(b.tokens)),
		PrevNameID:   b.prevNameID,
		PrevSourceID: b.prevSourceID,
	}
	if last, ok := lastToken(b.tokens); ok {
		chunk.PrevDstLine = last.DstLine
		chunk.PrevDstCol = last.DstCol
		chunk.PrevSrcLine = last.SrcLine
		chunk.PrevSrcCol = last.SrcCol
	}

	b.sources = append(b.sources, sm.sources...)
	b.names = append(b.names, sm.names...)

	// Contents stay parallel to sources even when an input carries none.
	b.sourceContents = append(b.sourceContents, sm.sourceContents...)
	for i := len(sm.sourceContents); i < len(sm.sources); i++ {
		b.sourceContents = append(b.sourceContents, nil)
	}

	first := true
	it := sm.tokens.Iter()
	for {
		t, ok := it.Next()
		if !ok {
			break
		}

		t.DstLine += lineOffset
		if t.HasSource {
			t.SourceID += sourceOffset
		}
		if t.HasName {
			t.NameID += nameOffset
		}

		if first {
			first = false
			if last, ok := lastToken(b.tokens); ok && last == t {
				continue
			}
		}

		if t.HasSource {
			b.prevSourceID = t.SourceID
		}
		if t.HasName {
			b.prevNameID = t.NameID
		}
		b.tokens = append(b.tokens, t)
	}

	chunk.End = mustUint32(len(b.tokens))
	b.tokenChunks = append(b.tokenChunks, chunk)
}

// Build produces the merged SourceMap.
func (b *ConcatBuilder) Build() *SourceMap {
	return New("", b.names, "", b.sources, b.sourceContents, b.tokens, b.tokenChunks)
}

func lastToken(tokens []token.Token) (token.Token, bool) {
	if len(tokens) == 0 {
		return token.Token{}, false
	}
	return tokens[len(tokens)-1], true
}
