package sourcemap

import (
	"fmt"

	"fortio.org/safecast"

	"srcmap/internal/token"
)

// Builder assembles a SourceMap incrementally: intern names and sources to
// get their ids, append tokens in generated order, then Build. The zero
// value is ready to use.
type Builder struct {
	file           string
	names          []string
	namesMap       map[string]uint32
	sources        []string
	sourcesMap     map[string]uint32
	sourceContents []*string
	tokens         []token.Token
	tokenChunks    []token.Chunk
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		namesMap:   make(map[string]uint32),
		sourcesMap: make(map[string]uint32),
	}
}

// AddName interns a symbol name and returns its id. Adding an equal string
// again returns the existing id.
func (b *Builder) AddName(name string) uint32 {
	if id, ok := b.namesMap[name]; ok {
		return id
	}
	id := mustUint32(len(b.names))
	b.namesMap[name] = id
	b.names = append(b.names, name)
	return id
}

// AddSourceAndContent interns a source path with its content and returns
// the source id. Use this when the same source may be added repeatedly.
func (b *Builder) AddSourceAndContent(source, content string) uint32 {
	if id, ok := b.sourcesMap[source]; ok {
		return id
	}
	return b.SetSourceAndContent(source, content)
}

// SetSourceAndContent appends a source without consulting the intern map,
// for callers that already know the source is new. It still records the id
// so a later AddSourceAndContent finds it.
func (b *Builder) SetSourceAndContent(source, content string) uint32 {
	id := mustUint32(len(b.sources))
	b.sourcesMap[source] = id
	b.sources = append(b.sources, source)
	b.sourceContents = append(b.sourceContents, &content)
	return id
}

// AddToken appends a mapping token. Tokens must be added in non-decreasing
// (DstLine, DstCol) order; the builder does not re-sort.
func (b *Builder) AddToken(t token.Token) {
	b.tokens = append(b.tokens, t)
}

// SetFile sets the generated file name.
func (b *Builder) SetFile(file string) {
	b.file = file
}

// SetTokenChunks records a chunk partition so the built map can be
// re-encoded in independent segments.
func (b *Builder) SetTokenChunks(chunks []token.Chunk) {
	b.tokenChunks = chunks
}

// Build produces the immutable SourceMap. The Builder must not be reused.
func (b *Builder) Build() *SourceMap {
	return New(b.file, b.names, "", b.sources, b.sourceContents, b.tokens, b.tokenChunks)
}

// mustUint32 converts a table length to an id. Id tables are bounded by the
// uint32 wire format; exceeding it is a programming error, not bad input.
func mustUint32(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("sourcemap: id table overflow: %w", err))
	}
	return v
}
