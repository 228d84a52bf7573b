// Package api provides the public API for the source map toolbox.
//
// This package is intended for programmatic use of the codec and query
// engine. For CLI usage, see cmd/srcmap.
package api

import (
	"srcmap/internal/sourcemap"
	"srcmap/internal/token"
)

// SourceMap is a decoded Source Map v3 document. It is immutable once built
// and safe for concurrent readers.
type SourceMap = sourcemap.SourceMap

// Token correlates a generated position with an optional original position.
type Token = token.Token

// TokenChunk describes a token range with the encoder state needed to
// re-encode it independently of earlier tokens.
type TokenChunk = token.Chunk

// TokenView is a token with its owning map's string tables attached.
type TokenView = sourcemap.TokenView

// LookupTable indexes a map's tokens by generated line for reverse lookup.
type LookupTable = sourcemap.LookupTable

// Builder assembles a SourceMap incrementally.
type Builder = sourcemap.Builder

// ConcatBuilder merges several source maps into one.
type ConcatBuilder = sourcemap.ConcatBuilder

// Input pairs a source map with its generated-line offset for merging.
type Input = sourcemap.Input

// Visualizer renders a human-readable view of a map against generated code.
type Visualizer = sourcemap.Visualizer

// Decode errors. A failed Parse returns exactly one of these.
type (
	UnsupportedVersionError = sourcemap.UnsupportedVersionError
	BadSegmentSizeError     = sourcemap.BadSegmentSizeError
	BadSourceReferenceError = sourcemap.BadSourceReferenceError
	BadNameReferenceError   = sourcemap.BadNameReferenceError
)

// Parse decodes a Source Map v3 JSON document, including its VLQ mappings.
func Parse(data []byte) (*SourceMap, error) {
	return sourcemap.FromJSON(data)
}

// NewToken returns a token without a source reference.
func NewToken(dstLine, dstCol uint32) Token {
	return token.New(dstLine, dstCol)
}

// NewTokenWithSource returns a token mapping to an original source position.
func NewTokenWithSource(dstLine, dstCol, srcLine, srcCol, sourceID uint32) Token {
	return token.NewWithSource(dstLine, dstCol, srcLine, srcCol, sourceID)
}

// NewTokenWithName returns a token with both a source and a name reference.
func NewTokenWithName(dstLine, dstCol, srcLine, srcCol, sourceID, nameID uint32) Token {
	return token.NewWithName(dstLine, dstCol, srcLine, srcCol, sourceID, nameID)
}

// NewSourceMap builds a map directly from its parts. Most callers should use
// Parse, NewBuilder or Concat instead.
func NewSourceMap(file string, names []string, sourceRoot string, sources []string,
	sourceContents []*string, tokens []Token, chunks []TokenChunk) *SourceMap {
	return sourcemap.New(file, names, sourceRoot, sources, sourceContents, tokens, chunks)
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return sourcemap.NewBuilder()
}

// NewConcatBuilder returns an empty ConcatBuilder.
func NewConcatBuilder() *ConcatBuilder {
	return sourcemap.NewConcatBuilder()
}

// Concat merges the inputs into one builder, pre-sizing the combined tables.
func Concat(inputs []Input) *ConcatBuilder {
	return sourcemap.FromSourceMaps(inputs)
}

// NewVisualizer pairs generated code with its source map.
func NewVisualizer(code string, sm *SourceMap) *Visualizer {
	return sourcemap.NewVisualizer(code, sm)
}
