// Package sourcemap implements the Source Map v3 format: decoding the JSON
// document and its base64-VLQ "mappings" string into a compact token
// stream, re-encoding that stream, reverse position lookup, incremental
// building and multi-map concatenation.
//
// See https://sourcemaps.info/spec.html and the TC39 source map spec.
package sourcemap

import (
	"encoding/base64"

	"srcmap/internal/token"
)

// SourceMap is the decoded aggregate. It is built once (by FromJSON, a
// Builder or a ConcatBuilder) and is immutable afterwards, so a published
// *SourceMap is safe for concurrent readers without locking.
//
// Empty file, sourceRoot and debugID strings mean the field is absent.
// A nil entry in sourceContents means that source has no embedded content.
type SourceMap struct {
	file           string
	sourceRoot     string
	names          []string
	sources        []string
	sourceContents []*string
	tokens         token.Store
	tokenChunks    []token.Chunk // nil means one implicit chunk over all tokens
	ignoreList     []uint32      // nil means absent
	debugID        string
}

// New builds a SourceMap from already-validated parts. The token slice is
// delta-compressed and not retained. chunks may be nil.
func New(file string, names []string, sourceRoot string, sources []string,
	sourceContents []*string, tokens []token.Token, chunks []token.Chunk) *SourceMap {
	return &SourceMap{
		file:           file,
		sourceRoot:     sourceRoot,
		names:          names,
		sources:        sources,
		sourceContents: sourceContents,
		tokens:         token.Compress(tokens),
		tokenChunks:    chunks,
	}
}

// File returns the generated file name, if any.
func (sm *SourceMap) File() string { return sm.file }

// SetFile sets the generated file name. Builder-phase only: callers must
// not mutate a SourceMap that has been shared across goroutines.
func (sm *SourceMap) SetFile(file string) { sm.file = file }

// SourceRoot returns the sourceRoot field, if any.
func (sm *SourceMap) SourceRoot() string { return sm.sourceRoot }

// DebugID returns the debug id correlating this map with its generated
// artifact, if any.
func (sm *SourceMap) DebugID() string { return sm.debugID }

// SetDebugID sets the debug id. Builder-phase only.
func (sm *SourceMap) SetDebugID(debugID string) { sm.debugID = debugID }

// IgnoreList returns the x_google_ignoreList source indices, or nil.
func (sm *SourceMap) IgnoreList() []uint32 { return sm.ignoreList }

// SetIgnoreList sets the ignore list. Builder-phase only.
func (sm *SourceMap) SetIgnoreList(list []uint32) { sm.ignoreList = list }

// Names returns the name table in id order.
func (sm *SourceMap) Names() []string { return sm.names }

// Sources returns the source table in id order.
func (sm *SourceMap) Sources() []string { return sm.sources }

// SetSources replaces the source table. Builder-phase only.
func (sm *SourceMap) SetSources(sources []string) { sm.sources = sources }

// SetSourceContents replaces the embedded contents. Builder-phase only.
// A nil entry means no content for that source.
func (sm *SourceMap) SetSourceContents(contents []*string) {
	sm.sourceContents = contents
}

// Name returns the name for id.
func (sm *SourceMap) Name(id uint32) (string, bool) {
	if int(id) >= len(sm.names) {
		return "", false
	}
	return sm.names[id], true
}

// Source returns the source path for id.
func (sm *SourceMap) Source(id uint32) (string, bool) {
	if int(id) >= len(sm.sources) {
		return "", false
	}
	return sm.sources[id], true
}

// SourceContent returns the embedded content for source id.
func (sm *SourceMap) SourceContent(id uint32) (string, bool) {
	if int(id) >= len(sm.sourceContents) || sm.sourceContents[id] == nil {
		return "", false
	}
	return *sm.sourceContents[id], true
}

// SourceContents returns the embedded content table, parallel to Sources.
func (sm *SourceMap) SourceContents() []*string { return sm.sourceContents }

// TokenCount returns the number of mapping tokens.
func (sm *SourceMap) TokenCount() int { return sm.tokens.Len() }

// Token returns the token at index i.
func (sm *SourceMap) Token(i int) (token.Token, bool) { return sm.tokens.Get(i) }

// Tokens returns a forward iterator over all tokens.
func (sm *SourceMap) Tokens() *token.Iterator { return sm.tokens.Iter() }

// TokenChunks returns the chunk partition used for segmented re-encoding,
// or nil when the whole stream is one implicit chunk.
func (sm *SourceMap) TokenChunks() []token.Chunk { return sm.tokenChunks }

// TokenView returns the token at index i with its string tables attached.
func (sm *SourceMap) TokenView(i int) (TokenView, bool) {
	t, ok := sm.tokens.Get(i)
	if !ok {
		return TokenView{}, false
	}
	return TokenView{Token: t, sm: sm}, true
}

// ToDataURL renders the map as a base64 data URL for inline embedding.
func (sm *SourceMap) ToDataURL() (string, error) {
	doc, err := sm.ToJSON()
	if err != nil {
		return "", err
	}
	return "data:application/json;charset=utf-8;base64," +
		base64.StdEncoding.EncodeToString(doc), nil
}

// TokenView pairs a token with the map that owns its name and source ids.
type TokenView struct {
	token.Token

	sm *SourceMap
}

// SourceName returns the resolved source path for the token.
func (v TokenView) SourceName() (string, bool) {
	id, ok := v.Source()
	if !ok {
		return "", false
	}
	return v.sm.Source(id)
}

// NameString returns the resolved symbol name for the token.
func (v TokenView) NameString() (string, bool) {
	id, ok := v.Name()
	if !ok {
		return "", false
	}
	return v.sm.Name(id)
}

// Content returns the embedded content of the token's source.
func (v TokenView) Content() (string, bool) {
	id, ok := v.Source()
	if !ok {
		return "", false
	}
	return v.sm.SourceContent(id)
}
