// Package token defines the mapping token model shared by the codec,
// lookup and merge layers, plus the compact token storage.
package token

// invalidID is the in-storage sentinel for an absent source or name id.
// It never escapes the package: public accessors expose presence through
// the HasSource/HasName flags instead.
const invalidID = ^uint32(0)

// Token correlates a position in the generated output with an optional
// position in an original source. It is a plain value and is copied freely.
//
// SourceID is only meaningful when HasSource is set, and NameID only when
// HasName is set; constructors normalize unused ids to zero so that ==
// compares tokens by their logical fields.
type Token struct {
	DstLine   uint32
	DstCol    uint32
	SrcLine   uint32
	SrcCol    uint32
	SourceID  uint32
	NameID    uint32
	HasSource bool
	HasName   bool
}

// New returns a token without a source reference.
func New(dstLine, dstCol uint32) Token {
	return Token{DstLine: dstLine, DstCol: dstCol}
}

// NewWithSource returns a token mapping to an original source position.
func NewWithSource(dstLine, dstCol, srcLine, srcCol, sourceID uint32) Token {
	return Token{
		DstLine:   dstLine,
		DstCol:    dstCol,
		SrcLine:   srcLine,
		SrcCol:    srcCol,
		SourceID:  sourceID,
		HasSource: true,
	}
}

// NewWithName returns a token with both a source and a name reference.
func NewWithName(dstLine, dstCol, srcLine, srcCol, sourceID, nameID uint32) Token {
	t := NewWithSource(dstLine, dstCol, srcLine, srcCol, sourceID)
	t.NameID = nameID
	t.HasName = true
	return t
}

// Source returns the source id and whether one is present.
func (t Token) Source() (uint32, bool) {
	return t.SourceID, t.HasSource
}

// Name returns the name id and whether one is present.
func (t Token) Name() (uint32, bool) {
	return t.NameID, t.HasName
}

// rawSourceID returns the source id in sentinel form for compact storage.
func (t Token) rawSourceID() uint32 {
	if !t.HasSource {
		return invalidID
	}
	return t.SourceID
}

// rawNameID returns the name id in sentinel form for compact storage.
func (t Token) rawNameID() uint32 {
	if !t.HasName {
		return invalidID
	}
	return t.NameID
}

// fromRaw rebuilds a token from sentinel-form ids.
func fromRaw(dstLine, dstCol, srcLine, srcCol, sourceID, nameID uint32) Token {
	t := Token{DstLine: dstLine, DstCol: dstCol, SrcLine: srcLine, SrcCol: srcCol}
	if sourceID != invalidID {
		t.SourceID = sourceID
		t.HasSource = true
	}
	if nameID != invalidID {
		t.NameID = nameID
		t.HasName = true
	}
	return t
}

// Chunk describes a contiguous half-open range [Start, End) of token
// indices together with a snapshot of the mapping encoder's delta state as
// it was before the chunk begins. Chunks partition the full token range and
// let the encoder resume mid-stream without re-scanning earlier tokens,
// which is what makes segmented and parallel re-encoding possible.
type Chunk struct {
	Start uint32
	End   uint32

	PrevDstLine  uint32
	PrevDstCol   uint32
	PrevSrcLine  uint32
	PrevSrcCol   uint32
	PrevNameID   uint32
	PrevSourceID uint32
}
