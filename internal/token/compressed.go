package token

import "encoding/binary"

// checkpointInterval is how many tokens apart full-token checkpoints are
// recorded. Random access decompresses forward from the nearest checkpoint,
// so this bounds the cost of Get to O(checkpointInterval).
const checkpointInterval = 256

// Per-field format codes packed two bits each into the header byte:
// bits 0-1 dst line, bits 2-3 dst col, bits 4-5 src line, bits 6-7 src col.
const (
	formatI8Delta  = 0b00 // 1-byte signed delta
	formatI16Delta = 0b01 // 2-byte signed delta
	formatI32Delta = 0b10 // 4-byte signed delta
	formatAbsolute = 0b11 // 4-byte absolute value
)

// Tags for the optional source/name ids. "Absent" is not representable as a
// numeric offset from a present value, so transitions get their own tags.
const (
	idBothAbsent    = 0
	idBecamePresent = 1
	idBecameAbsent  = 2
	idSmallDelta    = 3
	idLargeDelta    = 4
)

// Compressed is a delta-compressed token store. The first token is kept
// verbatim; every later token is encoded relative to its predecessor using
// the smallest of four per-field formats, with a checkpoint (full token plus
// byte offset) every checkpointInterval tokens for random access.
//
// A Compressed store is immutable after construction and safe for
// concurrent readers.
type Compressed struct {
	first       Token
	data        []byte
	count       int
	checkpoints []checkpoint
}

// checkpoint pins the fully decoded token at index k*checkpointInterval and
// the byte offset of the delta record for the token after it.
type checkpoint struct {
	offset uint32
	token  Token
}

var _ Store = (*Compressed)(nil)

// Compress builds a Compressed store from tokens. The slice is not retained.
func Compress(tokens []Token) *Compressed {
	if len(tokens) == 0 {
		return &Compressed{}
	}

	c := &Compressed{
		first: tokens[0],
		count: len(tokens),
		// Rough per-token estimate; the buffer grows if deltas are wide.
		data:        make([]byte, 0, len(tokens)*8),
		checkpoints: make([]checkpoint, 0, len(tokens)/checkpointInterval+1),
	}
	c.checkpoints = append(c.checkpoints, checkpoint{offset: 0, token: tokens[0]})

	prev := tokens[0]
	for i := 1; i < len(tokens); i++ {
		c.data = appendDelta(c.data, prev, tokens[i])
		prev = tokens[i]
		if i%checkpointInterval == 0 {
			c.checkpoints = append(c.checkpoints, checkpoint{
				offset: uint32(len(c.data)),
				token:  tokens[i],
			})
		}
	}
	return c
}

// Len returns the number of stored tokens.
func (c *Compressed) Len() int { return c.count }

// Get returns the token at index i by jumping to the nearest checkpoint at
// or before i and decompressing forward.
func (c *Compressed) Get(i int) (Token, bool) {
	if i < 0 || i >= c.count {
		return Token{}, false
	}

	pos := i / checkpointInterval
	if pos >= len(c.checkpoints) {
		pos = len(c.checkpoints) - 1
	}
	cp := c.checkpoints[pos]

	cur := cp.token
	offset := int(cp.offset)
	for j := pos * checkpointInterval; j < i; j++ {
		var n int
		cur, n = readDelta(c.data[offset:], cur)
		offset += n
	}
	return cur, true
}

// Last returns the final token.
func (c *Compressed) Last() (Token, bool) {
	if c.count == 0 {
		return Token{}, false
	}
	return c.Get(c.count - 1)
}

// Iter returns a forward iterator over all tokens.
func (c *Compressed) Iter() *Iterator {
	return c.IterFrom(0)
}

// IterFrom returns an iterator positioned before index start, seeking via
// the nearest checkpoint at or before it.
func (c *Compressed) IterFrom(start int) *Iterator {
	if start < 0 {
		start = 0
	}

	i := start
	var cur Token
	offset := 0
	primed := false // cur holds the token at index i-1

	if start > 0 && start < c.count {
		// Seek to the token before start: use the checkpoint covering
		// start-1 so the decoded state pairs with the record for start.
		pos := (start - 1) / checkpointInterval
		if pos >= len(c.checkpoints) {
			pos = len(c.checkpoints) - 1
		}
		cp := c.checkpoints[pos]
		cur = cp.token
		offset = int(cp.offset)
		for j := pos * checkpointInterval; j < start-1; j++ {
			var n int
			cur, n = readDelta(c.data[offset:], cur)
			offset += n
		}
		primed = true
	}

	return &Iterator{next: func() (Token, bool) {
		if i >= c.count {
			return Token{}, false
		}
		if i == 0 {
			i++
			cur = c.first
			primed = true
			return c.first, true
		}
		if !primed {
			// Unreachable by construction, but keep the iterator total.
			return Token{}, false
		}
		var n int
		cur, n = readDelta(c.data[offset:], cur)
		offset += n
		i++
		return cur, true
	}}
}

// appendDelta encodes tok relative to prev and appends the record to data.
func appendDelta(data []byte, prev, tok Token) []byte {
	dstLineDelta := int64(tok.DstLine) - int64(prev.DstLine)
	dstColDelta := int64(tok.DstCol) - int64(prev.DstCol)
	srcLineDelta := int64(tok.SrcLine) - int64(prev.SrcLine)
	srcColDelta := int64(tok.SrcCol) - int64(prev.SrcCol)

	dstLineFmt := fieldFormat(dstLineDelta)
	dstColFmt := fieldFormat(dstColDelta)
	srcLineFmt := fieldFormat(srcLineDelta)
	srcColFmt := fieldFormat(srcColDelta)

	header := dstLineFmt | dstColFmt<<2 | srcLineFmt<<4 | srcColFmt<<6
	data = append(data, header)

	data = appendField(data, tok.DstLine, dstLineDelta, dstLineFmt)
	data = appendField(data, tok.DstCol, dstColDelta, dstColFmt)
	data = appendField(data, tok.SrcLine, srcLineDelta, srcLineFmt)
	data = appendField(data, tok.SrcCol, srcColDelta, srcColFmt)

	data = appendOptionalID(data, prev.rawSourceID(), tok.rawSourceID())
	data = appendOptionalID(data, prev.rawNameID(), tok.rawNameID())
	return data
}

// readDelta decodes one record from data relative to prev, returning the
// reconstructed token and the record length in bytes.
func readDelta(data []byte, prev Token) (Token, int) {
	header := data[0]
	pos := 1

	dstLine, n := readField(data[pos:], prev.DstLine, header&0b11)
	pos += n
	dstCol, n := readField(data[pos:], prev.DstCol, header>>2&0b11)
	pos += n
	srcLine, n := readField(data[pos:], prev.SrcLine, header>>4&0b11)
	pos += n
	srcCol, n := readField(data[pos:], prev.SrcCol, header>>6&0b11)
	pos += n

	sourceID, n := readOptionalID(data[pos:], prev.rawSourceID())
	pos += n
	nameID, n := readOptionalID(data[pos:], prev.rawNameID())
	pos += n

	return fromRaw(dstLine, dstCol, srcLine, srcCol, sourceID, nameID), pos
}

// fieldFormat picks the smallest format that represents delta exactly.
func fieldFormat(delta int64) byte {
	switch {
	case delta >= -128 && delta <= 127:
		return formatI8Delta
	case delta >= -32768 && delta <= 32767:
		return formatI16Delta
	case delta >= -2147483648 && delta <= 2147483647:
		return formatI32Delta
	default:
		return formatAbsolute
	}
}

func appendField(data []byte, value uint32, delta int64, format byte) []byte {
	switch format {
	case formatI8Delta:
		return append(data, byte(int8(delta)))
	case formatI16Delta:
		return binary.LittleEndian.AppendUint16(data, uint16(int16(delta)))
	case formatI32Delta:
		return binary.LittleEndian.AppendUint32(data, uint32(int32(delta)))
	default:
		return binary.LittleEndian.AppendUint32(data, value)
	}
}

func readField(data []byte, prev uint32, format byte) (uint32, int) {
	switch format {
	case formatI8Delta:
		return uint32(int64(prev) + int64(int8(data[0]))), 1
	case formatI16Delta:
		d := int16(binary.LittleEndian.Uint16(data))
		return uint32(int64(prev) + int64(d)), 2
	case formatI32Delta:
		d := int32(binary.LittleEndian.Uint32(data))
		return uint32(int64(prev) + int64(d)), 4
	default:
		return binary.LittleEndian.Uint32(data), 4
	}
}

// appendOptionalID encodes a sentinel-form id transition.
func appendOptionalID(data []byte, prev, cur uint32) []byte {
	switch {
	case prev == invalidID && cur == invalidID:
		return append(data, idBothAbsent)
	case prev == invalidID:
		data = append(data, idBecamePresent)
		return binary.LittleEndian.AppendUint32(data, cur)
	case cur == invalidID:
		return append(data, idBecameAbsent)
	default:
		delta := int64(cur) - int64(prev)
		if delta >= -127 && delta <= 127 {
			data = append(data, idSmallDelta)
			return append(data, byte(int8(delta)))
		}
		data = append(data, idLargeDelta)
		return binary.LittleEndian.AppendUint32(data, uint32(int32(delta)))
	}
}

func readOptionalID(data []byte, prev uint32) (uint32, int) {
	switch data[0] {
	case idBothAbsent, idBecameAbsent:
		return invalidID, 1
	case idBecamePresent:
		return binary.LittleEndian.Uint32(data[1:]), 5
	case idSmallDelta:
		return uint32(int64(prev) + int64(int8(data[1]))), 2
	default:
		d := int32(binary.LittleEndian.Uint32(data[1:]))
		return uint32(int64(prev) + int64(d)), 5
	}
}
