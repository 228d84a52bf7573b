// Package vlq implements the base64 variable-length-quantity integer
// encoding used by the Source Map v3 "mappings" format.
//
// Values are sign-folded (bit 0 of the first group carries the sign) and
// emitted least-significant group first, five bits per base64 digit, with
// bit 5 acting as the continuation bit.
package vlq

import "errors"

// Base64 alphabet used for VLQ encoding in source maps.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// MaxEncodedLen is the longest possible encoding of a single value.
// Deltas between two uint32 positions fit in 33 bits after sign folding,
// which is ceil(33/5) = 7 base64 digits.
const MaxEncodedLen = 7

const (
	baseShift       = 5
	baseMask        = 1<<baseShift - 1 // 0x1F
	continuationBit = 1 << baseShift   // 0x20
)

var (
	// ErrOverflow reports a VLQ run whose accumulated shift exceeds the
	// safe range. Well-formed source maps never produce this; corrupt or
	// malicious input can.
	ErrOverflow = errors.New("vlq: value overflow")

	// ErrLeftover reports input that ended while a group's continuation
	// bit was still set.
	ErrLeftover = errors.New("vlq: leftover continuation bits")

	// ErrNoValues reports a segment that contained no decodable values.
	ErrNoValues = errors.New("vlq: no values in segment")
)

// digits maps every byte to its base64 value, or -1 for bytes outside
// the alphabet.
var digits [256]int8

func init() {
	for i := range digits {
		digits[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		digits[alphabet[i]] = int8(i)
	}
}

// Append encodes v and appends the base64 digits to dst, returning the
// extended slice. At most MaxEncodedLen bytes are appended for values in
// the range produced by subtracting two uint32s.
func Append(dst []byte, v int64) []byte {
	var folded uint64
	if v < 0 {
		folded = uint64(-v)<<1 | 1
	} else {
		folded = uint64(v) << 1
	}

	for {
		digit := folded & baseMask
		folded >>= baseShift
		if folded != 0 {
			digit |= continuationBit
		}
		dst = append(dst, alphabet[digit])
		if folded == 0 {
			return dst
		}
	}
}

// AppendDiff encodes a-b (both uint32 positions) and appends it to dst.
func AppendDiff(dst []byte, a, b uint32) []byte {
	return Append(dst, int64(a)-int64(b))
}

// Decode reads a single VLQ value from the start of data. It returns the
// decoded value and the number of bytes consumed.
func Decode(data []byte) (int64, int, error) {
	var cur int64
	var shift uint
	for i := 0; i < len(data); i++ {
		enc := int64(digits[data[i]])
		val := enc & baseMask
		cont := enc >> baseShift
		if shift > 62 {
			return 0, 0, ErrOverflow
		}
		cur += val << shift
		shift += baseShift
		if cont == 0 {
			sign := cur & 1
			cur >>= 1
			if sign != 0 {
				cur = -cur
			}
			return cur, i + 1, nil
		}
	}
	if shift != 0 {
		return 0, 0, ErrLeftover
	}
	return 0, 0, ErrNoValues
}

// ParseSegment decodes VLQ values starting at *cursor until a ',' or ';'
// separator or the end of data. Decoded values are stored into out; values
// past len(out) are counted but discarded so the caller can report the true
// segment size. The cursor is advanced past the consumed digits but not past
// the separator.
func ParseSegment(data []byte, cursor *int, out *[5]int64) (int, error) {
	var cur int64
	var shift uint
	n := 0

	for *cursor < len(data) {
		c := data[*cursor]
		if c == ',' || c == ';' {
			break
		}

		enc := int64(digits[c])
		val := enc & baseMask
		cont := enc >> baseShift

		if shift > 62 {
			return 0, ErrOverflow
		}
		cur += val << shift
		*cursor++
		shift += baseShift

		if cont == 0 {
			sign := cur & 1
			cur >>= 1
			if sign != 0 {
				cur = -cur
			}
			if n < len(out) {
				out[n] = cur
			}
			n++
			cur = 0
			shift = 0
		}
	}

	if cur != 0 || shift != 0 {
		return 0, ErrLeftover
	}
	if n == 0 {
		return 0, ErrNoValues
	}
	return n, nil
}
