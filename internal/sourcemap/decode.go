package sourcemap

import (
	"encoding/json"
	"fmt"

	"srcmap/internal/token"
	"srcmap/internal/vlq"
)

// jsonSourceMap mirrors the Source Map v3 JSON envelope. Only the fields the
// codec governs are typed; file, sourceRoot, sourcesContent and debugId are
// carried opaquely.
type jsonSourceMap struct {
	Version        int       `json:"version"`
	File           string    `json:"file,omitempty"`
	SourceRoot     string    `json:"sourceRoot,omitempty"`
	Names          []string  `json:"names"`
	Sources        []string  `json:"sources"`
	SourcesContent []*string `json:"sourcesContent,omitempty"`
	// x_google_ignoreList was renamed to ignoreList in later drafts of the
	// spec; both spellings are accepted on input.
	IgnoreList       []uint32 `json:"x_google_ignoreList,omitempty"`
	IgnoreListLegacy []uint32 `json:"ignoreList,omitempty"`
	Mappings         string   `json:"mappings"`
	DebugID          string   `json:"debugId,omitempty"`
}

// FromJSON decodes a Source Map v3 JSON document. Any malformed field
// (wrong version, out-of-range ignore-list index, an invalid mappings
// string) rejects the whole document; no partial result is returned.
func FromJSON(data []byte) (*SourceMap, error) {
	var raw jsonSourceMap
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("sourcemap: parsing JSON: %w", err)
	}
	if raw.Version != 3 {
		return nil, &UnsupportedVersionError{Version: raw.Version}
	}

	ignoreList := raw.IgnoreList
	if ignoreList == nil {
		ignoreList = raw.IgnoreListLegacy
	}
	for _, idx := range ignoreList {
		if int64(idx) >= int64(len(raw.Sources)) {
			return nil, &BadSourceReferenceError{ID: int64(idx)}
		}
	}

	tokens, err := DecodeMappings(raw.Mappings, len(raw.Names), len(raw.Sources))
	if err != nil {
		return nil, err
	}

	return &SourceMap{
		file:           raw.File,
		sourceRoot:     raw.SourceRoot,
		names:          raw.Names,
		sources:        raw.Sources,
		sourceContents: raw.SourcesContent,
		tokens:         token.Compress(tokens),
		ignoreList:     ignoreList,
	}, nil
}

// DecodeMappings decodes a v3 mappings string into tokens. namesLen and
// sourcesLen bound the valid id ranges. Tokens come out in parse order,
// which is non-decreasing in (DstLine, DstCol) by construction.
//
// Segments are separated by ',' (next token, same generated line) and ';'
// (next generated line, column state reset). The other running deltas
// persist across the whole string.
func DecodeMappings(mappings string, namesLen, sourcesLen int) ([]token.Token, error) {
	data := []byte(mappings)

	// Upper-bound token estimate: each separator delimits at most one segment.
	estimated := 1
	for _, b := range data {
		if b == ',' || b == ';' {
			estimated++
		}
	}
	tokens := make([]token.Token, 0, estimated)

	var dstLine, dstCol, srcID, srcLine, srcCol, nameID uint32
	var nums [5]int64
	cursor := 0

	for cursor < len(data) {
		switch data[cursor] {
		case ',':
			// Empty segment, skip.
			cursor++
		case ';':
			dstLine++
			dstCol = 0
			cursor++
		default:
			n, err := vlq.ParseSegment(data, &cursor, &nums)
			if err != nil {
				return nil, err
			}

			newDstCol := int64(dstCol) + nums[0]
			if newDstCol < 0 {
				return nil, &BadSegmentSizeError{Size: 0}
			}
			dstCol = uint32(newDstCol)

			if n == 1 {
				tokens = append(tokens, token.New(dstLine, dstCol))
				continue
			}
			if n != 4 && n != 5 {
				return nil, &BadSegmentSizeError{Size: uint32(n)}
			}

			newSrcID := int64(srcID) + nums[1]
			if newSrcID < 0 || newSrcID >= int64(sourcesLen) {
				return nil, &BadSourceReferenceError{ID: newSrcID}
			}
			srcID = uint32(newSrcID)

			newSrcLine := int64(srcLine) + nums[2]
			if newSrcLine < 0 {
				return nil, &BadSegmentSizeError{Size: 0}
			}
			srcLine = uint32(newSrcLine)

			newSrcCol := int64(srcCol) + nums[3]
			if newSrcCol < 0 {
				return nil, &BadSegmentSizeError{Size: 0}
			}
			srcCol = uint32(newSrcCol)

			if n == 5 {
				newNameID := int64(nameID) + nums[4]
				if newNameID < 0 || newNameID >= int64(namesLen) {
					return nil, &BadNameReferenceError{ID: newNameID}
				}
				nameID = uint32(newNameID)
				tokens = append(tokens, token.NewWithName(dstLine, dstCol, srcLine, srcCol, srcID, nameID))
			} else {
				tokens = append(tokens, token.NewWithSource(dstLine, dstCol, srcLine, srcCol, srcID))
			}
		}
	}

	return tokens, nil
}
