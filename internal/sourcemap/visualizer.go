package sourcemap

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"srcmap/internal/token"
)

// Visualizer renders a human-readable view of how a source map ties
// generated code back to its originals. Intended for debugging and golden
// tests, not for production output.
type Visualizer struct {
	code string
	sm   *SourceMap
}

// NewVisualizer pairs generated code with its source map.
func NewVisualizer(code string, sm *SourceMap) *Visualizer {
	return &Visualizer{code: code, sm: sm}
}

// URL returns a link that opens the code and map in the evanw source map
// visualizer. The fragment is base64 of "len\0code len\0json".
func (v *Visualizer) URL() (string, error) {
	mapJSON, err := v.sm.ToJSON()
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(len(v.code)))
	sb.WriteByte(0)
	sb.WriteString(v.code)
	sb.WriteString(strconv.Itoa(len(mapJSON)))
	sb.WriteByte(0)
	sb.Write(mapJSON)
	hash := base64.StdEncoding.EncodeToString([]byte(sb.String()))
	return "https://evanw.github.io/source-map-visualization/#" + hash, nil
}

// Text renders one line per token: the original position and snippet, then
// the generated position and snippet. Each snippet runs to the next token on
// the same line, or to end of line. Tokens pointing outside their text get an
// "[invalid]" marker instead of a snippet. A "- source" header is emitted
// whenever the source file changes.
func (v *Visualizer) Text() string {
	var sb strings.Builder

	contents := v.sm.SourceContents()
	if len(contents) == 0 {
		sb.WriteString("[no source contents]\n")
		return sb.String()
	}

	// Indexed by source id; sources without content stay nil and their
	// tokens are skipped.
	sourceLines := make([][][]uint16, len(contents))
	for id, content := range contents {
		if content != nil {
			sourceLines[id] = lineTablesUTF16(*content)
		}
	}
	outputLines := lineTablesUTF16(v.code)

	tokens := v.sm.Tokens().Collect()

	lastSource := ""
	haveSource := false
	for i, t := range tokens {
		sourceID, ok := t.Source()
		if !ok || int(sourceID) >= len(sourceLines) || sourceLines[sourceID] == nil {
			continue
		}
		source, ok := v.sm.Source(sourceID)
		if !ok {
			continue
		}
		srcLines := sourceLines[sourceID]

		if !haveSource || source != lastSource {
			sb.WriteString("- ")
			sb.WriteString(source)
			sb.WriteByte('\n')
			lastSource = source
			haveSource = true
		}

		dstInvalid := int(t.DstLine) >= len(outputLines) ||
			int(t.DstCol) >= len(outputLines[t.DstLine])
		srcInvalid := int(t.SrcLine) >= len(srcLines) ||
			int(t.SrcCol) >= len(srcLines[t.SrcLine])
		if dstInvalid || srcInvalid {
			fmt.Fprintf(&sb, "(%d:%d)%s --> (%d:%d)%s\n",
				t.SrcLine, t.SrcCol, invalidMark(srcInvalid),
				t.DstLine, t.DstCol, invalidMark(dstInvalid))
			continue
		}

		dstEndCol := uint32(len(outputLines[t.DstLine]))
		if i+1 < len(tokens) && tokens[i+1].DstLine == t.DstLine {
			dstEndCol = tokens[i+1].DstCol
		}
		srcEndCol := nextSrcCol(tokens[i+1:], t, uint32(len(srcLines[t.SrcLine])))

		fmt.Fprintf(&sb, "(%d:%d) %q --> (%d:%d) %q\n",
			t.SrcLine, t.SrcCol,
			sliceLineUTF16(srcLines, t.SrcLine, t.SrcCol, srcEndCol),
			t.DstLine, t.DstCol,
			sliceLineUTF16(outputLines, t.DstLine, t.DstCol, dstEndCol))
	}

	return sb.String()
}

// nextSrcCol finds where t's original snippet ends: the source column of the
// next token on the same original line, skipping duplicates and backward
// references. eol is the fallback when no later token qualifies.
func nextSrcCol(rest []token.Token, t token.Token, eol uint32) uint32 {
	s, _ := t.Source()
	for _, t2 := range rest {
		s2, ok := t2.Source()
		if !ok || s2 != s || t2.SrcLine != t.SrcLine {
			break
		}
		if t2.SrcCol <= t.SrcCol {
			continue
		}
		return t2.SrcCol
	}
	return eol
}

func invalidMark(invalid bool) string {
	if invalid {
		return " [invalid]"
	}
	return ""
}
