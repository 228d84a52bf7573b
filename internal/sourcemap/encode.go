package sourcemap

import (
	"encoding/json"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"srcmap/internal/token"
	"srcmap/internal/vlq"
)

// ToJSON renders the map as a Source Map v3 JSON document. Encoding is a
// total function over a well-formed SourceMap and only fails if the string
// tables contain invalid UTF-8 the JSON encoder rejects.
func (sm *SourceMap) ToJSON() ([]byte, error) {
	doc := jsonSourceMap{
		Version:        3,
		File:           sm.file,
		SourceRoot:     sm.sourceRoot,
		Names:          sm.names,
		Sources:        sm.sources,
		SourcesContent: sm.sourceContents,
		IgnoreList:     sm.ignoreList,
		Mappings:       sm.Mappings(),
		DebugID:        sm.debugID,
	}
	if doc.Names == nil {
		doc.Names = []string{}
	}
	if doc.Sources == nil {
		doc.Sources = []string{}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("sourcemap: encoding JSON: %w", err)
	}
	return data, nil
}

// Mappings encodes the token stream back to the VLQ mappings string. When
// the map carries more than one chunk the chunks are encoded concurrently;
// the output is byte-identical to the sequential encoding because each
// chunk resumes from its own snapshot state.
func (sm *SourceMap) Mappings() string {
	chunks := sm.chunkList()
	if len(chunks) < 2 {
		var buf []byte
		if len(chunks) == 1 {
			buf = make([]byte, 0, estimateMappingsLen(sm.tokens, chunks))
			buf = appendMappings(buf, sm.tokens, chunks[0])
		}
		return string(buf)
	}

	bufs := make([][]byte, len(chunks))
	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())
	for i, ch := range chunks {
		i, ch := i, ch
		g.Go(func() error {
			bufs[i] = appendMappings(nil, sm.tokens, ch)
			return nil
		})
	}
	// The workers only write their own slot and never fail.
	_ = g.Wait()

	out := make([]byte, 0, estimateMappingsLen(sm.tokens, chunks))
	for _, b := range bufs {
		out = append(out, b...)
	}
	return string(out)
}

// chunkList returns the explicit chunks, or one implicit chunk covering the
// whole stream with zeroed resume state.
func (sm *SourceMap) chunkList() []token.Chunk {
	if sm.tokenChunks != nil {
		return sm.tokenChunks
	}
	if sm.tokens.Len() == 0 {
		return nil
	}
	return []token.Chunk{{Start: 0, End: uint32(sm.tokens.Len())}}
}

// estimateMappingsLen over-approximates the encoded size: segments average
// well under 10 bytes, plus one ';' per generated line.
func estimateMappingsLen(store token.Store, chunks []token.Chunk) int {
	n := 0
	for _, ch := range chunks {
		n += int(ch.End-ch.Start) * 10
	}
	if last, ok := store.Last(); ok {
		n += int(last.DstLine)
	}
	return n
}

// appendMappings encodes the tokens of one chunk, resuming the delta state
// captured in the chunk, and appends the segments to buf.
func appendMappings(buf []byte, store token.Store, ch token.Chunk) []byte {
	prevDstLine := ch.PrevDstLine
	prevDstCol := ch.PrevDstCol
	prevSrcLine := ch.PrevSrcLine
	prevSrcCol := ch.PrevSrcCol
	prevNameID := ch.PrevNameID
	prevSourceID := ch.PrevSourceID

	var prevTok token.Token
	hasPrev := false
	if ch.Start > 0 {
		prevTok, hasPrev = store.Get(int(ch.Start) - 1)
	}

	it := store.IterFrom(int(ch.Start))
	for i := ch.Start; i < ch.End; i++ {
		tok, ok := it.Next()
		if !ok {
			break
		}

		if lineBreaks := tok.DstLine - prevDstLine; lineBreaks != 0 {
			for k := uint32(0); k < lineBreaks; k++ {
				buf = append(buf, ';')
			}
			prevDstCol = 0
			prevDstLine += lineBreaks
		} else if hasPrev {
			// The codec is idempotent under exact duplicates.
			if prevTok == tok {
				continue
			}
			buf = append(buf, ',')
		}

		buf = vlq.AppendDiff(buf, tok.DstCol, prevDstCol)
		prevDstCol = tok.DstCol

		if sourceID, ok := tok.Source(); ok {
			buf = vlq.AppendDiff(buf, sourceID, prevSourceID)
			prevSourceID = sourceID
			buf = vlq.AppendDiff(buf, tok.SrcLine, prevSrcLine)
			prevSrcLine = tok.SrcLine
			buf = vlq.AppendDiff(buf, tok.SrcCol, prevSrcCol)
			prevSrcCol = tok.SrcCol
			if nameID, ok := tok.Name(); ok {
				buf = vlq.AppendDiff(buf, nameID, prevNameID)
				prevNameID = nameID
			}
		}

		prevTok = tok
		hasPrev = true
	}

	return buf
}
