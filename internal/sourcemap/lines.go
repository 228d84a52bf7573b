package sourcemap

import (
	"strings"
	"unicode/utf16"
)

// lineTablesUTF16 splits content into lines of UTF-16 code units, the unit
// source map columns are counted in. Each line keeps its terminator so
// column arithmetic matches what generators emit; "\r\n" counts as one
// terminator. JS line terminators U+2028 and U+2029 also end a line.
func lineTablesUTF16(content string) [][]uint16 {
	var tables [][]uint16
	lineStart := 0
	for i, ch := range content {
		switch ch {
		case '\r':
			if i+1 < len(content) && content[i+1] == '\n' {
				continue
			}
			tables = append(tables, utf16.Encode([]rune(content[lineStart:i+1])))
			lineStart = i + 1
		case '\n', '\u2028', '\u2029':
			end := i + len(string(ch))
			tables = append(tables, utf16.Encode([]rune(content[lineStart:end])))
			lineStart = end
		}
	}
	tables = append(tables, utf16.Encode([]rune(content[lineStart:])))
	return tables
}

// sliceLineUTF16 extracts [start, end) of a line's UTF-16 units as a string,
// clamping both bounds to the line length and stripping carriage returns so
// the snippet prints on one line.
func sliceLineUTF16(lines [][]uint16, line, start, end uint32) string {
	units := lines[line]
	lo := min(int(start), int(end), len(units))
	hi := min(max(int(start), int(end)), len(units))
	s := string(utf16.Decode(units[lo:hi]))
	return strings.ReplaceAll(s, "\r", "")
}
