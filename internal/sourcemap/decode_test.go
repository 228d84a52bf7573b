package sourcemap

import (
	"errors"
	"testing"

	"srcmap/internal/token"
	"srcmap/internal/vlq"
)

// ============================================================================
// JSON Decoding Tests
// ============================================================================

const testDocument = `{
	"version": 3,
	"sources": ["coolstuff.js"],
	"sourceRoot": "x",
	"names": ["x","alert"],
	"mappings": "AAAA,GAAIA,GAAI,EACR,IAAIA,GAAK,EAAG,CACVC,MAAM",
	"x_google_ignoreList": [0]
}`

func TestFromJSON(t *testing.T) {
	sm, err := FromJSON([]byte(testDocument))
	if err != nil {
		t.Fatalf("FromJSON error: %v", err)
	}

	if sm.SourceRoot() != "x" {
		t.Errorf("SourceRoot() = %q, want %q", sm.SourceRoot(), "x")
	}
	if list := sm.IgnoreList(); len(list) != 1 || list[0] != 0 {
		t.Errorf("IgnoreList() = %v, want [0]", list)
	}
	if sm.TokenCount() != 9 {
		t.Fatalf("TokenCount() = %d, want 9", sm.TokenCount())
	}

	// The tokens that carry names, with their resolved strings.
	want := []struct {
		srcLine, srcCol uint32
		name            string
	}{
		{0, 4, "x"},
		{1, 4, "x"},
		{2, 2, "alert"},
	}

	var named []TokenView
	for i := 0; i < sm.TokenCount(); i++ {
		view, _ := sm.TokenView(i)
		if _, ok := view.Name(); ok {
			named = append(named, view)
		}
	}

	if len(named) != len(want) {
		t.Fatalf("found %d named tokens, want %d", len(named), len(want))
	}
	for i, w := range want {
		v := named[i]
		if v.SrcLine != w.srcLine || v.SrcCol != w.srcCol {
			t.Errorf("named token %d at src %d:%d, want %d:%d",
				i, v.SrcLine, v.SrcCol, w.srcLine, w.srcCol)
		}
		if name, _ := v.NameString(); name != w.name {
			t.Errorf("named token %d name = %q, want %q", i, name, w.name)
		}
		if source, _ := v.SourceName(); source != "coolstuff.js" {
			t.Errorf("named token %d source = %q, want %q", i, source, "coolstuff.js")
		}
	}
}

func TestFromJSONOptionalFields(t *testing.T) {
	input := `{
		"version": 3,
		"names": [],
		"sources": [],
		"sourcesContent": [null],
		"mappings": ""
	}`
	sm, err := FromJSON([]byte(input))
	if err != nil {
		t.Fatalf("FromJSON error: %v", err)
	}
	if sm.TokenCount() != 0 {
		t.Errorf("TokenCount() = %d, want 0", sm.TokenCount())
	}
}

func TestFromJSONIgnoreListAlias(t *testing.T) {
	// The renamed "ignoreList" spelling is accepted on input.
	input := `{
		"version": 3,
		"names": [],
		"sources": ["a.js", "b.js"],
		"mappings": "",
		"ignoreList": [1]
	}`
	sm, err := FromJSON([]byte(input))
	if err != nil {
		t.Fatalf("FromJSON error: %v", err)
	}
	if list := sm.IgnoreList(); len(list) != 1 || list[0] != 1 {
		t.Errorf("IgnoreList() = %v, want [1]", list)
	}
}

func TestFromJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, err error)
	}{
		{
			name:  "unsupported_version",
			input: `{"version": 2, "names": [], "sources": [], "mappings": ""}`,
			check: func(t *testing.T, err error) {
				var verr *UnsupportedVersionError
				if !errors.As(err, &verr) {
					t.Fatalf("error = %v, want UnsupportedVersionError", err)
				}
				if verr.Version != 2 {
					t.Errorf("Version = %d, want 2", verr.Version)
				}
			},
		},
		{
			name:  "bad_segment_size",
			input: `{"version": 3, "names": [], "sources": [], "mappings": "AA"}`,
			check: func(t *testing.T, err error) {
				var serr *BadSegmentSizeError
				if !errors.As(err, &serr) {
					t.Fatalf("error = %v, want BadSegmentSizeError", err)
				}
				if serr.Size != 2 {
					t.Errorf("Size = %d, want 2", serr.Size)
				}
			},
		},
		{
			name:  "vlq_leftover",
			input: `{"version": 3, "names": [], "sources": [], "mappings": "g"}`,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, vlq.ErrLeftover) {
					t.Fatalf("error = %v, want %v", err, vlq.ErrLeftover)
				}
			},
		},
		{
			name: "ignore_list_one_past_end",
			input: `{"version": 3, "names": [], "sources": ["a.js"],
				"mappings": "", "x_google_ignoreList": [1]}`,
			check: func(t *testing.T, err error) {
				var serr *BadSourceReferenceError
				if !errors.As(err, &serr) {
					t.Fatalf("error = %v, want BadSourceReferenceError", err)
				}
				if serr.ID != 1 {
					t.Errorf("ID = %d, want 1", serr.ID)
				}
			},
		},
		{
			name:  "source_reference_out_of_range",
			input: `{"version": 3, "names": [], "sources": [], "mappings": "AAAA"}`,
			check: func(t *testing.T, err error) {
				var serr *BadSourceReferenceError
				if !errors.As(err, &serr) {
					t.Fatalf("error = %v, want BadSourceReferenceError", err)
				}
			},
		},
		{
			name: "name_reference_out_of_range",
			input: `{"version": 3, "names": [], "sources": ["a.js"],
				"mappings": "AAAAA"}`,
			check: func(t *testing.T, err error) {
				var nerr *BadNameReferenceError
				if !errors.As(err, &nerr) {
					t.Fatalf("error = %v, want BadNameReferenceError", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromJSON([]byte(tt.input))
			if err == nil {
				t.Fatalf("FromJSON succeeded, want error")
			}
			tt.check(t, err)
		})
	}
}

// ============================================================================
// Mappings Decoding Tests
// ============================================================================

func TestDecodeMappings(t *testing.T) {
	tokens, err := DecodeMappings("AAAA,GAAIA;;GAAI", 1, 1)
	if err != nil {
		t.Fatalf("DecodeMappings error: %v", err)
	}

	want := []token.Token{
		token.NewWithSource(0, 0, 0, 0, 0),
		token.NewWithName(0, 3, 0, 4, 0, 0),
		token.NewWithSource(2, 3, 0, 8, 0),
	}
	if len(tokens) != len(want) {
		t.Fatalf("decoded %d tokens, want %d", len(tokens), len(want))
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("token %d = %+v, want %+v", i, tokens[i], want[i])
		}
	}
}

func TestDecodeMappingsEmptySegments(t *testing.T) {
	// Consecutive commas and semicolons carry no tokens.
	tokens, err := DecodeMappings(";;,;", 0, 0)
	if err != nil {
		t.Fatalf("DecodeMappings error: %v", err)
	}
	if len(tokens) != 0 {
		t.Errorf("decoded %d tokens, want 0", len(tokens))
	}
}

func TestDecodeMappingsColumnResetsPerLine(t *testing.T) {
	// Destination column state resets at ';', the other deltas persist.
	tokens, err := DecodeMappings("IACA;IACA", 0, 1)
	if err != nil {
		t.Fatalf("DecodeMappings error: %v", err)
	}

	want := []token.Token{
		token.NewWithSource(0, 4, 1, 0, 0),
		token.NewWithSource(1, 4, 2, 0, 0),
	}
	if len(tokens) != len(want) {
		t.Fatalf("decoded %d tokens, want %d", len(tokens), len(want))
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("token %d = %+v, want %+v", i, tokens[i], want[i])
		}
	}
}

func TestDecodeMappingsNegativePosition(t *testing.T) {
	// A delta that drives a position below zero is rejected.
	_, err := DecodeMappings("D", 0, 0)
	var serr *BadSegmentSizeError
	if !errors.As(err, &serr) {
		t.Fatalf("error = %v, want BadSegmentSizeError", err)
	}
	if serr.Size != 0 {
		t.Errorf("Size = %d, want 0", serr.Size)
	}
}

func TestDecodeMappingsOversizedSegment(t *testing.T) {
	_, err := DecodeMappings("AAAAAA", 1, 1)
	var serr *BadSegmentSizeError
	if !errors.As(err, &serr) {
		t.Fatalf("error = %v, want BadSegmentSizeError", err)
	}
	if serr.Size != 6 {
		t.Errorf("Size = %d, want 6", serr.Size)
	}
}
