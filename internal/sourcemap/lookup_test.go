package sourcemap

import (
	"testing"

	"srcmap/internal/token"
)

// ============================================================================
// Reverse Lookup Tests
// ============================================================================

func TestLookupToken(t *testing.T) {
	sm, err := FromJSON([]byte(testDocument))
	if err != nil {
		t.Fatalf("FromJSON error: %v", err)
	}
	table := sm.GenerateLookupTable()

	tests := []struct {
		name             string
		line, col        uint32
		wantSrc, wantCol uint32
		wantName         string
	}{
		{"exact_first", 0, 0, 0, 0, ""},
		{"nearest_below", 0, 2, 0, 0, ""},
		{"exact_named", 0, 3, 0, 4, "x"},
		{"exact_last", 0, 24, 2, 8, ""},
		{"columns_extend_to_eol", 0, 1000, 2, 8, ""},
		{"between_tokens", 0, 4, 0, 4, "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, ok := sm.LookupTokenView(table, tt.line, tt.col)
			if !ok {
				t.Fatalf("LookupTokenView(%d, %d) found nothing", tt.line, tt.col)
			}
			if view.SrcLine != tt.wantSrc || view.SrcCol != tt.wantCol {
				t.Errorf("src position = %d:%d, want %d:%d",
					view.SrcLine, view.SrcCol, tt.wantSrc, tt.wantCol)
			}
			name, hasName := view.NameString()
			if tt.wantName == "" && hasName {
				t.Errorf("unexpected name %q", name)
			}
			if tt.wantName != "" && name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
		})
	}
}

func TestLookupTokenPastLastLine(t *testing.T) {
	sm, err := FromJSON([]byte(testDocument))
	if err != nil {
		t.Fatalf("FromJSON error: %v", err)
	}
	table := sm.GenerateLookupTable()

	// Columns extrapolate, lines do not.
	if _, ok := sm.LookupToken(table, 1000, 0); ok {
		t.Errorf("LookupToken(1000, 0) found a token")
	}
}

func TestLookupGreatestLowerBound(t *testing.T) {
	tokens := []token.Token{
		token.NewWithSource(0, 0, 0, 0, 0),
		token.NewWithName(0, 4, 0, 4, 0, 0),
		token.NewWithSource(2, 2, 2, 2, 0),
	}
	sm := New("", []string{"x"}, "", []string{"coolstuff.js"}, nil, tokens, nil)
	table := sm.GenerateLookupTable()

	// (0,3) falls between the tokens at columns 0 and 4: nearest below wins.
	got, ok := sm.LookupToken(table, 0, 3)
	if !ok {
		t.Fatalf("LookupToken(0, 3) found nothing")
	}
	if got != tokens[0] {
		t.Errorf("LookupToken(0, 3) = %+v, want %+v", got, tokens[0])
	}

	// (0,1000) resolves to the last token on line 0.
	got, ok = sm.LookupToken(table, 0, 1000)
	if !ok {
		t.Fatalf("LookupToken(0, 1000) found nothing")
	}
	if got != tokens[1] {
		t.Errorf("LookupToken(0, 1000) = %+v, want %+v", got, tokens[1])
	}

	// Line 1 has no tokens at all.
	if _, ok := sm.LookupToken(table, 1, 50); ok {
		t.Errorf("LookupToken(1, 50) found a token on an empty line")
	}

	if _, ok := sm.LookupToken(table, 1000, 0); ok {
		t.Errorf("LookupToken(1000, 0) found a token past the table")
	}
}

func TestLookupFirstOfEqualColumnRun(t *testing.T) {
	// Several tokens at the same generated position: the first one wins.
	tokens := []token.Token{
		token.NewWithSource(0, 2, 0, 0, 0),
		token.NewWithSource(0, 2, 5, 5, 0),
		token.NewWithSource(0, 2, 9, 9, 0),
	}
	sm := New("", nil, "", []string{"a.js"}, nil, tokens, nil)
	table := sm.GenerateLookupTable()

	got, ok := sm.LookupToken(table, 0, 2)
	if !ok {
		t.Fatalf("LookupToken(0, 2) found nothing")
	}
	if got != tokens[0] {
		t.Errorf("LookupToken(0, 2) = %+v, want first token %+v", got, tokens[0])
	}
}

func TestGenerateLookupTableEmpty(t *testing.T) {
	sm := New("", nil, "", nil, nil, nil, nil)
	table := sm.GenerateLookupTable()
	if table != nil {
		t.Errorf("GenerateLookupTable() = %v, want nil", table)
	}
	if _, ok := sm.LookupToken(table, 0, 0); ok {
		t.Errorf("LookupToken on empty map found a token")
	}
}
