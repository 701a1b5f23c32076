package parser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pable/go-fab-history/internal/model"
)

func TestParseResult(t *testing.T) {
	tests := []struct {
		name string
		text string
		want model.ResultTag
	}{
		{"player 1 win", "Player 1 Win", model.ResultPlayerAWin},
		{"player 2 win", "Player 2 Win", model.ResultPlayerBWin},
		{"extra whitespace and case", "  PLAYER   2   wins ", model.ResultPlayerBWin},
		{"short form", "p1 won", model.ResultPlayerAWin},
		{"name of player a", "Alice wins", model.ResultPlayerAWin},
		{"name of player b", "bob won the match", model.ResultPlayerBWin},
		{"draw", "Draw", model.ResultDraw},
		{"tie", "tie game", model.ResultDraw},
		{"both sides named", "Player 1 Win / Player 2 Win", model.ResultUnknown},
		{"no marker", "Concession", model.ResultUnknown},
		{"digit glued to marker", "player 12 win", model.ResultUnknown},
		{"empty", "", model.ResultUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseResult(tt.text, "Alice", "Bob"); got != tt.want {
				t.Errorf("ParseResult(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestParseResult_NameIsWordBounded(t *testing.T) {
	// "Al" must not match inside "Alice".
	if got := ParseResult("Alice wins", "Al", "Alice"); got != model.ResultPlayerBWin {
		t.Errorf("got %v, want PlayerBWin", got)
	}

	// A name that ends the other player's name only wins on its own.
	cases := []struct {
		text, a, b string
		want       model.ResultTag
	}{
		{"Bob Smith wins", "Bob Smith", "Smith", model.ResultPlayerAWin},
		{"Bob Smith wins", "Smith", "Bob Smith", model.ResultPlayerBWin},
		{"Smith wins", "Bob Smith", "Smith", model.ResultPlayerBWin},
		{"Bob Smith wins, Smith wins", "Bob Smith", "Smith", model.ResultUnknown},
	}
	for _, c := range cases {
		if got := ParseResult(c.text, c.a, c.b); got != c.want {
			t.Errorf("ParseResult(%q, %q, %q) = %v, want %v", c.text, c.a, c.b, got, c.want)
		}
	}
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"True", "yes", "1", "Y", "rated"} {
		if v, ok := ParseBool(s); !ok || !v {
			t.Errorf("ParseBool(%q) = %v, %v; want true, true", s, v, ok)
		}
	}
	for _, s := range []string{"False", "no", "0", "unrated"} {
		if v, ok := ParseBool(s); !ok || v {
			t.Errorf("ParseBool(%q) = %v, %v; want false, true", s, v, ok)
		}
	}
	if _, ok := ParseBool("sometimes"); ok {
		t.Error("ParseBool(sometimes) should not be ok")
	}
}

func TestNormalize_Valid(t *testing.T) {
	rec, err := Normalize(RawRow{Row: 1, PlayerA: " Alice ", PlayerB: "Bob", Round: "3", Result: "Player 1 Win", Rated: "True"})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rec.PlayerA != "Alice" || rec.PlayerB != "Bob" || rec.Round != "3" || !rec.Rated {
		t.Errorf("unexpected record %+v", rec)
	}
	if rec.Result != model.ResultPlayerAWin {
		t.Errorf("result = %v, want PlayerAWin", rec.Result)
	}
}

func TestNormalize_UnknownResultIsNotAnError(t *testing.T) {
	rec, err := Normalize(RawRow{Row: 1, PlayerA: "Alice", PlayerB: "Bob", Round: "1", Result: "???", Rated: "false"})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rec.Result != model.ResultUnknown {
		t.Errorf("result = %v, want Unknown", rec.Result)
	}
}

func TestNormalize_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		row    RawRow
		fields []string
	}{
		{"missing b and round", RawRow{Row: 4, PlayerA: "Alice", Result: "Player 1 Win", Rated: "true"}, []string{"player_b", "round"}},
		{"bad rated", RawRow{Row: 5, PlayerA: "Alice", PlayerB: "Bob", Round: "1", Result: "Player 1 Win", Rated: "perhaps"}, []string{"rated"}},
		{"same player", RawRow{Row: 6, PlayerA: "Alice", PlayerB: "alice", Round: "1", Result: "Player 1 Win", Rated: "true"}, []string{"player_a", "player_b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.row)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if verr.Row != tt.row.Row {
				t.Errorf("row = %d, want %d", verr.Row, tt.row.Row)
			}
			if strings.Join(verr.Fields, ",") != strings.Join(tt.fields, ",") {
				t.Errorf("fields = %v, want %v", verr.Fields, tt.fields)
			}
		})
	}
}

const sampleCSV = `Player 1,Player 2,Round,Result,Rated,Notes
Alice,Bob,1,Player 1 Win,True,first
Alice,Carol,1,Player 2 Win,False,
Carol,Alice,2,Player 2 Win,True,
Dave,Alice,3,no idea,False,
`

func TestReadCSVAndNormalizeAll(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(sampleCSV), ColumnMap{})
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	if rows[0].Row != 1 || rows[3].Row != 4 {
		t.Errorf("row numbers not 1-based: %d..%d", rows[0].Row, rows[3].Row)
	}

	recs, diag, err := NormalizeAll(rows)
	if err != nil {
		t.Fatalf("NormalizeAll: %v", err)
	}
	if len(recs) != 4 {
		t.Errorf("expected 4 records, got %d", len(recs))
	}
	if diag.Rows != 4 || diag.UnknownResults != 1 {
		t.Errorf("diagnostics = %+v, want rows=4 unknown=1", diag)
	}
}

func TestReadCSV_CustomColumns(t *testing.T) {
	in := "first,second,heat,outcome,ranked\nAlice,Bob,A,Bob wins,no\n"
	cols := ColumnMap{PlayerA: "first", PlayerB: "second", Round: "heat", Result: "outcome", Rated: "ranked"}
	rows, err := ReadCSV(strings.NewReader(in), cols)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(rows) != 1 || rows[0].Result != "Bob wins" || rows[0].Round != "A" {
		t.Errorf("unexpected rows %+v", rows)
	}
}

func TestReadCSV_MissingColumn(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("Player 1,Player 2,Round,Result\nA,B,1,Player 1 Win\n"), ColumnMap{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if verr.Row != 0 || len(verr.Fields) != 1 || !strings.HasPrefix(verr.Fields[0], "rated") {
		t.Errorf("unexpected error %+v", verr)
	}
}

func TestNormalizeAll_CollectsEveryInvalidRow(t *testing.T) {
	rows := []RawRow{
		{Row: 1, PlayerA: "A", PlayerB: "B", Round: "1", Result: "Player 1 Win", Rated: "true"},
		{Row: 2, PlayerA: "A", Round: "1", Result: "Player 1 Win", Rated: "true"},
		{Row: 3, PlayerA: "A", PlayerB: "C", Round: "1", Result: "Player 1 Win", Rated: "x"},
	}
	_, _, err := NormalizeAll(rows)
	var lerr *LoadError
	if !errors.As(err, &lerr) {
		t.Fatalf("expected *LoadError, got %v", err)
	}
	got := lerr.Rows()
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Errorf("offending rows = %v, want [2 3]", got)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Error("LoadError should unwrap to *ValidationError")
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "match_history.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	log1, err := ParseFile(path, ColumnMap{})
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(log1.Hash) != 64 {
		t.Errorf("expected sha256 hex hash, got %q", log1.Hash)
	}
	log2, err := ParseFile(path, ColumnMap{})
	if err != nil {
		t.Fatalf("ParseFile (again): %v", err)
	}
	if log1.Hash != log2.Hash {
		t.Error("hash should be stable for identical content")
	}
	if len(log1.Records) != 4 {
		t.Errorf("expected 4 records, got %d", len(log1.Records))
	}
}

func TestParseFile_UnknownResultWarnings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "match_history.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	parsed, err := ParseFile(path, ColumnMap{})
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(parsed.Warnings) != parsed.Diagnostics.UnknownResults || len(parsed.Warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", parsed.Warnings)
	}
	w := parsed.Warnings[0]
	if !errors.Is(w, model.ErrUnknownResult) {
		t.Errorf("%v does not match ErrUnknownResult", w)
	}
	var uerr *UnknownResultError
	if !errors.As(w, &uerr) || uerr.Row != 4 || uerr.Text != "no idea" {
		t.Errorf("warning = %#v, want row 4 with text %q", w, "no idea")
	}
}
