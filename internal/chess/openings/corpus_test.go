package openings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleFile = `A Flank openings
B Semi-open games

1.e4 c5: Sicilian Defense
1.e4 c5 2.Nf3 d6 3.d4 cxd4 4.Nxd4 Nf6 5.Nc3 a6: Sicilian Defense, Najdorf Variation (B90)
Caro-Kann Defense: 1.e4 c6
French Defense: 1.e4 e6 (C00)
this line has no colon
Index  with double space: 1.e4
1.d4 d5 2.c4: Queen's Gambit
`

func TestParseLineShapes(t *testing.T) {
	entries, st := Parse(sampleFile)
	if len(entries) != 5 {
		t.Fatalf("expected 5 entries, got %d: %+v", len(entries), entries)
	}
	if st.Matched != 5 {
		t.Fatalf("matched=%d", st.Matched)
	}
	want := []Entry{
		{Moves: "e4 c5", Name: "Sicilian Defense", Line: "1.e4 c5"},
		{Moves: "e4 c5 Nf3 d6 d4 cxd4 Nxd4 Nf6 Nc3 a6", Name: "Sicilian Defense, Najdorf Variation", Line: "1.e4 c5 2.Nf3 d6 3.d4 cxd4 4.Nxd4 Nf6 5.Nc3 a6"},
		{Moves: "e4 c6", Name: "Caro-Kann Defense", Line: "1.e4 c6"},
		{Moves: "e4 e6", Name: "French Defense", Line: "1.e4 e6"},
		{Moves: "d4 d5 c4", Name: "Queen's Gambit", Line: "1.d4 d5 2.c4"},
	}
	for i, w := range want {
		if entries[i] != w {
			t.Fatalf("entry %d: got %+v want %+v", i, entries[i], w)
		}
	}
}

func TestParseAcceptsNonASCIIMoveText(t *testing.T) {
	entries, _ := Parse("1.e4 é6: Accent\n1.d4 d5 2.c4 dxc4 3.e3 Lf5: Läufer Line\n")
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %+v", entries)
	}
	if entries[0] != (Entry{Moves: "e4 é6", Name: "Accent", Line: "1.e4 é6"}) {
		t.Fatalf("entry 0: %+v", entries[0])
	}
}

func TestResolveLongestPrefix(t *testing.T) {
	c := Builtin()
	name, line := c.Resolve([]string{"e4", "e5", "Nf3", "Nc6", "Bc4", "Bc5", "c3"})
	if name != "Italian Game, Giuoco Piano" || line != "1.e4 e5 2.Nf3 Nc6 3.Bc4 Bc5" {
		t.Fatalf("got %q %q", name, line)
	}
	name, _ = c.Resolve([]string{"e4", "e5", "Nf3", "Nc6", "Bc4", "Nf6"})
	if name != "Italian Game" {
		t.Fatalf("got %q", name)
	}
}

func TestResolveStartAndUnknown(t *testing.T) {
	c := Builtin()
	if name, line := c.Resolve(nil); name != StartingPosition || line != "" {
		t.Fatalf("empty: %q %q", name, line)
	}
	if name, line := c.Resolve([]string{"a3"}); name != UnknownOpening || line != "" {
		t.Fatalf("unknown: %q %q", name, line)
	}
}

func TestResolveWholeTokens(t *testing.T) {
	c := New([]Entry{
		{Moves: "d4 d5 c", Name: "Broken", Line: "1.d4 d5 2.c"},
		{Moves: "d4", Name: "Queen's Pawn", Line: "1.d4"},
	})
	name, _ := c.Resolve([]string{"d4", "d5", "c4"})
	if name != "Queen's Pawn" {
		t.Fatalf("expected token-aligned match, got %q", name)
	}
}

func TestResolveTieKeepsFirst(t *testing.T) {
	c := New([]Entry{
		{Moves: "e4 c5", Name: "First", Line: "1.e4 c5"},
		{Moves: "e4 c5", Name: "Second", Line: "1.e4 c5"},
	})
	if name, _ := c.Resolve([]string{"e4", "c5"}); name != "First" {
		t.Fatalf("got %q", name)
	}
}

func TestLoadMissingFileUsesBuiltin(t *testing.T) {
	c := Load(filepath.Join(t.TempDir(), "nope.txt"), nil)
	if c.Len() != 10 {
		t.Fatalf("expected builtin table, got %d entries", c.Len())
	}
	if name, _ := c.Resolve([]string{"c4", "e5"}); name != "English Opening" {
		t.Fatalf("got %q", name)
	}
}

func TestLoadLatin1File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openings.txt")
	raw := []byte("1.Nf3: R\xe9ti Opening\n1.e4 e5: Open Game\n")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c := Load(path, nil)
	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
	name, line := c.Resolve([]string{"Nf3", "d5"})
	if name != "Réti Opening" || line != "1.Nf3" {
		t.Fatalf("got %q %q", name, line)
	}
}

func TestLoadUTF8File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openings.txt")
	if err := os.WriteFile(path, []byte(sampleFile), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c := Load(path, nil)
	if c.Len() != 5 || !strings.Contains(c.String(), "5 entries") {
		t.Fatalf("unexpected corpus %s", c)
	}
	name, _ := c.Resolve(strings.Fields("e4 c5 Nf3 d6 d4 cxd4 Nxd4 Nf6 Nc3 a6 Be3"))
	if name != "Sicilian Defense, Najdorf Variation" {
		t.Fatalf("got %q", name)
	}
}
