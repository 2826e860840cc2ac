package chess

import (
	"errors"
	"strings"
	"testing"
)

func TestBoardTurnAndFullmove(t *testing.T) {
	b, err := NewBoard("startpos", []string{"e2e4", "e7e5", "g1f3"})
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	if b.WhiteToMove() {
		t.Fatalf("expected black to move")
	}
	if n := b.FullmoveNumber(); n != 2 {
		t.Fatalf("fullmove=%d", n)
	}
	san, err := b.SAN("b8c6")
	if err != nil || san != "Nc6" {
		t.Fatalf("SAN: %q %v", san, err)
	}
	if b.Ply() != 3 {
		t.Fatalf("SAN must not play the move, ply=%d", b.Ply())
	}
}

func TestBoardSANMoves(t *testing.T) {
	b, err := NewBoard("", []string{"e2e4", "c7c5", "g1f3"})
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	if got := strings.Join(b.SANMoves(), " "); got != "e4 c5 Nf3" {
		t.Fatalf("got %q", got)
	}
}

func TestBoardWithoutLastMove(t *testing.T) {
	b, _ := NewBoard("", []string{"e2e4", "e7e5"})
	prev, err := b.WithoutLastMove()
	if err != nil {
		t.Fatalf("WithoutLastMove: %v", err)
	}
	if prev.Ply() != 1 || prev.WhiteToMove() {
		t.Fatalf("unexpected board ply=%d white=%v", prev.Ply(), prev.WhiteToMove())
	}
	if b.Ply() != 2 {
		t.Fatalf("original board modified")
	}
	empty, _ := NewBoard("", nil)
	if _, err := empty.WithoutLastMove(); !errors.Is(err, ErrNoMoves) {
		t.Fatalf("expected ErrNoMoves, got %v", err)
	}
}

func TestBoardCloneIsIndependent(t *testing.T) {
	b, _ := NewBoard("", []string{"d2d4"})
	c := b.Clone()
	if err := c.Push("d7d5"); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if b.Ply() != 1 || c.Ply() != 2 {
		t.Fatalf("clone shares state: %d %d", b.Ply(), c.Ply())
	}
}

func TestBoardRejectsIllegalMove(t *testing.T) {
	if _, err := NewBoard("", []string{"e2e5"}); err == nil {
		t.Fatalf("expected error for illegal move")
	}
}

func TestMaterialAfterCapture(t *testing.T) {
	b, err := NewBoard("", []string{"e2e4", "d7d5", "e4d5"})
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	m := b.Material()
	if m.Pawns != 1 || m.Score != 1 || m.Pieces != 31 {
		t.Fatalf("unexpected material %+v", m)
	}
}

func TestFormatScore(t *testing.T) {
	cases := []struct {
		s    Score
		want string
	}{
		{CP(35), "+0.35"},
		{CP(-120), "-1.20"},
		{MateIn(3), "#3"},
		{MateIn(-2), "#-2"},
	}
	for _, tc := range cases {
		got, err := FormatScore(tc.s)
		if err != nil || got != tc.want {
			t.Fatalf("FormatScore(%+v)=%q,%v want %q", tc.s, got, err, tc.want)
		}
	}
	if _, err := FormatScore(Score{}); !errors.Is(err, ErrScoreUnavailable) {
		t.Fatalf("expected ErrScoreUnavailable")
	}
}
