package openings

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "openings.txt")
	if err := os.WriteFile(path, []byte("1.e4 e5: King's Pawn Game\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Corpus, 4)
	if err := Watch(ctx, path, nil, func(c *Corpus) { reloaded <- c }); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write other: %v", err)
	}
	if err := os.WriteFile(path, []byte("1.e4 c5: Sicilian Defense\n1.d4 d5: Queen's Pawn Game\n"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	select {
	case c := <-reloaded:
		if c.Len() != 2 {
			t.Fatalf("reloaded corpus has %d entries", c.Len())
		}
		if name, _ := c.Resolve([]string{"e4", "c5", "Nf3"}); name != "Sicilian Defense" {
			t.Fatalf("resolve after reload: %q", name)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no reload observed")
	}
}

func TestWatchWithoutPathIsNoop(t *testing.T) {
	if err := Watch(context.Background(), " ", nil, func(*Corpus) { t.Fatalf("unexpected reload") }); err != nil {
		t.Fatalf("Watch: %v", err)
	}
}
