package msgcat

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEmbeddedCatalogRenders(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := c.Render("chat.hint.order", map[string]any{"Next": 3})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "Request hints in order. Next hint is hint number 3." {
		t.Fatalf("got %q", got)
	}
	if len(c.Keys()) < 30 {
		t.Fatalf("expected full catalog, got %d keys", len(c.Keys()))
	}
}

func TestRenderMissingDataFails(t *testing.T) {
	c := Default()
	if _, err := c.Render("chat.hint.order", map[string]any{}); err == nil {
		t.Fatalf("expected missing key error")
	}
	if _, err := c.Render("chat.nope", nil); err == nil {
		t.Fatalf("expected unknown template error")
	}
}

func TestOverrideDir(t *testing.T) {
	dir := t.TempDir()
	body := "chat:\n  pv:\n    unavailable: \"Nothing to show.\"\n"
	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, _ := c.Render("chat.pv.unavailable", nil)
	if got != "Nothing to show." {
		t.Fatalf("override not applied: %q", got)
	}
}

func TestOverrideDuplicateKeys(t *testing.T) {
	dir := t.TempDir()
	body := "chat:\n  abortion: \"x\"\n"
	for _, n := range []string{"a.yaml", "b.yml"} {
		if err := os.WriteFile(filepath.Join(dir, n), []byte(body), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if _, err := New(dir); err == nil {
		t.Fatalf("expected duplicate key error")
	}
}
