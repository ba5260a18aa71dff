package history

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndLoad(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "history"))
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	want := []string{"group label", "order score-desc"}
	if err := m.Save("command.toml", want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := m.Load("command.toml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("Expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Entry %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestLoadMissingAndCorrupt(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	if entries, err := m.Load("search.toml"); err != nil || len(entries) != 0 {
		t.Errorf("Missing file: expected no entries and no error, got %v, %v", entries, err)
	}

	if err := os.WriteFile(filepath.Join(dir, "search.toml"), []byte("entries = [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if entries, err := m.Load("search.toml"); err != nil || len(entries) != 0 {
		t.Errorf("Corrupt file: expected no entries and no error, got %v, %v", entries, err)
	}
}
