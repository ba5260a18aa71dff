package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pstuifzand/tui-annotator/internal/model"
)

func TestSessionOverridesPersisted(t *testing.T) {
	cfg := &Config{Settings: map[string]string{"grouping": "type"}}

	if cfg.Get("grouping") != "type" {
		t.Errorf("Expected 'type', got '%s'", cfg.Get("grouping"))
	}

	cfg.Set("grouping", "label")
	if cfg.Get("grouping") != "label" {
		t.Errorf("Expected session value 'label', got '%s'", cfg.Get("grouping"))
	}
	if cfg.Settings["grouping"] != "type" {
		t.Errorf("Set must not touch persisted settings")
	}

	if cfg.Get("nonexistent") != "" {
		t.Errorf("Expected empty string for nonexistent key, got '%s'", cfg.Get("nonexistent"))
	}
}

func TestGetAllReturnsACopy(t *testing.T) {
	cfg := &Config{Settings: map[string]string{"a": "1", "b": "2"}}
	cfg.Set("b", "3")

	all := cfg.GetAll()
	if len(all) != 2 || all["a"] != "1" || all["b"] != "3" {
		t.Errorf("Unexpected GetAll result: %v", all)
	}

	all["a"] = "modified"
	if cfg.Get("a") != "1" {
		t.Errorf("GetAll() should return a copy, not a reference")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()
	if cfg.Theme != "tokyo-night" {
		t.Errorf("Expected default theme 'tokyo-night', got '%s'", cfg.Theme)
	}
	if cfg.GroupingMode() != model.GroupingManual {
		t.Errorf("Expected manual grouping, got %s", cfg.GroupingMode())
	}
	if cfg.OrderingMode() != model.DefaultOrdering {
		t.Errorf("Expected date ordering, got %+v", cfg.OrderingMode())
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
grouping = "label"
ordering = "score-desc"
redis_url = "redis://localhost:6379/0"
author = "alice"

[settings]
autosave = "off"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if cfg.Theme != "tokyo-night" {
		t.Errorf("Expected default theme, got '%s'", cfg.Theme)
	}
	if cfg.GroupingMode() != model.GroupingLabel {
		t.Errorf("Expected label grouping, got %s", cfg.GroupingMode())
	}
	want := model.Ordering{By: model.OrderByScore, Descending: true}
	if cfg.OrderingMode() != want {
		t.Errorf("Expected %+v, got %+v", want, cfg.OrderingMode())
	}
	if cfg.RedisURL != "redis://localhost:6379/0" || cfg.Author != "alice" {
		t.Errorf("Unexpected config: %+v", cfg)
	}
	if cfg.Get("autosave") != "off" {
		t.Errorf("Expected autosave 'off', got '%s'", cfg.Get("autosave"))
	}
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if cfg.Theme != "tokyo-night" {
		t.Errorf("Expected defaults for a missing file")
	}
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("grouping = = ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("Expected a parse error")
	}
}

func TestSaveToFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := defaultConfig()
	cfg.Grouping = "type"
	cfg.Settings["autosave"] = "on"
	cfg.Set("session-only", "x")

	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}
	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if loaded.GroupingMode() != model.GroupingType || loaded.Get("autosave") != "on" {
		t.Errorf("Round trip lost values: %+v", loaded)
	}
	if loaded.Get("session-only") != "" {
		t.Errorf("Session settings must not be persisted")
	}
}

func TestParseOrdering(t *testing.T) {
	tests := []struct {
		in   string
		want model.Ordering
	}{
		{"", model.Ordering{By: model.OrderByDate}},
		{"date", model.Ordering{By: model.OrderByDate}},
		{"date-desc", model.Ordering{By: model.OrderByDate, Descending: true}},
		{"score", model.Ordering{By: model.OrderByScore}},
		{"Score-Desc", model.Ordering{By: model.OrderByScore, Descending: true}},
		{"bogus", model.Ordering{By: model.OrderByDate}},
	}
	for _, tt := range tests {
		if got := ParseOrdering(tt.in); got != tt.want {
			t.Errorf("ParseOrdering(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
		if tt.in == "date-desc" && FormatOrdering(tt.want) != "date-desc" {
			t.Errorf("FormatOrdering(%+v) = %q", tt.want, FormatOrdering(tt.want))
		}
	}
}
