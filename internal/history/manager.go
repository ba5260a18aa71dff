// Package history persists input history (search queries, commands,
// comment drafts typed in the prompt) as small TOML files
package history

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Manager loads and saves history files in one directory
type Manager struct {
	dir string
}

type historyFile struct {
	Entries []string `toml:"entries"`
}

// DefaultDir returns ~/.local/share/tui-annotator/history
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".local", "share", "tui-annotator", "history"), nil
}

// NewManager creates a manager for dir, creating it when missing. An empty
// dir uses DefaultDir.
func NewManager(dir string) (*Manager, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history dir: %w", err)
	}
	return &Manager{dir: dir}, nil
}

// Load returns the entries of name. Missing or corrupt files yield no entries.
func (m *Manager) Load(name string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(m.dir, name))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var f historyFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, nil
	}
	return f.Entries, nil
}

// Save replaces the entries of name
func (m *Manager) Save(name string, entries []string) error {
	data, err := toml.Marshal(historyFile{Entries: entries})
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(m.dir, name), data, 0644)
}
