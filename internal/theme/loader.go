package theme

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/pelletier/go-toml/v2"
)

// ThemeConfig represents the raw TOML theme configuration. Colour names
// match the fields of Colors in snake case.
type ThemeConfig struct {
	Name   string            `toml:"name"`
	Colors map[string]string `toml:"colors"`
}

// getThemePaths returns the search paths for theme files
func getThemePaths() []string {
	paths := []string{}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "tui-annotator", "themes"),
			filepath.Join(home, ".local", "share", "tui-annotator", "themes"),
		)
	}

	return paths
}

// findThemeFile searches for a theme file in standard locations
func findThemeFile(themeName string) (string, error) {
	filename := themeName + ".toml"

	for _, dir := range getThemePaths() {
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("theme file not found: %s", filename)
}

// LoadThemeFromFile loads a theme from a TOML file
func LoadThemeFromFile(filePath string) (*Theme, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file: %w", err)
	}

	var config ThemeConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse theme file: %w", err)
	}

	return configToTheme(config), nil
}

// LoadTheme loads a theme by name, searching standard theme directories
func LoadTheme(themeName string) (*Theme, error) {
	filePath, err := findThemeFile(themeName)
	if err != nil {
		return nil, err
	}

	return LoadThemeFromFile(filePath)
}

// configToTheme converts a ThemeConfig to a Theme, with fallback to Tokyo Night for missing colors
func configToTheme(config ThemeConfig) *Theme {
	t := TokyoNight()

	targets := map[string]*tcell.Color{
		"background":         &t.Colors.Background,
		"tree_normal_text":   &t.Colors.TreeNormalText,
		"tree_selected_item": &t.Colors.TreeSelectedItem,
		"tree_selected_bg":   &t.Colors.TreeSelectedBg,
		"tree_cursor_bg":     &t.Colors.TreeCursorBg,
		"tree_hidden_text":   &t.Colors.TreeHiddenText,
		"tree_arrow":         &t.Colors.TreeArrow,
		"tree_group_header":  &t.Colors.TreeGroupHeader,
		"tree_score":         &t.Colors.TreeScore,
		"tree_prediction":    &t.Colors.TreePrediction,
		"tree_grabbed":       &t.Colors.TreeGrabbed,
		"visibility_on":      &t.Colors.VisibilityOn,
		"visibility_off":     &t.Colors.VisibilityOff,
		"canvas_border":      &t.Colors.CanvasBorder,
		"comment_author":     &t.Colors.CommentAuthor,
		"comment_time":       &t.Colors.CommentTime,
		"comment_text":       &t.Colors.CommentText,
		"comment_draft":      &t.Colors.CommentDraft,
		"search_label":       &t.Colors.SearchLabel,
		"search_text":        &t.Colors.SearchText,
		"status_mode":        &t.Colors.StatusMode,
		"status_message":     &t.Colors.StatusMessage,
		"status_modified":    &t.Colors.StatusModified,
		"header_title":       &t.Colors.HeaderTitle,
		"header_bg":          &t.Colors.HeaderBg,
	}

	for key, value := range config.Colors {
		if target, ok := targets[key]; ok && value != "" {
			*target = ParseColorString(value)
		}
	}

	if config.Name != "" {
		t.Name = config.Name
	}

	return t
}

// LoadThemeOrDefault loads a theme by name, or returns Tokyo Night if not found
func LoadThemeOrDefault(themeName string) *Theme {
	if themeName == "default" {
		return Default()
	}

	theme, err := LoadTheme(themeName)
	if err != nil {
		return TokyoNight()
	}

	return theme
}
