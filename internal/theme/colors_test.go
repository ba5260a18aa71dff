package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSSColor(t *testing.T) {
	tests := []struct {
		in    string
		css   string
		alpha float64
	}{
		{"#ff0000", "rgb(255,0,0)", 1},
		{"#0f0", "rgb(0,255,0)", 1},
		{"blue", "rgb(0,0,255)", 1},
		{"coral", "rgb(255,127,80)", 1},
		{"DarkOrange", "rgb(255,140,0)", 1},
		{"indigo", "rgb(75,0,130)", 1},
		{"rebeccapurple", "rgb(102,51,153)", 1},
		{"rgb(1, 2, 3)", "rgb(1,2,3)", 1},
		{"rgba(10,20,30,0.5)", "rgba(10,20,30,0.5)", 0.5},
	}

	for _, tt := range tests {
		c, alpha, err := ParseCSSColor(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.alpha, alpha, tt.in)
		assert.Equal(t, tt.css, CSS(c, alpha), tt.in)
	}
}

func TestParseCSSColorInvalid(t *testing.T) {
	for _, in := range []string{"", "chartreuse-ish", "#12", "rgb(1,2)", "rgb(300,0,0)"} {
		_, _, err := ParseCSSColor(in)
		assert.Error(t, err, in)
	}
	assert.Equal(t, tcell.ColorDefault, ParseColorString("nonsense"))
}

func TestCSSWithAlpha(t *testing.T) {
	c, _, err := ParseCSSColor("#0000ff")
	require.NoError(t, err)
	assert.Equal(t, "rgba(0,0,255,0.1)", CSS(c, 0.1))
}

func TestLoadThemeFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	content := "name = \"custom\"\n[colors]\ntree_score = \"#ff0000\"\nunknown = \"#00ff00\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	th, err := LoadThemeFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "custom", th.Name)
	assert.Equal(t, tcell.NewRGBColor(255, 0, 0), th.Colors.TreeScore)
	assert.Equal(t, TokyoNight().Colors.TreeArrow, th.Colors.TreeArrow)
}
