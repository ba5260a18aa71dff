package theme

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// ParseCSSColor parses #RGB, #RRGGBB, rgb(), rgba() and the W3C colour
// keywords known to tcell. The returned alpha is 1 unless rgba() says
// otherwise.
func ParseCSSColor(s string) (colorful.Color, float64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if named, ok := tcell.ColorNames[s]; ok {
		r, g, b := named.RGB()
		if r >= 0 {
			return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}, 1, nil
		}
	}

	if strings.HasPrefix(s, "#") {
		hex := strings.TrimPrefix(s, "#")
		if len(hex) == 3 {
			hex = string(hex[0]) + string(hex[0]) +
				string(hex[1]) + string(hex[1]) +
				string(hex[2]) + string(hex[2])
		}
		c, err := colorful.Hex("#" + hex)
		if err != nil {
			return colorful.Color{}, 0, fmt.Errorf("invalid hex colour %q: %w", s, err)
		}
		return c, 1, nil
	}

	inner := ""
	switch {
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		inner = strings.TrimSuffix(strings.TrimPrefix(s, "rgba("), ")")
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		inner = strings.TrimSuffix(strings.TrimPrefix(s, "rgb("), ")")
	default:
		return colorful.Color{}, 0, fmt.Errorf("unsupported colour %q", s)
	}

	parts := strings.Split(inner, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return colorful.Color{}, 0, fmt.Errorf("unsupported colour %q", s)
	}
	var rgb [3]int
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || v < 0 || v > 255 {
			return colorful.Color{}, 0, fmt.Errorf("invalid colour component in %q", s)
		}
		rgb[i] = v
	}
	alpha := 1.0
	if len(parts) == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil {
			return colorful.Color{}, 0, fmt.Errorf("invalid alpha in %q: %w", s, err)
		}
		alpha = a
	}
	return colorful.Color{R: float64(rgb[0]) / 255, G: float64(rgb[1]) / 255, B: float64(rgb[2]) / 255}, alpha, nil
}

// CSS renders a colour the way browsers serialize it: rgb() for opaque
// colours and rgba() otherwise
func CSS(c colorful.Color, alpha float64) string {
	r, g, b := c.Clamped().RGB255()
	if alpha >= 1 {
		return fmt.Sprintf("rgb(%d,%d,%d)", r, g, b)
	}
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", r, g, b, strconv.FormatFloat(alpha, 'f', -1, 64))
}

// HexToColor converts a hex color string (#RRGGBB or #RGB) to tcell.Color
func HexToColor(hexColor string) tcell.Color {
	c, _, err := ParseCSSColor("#" + strings.TrimPrefix(hexColor, "#"))
	if err != nil {
		return tcell.ColorDefault
	}
	return ToTcell(c)
}

// ToTcell converts a parsed colour to a tcell colour
func ToTcell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// ParseColorString handles every format ParseCSSColor understands and falls
// back to the terminal default colour
func ParseColorString(colorStr string) tcell.Color {
	c, _, err := ParseCSSColor(colorStr)
	if err != nil {
		return tcell.ColorDefault
	}
	return ToTcell(c)
}

// ColorToStyle creates a style with a specific foreground color
func ColorToStyle(fgColor tcell.Color) tcell.Style {
	return tcell.StyleDefault.Foreground(fgColor)
}

// ColorPairToStyle creates a style with specific foreground and background colors
func ColorPairToStyle(fgColor, bgColor tcell.Color) tcell.Style {
	return tcell.StyleDefault.Foreground(fgColor).Background(bgColor)
}
