package theme

import (
	"github.com/gdamore/tcell/v2"
)

// Colors holds all the color definitions for the theme
type Colors struct {
	Background tcell.Color

	// Outliner colors
	TreeNormalText   tcell.Color
	TreeSelectedItem tcell.Color
	TreeSelectedBg   tcell.Color
	TreeCursorBg     tcell.Color
	TreeHiddenText   tcell.Color
	TreeArrow        tcell.Color
	TreeGroupHeader  tcell.Color
	TreeScore        tcell.Color
	TreePrediction   tcell.Color
	TreeGrabbed      tcell.Color

	// Visibility controls
	VisibilityOn  tcell.Color
	VisibilityOff tcell.Color

	// Canvas panel
	CanvasBorder tcell.Color

	// Comments panel
	CommentAuthor tcell.Color
	CommentTime   tcell.Color
	CommentText   tcell.Color
	CommentDraft  tcell.Color

	// Search bar colors
	SearchLabel tcell.Color
	SearchText  tcell.Color

	// Status line colors
	StatusMode     tcell.Color
	StatusMessage  tcell.Color
	StatusModified tcell.Color

	// Header colors
	HeaderTitle tcell.Color
	HeaderBg    tcell.Color
}

// Theme represents a complete color theme
type Theme struct {
	Name   string
	Colors Colors
}

// Default returns a default theme using terminal defaults
func Default() *Theme {
	return &Theme{
		Name: "default",
		Colors: Colors{
			Background:       tcell.ColorDefault,
			TreeNormalText:   tcell.ColorDefault,
			TreeSelectedItem: tcell.ColorDefault,
			TreeSelectedBg:   tcell.ColorDefault,
			TreeCursorBg:     tcell.ColorDefault,
			TreeHiddenText:   tcell.ColorDefault,
			TreeArrow:        tcell.ColorDefault,
			TreeGroupHeader:  tcell.ColorDefault,
			TreeScore:        tcell.ColorDefault,
			TreePrediction:   tcell.ColorDefault,
			TreeGrabbed:      tcell.ColorDefault,
			VisibilityOn:     tcell.ColorDefault,
			VisibilityOff:    tcell.ColorDefault,
			CanvasBorder:     tcell.ColorDefault,
			CommentAuthor:    tcell.ColorDefault,
			CommentTime:      tcell.ColorDefault,
			CommentText:      tcell.ColorDefault,
			CommentDraft:     tcell.ColorDefault,
			SearchLabel:      tcell.ColorDefault,
			SearchText:       tcell.ColorDefault,
			StatusMode:       tcell.ColorDefault,
			StatusMessage:    tcell.ColorDefault,
			StatusModified:   tcell.ColorDefault,
			HeaderTitle:      tcell.ColorDefault,
			HeaderBg:         tcell.ColorDefault,
		},
	}
}

// TokyoNight returns the Tokyo Night theme
func TokyoNight() *Theme {
	return &Theme{
		Name: "tokyo-night",
		Colors: Colors{
			Background:       HexToColor("#1a1b26"), // Dark background
			TreeNormalText:   HexToColor("#c0caf5"), // Light gray-blue
			TreeSelectedItem: HexToColor("#7aa2f7"), // Blue
			TreeSelectedBg:   HexToColor("#283457"),
			TreeCursorBg:     HexToColor("#292e42"),
			TreeHiddenText:   HexToColor("#565f89"), // Comment gray
			TreeArrow:        HexToColor("#7dcfff"), // Cyan
			TreeGroupHeader:  HexToColor("#bb9af7"), // Magenta
			TreeScore:        HexToColor("#e0af68"), // Yellow
			TreePrediction:   HexToColor("#bb9af7"),
			TreeGrabbed:      HexToColor("#ff9e64"), // Orange
			VisibilityOn:     HexToColor("#9ece6a"), // Green
			VisibilityOff:    HexToColor("#565f89"),
			CanvasBorder:     HexToColor("#3b4261"),
			CommentAuthor:    HexToColor("#7aa2f7"),
			CommentTime:      HexToColor("#565f89"),
			CommentText:      HexToColor("#c0caf5"),
			CommentDraft:     HexToColor("#e0af68"),
			SearchLabel:      HexToColor("#bb9af7"),
			SearchText:       HexToColor("#c0caf5"),
			StatusMode:       HexToColor("#bb9af7"),
			StatusMessage:    HexToColor("#9ece6a"),
			StatusModified:   HexToColor("#f7768e"), // Red
			HeaderTitle:      HexToColor("#bb9af7"),
			HeaderBg:         HexToColor("#16161e"),
		},
	}
}
