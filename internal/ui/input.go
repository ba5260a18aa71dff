package ui

import (
	"runtime"

	"github.com/gdamore/tcell/v2"
)

// MultiSelectModifier reports whether mod holds the platform's multi-select
// modifier: Meta (Command) on darwin, Ctrl elsewhere
func MultiSelectModifier(mod tcell.ModMask, goos string) bool {
	if goos == "darwin" {
		return mod&tcell.ModMeta != 0
	}
	return mod&tcell.ModCtrl != 0
}

// IsMultiSelect is MultiSelectModifier for the running platform
func IsMultiSelect(mod tcell.ModMask) bool {
	return MultiSelectModifier(mod, runtime.GOOS)
}
