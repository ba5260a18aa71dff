package ui

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestMultiSelectModifier(t *testing.T) {
	tests := []struct {
		mod  tcell.ModMask
		goos string
		want bool
	}{
		{tcell.ModNone, "linux", false},
		{tcell.ModCtrl, "linux", true},
		{tcell.ModMeta, "linux", false},
		{tcell.ModCtrl | tcell.ModShift, "windows", true},
		{tcell.ModMeta, "darwin", true},
		{tcell.ModCtrl, "darwin", false},
	}
	for _, tt := range tests {
		if got := MultiSelectModifier(tt.mod, tt.goos); got != tt.want {
			t.Errorf("MultiSelectModifier(%v, %s) = %v, expected %v", tt.mod, tt.goos, got, tt.want)
		}
	}
}
