package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/tui-annotator/internal/storage"
)

// BackupPicker lists the backups of the open task, newest first, so one can
// be opened read-only
type BackupPicker struct {
	visible  bool
	backups  []storage.BackupMetadata
	selected int
}

// NewBackupPicker creates a hidden picker
func NewBackupPicker() *BackupPicker {
	return &BackupPicker{}
}

// Show opens the picker on backups, which are expected oldest first
func (b *BackupPicker) Show(backups []storage.BackupMetadata) {
	b.backups = make([]storage.BackupMetadata, len(backups))
	for i, m := range backups {
		b.backups[len(backups)-1-i] = m
	}
	b.selected = 0
	b.visible = true
}

// Hide closes the picker
func (b *BackupPicker) Hide() {
	b.visible = false
}

// IsVisible returns whether the picker is shown
func (b *BackupPicker) IsVisible() bool {
	return b.visible
}

// HandleKey moves the selection. It returns the chosen backup when Enter
// is pressed; Escape and q close the picker.
func (b *BackupPicker) HandleKey(ev *tcell.EventKey) (*storage.BackupMetadata, bool) {
	switch {
	case ev.Key() == tcell.KeyEscape || ev.Rune() == 'q':
		b.Hide()
	case ev.Key() == tcell.KeyDown || ev.Rune() == 'j':
		if b.selected < len(b.backups)-1 {
			b.selected++
		}
	case ev.Key() == tcell.KeyUp || ev.Rune() == 'k':
		if b.selected > 0 {
			b.selected--
		}
	case ev.Key() == tcell.KeyEnter:
		if len(b.backups) == 0 {
			return nil, false
		}
		b.Hide()
		chosen := b.backups[b.selected]
		return &chosen, true
	}
	return nil, false
}

// Render draws the picker
func (b *BackupPicker) Render(screen *Screen) {
	if !b.visible {
		return
	}
	lines := make([]string, 0, len(b.backups))
	for _, m := range b.backups {
		lines = append(lines, fmt.Sprintf("%s  session %s", m.Timestamp.Local().Format("2006-01-02 15:04:05"), m.SessionID))
	}
	if len(lines) == 0 {
		lines = append(lines, "No backups for this file")
	}
	renderPanel(screen, " Backups (Enter opens read-only, Esc closes) ", lines, b.selected)
}
