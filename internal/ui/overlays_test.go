package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/tui-annotator/internal/storage"
)

type testBinding struct {
	key  rune
	desc string
}

func (b testBinding) GetKey() rune           { return b.key }
func (b testBinding) GetDescription() string { return b.desc }

func TestHelpLines(t *testing.T) {
	h := NewHelpScreen()
	h.SetKeybindings([]KeyBindingInfo{testBinding{'v', "Hide or show region"}})
	h.SetCommands([]string{"w              save"})

	text := strings.Join(h.Lines(), "\n")
	for _, want := range []string{"v        Hide or show region", "Mouse:", ":w              save"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected help to contain %q", want)
		}
	}

	h.Toggle()
	if !h.IsVisible() {
		t.Error("Expected Toggle to show help")
	}
	h.Hide()
	if h.IsVisible() {
		t.Error("Expected Hide to close help")
	}
}

func TestMessageLogKeepsLatest(t *testing.T) {
	m := NewMessageLog(2)
	for _, msg := range []string{"one", "", "two", "three"} {
		m.Add(msg)
	}
	got := m.Messages()
	if len(got) != 2 || got[0].Text != "two" || got[1].Text != "three" {
		t.Errorf("Expected [two three], got %+v", got)
	}
}

func TestBackupPicker(t *testing.T) {
	now := time.Now()
	backups := []storage.BackupMetadata{
		{FilePath: "old.json", Timestamp: now.Add(-time.Hour)},
		{FilePath: "new.json", Timestamp: now},
	}

	b := NewBackupPicker()
	b.Show(backups)
	if !b.IsVisible() {
		t.Fatal("Expected picker to be visible")
	}

	if chosen, ok := b.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'j', tcell.ModNone)); ok || chosen != nil {
		t.Fatal("Expected j to only move")
	}
	chosen, ok := b.HandleKey(keyEvent(tcell.KeyEnter))
	if !ok || chosen.FilePath != "old.json" {
		t.Errorf("Expected the older backup second, got %+v", chosen)
	}
	if b.IsVisible() {
		t.Error("Expected Enter to close the picker")
	}

	b.Show(backups)
	b.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone))
	if b.IsVisible() {
		t.Error("Expected q to close the picker")
	}
}

func TestRenderPanelFitsScreen(t *testing.T) {
	screen, sim := newSimScreen(t, 30, 10)
	m := NewMessageLog(10)
	for i := 0; i < 10; i++ {
		m.Add("message")
	}
	m.Toggle()
	m.Render(screen)
	screen.Show()

	found := false
	for y := 0; y < 10; y++ {
		if strings.Contains(screenLine(sim, y), "message") {
			found = true
		}
	}
	if !found {
		t.Error("Expected messages on screen")
	}
}
