package ui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/tui-annotator/internal/comments"
	"github.com/pstuifzand/tui-annotator/internal/model"
	"github.com/pstuifzand/tui-annotator/internal/storage"
)

func newTestPanel(t *testing.T, timeFormat string) *CommentsPanel {
	t.Helper()
	backend := storage.NewCommentFile(filepath.Join(t.TempDir(), "task.comments.json"))
	store := comments.NewStore(backend, comments.NewMemoryCache(), "1001", "alice")
	return NewCommentsPanel(comments.NewLoader(store, "task.json#1001"), timeFormat)
}

func TestCommentsPanelAddComment(t *testing.T) {
	panel := newTestPanel(t, "")
	ctx := context.Background()

	panel.StartInput()
	if !panel.IsVisible() || !panel.InputActive() {
		t.Fatal("Expected StartInput to show the panel with the form open")
	}
	for _, r := range "looks right" {
		if c, err := panel.HandleKey(ctx, tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)); c != nil || err != nil {
			t.Fatalf("Expected no comment while typing, got %v %v", c, err)
		}
	}
	c, err := panel.HandleKey(ctx, keyEvent(tcell.KeyEnter))
	if err != nil {
		t.Fatalf("HandleKey failed: %v", err)
	}
	if c == nil || c.Text != "looks right" || c.Author != "alice" || !c.Unsaved {
		t.Fatalf("Unexpected comment %+v", c)
	}
	if panel.InputActive() {
		t.Error("Expected the form to close after Enter")
	}

	// an empty form adds nothing
	panel.StartInput()
	if c, _ := panel.HandleKey(ctx, keyEvent(tcell.KeyEnter)); c != nil {
		t.Errorf("Expected no comment from an empty form, got %+v", c)
	}
}

func TestCommentsPanelRender(t *testing.T) {
	screen, sim := newSimScreen(t, 40, 8)
	panel := newTestPanel(t, "")
	panel.Show()
	if _, err := panel.Loader().Store().AddComment(context.Background(), "the box is too wide"); err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}

	panel.Render(screen, 0, 0, 14, 8)
	screen.Show()

	if got := screenLine(sim, 0); !strings.HasPrefix(got, "Comments (1) *") {
		t.Errorf("Expected title with unsaved marker, got %q", got)
	}
	var text []string
	for y := 1; y < 8; y++ {
		text = append(text, strings.TrimSpace(screenLine(sim, y)))
	}
	joined := strings.Join(text, "|")
	if !strings.Contains(joined, "alice") || !strings.Contains(joined, "the box is|too wide") {
		t.Errorf("Expected author and wrapped text, got %q", joined)
	}
}

func TestCommentsPanelHidden(t *testing.T) {
	screen, sim := newSimScreen(t, 40, 8)
	panel := newTestPanel(t, "")
	panel.StartInput()
	panel.Hide()

	if panel.InputActive() || panel.Loader().Mounted() {
		t.Error("Expected Hide to close the form and unmount")
	}
	panel.Render(screen, 0, 0, 40, 8)
	screen.Show()
	if got := strings.TrimSpace(screenLine(sim, 0)); got != "" {
		t.Errorf("Expected nothing drawn, got %q", got)
	}
}

func TestCommentsPanelFormatTime(t *testing.T) {
	panel := newTestPanel(t, "%d/%m/%Y")
	c := &model.Comment{CreatedAt: time.Date(2024, 3, 9, 12, 0, 0, 0, time.Local)}
	if got := panel.FormatTime(c); got != "09/03/2024" {
		t.Errorf("Expected 09/03/2024, got %q", got)
	}

	panel = newTestPanel(t, "")
	if got := panel.FormatTime(c); got != "2024-03-09 12:00" {
		t.Errorf("Expected default layout, got %q", got)
	}
}
