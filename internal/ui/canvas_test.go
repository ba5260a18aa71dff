package ui

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/pstuifzand/tui-annotator/internal/model"
	"github.com/pstuifzand/tui-annotator/internal/outliner"
)

const textTaskYAML = `config: |
  <View>
    <Text name="text" value="$text"/>
    <Labels name="ner" toName="text">
      <Label value="Person"/>
    </Labels>
  </View>
data:
  text: Alice met Bob
annotations:
  - id: 7
    result:
      - id: s1
        from_name: ner
        to_name: text
        type: labels
        value:
          start: 0
          end: 5
          text: Alice
          labels: [Person]
      - id: s2
        from_name: ner
        to_name: text
        type: labels
        value:
          start: 10
          end: 13
          text: Bob
          labels: [Person]
`

func TestCanvasDrawsVisibleRegions(t *testing.T) {
	screen, _ := newSimScreen(t, 40, 20)
	store := openStore(t, "task.json", imageTaskJSON)
	canvas := NewCanvasPanel(store)

	canvas.Render(screen, 0, 0, 40, 20)
	if got := canvas.ShapeCount(); got != 3 {
		t.Errorf("Expected 3 shapes (r3 is hidden), got %d", got)
	}

	store.HideAll()
	canvas.Render(screen, 0, 0, 40, 20)
	if got := canvas.ShapeCount(); got != 0 {
		t.Errorf("Expected no shapes, got %d", got)
	}

	store.ShowAll()
	canvas.Render(screen, 0, 0, 40, 20)
	if got := canvas.ShapeCount(); got != 4 {
		t.Errorf("Expected 4 shapes, got %d", got)
	}
}

func TestCanvasListsSpans(t *testing.T) {
	screen, sim := newSimScreen(t, 40, 12)
	store := openStore(t, "task.yaml", textTaskYAML)
	canvas := NewCanvasPanel(store)

	store.SetHidden(store.FindRegion("s2"), true)
	canvas.Render(screen, 0, 0, 40, 12)
	screen.Show()

	if got := canvas.ShapeCount(); got != 1 {
		t.Errorf("Expected 1 span, got %d", got)
	}
	var found bool
	for y := 0; y < 12; y++ {
		line := screenLine(sim, y)
		if strings.Contains(line, "Bob") {
			t.Errorf("Expected hidden span to be left out, got %q", line)
		}
		if strings.Contains(line, `Person "Alice"`) {
			found = true
		}
	}
	if !found {
		t.Error("Expected the Alice span below the frame")
	}
}

func TestCanvasTooSmall(t *testing.T) {
	screen, sim := newSimScreen(t, 40, 20)
	canvas := NewCanvasPanel(openStore(t, "task.json", imageTaskJSON))
	canvas.Render(screen, 0, 0, 3, 2)
	screen.Show()

	if got := canvas.ShapeCount(); got != 3 {
		t.Errorf("Expected the 3 visible regions counted, got %d", got)
	}
	if line := screenLine(sim, 0); strings.TrimSpace(line) != "" {
		t.Errorf("Expected nothing drawn in a tiny canvas, got %q", line)
	}
}

func addSpans(store *model.RegionStore, n int) {
	for i := 0; i < n; i++ {
		store.Add(&model.Region{
			ID:    fmt.Sprintf("s%d", i),
			Type:  "labels",
			Value: model.Value{Text: fmt.Sprintf("span %d", i)},
		})
	}
}

func TestCanvasCountsSpansThatDoNotFit(t *testing.T) {
	screen, sim := newSimScreen(t, 60, 16)
	store := model.NewRegionStore()
	addSpans(store, 8)
	canvas := NewCanvasPanel(store)

	canvas.Render(screen, 0, 0, 60, 16)
	screen.Show()

	if got := canvas.ShapeCount(); got != 8 {
		t.Errorf("Expected 8 spans counted, got %d", got)
	}
	// 16/3 rows under the frame: four spans and a summary line
	if line := screenLine(sim, 15); !strings.Contains(line, "+4 more") {
		t.Errorf("Expected an overflow line, got %q", line)
	}
	if line := screenLine(sim, 14); !strings.Contains(line, `"span 3"`) {
		t.Errorf("Expected the fourth span above the overflow line, got %q", line)
	}
}

func TestCanvasShapeCountFollowsVisibility(t *testing.T) {
	screen, _ := newSimScreen(t, 60, 16)
	store := openStore(t, "task.json", imageTaskJSON)
	addSpans(store, 7)
	canvas := NewCanvasPanel(store)

	var ids []string
	for _, r := range store.Regions() {
		ids = append(ids, r.ID)
	}

	rng := rand.New(rand.NewSource(42))
	for step := 0; step < 300; step++ {
		switch rng.Intn(5) {
		case 0:
			outliner.ToggleAll(store)
		case 1:
			outliner.ClickBulk(store, outliner.BulkIcon(outliner.Bulk(store)))
		default:
			outliner.ToggleRegion(store, ids[rng.Intn(len(ids))])
		}

		canvas.Render(screen, 0, 0, 60, 16)
		if got, want := canvas.ShapeCount(), store.VisibleCount(); got != want {
			t.Fatalf("Step %d: expected %d shapes, got %d", step, want, got)
		}
	}
}
