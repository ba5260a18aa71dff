package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pstuifzand/tui-annotator/internal/model"
)

const imageTaskJSON = `{
  "config": "<View><Image name=\"img\" value=\"$image\"/><RectangleLabels name=\"tag\" toName=\"img\"><Label value=\"Planet\"/><Label value=\"Moonwalker\" background=\"blue\"/></RectangleLabels><Choices name=\"quality\" toName=\"img\"><Choice value=\"good\"/></Choices></View>",
  "data": {"image": "astro.jpg"},
  "annotations": [
    {
      "id": 1001,
      "result": [
        {"id": "r1", "from_name": "tag", "to_name": "img", "type": "rectanglelabels",
         "value": {"x": 10, "y": 20, "width": 30, "height": 40, "rotation": 0, "rectanglelabels": ["Planet"]}},
        {"id": "r2", "from_name": "tag", "to_name": "img", "type": "rectanglelabels", "parentID": "r1",
         "value": {"x": 1, "y": 2, "width": 3, "height": 4, "rectanglelabels": ["Moonwalker"]}},
        {"id": "r3", "from_name": "tag", "to_name": "img", "type": "rectangle", "hidden": true,
         "value": {"x": 5, "y": 5, "width": 5, "height": 5}},
        {"id": "r3", "from_name": "tag", "to_name": "img", "type": "rectanglelabels",
         "value": {"rectanglelabels": ["Moonwalker"]}},
        {"id": "c1", "from_name": "quality", "to_name": "img", "type": "choices",
         "value": {"choices": ["good"]}}
      ]
    }
  ],
  "predictions": [
    {
      "score": 0.5,
      "result": [
        {"id": "p1", "from_name": "tag", "to_name": "img", "type": "rectanglelabels", "score": 0.87,
         "value": {"x": 50, "y": 50, "width": 10, "height": 10, "rectanglelabels": ["Planet"]}}
      ]
    }
  ]
}`

const textTaskYAML = `config: |
  <View>
    <Text name="text" value="$text"/>
    <Labels name="ner" toName="text" groupdepth="1">
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
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func openTask(t *testing.T, path string) (*TaskStore, *Document) {
	t.Helper()
	store := NewTaskStore(path)
	task, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	doc, err := Open(task)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return store, doc
}

func TestOpenJSONTask(t *testing.T) {
	_, doc := openTask(t, writeFile(t, "task.json", imageTaskJSON))

	if doc.AnnotationID != "1001" {
		t.Errorf("AnnotationID = %q, want 1001", doc.AnnotationID)
	}
	// r3 merges two entries, c1 is a classification and not a region
	if got := doc.Store.Count(); got != 4 {
		t.Fatalf("Count() = %d, want 4", got)
	}

	r1 := doc.Store.FindRegion("r1")
	if r1.Value.Width != 30 || r1.Title() != "Planet" {
		t.Errorf("r1 = %+v", r1)
	}
	if r1.Labeling.ToName.GroupTitle() != "astro.jpg" {
		t.Errorf("object value not bound: %q", r1.Labeling.ToName.GroupTitle())
	}

	if doc.Store.FindRegion("r2").ParentID != "r1" {
		t.Errorf("r2 parent = %q, want r1", doc.Store.FindRegion("r2").ParentID)
	}

	r3 := doc.Store.FindRegion("r3")
	if !r3.Hidden || r3.Title() != "Moonwalker" || r3.OneColor() != "blue" || r3.Type != "rectanglelabels" {
		t.Errorf("merged r3 = %+v", r3)
	}

	p1 := doc.Store.FindRegion("p1")
	if !p1.IsPrediction() || p1.Score == nil || *p1.Score != 0.87 {
		t.Errorf("prediction p1 = %+v", p1)
	}

	if doc.Store.FindRegion("c1") != nil {
		t.Error("classification result must not become a region")
	}
}

func TestOpenYAMLTask(t *testing.T) {
	_, doc := openTask(t, writeFile(t, "task.yaml", textTaskYAML))

	s1 := doc.Store.FindRegion("s1")
	if s1 == nil {
		t.Fatal("region s1 missing")
	}
	if s1.Value.Text != "Alice" || s1.Value.End != 5 {
		t.Errorf("s1 value = %+v", s1.Value)
	}
	if s1.GroupDepth() != 1 {
		t.Errorf("GroupDepth() = %d, want 1", s1.GroupDepth())
	}
	if doc.AnnotationID != "7" {
		t.Errorf("AnnotationID = %q, want 7", doc.AnnotationID)
	}
}

func TestSaveWritesBackParentAndVisibility(t *testing.T) {
	for _, name := range []string{"task.json", "task.yml"} {
		t.Run(name, func(t *testing.T) {
			content := imageTaskJSON
			path := writeFile(t, "task.json", content)
			store, doc := openTask(t, path)
			store.FilePath = filepath.Join(filepath.Dir(path), name)

			doc.Store.SetParentID(doc.Store.FindRegion("p1"), "r1")
			doc.Store.SetHidden(doc.Store.FindRegion("r1"), true)
			ApplyStore(doc.Task, doc.Store)
			if err := store.Save(doc.Task); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			_, reloaded := openTask(t, store.FilePath)
			if got := reloaded.Store.FindRegion("p1").ParentID; got != "r1" {
				t.Errorf("p1 parent = %q, want r1", got)
			}
			if !reloaded.Store.FindRegion("r1").Hidden {
				t.Error("r1 should be hidden after reload")
			}
			if reloaded.Store.Count() != doc.Store.Count() {
				t.Errorf("Count() = %d, want %d", reloaded.Store.Count(), doc.Store.Count())
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	store := NewTaskStore(filepath.Join(t.TempDir(), "missing.json"))
	if store.FileExists() {
		t.Fatal("FileExists() = true for a missing file")
	}
	if _, err := store.Load(); err == nil {
		t.Fatal("Load of a missing file must fail")
	}
}

func TestOpenInvalidConfig(t *testing.T) {
	if _, err := Open(&Task{Config: "<Nope/>"}); err == nil {
		t.Fatal("Open must fail without a View element")
	}
}

func TestRegionsKeepResultOrder(t *testing.T) {
	_, doc := openTask(t, writeFile(t, "task.json", imageTaskJSON))
	var ids []string
	for _, n := range doc.Store.AsTree(model.GroupingType, model.DefaultOrdering) {
		for _, c := range n.Children {
			ids = append(ids, c.Region.ID)
		}
	}
	want := []string{"r1", "r2", "r3", "p1"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids = %v, want %v", ids, want)
		}
	}
}
