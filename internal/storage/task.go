// Package storage reads and writes annotation task files, comment threads
// and task backups
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/pstuifzand/tui-annotator/internal/model"
	"github.com/pstuifzand/tui-annotator/internal/taxonomy"
)

// Task is an annotation task: the labeling config, the task data and the
// annotations and predictions made on it
type Task struct {
	Config      string         `json:"config" yaml:"config"`
	Data        map[string]any `json:"data" yaml:"data"`
	Annotations []*Annotation  `json:"annotations" yaml:"annotations"`
	Predictions []*Annotation  `json:"predictions,omitempty" yaml:"predictions,omitempty"`
	// OriginalFilename is only set inside backups
	OriginalFilename string `json:"original_filename,omitempty" yaml:"original_filename,omitempty"`
}

// Annotation is one annotation or prediction with its results
type Annotation struct {
	ID        any            `json:"id,omitempty" yaml:"id,omitempty"`
	CreatedAt time.Time      `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	Score     *float64       `json:"score,omitempty" yaml:"score,omitempty"`
	Result    []*ResultEntry `json:"result" yaml:"result"`
}

// Key returns the annotation id as a string, "" when it has none
func (a *Annotation) Key() string {
	if a.ID == nil {
		return ""
	}
	return fmt.Sprint(a.ID)
}

// ResultEntry is one result item. Entries sharing an id describe the same
// region (for example a rectangle and the labels attached to it).
type ResultEntry struct {
	ID       string         `json:"id" yaml:"id"`
	FromName string         `json:"from_name" yaml:"from_name"`
	ToName   string         `json:"to_name" yaml:"to_name"`
	Type     string         `json:"type" yaml:"type"`
	ParentID string         `json:"parentID,omitempty" yaml:"parentID,omitempty"`
	Origin   string         `json:"origin,omitempty" yaml:"origin,omitempty"`
	Score    *float64       `json:"score,omitempty" yaml:"score,omitempty"`
	Hidden   bool           `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Value    map[string]any `json:"value" yaml:"value"`
}

// TaskStore handles task file persistence. The format follows the file
// extension: .yaml and .yml are YAML, everything else JSON.
type TaskStore struct {
	FilePath string
	ReadOnly bool
}

// NewTaskStore creates a store for the given file path
func NewTaskStore(filePath string) *TaskStore {
	return &TaskStore{
		FilePath: filePath,
		ReadOnly: IsBackupFile(filePath),
	}
}

func (s *TaskStore) isYAML() bool {
	ext := strings.ToLower(filepath.Ext(s.FilePath))
	return ext == ".yaml" || ext == ".yml"
}

// Load reads the task file
func (s *TaskStore) Load() (*Task, error) {
	data, err := os.ReadFile(s.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var task Task
	if s.isYAML() {
		if err := yaml.Unmarshal(data, &task); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, &task); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	}
	return &task, nil
}

// Save writes the task file in the format of its extension
func (s *TaskStore) Save(task *Task) error {
	if s.ReadOnly {
		return fmt.Errorf("cannot save %s: backups are read-only", s.FilePath)
	}

	dir := filepath.Dir(s.FilePath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	var (
		data []byte
		err  error
	)
	if s.isYAML() {
		data, err = yaml.Marshal(task)
	} else {
		data, err = json.MarshalIndent(task, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	if err := os.WriteFile(s.FilePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// FileExists checks if the task file exists
func (s *TaskStore) FileExists() bool {
	_, err := os.Stat(s.FilePath)
	return err == nil
}

// Document is a loaded task with its parsed taxonomy and region store
type Document struct {
	Task     *Task
	Taxonomy *taxonomy.Taxonomy
	Store    *model.RegionStore
	// AnnotationID is the id comment threads attach to
	AnnotationID string

	last time.Time
}

// Open parses the labeling config of the task, binds the task data and
// fills a region store from the first annotation and every prediction
func Open(task *Task) (*Document, error) {
	tax, err := taxonomy.ParseString(task.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load labeling config: %w", err)
	}
	tax.BindData(task.Data)

	doc := &Document{Task: task, Taxonomy: tax, Store: model.NewRegionStore()}

	if len(task.Annotations) > 0 {
		a := task.Annotations[0]
		doc.AnnotationID = a.Key()
		regions, err := BuildRegions(tax, a, model.OriginAnnotation)
		if err != nil {
			return nil, fmt.Errorf("failed to load annotation %s: %w", a.Key(), err)
		}
		doc.add(regions)
	}
	for _, p := range task.Predictions {
		regions, err := BuildRegions(tax, p, model.OriginPrediction)
		if err != nil {
			return nil, fmt.Errorf("failed to load prediction %s: %w", p.Key(), err)
		}
		doc.add(regions)
	}
	return doc, nil
}

// add keeps creation times strictly increasing so date ordering follows
// file order when results carry no timestamps
func (d *Document) add(regions []*model.Region) {
	for _, r := range regions {
		if !d.last.IsZero() && !r.Created.After(d.last) {
			r.Created = d.last.Add(time.Millisecond)
		}
		d.last = r.Created
		d.Store.Add(r)
	}
}

// BuildRegions merges the results of an annotation by id. A merged result
// becomes a region when its value carries more than one key; results that
// only hold labels (classifications) are not regions.
func BuildRegions(tax *taxonomy.Taxonomy, a *Annotation, origin model.Origin) ([]*model.Region, error) {
	type merged struct {
		first    *ResultEntry
		value    map[string]any
		labels   []string
		parentID string
		origin   model.Origin
		score    *float64
		hidden   bool
	}

	var order []string
	byID := make(map[string]*merged)
	for _, entry := range a.Result {
		m, ok := byID[entry.ID]
		if !ok {
			m = &merged{first: entry, value: make(map[string]any), origin: origin, score: a.Score}
			byID[entry.ID] = m
			order = append(order, entry.ID)
		}
		for k, v := range entry.Value {
			m.value[k] = v
		}
		if isLabelType(entry.Type) {
			m.labels = append(m.labels, stringsOf(entry.Value[entry.Type])...)
			if !isLabelType(m.first.Type) {
				m.first = entry
			}
		}
		if entry.Origin != "" {
			m.origin = model.Origin(entry.Origin)
		}
		if entry.Score != nil {
			m.score = entry.Score
		}
		m.hidden = m.hidden || entry.Hidden
		if entry.ParentID != "" && m.parentID == "" {
			m.parentID = entry.ParentID
		}
	}

	var regions []*model.Region
	for i, id := range order {
		m := byID[id]
		if len(m.value) <= 1 {
			continue
		}

		var value model.Value
		if err := decodeValue(m.value, &value); err != nil {
			return nil, fmt.Errorf("region %s: %w", id, err)
		}

		regions = append(regions, &model.Region{
			ID:       id,
			ParentID: m.parentID,
			Type:     m.first.Type,
			Labeling: tax.Labeling(m.first.FromName, m.first.ToName, m.labels),
			Hidden:   m.hidden,
			Origin:   m.origin,
			Score:    m.score,
			Value:    value,
			Created:  a.CreatedAt.Add(time.Duration(i) * time.Millisecond),
		})
	}
	return regions, nil
}

func decodeValue(raw map[string]any, out *model.Value) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create value decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("failed to decode value: %w", err)
	}
	return nil
}

func isLabelType(t string) bool {
	return strings.HasSuffix(t, "labels") || t == "choices" || t == "taxonomy"
}

func stringsOf(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var result []string
	for _, item := range items {
		switch x := item.(type) {
		case string:
			result = append(result, x)
		case []any:
			// taxonomy paths, keep the leaf
			if leaf := stringsOf(x); len(leaf) > 0 {
				result = append(result, leaf[len(leaf)-1])
			}
		}
	}
	return result
}

// ApplyStore writes the parent and visibility of every region back into the
// result entries of the task
func ApplyStore(task *Task, store *model.RegionStore) {
	apply := func(annotations []*Annotation) {
		for _, a := range annotations {
			for _, entry := range a.Result {
				r := store.FindRegion(entry.ID)
				if r == nil {
					continue
				}
				entry.ParentID = r.ParentID
				entry.Hidden = r.Hidden
			}
		}
	}
	if len(task.Annotations) > 0 {
		apply(task.Annotations[:1])
	}
	apply(task.Predictions)
}
