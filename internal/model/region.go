// Package model contains the annotation regions, their taxonomy and the
// region store the outliner works against
package model

import (
	"strings"
	"time"
)

// Origin tells whether a region was drawn by a person or produced by a model
type Origin string

const (
	OriginAnnotation Origin = "annotation"
	OriginPrediction Origin = "prediction"
)

// DefaultLabelColor is used for regions without a label background
const DefaultLabelColor = "#36B37E"

// NoGroupDepth marks a control tag without a nesting limit
const NoGroupDepth = -1

// Label is a single label definition inside a control tag
type Label struct {
	Value      string
	Alias      string
	Background string
	// CanContain lists the label ids allowed as children of regions
	// carrying this label. Empty means unconstrained.
	CanContain []string
}

// IDs returns the identifiers other labels refer to this label by
func (l *Label) IDs() []string {
	if l.Alias != "" {
		return []string{l.Alias, l.Value}
	}
	return []string{l.Value}
}

// ObjectTag is the data object regions are drawn on (image, text, audio...)
type ObjectTag struct {
	Name  string
	Type  string
	Value string
	// ParsedValue is Value with task data substituted for $variables
	ParsedValue string
}

// GroupTitle returns the title used for group headers of this object
func (o *ObjectTag) GroupTitle() string {
	if o.ParsedValue != "" {
		return o.ParsedValue
	}
	return o.Value
}

// ControlTag is a labeling control, the taxonomy node for its labels
type ControlTag struct {
	Name   string
	Type   string
	ToName string
	// GroupDepth is the maximum nesting depth below regions of this
	// control, NoGroupDepth when unbounded.
	GroupDepth int
	Labels     []*Label
}

// FindLabel returns the label with the given value or alias
func (c *ControlTag) FindLabel(value string) *Label {
	for _, l := range c.Labels {
		if l.Value == value || (l.Alias != "" && l.Alias == value) {
			return l
		}
	}
	return nil
}

// Labeling holds the taxonomy assignment of a region
type Labeling struct {
	FromName       *ControlTag
	ToName         *ObjectTag
	SelectedLabels []*Label
}

// Value is the geometry or span of a region
type Value struct {
	X        float64        `mapstructure:"x" json:"x,omitempty" yaml:"x,omitempty"`
	Y        float64        `mapstructure:"y" json:"y,omitempty" yaml:"y,omitempty"`
	Width    float64        `mapstructure:"width" json:"width,omitempty" yaml:"width,omitempty"`
	Height   float64        `mapstructure:"height" json:"height,omitempty" yaml:"height,omitempty"`
	Rotation float64        `mapstructure:"rotation" json:"rotation,omitempty" yaml:"rotation,omitempty"`
	Start    any            `mapstructure:"start" json:"start,omitempty" yaml:"start,omitempty"`
	End      any            `mapstructure:"end" json:"end,omitempty" yaml:"end,omitempty"`
	Text     string         `mapstructure:"text" json:"text,omitempty" yaml:"text,omitempty"`
	Points   [][]float64    `mapstructure:"points" json:"points,omitempty" yaml:"points,omitempty"`
	Extra    map[string]any `mapstructure:",remain" json:"-" yaml:"-"`
}

// Region is a single annotated shape, span or segment
type Region struct {
	ID          string
	ParentID    string
	Type        string
	Labeling    *Labeling
	Hidden      bool
	Highlighted bool
	Origin      Origin
	Score       *float64
	Value       Value
	Created     time.Time
}

// Labels returns the values of the selected labels
func (r *Region) Labels() []string {
	if r.Labeling == nil {
		return nil
	}
	labels := make([]string, 0, len(r.Labeling.SelectedLabels))
	for _, l := range r.Labeling.SelectedLabels {
		labels = append(labels, l.Value)
	}
	return labels
}

// LabelIDs returns every identifier of the selected labels, aliases first
func (r *Region) LabelIDs() []string {
	if r.Labeling == nil {
		return nil
	}
	var ids []string
	for _, l := range r.Labeling.SelectedLabels {
		ids = append(ids, l.IDs()...)
	}
	return ids
}

// CanContain returns the union of the child constraints of the selected labels
func (r *Region) CanContain() []string {
	if r.Labeling == nil {
		return nil
	}
	var allowed []string
	for _, l := range r.Labeling.SelectedLabels {
		allowed = append(allowed, l.CanContain...)
	}
	return allowed
}

// GroupDepth returns the nesting limit declared by the region's control tag
func (r *Region) GroupDepth() int {
	if r.Labeling == nil || r.Labeling.FromName == nil {
		return NoGroupDepth
	}
	return r.Labeling.FromName.GroupDepth
}

// OneColor returns the colour of the first selected label with a background
func (r *Region) OneColor() string {
	if r.Labeling != nil {
		for _, l := range r.Labeling.SelectedLabels {
			if l.Background != "" {
				return l.Background
			}
		}
	}
	return DefaultLabelColor
}

// Title is the text shown for the region in the outliner
func (r *Region) Title() string {
	title := strings.Join(r.Labels(), ", ")
	if title == "" {
		return "No label"
	}
	return title
}

// IsPrediction reports whether the region came from a model
func (r *Region) IsPrediction() bool {
	return r.Origin == OriginPrediction
}
