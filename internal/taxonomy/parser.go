// Package taxonomy parses the XML labeling configuration into typed control,
// object and label definitions
package taxonomy

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pstuifzand/tui-annotator/internal/model"
)

// ErrNoView is returned when the configuration has no <View> root
var ErrNoView = errors.New("labeling config has no View element")

var objectTags = map[string]bool{
	"image":      true,
	"text":       true,
	"hypertext":  true,
	"audio":      true,
	"audioplus":  true,
	"video":      true,
	"timeseries": true,
	"paragraphs": true,
	"table":      true,
}

// Taxonomy is the parsed labeling configuration
type Taxonomy struct {
	Controls []*model.ControlTag
	Objects  []*model.ObjectTag
}

// Parse reads a labeling configuration
func Parse(r io.Reader) (*Taxonomy, error) {
	decoder := xml.NewDecoder(r)
	decoder.Strict = false

	tax := &Taxonomy{}
	var current *model.ControlTag
	sawView := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse labeling config: %w", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			name := strings.ToLower(el.Name.Local)
			attrs := attrMap(el.Attr)

			switch {
			case name == "view":
				sawView = true
			case objectTags[name]:
				tax.Objects = append(tax.Objects, &model.ObjectTag{
					Name:  attrs["name"],
					Type:  name,
					Value: attrs["value"],
				})
			case name == "label" && current != nil:
				current.Labels = append(current.Labels, parseLabel(attrs))
			case isControl(name, attrs):
				current = &model.ControlTag{
					Name:       attrs["name"],
					Type:       name,
					ToName:     attrs["toname"],
					GroupDepth: parseGroupDepth(attrs["groupdepth"]),
				}
				tax.Controls = append(tax.Controls, current)
			}
		case xml.EndElement:
			name := strings.ToLower(el.Name.Local)
			if current != nil && name == current.Type {
				current = nil
			}
		}
	}

	if !sawView {
		return nil, ErrNoView
	}
	return tax, nil
}

// ParseString reads a labeling configuration from a string
func ParseString(config string) (*Taxonomy, error) {
	return Parse(strings.NewReader(config))
}

func isControl(name string, attrs map[string]string) bool {
	if attrs["name"] == "" || attrs["toname"] == "" {
		return false
	}
	return strings.HasSuffix(name, "labels") || name == "choices" || name == "taxonomy"
}

func attrMap(attrs []xml.Attr) map[string]string {
	result := make(map[string]string, len(attrs))
	for _, a := range attrs {
		result[strings.ToLower(a.Name.Local)] = a.Value
	}
	return result
}

func parseLabel(attrs map[string]string) *model.Label {
	label := &model.Label{
		Value:      attrs["value"],
		Alias:      attrs["alias"],
		Background: attrs["background"],
	}
	if raw := attrs["groupcancontain"]; raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				label.CanContain = append(label.CanContain, part)
			}
		}
	}
	return label
}

// parseGroupDepth maps absent, negative and non-numeric values to
// model.NoGroupDepth
func parseGroupDepth(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.NoGroupDepth
	}
	depth, err := strconv.Atoi(raw)
	if err != nil || depth < 0 {
		return model.NoGroupDepth
	}
	return depth
}

// Control returns the control tag with the given name
func (t *Taxonomy) Control(name string) *model.ControlTag {
	for _, c := range t.Controls {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Object returns the object tag with the given name
func (t *Taxonomy) Object(name string) *model.ObjectTag {
	for _, o := range t.Objects {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// BindData substitutes task data into object values ($image -> url)
func (t *Taxonomy) BindData(data map[string]any) {
	for _, o := range t.Objects {
		if !strings.HasPrefix(o.Value, "$") {
			o.ParsedValue = o.Value
			continue
		}
		if v, ok := data[strings.TrimPrefix(o.Value, "$")]; ok {
			o.ParsedValue = fmt.Sprint(v)
		}
	}
}

// Labeling resolves label values of a result into a typed labeling. Label
// values missing from the configuration are kept as plain labels so no
// result loses its labels.
func (t *Taxonomy) Labeling(fromName, toName string, values []string) *model.Labeling {
	labeling := &model.Labeling{
		FromName: t.Control(fromName),
		ToName:   t.Object(toName),
	}
	for _, v := range values {
		var label *model.Label
		if labeling.FromName != nil {
			label = labeling.FromName.FindLabel(v)
		}
		if label == nil {
			label = &model.Label{Value: v}
		}
		labeling.SelectedLabels = append(labeling.SelectedLabels, label)
	}
	return labeling
}
