package taxonomy

import (
	"testing"

	"github.com/pstuifzand/tui-annotator/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const imageConfig = `
<View>
  <Image name="img" value="$image"></Image>
  <RectangleLabels name="tag" toName="img" fillOpacity="0.5" strokeWidth="5">
    <Label value="Planet"></Label>
    <Label value="Moonwalker" background="blue"></Label>
  </RectangleLabels>
</View>
`

const nestedConfig = `
<View>
  <Text name="text" value="$text"/>
  <Labels name="ner" toName="text" groupdepth="2">
    <Label value="Organization" alias="org" groupcancontain="person, location"/>
    <Label value="Person" alias="person"/>
    <Label value="Location"/>
  </Labels>
  <Labels name="flat" toName="text" groupdepth="oops"/>
</View>
`

func TestParseImageConfig(t *testing.T) {
	tax, err := ParseString(imageConfig)
	require.NoError(t, err)

	require.Len(t, tax.Objects, 1)
	assert.Equal(t, "image", tax.Objects[0].Type)
	assert.Equal(t, "$image", tax.Objects[0].Value)

	tag := tax.Control("tag")
	require.NotNil(t, tag)
	assert.Equal(t, "rectanglelabels", tag.Type)
	assert.Equal(t, "img", tag.ToName)
	assert.Equal(t, model.NoGroupDepth, tag.GroupDepth)
	require.Len(t, tag.Labels, 2)
	assert.Equal(t, "blue", tag.FindLabel("Moonwalker").Background)
	assert.Empty(t, tag.FindLabel("Planet").CanContain)
}

func TestParseConstraints(t *testing.T) {
	tax, err := ParseString(nestedConfig)
	require.NoError(t, err)

	ner := tax.Control("ner")
	require.NotNil(t, ner)
	assert.Equal(t, 2, ner.GroupDepth)

	org := ner.FindLabel("org")
	require.NotNil(t, org)
	assert.Equal(t, "Organization", org.Value)
	assert.Equal(t, []string{"person", "location"}, org.CanContain)
	assert.Equal(t, []string{"org", "Organization"}, org.IDs())

	assert.Equal(t, model.NoGroupDepth, tax.Control("flat").GroupDepth)
}

func TestParseGroupDepth(t *testing.T) {
	assert.Equal(t, model.NoGroupDepth, parseGroupDepth(""))
	assert.Equal(t, model.NoGroupDepth, parseGroupDepth("-3"))
	assert.Equal(t, model.NoGroupDepth, parseGroupDepth("x"))
	assert.Equal(t, 0, parseGroupDepth("0"))
	assert.Equal(t, 4, parseGroupDepth(" 4 "))
}

func TestParseWithoutView(t *testing.T) {
	_, err := ParseString(`<Image name="img" value="$image"/>`)
	assert.ErrorIs(t, err, ErrNoView)
}

func TestBindDataAndLabeling(t *testing.T) {
	tax, err := ParseString(imageConfig)
	require.NoError(t, err)

	tax.BindData(map[string]any{"image": "https://example.com/a.jpg"})
	assert.Equal(t, "https://example.com/a.jpg", tax.Object("img").GroupTitle())

	labeling := tax.Labeling("tag", "img", []string{"Moonwalker", "Unknown"})
	require.Len(t, labeling.SelectedLabels, 2)
	assert.Equal(t, "blue", labeling.SelectedLabels[0].Background)
	assert.Equal(t, "Unknown", labeling.SelectedLabels[1].Value)
	assert.Same(t, tax.Control("tag"), labeling.FromName)
}
