package lsx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ls-toolkit/lstoolkit/pkg/doctree"
)

func TestEncodeDecodeRoundtrip(t *testing.T) {
	child := doctree.NewNode("child").WithKey("k1")
	child.AddAttribute(&doctree.Attribute{ID: "Amount", Type: doctree.AttrInt, Value: "7"})

	root := doctree.NewNode("root")
	root.AddAttribute(&doctree.Attribute{ID: "Title", Type: doctree.AttrTranslatedString, Value: "Greeting", Handle: "hABC", TSVersion: 2})
	root.AddChild(child)

	doc := &doctree.Document{
		Version: doctree.DocVersion{Major: 4, Minor: 1, Revision: 0, Build: 9},
		Regions: []*doctree.Region{{ID: "RootRegion", Nodes: []*doctree.Node{root}}},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc))

	got, err := Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, doc.Version, got.Version)
	require.Len(t, got.Regions, 1)
	assert.Equal(t, "RootRegion", got.Regions[0].ID)

	gotRoot := got.Regions[0].Nodes[0]
	require.Len(t, gotRoot.Attributes, 1)
	assert.Equal(t, "Greeting", gotRoot.Attributes[0].Value)
	assert.Equal(t, "hABC", gotRoot.Attributes[0].Handle)
	assert.Equal(t, 2, gotRoot.Attributes[0].TSVersion)

	require.Len(t, gotRoot.Children, 1)
	require.NotNil(t, gotRoot.Children[0].Key)
	assert.Equal(t, "k1", *gotRoot.Children[0].Key)
}

func TestDecodeRejectsMalformedXML(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("<save><region>")))
	assert.Error(t, err)
}
