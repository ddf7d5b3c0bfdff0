package lsj

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ls-toolkit/lstoolkit/pkg/doctree"
)

func TestEncodeDecodeRoundtripPreservesRegionOrder(t *testing.T) {
	nodeA := doctree.NewNode("NodeA")
	nodeA.AddAttribute(&doctree.Attribute{ID: "Dup", Type: doctree.AttrInt, Value: "1"})
	nodeA.AddAttribute(&doctree.Attribute{ID: "Dup", Type: doctree.AttrInt, Value: "2"})

	nodeB := doctree.NewNode("NodeB").WithKey("key-b")

	doc := &doctree.Document{
		Version: doctree.DocVersion{Major: 4},
		Regions: []*doctree.Region{
			{ID: "Zeta", Nodes: []*doctree.Node{nodeA}},
			{ID: "Alpha", Nodes: []*doctree.Node{nodeB}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc))

	got, err := Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	require.Len(t, got.Regions, 2)
	assert.Equal(t, "Zeta", got.Regions[0].ID)
	assert.Equal(t, "Alpha", got.Regions[1].ID)

	// Duplicate attribute ids on one node must both survive.
	require.Len(t, got.Regions[0].Nodes[0].Attributes, 2)
	assert.Equal(t, "1", got.Regions[0].Nodes[0].Attributes[0].Value)
	assert.Equal(t, "2", got.Regions[0].Nodes[0].Attributes[1].Value)

	require.NotNil(t, got.Regions[1].Nodes[0].Key)
	assert.Equal(t, "key-b", *got.Regions[1].Nodes[0].Key)
}

func TestDecodeRejectsNonObjectRegions(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte(`{"save":{"header":{"version":{}},"regions":[]}}`)))
	assert.Error(t, err)
}
