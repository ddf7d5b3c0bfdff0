package lsf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ls-toolkit/lstoolkit/pkg/doctree"
)

func sampleDocument() *doctree.Document {
	root := doctree.NewNode("root")
	root.AddAttribute(&doctree.Attribute{ID: "Name", Type: doctree.AttrLSString, Value: "Hello"})
	root.AddAttribute(&doctree.Attribute{ID: "DisplayName", Type: doctree.AttrTranslatedString, Value: "World", Handle: "hABCDEF", TSVersion: 1})

	child := doctree.NewNode("child")
	child.AddAttribute(&doctree.Attribute{ID: "Count", Type: doctree.AttrInt, Value: "42"})
	root.AddChild(child)

	return &doctree.Document{
		Version: doctree.DocVersion{Major: 4, Minor: 0, Revision: 7, Build: 5},
		Regions: []*doctree.Region{{ID: "Config", Nodes: []*doctree.Node{root}}},
	}
}

func TestEncodeDecodeRoundtripV3NoCompression(t *testing.T) {
	doc := sampleDocument()
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc, EncodeOptions{FileVersion: 5, Compression: CompressionNone}))

	got, err := Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	require.Len(t, got.Regions, 1)
	assert.Equal(t, "Config", got.Regions[0].ID)
	require.Len(t, got.Regions[0].Nodes, 1)

	gotRoot := got.Regions[0].Nodes[0]
	assert.Equal(t, "root", gotRoot.ID)
	require.Len(t, gotRoot.Attributes, 2)
	assert.Equal(t, "Hello", gotRoot.Attributes[0].Value)
	assert.Equal(t, "World", gotRoot.Attributes[1].Value)
	assert.Equal(t, "hABCDEF", gotRoot.Attributes[1].Handle)
	assert.Equal(t, 1, gotRoot.Attributes[1].TSVersion)

	require.Len(t, gotRoot.Children, 1)
	assert.Equal(t, "42", gotRoot.Children[0].Attributes[0].Value)
}

func TestEncodeDecodeRoundtripV6WithKeys(t *testing.T) {
	doc := sampleDocument()
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc, EncodeOptions{FileVersion: 6, Compression: CompressionLZ4}))

	got, err := Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, got.Regions, 1)
	assert.Equal(t, "root", got.Regions[0].Nodes[0].ID)
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("not an lsf file at all")))
	assert.Error(t, err)
}
