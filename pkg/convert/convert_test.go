package convert

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ls-toolkit/lstoolkit/pkg/doctree"
	"github.com/ls-toolkit/lstoolkit/pkg/loca"
	"github.com/ls-toolkit/lstoolkit/pkg/lsf"
)

func sampleDoc() *doctree.Document {
	node := doctree.NewNode("root")
	node.AddAttribute(&doctree.Attribute{ID: "Name", Type: doctree.AttrLSString, Value: "Alpha"})
	return &doctree.Document{
		Version: doctree.DocVersion{Major: 4},
		Regions: []*doctree.Region{{ID: "RootRegion", Nodes: []*doctree.Node{node}}},
	}
}

func TestLSFToLSJAndBack(t *testing.T) {
	doc := sampleDoc()
	var lsfBuf bytes.Buffer
	require.NoError(t, ToLSF(&lsfBuf, doc, lsf.EncodeOptions{}))

	var lsjBuf bytes.Buffer
	require.NoError(t, LSFToLSJ(&lsjBuf, bytes.NewReader(lsfBuf.Bytes())))

	var lsfBuf2 bytes.Buffer
	require.NoError(t, LSJToLSF(&lsfBuf2, bytes.NewReader(lsjBuf.Bytes()), lsf.EncodeOptions{}))

	got, err := FromLSF(bytes.NewReader(lsfBuf2.Bytes()))
	require.NoError(t, err)
	require.Len(t, got.Regions, 1)
	assert.Equal(t, "root", got.Regions[0].Nodes[0].ID)
	assert.Equal(t, "Alpha", got.Regions[0].Nodes[0].Attributes[0].Value)
}

func TestLocaXMLConversion(t *testing.T) {
	entries := []loca.Entry{{Handle: "h1", Version: 1, Text: "hi"}}
	var buf bytes.Buffer
	require.NoError(t, LocaToXML(&buf, entries))

	got, err := LocaFromXML(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}
