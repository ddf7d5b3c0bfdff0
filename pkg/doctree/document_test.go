package doctree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodeBuilders(t *testing.T) {
	child := NewNode("child").WithKey("k1")
	child.AddAttribute(&Attribute{ID: "Name", Type: AttrLSString, Value: "hello"})

	parent := NewNode("parent")
	parent.AddChild(child)

	assert.Equal(t, "parent", parent.ID)
	assert.Nil(t, parent.Key)
	require := assert.New(t)
	require.Len(parent.Children, 1)
	require.Equal("child", parent.Children[0].ID)
	require.NotNil(parent.Children[0].Key)
	require.Equal("k1", *parent.Children[0].Key)
	require.Len(parent.Children[0].Attributes, 1)
	require.Equal("hello", parent.Children[0].Attributes[0].Value)
}

func TestFindRegion(t *testing.T) {
	doc := &Document{
		Regions: []*Region{
			{ID: "RegionA", Nodes: []*Node{NewNode("a")}},
			{ID: "RegionB", Nodes: []*Node{NewNode("b")}},
		},
	}
	r := doc.FindRegion("RegionB")
	assert.NotNil(t, r)
	assert.Equal(t, "RegionB", r.ID)

	assert.Nil(t, doc.FindRegion("Missing"))
}
