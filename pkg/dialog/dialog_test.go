package dialog

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ls-toolkit/lstoolkit/pkg/doctree"
	"github.com/ls-toolkit/lstoolkit/pkg/loca"
)

func TestParseNodeKindKnownAndOther(t *testing.T) {
	assert.Equal(t, TagQuestion, ParseNodeKind("TagQuestion"))
	k := ParseNodeKind("SomethingNew")
	assert.True(t, k.IsOther())
	assert.Equal(t, "SomethingNew", k.String())
}

func TestKindOfReadsConstructorAttribute(t *testing.T) {
	n := doctree.NewNode("node")
	n.AddAttribute(&doctree.Attribute{ID: "constructor", Value: "TagAnswer"})
	assert.Equal(t, TagAnswer, KindOf(n))
}

func TestIndexSpeakersFromDocument(t *testing.T) {
	displayName := doctree.NewNode(nodeDisplayName)
	displayName.AddAttribute(&doctree.Attribute{ID: attrHandle, Value: "h12345"})

	obj := doctree.NewNode(nodeGameObject)
	obj.AddAttribute(&doctree.Attribute{ID: attrMapKey, Value: "uuid-1"})
	obj.AddChild(displayName)

	group := doctree.NewNode(nodeSpeakerGroup)
	group.AddAttribute(&doctree.Attribute{ID: attrMapKey, Value: "uuid-2"})
	group.AddAttribute(&doctree.Attribute{ID: attrGroupName, Value: "Bandits"})

	doc := &doctree.Document{Regions: []*doctree.Region{{ID: "r", Nodes: []*doctree.Node{obj, group}}}}
	idx := &SpeakerIndex{byUUID: make(map[string]string)}
	indexSpeakersFromDocument(doc, idx)

	name, ok := idx.DisplayNameFor("uuid-1")
	require.True(t, ok)
	assert.Equal(t, "h12345", name)

	groupName, ok := idx.DisplayNameFor("uuid-2")
	require.True(t, ok)
	assert.Equal(t, DirectPrefix+"Bandits", groupName)
}

func TestLocalisationCacheFromLoca(t *testing.T) {
	var buf bytes.Buffer
	entries := []loca.Entry{{Handle: "h1", Version: 1, Text: "Hello"}}
	require.NoError(t, loca.Encode(&buf, entries))

	dir := t.TempDir()
	path := dir + "/strings.loca"
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	cache, err := BuildLocalisationCache([]string{path})
	require.NoError(t, err)
	text, ok := cache.TextFor("h1")
	require.True(t, ok)
	assert.Equal(t, "Hello", text)
}
