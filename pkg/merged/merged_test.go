package merged

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ls-toolkit/lstoolkit/pkg/doctree"
)

func attr(id, value string) *doctree.Attribute {
	return &doctree.Attribute{ID: id, Value: value}
}

func buildTestDocument() *doctree.Document {
	texture := doctree.NewNode(nodeTexture)
	texture.AddAttribute(attr(attrID, "tex-1"))
	texture.AddAttribute(attr(attrDDSPath, "Assets/Textures/Hero_BM.dds"))

	textureBank := doctree.NewNode(nodeTextureBank)
	textureBank.AddChild(texture)

	material := doctree.NewNode(nodeMaterial)
	material.AddAttribute(attr(attrID, "mat-1"))
	matTex := doctree.NewNode(nodeTexture)
	matTex.AddAttribute(attr(attrParameterName, "DiffuseMap"))
	matTex.AddAttribute(attr(attrTextureUUID, "tex-1"))
	material.AddChild(matTex)

	materialBank := doctree.NewNode(nodeMaterialBank)
	materialBank.AddChild(material)

	vtex := doctree.NewNode(nodeVirtualTexture)
	vtex.AddAttribute(attr(attrID, "vtex-1"))
	vtex.AddAttribute(attr(attrName, "Foliage_VT"))
	vtex.AddAttribute(attr(attrGtexHash, "abc123"))
	vtexBank := doctree.NewNode(nodeVirtualTextureBank)
	vtexBank.AddChild(vtex)

	visual := doctree.NewNode(nodeVisual)
	visual.AddAttribute(attr(attrID, "visual-1"))
	visual.AddAttribute(attr(attrName, "Hero_Visual"))
	visual.AddAttribute(attr(attrGR2, "Hero.GR2"))
	matRef := doctree.NewNode(nodeMaterialRef)
	matRef.AddAttribute(attr(attrMaterialUUID, "mat-1"))
	visual.AddChild(matRef)
	vtexRef := doctree.NewNode(nodeVirtualTexRef)
	vtexRef.AddAttribute(attr(attrVTexUUID, "vtex-1"))
	visual.AddChild(vtexRef)

	danglingRef := doctree.NewNode(nodeMaterialRef)
	danglingRef.AddAttribute(attr(attrMaterialUUID, "mat-does-not-exist"))
	visual.AddChild(danglingRef)

	visualBank := doctree.NewNode(nodeVisualBank)
	visualBank.AddChild(visual)

	root := doctree.NewNode("root")
	root.AddChild(visualBank)
	root.AddChild(materialBank)
	root.AddChild(textureBank)
	root.AddChild(vtexBank)

	return &doctree.Document{
		Regions: []*doctree.Region{{ID: "MergedAsset", Nodes: []*doctree.Node{root}}},
	}
}

func TestResolveCrossReferences(t *testing.T) {
	doc := buildTestDocument()
	db := NewMergedDatabase()
	db.merge(
		parseVisualBank(doc),
		parseMaterialBank(doc),
		parseTextureBank(doc),
		parseVirtualTextureBank(doc),
	)
	db.Resolve()

	asset, ok := db.GetByVisualName("Hero_Visual")
	require.True(t, ok)
	assert.Equal(t, "Hero.GR2", asset.GR2Filename)
	require.Len(t, asset.TextureRefs, 1)
	assert.Equal(t, TextureRef{DDSPath: "Assets/Textures/Hero_BM.dds", ParameterName: "DiffuseMap"}, asset.TextureRefs[0])
	require.Len(t, asset.VirtualTextureRefs, 1)
	assert.Equal(t, VirtualTextureRef{Name: "Foliage_VT", GtexHash: "abc123"}, asset.VirtualTextureRefs[0])
}

func TestGetVisualsForGR2MatchesFilenameOnly(t *testing.T) {
	doc := buildTestDocument()
	db := NewMergedDatabase()
	db.merge(parseVisualBank(doc), parseMaterialBank(doc), parseTextureBank(doc), parseVirtualTextureBank(doc))
	db.Resolve()

	visuals := db.GetVisualsForGR2("Models/Characters/Hero.GR2")
	require.Len(t, visuals, 1)
	assert.Equal(t, "Hero_Visual", visuals[0].Name)

	assert.Empty(t, db.GetVisualsForGR2("Nope.GR2"))
}

func TestSaveAndLoadJSONRoundtrip(t *testing.T) {
	doc := buildTestDocument()
	db := NewMergedDatabase()
	db.merge(parseVisualBank(doc), parseMaterialBank(doc), parseTextureBank(doc), parseVirtualTextureBank(doc))
	db.Resolve()

	var buf bytes.Buffer
	require.NoError(t, db.SaveJSON(&buf))

	loaded, err := LoadJSON(&buf)
	require.NoError(t, err)
	asset, ok := loaded.GetByVisualName("Hero_Visual")
	require.True(t, ok)
	assert.Equal(t, "Hero.GR2", asset.GR2Filename)
}
