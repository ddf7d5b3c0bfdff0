package merged

import "github.com/ls-toolkit/lstoolkit/pkg/doctree"

// Bank node and attribute names. The engine's merged-asset schema isn't
// published; these names follow the convention every other bank in the
// game's save format uses (a UUID-keyed node per entry, identified by an
// "ID" attribute, children named after the referenced bank).
const (
	nodeVisualBank        = "VisualBank"
	nodeMaterialBank      = "MaterialBank"
	nodeTextureBank       = "TextureBank"
	nodeVirtualTextureBank = "VirtualTextureBank"

	nodeVisual         = "Visual"
	nodeMaterial       = "Material"
	nodeTexture        = "Texture"
	nodeVirtualTexture = "VirtualTexture"
	nodeMaterialRef    = "MaterialRef"
	nodeVirtualTexRef  = "VirtualTextureRef"

	attrID            = "ID"
	attrName          = "Name"
	attrGR2           = "GR2"
	attrDDSPath       = "DDSPath"
	attrParameterName = "ParameterName"
	attrGtexHash      = "GtexHash"
	attrMaterialUUID  = "MaterialUUID"
	attrTextureUUID   = "TextureUUID"
	attrVTexUUID      = "VirtualTextureUUID"
)

func attrValue(n *doctree.Node, id string) (string, bool) {
	for _, a := range n.Attributes {
		if a.ID == id {
			return a.Value, true
		}
	}
	return "", false
}

func childrenNamed(n *doctree.Node, id string) []*doctree.Node {
	var out []*doctree.Node
	for _, c := range n.Children {
		if c.ID == id {
			out = append(out, c)
		}
	}
	return out
}

// findBank searches every region/node recursively for the first node with
// the given id, since `_merged.lsf` files don't agree on which region
// wraps each bank.
func findBank(doc *doctree.Document, bankID string) *doctree.Node {
	for _, r := range doc.Regions {
		for _, n := range r.Nodes {
			if found := findNode(n, bankID); found != nil {
				return found
			}
		}
	}
	return nil
}

func findNode(n *doctree.Node, id string) *doctree.Node {
	if n.ID == id {
		return n
	}
	for _, c := range n.Children {
		if found := findNode(c, id); found != nil {
			return found
		}
	}
	return nil
}

// parseVisualBank, parseMaterialBank, parseTextureBank and
// parseVirtualTextureBank extract each bank's raw (pre-cross-resolution)
// rows from a parsed document. A document missing a given bank contributes
// nothing, silently: a single `_merged.lsf` rarely carries all four.
func parseVisualBank(doc *doctree.Document) []rawVisual {
	bank := findBank(doc, nodeVisualBank)
	if bank == nil {
		return nil
	}
	var out []rawVisual
	for _, v := range childrenNamed(bank, nodeVisual) {
		id, _ := attrValue(v, attrID)
		name, _ := attrValue(v, attrName)
		gr2, _ := attrValue(v, attrGR2)
		rv := rawVisual{id: id, name: name, gr2: gr2}
		for _, mr := range childrenNamed(v, nodeMaterialRef) {
			if uuid, ok := attrValue(mr, attrMaterialUUID); ok {
				rv.materialRefs = append(rv.materialRefs, uuid)
			}
		}
		for _, vr := range childrenNamed(v, nodeVirtualTexRef) {
			if uuid, ok := attrValue(vr, attrVTexUUID); ok {
				rv.virtualTexRefs = append(rv.virtualTexRefs, uuid)
			}
		}
		out = append(out, rv)
	}
	return out
}

func parseMaterialBank(doc *doctree.Document) []material {
	bank := findBank(doc, nodeMaterialBank)
	if bank == nil {
		return nil
	}
	var out []material
	for _, m := range childrenNamed(bank, nodeMaterial) {
		id, _ := attrValue(m, attrID)
		mat := material{id: id}
		for _, t := range childrenNamed(m, nodeTexture) {
			param, _ := attrValue(t, attrParameterName)
			texID, _ := attrValue(t, attrTextureUUID)
			mat.textures = append(mat.textures, materialTexture{parameterName: param, textureID: texID})
		}
		out = append(out, mat)
	}
	return out
}

func parseTextureBank(doc *doctree.Document) []textureBankEntry {
	bank := findBank(doc, nodeTextureBank)
	if bank == nil {
		return nil
	}
	var out []textureBankEntry
	for _, t := range childrenNamed(bank, nodeTexture) {
		id, _ := attrValue(t, attrID)
		dds, _ := attrValue(t, attrDDSPath)
		out = append(out, textureBankEntry{id: id, ddsPath: dds})
	}
	return out
}

func parseVirtualTextureBank(doc *doctree.Document) []virtualTextureBankEntry {
	bank := findBank(doc, nodeVirtualTextureBank)
	if bank == nil {
		return nil
	}
	var out []virtualTextureBankEntry
	for _, v := range childrenNamed(bank, nodeVirtualTexture) {
		id, _ := attrValue(v, attrID)
		name, _ := attrValue(v, attrName)
		hash, _ := attrValue(v, attrGtexHash)
		out = append(out, virtualTextureBankEntry{id: id, name: name, gtexHash: hash})
	}
	return out
}
