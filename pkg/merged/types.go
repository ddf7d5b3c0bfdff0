// Package merged resolves the engine's `_merged.lsf` banks (visuals,
// materials, textures, virtual textures) into a single queryable database.
// Grounded on the teacher's pkg/vconvert, which composes lower-level parsers
// and cross-references their output by key, and on pkg/vimg.Builder's
// scratch-directory ingest lifecycle.
package merged

// TextureRef is a resolved regular-texture reference: the on-disk DDS path
// and the material parameter it's bound to.
type TextureRef struct {
	DDSPath       string `json:"ddsPath"`
	ParameterName string `json:"parameterName"`
}

// VirtualTextureRef is a resolved GTS/GTP reference.
type VirtualTextureRef struct {
	Name     string `json:"name"`
	GtexHash string `json:"gtexHash"`
}

// VisualAsset is one entry of the VisualBank, with its material/texture
// references already cross-resolved to direct values.
type VisualAsset struct {
	Name               string              `json:"name"`
	GR2Filename        string              `json:"gr2Filename"`
	TextureRefs        []TextureRef        `json:"textureRefs"`
	VirtualTextureRefs []VirtualTextureRef `json:"virtualTextureRefs"`
}

// material and texture are the pre-cross-resolution bank rows; the
// database keeps them in its bank maps, and Resolve reads them to build
// VisualAsset.TextureRefs.
type material struct {
	id       string
	textures []materialTexture
}

type materialTexture struct {
	parameterName string
	textureID     string
}

type textureBankEntry struct {
	id      string
	ddsPath string
}

type virtualTextureBankEntry struct {
	id       string
	name     string
	gtexHash string
}

type rawVisual struct {
	id              string
	name            string
	gr2             string
	materialRefs    []string
	virtualTexRefs  []string
}
