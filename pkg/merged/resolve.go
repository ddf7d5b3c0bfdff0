package merged

// Resolve performs the single cross-resolution pass spec.md §4.6 describes:
// every VisualAsset's material/virtual-texture UUID references are replaced
// with direct value copies. Dangling references (a UUID that names nothing
// in any loaded bank) are dropped silently.
func (db *MergedDatabase) Resolve() {
	db.visuals = db.visuals[:0]
	db.byName = make(map[string]*VisualAsset)
	db.byGR2 = make(map[string][]*VisualAsset)

	for _, rv := range db.visualsByUUID {
		asset := VisualAsset{Name: rv.name, GR2Filename: rv.gr2}

		for _, matID := range rv.materialRefs {
			mat, ok := db.materials[matID]
			if !ok {
				continue
			}
			for _, mt := range mat.textures {
				tex, ok := db.textures[mt.textureID]
				if !ok {
					continue
				}
				asset.TextureRefs = append(asset.TextureRefs, TextureRef{
					DDSPath:       tex.ddsPath,
					ParameterName: mt.parameterName,
				})
			}
		}

		for _, vtexID := range rv.virtualTexRefs {
			vt, ok := db.virtualTex[vtexID]
			if !ok {
				continue
			}
			asset.VirtualTextureRefs = append(asset.VirtualTextureRefs, VirtualTextureRef{
				Name:     vt.name,
				GtexHash: vt.gtexHash,
			})
		}

		db.visuals = append(db.visuals, asset)
	}

	for i := range db.visuals {
		a := &db.visuals[i]
		if a.Name != "" {
			db.byName[a.Name] = a
		}
		if a.GR2Filename != "" {
			db.byGR2[a.GR2Filename] = append(db.byGR2[a.GR2Filename], a)
		}
	}
}
