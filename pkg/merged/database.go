package merged

// MergedDatabase holds every bank ingested from one or more `_merged.lsf`
// files, cross-resolved into queryable VisualAssets.
type MergedDatabase struct {
	visualsByUUID map[string]rawVisual
	materials     map[string]material
	textures      map[string]textureBankEntry
	virtualTex    map[string]virtualTextureBankEntry

	// visuals is populated by Resolve and is what the query surface reads.
	visuals     []VisualAsset
	byName      map[string]*VisualAsset
	byGR2       map[string][]*VisualAsset
}

// NewMergedDatabase returns an empty database ready for Ingest calls.
func NewMergedDatabase() *MergedDatabase {
	return &MergedDatabase{
		visualsByUUID: make(map[string]rawVisual),
		materials:     make(map[string]material),
		textures:      make(map[string]textureBankEntry),
		virtualTex:    make(map[string]virtualTextureBankEntry),
	}
}

// merge folds one document's banks into the accumulated raw state.
// Duplicate UUIDs across files are overwritten later-wins, matching the
// order callers feed documents in (sorted path order, per Ingest).
func (db *MergedDatabase) merge(visuals []rawVisual, materials []material, textures []textureBankEntry, vtex []virtualTextureBankEntry) {
	for _, v := range visuals {
		if v.id == "" {
			continue
		}
		db.visualsByUUID[v.id] = v
	}
	for _, m := range materials {
		if m.id == "" {
			continue
		}
		db.materials[m.id] = m
	}
	for _, t := range textures {
		if t.id == "" {
			continue
		}
		db.textures[t.id] = t
	}
	for _, v := range vtex {
		if v.id == "" {
			continue
		}
		db.virtualTex[v.id] = v
	}
}
