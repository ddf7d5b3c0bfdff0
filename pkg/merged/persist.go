package merged

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// snapshot is the neutral JSON artefact a MergedDatabase persists to,
// letting a subsequent run skip the LSF conversion cost entirely.
type snapshot struct {
	Visuals []VisualAsset `json:"visuals"`
}

// SaveJSON writes every resolved VisualAsset to w. Call Resolve first.
func (db *MergedDatabase) SaveJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snapshot{Visuals: db.visuals})
}

// SaveJSONFile is a convenience wrapper around SaveJSON for a file path.
func (db *MergedDatabase) SaveJSONFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("merged: creating %s: %w", path, err)
	}
	defer f.Close()
	return db.SaveJSON(f)
}

// LoadJSON reads a previously saved snapshot, bypassing LSF ingestion. The
// returned database is already resolved: its raw bank maps are left empty
// since only the cross-resolved visuals were persisted.
func LoadJSON(r io.Reader) (*MergedDatabase, error) {
	var snap snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("merged: decoding snapshot: %w", err)
	}
	db := NewMergedDatabase()
	db.visuals = snap.Visuals
	db.byName = make(map[string]*VisualAsset)
	db.byGR2 = make(map[string][]*VisualAsset)
	for i := range db.visuals {
		a := &db.visuals[i]
		if a.Name != "" {
			db.byName[a.Name] = a
		}
		if a.GR2Filename != "" {
			db.byGR2[a.GR2Filename] = append(db.byGR2[a.GR2Filename], a)
		}
	}
	return db, nil
}

// LoadJSONFile is a convenience wrapper around LoadJSON for a file path.
func LoadJSONFile(path string) (*MergedDatabase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("merged: opening %s: %w", path, err)
	}
	defer f.Close()
	return LoadJSON(f)
}
