package merged

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/ls-toolkit/lstoolkit/pkg/lspk"
)

// GetByVisualName returns the visual with the given name, or false if none
// was found. Call Resolve before using this.
func (db *MergedDatabase) GetByVisualName(name string) (VisualAsset, bool) {
	a, ok := db.byName[name]
	if !ok {
		return VisualAsset{}, false
	}
	return *a, true
}

// GetVisualsForGR2 returns every visual that references a GR2 of the given
// filename, matched on the filename component only (case-sensitive).
func (db *MergedDatabase) GetVisualsForGR2(filename string) []VisualAsset {
	base := path.Base(filename)
	assets := db.byGR2[base]
	out := make([]VisualAsset, len(assets))
	for i, a := range assets {
		out[i] = *a
	}
	return out
}

// GtpMatch is one hit from FindGTPByHashesInPak.
type GtpMatch struct {
	Path string `json:"path"`
	Hash string `json:"hash"`
}

// FindGTPByHashesInPak lists every entry in pak whose filename is
// `<anything>_<hash>.gtp` for some hash in hashes.
func FindGTPByHashesInPak(pak string, hashes []string) ([]GtpMatch, error) {
	want := make(map[string]bool, len(hashes))
	for _, h := range hashes {
		want[strings.ToLower(h)] = true
	}

	r, err := lspk.Open(pak)
	if err != nil {
		return nil, fmt.Errorf("merged: opening pak %s: %w", pak, err)
	}
	defer r.Close()

	var out []GtpMatch
	for _, e := range r.List() {
		name := path.Base(e.Path)
		if !strings.HasSuffix(strings.ToLower(name), ".gtp") {
			continue
		}
		stem := strings.TrimSuffix(name, path.Ext(name))
		idx := strings.LastIndex(stem, "_")
		if idx < 0 {
			continue
		}
		hash := stem[idx+1:]
		if want[strings.ToLower(hash)] {
			out = append(out, GtpMatch{Path: e.Path, Hash: hash})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}
