package dialog

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ls-toolkit/lstoolkit/pkg/convert"
	"github.com/ls-toolkit/lstoolkit/pkg/doctree"
	"github.com/ls-toolkit/lstoolkit/pkg/lspk"
)

const (
	nodeFlag     = "Flag"
	attrFlagName = "Name"
)

// FlagIndex maps a flag UUID to its authored name, built once over every
// flag-definition LSF in a set of PAKs.
type FlagIndex struct {
	byUUID map[string]string
}

// NameFor returns the indexed flag name for uuid, or "" if unknown.
func (f *FlagIndex) NameFor(uuid string) (string, bool) {
	v, ok := f.byUUID[uuid]
	return v, ok
}

// BuildFlagIndex scans every named PAK for files under a "Flags/" path and
// records UUID -> flag-name pairs.
func BuildFlagIndex(pakPaths []string) (*FlagIndex, error) {
	idx := &FlagIndex{byUUID: make(map[string]string)}
	for _, pakPath := range pakPaths {
		if err := scanPakForFlags(pakPath, idx); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

func scanPakForFlags(pakPath string, idx *FlagIndex) error {
	r, err := lspk.Open(pakPath)
	if err != nil {
		return fmt.Errorf("dialog: opening %s: %w", pakPath, err)
	}
	defer r.Close()

	for _, e := range r.List() {
		if !strings.HasSuffix(strings.ToLower(e.Path), ".lsf") || !strings.Contains(e.Path, "Flags/") {
			continue
		}
		raw, err := r.ReadOne(e)
		if err != nil {
			return fmt.Errorf("dialog: reading %s: %w", e.Path, err)
		}
		doc, err := convert.FromLSF(bytes.NewReader(raw))
		if err != nil {
			return fmt.Errorf("dialog: parsing %s: %w", e.Path, err)
		}
		indexFlagsFromDocument(doc, idx)
	}
	return nil
}

func indexFlagsFromDocument(doc *doctree.Document, idx *FlagIndex) {
	var walk func(n *doctree.Node)
	walk = func(n *doctree.Node) {
		if n.ID == nodeFlag {
			uuid, uok := attrValue(n, attrMapKey)
			name, nok := attrValue(n, attrFlagName)
			if uok && nok {
				idx.byUUID[uuid] = name
			}
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, r := range doc.Regions {
		for _, n := range r.Nodes {
			walk(n)
		}
	}
}
