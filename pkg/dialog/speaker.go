package dialog

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ls-toolkit/lstoolkit/pkg/convert"
	"github.com/ls-toolkit/lstoolkit/pkg/doctree"
	"github.com/ls-toolkit/lstoolkit/pkg/lspk"
)

// DirectPrefix marks a speaker index entry whose display name is a literal
// string rather than a localisation handle (used for speaker groups).
const DirectPrefix = "__DIRECT__:"

// characterTemplatePatterns names the LSF path fragments the speaker index
// scans for: root templates, origin characters, level-character merges, and
// speaker groups.
var characterTemplatePatterns = []string{
	"RootTemplates/",
	"Origins/",
	"Characters/",
	"SpeakerGroups/",
}

func looksLikeCharacterTemplate(path string) bool {
	for _, p := range characterTemplatePatterns {
		if strings.Contains(path, p) {
			return true
		}
	}
	return false
}

// SpeakerIndex maps a character/speaker-group UUID to its display name: a
// TranslatedString handle for individual characters, or a DirectPrefix
// literal for speaker groups.
type SpeakerIndex struct {
	byUUID map[string]string
}

// DisplayNameFor returns the indexed display name for uuid, or "" if
// unknown.
func (s *SpeakerIndex) DisplayNameFor(uuid string) (string, bool) {
	v, ok := s.byUUID[uuid]
	return v, ok
}

const (
	nodeGameObject    = "GameObject"
	nodeSpeakerGroup  = "SpeakerGroup"
	nodeDisplayName   = "DisplayName"
	attrMapKey        = "MapKey"
	attrHandle        = "Handle"
	attrGroupName     = "Name"
)

// BuildSpeakerIndex scans every named PAK for character-template and
// speaker-group LSFs and records UUID -> display-name-handle pairs.
func BuildSpeakerIndex(pakPaths []string) (*SpeakerIndex, error) {
	idx := &SpeakerIndex{byUUID: make(map[string]string)}
	for _, pakPath := range pakPaths {
		if err := scanPakForSpeakers(pakPath, idx); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

func scanPakForSpeakers(pakPath string, idx *SpeakerIndex) error {
	r, err := lspk.Open(pakPath)
	if err != nil {
		return fmt.Errorf("dialog: opening %s: %w", pakPath, err)
	}
	defer r.Close()

	for _, e := range r.List() {
		if !strings.HasSuffix(strings.ToLower(e.Path), ".lsf") || !looksLikeCharacterTemplate(e.Path) {
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
		indexSpeakersFromDocument(doc, idx)
	}
	return nil
}

func indexSpeakersFromDocument(doc *doctree.Document, idx *SpeakerIndex) {
	var walk func(n *doctree.Node)
	walk = func(n *doctree.Node) {
		switch n.ID {
		case nodeGameObject:
			uuid, ok := attrValue(n, attrMapKey)
			if ok {
				if dn := findChild(n, nodeDisplayName); dn != nil {
					if handle, ok := attrValue(dn, attrHandle); ok {
						idx.byUUID[uuid] = handle
					}
				}
			}
		case nodeSpeakerGroup:
			uuid, uok := attrValue(n, attrMapKey)
			name, nok := attrValue(n, attrGroupName)
			if uok && nok {
				idx.byUUID[uuid] = DirectPrefix + name
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

func attrValue(n *doctree.Node, id string) (string, bool) {
	for _, a := range n.Attributes {
		if a.ID == id {
			return a.Value, true
		}
	}
	return "", false
}

func findChild(n *doctree.Node, id string) *doctree.Node {
	for _, c := range n.Children {
		if c.ID == id {
			return c
		}
	}
	return nil
}
