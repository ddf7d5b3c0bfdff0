package lsf

import (
	"fmt"
	"io"

	"github.com/ls-toolkit/lstoolkit/pkg/doctree"
)

// Decode parses an LSF stream into a doctree.Document. Decode never
// retains the underlying reader past this call.
func Decode(r io.Reader) (*doctree.Document, error) {
	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	rest, err := readAll(r)
	if err != nil {
		return nil, fmt.Errorf("lsf: reading body: %w", err)
	}

	method := h.compression()
	offset := 0
	nextSection := func(s SectionHeader) ([]byte, error) {
		size := int(s.Uncompressed)
		if s.isCompressed() {
			size = int(s.Compressed)
		}
		if offset+size > len(rest) {
			return nil, fmt.Errorf("lsf: section runs past end of file (offset %d size %d, have %d)", offset, size, len(rest))
		}
		raw := rest[offset : offset+size]
		offset += size
		return decompressSection(raw, s, method)
	}

	// Section order on disk is strings, [keys,] nodes, attributes, values
	// (spec.md §4.2): the key section is physically located after values
	// despite its size field appearing earlier in the header, so we must
	// read the header-declared sizes in file order, not header order, for
	// any version where keys are present.
	stringsRaw, err := nextSection(h.Strings)
	if err != nil {
		return nil, err
	}
	var keysRaw []byte
	nodesRaw, err := nextSection(h.Nodes)
	if err != nil {
		return nil, err
	}
	attrsRaw, err := nextSection(h.Attributes)
	if err != nil {
		return nil, err
	}
	valuesRaw, err := nextSection(h.Values)
	if err != nil {
		return nil, err
	}
	if h.HasKeys() {
		keysRaw, err = nextSection(h.Keys)
		if err != nil {
			return nil, err
		}
	}

	names, err := decodeNameTable(stringsRaw)
	if err != nil {
		return nil, err
	}

	layout := detectLayout(len(nodesRaw), len(attrsRaw), h.Version, h.MetadataFormat)

	var nodes []rawNode
	var attrs []rawAttribute
	if layout == LayoutV3 {
		nodes, err = decodeNodesV3(nodesRaw)
		if err != nil {
			return nil, err
		}
		attrs, err = decodeAttributesV3(attrsRaw)
		if err != nil {
			return nil, err
		}
	} else {
		nodes, err = decodeNodesV2(nodesRaw)
		if err != nil {
			return nil, err
		}
		attrs, err = decodeAttributesV2(attrsRaw)
		if err != nil {
			return nil, err
		}
		firstAttrByNode := make(map[int32]int32)
		linkV2Attributes(attrs, firstAttrByNode)
		for i := range nodes {
			if first, ok := firstAttrByNode[int32(i)]; ok {
				nodes[i].FirstAttributeIndex = first
			} else {
				nodes[i].FirstAttributeIndex = -1
			}
		}
	}

	if err := validateIndices(nodes, attrs); err != nil {
		return nil, err
	}

	var keys []rawKey
	if h.HasKeys() {
		keys, err = decodeKeys(keysRaw)
		if err != nil {
			return nil, err
		}
	}
	keyByNode := make(map[int32]nameRef, len(keys))
	for _, k := range keys {
		keyByNode[k.NodeIndex] = k.Name
	}

	major, minor, revision, build := unpackVersion(h.EngineVersion)
	doc := &doctree.Document{
		Version: doctree.DocVersion{Major: major, Minor: minor, Revision: revision, Build: build},
	}

	treeNodes := make([]*doctree.Node, len(nodes))
	for i, rn := range nodes {
		name, err := names.resolve(rn.Name)
		if err != nil {
			return nil, fmt.Errorf("lsf: node %d: %w", i, err)
		}
		n := doctree.NewNode(name)
		if keyRef, ok := keyByNode[int32(i)]; ok {
			keyName, err := names.resolve(keyRef)
			if err != nil {
				return nil, fmt.Errorf("lsf: node %d key: %w", i, err)
			}
			n.WithKey(keyName)
		}

		cur := rn.FirstAttributeIndex
		for cur != -1 {
			a := attrs[cur]
			attrName, err := names.resolve(a.Name)
			if err != nil {
				return nil, fmt.Errorf("lsf: attribute %d: %w", cur, err)
			}
			blob, err := sliceValue(valuesRaw, int(a.Offset), int(a.Length))
			if err != nil {
				return nil, fmt.Errorf("lsf: attribute %d value: %w", cur, err)
			}
			dv, err := decodeValue(a.TypeID, blob)
			if err != nil {
				return nil, fmt.Errorf("lsf: attribute %d (%s): %w", cur, attrName, err)
			}
			n.AddAttribute(&doctree.Attribute{
				ID:        attrName,
				Type:      doctree.AttrType(a.TypeID),
				Value:     dv.Value,
				Handle:    dv.Handle,
				TSVersion: dv.Version,
			})
			cur = a.NextAttributeIndex
		}

		treeNodes[i] = n
	}

	// Link children by parent index, preserving file order (which is the
	// logical order per spec.md §3.1).
	roots := make([]*doctree.Node, 0)
	for i, rn := range nodes {
		if rn.ParentIndex == -1 {
			roots = append(roots, treeNodes[i])
		} else {
			treeNodes[rn.ParentIndex].AddChild(treeNodes[i])
		}
	}

	// LSF has no explicit region section; by convention each root-level
	// node's own id names its region, matching how the teacher's
	// ext4 directory/inode split owns a single root rather than a list of
	// named partitions at this layer. Downstream LSX/LSJ documents preserve
	// one region per distinct root id, in file order of first appearance.
	regionOrder := make([]string, 0)
	regionIndex := make(map[string]int)
	for _, root := range roots {
		idx, ok := regionIndex[root.ID]
		if !ok {
			idx = len(regionOrder)
			regionIndex[root.ID] = idx
			regionOrder = append(regionOrder, root.ID)
			doc.Regions = append(doc.Regions, &doctree.Region{ID: root.ID})
		}
		doc.Regions[idx].Nodes = append(doc.Regions[idx].Nodes, root)
	}

	return doc, nil
}

func sliceValue(blob []byte, offset, length int) ([]byte, error) {
	if offset < 0 || length < 0 || offset+length > len(blob) {
		return nil, fmt.Errorf("value slice [%d:%d) exceeds blob of %d bytes", offset, offset+length, len(blob))
	}
	return blob[offset : offset+length], nil
}
