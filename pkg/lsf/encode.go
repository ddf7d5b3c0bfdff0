package lsf

import (
	"bytes"
	"io"

	"github.com/ls-toolkit/lstoolkit/pkg/doctree"
)

// EncodeOptions controls the physical layout Encode produces.
type EncodeOptions struct {
	// FileVersion is the LSF container version (1..7). Defaults to 6
	// (extended nodes with a key table) when zero.
	FileVersion uint32
	// Compression selects the codec applied to every section.
	Compression CompressionMethod
	// Extended forces the 16-byte node/attribute layout for a FileVersion
	// below 3, which otherwise uses the 12-byte V2 layout. It has no effect
	// once FileVersion >= 3: those versions always use the 16-byte layout.
	Extended bool
}

// builder accumulates the raw sections while walking a Document tree.
type builder struct {
	extended bool
	hasKeys  bool
	names    *nameTable
	nodes    []rawNode
	attrs    []rawAttribute
	keys     []rawKey
	values   bytes.Buffer
}

// Encode serialises doc as an LSF stream, following the exact section order
// spec.md §4.2 specifies: strings, [keys,] nodes, attributes, values, with
// the key section placed after values in the body regardless of where its
// size field sits in the header.
func Encode(w io.Writer, doc *doctree.Document, opts EncodeOptions) error {
	fileVersion := opts.FileVersion
	if fileVersion == 0 {
		fileVersion = 6
	}

	b := &builder{
		extended: opts.Extended || fileVersion >= 3,
		hasKeys:  fileVersion >= 6,
		names:    &nameTable{},
	}

	for _, region := range doc.Regions {
		var lastRoot int32 = -1
		for _, n := range region.Nodes {
			idx, err := b.addNode(n, -1)
			if err != nil {
				return err
			}
			if b.extended && lastRoot != -1 {
				b.nodes[lastRoot].NextSiblingIndex = idx
			}
			lastRoot = idx
		}
	}

	namesRaw := encodeNameTable(b.names)

	var nodesRaw, attrsRaw []byte
	if b.extended {
		nodesRaw = encodeNodesV3(b.nodes)
		attrsRaw = encodeAttributesV3(b.attrs)
	} else {
		nodesRaw = encodeNodesV2(b.nodes)
		attrsRaw = encodeAttributesV2(b.attrs)
	}
	valuesRaw := b.values.Bytes()
	var keysRaw []byte
	if b.hasKeys {
		keysRaw = encodeKeys(b.keys)
	}

	method := opts.Compression

	strSec, strComp, err := buildSection(namesRaw, method)
	if err != nil {
		return err
	}
	nodeSec, nodeComp, err := buildSection(nodesRaw, method)
	if err != nil {
		return err
	}
	attrSec, attrComp, err := buildSection(attrsRaw, method)
	if err != nil {
		return err
	}
	valSec, valComp, err := buildSection(valuesRaw, method)
	if err != nil {
		return err
	}
	var keySec SectionHeader
	var keyComp []byte
	if b.hasKeys {
		keySec, keyComp, err = buildSection(keysRaw, method)
		if err != nil {
			return err
		}
	}

	metadataFormat := MetadataNone
	if b.hasKeys {
		metadataFormat = MetadataKeysAndAdjacency
	}

	h := &Header{
		Version:          fileVersion,
		EngineVersion:    packVersion(doc.Version.Major, doc.Version.Minor, doc.Version.Revision, doc.Version.Build),
		Strings:          strSec,
		Keys:             keySec,
		Nodes:            nodeSec,
		Attributes:       attrSec,
		Values:           valSec,
		CompressionFlags: uint32(method),
		MetadataFormat:   metadataFormat,
	}

	if err := writeHeader(w, h); err != nil {
		return err
	}
	for _, chunk := range [][]byte{strComp, nodeComp, attrComp, valComp} {
		if _, err := w.Write(chunk); err != nil {
			return err
		}
	}
	if b.hasKeys {
		if _, err := w.Write(keyComp); err != nil {
			return err
		}
	}
	return nil
}

// addNode appends n (and its whole subtree) to the builder's flat arrays
// and returns n's node index.
func (b *builder) addNode(n *doctree.Node, parent int32) (int32, error) {
	idx := int32(len(b.nodes))
	b.nodes = append(b.nodes, rawNode{
		Name:                b.names.intern(n.ID),
		ParentIndex:         parent,
		FirstAttributeIndex: -1,
		NextSiblingIndex:    -1,
	})

	if n.Key != nil {
		b.keys = append(b.keys, rawKey{NodeIndex: idx, Name: b.names.intern(*n.Key)})
	}

	var firstAttr, lastAttr int32 = -1, -1
	for _, a := range n.Attributes {
		payload, err := attributePayload(a)
		if err != nil {
			return 0, err
		}
		valOffset := b.values.Len()
		b.values.Write(payload)

		attrIdx := int32(len(b.attrs))
		b.attrs = append(b.attrs, rawAttribute{
			Name:               b.names.intern(a.ID),
			TypeID:             uint8(a.Type),
			Length:             uint32(len(payload)),
			NextAttributeIndex: -1,
			Offset:             uint32(valOffset),
			NodeIndex:          idx,
		})
		if firstAttr == -1 {
			firstAttr = attrIdx
		} else {
			b.attrs[lastAttr].NextAttributeIndex = attrIdx
		}
		lastAttr = attrIdx
	}
	b.nodes[idx].FirstAttributeIndex = firstAttr

	var lastChild int32 = -1
	for _, c := range n.Children {
		childIdx, err := b.addNode(c, idx)
		if err != nil {
			return 0, err
		}
		if b.extended && lastChild != -1 {
			b.nodes[lastChild].NextSiblingIndex = childIdx
		}
		lastChild = childIdx
	}

	return idx, nil
}

func buildSection(data []byte, method CompressionMethod) (SectionHeader, []byte, error) {
	comp, err := compressSection(data, method)
	if err != nil {
		return SectionHeader{}, nil, err
	}
	s := SectionHeader{Uncompressed: uint32(len(data))}
	if method != CompressionNone && len(comp) < len(data) {
		s.Compressed = uint32(len(comp))
	} else {
		comp = data
		s.Compressed = s.Uncompressed
	}
	return s, comp, nil
}

func attributePayload(a *doctree.Attribute) ([]byte, error) {
	if a.Type == doctree.AttrTranslatedString {
		return encodeTranslatedString(a.Value, a.Handle, a.TSVersion), nil
	}
	return encodeValue(a.Type, a.Value)
}
