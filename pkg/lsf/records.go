package lsf

import (
	"encoding/binary"
	"fmt"
)

// rawNode is the decoded node record, uniform across V2/V3; NextSibling is
// -1 for V2 records (not stored on disk, reconstructed implicitly since V2
// files rely on FirstAttribute chaining rather than sibling chaining).
type rawNode struct {
	Name                nameRef
	ParentIndex         int32
	FirstAttributeIndex int32
	NextSiblingIndex    int32
}

// rawAttribute is the decoded attribute record, uniform across V2/V3.
// NodeIndex is only meaningful for V2 (where it replaces an explicit
// NextAttribute/offset pair); Offset and NextAttributeIndex are only
// meaningful for V3.
type rawAttribute struct {
	Name                nameRef
	TypeID              uint8
	Length              uint32
	NextAttributeIndex  int32
	Offset              uint32
	NodeIndex           int32
}

// detectLayout implements the size-based auto-detection rule from spec.md
// §3.2/§4.2: a section length divisible by 16 but not by 12 forces the
// extended layout and vice versa; when both divide evenly the declared
// version hint decides.
func detectLayout(nodeSectionLen, attrSectionLen int, declaredVersion uint32, metadataFormat MetadataFormat) Layout {
	nodeHint := layoutHint(nodeSectionLen, nodeRecordSizeV2, nodeRecordSizeV3)
	attrHint := layoutHint(attrSectionLen, attrRecordSizeV2, attrRecordSizeV3)

	if nodeHint != layoutAmbiguous {
		return nodeHint.layout()
	}
	if attrHint != layoutAmbiguous {
		return attrHint.layout()
	}

	// Both sections are ambiguous (e.g. zero-length, or divisible by both
	// 12 and 16). Fall back to the declared-version hint: extended layout
	// is used for version >= 3 when the header claims
	// KeysAndAdjacency metadata, per spec.md §6.1. Per spec.md §9's open
	// question, any other metadata_format value falls back to non-extended.
	if declaredVersion >= 3 && metadataFormat == MetadataKeysAndAdjacency {
		return LayoutV3
	}
	return LayoutV2
}

type layoutHintResult int

const (
	layoutAmbiguous layoutHintResult = iota
	layoutHintV2
	layoutHintV3
)

func (h layoutHintResult) layout() Layout {
	if h == layoutHintV3 {
		return LayoutV3
	}
	return LayoutV2
}

func layoutHint(sectionLen, v2size, v3size int) layoutHintResult {
	if sectionLen == 0 {
		return layoutAmbiguous
	}
	divBy2 := sectionLen%v2size == 0
	divBy3 := sectionLen%v3size == 0
	switch {
	case divBy2 && !divBy3:
		return layoutHintV2
	case divBy3 && !divBy2:
		return layoutHintV3
	default:
		return layoutAmbiguous
	}
}

func decodeNodesV2(raw []byte) ([]rawNode, error) {
	if len(raw)%nodeRecordSizeV2 != 0 {
		return nil, fmt.Errorf("lsf: node section length %d not a multiple of %d", len(raw), nodeRecordSizeV2)
	}
	count := len(raw) / nodeRecordSizeV2
	nodes := make([]rawNode, count)
	for i := 0; i < count; i++ {
		b := raw[i*nodeRecordSizeV2:]
		nodes[i] = rawNode{
			Name:                nameRef(binary.LittleEndian.Uint32(b[0:4])),
			ParentIndex:         int32(binary.LittleEndian.Uint32(b[4:8])),
			FirstAttributeIndex: int32(binary.LittleEndian.Uint32(b[8:12])),
			NextSiblingIndex:    -1,
		}
	}
	return nodes, nil
}

func decodeNodesV3(raw []byte) ([]rawNode, error) {
	if len(raw)%nodeRecordSizeV3 != 0 {
		return nil, fmt.Errorf("lsf: node section length %d not a multiple of %d", len(raw), nodeRecordSizeV3)
	}
	count := len(raw) / nodeRecordSizeV3
	nodes := make([]rawNode, count)
	for i := 0; i < count; i++ {
		b := raw[i*nodeRecordSizeV3:]
		nodes[i] = rawNode{
			Name:                nameRef(binary.LittleEndian.Uint32(b[0:4])),
			ParentIndex:         int32(binary.LittleEndian.Uint32(b[4:8])),
			NextSiblingIndex:    int32(binary.LittleEndian.Uint32(b[8:12])),
			FirstAttributeIndex: int32(binary.LittleEndian.Uint32(b[12:16])),
		}
	}
	return nodes, nil
}

func encodeNodesV2(nodes []rawNode) []byte {
	buf := make([]byte, len(nodes)*nodeRecordSizeV2)
	for i, n := range nodes {
		b := buf[i*nodeRecordSizeV2:]
		binary.LittleEndian.PutUint32(b[0:4], uint32(n.Name))
		binary.LittleEndian.PutUint32(b[4:8], uint32(n.ParentIndex))
		binary.LittleEndian.PutUint32(b[8:12], uint32(n.FirstAttributeIndex))
	}
	return buf
}

func encodeNodesV3(nodes []rawNode) []byte {
	buf := make([]byte, len(nodes)*nodeRecordSizeV3)
	for i, n := range nodes {
		b := buf[i*nodeRecordSizeV3:]
		binary.LittleEndian.PutUint32(b[0:4], uint32(n.Name))
		binary.LittleEndian.PutUint32(b[4:8], uint32(n.ParentIndex))
		binary.LittleEndian.PutUint32(b[8:12], uint32(n.NextSiblingIndex))
		binary.LittleEndian.PutUint32(b[12:16], uint32(n.FirstAttributeIndex))
	}
	return buf
}

const typeLenTypeBits = 6
const typeLenLengthShift = typeLenTypeBits

func splitTypeAndLength(word uint32) (typeID uint8, length uint32) {
	return uint8(word & 0x3F), word >> typeLenLengthShift
}

func joinTypeAndLength(typeID uint8, length uint32) uint32 {
	return uint32(typeID&0x3F) | (length << typeLenLengthShift)
}

func decodeAttributesV2(raw []byte) ([]rawAttribute, error) {
	if len(raw)%attrRecordSizeV2 != 0 {
		return nil, fmt.Errorf("lsf: attribute section length %d not a multiple of %d", len(raw), attrRecordSizeV2)
	}
	count := len(raw) / attrRecordSizeV2
	attrs := make([]rawAttribute, count)
	for i := 0; i < count; i++ {
		b := raw[i*attrRecordSizeV2:]
		typeID, length := splitTypeAndLength(binary.LittleEndian.Uint32(b[4:8]))
		attrs[i] = rawAttribute{
			Name:               nameRef(binary.LittleEndian.Uint32(b[0:4])),
			TypeID:             typeID,
			Length:             length,
			NodeIndex:          int32(binary.LittleEndian.Uint32(b[8:12])),
			NextAttributeIndex: -1,
		}
	}
	return attrs, nil
}

func decodeAttributesV3(raw []byte) ([]rawAttribute, error) {
	if len(raw)%attrRecordSizeV3 != 0 {
		return nil, fmt.Errorf("lsf: attribute section length %d not a multiple of %d", len(raw), attrRecordSizeV3)
	}
	count := len(raw) / attrRecordSizeV3
	attrs := make([]rawAttribute, count)
	for i := 0; i < count; i++ {
		b := raw[i*attrRecordSizeV3:]
		typeID, length := splitTypeAndLength(binary.LittleEndian.Uint32(b[4:8]))
		attrs[i] = rawAttribute{
			Name:               nameRef(binary.LittleEndian.Uint32(b[0:4])),
			TypeID:             typeID,
			Length:             length,
			NextAttributeIndex: int32(binary.LittleEndian.Uint32(b[8:12])),
			Offset:             binary.LittleEndian.Uint32(b[12:16]),
		}
	}
	return attrs, nil
}

func encodeAttributesV2(attrs []rawAttribute) []byte {
	buf := make([]byte, len(attrs)*attrRecordSizeV2)
	for i, a := range attrs {
		b := buf[i*attrRecordSizeV2:]
		binary.LittleEndian.PutUint32(b[0:4], uint32(a.Name))
		binary.LittleEndian.PutUint32(b[4:8], joinTypeAndLength(a.TypeID, a.Length))
		binary.LittleEndian.PutUint32(b[8:12], uint32(a.NodeIndex))
	}
	return buf
}

func encodeAttributesV3(attrs []rawAttribute) []byte {
	buf := make([]byte, len(attrs)*attrRecordSizeV3)
	for i, a := range attrs {
		b := buf[i*attrRecordSizeV3:]
		binary.LittleEndian.PutUint32(b[0:4], uint32(a.Name))
		binary.LittleEndian.PutUint32(b[4:8], joinTypeAndLength(a.TypeID, a.Length))
		binary.LittleEndian.PutUint32(b[8:12], uint32(a.NextAttributeIndex))
		binary.LittleEndian.PutUint32(b[12:16], a.Offset)
	}
	return buf
}

// linkV2Attributes reconstructs per-node attribute chains and value-blob
// offsets for the V2 layout, which stores neither explicitly (spec.md §4.2
// "Attribute chaining (V2 only)" / "Value-blob offsets (V2 only)").
//
// Attributes are grouped by NodeIndex in file order; within a group the
// on-wire order is the logical attribute order, and offsets accumulate
// across the whole section in file order.
func linkV2Attributes(attrs []rawAttribute, firstAttrByNode map[int32]int32) {
	var running uint32
	lastInNode := make(map[int32]int)
	for i := range attrs {
		a := &attrs[i]
		a.Offset = running
		running += a.Length

		node := a.NodeIndex
		if prev, ok := lastInNode[node]; ok {
			attrs[prev].NextAttributeIndex = int32(i)
		} else {
			firstAttrByNode[node] = int32(i)
		}
		lastInNode[node] = i
	}
}

type rawKey struct {
	NodeIndex int32
	Name      nameRef
}

func decodeKeys(raw []byte) ([]rawKey, error) {
	if len(raw)%keyRecordSize != 0 {
		return nil, fmt.Errorf("lsf: key section length %d not a multiple of %d", len(raw), keyRecordSize)
	}
	count := len(raw) / keyRecordSize
	keys := make([]rawKey, count)
	for i := 0; i < count; i++ {
		b := raw[i*keyRecordSize:]
		keys[i] = rawKey{
			NodeIndex: int32(binary.LittleEndian.Uint32(b[0:4])),
			Name:      nameRef(binary.LittleEndian.Uint32(b[4:8])),
		}
	}
	return keys, nil
}

func encodeKeys(keys []rawKey) []byte {
	buf := make([]byte, len(keys)*keyRecordSize)
	for i, k := range keys {
		b := buf[i*keyRecordSize:]
		binary.LittleEndian.PutUint32(b[0:4], uint32(k.NodeIndex))
		binary.LittleEndian.PutUint32(b[4:8], uint32(k.Name))
	}
	return buf
}

// validateIndices checks that every parent/sibling/attribute index is
// either -1 or a valid index into its array, and that every node's parent
// chain terminates at -1 within len(nodes) steps, per the cycle-safety
// design in spec.md §9. It runs before the tree is materialized so that a
// corrupt file with cyclic indices surfaces as a decode error rather than
// an infinite loop or stack overflow downstream.
func validateIndices(nodes []rawNode, attrs []rawAttribute) error {
	n := len(nodes)
	for i, nd := range nodes {
		if nd.ParentIndex < -1 || int(nd.ParentIndex) >= n {
			return fmt.Errorf("lsf: node %d has out-of-range parent index %d", i, nd.ParentIndex)
		}
		if nd.NextSiblingIndex < -1 || int(nd.NextSiblingIndex) >= n {
			return fmt.Errorf("lsf: node %d has out-of-range sibling index %d", i, nd.NextSiblingIndex)
		}
		if nd.FirstAttributeIndex < -1 || int(nd.FirstAttributeIndex) >= len(attrs) {
			return fmt.Errorf("lsf: node %d has out-of-range first-attribute index %d", i, nd.FirstAttributeIndex)
		}
	}
	for i, a := range attrs {
		if a.NextAttributeIndex < -1 || int(a.NextAttributeIndex) >= len(attrs) {
			return fmt.Errorf("lsf: attribute %d has out-of-range next-attribute index %d", i, a.NextAttributeIndex)
		}
	}

	// state: 0 unvisited, 1 on the chain being followed, 2 known to reach -1.
	state := make([]uint8, n)
	for i := range nodes {
		var chain []int32
		for cur := int32(i); cur != -1 && state[cur] != 2; cur = nodes[cur].ParentIndex {
			if state[cur] == 1 {
				return fmt.Errorf("lsf: node %d's parent chain does not terminate (cycle detected)", i)
			}
			state[cur] = 1
			chain = append(chain, cur)
		}
		for _, c := range chain {
			state[c] = 2 // chain merges into an already-validated ancestor path
		}
	}
	return nil
}
