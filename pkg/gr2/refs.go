package gr2

import (
	"math"

	"github.com/ls-toolkit/lstoolkit/pkg/bitio"
)

// Section indices, fixed by spec.md §3.4.
const (
	SectionRoot          = 0
	SectionTrackGroups   = 1
	SectionSkeleton      = 2
	SectionMeshStructs   = 3
	SectionTypeDefs      = 4
	SectionVertexData    = 5
	SectionIndexData     = 6
	sectionCount         = 7
)

// Ref is a cross-section (or intra-section) pointer: a section index and a
// byte offset within it. A Ref with Section < 0 is null.
type Ref struct {
	Section int32
	Offset  uint32
}

// NullRef is the zero-value null pointer.
var NullRef = Ref{Section: -1}

func (r Ref) isNull() bool { return r.Section < 0 }

// writeRef appends an 8-byte Ref (section:4, offset:4).
func writeRef(buf *sectionBuf, r Ref) {
	buf.writeI32(r.Section)
	buf.writeU32(r.Offset)
}

// ArrayRef is a counted array pointer: count, then a Ref to the first
// element.
type ArrayRef struct {
	Count uint32
	Ref   Ref
}

// emptyArrayRef is a zero-length array with a null backing pointer.
var emptyArrayRef = ArrayRef{Ref: NullRef}

func writeArrayRef(buf *sectionBuf, a ArrayRef) {
	buf.writeU32(a.Count)
	writeRef(buf, a.Ref)
}

// sectionBuf accumulates one section's bytes with 8-byte-aligned aggregate
// starts (spec.md §4.7 alignment invariant).
type sectionBuf struct {
	index int32
	data  []byte
}

func newSectionBuf(index int32) *sectionBuf {
	return &sectionBuf{index: index}
}

func (b *sectionBuf) offset() uint32 { return uint32(len(b.data)) }

func (b *sectionBuf) alignTo8() {
	pad := bitio.AlignUp(len(b.data), 8) - len(b.data)
	if pad > 0 {
		b.data = append(b.data, make([]byte, pad)...)
	}
}

func (b *sectionBuf) ref(offset uint32) Ref { return Ref{Section: b.index, Offset: offset} }

func (b *sectionBuf) write(p []byte) { b.data = append(b.data, p...) }

func (b *sectionBuf) writeU8(v uint8) { b.data = append(b.data, v) }

func (b *sectionBuf) writeI32(v int32) { b.writeU32(uint32(v)) }

func (b *sectionBuf) writeU32(v uint32) {
	b.data = append(b.data, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func (b *sectionBuf) writeU16(v uint16) {
	b.data = append(b.data, byte(v), byte(v>>8))
}

func (b *sectionBuf) writeI16(v int16) { b.writeU16(uint16(v)) }

func (b *sectionBuf) writeF32(v float32) { b.writeU32(math.Float32bits(v)) }
