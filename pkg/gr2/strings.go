package gr2

// stringTable interns every distinct name used anywhere in the document
// once into section 0, spec.md §4.7 step 1. Each distinct string is written
// NUL-terminated; repeat interns of the same string return the existing
// offset.
type stringTable struct {
	section *sectionBuf
	offsets map[string]uint32
}

func newStringTable(section *sectionBuf) *stringTable {
	return &stringTable{section: section, offsets: make(map[string]uint32)}
}

// intern returns a Ref to s within section 0, writing it once on first use.
func (t *stringTable) intern(s string) Ref {
	if off, ok := t.offsets[s]; ok {
		return t.section.ref(off)
	}
	off := t.section.offset()
	t.section.write([]byte(s))
	t.section.writeU8(0)
	t.offsets[s] = off
	return t.section.ref(off)
}
