package gr2

// MemberKind is the closed enumeration of GR2 type-def member kinds
// (spec.md §4.7).
type MemberKind uint32

const (
	MemberReal32 MemberKind = iota
	MemberUint8
	MemberBinormalInt16
	MemberReal16
	MemberInt32
	MemberRef
	MemberRefToArray
	MemberArrayOfRefs
	MemberReference
	MemberString
	MemberTransform
)

// MemberDef is one field of an aggregate type-def: a string-table offset
// for its name, its kind, and an element count (1 for scalars, array
// length for fixed arrays, 0 for pointer/array-of-refs members whose length
// is carried by the referencing ArrayRef instead).
type MemberDef struct {
	Name  string
	Kind  MemberKind
	Count uint32
}

// vertexMembers, topologyMembers, ... describe the seven aggregate type-defs
// spec.md §4.7 step 2 requires: vertex, topology, vertex-data, bone,
// skeleton, mesh, root.
var vertexMembers = []MemberDef{
	{Name: "Position", Kind: MemberReal32, Count: 3},
	{Name: "BoneWeights", Kind: MemberUint8, Count: 4},
	{Name: "BoneIndices", Kind: MemberUint8, Count: 4},
	{Name: "QTangent", Kind: MemberBinormalInt16, Count: 4},
	{Name: "DiffuseColor0", Kind: MemberUint8, Count: 4},
	{Name: "TextureCoordinates0", Kind: MemberReal16, Count: 2},
}

var topologyMembers = []MemberDef{
	{Name: "Groups", Kind: MemberArrayOfRefs, Count: 0},
	{Name: "Indices", Kind: MemberArrayOfRefs, Count: 0},
	{Name: "Indices16", Kind: MemberArrayOfRefs, Count: 0},
}

var vertexDataMembers = []MemberDef{
	{Name: "VertexComponentNames", Kind: MemberArrayOfRefs, Count: 0},
	{Name: "Vertices", Kind: MemberRefToArray, Count: 0},
	{Name: "VertexCount", Kind: MemberInt32, Count: 1},
	{Name: "VertexAnnotationSets", Kind: MemberArrayOfRefs, Count: 0},
}

var boneMembers = []MemberDef{
	{Name: "Name", Kind: MemberString, Count: 0},
	{Name: "ParentIndex", Kind: MemberInt32, Count: 1},
	{Name: "Transform", Kind: MemberTransform, Count: 1},
	{Name: "InverseWorldTransform", Kind: MemberReal32, Count: 16},
	{Name: "LODError", Kind: MemberReal32, Count: 1},
	{Name: "ExtendedData", Kind: MemberReference, Count: 0},
}

var skeletonMembers = []MemberDef{
	{Name: "Name", Kind: MemberString, Count: 0},
	{Name: "Bones", Kind: MemberArrayOfRefs, Count: 0},
	{Name: "LODType", Kind: MemberInt32, Count: 1},
	{Name: "ExtendedData", Kind: MemberReference, Count: 0},
}

var meshMembers = []MemberDef{
	{Name: "Name", Kind: MemberString, Count: 0},
	{Name: "PrimaryVertexData", Kind: MemberReference, Count: 0},
	{Name: "MorphTargets", Kind: MemberArrayOfRefs, Count: 0},
	{Name: "PrimaryTopology", Kind: MemberReference, Count: 0},
	{Name: "MaterialBindings", Kind: MemberArrayOfRefs, Count: 0},
	{Name: "BoneBindings", Kind: MemberArrayOfRefs, Count: 0},
	{Name: "ExtendedData", Kind: MemberReference, Count: 0},
}

var rootMembers = []MemberDef{
	{Name: "ArtToolInfo", Kind: MemberReference, Count: 0},
	{Name: "FromFileName", Kind: MemberString, Count: 0},
	{Name: "Textures", Kind: MemberArrayOfRefs, Count: 0},
	{Name: "Materials", Kind: MemberArrayOfRefs, Count: 0},
	{Name: "Skeletons", Kind: MemberArrayOfRefs, Count: 0},
	{Name: "VertexDatas", Kind: MemberArrayOfRefs, Count: 0},
	{Name: "Topologies", Kind: MemberArrayOfRefs, Count: 0},
	{Name: "Meshes", Kind: MemberArrayOfRefs, Count: 0},
	{Name: "Models", Kind: MemberArrayOfRefs, Count: 0},
	{Name: "TrackGroups", Kind: MemberArrayOfRefs, Count: 0},
	{Name: "Animations", Kind: MemberArrayOfRefs, Count: 0},
	{Name: "ExporterInfo", Kind: MemberReference, Count: 0},
	{Name: "ExtendedData", Kind: MemberReference, Count: 0},
}

// typeDefTable holds every type-def this writer ever emits and interns
// each one's members into section 4, returning a pointer to its start.
type typeDefTable struct {
	strings *stringTable
	section *sectionBuf
}

func newTypeDefTable(strings *stringTable, section *sectionBuf) *typeDefTable {
	return &typeDefTable{strings: strings, section: section}
}

// emit writes one type-def as a MemberDef array terminated by an all-zero
// sentinel record, the convention the real format uses so a reader doesn't
// need the member count stored separately.
func (t *typeDefTable) emit(members []MemberDef) Ref {
	t.section.alignTo8()
	start := t.section.ref(t.section.offset())
	for _, m := range members {
		nameRef := t.strings.intern(m.Name)
		t.section.writeU32(nameRef.Offset)
		t.section.writeU32(uint32(m.Kind))
		t.section.writeU32(m.Count)
	}
	t.section.writeU32(0)
	t.section.writeU32(0)
	t.section.writeU32(0)
	return start
}
