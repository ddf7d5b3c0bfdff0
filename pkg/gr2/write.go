package gr2

import (
	"fmt"

	"github.com/ls-toolkit/lstoolkit/pkg/bitio"
)

// TypeOffsets locates every aggregate type-def this writer emitted into
// section 4. A full GR2 file header's type catalog (out of scope here, per
// spec.md §6.1) needs every one of these, not just the root's.
type TypeOffsets struct {
	Vertex, Topology, VertexData, Bone, Skeleton, Mesh, Root Ref
}

// WriteSections partitions meshes (and an optional skeleton) into the seven
// GR2 sections and returns them in section order, along with the root
// object's location and the type-def table (spec.md §4.7). The caller is
// responsible for the outer file header and section table.
func WriteSections(meshes []Mesh, skeleton *Skeleton) (sections [][]byte, rootOffset uint32, types TypeOffsets, err error) {
	root := newSectionBuf(SectionRoot)
	trackGroups := newSectionBuf(SectionTrackGroups)
	skelBuf := newSectionBuf(SectionSkeleton)
	meshBuf := newSectionBuf(SectionMeshStructs)
	typeBuf := newSectionBuf(SectionTypeDefs)
	vertexBuf := newSectionBuf(SectionVertexData)
	indexBuf := newSectionBuf(SectionIndexData)

	strings := newStringTable(root)
	typeTable := newTypeDefTable(strings, typeBuf)

	// Step 2: type definitions, one per aggregate.
	vertexType := typeTable.emit(vertexMembers)
	topologyType := typeTable.emit(topologyMembers)
	vertexDataType := typeTable.emit(vertexDataMembers)
	var boneType, skeletonType Ref
	if skeleton != nil {
		boneType = typeTable.emit(boneMembers)
		skeletonType = typeTable.emit(skeletonMembers)
	}
	meshType := typeTable.emit(meshMembers)
	rootType := typeTable.emit(rootMembers)

	// Step 3: vertex streams, one packed buffer per mesh.
	vertexDataRefs := make([]Ref, len(meshes))
	vertexCounts := make([]uint32, len(meshes))
	for i, m := range meshes {
		vertexBuf.alignTo8()
		start := vertexBuf.ref(vertexBuf.offset())
		for _, v := range m.Vertices {
			writeVertex(vertexBuf, v)
		}
		vertexDataRefs[i] = start
		vertexCounts[i] = uint32(len(m.Vertices))
	}

	// Step 4: index streams, 4-byte-aligned per mesh, 16- or 32-bit chosen
	// by whether every index fits in uint16.
	indexRefs := make([]Ref, len(meshes))
	indexWide := make([]bool, len(meshes))
	indexCounts := make([]uint32, len(meshes))
	for i, m := range meshes {
		wide := false
		for _, idx := range m.Indices {
			if idx > 0xFFFF {
				wide = true
				break
			}
		}
		indexBuf.alignTo8()
		start := indexBuf.ref(indexBuf.offset())
		if wide {
			for _, idx := range m.Indices {
				indexBuf.writeU32(idx)
			}
		} else {
			for _, idx := range m.Indices {
				indexBuf.writeU16(uint16(idx))
			}
			pad := bitio.AlignUp(len(m.Indices)*2, 4) - len(m.Indices)*2
			for p := 0; p < pad; p++ {
				indexBuf.writeU8(0)
			}
		}
		indexRefs[i] = start
		indexWide[i] = wide
		indexCounts[i] = uint32(len(m.Indices))
	}

	// Step 5: skeleton data.
	var skeletonRef Ref = NullRef
	if skeleton != nil {
		boneRefs := make([]Ref, len(skeleton.Bones))
		for i, b := range skeleton.Bones {
			skelBuf.alignTo8()
			boneRefs[i] = skelBuf.ref(skelBuf.offset())
			writeBone(skelBuf, strings, b)
		}

		bonesArrayRef := ArrayRef{Ref: NullRef}
		if len(boneRefs) > 0 {
			skelBuf.alignTo8()
			arrayStart := skelBuf.offset()
			for _, r := range boneRefs {
				writeRef(skelBuf, r)
			}
			bonesArrayRef = ArrayRef{Count: uint32(len(boneRefs)), Ref: skelBuf.ref(arrayStart)}
		}

		skelBuf.alignTo8()
		skeletonRef = skelBuf.ref(skelBuf.offset())
		writeRef(skelBuf, strings.intern(skeleton.Name))
		writeArrayRef(skelBuf, bonesArrayRef)
		skelBuf.writeI32(0) // LODType
		writeRef(skelBuf, NullRef)
	}

	// Step 6: mesh structs (VertexData, TriTopology, Mesh per mesh).
	meshRefs := make([]Ref, len(meshes))
	vdRefs := make([]Ref, len(meshes))
	topoRefs := make([]Ref, len(meshes))
	for i, m := range meshes {
		meshBuf.alignTo8()
		vdRef := meshBuf.ref(meshBuf.offset())
		vdRefs[i] = vdRef
		writeRef(meshBuf, vertexType)
		meshBuf.writeU32(vertexCounts[i])
		writeRef(meshBuf, vertexDataRefs[i])
		writeArrayRef(meshBuf, emptyArrayRef) // component names
		writeArrayRef(meshBuf, emptyArrayRef) // annotation sets

		meshBuf.alignTo8()
		topoRef := meshBuf.ref(meshBuf.offset())
		topoRefs[i] = topoRef
		writeArrayRef(meshBuf, emptyArrayRef) // groups
		if indexWide[i] {
			writeArrayRef(meshBuf, ArrayRef{Count: indexCounts[i], Ref: indexRefs[i]})
			writeArrayRef(meshBuf, emptyArrayRef)
		} else {
			writeArrayRef(meshBuf, emptyArrayRef)
			writeArrayRef(meshBuf, ArrayRef{Count: indexCounts[i], Ref: indexRefs[i]})
		}

		meshBuf.alignTo8()
		meshRefs[i] = meshBuf.ref(meshBuf.offset())
		writeRef(meshBuf, strings.intern(m.Name))
		writeRef(meshBuf, vdRef)
		writeArrayRef(meshBuf, emptyArrayRef) // morph targets
		writeRef(meshBuf, topoRef)
		writeArrayRef(meshBuf, emptyArrayRef) // material bindings
		writeArrayRef(meshBuf, emptyArrayRef) // bone bindings
		writeRef(meshBuf, NullRef)            // extended data
	}

	// Step 7: root object, appended to section 0 after the interned strings.
	root.alignTo8()

	meshesArray := emptyArrayRef
	if len(meshRefs) > 0 {
		start := root.offset()
		for _, r := range meshRefs {
			writeRef(root, r)
		}
		meshesArray = ArrayRef{Count: uint32(len(meshRefs)), Ref: root.ref(start)}
	}

	skeletonsArray := emptyArrayRef
	if skeleton != nil {
		start := root.offset()
		writeRef(root, skeletonRef)
		skeletonsArray = ArrayRef{Count: 1, Ref: root.ref(start)}
	}

	vertexDatasArray := emptyArrayRef
	if len(vdRefs) > 0 {
		start := root.offset()
		for _, r := range vdRefs {
			writeRef(root, r)
		}
		vertexDatasArray = ArrayRef{Count: uint32(len(vdRefs)), Ref: root.ref(start)}
	}

	topologiesArray := emptyArrayRef
	if len(topoRefs) > 0 {
		start := root.offset()
		for _, r := range topoRefs {
			writeRef(root, r)
		}
		topologiesArray = ArrayRef{Count: uint32(len(topoRefs)), Ref: root.ref(start)}
	}

	root.alignTo8()
	rootStart := root.offset()
	writeRef(root, NullRef) // ArtToolInfo
	writeRef(root, NullRef) // FromFileName
	writeArrayRef(root, emptyArrayRef) // Textures
	writeArrayRef(root, emptyArrayRef) // Materials
	writeArrayRef(root, skeletonsArray)
	writeArrayRef(root, vertexDatasArray)
	writeArrayRef(root, topologiesArray)
	writeArrayRef(root, meshesArray)
	writeArrayRef(root, emptyArrayRef) // Models
	writeArrayRef(root, emptyArrayRef) // TrackGroups
	writeArrayRef(root, emptyArrayRef) // Animations
	writeRef(root, NullRef)            // ExporterInfo
	writeRef(root, NullRef)            // ExtendedData

	_ = trackGroups // section 1 stays empty, per spec.md §3.4.

	sections = [][]byte{
		root.data,
		trackGroups.data,
		skelBuf.data,
		meshBuf.data,
		typeBuf.data,
		vertexBuf.data,
		indexBuf.data,
	}
	if len(sections) != sectionCount {
		return nil, 0, TypeOffsets{}, fmt.Errorf("gr2: internal error: produced %d sections, want %d", len(sections), sectionCount)
	}

	types = TypeOffsets{
		Vertex:     vertexType,
		Topology:   topologyType,
		VertexData: vertexDataType,
		Bone:       boneType,
		Skeleton:   skeletonType,
		Mesh:       meshType,
		Root:       rootType,
	}

	return sections, rootStart, types, nil
}

func writeVertex(buf *sectionBuf, v Vertex) {
	for _, f := range v.Position {
		buf.writeF32(f)
	}
	for _, w := range v.BoneWeight {
		buf.writeU8(w)
	}
	for _, idx := range v.BoneIndex {
		buf.writeU8(idx)
	}
	for _, q := range v.QTangent {
		buf.writeI16(q)
	}
	for _, c := range v.Color {
		buf.writeU8(c)
	}
	for _, uv := range v.UV {
		buf.writeU16(bitio.HalfFloatBits(uv))
	}
}

func writeBone(buf *sectionBuf, strings *stringTable, b Bone) {
	writeRef(buf, strings.intern(b.Name))
	buf.writeI32(b.ParentIndex)
	buf.writeU32(0x1FF) // transform flags: all components present
	for _, f := range b.Translation {
		buf.writeF32(f)
	}
	for _, f := range b.Rotation {
		buf.writeF32(f)
	}
	for _, f := range b.ScaleShear {
		buf.writeF32(f)
	}
	for _, f := range b.InverseWorldTransform {
		buf.writeF32(f)
	}
	buf.writeF32(b.LODError)
	writeRef(buf, NullRef)
}
