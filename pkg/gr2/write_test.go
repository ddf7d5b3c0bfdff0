package gr2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSectionsMeshOnly(t *testing.T) {
	mesh := Mesh{
		Name: "Cube",
		Vertices: []Vertex{
			{Position: [3]float32{0, 0, 0}},
			{Position: [3]float32{1, 0, 0}},
			{Position: [3]float32{0, 1, 0}},
		},
		Indices: []uint32{0, 1, 2},
	}

	sections, rootOffset, types, err := WriteSections([]Mesh{mesh}, nil)
	require.NoError(t, err)
	require.Len(t, sections, sectionCount)

	assert.NotEmpty(t, sections[SectionTypeDefs])
	assert.NotEmpty(t, sections[SectionVertexData])
	assert.NotEmpty(t, sections[SectionIndexData])
	assert.Empty(t, sections[SectionTrackGroups])
	assert.Empty(t, sections[SectionSkeleton])

	assert.True(t, int(rootOffset) < len(sections[SectionRoot]))
	assert.Equal(t, int32(SectionTypeDefs), types.Root.Section)
	assert.Equal(t, int32(SectionTypeDefs), types.Vertex.Section)
}

func TestWriteSectionsWideIndices(t *testing.T) {
	indices := make([]uint32, 3)
	indices[0] = 0
	indices[1] = 1
	indices[2] = 0x10000 // forces 32-bit index stream

	mesh := Mesh{Name: "Big", Vertices: []Vertex{{}, {}, {}}, Indices: indices}
	sections, _, _, err := WriteSections([]Mesh{mesh}, nil)
	require.NoError(t, err)
	// Three 32-bit indices, 8-byte aligned start: exactly 12 bytes of
	// payload in a buffer whose length is already a multiple of 4.
	assert.Equal(t, 12, len(sections[SectionIndexData]))
}

func TestWriteSectionsWithSkeleton(t *testing.T) {
	skel := &Skeleton{
		Name: "Root",
		Bones: []Bone{
			{Name: "Pelvis", ParentIndex: -1},
			{Name: "Spine", ParentIndex: 0},
		},
	}
	sections, _, types, err := WriteSections(nil, skel)
	require.NoError(t, err)
	assert.NotEmpty(t, sections[SectionSkeleton])
	assert.Equal(t, int32(SectionTypeDefs), types.Bone.Section)
	assert.Equal(t, int32(SectionTypeDefs), types.Skeleton.Section)
}
