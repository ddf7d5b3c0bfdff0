package vtex

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDDSHeaderLayout(t *testing.T) {
	var buf bytes.Buffer
	pixels := make([]byte, 4*16) // 8x8 px -> 2x2 blocks * 16 bytes (DXT5)
	err := WriteDDS(&buf, 8, 8, [4]byte{'D', 'X', 'T', '5'}, pixels)
	require.NoError(t, err)

	out := buf.Bytes()
	require.Len(t, out, 128+len(pixels))
	assert.Equal(t, "DDS ", string(out[0:4]))
	assert.Equal(t, "DXT5", string(out[84:88]))
}

func TestWriteDDSRejectsWrongPixelLength(t *testing.T) {
	var buf bytes.Buffer
	err := WriteDDS(&buf, 8, 8, [4]byte{'D', 'X', 'T', '5'}, []byte{1, 2, 3})
	assert.Error(t, err)
}

func TestSelectLevelLowestWithTiles(t *testing.T) {
	g := &GTSFile{
		PackedTileIDs: []PackedTileID{
			{Layer: 0, Level: 2, X: 0, Y: 0},
			{Layer: 0, Level: 0, X: 0, Y: 0},
			{Layer: 1, Level: 1, X: 0, Y: 0},
		},
	}
	level, ok := SelectLevel(g, 0)
	require.True(t, ok)
	assert.Equal(t, 0, level)

	_, ok = SelectLevel(g, 5)
	assert.False(t, ok)
}

func TestOutputStemStripsHashSuffix(t *testing.T) {
	assert.Equal(t, "Foliage", OutputStem("/assets/Foliage_0123456789abcdef0123456789abcdef.gts"))
	assert.Equal(t, "Foliage", OutputStem("/assets/Foliage.gts"))
}
