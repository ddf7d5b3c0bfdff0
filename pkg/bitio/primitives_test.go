package bitio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWriteRoundtrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteU8(&buf, 0xAB))
	require.NoError(t, WriteU16(&buf, 0x1234))
	require.NoError(t, WriteU32(&buf, 0xDEADBEEF))
	require.NoError(t, WriteU64(&buf, 0x0102030405060708))
	require.NoError(t, WriteI32(&buf, -42))

	u8, err := ReadU8(&buf)
	require.NoError(t, err)
	assert.Equal(t, uint8(0xAB), u8)

	u16, err := ReadU16(&buf)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), u16)

	u32, err := ReadU32(&buf)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), u32)

	u64, err := ReadU64(&buf)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0102030405060708), u64)

	i32, err := ReadI32(&buf)
	require.NoError(t, err)
	assert.Equal(t, int32(-42), i32)
}

func TestUint48LERoundtrip(t *testing.T) {
	b := make([]byte, 6)
	PutUint48LE(b, 0x0000123456789ABC&0x0000FFFFFFFFFFFF)
	got := Uint48LE(b)
	assert.Equal(t, uint64(0x123456789ABC), got)
}

func TestAlignUp(t *testing.T) {
	assert.Equal(t, 0, AlignUp(0, 8))
	assert.Equal(t, 8, AlignUp(1, 8))
	assert.Equal(t, 8, AlignUp(8, 8))
	assert.Equal(t, 16, AlignUp(9, 8))
}

func TestPadWritesToAlignment(t *testing.T) {
	var buf bytes.Buffer
	n, err := Pad(&buf, 5, 8)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, buf.Len())

	n, err = Pad(&buf, 8, 8)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestHalfFloatRoundtripsCommonValues(t *testing.T) {
	for _, f := range []float32{0, 1, -1, 0.5, 2.25, -123.75} {
		bits := HalfFloatBits(f)
		got := HalfFloatToFloat32(bits)
		assert.InDelta(t, float64(f), float64(got), 0.01)
	}
}

func TestSliceRejectsOutOfRange(t *testing.T) {
	b := []byte{1, 2, 3, 4}
	got, err := Slice(b, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 3}, got)

	_, err = Slice(b, 2, 10)
	assert.ErrorIs(t, err, ErrShortRead)
}
