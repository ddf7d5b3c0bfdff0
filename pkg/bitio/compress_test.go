package bitio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLZ4BlockRoundtrip(t *testing.T) {
	src := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog "), 50)
	compressed, err := LZ4BlockCompress(src)
	require.NoError(t, err)
	assert.Less(t, len(compressed), len(src))

	out, err := LZ4BlockDecompress(compressed, len(src))
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestLZ4FrameRoundtrip(t *testing.T) {
	src := []byte("a small payload")
	compressed, err := LZ4FrameCompress(src)
	require.NoError(t, err)
	out, err := LZ4FrameDecompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestZlibRoundtrip(t *testing.T) {
	src := bytes.Repeat([]byte("zlib payload data "), 30)
	compressed, err := ZlibCompress(src)
	require.NoError(t, err)
	out, err := ZlibDecompress(compressed, len(src))
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestDecompressLZ4WithFallbackDeclaredSize(t *testing.T) {
	src := bytes.Repeat([]byte("payload "), 20)
	compressed, err := LZ4BlockCompress(src)
	require.NoError(t, err)

	out, err := DecompressLZ4WithFallback(compressed, len(src))
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestDecompressLZ4WithFallbackSizePrepended(t *testing.T) {
	src := bytes.Repeat([]byte("prepended "), 20)
	compressed, err := LZ4BlockCompress(src)
	require.NoError(t, err)

	var buf bytes.Buffer
	size := len(src)
	buf.Write([]byte{byte(size), byte(size >> 8), byte(size >> 16), byte(size >> 24)})
	buf.Write(compressed)

	out, err := DecompressLZ4WithFallback(buf.Bytes(), 1)
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestDecompressLZ4WithFallbackAllFail(t *testing.T) {
	_, err := DecompressLZ4WithFallback([]byte{0xFF, 0xFF, 0xFF}, 4)
	assert.Error(t, err)
}
