package lspk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSourceTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Mods", "Textures"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "meta.lsx"), []byte("<save/>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Mods", "Textures", "Hero_0123456789abcdef0123456789abcdef.gtp"), []byte("tile payload data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".DS_Store"), []byte("junk"), 0o644))
	return dir
}

func TestWriteOpenListExtractRoundtrip(t *testing.T) {
	src := writeSourceTree(t)
	archivePath := filepath.Join(t.TempDir(), "Mod.pak")

	require.NoError(t, Write(src, archivePath, WriteOptions{Compression: CompressionLZ4}))

	r, err := Open(archivePath)
	require.NoError(t, err)
	defer r.Close()

	entries := r.List()
	require.Len(t, entries, 3)

	var metaEntry FileTableEntry
	for _, e := range entries {
		if e.Path == "meta.lsx" {
			metaEntry = e
		}
	}
	require.NotEmpty(t, metaEntry.Path)
	payload, err := r.ReadOne(metaEntry)
	require.NoError(t, err)
	assert.Equal(t, "<save/>", string(payload))

	destDir := t.TempDir()
	extracted, failures, err := r.ExtractAll(destDir)
	require.NoError(t, err)
	assert.Empty(t, failures)
	// .DS_Store is skipped, so 2 of the 3 entries extract.
	assert.Len(t, extracted, 2)

	gtpData, err := os.ReadFile(filepath.Join(destDir, "Mods", "Textures", "Hero", "Hero_0123456789abcdef0123456789abcdef.gtp"))
	require.NoError(t, err)
	assert.Equal(t, "tile payload data", string(gtpData))
}

func TestOpenRejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.pak")
	require.NoError(t, os.WriteFile(path, []byte("NOTAPAKFILE"), 0o644))
	_, err := Open(path)
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestStemAndHash(t *testing.T) {
	stem, hash, ok := stemAndHash("Hero_0123456789abcdef0123456789abcdef")
	assert.True(t, ok)
	assert.Equal(t, "Hero", stem)
	assert.Equal(t, "0123456789abcdef0123456789abcdef", hash)

	_, _, ok = stemAndHash("Hero")
	assert.False(t, ok)
}
