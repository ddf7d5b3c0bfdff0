package vtex

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ls-toolkit/lstoolkit/pkg/bitio"
)

// pageFileHandles lazily opens each .gtp sibling a GTSFile references,
// mirroring the teacher's vdecompiler partialIO multi-part cache.
type pageFileHandles struct {
	dir   string
	files map[int]*os.File
}

func newPageFileHandles(gtsDir string) *pageFileHandles {
	return &pageFileHandles{dir: gtsDir, files: make(map[int]*os.File)}
}

func (p *pageFileHandles) get(g *GTSFile, index uint32) (*os.File, error) {
	i := int(index)
	if f, ok := p.files[i]; ok {
		return f, nil
	}
	if i < 0 || i >= len(g.PageFiles) {
		return nil, fmt.Errorf("vtex: page file index %d out of range", i)
	}
	path := filepath.Join(p.dir, g.PageFiles[i].Path)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vtex: opening page file %q: %w", path, err)
	}
	p.files[i] = f
	return f, nil
}

func (p *pageFileHandles) Close() error {
	var first error
	for _, f := range p.files {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// readTile decompresses one tile's raw pixel data for the given flat tile
// info. The chunk is read as declaredSize bytes at
// PageIndex*page_size + ChunkIndex*declaredSize, with no length prefix;
// decompression falls back through bitio.DecompressLZ4WithFallback's
// multi-shape probe since the exact declared-size convention a given GTP
// build uses isn't otherwise recoverable from the GTS header alone.
func readTile(g *GTSFile, handles *pageFileHandles, info FlatTileInfo, declaredSize int) ([]byte, error) {
	f, err := handles.get(g, info.PageFileIndex)
	if err != nil {
		return nil, err
	}
	chunkOffset := int64(info.PageIndex)*int64(g.PageSize) + int64(info.ChunkIndex)*int64(declaredSize)
	raw := make([]byte, declaredSize)
	if _, err := f.ReadAt(raw, chunkOffset); err != nil {
		return nil, fmt.Errorf("vtex: reading tile chunk: %w", err)
	}
	return bitio.DecompressLZ4WithFallback(raw, declaredSize)
}
