// Package vtex extracts per-asset Albedo/Normal/Physical surfaces from a
// GTS/GTP virtual-texture pair: GTS carries tiling metadata, GTP carries the
// compressed tile payload. Grounded on the teacher's pkg/vdecompiler (fixed
// header + table-of-contents parsing, one pass, no retained file-wide
// buffer) and pkg/vimg.Builder for the DDS section-writing side.
package vtex

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// Magic is the 4-byte GTS signature, little-endian 0x20535447 ("GTS ").
var Magic = [4]byte{'G', 'T', 'S', ' '}

// Canonical virtual-texture layer indices (spec.md §4.8).
const (
	LayerAlbedo   = 0
	LayerNormal   = 1
	LayerPhysical = 2
)

var layerNames = map[int]string{
	LayerAlbedo:   "Albedo",
	LayerNormal:   "Normal",
	LayerPhysical: "Physical",
}

// LayerName returns the canonical name for a layer index, or "" if unknown.
func LayerName(layer int) string { return layerNames[layer] }

// PackedTileID identifies one tile's position in the layer/level/xy space.
type PackedTileID struct {
	Layer uint8
	Level uint8
	X     uint16
	Y     uint16
}

// FlatTileInfo maps a packed tile id to its physical location in a page
// file's chunk stream.
type FlatTileInfo struct {
	PageFileIndex     uint32
	PageIndex         uint32
	ChunkIndex        uint32
	PackedTileIDIndex uint32
}

// ParameterBlockKind distinguishes the two codec kinds GTS parameter
// blocks carry (spec.md §4.8).
type ParameterBlockKind uint32

const (
	ParameterBlockBC      ParameterBlockKind = 0
	ParameterBlockUniform ParameterBlockKind = 1
)

// ParameterBlock describes one layer's pixel encoding.
type ParameterBlock struct {
	Kind   ParameterBlockKind
	FourCC [4]byte // meaningful only for ParameterBlockBC
}

// PageFile names one GTP sibling file by its on-disk relative path.
type PageFile struct {
	Path string
}

// GTSFile is the parsed metadata of a .gts file.
type GTSFile struct {
	Version     uint32
	GUID        uuid.UUID
	TileWidth   int32
	TileHeight  int32
	TileBorder  int32
	PageSize    uint32

	Layers          []int32
	PackedTileIDs   []PackedTileID
	FlatTileInfos   []FlatTileInfo
	PageFiles       []PageFile
	ParameterBlocks []ParameterBlock
}

type tocEntry struct {
	count  uint32
	offset uint64
}

// ParseGTS reads a complete .gts file in one pass.
func ParseGTS(r io.ReaderAt, size int64) (*GTSFile, error) {
	header := make([]byte, 128)
	if _, err := r.ReadAt(header, 0); err != nil {
		return nil, fmt.Errorf("vtex: reading gts header: %w", err)
	}
	var magic [4]byte
	copy(magic[:], header[0:4])
	if magic != Magic {
		return nil, fmt.Errorf("vtex: bad gts magic %q", magic)
	}

	g := &GTSFile{
		Version: binary.LittleEndian.Uint32(header[4:8]),
	}
	copy(g.GUID[:], header[12:28])

	readTOC := func(off int) tocEntry {
		return tocEntry{
			count:  binary.LittleEndian.Uint32(header[off : off+4]),
			offset: binary.LittleEndian.Uint64(header[off+4 : off+12]),
		}
	}
	layersTOC := readTOC(28)
	levelsTOC := readTOC(40)
	flatTileTOC := readTOC(52)
	packedTileTOC := readTOC(64)
	pageFilesTOC := readTOC(76)
	paramBlocksTOC := readTOC(88)
	_ = levelsTOC
	thumbsTOC := readTOC(100)
	_ = thumbsTOC

	g.TileWidth = int32(binary.LittleEndian.Uint32(header[112:116]))
	g.TileHeight = int32(binary.LittleEndian.Uint32(header[116:120]))
	g.TileBorder = int32(binary.LittleEndian.Uint32(header[120:124]))
	g.PageSize = binary.LittleEndian.Uint32(header[124:128])

	var err error
	if g.Layers, err = readLayers(r, layersTOC); err != nil {
		return nil, err
	}
	if g.PackedTileIDs, err = readPackedTileIDs(r, packedTileTOC); err != nil {
		return nil, err
	}
	if g.FlatTileInfos, err = readFlatTileInfos(r, flatTileTOC); err != nil {
		return nil, err
	}
	if g.PageFiles, err = readPageFiles(r, pageFilesTOC); err != nil {
		return nil, err
	}
	if g.ParameterBlocks, err = readParameterBlocks(r, paramBlocksTOC); err != nil {
		return nil, err
	}

	return g, nil
}

func readLayers(r io.ReaderAt, t tocEntry) ([]int32, error) {
	buf := make([]byte, t.count*4)
	if _, err := r.ReadAt(buf, int64(t.offset)); err != nil {
		return nil, fmt.Errorf("vtex: reading layers: %w", err)
	}
	out := make([]int32, t.count)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(buf[i*4 : i*4+4]))
	}
	return out, nil
}

func readPackedTileIDs(r io.ReaderAt, t tocEntry) ([]PackedTileID, error) {
	const recSize = 6
	buf := make([]byte, int(t.count)*recSize)
	if _, err := r.ReadAt(buf, int64(t.offset)); err != nil {
		return nil, fmt.Errorf("vtex: reading packed tile ids: %w", err)
	}
	out := make([]PackedTileID, t.count)
	for i := range out {
		rec := buf[i*recSize : i*recSize+recSize]
		out[i] = PackedTileID{
			Layer: rec[0],
			Level: rec[1],
			X:     binary.LittleEndian.Uint16(rec[2:4]),
			Y:     binary.LittleEndian.Uint16(rec[4:6]),
		}
	}
	return out, nil
}

func readFlatTileInfos(r io.ReaderAt, t tocEntry) ([]FlatTileInfo, error) {
	const recSize = 16
	buf := make([]byte, int(t.count)*recSize)
	if _, err := r.ReadAt(buf, int64(t.offset)); err != nil {
		return nil, fmt.Errorf("vtex: reading flat tile infos: %w", err)
	}
	out := make([]FlatTileInfo, t.count)
	for i := range out {
		rec := buf[i*recSize : i*recSize+recSize]
		out[i] = FlatTileInfo{
			PageFileIndex:     binary.LittleEndian.Uint32(rec[0:4]),
			PageIndex:         binary.LittleEndian.Uint32(rec[4:8]),
			ChunkIndex:        binary.LittleEndian.Uint32(rec[8:12]),
			PackedTileIDIndex: binary.LittleEndian.Uint32(rec[12:16]),
		}
	}
	return out, nil
}

func readPageFiles(r io.ReaderAt, t tocEntry) ([]PageFile, error) {
	out := make([]PageFile, 0, t.count)
	off := int64(t.offset)
	for i := uint32(0); i < t.count; i++ {
		lenBuf := make([]byte, 2)
		if _, err := r.ReadAt(lenBuf, off); err != nil {
			return nil, fmt.Errorf("vtex: reading page file %d length: %w", i, err)
		}
		n := binary.LittleEndian.Uint16(lenBuf)
		off += 2
		nameBuf := make([]byte, n)
		if _, err := r.ReadAt(nameBuf, off); err != nil {
			return nil, fmt.Errorf("vtex: reading page file %d name: %w", i, err)
		}
		off += int64(n)
		out = append(out, PageFile{Path: string(nameBuf)})
	}
	return out, nil
}

func readParameterBlocks(r io.ReaderAt, t tocEntry) ([]ParameterBlock, error) {
	const recSize = 8
	buf := make([]byte, int(t.count)*recSize)
	if _, err := r.ReadAt(buf, int64(t.offset)); err != nil {
		return nil, fmt.Errorf("vtex: reading parameter blocks: %w", err)
	}
	out := make([]ParameterBlock, t.count)
	for i := range out {
		rec := buf[i*recSize : i*recSize+recSize]
		pb := ParameterBlock{Kind: ParameterBlockKind(binary.LittleEndian.Uint32(rec[0:4]))}
		copy(pb.FourCC[:], rec[4:8])
		out[i] = pb
	}
	return out, nil
}

// bytesPerBlock returns the compressed block size for a 4x4 texel block
// under the given FourCC (BC5/DXT5 is 16 bytes; BC1-style formats are 8).
func bytesPerBlock(fourcc [4]byte) int {
	if string(fourcc[:]) == "DXT1" {
		return 8
	}
	return 16
}
