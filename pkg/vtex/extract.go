package vtex

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// SelectLevel returns the lowest-numbered mip level that has at least one
// tile present for the given layer. Levels are never merged: a caller that
// wants a specific resolution with partial tile coverage gets zero-filled
// gaps rather than content pulled from an adjacent level.
func SelectLevel(g *GTSFile, layer int) (int, bool) {
	best := -1
	for _, id := range g.PackedTileIDs {
		if int(id.Layer) != layer {
			continue
		}
		if best == -1 || int(id.Level) < best {
			best = int(id.Level)
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}

// Layer is one fully assembled, border-stripped surface ready to write as
// DDS.
type Layer struct {
	Width, Height int
	FourCC        [4]byte
	Pixels        []byte
}

// ExtractLayer assembles the dense tile rectangle for layer at its selected
// level, stripping tile_border texels (rounded to whole 4x4 blocks) from
// every tile edge and leaving any missing tile zero-initialized (spec.md
// §4.8).
func ExtractLayer(g *GTSFile, gtsDir string, layer int) (*Layer, error) {
	level, ok := SelectLevel(g, layer)
	if !ok {
		return nil, fmt.Errorf("vtex: layer %d has no tiles", layer)
	}
	if layer >= len(g.ParameterBlocks) {
		return nil, fmt.Errorf("vtex: layer %d has no parameter block", layer)
	}
	pb := g.ParameterBlocks[layer]
	if pb.Kind != ParameterBlockBC {
		return nil, fmt.Errorf("vtex: layer %d is not BC-encoded, got kind %d", layer, pb.Kind)
	}

	// Build (x,y) -> FlatTileInfo for this layer/level, and the tile
	// rectangle's bounds.
	byXY := make(map[[2]uint16]FlatTileInfo)
	minX, minY := uint16(0), uint16(0)
	maxX, maxY := uint16(0), uint16(0)
	first := true
	for idx, id := range g.PackedTileIDs {
		if int(id.Layer) != layer || int(id.Level) != level {
			continue
		}
		if first {
			minX, maxX, minY, maxY = id.X, id.X, id.Y, id.Y
			first = false
		} else {
			if id.X < minX {
				minX = id.X
			}
			if id.X > maxX {
				maxX = id.X
			}
			if id.Y < minY {
				minY = id.Y
			}
			if id.Y > maxY {
				maxY = id.Y
			}
		}
		for _, fi := range g.FlatTileInfos {
			if int(fi.PackedTileIDIndex) == idx {
				byXY[[2]uint16{id.X, id.Y}] = fi
				break
			}
		}
	}
	if first {
		return nil, fmt.Errorf("vtex: layer %d level %d has no tiles", layer, level)
	}

	border := int(g.TileBorder)
	innerW := int(g.TileWidth) - 2*border
	innerH := int(g.TileHeight) - 2*border
	tilesX := int(maxX-minX) + 1
	tilesY := int(maxY-minY) + 1

	fullW := tilesX * innerW
	fullH := tilesY * innerH
	blockSize := bytesPerBlock(pb.FourCC)
	tileByteSize := (int(g.TileWidth) / 4) * (int(g.TileHeight) / 4) * blockSize

	rowBlocks := fullW / 4
	colBlocks := fullH / 4
	out := make([]byte, rowBlocks*colBlocks*blockSize)

	handles := newPageFileHandles(gtsDir)
	defer handles.Close()

	borderBlocks := border / 4
	innerBlocksW := innerW / 4
	innerBlocksH := innerH / 4
	tileRowBlocks := int(g.TileWidth) / 4

	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			info, ok := byXY[[2]uint16{minX + uint16(tx), minY + uint16(ty)}]
			if !ok {
				continue // missing tile: leave zero-initialized
			}
			tile, err := readTile(g, handles, info, tileByteSize)
			if err != nil {
				return nil, err
			}
			for by := 0; by < innerBlocksH; by++ {
				srcBlockRow := borderBlocks + by
				srcOff := (srcBlockRow*tileRowBlocks + borderBlocks) * blockSize
				dstBlockRow := ty*innerBlocksH + by
				dstOff := (dstBlockRow*rowBlocks + tx*innerBlocksW) * blockSize
				n := innerBlocksW * blockSize
				copy(out[dstOff:dstOff+n], tile[srcOff:srcOff+n])
			}
		}
	}

	return &Layer{Width: fullW, Height: fullH, FourCC: pb.FourCC, Pixels: out}, nil
}

var hashSuffix = regexp.MustCompile(`_([0-9a-fA-F]{32})$`)

// GTPPathForGTS returns the first page file listed in the GTS header,
// resolved next to the .gts file; when the header lists none, it falls
// back to the .gts file's stem with a .gtp extension.
func GTPPathForGTS(gtsPath string, g *GTSFile) string {
	dir := filepath.Dir(gtsPath)
	if len(g.PageFiles) > 0 {
		return filepath.Join(dir, g.PageFiles[0].Path)
	}
	stem := strings.TrimSuffix(filepath.Base(gtsPath), filepath.Ext(gtsPath))
	return filepath.Join(dir, stem+".gtp")
}

// OutputStem derives the base filename (without extension) a layer should
// be written under: the .gts file's hash-stripped stem if it carries the
// `_<32-hex>` convention, otherwise the raw stem.
func OutputStem(gtsPath string) string {
	stem := strings.TrimSuffix(filepath.Base(gtsPath), filepath.Ext(gtsPath))
	if m := hashSuffix.FindStringSubmatchIndex(stem); m != nil {
		return stem[:m[0]]
	}
	return stem
}
