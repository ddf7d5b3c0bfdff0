package vtex

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	ddsFlagCaps         = 0x1
	ddsFlagHeight       = 0x2
	ddsFlagWidth        = 0x4
	ddsFlagPixelFormat  = 0x1000
	ddsFlagLinearSize   = 0x80000
	ddsPixelFlagFourCC  = 0x4
	ddsCapsTexture      = 0x1000
	ddsHeaderSize       = 124
	ddsPixelFormatSize  = 32
)

// WriteDDS writes a single-surface, single-mip BC-compressed image as a
// 128-byte-header DDS file (spec.md §6.1). pixels must already be in the
// FourCC's native block layout.
func WriteDDS(w io.Writer, width, height int, fourcc [4]byte, pixels []byte) error {
	blockWidth := (width + 3) / 4
	blockHeight := (height + 3) / 4
	linearSize := blockWidth * bytesPerBlock(fourcc) * blockHeight

	header := make([]byte, 4+ddsHeaderSize)
	copy(header[0:4], "DDS ")
	binary.LittleEndian.PutUint32(header[4:8], ddsHeaderSize)
	binary.LittleEndian.PutUint32(header[8:12], ddsFlagCaps|ddsFlagHeight|ddsFlagWidth|ddsFlagPixelFormat|ddsFlagLinearSize)
	binary.LittleEndian.PutUint32(header[12:16], uint32(height))
	binary.LittleEndian.PutUint32(header[16:20], uint32(width))
	binary.LittleEndian.PutUint32(header[20:24], uint32(linearSize))
	binary.LittleEndian.PutUint32(header[24:28], 0) // depth
	binary.LittleEndian.PutUint32(header[28:32], 1) // mip count
	// bytes [32:76) are the 44-byte reserved block, left zero.

	pf := header[76:108]
	binary.LittleEndian.PutUint32(pf[0:4], ddsPixelFormatSize)
	binary.LittleEndian.PutUint32(pf[4:8], ddsPixelFlagFourCC)
	copy(pf[8:12], fourcc[:])
	// RGB bit count and channel masks stay zero: meaningless for FourCC formats.

	binary.LittleEndian.PutUint32(header[108:112], ddsCapsTexture)
	// caps2/caps3/caps4/reserved2 stay zero.

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("vtex: writing dds header: %w", err)
	}
	if len(pixels) != linearSize {
		return fmt.Errorf("vtex: pixel buffer is %d bytes, want %d for %dx%d %s", len(pixels), linearSize, width, height, fourcc)
	}
	if _, err := w.Write(pixels); err != nil {
		return fmt.Errorf("vtex: writing dds pixels: %w", err)
	}
	return nil
}
