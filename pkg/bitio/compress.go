package bitio

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"

	"github.com/klauspost/compress/lz4"
	"github.com/klauspost/compress/zlib"
)

// LZ4BlockCompress compresses src as a single raw LZ4 block (no frame
// header), the form LSPK and LSF use for their section payloads.
func LZ4BlockCompress(src []byte) ([]byte, error) {
	if len(src) == 0 {
		return nil, nil
	}
	dst := make([]byte, lz4.CompressBlockBound(len(src)))
	var ht [1 << 16]int
	n, err := lz4.CompressBlock(src, dst, ht[:])
	if err != nil {
		return nil, fmt.Errorf("lz4 block compress: %w", err)
	}
	if n == 0 {
		// Incompressible input: lz4.CompressBlock signals this by
		// returning n == 0. Report it as errIncompressible; callers then
		// store the input uncompressed, recognisable on read by equal
		// compressed/uncompressed sizes.
		return nil, errIncompressible
	}
	return dst[:n], nil
}

var errIncompressible = fmt.Errorf("bitio: input not compressible")

// LZ4BlockDecompress decompresses a raw LZ4 block into a buffer of exactly
// sizeHint bytes.
func LZ4BlockDecompress(src []byte, sizeHint int) ([]byte, error) {
	dst := make([]byte, sizeHint)
	n, err := lz4.UncompressBlock(src, dst)
	if err != nil {
		return nil, fmt.Errorf("lz4 block decompress: %w", err)
	}
	return dst[:n], nil
}

// LZ4FrameCompress compresses src using the LZ4 frame format.
func LZ4FrameCompress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(src); err != nil {
		return nil, fmt.Errorf("lz4 frame compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("lz4 frame compress: %w", err)
	}
	return buf.Bytes(), nil
}

// LZ4FrameDecompress decompresses an LZ4-framed byte stream in full.
func LZ4FrameDecompress(src []byte) ([]byte, error) {
	zr := lz4.NewReader(bytes.NewReader(src))
	out, err := ioutil.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("lz4 frame decompress: %w", err)
	}
	return out, nil
}

// ZlibCompress deflates src with zlib framing.
func ZlibCompress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(src); err != nil {
		return nil, fmt.Errorf("zlib compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zlib compress: %w", err)
	}
	return buf.Bytes(), nil
}

// ZlibDecompress inflates a zlib stream. sizeHint, when known, is used only
// to preallocate the output buffer; a mismatch is not an error.
func ZlibDecompress(src []byte, sizeHint int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("zlib decompress: %w", err)
	}
	defer zr.Close()

	buf := bytes.NewBuffer(make([]byte, 0, sizeHint))
	if _, err := io.Copy(buf, zr); err != nil {
		return nil, fmt.Errorf("zlib decompress: %w", err)
	}
	return buf.Bytes(), nil
}

// DecompressLZ4WithFallback implements the four-step fallback order observed
// in the wild for LSPK/LSF LZ4 payloads (spec.md §4.1, §9): block with the
// declared size, block with a doubled (or 64KiB-floored) size, block via the
// size-prepended convention, and finally full LZ4 frame decoding. It returns
// the first successful result; if every step fails it returns an error
// aggregating all four failures so a caller can present full diagnostics.
func DecompressLZ4WithFallback(src []byte, declaredSize int) ([]byte, error) {
	var errs []error

	if out, err := LZ4BlockDecompress(src, declaredSize); err == nil {
		return out, nil
	} else {
		errs = append(errs, fmt.Errorf("declared size %d: %w", declaredSize, err))
	}

	doubled := declaredSize * 2
	if doubled < 65536 {
		doubled = 65536
	}
	if out, err := LZ4BlockDecompress(src, doubled); err == nil {
		return out, nil
	} else {
		errs = append(errs, fmt.Errorf("doubled size %d: %w", doubled, err))
	}

	if out, err := decompressSizePrepended(src); err == nil {
		return out, nil
	} else {
		errs = append(errs, fmt.Errorf("size-prepended: %w", err))
	}

	if out, err := LZ4FrameDecompress(src); err == nil {
		return out, nil
	} else {
		errs = append(errs, fmt.Errorf("frame: %w", err))
	}

	return nil, fmt.Errorf("bitio: all lz4 decompression strategies failed: %v", errs)
}

// decompressSizePrepended decodes a block whose first 4 bytes are a
// little-endian uncompressed-size header, a convention some LSPK writers in
// the wild emit instead of a bare block.
func decompressSizePrepended(src []byte) ([]byte, error) {
	if len(src) < 4 {
		return nil, fmt.Errorf("bitio: size-prepended block too short")
	}
	size := int(src[0]) | int(src[1])<<8 | int(src[2])<<16 | int(src[3])<<24
	return LZ4BlockDecompress(src[4:], size)
}
