// Package lsf reads and writes the LSF binary tree document format:
// deduplicated two-level name tables, two physical node/attribute record
// layouts auto-detected by section-size divisibility, an optional per-node
// key index, and five independently LZ4/zlib-compressible sections. The
// codec talks only in *doctree.Document; callers never see the raw section
// structs, the same separation the ext4 package in our teacher repo keeps
// between its on-disk inode/dir records and the vio.FileTree it ultimately
// produces.
package lsf

import (
	"errors"
	"fmt"
	"io"
	"io/ioutil"

	"github.com/ls-toolkit/lstoolkit/pkg/bitio"
)

// Magic is the 4-byte LSF file signature, "LSOF".
var Magic = [4]byte{'L', 'S', 'O', 'F'}

// MetadataFormat enumerates the header's metadata_format field.
type MetadataFormat uint32

const (
	MetadataNone             MetadataFormat = 0
	MetadataKeysAndAdjacency MetadataFormat = 1
)

// CompressionMethod is the codec nibble shared with LSPK (spec.md §4.1/§4.2).
type CompressionMethod uint8

const (
	CompressionNone CompressionMethod = 0
	CompressionZlib CompressionMethod = 1
	CompressionLZ4  CompressionMethod = 2
)

// Layout distinguishes the two physical node/attribute record sizes.
type Layout int

const (
	LayoutV2 Layout = iota // 12-byte node/attribute records
	LayoutV3               // 16-byte extended node/attribute records
)

const (
	nodeRecordSizeV2 = 12
	nodeRecordSizeV3 = 16
	attrRecordSizeV2 = 12
	attrRecordSizeV3 = 16
	keyRecordSize    = 8
)

// SectionHeader records a section's uncompressed and compressed sizes, as
// laid out in the LSF file header (spec.md §6.1). A Compressed value of 0 or
// equal to Uncompressed means the section was stored without compression.
type SectionHeader struct {
	Uncompressed uint32
	Compressed   uint32
}

func (s SectionHeader) isCompressed() bool {
	return s.Compressed != 0 && s.Compressed != s.Uncompressed
}

// Header is the decoded LSF file header. Decode does not carry it into the
// returned Document; Encode builds a new one from its EncodeOptions, the
// Document's version and the sections it writes.
type Header struct {
	Version        uint32
	EngineVersion  uint64
	Strings        SectionHeader
	Keys           SectionHeader // only meaningful when Version >= 6
	Nodes          SectionHeader
	Attributes     SectionHeader
	Values         SectionHeader
	CompressionFlags uint32
	MetadataFormat MetadataFormat
}

// HasKeys reports whether the key section is present for this version.
func (h Header) HasKeys() bool {
	return h.Version >= 6
}

func (h Header) compression() CompressionMethod {
	return CompressionMethod(h.CompressionFlags & 0x0F)
}

// ErrBadMagic is returned when a file does not start with the LSF magic.
var ErrBadMagic = errors.New("lsf: bad magic")

// ErrUnsupportedVersion is returned for a declared version outside 1..7.
var ErrUnsupportedVersion = errors.New("lsf: unsupported version")

func readHeader(r io.Reader) (*Header, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("lsf: reading magic: %w", err)
	}
	if magic != Magic {
		return nil, ErrBadMagic
	}

	h := new(Header)
	var err error
	if h.Version, err = bitio.ReadU32(r); err != nil {
		return nil, err
	}
	if h.Version < 1 || h.Version > 7 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}
	if h.EngineVersion, err = bitio.ReadU64(r); err != nil {
		return nil, err
	}

	readSection := func() (SectionHeader, error) {
		var s SectionHeader
		u, err := bitio.ReadU32(r)
		if err != nil {
			return s, err
		}
		c, err := bitio.ReadU32(r)
		if err != nil {
			return s, err
		}
		s.Uncompressed, s.Compressed = u, c
		return s, nil
	}

	if h.Strings, err = readSection(); err != nil {
		return nil, err
	}
	if h.HasKeys() {
		if h.Keys, err = readSection(); err != nil {
			return nil, err
		}
	}
	if h.Nodes, err = readSection(); err != nil {
		return nil, err
	}
	if h.Attributes, err = readSection(); err != nil {
		return nil, err
	}
	if h.Values, err = readSection(); err != nil {
		return nil, err
	}
	if h.CompressionFlags, err = bitio.ReadU32(r); err != nil {
		return nil, err
	}
	mf, err := bitio.ReadU32(r)
	if err != nil {
		return nil, err
	}
	h.MetadataFormat = MetadataFormat(mf)

	return h, nil
}

func writeHeader(w io.Writer, h *Header) error {
	if _, err := w.Write(Magic[:]); err != nil {
		return err
	}
	if err := bitio.WriteU32(w, h.Version); err != nil {
		return err
	}
	if err := bitio.WriteU64(w, h.EngineVersion); err != nil {
		return err
	}

	writeSection := func(s SectionHeader) error {
		if err := bitio.WriteU32(w, s.Uncompressed); err != nil {
			return err
		}
		return bitio.WriteU32(w, s.Compressed)
	}

	if err := writeSection(h.Strings); err != nil {
		return err
	}
	if h.HasKeys() {
		if err := writeSection(h.Keys); err != nil {
			return err
		}
	}
	if err := writeSection(h.Nodes); err != nil {
		return err
	}
	if err := writeSection(h.Attributes); err != nil {
		return err
	}
	if err := writeSection(h.Values); err != nil {
		return err
	}
	if err := bitio.WriteU32(w, h.CompressionFlags); err != nil {
		return err
	}
	return bitio.WriteU32(w, uint32(h.MetadataFormat))
}

// decompressSection inflates a section's raw bytes per its declared codec,
// trying LZ4-frame before LZ4-block as spec.md §4.2 allows for either to
// appear in the wild.
func decompressSection(raw []byte, s SectionHeader, method CompressionMethod) ([]byte, error) {
	if !s.isCompressed() {
		return raw, nil
	}
	switch method {
	case CompressionLZ4:
		if out, err := bitio.LZ4FrameDecompress(raw); err == nil && len(out) == int(s.Uncompressed) {
			return out, nil
		}
		return bitio.LZ4BlockDecompress(raw, int(s.Uncompressed))
	case CompressionZlib:
		return bitio.ZlibDecompress(raw, int(s.Uncompressed))
	case CompressionNone:
		return raw, nil
	default:
		return nil, fmt.Errorf("lsf: unsupported compression method %d", method)
	}
}

func compressSection(data []byte, method CompressionMethod) ([]byte, error) {
	switch method {
	case CompressionLZ4:
		out, err := bitio.LZ4BlockCompress(data)
		if err != nil {
			// Incompressible input is stored uncompressed (Compressed ==
			// Uncompressed signals this on read).
			return data, nil
		}
		return out, nil
	case CompressionZlib:
		return bitio.ZlibCompress(data)
	case CompressionNone:
		return data, nil
	default:
		return nil, fmt.Errorf("lsf: unsupported compression method %d", method)
	}
}

func readAll(r io.Reader) ([]byte, error) {
	return ioutil.ReadAll(r)
}

// unpackVersion and packVersion convert between the header's opaque 64-bit
// EngineVersion field and the four-field doctree.DocVersion the rest of the
// toolkit works with. spec.md §6.1 says EngineVersion "is preserved but not
// interpreted" by the reader; we still need *some* stable bit layout to
// expose it as a structured version for the LSX/LSJ textual forms, so we
// use major:8 | minor:8 | revision:16 | build:32, chosen to accommodate the
// wide build numbers seen in practice while keeping major/minor/revision
// comfortably within their observed ranges. Encode packs the DocVersion
// back with the same layout; since the four fields cover all 64 bits, a
// decode/encode round trip reproduces the original EngineVersion exactly.
func unpackVersion(engineVersion uint64) (major, minor, revision, build uint32) {
	major = uint32(engineVersion >> 56)
	minor = uint32((engineVersion >> 48) & 0xFF)
	revision = uint32((engineVersion >> 32) & 0xFFFF)
	build = uint32(engineVersion & 0xFFFFFFFF)
	return
}

func packVersion(major, minor, revision, build uint32) uint64 {
	return (uint64(major&0xFF) << 56) |
		(uint64(minor&0xFF) << 48) |
		(uint64(revision&0xFFFF) << 32) |
		uint64(build)
}
