// Package lspk reads and writes LSPK package archives: a header, a
// compressed file table, and a concatenated payload region, optionally
// spilling into numbered sibling part files. Grounded on the teacher's
// pkg/vpkg package format (magic + header + compressed body) and
// pkg/vdecompiler's lazy multi-part file-handle pattern for the reader side.
package lspk

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ls-toolkit/lstoolkit/pkg/bitio"
)

// Magic is the 4-byte LSPK file signature.
var Magic = [4]byte{'L', 'S', 'P', 'K'}

// MinVersion and MaxVersion bound the supported LSPK container version
// range (spec.md §6.4).
const (
	MinVersion = 7
	MaxVersion = 18

	entrySize = 272
)

// CompressionMethod is the per-entry codec id packed into an entry's flags
// low nibble.
type CompressionMethod uint8

const (
	CompressionNone CompressionMethod = 0
	CompressionZlib CompressionMethod = 1
	CompressionLZ4  CompressionMethod = 2
)

// ErrBadMagic is returned when a file does not start with the LSPK magic.
var ErrBadMagic = errors.New("lspk: bad magic")

// ErrUnsupportedVersion is returned for a declared version outside 7..18.
var ErrUnsupportedVersion = errors.New("lspk: unsupported version")

// FileTableEntry is one 272-byte record of the archive's file table.
type FileTableEntry struct {
	Path              string
	Offset            uint64
	ArchivePart       uint8
	Flags             uint8
	CompressedSize    uint32
	DecompressedSize  uint32
}

// Compression reports the codec this entry's payload was stored with.
func (e FileTableEntry) Compression() CompressionMethod {
	return CompressionMethod(e.Flags & 0x0F)
}

func decodeEntry(b []byte) (FileTableEntry, error) {
	if len(b) != entrySize {
		return FileTableEntry{}, fmt.Errorf("lspk: entry record must be %d bytes, got %d", entrySize, len(b))
	}
	nul := bytes.IndexByte(b[0:256], 0)
	if nul < 0 {
		nul = 256
	}
	e := FileTableEntry{
		Path:             string(b[0:nul]),
		Offset:           bitio.Uint48LE(b[256:262]),
		ArchivePart:      b[262],
		Flags:            b[263],
		CompressedSize:   leU32(b[264:268]),
		DecompressedSize: leU32(b[268:272]),
	}
	return e, nil
}

func encodeEntry(e FileTableEntry) ([]byte, error) {
	if len(e.Path) > 255 {
		return nil, fmt.Errorf("lspk: path %q exceeds 255 bytes", e.Path)
	}
	b := make([]byte, entrySize)
	copy(b[0:256], e.Path)
	bitio.PutUint48LE(b[256:262], e.Offset)
	b[262] = e.ArchivePart
	b[263] = e.Flags
	putLeU32(b[264:268], e.CompressedSize)
	putLeU32(b[268:272], e.DecompressedSize)
	return b, nil
}

func leU32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func putLeU32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

// ExtractFailure records a single entry's decompression failure during a
// batch extract (spec.md §7: recoverable, not fatal for the whole archive).
type ExtractFailure struct {
	Path string
	Err  error
}

func (f ExtractFailure) Error() string { return fmt.Sprintf("%s: %v", f.Path, f.Err) }

// stemAndHash splits "<prefix>_<32 hex chars>" into (prefix, hash, true), or
// returns (name, "", false) when name has no trailing hash suffix.
func stemAndHash(name string) (string, string, bool) {
	if len(name) < 33 {
		return name, "", false
	}
	tail := name[len(name)-32:]
	if name[len(name)-33] != '_' {
		return name, "", false
	}
	for _, c := range tail {
		if !isHexDigit(c) {
			return name, "", false
		}
	}
	return name[:len(name)-33], tail, true
}

func isHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// routeExtractPath implements the special-case path policy of spec.md §4.1:
// .DS_Store entries are dropped, and .gts/.gtp entries are routed into a
// subdirectory named after the tile-set stem. ok is false when the entry
// should be skipped entirely.
func routeExtractPath(entryPath string) (relOut string, ok bool) {
	clean := strings.ReplaceAll(entryPath, "\\", "/")
	dir, base := filepath.Split(clean)
	if base == ".DS_Store" {
		return "", false
	}

	ext := strings.ToLower(filepath.Ext(base))
	switch ext {
	case ".gts":
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		return filepath.Join(dir, stem, base), true
	case ".gtp":
		nameNoExt := strings.TrimSuffix(base, filepath.Ext(base))
		stem, _, hadHash := stemAndHash(nameNoExt)
		if !hadHash {
			stem = nameNoExt
		}
		return filepath.Join(dir, stem, base), true
	default:
		return clean, true
	}
}

// sortedFiles walks dir deterministically (sorted by relative path), the
// order the writer uses and the order the table-vs-directory round-trip
// property (spec.md §8 property 3) depends on.
func sortedFiles(dir string) ([]string, error) {
	var rels []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rels = append(rels, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(rels)
	return rels, nil
}

var _ io.Closer = (*Reader)(nil)
