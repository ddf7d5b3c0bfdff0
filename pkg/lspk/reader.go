package lspk

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ls-toolkit/lstoolkit/pkg/bitio"
)

// Reader opens an LSPK archive for random-access reads. It owns the primary
// file handle plus a lazily populated map of part-file handles, following
// the same lazy-handle-cache pattern the teacher's vdecompiler partialIO
// reader uses for multi-part disk images.
type Reader struct {
	path    string
	main    *os.File
	parts   map[uint8]*os.File
	entries []FileTableEntry
}

// Open validates the header and footer and parses the file table.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	r := &Reader{path: path, main: f, parts: make(map[uint8]*os.File)}
	if err := r.load(); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

func (r *Reader) load() error {
	var magic [4]byte
	if _, err := r.main.ReadAt(magic[:], 0); err != nil {
		return fmt.Errorf("lspk: reading magic: %w", err)
	}
	if magic != Magic {
		return ErrBadMagic
	}

	hdr := make([]byte, 4+8)
	if _, err := r.main.ReadAt(hdr, 4); err != nil {
		return fmt.Errorf("lspk: reading header: %w", err)
	}
	version := leU32(hdr[0:4])
	if version < MinVersion || version > MaxVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	footerOffset := leU64(hdr[4:12])

	footer := make([]byte, 8)
	if _, err := r.main.ReadAt(footer, int64(footerOffset)); err != nil {
		return fmt.Errorf("lspk: reading footer: %w", err)
	}
	numFiles := leU32(footer[0:4])
	tableCompressedSize := leU32(footer[4:8])

	tableStart := int64(footerOffset) - int64(tableCompressedSize)
	if tableStart < 0 {
		return fmt.Errorf("lspk: footer_offset too small for table of %d bytes", tableCompressedSize)
	}
	compTable := make([]byte, tableCompressedSize)
	if _, err := r.main.ReadAt(compTable, tableStart); err != nil {
		return fmt.Errorf("lspk: reading file table: %w", err)
	}

	// A table the writer found incompressible is stored raw, so its stored
	// size equals the uncompressed size.
	tableRaw := compTable
	if int(tableCompressedSize) != int(numFiles)*entrySize {
		var err error
		tableRaw, err = bitio.LZ4BlockDecompress(compTable, int(numFiles)*entrySize)
		if err != nil {
			return fmt.Errorf("lspk: decompressing file table: %w", err)
		}
	}
	if len(tableRaw) != int(numFiles)*entrySize {
		return fmt.Errorf("lspk: decompressed table is %d bytes, want %d", len(tableRaw), int(numFiles)*entrySize)
	}

	entries := make([]FileTableEntry, numFiles)
	for i := range entries {
		e, err := decodeEntry(tableRaw[i*entrySize : (i+1)*entrySize])
		if err != nil {
			return err
		}
		entries[i] = e
	}
	r.entries = entries
	return nil
}

func leU64(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

// List returns the parsed file table without touching any payload.
func (r *Reader) List() []FileTableEntry {
	out := make([]FileTableEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// partFile returns the handle for the given archive part, opening and
// caching it on first use. Part 0 is always the main file.
func (r *Reader) partFile(part uint8) (*os.File, error) {
	if part == 0 {
		return r.main, nil
	}
	if f, ok := r.parts[part]; ok {
		return f, nil
	}
	ext := filepath.Ext(r.path)
	stem := strings.TrimSuffix(r.path, ext)
	partPath := fmt.Sprintf("%s_%d%s", stem, part, ext)
	f, err := os.Open(partPath)
	if err != nil {
		return nil, fmt.Errorf("lspk: opening part %d: %w", part, err)
	}
	r.parts[part] = f
	return f, nil
}

// ReadOne returns the decompressed payload for a single entry. Failure here
// is fatal to the call (spec.md §7), unlike a failure inside ExtractAll.
func (r *Reader) ReadOne(e FileTableEntry) ([]byte, error) {
	f, err := r.partFile(e.ArchivePart)
	if err != nil {
		return nil, err
	}
	raw := make([]byte, e.CompressedSize)
	if _, err := f.ReadAt(raw, int64(e.Offset)); err != nil {
		return nil, fmt.Errorf("lspk: reading %q payload: %w", e.Path, err)
	}
	return decompressPayload(raw, e.Compression(), int(e.DecompressedSize))
}

func decompressPayload(raw []byte, method CompressionMethod, declaredSize int) ([]byte, error) {
	switch method {
	case CompressionNone:
		return raw, nil
	case CompressionLZ4:
		return bitio.DecompressLZ4WithFallback(raw, declaredSize)
	case CompressionZlib:
		return bitio.ZlibDecompress(raw, declaredSize)
	default:
		return nil, fmt.Errorf("lspk: unsupported compression method %d", method)
	}
}

// ExtractAll writes every non-skipped entry under destDir, applying the
// special-case path policy (spec.md §4.1). Per-entry decompression failures
// are recorded, not fatal, so the caller always learns the full outcome of
// the batch.
func (r *Reader) ExtractAll(destDir string) (extracted []string, failures []ExtractFailure, err error) {
	for _, e := range r.entries {
		relOut, ok := routeExtractPath(e.Path)
		if !ok {
			continue
		}
		payload, rerr := r.ReadOne(e)
		if rerr != nil {
			failures = append(failures, ExtractFailure{Path: e.Path, Err: rerr})
			continue
		}
		outPath := filepath.Join(destDir, filepath.FromSlash(relOut))
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return extracted, failures, fmt.Errorf("lspk: creating output dir: %w", err)
		}
		if err := os.WriteFile(outPath, payload, 0o644); err != nil {
			return extracted, failures, fmt.Errorf("lspk: writing %q: %w", outPath, err)
		}
		extracted = append(extracted, relOut)
	}
	return extracted, failures, nil
}

// Close releases the main handle and every lazily opened part handle.
func (r *Reader) Close() error {
	var firstErr error
	if r.main != nil {
		if err := r.main.Close(); err != nil {
			firstErr = err
		}
	}
	for _, f := range r.parts {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
