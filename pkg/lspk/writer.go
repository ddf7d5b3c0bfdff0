package lspk

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/djherbis/buffer"
	"github.com/djherbis/nio"

	"github.com/ls-toolkit/lstoolkit/pkg/bitio"
)

// WriteOptions controls the archive Write produces.
type WriteOptions struct {
	Version     uint32
	Compression CompressionMethod
}

// Write walks sourceDir deterministically (sorted) and produces a complete
// LSPK archive at outPath, following the teacher's vpkg.Builder pipeline
// shape: a buffered pipe decouples per-file compression from the sequential
// writer goroutine so a slow destination disk never blocks the producer
// side.
func Write(sourceDir, outPath string, opts WriteOptions) error {
	version := opts.Version
	if version == 0 {
		version = MaxVersion
	}

	rels, err := sortedFiles(sourceDir)
	if err != nil {
		return fmt.Errorf("lspk: walking %q: %w", sourceDir, err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	pr, pw := nio.Pipe(buffer.New(32 * 1024 * 1024))

	copyDone := make(chan copyResult, 1)
	go func() {
		n, err := io.Copy(out, pr)
		copyDone <- copyResult{int(n), err}
	}()

	headerSize := int64(4 + 4 + 8)
	if _, err := pw.Write(Magic[:]); err != nil {
		return writerErr(pw, copyDone, err)
	}
	if err := bitio.WriteU32(pw, version); err != nil {
		return writerErr(pw, copyDone, err)
	}
	footerOffsetPlaceholder := make([]byte, 8)
	if _, err := pw.Write(footerOffsetPlaceholder); err != nil {
		return writerErr(pw, copyDone, err)
	}

	offset := headerSize
	entries := make([]FileTableEntry, 0, len(rels))
	for _, rel := range rels {
		fullPath := filepath.Join(sourceDir, filepath.FromSlash(rel))
		raw, err := os.ReadFile(fullPath)
		if err != nil {
			return writerErr(pw, copyDone, err)
		}

		payload, flags, err := compressPayload(raw, opts.Compression)
		if err != nil {
			return writerErr(pw, copyDone, err)
		}
		if _, err := pw.Write(payload); err != nil {
			return writerErr(pw, copyDone, err)
		}

		entries = append(entries, FileTableEntry{
			Path:             rel,
			Offset:           uint64(offset),
			ArchivePart:      0,
			Flags:            flags,
			CompressedSize:   uint32(len(payload)),
			DecompressedSize: uint32(len(raw)),
		})
		offset += int64(len(payload))
	}

	tableRaw := make([]byte, 0, len(entries)*entrySize)
	for _, e := range entries {
		b, err := encodeEntry(e)
		if err != nil {
			return writerErr(pw, copyDone, err)
		}
		tableRaw = append(tableRaw, b...)
	}
	tableComp, err := bitio.LZ4BlockCompress(tableRaw)
	if err != nil {
		// Incompressible table: store raw, matching the LSF section
		// fallback convention.
		tableComp = tableRaw
	}
	tableStart := offset
	if _, err := pw.Write(tableComp); err != nil {
		return writerErr(pw, copyDone, err)
	}

	footerOffset := tableStart + int64(len(tableComp))
	if err := bitio.WriteU32(pw, uint32(len(entries))); err != nil {
		return writerErr(pw, copyDone, err)
	}
	if err := bitio.WriteU32(pw, uint32(len(tableComp))); err != nil {
		return writerErr(pw, copyDone, err)
	}

	if err := pw.Close(); err != nil {
		return err
	}
	res := <-copyDone
	if res.err != nil {
		return res.err
	}

	// Patch the footer_offset field now that it's known; the header was
	// written with a placeholder since the table size depends on every
	// entry having already been compressed.
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(footerOffset >> (8 * uint(i)))
	}
	if _, err := out.WriteAt(buf[:], 8); err != nil {
		return fmt.Errorf("lspk: patching footer offset: %w", err)
	}
	return nil
}

// copyResult carries the outcome of the background io.Copy goroutine that
// drains the compression pipe into the output file.
type copyResult struct {
	n   int
	err error
}

func writerErr(pw io.WriteCloser, done chan copyResult, err error) error {
	pw.Close()
	<-done
	return err
}

func compressPayload(raw []byte, method CompressionMethod) (payload []byte, flags uint8, err error) {
	switch method {
	case CompressionNone:
		return raw, uint8(CompressionNone), nil
	case CompressionLZ4:
		comp, cerr := bitio.LZ4BlockCompress(raw)
		if cerr != nil || len(comp) >= len(raw) {
			return raw, uint8(CompressionNone), nil
		}
		return comp, uint8(CompressionLZ4), nil
	case CompressionZlib:
		comp, cerr := bitio.ZlibCompress(raw)
		if cerr != nil {
			return nil, 0, cerr
		}
		return comp, uint8(CompressionZlib), nil
	default:
		return nil, 0, fmt.Errorf("lspk: unsupported compression method %d", method)
	}
}
