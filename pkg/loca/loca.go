// Package loca reads and writes LOCA, the binary localisation blob: a flat
// table of handle/version/text entries. Grounded on the teacher's flat
// padded-record formats (ext4 directory entries, vpkg's fixed-size header
// with a pad field): a length-prefixed record stream with no name-table
// indirection, since a localisation blob has no tree structure to share.
package loca

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ls-toolkit/lstoolkit/pkg/bitio"
)

// Magic is the 4-byte LOCA file signature.
var Magic = [4]byte{'L', 'O', 'C', 'A'}

// ErrBadMagic is returned when a file does not start with the LOCA magic.
var ErrBadMagic = errors.New("loca: bad magic")

// Entry is one handle/version/text record. Text may be empty when the
// value is meant to be supplied externally (spec.md §3.1).
type Entry struct {
	Handle  string
	Version uint16
	Text    string
}

// Decode parses a LOCA stream into its entries, in file order.
func Decode(r io.Reader) ([]Entry, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("loca: reading magic: %w", err)
	}
	if magic != Magic {
		return nil, ErrBadMagic
	}

	numEntries, err := bitio.ReadU32(r)
	if err != nil {
		return nil, fmt.Errorf("loca: reading entry count: %w", err)
	}
	// textsOffset is written for compatibility with readers that skip
	// straight to the text blob; this package always reads sequentially so
	// the value is read but not otherwise used.
	if _, err := bitio.ReadU32(r); err != nil {
		return nil, fmt.Errorf("loca: reading texts offset: %w", err)
	}

	type pending struct {
		handle  string
		version uint16
		length  uint32
	}
	records := make([]pending, 0, numEntries)

	for i := uint32(0); i < numEntries; i++ {
		handleLen, err := bitio.ReadU16(r)
		if err != nil {
			return nil, fmt.Errorf("loca: entry %d: reading handle length: %w", i, err)
		}
		handleBuf := make([]byte, handleLen)
		if _, err := io.ReadFull(r, handleBuf); err != nil {
			return nil, fmt.Errorf("loca: entry %d: reading handle: %w", i, err)
		}
		version, err := bitio.ReadU16(r)
		if err != nil {
			return nil, fmt.Errorf("loca: entry %d: reading version: %w", i, err)
		}
		length, err := bitio.ReadU32(r)
		if err != nil {
			return nil, fmt.Errorf("loca: entry %d: reading text length: %w", i, err)
		}
		records = append(records, pending{handle: string(handleBuf), version: version, length: length})
	}

	entries := make([]Entry, 0, numEntries)
	for i, rec := range records {
		buf := make([]byte, rec.length)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("loca: entry %d: reading text: %w", i, err)
		}
		entries = append(entries, Entry{
			Handle:  rec.handle,
			Version: rec.version,
			Text:    string(bytes.TrimRight(buf, "\x00")),
		})
	}

	return entries, nil
}

// Encode serialises entries as a LOCA stream, preserving order. Each text
// field is padded with a single trailing NUL, matching the declared length
// written in its record (spec.md §4.4).
func Encode(w io.Writer, entries []Entry) error {
	if _, err := w.Write(Magic[:]); err != nil {
		return err
	}
	if err := bitio.WriteU32(w, uint32(len(entries))); err != nil {
		return err
	}

	headerSize := 4 + 4 + 4
	textsOffset := headerSize
	for _, e := range entries {
		textsOffset += 2 + len(e.Handle) + 2 + 4
	}
	if err := bitio.WriteU32(w, uint32(textsOffset)); err != nil {
		return err
	}

	for _, e := range entries {
		if err := bitio.WriteU16(w, uint16(len(e.Handle))); err != nil {
			return err
		}
		if _, err := w.Write([]byte(e.Handle)); err != nil {
			return err
		}
		if err := bitio.WriteU16(w, e.Version); err != nil {
			return err
		}
		padded := append([]byte(e.Text), 0)
		if err := bitio.WriteU32(w, uint32(len(padded))); err != nil {
			return err
		}
	}

	for _, e := range entries {
		padded := append([]byte(e.Text), 0)
		if _, err := w.Write(padded); err != nil {
			return err
		}
	}

	return nil
}
