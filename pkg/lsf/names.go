package lsf

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ls-toolkit/lstoolkit/pkg/bitio"
)

// nameRef is the packed (outer<<16 | inner) index spec.md §3.2 describes.
type nameRef uint32

func packName(outer, inner uint16) nameRef {
	return nameRef(uint32(outer)<<16 | uint32(inner))
}

func (n nameRef) outer() uint16 { return uint16(n >> 16) }
func (n nameRef) inner() uint16 { return uint16(n) }

// nameTable is the decoded two-level string table: outer hash buckets each
// holding an ordered list of names.
type nameTable struct {
	buckets [][]string
}

func (t *nameTable) resolve(ref nameRef) (string, error) {
	o, i := ref.outer(), ref.inner()
	if int(o) >= len(t.buckets) {
		return "", fmt.Errorf("lsf: name ref outer bucket %d out of range (have %d)", o, len(t.buckets))
	}
	bucket := t.buckets[o]
	if int(i) >= len(bucket) {
		return "", fmt.Errorf("lsf: name ref inner index %d out of range in bucket %d (have %d)", i, o, len(bucket))
	}
	return bucket[i], nil
}

// intern finds or appends name, returning its packed reference. Used by the
// writer to rebuild the name table while preserving first-seen order.
func (t *nameTable) intern(name string) nameRef {
	for o, bucket := range t.buckets {
		for i, s := range bucket {
			if s == name {
				return packName(uint16(o), uint16(i))
			}
		}
	}
	// New names go into a single growing bucket 0 for the writer; the exact
	// hash-bucket distribution the original format uses for inter-operability
	// with other tools is not load-bearing for correctness, only for byte
	// identity with a specific other writer, which spec.md does not require.
	if len(t.buckets) == 0 {
		t.buckets = append(t.buckets, nil)
	}
	t.buckets[0] = append(t.buckets[0], name)
	return packName(0, uint16(len(t.buckets[0])-1))
}

func decodeNameTable(raw []byte) (*nameTable, error) {
	r := bytes.NewReader(raw)
	t := &nameTable{}
	for r.Len() > 0 {
		count, err := bitio.ReadU16(r)
		if err != nil {
			return nil, fmt.Errorf("lsf: name table bucket count: %w", err)
		}
		bucket := make([]string, 0, count)
		for i := uint16(0); i < count; i++ {
			strLen, err := bitio.ReadU16(r)
			if err != nil {
				return nil, fmt.Errorf("lsf: name table string length: %w", err)
			}
			buf := make([]byte, strLen)
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, fmt.Errorf("lsf: name table string bytes: %w", err)
			}
			bucket = append(bucket, string(buf))
		}
		t.buckets = append(t.buckets, bucket)
	}
	return t, nil
}

func encodeNameTable(t *nameTable) []byte {
	var buf bytes.Buffer
	for _, bucket := range t.buckets {
		_ = bitio.WriteU16(&buf, uint16(len(bucket)))
		for _, s := range bucket {
			_ = bitio.WriteU16(&buf, uint16(len(s)))
			buf.WriteString(s)
		}
	}
	return buf.Bytes()
}
