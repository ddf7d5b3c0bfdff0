// Package convert implements the lossless edges between LSF, LSX, and LSJ,
// and between LOCA and LOCA-XML (spec.md §4.5). It exists as a separate
// package from doctree, which each format codec already imports for the
// shared Document model: a converter that lives in doctree and also imports
// lsf/lsx/lsj would close an import cycle, so this package sits one layer
// above doctree instead, the same way the teacher keeps vconvert (which
// composes several lower packages) separate from the vio tree model those
// packages build on.
package convert

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ls-toolkit/lstoolkit/pkg/doctree"
	"github.com/ls-toolkit/lstoolkit/pkg/loca"
	"github.com/ls-toolkit/lstoolkit/pkg/lsf"
	"github.com/ls-toolkit/lstoolkit/pkg/lsj"
	"github.com/ls-toolkit/lstoolkit/pkg/lsx"
)

// FromLSF parses an LSF stream into a Document.
func FromLSF(r io.Reader) (*doctree.Document, error) {
	return lsf.Decode(r)
}

// ToLSF serialises a Document as an LSF stream.
func ToLSF(w io.Writer, doc *doctree.Document, opts lsf.EncodeOptions) error {
	return lsf.Encode(w, doc, opts)
}

// FromLSX parses an LSX document into a Document.
func FromLSX(r io.Reader) (*doctree.Document, error) {
	return lsx.Decode(r)
}

// ToLSX serialises a Document as LSX.
func ToLSX(w io.Writer, doc *doctree.Document) error {
	return lsx.Encode(w, doc)
}

// FromLSJ parses an LSJ document into a Document.
func FromLSJ(r io.Reader) (*doctree.Document, error) {
	return lsj.Decode(r)
}

// ToLSJ serialises a Document as LSJ.
func ToLSJ(w io.Writer, doc *doctree.Document) error {
	return lsj.Encode(w, doc)
}

// LSFToLSJ converts an LSF stream directly to LSJ, composed as LSF -> LSX ->
// LSJ per spec.md §4.5: the LSX intermediate is never materialised to a
// caller-visible buffer, but both edges still run through the shared
// Document model rather than a direct byte transform.
func LSFToLSJ(w io.Writer, r io.Reader) error {
	doc, err := FromLSF(r)
	if err != nil {
		return fmt.Errorf("convert: lsf->lsj: %w", err)
	}
	var lsxBuf bytes.Buffer
	if err := ToLSX(&lsxBuf, doc); err != nil {
		return fmt.Errorf("convert: lsf->lsj: %w", err)
	}
	mid, err := FromLSX(&lsxBuf)
	if err != nil {
		return fmt.Errorf("convert: lsf->lsj: %w", err)
	}
	if err := ToLSJ(w, mid); err != nil {
		return fmt.Errorf("convert: lsf->lsj: %w", err)
	}
	return nil
}

// LSJToLSF converts an LSJ document directly to LSF, composed as LSJ -> LSX
// -> LSF, the inverse edge of LSFToLSJ.
func LSJToLSF(w io.Writer, r io.Reader, opts lsf.EncodeOptions) error {
	doc, err := FromLSJ(r)
	if err != nil {
		return fmt.Errorf("convert: lsj->lsf: %w", err)
	}
	var lsxBuf bytes.Buffer
	if err := ToLSX(&lsxBuf, doc); err != nil {
		return fmt.Errorf("convert: lsj->lsf: %w", err)
	}
	mid, err := FromLSX(&lsxBuf)
	if err != nil {
		return fmt.Errorf("convert: lsj->lsf: %w", err)
	}
	if err := ToLSF(w, mid, opts); err != nil {
		return fmt.Errorf("convert: lsj->lsf: %w", err)
	}
	return nil
}

// LocaFromXML parses a LOCA-XML document into entries.
func LocaFromXML(r io.Reader) ([]loca.Entry, error) {
	return loca.DecodeXML(r)
}

// LocaToXML serialises LOCA entries as LOCA-XML.
func LocaToXML(w io.Writer, entries []loca.Entry) error {
	return loca.EncodeXML(w, entries)
}
