package merged

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ls-toolkit/lstoolkit/pkg/convert"
	"github.com/ls-toolkit/lstoolkit/pkg/doctree"
	"github.com/ls-toolkit/lstoolkit/pkg/lspk"
)

const mergedSuffix = "_merged.lsf"

// Source describes where Ingest should look for `_merged.lsf` files.
type Source struct {
	// Dir, when set, is walked recursively for files named "*_merged.lsf".
	Dir string
	// Pak, when set, is opened and searched for entries named
	// "*_merged.lsf".
	Pak string
	// LSFPath, when set, is parsed directly as a single merged bank file.
	LSFPath string
	// LSXPath, when set, is parsed directly as an already-converted
	// merged bank document.
	LSXPath string
}

// Ingest locates every `_merged.lsf` the Source names, parses their banks,
// and merges them into db in sorted-path order so duplicate UUIDs resolve
// deterministically (later path wins). Callers must call db.Resolve once
// ingestion is complete.
func Ingest(db *MergedDatabase, src Source) error {
	docs, err := loadDocuments(src)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		db.merge(
			parseVisualBank(doc),
			parseMaterialBank(doc),
			parseTextureBank(doc),
			parseVirtualTextureBank(doc),
		)
	}
	return nil
}

func loadDocuments(src Source) ([]*doctree.Document, error) {
	switch {
	case src.LSXPath != "":
		f, err := os.Open(src.LSXPath)
		if err != nil {
			return nil, fmt.Errorf("merged: opening %s: %w", src.LSXPath, err)
		}
		defer f.Close()
		doc, err := convert.FromLSX(f)
		if err != nil {
			return nil, fmt.Errorf("merged: parsing %s: %w", src.LSXPath, err)
		}
		return []*doctree.Document{doc}, nil

	case src.LSFPath != "":
		doc, err := parseLSFFile(src.LSFPath)
		if err != nil {
			return nil, err
		}
		return []*doctree.Document{doc}, nil

	case src.Pak != "":
		return loadFromPak(src.Pak)

	case src.Dir != "":
		return loadFromDir(src.Dir)

	default:
		return nil, fmt.Errorf("merged: Source names no input")
	}
}

func parseLSFFile(path string) (*doctree.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("merged: opening %s: %w", path, err)
	}
	defer f.Close()
	doc, err := convert.FromLSF(f)
	if err != nil {
		return nil, fmt.Errorf("merged: parsing %s: %w", path, err)
	}
	return doc, nil
}

func loadFromDir(dir string) ([]*doctree.Document, error) {
	var paths []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if strings.HasSuffix(strings.ToLower(info.Name()), mergedSuffix) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("merged: walking %s: %w", dir, err)
	}
	sort.Strings(paths)

	docs := make([]*doctree.Document, 0, len(paths))
	for _, p := range paths {
		doc, err := parseLSFFile(p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func loadFromPak(pakPath string) ([]*doctree.Document, error) {
	r, err := lspk.Open(pakPath)
	if err != nil {
		return nil, fmt.Errorf("merged: opening pak %s: %w", pakPath, err)
	}
	defer r.Close()

	var entries []lspk.FileTableEntry
	for _, e := range r.List() {
		if strings.HasSuffix(strings.ToLower(e.Path), mergedSuffix) {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

	docs := make([]*doctree.Document, 0, len(entries))
	for _, e := range entries {
		raw, err := r.ReadOne(e)
		if err != nil {
			return nil, fmt.Errorf("merged: reading %s from pak: %w", e.Path, err)
		}
		doc, err := convert.FromLSF(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("merged: parsing %s: %w", e.Path, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
