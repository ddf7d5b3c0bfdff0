// Package lsx reads and writes LSX, the canonical textual form of the
// doctree.Document tree: an XML document rooted at <save>, carrying a
// <version> header and one or more <region> elements, each holding nested
// <node>/<attribute>/<children> elements.
//
// LSX is the neutral intermediate the rest of the toolkit uses to move a
// Document between the binary LSF codec and the LSJ codec (spec.md §4.5);
// this package therefore has to be exactly lossless, including attribute
// and node ordering, since nothing downstream gets a second chance to
// recover information this package drops.
package lsx

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/ls-toolkit/lstoolkit/pkg/doctree"
)

type xmlSave struct {
	XMLName xml.Name    `xml:"save"`
	Version xmlVersion  `xml:"version"`
	Regions []xmlRegion `xml:"region"`
}

type xmlVersion struct {
	Major    uint32 `xml:"major,attr"`
	Minor    uint32 `xml:"minor,attr"`
	Revision uint32 `xml:"revision,attr"`
	Build    uint32 `xml:"build,attr"`
	LSLibMeta string `xml:"lslib_meta,attr,omitempty"`
}

type xmlRegion struct {
	ID    string    `xml:"id,attr"`
	Nodes []xmlNode `xml:"node"`
}

type xmlNode struct {
	ID         string         `xml:"id,attr"`
	Key        string         `xml:"key,attr,omitempty"`
	HasKey     bool           `xml:"-"`
	Attributes []xmlAttribute `xml:"attribute"`
	Children   *xmlChildren   `xml:"children"`
}

type xmlChildren struct {
	Nodes []xmlNode `xml:"node"`
}

type xmlAttribute struct {
	ID      string `xml:"id,attr"`
	Type    string `xml:"type,attr"`
	Value   string `xml:"value,attr"`
	Handle  string `xml:"handle,attr,omitempty"`
	Version *int   `xml:"version,attr,omitempty"`
}

// UnmarshalXML is implemented by hand so we can record whether the "key"
// attribute was present at all (an empty key and an absent key are
// different per spec.md §3.1).
func (n *xmlNode) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	type alias xmlNode
	aux := struct {
		*alias
	}{alias: (*alias)(n)}

	for _, attr := range start.Attr {
		if attr.Name.Local == "key" {
			n.HasKey = true
		}
	}

	return d.DecodeElement(&aux, &start)
}

// Decode parses an LSX document into a doctree.Document.
func Decode(r io.Reader) (*doctree.Document, error) {
	var root xmlSave
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("lsx: parsing xml: %w", err)
	}

	doc := &doctree.Document{
		Version: doctree.DocVersion{
			Major:    root.Version.Major,
			Minor:    root.Version.Minor,
			Revision: root.Version.Revision,
			Build:    root.Version.Build,
		},
	}

	for _, xr := range root.Regions {
		region := &doctree.Region{ID: xr.ID}
		for _, xn := range xr.Nodes {
			n, err := decodeNode(xn)
			if err != nil {
				return nil, err
			}
			region.Nodes = append(region.Nodes, n)
		}
		doc.Regions = append(doc.Regions, region)
	}

	return doc, nil
}

func decodeNode(xn xmlNode) (*doctree.Node, error) {
	n := doctree.NewNode(xn.ID)
	if xn.HasKey {
		n.WithKey(xn.Key)
	}

	for _, xa := range xn.Attributes {
		t, err := doctree.ParseAttrType(xa.Type)
		if err != nil {
			return nil, fmt.Errorf("lsx: node %q attribute %q: %w", xn.ID, xa.ID, err)
		}
		a := &doctree.Attribute{ID: xa.ID, Type: t, Value: xa.Value, Handle: xa.Handle}
		if xa.Version != nil {
			a.TSVersion = *xa.Version
		}
		n.AddAttribute(a)
	}

	if xn.Children != nil {
		for _, xc := range xn.Children.Nodes {
			c, err := decodeNode(xc)
			if err != nil {
				return nil, err
			}
			n.AddChild(c)
		}
	}

	return n, nil
}

// Encode serialises doc as an LSX document.
func Encode(w io.Writer, doc *doctree.Document) error {
	root := xmlSave{
		Version: xmlVersion{
			Major: doc.Version.Major, Minor: doc.Version.Minor,
			Revision: doc.Version.Revision, Build: doc.Version.Build,
			LSLibMeta: "v1,bswap_guids",
		},
	}

	for _, region := range doc.Regions {
		xr := xmlRegion{ID: region.ID}
		for _, n := range region.Nodes {
			xr.Nodes = append(xr.Nodes, encodeNode(n))
		}
		root.Regions = append(root.Regions, xr)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("lsx: encoding xml: %w", err)
	}
	return enc.Flush()
}

func encodeNode(n *doctree.Node) xmlNode {
	xn := xmlNode{ID: n.ID}
	if n.Key != nil {
		xn.Key = *n.Key
		xn.HasKey = true
	}
	for _, a := range n.Attributes {
		xa := xmlAttribute{ID: a.ID, Type: a.Type.String(), Value: a.Value}
		if a.Type.String() == "TranslatedString" {
			xa.Handle = a.Handle
			v := a.TSVersion
			xa.Version = &v
		}
		xn.Attributes = append(xn.Attributes, xa)
	}
	if len(n.Children) > 0 {
		xc := &xmlChildren{}
		for _, c := range n.Children {
			xc.Nodes = append(xc.Nodes, encodeNode(c))
		}
		xn.Children = xc
	}
	return xn
}
