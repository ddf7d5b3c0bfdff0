// Package lsj reads and writes LSJ, the JSON textual variant of the same
// document tree LSX and LSF share. The wire shape is
//
//	{"save": {"header": {<version>}, "regions": {<id>: [<node>...]}}}
//
// A node is {"id": "...", "key": "...", "attributes": [...], "children": [...]}.
// spec.md §4.3 describes nodes as carrying attributes directly as object
// members; we use an ordered array instead (see DESIGN.md) because spec.md
// §3.1 explicitly allows two attributes under one node to share an id, which
// a JSON object's unique-key constraint cannot represent losslessly. Region
// order is likewise preserved with a hand-written MarshalJSON, since
// encoding/json has no ordered-map support and region order is part of the
// round-trip contract the same way node order is.
package lsj

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ls-toolkit/lstoolkit/pkg/doctree"
)

type jsonHeader struct {
	Version jsonVersion `json:"version"`
}

type jsonVersion struct {
	Major    uint32 `json:"major"`
	Minor    uint32 `json:"minor"`
	Revision uint32 `json:"revision"`
	Build    uint32 `json:"build"`
}

type jsonNode struct {
	ID         string          `json:"id"`
	Key        *string         `json:"key,omitempty"`
	Attributes []jsonAttribute `json:"attributes,omitempty"`
	Children   []jsonNode      `json:"children,omitempty"`
}

type jsonAttribute struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Value   string `json:"value"`
	Handle  string `json:"handle,omitempty"`
	Version *int   `json:"version,omitempty"`
}

// regionEntry is one region's worth of nodes, keyed for the ordered map
// encoding below.
type regionEntry struct {
	id    string
	nodes []jsonNode
}

// orderedRegions is a JSON object whose key order is the region order in
// the source Document, rather than the sorted order json.Marshal would
// otherwise impose on a plain map[string][]jsonNode.
type orderedRegions []regionEntry

func (o orderedRegions) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(r.id)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.nodes)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (o *orderedRegions) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("lsj: expected object for regions, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("lsj: expected string region id, got %v", keyTok)
		}
		var nodes []jsonNode
		if err := dec.Decode(&nodes); err != nil {
			return fmt.Errorf("lsj: region %q: %w", key, err)
		}
		*o = append(*o, regionEntry{id: key, nodes: nodes})
	}
	return nil
}

type jsonRoot struct {
	Save struct {
		Header  jsonHeader     `json:"header"`
		Regions orderedRegions `json:"regions"`
	} `json:"save"`
}

// Decode parses an LSJ document into a doctree.Document.
func Decode(r io.Reader) (*doctree.Document, error) {
	var root jsonRoot
	dec := json.NewDecoder(r)
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("lsj: parsing json: %w", err)
	}

	doc := &doctree.Document{
		Version: doctree.DocVersion{
			Major: root.Save.Header.Version.Major, Minor: root.Save.Header.Version.Minor,
			Revision: root.Save.Header.Version.Revision, Build: root.Save.Header.Version.Build,
		},
	}

	for _, entry := range root.Save.Regions {
		region := &doctree.Region{ID: entry.id}
		for _, jn := range entry.nodes {
			n, err := decodeNode(jn)
			if err != nil {
				return nil, err
			}
			region.Nodes = append(region.Nodes, n)
		}
		doc.Regions = append(doc.Regions, region)
	}

	return doc, nil
}

func decodeNode(jn jsonNode) (*doctree.Node, error) {
	n := doctree.NewNode(jn.ID)
	if jn.Key != nil {
		n.WithKey(*jn.Key)
	}
	for _, a := range jn.Attributes {
		t, err := doctree.ParseAttrType(a.Type)
		if err != nil {
			return nil, fmt.Errorf("lsj: node %q attribute %q: %w", jn.ID, a.ID, err)
		}
		attr := &doctree.Attribute{ID: a.ID, Type: t, Value: a.Value, Handle: a.Handle}
		if a.Version != nil {
			attr.TSVersion = *a.Version
		}
		n.AddAttribute(attr)
	}
	for _, c := range jn.Children {
		child, err := decodeNode(c)
		if err != nil {
			return nil, err
		}
		n.AddChild(child)
	}
	return n, nil
}

// Encode serialises doc as an LSJ document.
func Encode(w io.Writer, doc *doctree.Document) error {
	var root jsonRoot
	root.Save.Header.Version = jsonVersion{
		Major: doc.Version.Major, Minor: doc.Version.Minor,
		Revision: doc.Version.Revision, Build: doc.Version.Build,
	}

	for _, region := range doc.Regions {
		var nodes []jsonNode
		for _, n := range region.Nodes {
			nodes = append(nodes, encodeNode(n))
		}
		root.Save.Regions = append(root.Save.Regions, regionEntry{id: region.ID, nodes: nodes})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("lsj: encoding json: %w", err)
	}
	return nil
}

func encodeNode(n *doctree.Node) jsonNode {
	jn := jsonNode{ID: n.ID}
	if n.Key != nil {
		jn.Key = n.Key
	}
	for _, a := range n.Attributes {
		ja := jsonAttribute{ID: a.ID, Type: a.Type.String(), Value: a.Value}
		if a.Type == doctree.AttrTranslatedString {
			ja.Handle = a.Handle
			v := a.TSVersion
			ja.Version = &v
		}
		jn.Attributes = append(jn.Attributes, ja)
	}
	for _, c := range n.Children {
		jn.Children = append(jn.Children, encodeNode(c))
	}
	return jn
}
