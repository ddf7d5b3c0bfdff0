// Package doctree holds the in-memory document model shared by the LSF,
// LSX, and LSJ codecs: a Document is an ordered list of Regions, each an
// ordered list of Nodes, each carrying ordered Attributes and ordered child
// Nodes. Every textual/binary codec in this module reads and writes this
// same tree, so a lossless LSF->LSX->LSJ round trip only has to prove
// itself once, here, rather than separately in every codec pair.
//
// The tree is immutable after construction: converters build a new
// Document rather than mutate one in place, matching the lifecycle the
// merged-asset resolver depends on when it retains a Document for a whole
// ingest session.
package doctree

// DocVersion is the four-field version every LS document format carries.
type DocVersion struct {
	Major    uint32
	Minor    uint32
	Revision uint32
	Build    uint32
}

// Document is the root of a parsed LSF/LSX/LSJ tree.
type Document struct {
	Version DocVersion
	Regions []*Region
}

// Region is a named top-level grouping of Nodes.
type Region struct {
	ID    string
	Nodes []*Node
}

// Node is a tagged tree element. Key is nil unless the document came from
// the extended/keyed LSF layout (spec.md §3.1); two sibling Nodes may share
// an ID and are then distinguished by Key when present, otherwise by
// position alone.
type Node struct {
	ID         string
	Key        *string
	Attributes []*Attribute
	Children   []*Node
}

// Attribute is a single typed value attached to a Node. Handle and
// TSVersion are populated only for AttrTranslatedString; every other type
// carries its payload in Value alone.
type Attribute struct {
	ID        string
	Type      AttrType
	Value     string
	Handle    string
	TSVersion int
}

// NewNode returns an empty Node with the given id.
func NewNode(id string) *Node {
	return &Node{ID: id}
}

// WithKey sets the node's Key field and returns the node, for convenient
// construction of keyed-format documents.
func (n *Node) WithKey(key string) *Node {
	n.Key = &key
	return n
}

// AddAttribute appends an attribute to the node, preserving call order.
func (n *Node) AddAttribute(a *Attribute) {
	n.Attributes = append(n.Attributes, a)
}

// AddChild appends a child node, preserving call order.
func (n *Node) AddChild(c *Node) {
	n.Children = append(n.Children, c)
}

// FindRegion returns the region with the given id, or nil.
func (d *Document) FindRegion(id string) *Region {
	for _, r := range d.Regions {
		if r.ID == id {
			return r
		}
	}
	return nil
}
