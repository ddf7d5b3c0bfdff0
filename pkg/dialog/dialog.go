// Package dialog parses dialog-graph documents and builds the speaker,
// flag, and localisation indices a dialog UI needs to render a node without
// re-walking every PAK on each lookup. Grounded on the teacher's
// pkg/vkern.List (scan-then-index once, serve from memory) and pkg/vconvert
// for the underlying tree conversion.
package dialog

import (
	"strings"

	"github.com/ls-toolkit/lstoolkit/pkg/doctree"
)

// NodeKind is the closed set of dialog-node constructor tags, with a
// fallback for any value the engine adds later.
type NodeKind struct {
	name    string
	isOther bool
}

var (
	TagAnswer              = NodeKind{name: "TagAnswer"}
	TagQuestion            = NodeKind{name: "TagQuestion"}
	ActiveRoll              = NodeKind{name: "ActiveRoll"}
	PassiveRoll             = NodeKind{name: "PassiveRoll"}
	Alias                   = NodeKind{name: "Alias"}
	VisualState             = NodeKind{name: "VisualState"}
	RollResult              = NodeKind{name: "RollResult"}
	TagCinematic            = NodeKind{name: "TagCinematic"}
	Trade                   = NodeKind{name: "Trade"}
	NestedDialog            = NodeKind{name: "NestedDialog"}
	FallibleQuestionResult  = NodeKind{name: "FallibleQuestionResult"}
	Jump                    = NodeKind{name: "Jump"}
	Pop                     = NodeKind{name: "Pop"}
	TagGreeting             = NodeKind{name: "TagGreeting"}
)

var knownKinds = []NodeKind{
	TagAnswer, TagQuestion, ActiveRoll, PassiveRoll, Alias, VisualState,
	RollResult, TagCinematic, Trade, NestedDialog, FallibleQuestionResult,
	Jump, Pop, TagGreeting,
}

// Other returns the NodeKind for a constructor tag the closed enumeration
// doesn't name.
func Other(tag string) NodeKind { return NodeKind{name: tag, isOther: true} }

// String returns the constructor tag text, matching what appears on the
// wire.
func (k NodeKind) String() string { return k.name }

// IsOther reports whether k fell outside the known enumeration.
func (k NodeKind) IsOther() bool { return k.isOther }

// ParseNodeKind maps a wire constructor tag to its NodeKind.
func ParseNodeKind(tag string) NodeKind {
	for _, k := range knownKinds {
		if k.name == tag {
			return k
		}
	}
	return Other(tag)
}

const attrConstructor = "constructor"

// KindOf returns the dialog node's constructor kind, read from its
// "constructor" attribute.
func KindOf(n *doctree.Node) NodeKind {
	for _, a := range n.Attributes {
		if strings.EqualFold(a.ID, attrConstructor) {
			return ParseNodeKind(a.Value)
		}
	}
	return Other("")
}

// Document wraps a parsed dialog graph with convenience accessors layered
// over the shared tree model.
type Document struct {
	Tree *doctree.Document
}

// Nodes returns every node in the document, depth-first, root-to-leaf.
func (d *Document) Nodes() []*doctree.Node {
	var out []*doctree.Node
	var walk func(n *doctree.Node)
	walk = func(n *doctree.Node) {
		out = append(out, n)
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, r := range d.Tree.Regions {
		for _, n := range r.Nodes {
			walk(n)
		}
	}
	return out
}
