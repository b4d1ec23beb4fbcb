// Package dom holds the document snapshot the detector works on.
//
// A Document is produced either from a live page (DecodeSnapshot) or from a
// static HTML file (ParseHTML). Nodes are identified by NodeID, which stays
// stable for the same element across snapshots of one page.
package dom

import (
	"strings"
)

type NodeID int64

// NodeType mirrors the DOM Node.nodeType constants.
type NodeType int

const (
	ElementNode               NodeType = 1
	AttributeNode             NodeType = 2
	TextNode                  NodeType = 3
	CDATASectionNode          NodeType = 4
	ProcessingInstructionNode NodeType = 7
	CommentNode               NodeType = 8
	DocumentNode              NodeType = 9
	DocumentTypeNode          NodeType = 10
	DocumentFragmentNode      NodeType = 11
	NotationNode              NodeType = 12
)

type Rect struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Attr struct {
	Name  string
	Value string
}

// InlineStyle is the subset of element.style the detector reads or writes.
type InlineStyle struct {
	Opacity string
	Color   string
}

type Node struct {
	ID   NodeID
	Type NodeType
	Name string

	Attrs []Attr

	// InputType is the lower-cased HTMLInputElement.type; empty for other elements.
	InputType string
	Disabled  bool
	ReadOnly  bool
	Size      int

	Rect       Rect
	Visibility string
	Style      InlineStyle
	Classes    []string

	Parent   *Node
	Children []*Node
	// Shadow holds the top-level children of an open shadow root, nil when the
	// node hosts none.
	Shadow []*Node

	Form     *Node
	Elements []*Node
}

func (n *Node) IsElement() bool {
	return n != nil && n.Type == ElementNode
}

func (n *Node) Is(name string) bool {
	return n.IsElement() && n.Name == name
}

func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}

	return "", false
}

// LowerAttr returns the lower-cased attribute value, or "" and false when absent.
func (n *Node) LowerAttr(name string) (string, bool) {
	v, ok := n.Attr(name)
	if !ok {
		return "", false
	}

	return strings.ToLower(v), true
}

func (n *Node) SetAttr(name, value string) {
	for i, a := range n.Attrs {
		if a.Name == name {
			n.Attrs[i].Value = value
			return
		}
	}

	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
}

func (n *Node) HasClass(class string) bool {
	for _, c := range n.Classes {
		if c == class {
			return true
		}
	}

	return false
}

// AddClass adds class to the class list and reports whether it was missing.
func (n *Node) AddClass(class string) bool {
	if n.HasClass(class) {
		return false
	}

	n.Classes = append(n.Classes, class)
	n.SetAttr("class", strings.Join(n.Classes, " "))

	return true
}

// ClassName is the raw class attribute, as element.className would return it.
func (n *Node) ClassName() string {
	return strings.Join(n.Classes, " ")
}

// Closest returns the nearest ancestor-or-self matching pred.
func (n *Node) Closest(pred func(*Node) bool) *Node {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.IsElement() && pred(cur) {
			return cur
		}
	}

	return nil
}

// AnyParent reports whether a strict ancestor matches pred.
func (n *Node) AnyParent(pred func(*Node) bool) bool {
	for cur := n.Parent; cur != nil; cur = cur.Parent {
		if cur.IsElement() && pred(cur) {
			return true
		}
	}

	return false
}

// Descendants returns light-DOM element descendants named name in document
// order. Shadow roots below n are not entered.
func (n *Node) Descendants(name string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		collect(c, name, &out)
	}

	return out
}

// ShadowDescendants returns elements named name inside n's own shadow root.
// Shadow roots nested inside it are not entered.
func (n *Node) ShadowDescendants(name string) []*Node {
	var out []*Node
	for _, c := range n.Shadow {
		collect(c, name, &out)
	}

	return out
}

func (n *Node) HasShadowRoot() bool {
	return n.Shadow != nil
}

func collect(n *Node, name string, out *[]*Node) {
	if n.Is(name) {
		*out = append(*out, n)
	}

	for _, c := range n.Children {
		collect(c, name, out)
	}
}

type Document struct {
	URL string
	// Token identifies the live document the node ids belong to. Ids from
	// documents with different tokens are unrelated. Static documents have
	// none.
	Token  string
	Extent Size
	Root   *Node
	Body   *Node
	Forms  []*Node

	byID map[NodeID]*Node
}

func (d *Document) Node(id NodeID) *Node {
	if d == nil {
		return nil
	}

	return d.byID[id]
}

func (d *Document) Len() int {
	return len(d.byID)
}

// index registers n and everything below it, light and shadow.
func (d *Document) index(n *Node) {
	if d.byID == nil {
		d.byID = make(map[NodeID]*Node)
	}

	d.byID[n.ID] = n

	for _, c := range n.Children {
		d.index(c)
	}

	for _, c := range n.Shadow {
		d.index(c)
	}
}
