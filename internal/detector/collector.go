package detector

import (
	"strings"

	"credmask/internal/dom"
)

var ignoredNodeTypes = map[dom.NodeType]bool{
	dom.AttributeNode:             true,
	dom.TextNode:                  true,
	dom.CDATASectionNode:          true,
	dom.ProcessingInstructionNode: true,
	dom.CommentNode:               true,
	dom.DocumentTypeNode:          true,
	dom.NotationNode:              true,
}

var ignoredNodeNames = map[string]bool{
	"G":      true,
	"PATH":   true,
	"SVG":    true,
	"A":      true,
	"HEAD":   true,
	"HTML":   true,
	"LABEL":  true,
	"LINK":   true,
	"SCRIPT": true,
	"SPAN":   true,
	"VIDEO":  true,
}

// "username" is not a standard type; "" covers an explicit null type.
var inputTypes = map[string]bool{
	"text":     true,
	"email":    true,
	"password": true,
	"tel":      true,
	"number":   true,
	"username": true,
	"":         true,
}

// Exclusion is a set of already classified fields.
type Exclusion interface {
	Has(id dom.NodeID) bool
}

// IDSet is an Exclusion over a fixed set of node ids.
type IDSet map[dom.NodeID]struct{}

// NewIDSet returns the ids of nodes; nil nodes are skipped.
func NewIDSet(nodes ...*dom.Node) IDSet {
	s := make(IDSet, len(nodes))
	for _, n := range nodes {
		s.Add(n)
	}

	return s
}

func (s IDSet) Has(id dom.NodeID) bool {
	_, ok := s[id]
	return ok
}

func (s IDSet) Add(n *dom.Node) {
	if n != nil {
		s[n.ID] = struct{}{}
	}
}

type anyOf []Exclusion

func (a anyOf) Has(id dom.NodeID) bool {
	for _, e := range a {
		if e != nil && e.Has(id) {
			return true
		}
	}

	return false
}

// Excluding combines exclusion sets; a field in any of them is skipped.
func Excluding(sets ...Exclusion) Exclusion {
	return anyOf(sets)
}

// IgnoredNode reports whether the collector returns nothing for root n.
func (d *Detector) IgnoredNode(n *dom.Node) bool {
	if n == nil || ignoredNodeTypes[n.Type] || ignoredNodeNames[n.Name] {
		return true
	}

	for _, p := range d.opts.IgnoredNamePrefixes {
		if strings.HasPrefix(n.Name, p) {
			return true
		}
	}

	return false
}

// GetInputs returns the eligible input fields under root in document order,
// followed by those in root's own shadow root. Fields in exclude are skipped.
//
// When more than MaxInputs candidates exist the first MaxInputs are returned
// as they are, without the visibility, search and type filters.
func (d *Detector) GetInputs(doc *dom.Document, root *dom.Node, exclude Exclusion, ignoreVisibility bool) []*dom.Node {
	if d.IgnoredNode(root) {
		return nil
	}

	candidates := d.candidates(root.Descendants("INPUT"), exclude, nil)
	if root.HasShadowRoot() {
		candidates = d.candidates(root.ShadowDescendants("INPUT"), exclude, candidates)
	}

	if len(candidates) == 0 {
		return nil
	}

	if len(candidates) > d.opts.MaxInputs {
		return candidates[:d.opts.MaxInputs]
	}

	inputs := make([]*dom.Node, 0, len(candidates))
	for _, field := range candidates {
		if !ignoreVisibility && !d.IsVisible(doc, field) {
			continue
		}

		if IsSearchField(doc, field) || !isAutocompleteAppropriate(field) {
			continue
		}

		if inputTypes[field.InputType] {
			inputs = append(inputs, field)
		}
	}

	return inputs
}

func (d *Detector) candidates(fields []*dom.Node, exclude Exclusion, out []*dom.Node) []*dom.Node {
	for _, f := range fields {
		if f.InputType == "hidden" || f.Disabled {
			continue
		}

		if exclude != nil && exclude.Has(f.ID) {
			continue
		}

		out = append(out, f)
	}

	return out
}

// isAutocompleteAppropriate rejects fields asking for a new password.
func isAutocompleteAppropriate(field *dom.Node) bool {
	autocomplete, _ := field.LowerAttr("autocomplete")
	return autocomplete != "new-password"
}
