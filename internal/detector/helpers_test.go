package detector

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"credmask/internal/dom"
)

func load(t *testing.T, markup string) *dom.Document {
	t.Helper()

	doc, err := dom.ParseHTML(strings.NewReader(markup), dom.DefaultOptions())
	require.NoError(t, err)

	return doc
}

// byName returns the first element carrying name=value.
func byName(t *testing.T, doc *dom.Document, value string) *dom.Node {
	t.Helper()

	var found *dom.Node
	var walk func(n *dom.Node)
	walk = func(n *dom.Node) {
		if found != nil || n == nil {
			return
		}
		if v, ok := n.Attr("name"); ok && v == value {
			found = n
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
		for _, c := range n.Shadow {
			walk(c)
		}
	}
	walk(doc.Root)

	require.NotNil(t, found, "no element named %q", value)

	return found
}

func names(nodes []*dom.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		v, _ := n.Attr("name")
		out = append(out, v)
	}

	return out
}

func field(id dom.NodeID, inputType string) *dom.Node {
	return &dom.Node{ID: id, Type: dom.ElementNode, Name: "INPUT", InputType: inputType, Size: 20}
}
