package dom

import (
	"encoding/json"
	"fmt"
	"strings"

	"credmask/pkg/apperr"
)

// Snapshot is the wire form produced by the page-side snapshot script.
// Nodes are listed parents first, siblings in document order.
type Snapshot struct {
	URL    string         `json:"url"`
	Token  string         `json:"token"`
	Extent Size           `json:"extent"`
	Root   NodeID         `json:"root"`
	Body   NodeID         `json:"body"`
	Forms  []NodeID       `json:"forms"`
	Nodes  []SnapshotNode `json:"nodes"`
}

type SnapshotNode struct {
	ID        NodeID      `json:"id"`
	Parent    NodeID      `json:"parent"`
	InShadow  bool        `json:"inShadow"`
	HasShadow bool        `json:"hasShadow"`
	Type      NodeType    `json:"nodeType"`
	Name      string      `json:"nodeName"`
	Attrs     [][2]string `json:"attrs"`
	// InputType is null when the element has no type property.
	InputType  *string  `json:"inputType"`
	Disabled   bool     `json:"disabled"`
	ReadOnly   bool     `json:"readOnly"`
	Size       int      `json:"size"`
	Rect       Rect     `json:"rect"`
	Visibility string   `json:"visibility"`
	Opacity    string   `json:"opacity"`
	Color      string   `json:"color"`
	Classes    []string `json:"classes"`
	Form       NodeID   `json:"form"`
	Elements   []NodeID `json:"elements"`
}

func DecodeSnapshot(data []byte) (*Document, error) {
	const op = "DecodeSnapshot"

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, apperr.Wrap(op, apperr.CodeInvalidArgument, err, map[string]any{
			apperr.MetaReason: "snapshot_unmarshal_failed",
			apperr.MetaStage:  apperr.StageSnapshot,
		})
	}

	return FromSnapshot(&snap)
}

func FromSnapshot(snap *Snapshot) (*Document, error) {
	const op = "FromSnapshot"

	nodes := make(map[NodeID]*Node, len(snap.Nodes))

	for i := range snap.Nodes {
		sn := &snap.Nodes[i]

		if sn.ID == 0 {
			return nil, apperr.WrapErrorWithReason(op, apperr.CodeInvalidArgument, "snapshot_node_without_id")
		}

		if _, dup := nodes[sn.ID]; dup {
			return nil, apperr.Wrap(op, apperr.CodeInvalidArgument, fmt.Errorf("duplicate node id %d", sn.ID), map[string]any{
				apperr.MetaReason: "duplicate_node_id",
				apperr.MetaNodeID: sn.ID,
			})
		}

		n := &Node{
			ID:         sn.ID,
			Type:       sn.Type,
			Name:       strings.ToUpper(sn.Name),
			Disabled:   sn.Disabled,
			ReadOnly:   sn.ReadOnly,
			Size:       sn.Size,
			Rect:       sn.Rect,
			Visibility: sn.Visibility,
			Style:      InlineStyle{Opacity: sn.Opacity, Color: sn.Color},
			Classes:    sn.Classes,
		}

		if sn.InputType != nil {
			n.InputType = strings.ToLower(*sn.InputType)
		}

		for _, a := range sn.Attrs {
			n.Attrs = append(n.Attrs, Attr{Name: strings.ToLower(a[0]), Value: a[1]})
		}

		if sn.HasShadow {
			n.Shadow = []*Node{}
		}

		nodes[sn.ID] = n

		if sn.Parent == 0 {
			continue
		}

		parent, ok := nodes[sn.Parent]
		if !ok {
			return nil, apperr.Wrap(op, apperr.CodeInvalidArgument, fmt.Errorf("node %d listed before its parent %d", sn.ID, sn.Parent), map[string]any{
				apperr.MetaReason: "orphan_node",
				apperr.MetaNodeID: sn.ID,
			})
		}

		n.Parent = parent
		if sn.InShadow {
			parent.Shadow = append(parent.Shadow, n)
		} else {
			parent.Children = append(parent.Children, n)
		}
	}

	for i := range snap.Nodes {
		sn := &snap.Nodes[i]
		n := nodes[sn.ID]

		if sn.Form != 0 {
			n.Form = nodes[sn.Form]
		}

		for _, id := range sn.Elements {
			if el, ok := nodes[id]; ok {
				n.Elements = append(n.Elements, el)
			}
		}
	}

	doc := &Document{
		URL:    snap.URL,
		Token:  snap.Token,
		Extent: snap.Extent,
		Root:   nodes[snap.Root],
		Body:   nodes[snap.Body],
	}

	if doc.Root == nil || doc.Body == nil {
		return nil, apperr.Wrap(op, apperr.CodeInvalidArgument, fmt.Errorf("snapshot has no document element or body"), map[string]any{
			apperr.MetaReason: "missing_body",
			apperr.MetaStage:  apperr.StageSnapshot,
		})
	}

	for _, id := range snap.Forms {
		if f, ok := nodes[id]; ok {
			doc.Forms = append(doc.Forms, f)
		}
	}

	doc.index(doc.Root)

	return doc, nil
}

// AddedNode is a node a page-side mutation observer saw inserted. ID is zero
// for non-element nodes.
type AddedNode struct {
	ID   NodeID   `json:"id"`
	Type NodeType `json:"nodeType"`
	Name string   `json:"nodeName"`
}

// Mutations is what the page-side observer queued since the last drain.
// Token is the current document's; a new token means the page navigated and
// the queue, like every id seen before, belongs to the old document.
type Mutations struct {
	Token string      `json:"token"`
	Added []AddedNode `json:"added"`
}

// Resolve maps added nodes onto doc. Nodes missing from doc, already removed
// again, are dropped; non-element nodes become detached placeholders so
// callers can still see their type.
func Resolve(doc *Document, added []AddedNode) []*Node {
	roots := make([]*Node, 0, len(added))

	for _, a := range added {
		if a.ID == 0 {
			roots = append(roots, &Node{Type: a.Type, Name: strings.ToUpper(a.Name)})
			continue
		}

		if n := doc.Node(a.ID); n != nil {
			roots = append(roots, n)
		}
	}

	return roots
}
