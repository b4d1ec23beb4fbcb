package detector

import (
	"credmask/internal/dom"
)

// IsVisible reports whether n is meaningfully visible to a user.
//
// Only the element's inline opacity on ancestors is checked, not computed
// opacity, and display:none is not looked at directly; a hidden subtree
// normally fails on its zero-sized box instead.
func (d *Detector) IsVisible(doc *dom.Document, n *dom.Node) bool {
	if n == nil || doc == nil {
		return false
	}

	r := n.Rect
	if r.X < 0 ||
		r.Y < 0 ||
		r.Width < d.opts.MinSize ||
		r.X > doc.Extent.Width ||
		r.Y > doc.Extent.Height ||
		r.Height < d.opts.MinSize {
		return false
	}

	if n.Visibility == "hidden" || n.Visibility == "collapse" {
		return false
	}

	return !n.AnyParent(func(p *dom.Node) bool {
		return p.Style.Opacity == "0"
	})
}
