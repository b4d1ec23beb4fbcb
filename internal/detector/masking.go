package detector

import (
	"credmask/internal/dom"
)

const maskedColor = "transparent"

// HideUsernameField makes the combination's username text transparent and
// tags it with class. Read-only usernames are left alone. Reports whether the
// field changed; a field already masked does not.
func HideUsernameField(c Combination, class string) bool {
	u := c.Username
	if u == nil || u.ReadOnly {
		return false
	}

	changed := false

	if u.Style.Color != maskedColor {
		u.Style.Color = maskedColor
		changed = true
	}

	if u.AddClass(class) {
		changed = true
	}

	return changed
}

// IsMasked reports whether n carries both parts of the mask.
func IsMasked(n *dom.Node, class string) bool {
	return n != nil && n.Style.Color == maskedColor && n.HasClass(class)
}
