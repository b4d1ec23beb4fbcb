package detector

import (
	"strings"

	"credmask/internal/dom"
)

func containsSearch(v string) bool {
	return strings.Contains(v, "search") && !strings.Contains(v, "research")
}

// IsSearchForm reports whether form looks like a site-search form.
func IsSearchForm(form *dom.Node) bool {
	if form == nil {
		return false
	}

	if action, ok := form.LowerAttr("action"); ok && containsSearch(action) {
		return true
	}

	// Substring match over the whole class string, so "site-search" counts.
	if strings.Contains(strings.ToLower(form.ClassName()), "search") {
		return true
	}

	if id, ok := form.LowerAttr("id"); ok && containsSearch(id) {
		return true
	}

	return false
}

// IsSearchField reports whether field is a site-search box: an attribute
// value mentioning "search" or equal to "q", a search owning form, or an
// ancestor-or-self with role="search".
func IsSearchField(doc *dom.Document, field *dom.Node) bool {
	if field == nil {
		return false
	}

	for _, a := range field.Attrs {
		if strings.Contains(strings.ToLower(a.Value), "search") || a.Value == "q" {
			return true
		}
	}

	if form := GetForm(doc, field); form != nil && IsSearchForm(form) {
		return true
	}

	return field.Closest(hasSearchRole) != nil
}

func hasSearchRole(n *dom.Node) bool {
	role, ok := n.LowerAttr("role")
	if !ok {
		return false
	}

	for _, token := range strings.Fields(role) {
		if token == "search" {
			return true
		}
	}

	return false
}
