package detector

import (
	"credmask/internal/dom"
)

// GetForm returns the form owning field: the direct owner when set, else the
// first document form listing field among its elements. Nil when none does.
func GetForm(doc *dom.Document, field *dom.Node) *dom.Node {
	if field == nil {
		return nil
	}

	if field.Form != nil {
		return field.Form
	}

	if doc == nil {
		return nil
	}

	for _, f := range doc.Forms {
		for _, e := range f.Elements {
			if e.ID == field.ID {
				return f
			}
		}
	}

	return nil
}
