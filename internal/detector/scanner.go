package detector

import (
	"credmask/internal/dom"
)

// IdentifyFormInputs collects the fields of every visible, non-search form
// in document order and merges the combinations they form into reg.
func (d *Detector) IdentifyFormInputs(doc *dom.Document, reg *Registry, singleInput bool) []*dom.Node {
	var forms []*dom.Node
	for _, form := range doc.Forms {
		if !d.IsVisible(doc, form) || IsSearchForm(form) {
			continue
		}

		forms = append(forms, form)
	}

	var inputs []*dom.Node
	for _, form := range forms {
		inputs = append(inputs, d.GetInputs(doc, form, reg, false)...)
	}

	reg.InitCombinations(inputs, singleInput)

	return inputs
}

// GetAllPageInputs collects the remaining fields of the body, skipping those
// in previous and those already in reg, and merges their combinations.
func (d *Detector) GetAllPageInputs(doc *dom.Document, reg *Registry, previous []*dom.Node, singleInput bool) []*dom.Node {
	fields := d.GetInputs(doc, doc.Body, Excluding(reg, NewIDSet(previous...)), false)

	reg.InitCombinations(fields, singleInput)

	return fields
}
