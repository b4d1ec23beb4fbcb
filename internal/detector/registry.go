package detector

import (
	"credmask/internal/dom"
)

// Registry records every field and combination seen during one page session.
// It only grows: Merge adds what is new and ignores the rest.
type Registry struct {
	inputs         []*dom.Node
	known          IDSet
	combinations   []Combination
	detectedFields int
}

// NewRegistry returns an empty registry for a new page session.
func NewRegistry() *Registry {
	return &Registry{known: make(IDSet)}
}

func (r *Registry) Has(id dom.NodeID) bool {
	return r.known.Has(id)
}

func (r *Registry) Inputs() []*dom.Node {
	return append([]*dom.Node(nil), r.inputs...)
}

func (r *Registry) Combinations() []Combination {
	return append([]Combination(nil), r.combinations...)
}

func (r *Registry) DetectedFields() int {
	return r.detectedFields
}

// Merge appends unseen fields and combinations. A combination is unseen when
// no stored one has the same username, password, totp and form.
func (r *Registry) Merge(fields []*dom.Node, combinations []Combination) (newFields, newCombinations int) {
	for _, f := range fields {
		if f == nil || r.known.Has(f.ID) {
			continue
		}

		r.known.Add(f)
		r.inputs = append(r.inputs, f)
		newFields++
	}

	r.detectedFields = len(r.inputs)

	for _, c := range combinations {
		if c.Username == nil && c.Password == nil {
			continue
		}

		if r.hasCombination(c) {
			continue
		}

		r.combinations = append(r.combinations, c)
		newCombinations++
	}

	return newFields, newCombinations
}

// InitCombinations builds combinations from fields and merges them. It
// returns every combination built, including those already stored.
func (r *Registry) InitCombinations(fields []*dom.Node, singleInput bool) []Combination {
	if len(fields) == 0 {
		return nil
	}

	combinations := GetAllCombinations(fields, singleInput)
	if len(combinations) == 0 {
		return nil
	}

	r.Merge(nil, combinations)

	return combinations
}

func (r *Registry) hasCombination(c Combination) bool {
	for _, existing := range r.combinations {
		if existing.Same(c) {
			return true
		}
	}

	return false
}
