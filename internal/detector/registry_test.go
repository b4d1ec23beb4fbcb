package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credmask/internal/dom"
)

func TestRegistry_MergeDeduplicates(t *testing.T) {
	reg := NewRegistry()
	form := &dom.Node{ID: 9, Type: dom.ElementNode, Name: "FORM"}
	user, pass := field(1, "text"), field(2, "password")

	c := Combination{Username: user, Password: pass, PasswordInputs: []*dom.Node{pass}, Form: form}

	_, added := reg.Merge(nil, []Combination{c})
	assert.Equal(t, 1, added)

	_, added = reg.Merge(nil, []Combination{c})
	assert.Equal(t, 0, added)
	assert.Len(t, reg.Combinations(), 1)
}

func TestRegistry_DedupByIdentityNotPointer(t *testing.T) {
	reg := NewRegistry()

	reg.Merge(nil, []Combination{{Username: field(1, "text"), Password: field(2, "password")}})
	// A later snapshot of the same elements yields new nodes with the same ids.
	reg.Merge(nil, []Combination{{Username: field(1, "text"), Password: field(2, "password")}})

	assert.Len(t, reg.Combinations(), 1)
}

func TestRegistry_DedupIgnoresPasswordInputs(t *testing.T) {
	reg := NewRegistry()
	user, pass := field(1, "text"), field(2, "password")

	reg.Merge(nil, []Combination{{Username: user, Password: pass, PasswordInputs: []*dom.Node{pass}}})
	reg.Merge(nil, []Combination{{Username: user, Password: pass}})

	require.Len(t, reg.Combinations(), 1)
	assert.Equal(t, []*dom.Node{pass}, reg.Combinations()[0].PasswordInputs)
}

func TestRegistry_DistinctForms(t *testing.T) {
	reg := NewRegistry()
	user, pass := field(1, "text"), field(2, "password")

	reg.Merge(nil, []Combination{
		{Username: user, Password: pass},
		{Username: user, Password: pass, Form: &dom.Node{ID: 3}},
		{},
	})

	assert.Len(t, reg.Combinations(), 2, "the empty combination is rejected")
}

func TestRegistry_FieldsAppendOnly(t *testing.T) {
	reg := NewRegistry()
	a, b := field(1, "text"), field(2, "password")

	added, _ := reg.Merge([]*dom.Node{a, b, a}, nil)
	assert.Equal(t, 2, added)
	assert.Equal(t, 2, reg.DetectedFields())

	added, _ = reg.Merge([]*dom.Node{field(2, "password"), field(3, "text")}, nil)
	assert.Equal(t, 1, added)
	assert.Equal(t, 3, reg.DetectedFields())
	assert.True(t, reg.Has(1))
	assert.True(t, reg.Has(3))
	assert.False(t, reg.Has(4))
}

func TestRegistry_InitCombinations(t *testing.T) {
	reg := NewRegistry()
	fields := []*dom.Node{field(1, "text"), field(2, "password")}

	assert.Nil(t, reg.InitCombinations(nil, false))
	assert.Nil(t, reg.InitCombinations([]*dom.Node{field(5, "text")}, false))

	built := reg.InitCombinations(fields, false)
	require.Len(t, built, 1)

	again := reg.InitCombinations(fields, false)
	assert.Len(t, again, 1, "every built combination is returned")
	assert.Len(t, reg.Combinations(), 1, "but stored once")
	assert.Empty(t, reg.Inputs(), "fields are recorded by the caller")
}
