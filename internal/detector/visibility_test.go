package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsVisible(t *testing.T) {
	doc := load(t, `
		<input name="plain">
		<input name="narrow" style="width:7px">
		<input name="flat" style="height:7px">
		<input name="min" style="width:8px;height:8px">
		<input name="left" style="left:-1px">
		<input name="far-right" style="left:5000px">
		<input name="far-down" style="top:5000px">
		<input name="hidden" style="visibility:hidden">
		<input name="collapsed" style="visibility:collapse">
		<div style="visibility:hidden"><input name="inherits-hidden"></div>
		<div style="opacity:0"><div><input name="faded-parent"></div></div>
		<input name="faded-self" style="opacity:0">
		<div style="opacity:0.5"><input name="half-faded"></div>
		<div style="display:none"><input name="not-displayed"></div>`)

	det := New(DefaultOptions())

	tests := []struct {
		name    string
		visible bool
	}{
		{"plain", true},
		{"narrow", false},
		{"flat", false},
		{"min", true},
		{"left", false},
		{"far-right", false},
		{"far-down", false},
		{"hidden", false},
		{"collapsed", false},
		{"inherits-hidden", false},
		{"faded-parent", false},
		{"faded-self", true},
		{"half-faded", true},
		{"not-displayed", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.visible, det.IsVisible(doc, byName(t, doc, tt.name)))
		})
	}
}

func TestIsVisible_NilInputs(t *testing.T) {
	det := New(DefaultOptions())
	doc := load(t, `<input name="a">`)

	assert.False(t, det.IsVisible(doc, nil))
	assert.False(t, det.IsVisible(nil, byName(t, doc, "a")))
}

func TestIsVisible_MinSizeOption(t *testing.T) {
	doc := load(t, `<input name="small" style="width:5px;height:5px">`)

	assert.False(t, New(DefaultOptions()).IsVisible(doc, byName(t, doc, "small")))
	assert.True(t, New(Options{MinSize: 4}).IsVisible(doc, byName(t, doc, "small")))
}
