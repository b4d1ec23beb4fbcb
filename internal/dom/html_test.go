package dom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, markup string) *Document {
	t.Helper()

	doc, err := ParseHTML(strings.NewReader(markup), DefaultOptions())
	require.NoError(t, err)

	return doc
}

func TestParseHTML_FormsAndOwnership(t *testing.T) {
	doc := parse(t, `
		<form id="login" action="/session">
			<input name="user">
			<input type="password" name="pass">
		</form>
		<input name="outside" form="login">
		<input name="loose">`)

	require.Len(t, doc.Forms, 1)
	form := doc.Forms[0]

	inputs := doc.Body.Descendants("INPUT")
	require.Len(t, inputs, 4)

	assert.Equal(t, form, inputs[0].Form)
	assert.Equal(t, form, inputs[1].Form)
	assert.Equal(t, form, inputs[2].Form, "form attribute associates the input")
	assert.Nil(t, inputs[3].Form)

	assert.Equal(t, []*Node{inputs[0], inputs[1], inputs[2]}, form.Elements)
	assert.Equal(t, "password", inputs[1].InputType)
	assert.Equal(t, "text", inputs[0].InputType, "a missing type is the text state")
}

func TestParseHTML_InputTypeReflection(t *testing.T) {
	doc := parse(t, `
		<input name="a" type="foo">
		<input name="b" type="">
		<input name="c" type="username">
		<input name="d" type=" Password ">
		<input name="e" type="HIDDEN">
		<input name="f" type="datetime-local">
		<button type="foo"></button>`)

	inputs := doc.Body.Descendants("INPUT")
	require.Len(t, inputs, 6)

	got := make([]string, 0, len(inputs))
	for _, in := range inputs {
		got = append(got, in.InputType)
	}

	assert.Equal(t, []string{"text", "text", "text", "password", "hidden", "datetime-local"}, got)
	assert.Empty(t, doc.Body.Descendants("BUTTON")[0].InputType, "only inputs carry a type")
}

func TestParseHTML_InlineStyle(t *testing.T) {
	doc := parse(t, `
		<div style="opacity: 0.0; visibility:hidden">
			<input id="a" style="width: 7px; height:30px; color: red !important">
		</div>
		<div style="display:none"><input id="b"></div>
		<input id="c" style="left:-20px; top: 40px">`)

	inputs := doc.Body.Descendants("INPUT")
	require.Len(t, inputs, 3)

	a, b, c := inputs[0], inputs[1], inputs[2]

	assert.Equal(t, "0", a.Parent.Style.Opacity)
	assert.Equal(t, "hidden", a.Visibility, "visibility inherits")
	assert.Equal(t, 7.0, a.Rect.Width)
	assert.Equal(t, 30.0, a.Rect.Height)
	assert.Equal(t, "red", a.Style.Color)

	assert.Equal(t, Rect{}, b.Rect)

	assert.Equal(t, -20.0, c.Rect.X)
	assert.Equal(t, 40.0, c.Rect.Y)
	assert.Equal(t, "visible", c.Visibility)
}

func TestParseHTML_DeclarativeShadowRoot(t *testing.T) {
	doc := parse(t, `
		<login-box>
			<template shadowrootmode="open">
				<input name="user">
				<inner-box>
					<template shadowrootmode="open"><input name="nested"></template>
				</inner-box>
			</template>
		</login-box>`)

	host := doc.Body.Children[0]
	require.True(t, host.HasShadowRoot())
	assert.Empty(t, host.Descendants("INPUT"), "light DOM does not contain shadow inputs")

	shadowInputs := host.ShadowDescendants("INPUT")
	require.Len(t, shadowInputs, 1)
	assert.Equal(t, host, shadowInputs[0].Parent)
	assert.NotNil(t, doc.Node(shadowInputs[0].ID))
}

func TestParseHTML_AttributesAndIDs(t *testing.T) {
	doc := parse(t, `<input type="TEXT" disabled readonly size="0" class="a  b">`)

	input := doc.Body.Descendants("INPUT")[0]
	assert.Equal(t, "text", input.InputType)
	assert.True(t, input.Disabled)
	assert.True(t, input.ReadOnly)
	assert.Equal(t, 0, input.Size)
	assert.Equal(t, []string{"a", "b"}, input.Classes)
	assert.Same(t, input, doc.Node(input.ID))
}

func TestParseStyle(t *testing.T) {
	decls := parseStyle(`color: transparent; /* note */ width:10px;VISIBILITY: Collapse;bogus;opacity:1`)

	assert.Equal(t, "transparent", decls["color"])
	assert.Equal(t, "10px", decls["width"])
	assert.Equal(t, "Collapse", decls["visibility"])
	assert.Equal(t, "1", decls["opacity"])
	assert.NotContains(t, decls, "bogus")
}
