package detector

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credmask/internal/dom"
)

func TestGetInputs_Filters(t *testing.T) {
	doc := load(t, `
		<input name="plain">
		<input name="hidden-type" type="hidden">
		<input name="disabled" disabled>
		<input name="email" type="email">
		<input name="tel" type="tel">
		<input name="number" type="number">
		<input name="username" type="username">
		<input name="checkbox" type="checkbox">
		<input name="submit" type="submit">
		<input name="pass" type="password">
		<input name="new-pass" type="password" autocomplete="NEW-PASSWORD">
		<input name="current-pass" type="password" autocomplete="current-password">
		<input name="tiny" style="width:7px">
		<input name="finder" placeholder="Search">`)

	det := New(DefaultOptions())
	got := det.GetInputs(doc, doc.Body, nil, false)

	assert.Equal(t, []string{"plain", "email", "tel", "number", "username", "pass", "current-pass"}, names(got))
}

func TestGetInputs_VisibilityBoundary(t *testing.T) {
	doc := load(t, `<input name="narrow" style="width:7px">`)
	det := New(DefaultOptions())

	assert.Empty(t, det.GetInputs(doc, doc.Body, nil, false))
	assert.Equal(t, []string{"narrow"}, names(det.GetInputs(doc, doc.Body, nil, true)))
}

func TestGetInputs_SearchExcludedRegardlessOfVisibility(t *testing.T) {
	doc := load(t, `
		<form action="/search"><input name="q"></form>
		<form action="/search"><input name="q2" style="width:1px"></form>`)
	det := New(DefaultOptions())

	for _, ignore := range []bool{false, true} {
		assert.Empty(t, det.GetInputs(doc, doc.Body, nil, ignore))
		assert.Empty(t, det.GetInputs(doc, doc.Forms[0], nil, ignore))
	}

	sess := NewSession(SessionParams{Detector: det})
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	res := sess.InitCredentialFields(ctx, doc)
	require.NoError(t, res.Err)
	assert.Empty(t, sess.Registry().Inputs())
}

func TestGetInputs_IgnoredRoots(t *testing.T) {
	doc := load(t, `
		<span><input name="in-span"></span>
		<label><input name="in-label"></label>
		<yt-player><input name="in-yt"></yt-player>
		<ytmusic-app><input name="in-ytmusic"></ytmusic-app>
		<div><input name="in-div"></div>`)
	det := New(DefaultOptions())

	for _, name := range []string{"in-span", "in-label", "in-yt", "in-ytmusic"} {
		root := byName(t, doc, name).Parent
		assert.Nil(t, det.GetInputs(doc, root, nil, false), root.Name)
	}

	assert.Nil(t, det.GetInputs(doc, doc.Root, nil, false), "HTML root is ignored")
	assert.Nil(t, det.GetInputs(doc, nil, nil, false))
	assert.Nil(t, det.GetInputs(doc, &dom.Node{Type: dom.TextNode, Name: "#text"}, nil, false))
	assert.Nil(t, det.GetInputs(doc, &dom.Node{Type: dom.CommentNode, Name: "#comment"}, nil, false))

	div := byName(t, doc, "in-div").Parent
	assert.Equal(t, []string{"in-div"}, names(det.GetInputs(doc, div, nil, false)))

	// The body root still reaches inputs below ignored elements.
	assert.Len(t, det.GetInputs(doc, doc.Body, nil, false), 5)
}

func TestGetInputs_ShadowRoot(t *testing.T) {
	doc := load(t, `
		<login-widget>
			<input name="light">
			<template shadowrootmode="open">
				<input name="shadow-user">
				<input name="shadow-pass" type="password">
				<inner-widget>
					<template shadowrootmode="open"><input name="nested"></template>
				</inner-widget>
			</template>
		</login-widget>`)
	det := New(DefaultOptions())

	host := doc.Body.Children[0]
	assert.Equal(t, []string{"light", "shadow-user", "shadow-pass"}, names(det.GetInputs(doc, host, nil, false)))

	// From the body the host's shadow root is not entered.
	assert.Equal(t, []string{"light"}, names(det.GetInputs(doc, doc.Body, nil, false)))
}

func TestGetInputs_Exclusion(t *testing.T) {
	doc := load(t, `<input name="a"><input name="b"><input name="c">`)
	det := New(DefaultOptions())

	reg := NewRegistry()
	reg.Merge([]*dom.Node{byName(t, doc, "a")}, nil)

	got := det.GetInputs(doc, doc.Body, Excluding(reg, NewIDSet(byName(t, doc, "c"))), false)
	assert.Equal(t, []string{"b"}, names(got))
}

func TestGetInputs_Cap(t *testing.T) {
	var b strings.Builder
	// The first candidate would fail both the visibility and the type filter.
	b.WriteString(`<input name="f0" type="checkbox" style="width:1px">`)
	for i := 1; i < 150; i++ {
		fmt.Fprintf(&b, `<input name="f%d">`, i)
	}

	doc := load(t, b.String())
	det := New(DefaultOptions())

	got := det.GetInputs(doc, doc.Body, nil, false)
	require.Len(t, got, 100)

	for i, n := range got {
		assert.Equal(t, fmt.Sprintf("f%d", i), names([]*dom.Node{n})[0])
	}
}

func TestGetInputs_CapCountsAfterHiddenAndDisabled(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 100; i++ {
		fmt.Fprintf(&b, `<input name="f%d">`, i)
	}
	b.WriteString(`<input type="hidden" name="h"><input disabled name="d">`)

	doc := load(t, b.String())
	det := New(Options{MaxInputs: 100})

	assert.Len(t, det.GetInputs(doc, doc.Body, nil, false), 100)
}

func TestGetInputs_UnknownTypeIsText(t *testing.T) {
	doc := load(t, `<input name="odd" type="foo"><input name="box" type="checkbox">`)

	got := New(DefaultOptions()).GetInputs(doc, doc.Body, nil, false)

	assert.Equal(t, []string{"odd"}, names(got))
	assert.Equal(t, "text", got[0].InputType)
}
