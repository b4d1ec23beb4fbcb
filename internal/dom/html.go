package dom

import (
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"credmask/pkg/apperr"
)

// Options controls the approximate layout used for static documents.
type Options struct {
	URL         string
	Viewport    Size
	FieldWidth  float64
	FieldHeight float64
}

func DefaultOptions() Options {
	return Options{
		Viewport:    Size{Width: 1280, Height: 720},
		FieldWidth:  200,
		FieldHeight: 24,
	}
}

// listed form-associated elements, as HTMLFormElement.elements reports them.
var listedElements = map[string]bool{
	"BUTTON":   true,
	"FIELDSET": true,
	"INPUT":    true,
	"OBJECT":   true,
	"OUTPUT":   true,
	"SELECT":   true,
	"TEXTAREA": true,
}

// inputTypeStates are the type keywords HTMLInputElement.type reflects.
var inputTypeStates = map[string]bool{
	"button":         true,
	"checkbox":       true,
	"color":          true,
	"date":           true,
	"datetime-local": true,
	"email":          true,
	"file":           true,
	"hidden":         true,
	"image":          true,
	"month":          true,
	"number":         true,
	"password":       true,
	"radio":          true,
	"range":          true,
	"reset":          true,
	"search":         true,
	"submit":         true,
	"tel":            true,
	"text":           true,
	"time":           true,
	"url":            true,
	"week":           true,
}

// inputType mirrors the type a browser reports: missing, empty and unknown
// values are the text state.
func inputType(attr string) string {
	attr = strings.TrimSpace(attr)
	if inputTypeStates[attr] {
		return attr
	}

	return "text"
}

var flowElements = map[string]bool{
	"BUTTON":   true,
	"INPUT":    true,
	"SELECT":   true,
	"TEXTAREA": true,
}

// ParseHTML builds a Document from static markup. There is no rendering
// engine behind it: geometry comes from a single-column flow where every
// control takes one row, overridden by inline px width/height/left/top.
// display:none zeroes the box of an element and everything below it.
// Computed visibility is the nearest inline visibility declaration.
// A <template shadowrootmode> child becomes its parent's shadow root.
func ParseHTML(r io.Reader, opts Options) (*Document, error) {
	const op = "ParseHTML"

	root, err := html.Parse(r)
	if err != nil {
		return nil, apperr.Wrap(op, apperr.CodeInvalidArgument, err, map[string]any{
			apperr.MetaReason: "html_parse_failed",
			apperr.MetaStage:  apperr.StageParse,
		})
	}

	if opts.Viewport.Width <= 0 || opts.Viewport.Height <= 0 {
		opts.Viewport = DefaultOptions().Viewport
	}
	if opts.FieldWidth <= 0 {
		opts.FieldWidth = DefaultOptions().FieldWidth
	}
	if opts.FieldHeight <= 0 {
		opts.FieldHeight = DefaultOptions().FieldHeight
	}

	b := &htmlBuilder{opts: opts}

	var docElement *Node
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			docElement = b.convert(c, nil, layoutState{visibility: "visible"}, false)
			break
		}
	}

	if docElement == nil {
		return nil, apperr.WrapErrorWithReason(op, apperr.CodeInvalidArgument, "no_document_element")
	}

	b.resolveFormAttributes()

	doc := &Document{
		URL:    opts.URL,
		Extent: Size{Width: opts.Viewport.Width, Height: math.Max(opts.Viewport.Height, b.cursor)},
		Root:   docElement,
		Body:   b.body,
		Forms:  b.forms,
	}

	if doc.Body == nil {
		return nil, apperr.WrapErrorWithReason(op, apperr.CodeInvalidArgument, "no_body")
	}

	for _, f := range doc.Forms {
		f.Elements = nil
	}
	for _, n := range b.listed {
		if n.Form != nil {
			n.Form.Elements = append(n.Form.Elements, n)
		}
	}

	doc.index(doc.Root)

	return doc, nil
}

type htmlBuilder struct {
	opts   Options
	nextID NodeID
	cursor float64
	body   *Node
	forms  []*Node
	listed []*Node
	// form="id" references, resolved once every form is known.
	formRefs map[*Node]string
	formByID map[string]*Node
}

type layoutState struct {
	visibility string
	hidden     bool
	form       *Node
}

func (b *htmlBuilder) convert(hn *html.Node, parent *Node, st layoutState, inShadow bool) *Node {
	b.nextID++

	n := &Node{
		ID:     b.nextID,
		Type:   ElementNode,
		Name:   strings.ToUpper(hn.Data),
		Parent: parent,
		Size:   20,
	}

	for _, a := range hn.Attr {
		n.Attrs = append(n.Attrs, Attr{Name: strings.ToLower(a.Key), Value: a.Val})
	}

	if class, ok := n.Attr("class"); ok {
		n.Classes = strings.Fields(class)
	}

	if n.Name == "INPUT" {
		t, _ := n.LowerAttr("type")
		n.InputType = inputType(t)
	}

	_, n.Disabled = n.Attr("disabled")
	_, n.ReadOnly = n.Attr("readonly")

	if v, ok := n.Attr("size"); ok {
		if size, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			n.Size = size
		}
	}

	decls := map[string]string{}
	if style, ok := n.Attr("style"); ok {
		decls = parseStyle(style)
	}

	n.Style.Color = decls["color"]
	n.Style.Opacity = normalizeNumber(decls["opacity"])

	if v, ok := decls["visibility"]; ok {
		st.visibility = strings.ToLower(v)
	}
	n.Visibility = st.visibility

	if strings.EqualFold(decls["display"], "none") {
		st.hidden = true
	}

	b.layout(n, decls, st.hidden)

	switch {
	case n.Name == "BODY" && b.body == nil:
		b.body = n
	case n.Name == "FORM" && !inShadow:
		b.forms = append(b.forms, n)
		if id, ok := n.Attr("id"); ok {
			b.registerFormID(id, n)
		}
	}

	if listedElements[n.Name] {
		n.Form = st.form
		if ref, ok := n.Attr("form"); ok {
			if b.formRefs == nil {
				b.formRefs = make(map[*Node]string)
			}
			b.formRefs[n] = ref
		}
		if !inShadow {
			b.listed = append(b.listed, n)
		}
	}

	if n.Name == "FORM" {
		st.form = n
	}

	for c := hn.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}

		if isShadowTemplate(c) && n.Shadow == nil {
			n.Shadow = []*Node{}
			// Form association does not cross the shadow boundary.
			shadowState := st
			shadowState.form = nil
			for sc := c.FirstChild; sc != nil; sc = sc.NextSibling {
				if sc.Type == html.ElementNode {
					n.Shadow = append(n.Shadow, b.convert(sc, n, shadowState, true))
				}
			}
			continue
		}

		n.Children = append(n.Children, b.convert(c, n, st, inShadow))
	}

	return n
}

func (b *htmlBuilder) layout(n *Node, decls map[string]string, hidden bool) {
	if hidden {
		n.Rect = Rect{}
		return
	}

	n.Rect = Rect{X: 0, Y: b.cursor, Width: b.opts.Viewport.Width, Height: b.opts.FieldHeight}

	if flowElements[n.Name] {
		n.Rect.Width = b.opts.FieldWidth
	}

	if v, ok := pixels(decls["width"]); ok {
		n.Rect.Width = v
	}
	if v, ok := pixels(decls["height"]); ok {
		n.Rect.Height = v
	}
	if v, ok := pixels(decls["left"]); ok {
		n.Rect.X = v
	}
	if v, ok := pixels(decls["top"]); ok {
		n.Rect.Y = v
		return
	}

	if flowElements[n.Name] {
		b.cursor += n.Rect.Height
	}
}

func (b *htmlBuilder) registerFormID(id string, form *Node) {
	if b.formByID == nil {
		b.formByID = make(map[string]*Node)
	}
	if _, taken := b.formByID[id]; !taken {
		b.formByID[id] = form
	}
}

func (b *htmlBuilder) resolveFormAttributes() {
	for n, ref := range b.formRefs {
		n.Form = b.formByID[ref]
	}
}

func isShadowTemplate(hn *html.Node) bool {
	if hn.Data != "template" {
		return false
	}

	for _, a := range hn.Attr {
		if a.Key == "shadowrootmode" || a.Key == "shadowroot" {
			return strings.EqualFold(a.Val, "open")
		}
	}

	return false
}

func pixels(v string) (float64, bool) {
	v = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "px"))
	if v == "" {
		return 0, false
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}

	return f, true
}

// normalizeNumber serialises numeric values the way CSSOM does ("0.0" -> "0").
func normalizeNumber(v string) string {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return v
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}
