package dom

import (
	"slices"

	"github.com/yourusername/webdesk/internal/types"
)

// Style is the subset of presentation state the desktop manipulates
type Style struct {
	Left         float64
	Top          float64
	Width        float64
	Height       float64
	ZIndex       int
	Opacity      float64
	Scale        float64
	Interactive  bool // pointer-events
	BorderRadius float64
	Transition   bool
	Hidden       bool // display: none
}

// DefaultStyle is the style of a freshly created element
func DefaultStyle() Style {
	return Style{Opacity: 1, Scale: 1, Interactive: true, Transition: true}
}

// Element is a node in the page tree
type Element struct {
	doc        *Document
	tag        string
	id         string
	classes    []string
	attrs      map[string]string
	text       string
	positioned bool
	parent     *Element
	children   []*Element
	listeners  map[string][]*listener

	// controllers are owned by the node so they never outlive it;
	// guarded by instancesMu
	controllers map[*Registry]any

	Style Style
}

// Tag returns the element's tag name
func (e *Element) Tag() string { return e.tag }

// ID returns the id attribute
func (e *Element) ID() string { return e.id }

// SetID sets the id attribute
func (e *Element) SetID(id string) { e.id = id }

// OwnerDocument returns the document that created the element
func (e *Element) OwnerDocument() *Document { return e.doc }

// Attr returns an attribute value
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// SetAttr sets an attribute value
func (e *Element) SetAttr(name, value string) {
	if e.attrs == nil {
		e.attrs = make(map[string]string)
	}
	e.attrs[name] = value
}

// RemoveAttr deletes an attribute
func (e *Element) RemoveAttr(name string) {
	delete(e.attrs, name)
}

// Data returns a data-* attribute, or "" when absent
func (e *Element) Data(key string) string {
	return e.attrs["data-"+key]
}

// SetData sets a data-* attribute
func (e *Element) SetData(key, value string) {
	e.SetAttr("data-"+key, value)
}

// HasClass reports whether the class list contains class
func (e *Element) HasClass(class string) bool {
	return slices.Contains(e.classes, class)
}

// AddClass adds classes that are not already present
func (e *Element) AddClass(classes ...string) {
	for _, c := range classes {
		if !e.HasClass(c) {
			e.classes = append(e.classes, c)
		}
	}
}

// RemoveClass removes a class
func (e *Element) RemoveClass(class string) {
	e.classes = slices.DeleteFunc(e.classes, func(c string) bool { return c == class })
}

// ToggleClass adds or removes class depending on on
func (e *Element) ToggleClass(class string, on bool) {
	if on {
		e.AddClass(class)
	} else {
		e.RemoveClass(class)
	}
}

// Classes returns a copy of the class list
func (e *Element) Classes() []string {
	return slices.Clone(e.classes)
}

// Text returns the element's own text content
func (e *Element) Text() string { return e.text }

// SetText replaces the element's own text content
func (e *Element) SetText(s string) { e.text = s }

// Positioned reports whether the element establishes a positioning context
func (e *Element) Positioned() bool { return e.positioned }

// SetPositioned marks the element as a positioning context for descendants
func (e *Element) SetPositioned(on bool) { e.positioned = on }

// Parent returns the parent element
func (e *Element) Parent() *Element { return e.parent }

// Children returns a copy of the child list
func (e *Element) Children() []*Element {
	return slices.Clone(e.children)
}

// AppendChild moves c to the end of e's children
func (e *Element) AppendChild(c *Element) {
	if c == nil || c == e {
		return
	}
	c.Remove()
	c.parent = e
	e.children = append(e.children, c)
}

// PrependChild moves c to the start of e's children
func (e *Element) PrependChild(c *Element) {
	if c == nil || c == e {
		return
	}
	c.Remove()
	c.parent = e
	e.children = append([]*Element{c}, e.children...)
}

// RemoveChildren detaches every child
func (e *Element) RemoveChildren() {
	for _, c := range e.children {
		c.parent = nil
	}
	e.children = nil
}

// Remove detaches e from its parent
func (e *Element) Remove() {
	if e.parent == nil {
		return
	}
	p := e.parent
	p.children = slices.DeleteFunc(p.children, func(c *Element) bool { return c == e })
	e.parent = nil
}

// Contains reports whether other is e or one of its descendants
func (e *Element) Contains(other *Element) bool {
	for n := other; n != nil; n = n.parent {
		if n == e {
			return true
		}
	}
	return false
}

// Connected reports whether e is attached to its document's body
func (e *Element) Connected() bool {
	return e.doc != nil && e.doc.body.Contains(e)
}

// Closest returns e or its nearest ancestor matching match
func (e *Element) Closest(match func(*Element) bool) *Element {
	for n := e; n != nil; n = n.parent {
		if match(n) {
			return n
		}
	}
	return nil
}

// Find returns the first descendant (pre-order) matching match
func (e *Element) Find(match func(*Element) bool) *Element {
	for _, c := range e.children {
		if match(c) {
			return c
		}
		if found := c.Find(match); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every descendant matching match in pre-order
func (e *Element) FindAll(match func(*Element) bool) []*Element {
	var out []*Element
	for _, c := range e.children {
		if match(c) {
			out = append(out, c)
		}
		out = append(out, c.FindAll(match)...)
	}
	return out
}

// ByClass returns the first descendant carrying class
func (e *Element) ByClass(class string) *Element {
	return e.Find(HasClass(class))
}

// HasClass returns a matcher for Find and Closest
func HasClass(class string) func(*Element) bool {
	return func(el *Element) bool { return el.HasClass(class) }
}

// OffsetParent returns the nearest positioned ancestor, or nil when the
// viewport is the positioning context
func (e *Element) OffsetParent() *Element {
	for n := e.parent; n != nil; n = n.parent {
		if n.positioned {
			return n
		}
	}
	return nil
}

// PageRect returns the element's box in page coordinates
func (e *Element) PageRect() types.Rect {
	if e.doc != nil && e == e.doc.body {
		return e.doc.Viewport()
	}

	var originX, originY float64
	if op := e.OffsetParent(); op != nil {
		r := op.PageRect()
		originX, originY = r.X, r.Y
	}
	return types.Rect{
		X:      originX + e.Style.Left,
		Y:      originY + e.Style.Top,
		Width:  e.Style.Width,
		Height: e.Style.Height,
	}
}

// ContainingRect returns the page-coordinate box of e's positioning
// context: its offset parent, or the viewport
func (e *Element) ContainingRect() types.Rect {
	if op := e.OffsetParent(); op != nil {
		return op.PageRect()
	}
	if e.doc != nil {
		return e.doc.Viewport()
	}
	return types.Rect{}
}
