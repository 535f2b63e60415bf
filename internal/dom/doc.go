/*
Package dom models the host page the desktop runs in.

It provides the small slice of a browser document the window manager
needs: an element tree with attributes, classes and a typed style, event
dispatch with bubbling, pointer capture, and a weak side-table that
associates controller objects with elements.

All methods must be called from the page's loop goroutine (see package
loop); the only exception is the Instances registry, which is safe for
concurrent use because garbage-collection cleanups run elsewhere.

Example usage:

	doc := dom.NewDocument(1280, 800, loop.NewVirtual(time.Now()))
	el := doc.CreateElement("div")
	doc.Body().AppendChild(el)
	el.On("window:created", func(ev *dom.Event) { ... })
	dom.Emit(el, "window:created", detail)
*/
package dom
