// Package dom is a small headless document model on top of golang.org/x/net/html.
//
// It covers what page containers need: querying rendered markup, reading and
// writing attributes, replacing inner HTML and attaching click listeners.
// Events do not bubble; a listener fires only for the element it was added to.
package dom

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Handler receives the element an event was dispatched on.
type Handler func(target *Element)

type listener struct {
	id    uint64
	event string
	fn    Handler
}

// Document owns a parsed node tree and the listeners attached to its nodes.
// It is not safe for concurrent use.
type Document struct {
	root      *html.Node
	listeners map[*html.Node][]listener
	nextID    uint64
}

// NewDocument returns an empty document with html, head and body elements.
func NewDocument() *Document {
	doc, err := Parse("")
	if err != nil {
		// The HTML5 parser accepts any input; an empty string cannot fail.
		panic(err)
	}
	return doc
}

// Parse builds a document from a full or partial HTML page.
func Parse(markup string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &Document{root: root, listeners: make(map[*html.Node][]listener)}, nil
}

// Body returns the body element.
func (d *Document) Body() *Element {
	return d.wrap(findFirst(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.Body
	}))
}

// SetBodyHTML replaces the body content, like assigning document.body.innerHTML.
// Listeners bound to the replaced nodes are dropped.
func (d *Document) SetBodyHTML(markup string) error {
	return d.Body().SetInnerHTML(markup)
}

// GetElementByID returns the first element with the given id, or nil.
func (d *Document) GetElementByID(id string) *Element {
	return d.wrap(findFirst(d.root, hasAttr("id", id)))
}

// GetByTestID returns the first element tagged data-testid=id, or nil.
func (d *Document) GetByTestID(id string) *Element {
	return d.wrap(findFirst(d.root, hasAttr("data-testid", id)))
}

// GetAllByTestID returns every element tagged data-testid=id in document order.
func (d *Document) GetAllByTestID(id string) []*Element {
	return d.wrapAll(findAll(d.root, hasAttr("data-testid", id)))
}

// HTML serializes the whole document.
func (d *Document) HTML() string {
	var buf bytes.Buffer
	if err := html.Render(&buf, d.root); err != nil {
		return ""
	}
	return buf.String()
}

func (d *Document) wrap(n *html.Node) *Element {
	if n == nil {
		return nil
	}
	return &Element{doc: d, node: n}
}

func (d *Document) wrapAll(nodes []*html.Node) []*Element {
	out := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, d.wrap(n))
	}
	return out
}

func (d *Document) addListener(n *html.Node, event string, fn Handler) func() {
	d.nextID++
	id := d.nextID
	d.listeners[n] = append(d.listeners[n], listener{id: id, event: event, fn: fn})
	return func() { d.removeListener(n, id) }
}

func (d *Document) removeListener(n *html.Node, id uint64) {
	ls := d.listeners[n]
	for i, l := range ls {
		if l.id == id {
			ls = append(ls[:i:i], ls[i+1:]...)
			break
		}
	}
	if len(ls) == 0 {
		delete(d.listeners, n)
		return
	}
	d.listeners[n] = ls
}

// forget drops listeners of a detached subtree.
func (d *Document) forget(n *html.Node) {
	walk(n, func(c *html.Node) bool {
		delete(d.listeners, c)
		return false
	})
}

func hasAttr(key, val string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		v, ok := attr(n, key)
		return ok && v == val
	}
}

func hasClass(class string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		v, _ := attr(n, "class")
		for _, c := range strings.Fields(v) {
			if c == class {
				return true
			}
		}
		return false
	}
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// walk visits n and its descendants depth first until visit returns true.
func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if visit(n) {
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if walk(c, visit) {
			return true
		}
	}
	return false
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	var found *html.Node
	walk(n, func(c *html.Node) bool {
		if match(c) {
			found = c
			return true
		}
		return false
	})
	return found
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	walk(n, func(c *html.Node) bool {
		if match(c) {
			out = append(out, c)
		}
		return false
	})
	return out
}
