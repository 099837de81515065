package dom

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Element is a handle on an element node of a Document.
type Element struct {
	doc  *Document
	node *html.Node
}

// Tag returns the lower-case tag name.
func (e *Element) Tag() string {
	return e.node.Data
}

// ID returns the id attribute.
func (e *Element) ID() string {
	v, _ := attr(e.node, "id")
	return v
}

// GetAttribute returns the attribute value and whether it is present.
func (e *Element) GetAttribute(name string) (string, bool) {
	return attr(e.node, name)
}

// SetAttribute adds or replaces an attribute.
func (e *Element) SetAttribute(name, value string) {
	for i, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

// RemoveAttribute deletes an attribute if present.
func (e *Element) RemoveAttribute(name string) {
	for i, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			e.node.Attr = append(e.node.Attr[:i], e.node.Attr[i+1:]...)
			return
		}
	}
}

// Data reads a data-* attribute, e.g. Data("bill-url") for data-bill-url.
func (e *Element) Data(key string) string {
	v, _ := attr(e.node, "data-"+key)
	return v
}

// HasClass reports whether class is in the class list.
func (e *Element) HasClass(class string) bool {
	return hasClass(class)(e.node)
}

// AddClass appends class to the class list unless already present.
func (e *Element) AddClass(class string) {
	if e.HasClass(class) {
		return
	}
	v, _ := attr(e.node, "class")
	e.SetAttribute("class", strings.TrimSpace(v+" "+class))
}

// RemoveClass drops class from the class list.
func (e *Element) RemoveClass(class string) {
	v, ok := attr(e.node, "class")
	if !ok {
		return
	}
	kept := make([]string, 0)
	for _, c := range strings.Fields(v) {
		if c != class {
			kept = append(kept, c)
		}
	}
	e.SetAttribute("class", strings.Join(kept, " "))
}

// FindByClass returns the first descendant carrying class, or nil.
func (e *Element) FindByClass(class string) *Element {
	match := hasClass(class)
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if n := findFirst(c, match); n != nil {
			return e.doc.wrap(n)
		}
	}
	return nil
}

// TextContent concatenates the text of all descendants.
func (e *Element) TextContent() string {
	var sb strings.Builder
	walk(e.node, func(n *html.Node) bool {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		return false
	})
	return sb.String()
}

// InnerHTML serializes the element's children.
func (e *Element) InnerHTML() string {
	var buf bytes.Buffer
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return buf.String()
		}
	}
	return buf.String()
}

// OuterHTML serializes the element itself, children included.
func (e *Element) OuterHTML() string {
	var buf bytes.Buffer
	_ = html.Render(&buf, e.node)
	return buf.String()
}

// SetInnerHTML parses markup in the element's context and replaces its children.
func (e *Element) SetInnerHTML(markup string) error {
	nodes, err := html.ParseFragment(strings.NewReader(markup), e.node)
	if err != nil {
		return fmt.Errorf("parse fragment into <%s>: %w", e.node.Data, err)
	}
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		e.doc.forget(c)
		c = next
	}
	for _, n := range nodes {
		e.node.AppendChild(n)
	}
	return nil
}

// AppendHTML parses markup and appends the resulting nodes, returning the
// first appended element.
func (e *Element) AppendHTML(markup string) (*Element, error) {
	nodes, err := html.ParseFragment(strings.NewReader(markup), e.node)
	if err != nil {
		return nil, fmt.Errorf("parse fragment into <%s>: %w", e.node.Data, err)
	}
	var first *Element
	for _, n := range nodes {
		e.node.AppendChild(n)
		if first == nil && n.Type == html.ElementNode {
			first = e.doc.wrap(n)
		}
	}
	return first, nil
}

// AddEventListener registers fn for event and returns a function removing it.
func (e *Element) AddEventListener(event string, fn Handler) (remove func()) {
	return e.doc.addListener(e.node, event, fn)
}

// Dispatch runs the listeners registered for event and returns how many ran.
func (e *Element) Dispatch(event string) int {
	ls := append([]listener(nil), e.doc.listeners[e.node]...)
	ran := 0
	for _, l := range ls {
		if l.event == event {
			l.fn(e)
			ran++
		}
	}
	return ran
}

// Click dispatches a click event.
func (e *Element) Click() {
	e.Dispatch("click")
}

// ListenerCount returns the number of listeners registered for event.
func (e *Element) ListenerCount(event string) int {
	n := 0
	for _, l := range e.doc.listeners[e.node] {
		if l.event == event {
			n++
		}
	}
	return n
}
