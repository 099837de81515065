package dom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<div id="root">
  <button data-testid="btn" class="btn primary">Go</button>
  <div data-testid="icon" data-bill-url="http://localhost/a.jpg"></div>
  <div data-testid="icon" data-bill-url="http://localhost/b.jpg"></div>
  <div id="modal" class="modal"><div class="modal-body">old</div></div>
</div>`

func newPage(t *testing.T) *Document {
	t.Helper()
	doc := NewDocument()
	require.NoError(t, doc.SetBodyHTML(page))
	return doc
}

func TestQueries(t *testing.T) {
	doc := newPage(t)

	require.NotNil(t, doc.GetElementByID("root"))
	assert.Nil(t, doc.GetElementByID("missing"))

	icons := doc.GetAllByTestID("icon")
	require.Len(t, icons, 2)
	assert.Equal(t, "http://localhost/a.jpg", icons[0].Data("bill-url"))
	assert.Equal(t, "http://localhost/b.jpg", icons[1].Data("bill-url"))

	btn := doc.GetByTestID("btn")
	require.NotNil(t, btn)
	assert.Equal(t, "button", btn.Tag())
	assert.Equal(t, "Go", btn.TextContent())
	assert.True(t, btn.HasClass("primary"))
	assert.False(t, btn.HasClass("prim"))
}

func TestClassAndAttributeEdits(t *testing.T) {
	doc := newPage(t)
	modal := doc.GetElementByID("modal")

	modal.AddClass("show")
	modal.AddClass("show")
	v, _ := modal.GetAttribute("class")
	assert.Equal(t, "modal show", v)

	modal.RemoveClass("modal")
	assert.False(t, modal.HasClass("modal"))
	assert.True(t, modal.HasClass("show"))

	modal.SetAttribute("style", "display: block;")
	modal.SetAttribute("style", "display: none;")
	style, ok := modal.GetAttribute("style")
	assert.True(t, ok)
	assert.Equal(t, "display: none;", style)

	modal.RemoveAttribute("style")
	_, ok = modal.GetAttribute("style")
	assert.False(t, ok)
}

func TestSetInnerHTML(t *testing.T) {
	doc := newPage(t)
	body := doc.GetElementByID("modal").FindByClass("modal-body")
	require.NotNil(t, body)

	require.NoError(t, body.SetInnerHTML(`<img width="400" src="x.jpg" alt="Bill"/>`))
	assert.Contains(t, body.InnerHTML(), `src="x.jpg"`)
	assert.NotContains(t, body.InnerHTML(), "old")
	assert.Contains(t, doc.HTML(), `alt="Bill"`)
}

func TestOuterHTML(t *testing.T) {
	doc := newPage(t)
	modal := doc.GetElementByID("modal")
	modal.AddClass("show")
	out := modal.OuterHTML()
	assert.True(t, strings.HasPrefix(out, `<div id="modal" class="modal show">`))
	assert.Contains(t, out, `<div class="modal-body">old</div>`)
}

func TestAppendHTML(t *testing.T) {
	doc := NewDocument()
	el, err := doc.Body().AppendHTML(`<div id="late" class="modal"></div>`)
	require.NoError(t, err)
	require.NotNil(t, el)
	assert.Equal(t, "late", el.ID())
	assert.NotNil(t, doc.GetElementByID("late"))
}

func TestEventListeners(t *testing.T) {
	doc := newPage(t)
	btn := doc.GetByTestID("btn")

	var clicks []string
	removeA := btn.AddEventListener("click", func(target *Element) { clicks = append(clicks, "a:"+target.Tag()) })
	btn.AddEventListener("click", func(*Element) { clicks = append(clicks, "b") })
	btn.AddEventListener("focus", func(*Element) { clicks = append(clicks, "focus") })

	btn.Click()
	assert.Equal(t, []string{"a:button", "b"}, clicks)
	assert.Equal(t, 2, btn.ListenerCount("click"))

	removeA()
	removeA()
	clicks = nil
	btn.Click()
	assert.Equal(t, []string{"b"}, clicks)

	assert.Equal(t, 1, btn.Dispatch("focus"))
	assert.Equal(t, 0, btn.Dispatch("blur"))
}

func TestReplacingBodyDropsListeners(t *testing.T) {
	doc := newPage(t)
	old := doc.GetByTestID("btn")
	called := 0
	old.AddEventListener("click", func(*Element) { called++ })

	require.NoError(t, doc.SetBodyHTML(page))
	assert.Equal(t, 0, old.ListenerCount("click"))
	old.Click()
	assert.Equal(t, 0, called)

	fresh := doc.GetByTestID("btn")
	assert.Equal(t, 0, fresh.ListenerCount("click"))
}
