// Package view renders the bills page states from the embedded templates.
package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"net/url"

	"billed/internal/core"
	"billed/internal/routes"
	appweb "billed/web"
)

// State selects what the bills page shows. Loading wins over Error, Error wins over Data.
type State struct {
	Loading bool
	Error   string
	Data    []core.DisplayBill
}

// ErrorState builds the state shown when loading bills failed.
func ErrorState(err error) State {
	msg := "Erreur"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return State{Error: msg}
}

// Partial endpoints the bills page calls through htmx.
const (
	ReceiptEndpoint      = "/ui/bills/receipt"
	ReceiptCloseEndpoint = "/ui/bills/receipt/close"
	NewBillEndpoint      = "/ui/bills/new"
)

// ReceiptPath is the partial endpoint serving the receipt modal of fileURL.
func ReceiptPath(fileURL string) string {
	return ReceiptEndpoint + "?url=" + url.QueryEscape(fileURL)
}

type pageData struct {
	Active       string
	Error        string
	NewBillRoute string
	Rows         []core.DisplayBill
}

// Renderer turns a State into markup.
type Renderer struct {
	templates *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	t, err := template.New("billed").Funcs(template.FuncMap{
		"receiptPath":      ReceiptPath,
		"receiptClosePath": func() string { return ReceiptCloseEndpoint },
		"newBillPath":      func() string { return NewBillEndpoint },
	}).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{templates: t}, nil
}

// Render returns the markup mounted inside the page root.
func (r *Renderer) Render(s State) (string, error) {
	var buf bytes.Buffer
	if err := r.render(&buf, s); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderPage writes a complete HTML document around the state markup.
func (r *Renderer) RenderPage(w io.Writer, s State) error {
	if err := r.templates.ExecuteTemplate(w, "page_start", nil); err != nil {
		return fmt.Errorf("execute page_start: %w", err)
	}
	if err := r.render(w, s); err != nil {
		return err
	}
	if err := r.templates.ExecuteTemplate(w, "page_end", nil); err != nil {
		return fmt.Errorf("execute page_end: %w", err)
	}
	return nil
}

// RenderModal writes the empty receipt modal, used when a page lacks one.
func (r *Renderer) RenderModal() (string, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, "receipt_modal", nil); err != nil {
		return "", fmt.Errorf("execute receipt_modal: %w", err)
	}
	return buf.String(), nil
}

func (r *Renderer) render(w io.Writer, s State) error {
	data := pageData{Active: "bills", NewBillRoute: routes.NewBill}
	name := "bills"
	switch {
	case s.Loading:
		name = "loading"
	case s.Error != "":
		name = "error"
		data.Error = s.Error
	default:
		data.Rows = core.SortByDateDesc(s.Data)
	}
	if err := r.templates.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("execute %s: %w", name, err)
	}
	return nil
}
