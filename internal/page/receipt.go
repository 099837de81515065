package page

import (
	"fmt"
	"html"

	"billed/internal/bills"
	"billed/internal/dom"
)

// ReceiptModal returns the receipt modal as a click on an eye icon tagged with
// fileURL leaves it: receipt injected and modal shown. The markup replaces
// the page's #modaleFile.
func (p *BillsPage) ReceiptModal(fileURL string) (string, error) {
	doc, err := p.modalDocument()
	if err != nil {
		return "", err
	}
	icon, err := doc.Body().AppendHTML(`<div data-testid="` + bills.TestIDIconEye +
		`" data-bill-url="` + html.EscapeString(fileURL) + `"></div>`)
	if err != nil || icon == nil {
		return "", fmt.Errorf("build receipt icon: %w", err)
	}

	opts := p.opts
	opts.Document = doc
	c := bills.New(opts)
	defer c.Dispose()
	icon.Click()

	return doc.GetElementByID(bills.ModalID).OuterHTML(), nil
}

// ClosedReceiptModal returns the empty, hidden receipt modal.
func (p *BillsPage) ClosedReceiptModal() (string, error) {
	doc, err := p.modalDocument()
	if err != nil {
		return "", err
	}
	modal := doc.GetElementByID(bills.ModalID)
	bills.DOMModal{}.Hide(modal)
	return modal.OuterHTML(), nil
}

func (p *BillsPage) modalDocument() (*dom.Document, error) {
	markup, err := p.renderer.RenderModal()
	if err != nil {
		return nil, err
	}
	doc := dom.NewDocument()
	if err := doc.SetBodyHTML(markup); err != nil {
		return nil, fmt.Errorf("mount receipt modal: %w", err)
	}
	if doc.GetElementByID(bills.ModalID) == nil {
		return nil, fmt.Errorf("receipt modal template lacks #%s", bills.ModalID)
	}
	return doc, nil
}
