package bills

import (
	"fmt"
	"html"

	"billed/internal/dom"
)

// ModalPresenter opens and closes an overlay element.
type ModalPresenter interface {
	Show(modal *dom.Element)
}

// DOMModal toggles the bootstrap-style "show" state on the modal element.
type DOMModal struct{}

func (DOMModal) Show(modal *dom.Element) {
	modal.AddClass("show")
	modal.SetAttribute("style", "display: block;")
	modal.SetAttribute("aria-hidden", "false")
}

func (DOMModal) Hide(modal *dom.Element) {
	modal.RemoveClass("show")
	modal.SetAttribute("style", "display: none;")
	modal.SetAttribute("aria-hidden", "true")
}

const emptyModalMarkup = `<div class="modal fade" id="` + ModalID + `" data-testid="` + ModalID + `" tabindex="-1" role="dialog" aria-hidden="true">` +
	`<div class="modal-dialog modal-dialog-centered modal-lg" role="document"><div class="modal-content">` +
	`<div class="modal-header"><h5 class="modal-title">Justificatif</h5></div>` +
	`<div class="modal-body"></div></div></div></div>`

// ReceiptMarkup is the image fragment shown in the receipt modal.
func ReceiptMarkup(fileURL string, width int) string {
	if width < 0 {
		width = 0
	}
	return fmt.Sprintf(`<div style="text-align: center;" class="bill-proof-container"><img width="%d" src="%s" alt="Bill"/></div>`,
		width, html.EscapeString(fileURL))
}
