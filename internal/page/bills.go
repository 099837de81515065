// Package page mounts the bills page into a document: it shows the loading
// view, loads the bills and swaps in the error or data view.
package page

import (
	"context"
	"fmt"

	"billed/internal/bills"
	"billed/internal/dom"
	"billed/internal/log"
	"billed/internal/view"
)

// RootID is the element the page renders into. Pages without it render into body.
const RootID = "root"

// BillsPage drives one bills container per mount.
type BillsPage struct {
	renderer *view.Renderer
	opts     bills.Options
	logger   *log.Logger
}

// NewBillsPage returns a page rendering with r. opts.Document is ignored;
// the document is supplied to Mount.
func NewBillsPage(r *view.Renderer, opts bills.Options) *BillsPage {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default().WithComponent(log.ComponentPage)
	}
	opts.Document = nil
	return &BillsPage{renderer: r, opts: opts, logger: logger}
}

// Mount renders the page into doc and returns its bound container.
// When loading fails the error view is shown and the store error is returned
// along with the container.
func (p *BillsPage) Mount(ctx context.Context, doc *dom.Document) (*bills.Container, error) {
	if err := p.show(doc, view.State{Loading: true}); err != nil {
		return nil, err
	}

	opts := p.opts
	opts.Document = doc
	c := bills.New(opts)

	data, err := c.Load(ctx)
	if err != nil {
		if rerr := p.show(doc, view.ErrorState(err)); rerr != nil {
			return c, rerr
		}
		return c, err
	}

	if err := p.show(doc, view.State{Data: data}); err != nil {
		return c, err
	}
	c.Bind()
	p.logger.DebugContext(ctx, "Bills page mounted", log.FieldOperation, log.OpRender, log.FieldCount, len(data))
	return c, nil
}

func (p *BillsPage) show(doc *dom.Document, s view.State) error {
	markup, err := p.renderer.Render(s)
	if err != nil {
		return fmt.Errorf("render bills page: %w", err)
	}
	target := doc.GetElementByID(RootID)
	if target == nil {
		target = doc.Body()
	}
	return target.SetInnerHTML(markup)
}
