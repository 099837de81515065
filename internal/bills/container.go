// Package bills implements the container behind the employee bills page:
// it loads bills from the store, prepares them for display and wires the
// page's new-bill button and receipt preview icons.
package bills

import (
	"context"

	"billed/internal/core"
	"billed/internal/dom"
	"billed/internal/log"
	"billed/internal/routes"
	"billed/internal/session"
	"billed/internal/store"
)

const (
	// ModalID is the id of the receipt preview modal.
	ModalID = "modaleFile"

	TestIDNewBill = "btn-new-bill"
	TestIDIconEye = "icon-eye"

	// DefaultModalWidth stands in for the rendered modal width in pixels.
	DefaultModalWidth = 800
)

// Options configures a Container. Every field is optional.
type Options struct {
	Document   *dom.Document
	OnNavigate func(route string)
	Store      store.Store
	Session    session.Storage
	Modal      ModalPresenter
	Logger     *log.Logger
	// ModalWidth is the modal width in pixels; the receipt image takes half.
	ModalWidth int
}

// Container is the bills page controller. It keeps no bill state between loads.
type Container struct {
	doc        *dom.Document
	onNavigate func(string)
	store      store.Store
	session    session.Storage
	modal      ModalPresenter
	logger     *log.Logger
	modalWidth int
	unbind     func()
}

// New builds a container and binds the page handlers when a document is given.
func New(opts Options) *Container {
	c := &Container{
		doc:        opts.Document,
		onNavigate: opts.OnNavigate,
		store:      opts.Store,
		session:    opts.Session,
		modal:      opts.Modal,
		logger:     opts.Logger,
		modalWidth: opts.ModalWidth,
	}
	if c.modal == nil {
		c.modal = DOMModal{}
	}
	if c.logger == nil {
		c.logger = log.Default().WithComponent(log.ComponentBills)
	}
	if c.modalWidth <= 0 {
		c.modalWidth = DefaultModalWidth
	}
	if c.doc != nil {
		c.Bind()
	}
	return c
}

// Load fetches the bills of the current user, normalized and most recent first.
// Without a store it returns an empty list. Store errors are returned as is.
func (c *Container) Load(ctx context.Context) ([]core.DisplayBill, error) {
	if c.store == nil {
		return []core.DisplayBill{}, nil
	}
	if u, ok := session.CurrentUser(c.session); ok {
		ctx = core.WithUser(ctx, u)
	}

	raw, err := c.store.Bills().List(ctx)
	if err != nil {
		c.logger.ErrorContext(ctx, "Bills list failed", log.FieldOperation, log.OpList, log.FieldError, err)
		return nil, err
	}

	out := make([]core.DisplayBill, 0, len(raw))
	for _, b := range raw {
		n := core.Normalize(b)
		if n.Outcome == core.DateFallback {
			c.logger.DebugContext(ctx, "Bill date kept unformatted",
				log.FieldBillID, b.ID, log.FieldBillDate, b.Date, log.FieldError, n.DateErr)
		}
		if !n.KnownStatus {
			c.logger.WarnContext(ctx, "Unknown bill status",
				log.FieldBillID, b.ID, log.FieldBillStatus, string(b.Status))
		}
		out = append(out, n.Bill)
	}
	sorted := core.SortByDateDesc(out)
	c.logger.DebugContext(ctx, "Bills loaded", log.FieldOperation, log.OpList, log.FieldCount, len(sorted))
	return sorted, nil
}

// HandleClickNewBill navigates to the new-bill form.
func (c *Container) HandleClickNewBill() {
	if c.onNavigate == nil {
		c.logger.Warn("New bill clicked without navigation callback")
		return
	}
	c.onNavigate(routes.NewBill)
}

// HandleClickIconEye shows the receipt referenced by icon in the preview modal.
// A missing URL still opens the modal, with an empty image.
func (c *Container) HandleClickIconEye(icon *dom.Element) {
	var url string
	if icon != nil {
		url = icon.Data("bill-url")
	}
	doc := c.doc
	if doc == nil {
		doc = dom.NewDocument()
		c.doc = doc
	}

	modal := doc.GetElementByID(ModalID)
	if modal == nil {
		var err error
		modal, err = doc.Body().AppendHTML(emptyModalMarkup)
		if err != nil || modal == nil {
			c.logger.Error("Receipt modal could not be created", log.FieldError, err)
			return
		}
	}

	target := modal.FindByClass("modal-body")
	if target == nil {
		target = modal
	}
	if err := target.SetInnerHTML(ReceiptMarkup(url, c.modalWidth/2)); err != nil {
		c.logger.Error("Receipt markup rejected", log.FieldError, err)
	}
	c.modal.Show(modal)
}

// Bind attaches the click handlers to the elements currently in the document,
// replacing any earlier binding. Call it again after each render.
func (c *Container) Bind() (dispose func()) {
	c.Dispose()
	if c.doc == nil {
		return func() {}
	}

	var removers []func()
	if btn := c.doc.GetByTestID(TestIDNewBill); btn != nil {
		removers = append(removers, btn.AddEventListener("click", func(*dom.Element) {
			c.HandleClickNewBill()
		}))
	}
	for _, icon := range c.doc.GetAllByTestID(TestIDIconEye) {
		removers = append(removers, icon.AddEventListener("click", c.HandleClickIconEye))
	}

	dispose = func() {
		for _, remove := range removers {
			remove()
		}
	}
	c.unbind = dispose
	return dispose
}

// Dispose detaches every handler bound by Bind.
func (c *Container) Dispose() {
	if c.unbind != nil {
		c.unbind()
		c.unbind = nil
	}
}
