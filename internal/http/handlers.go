package http

import (
	"bytes"
	"fmt"
	"net/http"

	"billed/internal/bills"
	"billed/internal/dom"
	"billed/internal/log"
	"billed/internal/middleware/security"
	"billed/internal/page"
	"billed/internal/routes"
	"billed/internal/view"
)

// handleBills renders the bills page of the cookie user. Store failures
// render the error view with 502.
func (s *Server) handleBills(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	storage, user, ok := sessionFromRequest(r)
	if !ok {
		s.writeError(w, http.StatusUnauthorized)
		return
	}

	var shell bytes.Buffer
	if err := s.renderer.RenderPage(&shell, view.State{Loading: true}); err != nil {
		log.NewStructuredLogger(logger).LogError(ctx, "Bills page shell failed", err, log.ComponentTemplate, log.OpRender, log.NewFields())
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	doc, err := dom.Parse(shell.String())
	if err != nil {
		logger.ErrorContext(ctx, "Bills page shell unparseable", log.FieldError, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	p := page.NewBillsPage(s.renderer, bills.Options{
		Store:      s.store,
		Session:    storage,
		Logger:     logger,
		ModalWidth: s.modalWidth,
	})
	_, loadErr := p.Mount(ctx, doc)

	status := http.StatusOK
	if loadErr != nil {
		status = http.StatusBadGateway
	} else {
		log.NewStructuredLogger(logger).LogBillsServed(ctx, user.Email, len(doc.GetAllByTestID("bill-row")))
	}
	writeHTML(w, status, doc.HTML())
}

// handleReceipt returns the receipt modal, shown, for the page to swap in.
func (s *Server) handleReceipt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	fileURL := r.URL.Query().Get("url")
	if !security.SafeImageURL(fileURL) {
		logger.WarnContext(ctx, "Rejected receipt URL", log.FieldOperation, log.OpPreview, "url", fileURL)
		http.Error(w, "invalid receipt url", http.StatusBadRequest)
		return
	}

	markup, err := s.partialPage(logger).ReceiptModal(fileURL)
	if err != nil {
		logger.ErrorContext(ctx, "Receipt modal failed", log.FieldOperation, log.OpPreview, log.FieldError, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, http.StatusOK, markup)
}

// handleReceiptClose returns the hidden, empty receipt modal.
func (s *Server) handleReceiptClose(w http.ResponseWriter, r *http.Request) {
	markup, err := s.partialPage(log.FromContext(r.Context())).ClosedReceiptModal()
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Closing receipt modal failed", log.FieldError, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, http.StatusOK, markup)
}

// handleNewBill is the new-bill button target. htmx requests get an
// HX-Redirect to the new-bill route, plain ones a 303.
func (s *Server) handleNewBill(w http.ResponseWriter, r *http.Request) {
	var target string
	c := bills.New(bills.Options{
		Logger:     log.FromContext(r.Context()),
		OnNavigate: func(route string) { target = routes.Href(route) },
	})
	c.HandleClickNewBill()

	log.FromContext(r.Context()).InfoContext(r.Context(), "New bill requested",
		log.FieldOperation, log.OpNavigate, "target", target)
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) partialPage(logger *log.Logger) *page.BillsPage {
	return page.NewBillsPage(s.renderer, bills.Options{Logger: logger, ModalWidth: s.modalWidth})
}

func (s *Server) writeError(w http.ResponseWriter, status int) {
	var buf bytes.Buffer
	if err := s.renderer.RenderPage(&buf, view.State{Error: fmt.Sprintf("Erreur %d", status)}); err != nil {
		http.Error(w, http.StatusText(status), status)
		return
	}
	writeHTML(w, status, buf.String())
}

func writeHTML(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
