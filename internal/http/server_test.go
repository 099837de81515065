package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"billed/internal/core"
	"billed/internal/dom"
	"billed/internal/fixtures"
	"billed/internal/store/memory"
)

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	srv, err := NewServer(opts)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

func userCookie(t *testing.T, u core.User) *http.Cookie {
	t.Helper()
	b, err := json.Marshal(u)
	if err != nil {
		t.Fatal(err)
	}
	return &http.Cookie{Name: UserCookie, Value: url.QueryEscape(string(b))}
}

func serve(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestIndexRedirectsToBills(t *testing.T) {
	srv := newTestServer(t, Options{})
	rr := serve(srv, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/bills" {
		t.Fatalf("status=%d location=%q", rr.Code, rr.Header().Get("Location"))
	}
}

func TestHealthAndReady(t *testing.T) {
	srv := newTestServer(t, Options{})
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := serve(srv, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}

	down := newTestServer(t, Options{Ready: func(context.Context) error { return errors.New("db gone") }})
	if rr := serve(down, httptest.NewRequest(http.MethodGet, "/readyz", nil)); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz status=%d", rr.Code)
	}
}

func TestBillsPageForEmployee(t *testing.T) {
	bills := fixtures.Bills()
	bills[3].Email = "other@a"
	srv := newTestServer(t, Options{Store: memory.New(bills)})

	req := httptest.NewRequest(http.MethodGet, "/bills", nil)
	req.AddCookie(userCookie(t, core.User{Type: core.UserTypeEmployee, Email: "a@a"}))
	rr := serve(srv, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("X-Frame-Options") != "DENY" || rr.Header().Get("X-Request-ID") == "" {
		t.Errorf("missing middleware headers: %v", rr.Header())
	}

	doc, err := dom.Parse(rr.Body.String())
	if err != nil {
		t.Fatal(err)
	}
	rows := doc.GetAllByTestID("bill-row")
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows for a@a, got %d", len(rows))
	}
	var dates []string
	for _, c := range doc.GetAllByTestID("bill-date") {
		d, _ := c.GetAttribute("data-date")
		dates = append(dates, d)
	}
	if strings.Join(dates, ",") != "2004-04-04,2003-03-03,2001-01-01" {
		t.Errorf("dates not most recent first: %v", dates)
	}
	if strings.Contains(rr.Body.String(), "Loading...") {
		t.Errorf("loading view should be replaced")
	}
	if doc.GetElementByID("modaleFile") == nil {
		t.Errorf("receipt modal missing")
	}
}

func TestBillsPageStoreErrorIs502(t *testing.T) {
	srv := newTestServer(t, Options{Store: memory.NewFailing(errors.New("Erreur 500"))})
	req := httptest.NewRequest(http.MethodGet, "/bills", nil)
	req.AddCookie(userCookie(t, core.User{Type: core.UserTypeEmployee, Email: "a@a"}))
	rr := serve(srv, req)

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status=%d", rr.Code)
	}
	doc, err := dom.Parse(rr.Body.String())
	if err != nil {
		t.Fatal(err)
	}
	msg := doc.GetByTestID("error-message")
	if msg == nil || msg.TextContent() != "Erreur 500" {
		t.Fatalf("unexpected error view: %s", rr.Body.String())
	}
}

func TestBillsPageRequiresUser(t *testing.T) {
	srv := newTestServer(t, Options{Store: memory.New(fixtures.Bills())})

	rr := serve(srv, httptest.NewRequest(http.MethodGet, "/bills", nil))
	if rr.Code != http.StatusUnauthorized || !strings.Contains(rr.Body.String(), "Erreur 401") {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/bills", nil)
	req.AddCookie(&http.Cookie{Name: UserCookie, Value: "garbage"})
	if rr := serve(srv, req); rr.Code != http.StatusUnauthorized {
		t.Fatalf("garbage cookie status=%d", rr.Code)
	}
}

func TestReceiptModalIsSwappedInShown(t *testing.T) {
	srv := newTestServer(t, Options{ModalWidth: 600})

	target := "/ui/bills/receipt?url=" + url.QueryEscape("https://storage.test/o/a.jpg?alt=media")
	rr := serve(srv, httptest.NewRequest(http.MethodGet, target, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	doc := dom.NewDocument()
	if err := doc.SetBodyHTML(rr.Body.String()); err != nil {
		t.Fatal(err)
	}
	modal := doc.GetElementByID("modaleFile")
	if modal == nil {
		t.Fatalf("response is not the receipt modal: %s", rr.Body.String())
	}
	if !modal.HasClass("show") {
		t.Errorf("swapped modal is not shown: %s", modal.OuterHTML())
	}
	body := modal.FindByClass("modal-body").InnerHTML()
	if !strings.Contains(body, `width="300"`) || !strings.Contains(body, `src="https://storage.test/o/a.jpg?alt=media"`) {
		t.Errorf("unexpected receipt: %s", body)
	}

	rr = serve(srv, httptest.NewRequest(http.MethodGet, "/ui/bills/receipt", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `src=""`) || !strings.Contains(rr.Body.String(), "show") {
		t.Fatalf("missing url should still open the modal: %d %s", rr.Code, rr.Body.String())
	}

	rr = serve(srv, httptest.NewRequest(http.MethodGet, "/ui/bills/receipt?url="+url.QueryEscape("javascript:alert(1)"), nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("javascript url status=%d", rr.Code)
	}
}

func TestReceiptModalClose(t *testing.T) {
	srv := newTestServer(t, Options{})
	rr := serve(srv, httptest.NewRequest(http.MethodGet, "/ui/bills/receipt/close", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	doc := dom.NewDocument()
	if err := doc.SetBodyHTML(rr.Body.String()); err != nil {
		t.Fatal(err)
	}
	modal := doc.GetElementByID("modaleFile")
	if modal == nil || modal.HasClass("show") {
		t.Fatalf("expected a hidden modal: %s", rr.Body.String())
	}
}

func TestPageWiresReceiptAndNewBill(t *testing.T) {
	srv := newTestServer(t, Options{Store: memory.New(fixtures.Bills())})
	req := httptest.NewRequest(http.MethodGet, "/bills", nil)
	req.AddCookie(userCookie(t, core.User{Type: core.UserTypeEmployee, Email: "a@a"}))
	doc, err := dom.Parse(serve(srv, req).Body.String())
	if err != nil {
		t.Fatal(err)
	}

	eye := doc.GetAllByTestID("icon-eye")[0]
	for attr, want := range map[string]string{"hx-target": "#modaleFile", "hx-swap": "outerHTML"} {
		if got, _ := eye.GetAttribute(attr); got != want {
			t.Errorf("eye %s = %q, want %q", attr, got, want)
		}
	}
	get, _ := eye.GetAttribute("hx-get")
	rr := serve(srv, httptest.NewRequest(http.MethodGet, get, nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), eye.Data("bill-url")[:40]) {
		t.Fatalf("eye target %q answered %d", get, rr.Code)
	}

	btn := doc.GetByTestID("btn-new-bill")
	get, _ = btn.GetAttribute("hx-get")
	if get == "" {
		t.Fatal("new bill button has no target")
	}
	hx := httptest.NewRequest(http.MethodGet, get, nil)
	hx.Header.Set("HX-Request", "true")
	rr = serve(srv, hx)
	if rr.Code != http.StatusOK || rr.Header().Get("HX-Redirect") != "/#employee/bill/new" {
		t.Fatalf("htmx new bill: status=%d redirect=%q", rr.Code, rr.Header().Get("HX-Redirect"))
	}

	rr = serve(srv, httptest.NewRequest(http.MethodGet, get, nil))
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/#employee/bill/new" {
		t.Fatalf("plain new bill: status=%d location=%q", rr.Code, rr.Header().Get("Location"))
	}
}

func TestBillsPageScopesTypelessUsers(t *testing.T) {
	bills := fixtures.Bills()
	bills[3].Email = "other@a"
	srv := newTestServer(t, Options{Store: memory.New(bills)})

	for _, u := range []core.User{{Email: "a@a"}, {Type: "Manager", Email: "a@a"}} {
		req := httptest.NewRequest(http.MethodGet, "/bills", nil)
		req.AddCookie(userCookie(t, u))
		rr := serve(srv, req)
		doc, err := dom.Parse(rr.Body.String())
		if err != nil {
			t.Fatal(err)
		}
		if n := len(doc.GetAllByTestID("bill-row")); rr.Code != http.StatusOK || n != 3 {
			t.Errorf("user %+v: status=%d rows=%d, want 200 and 3", u, rr.Code, n)
		}
	}
}

func TestStaticAssets(t *testing.T) {
	srv := newTestServer(t, Options{})
	rr := serve(srv, httptest.NewRequest(http.MethodGet, "/static/bills.css", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	if !strings.Contains(rr.Header().Get("Cache-Control"), "max-age=3600") {
		t.Errorf("Cache-Control = %q", rr.Header().Get("Cache-Control"))
	}
}
