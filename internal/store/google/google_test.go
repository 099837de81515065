package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	goption "google.golang.org/api/option"

	"billed/internal/core"
)

const valuesResponse = `{
  "range": "Bills!A1:M3",
  "majorDimension": "ROWS",
  "values": [
    ["id", "email", "type", "name", "amount", "date", "vat", "pct", "commentary", "status", "fileUrl", "fileName", "commentAdmin"],
    ["b1", "a@a", "Transports", "train", "100", "2001-01-01", "", "20", "", "refused", "http://x/1.jpg", "1.jpg", ""],
    ["b2", "b@b", "Hôtel", "nuit", "400", "2004-04-04", "80", "20", "", "pending", "http://x/2.jpg", "2.jpg", ""]
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(context.Background(), Config{SpreadsheetID: "sheet-id"},
		goption.WithHTTPClient(srv.Client()),
		goption.WithEndpoint(srv.URL+"/"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestListReadsSheetAndScopes(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(valuesResponse))
	})

	all, err := c.Bills().List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 bills, got %d", len(all))
	}
	if !strings.Contains(gotPath, "sheet-id") || !strings.Contains(gotPath, DefaultSheetName) {
		t.Errorf("unexpected request path %q", gotPath)
	}

	ctx := core.WithUser(context.Background(), core.User{Type: core.UserTypeEmployee, Email: "b@b"})
	mine, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != "b2" || mine[0].Amount.Cents != 40000 {
		t.Fatalf("unexpected scoped bills: %+v", mine)
	}
}

func TestListWrapsAPIErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":403,"message":"denied"}}`, http.StatusForbidden)
	})
	if _, err := c.List(context.Background()); err == nil || !strings.Contains(err.Error(), "read Bills!A:M") {
		t.Fatalf("expected wrapped read error, got %v", err)
	}
}

func TestNewRequiresSpreadsheetAndCredentials(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatal("expected error without spreadsheet id")
	}
	if _, err := New(context.Background(), Config{SpreadsheetID: "x"}); err == nil {
		t.Fatal("expected error without credentials")
	}
}
