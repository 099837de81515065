package routes

import "testing"

func TestHref(t *testing.T) {
	tests := map[string]string{
		NewBill:             "/#employee/bill/new",
		Bills:               "/#employee/bills",
		"employee/bill/new": "/#employee/bill/new",
		Login:               "/",
	}
	for route, want := range tests {
		if got := Href(route); got != want {
			t.Errorf("Href(%q) = %q, want %q", route, got, want)
		}
	}
}
