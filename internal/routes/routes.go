// Package routes lists the client route paths handed to navigation callbacks.
package routes

import "strings"

const (
	Login     = ""
	Bills     = "#employee/bills"
	NewBill   = "#employee/bill/new"
	Dashboard = "#admin/dashboard"
)

// Href is the browser location of a client route: the app root with the
// route as fragment.
func Href(route string) string {
	if route == "" {
		return "/"
	}
	return "/#" + strings.TrimPrefix(route, "#")
}
