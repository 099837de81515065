package core

import "sort"

// SortByDateDesc returns a copy of bills ordered most recent first. Dates are
// compared as raw strings, which matches chronological order only for ISO dates.
// Equal dates keep their input order.
func SortByDateDesc(bills []DisplayBill) []DisplayBill {
	out := make([]DisplayBill, len(bills))
	copy(out, bills)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out
}
