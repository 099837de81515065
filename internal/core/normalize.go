package core

import (
	"fmt"
	"strconv"
	"time"
)

// IsoDateLayout is the canonical layout of Bill.Date.
const IsoDateLayout = "2006-01-02"

// Outcome tells how a bill's date was normalized.
type Outcome int

const (
	DateFormatted Outcome = iota
	DateFallback
)

func (o Outcome) String() string {
	if o == DateFallback {
		return "fallback"
	}
	return "formatted"
}

// Normalized is the result of Normalize. DateErr is set only when Outcome is DateFallback.
type Normalized struct {
	Bill        DisplayBill
	Outcome     Outcome
	DateErr     error
	KnownStatus bool
}

var statusLabels = map[Status]string{
	StatusPending:  "En attente",
	StatusAccepted: "Accepté",
	StatusRefused:  "Refusé",
}

// French short months, truncated to three letters the way the bills table shows them.
var monthAbbrev = [12]string{"Jan", "Fév", "Mar", "Avr", "Mai", "Jui", "Jui", "Aoû", "Sep", "Oct", "Nov", "Déc"}

// Normalize turns a stored bill into a display bill. It never fails: an
// unparseable date keeps the raw stored value, an unknown status is its own label.
func Normalize(b Bill) Normalized {
	n := Normalized{
		Bill: DisplayBill{
			Bill:        b,
			DisplayDate: b.Date,
			StatusLabel: StatusLabel(b.Status),
		},
		KnownStatus: b.Status.Known(),
	}
	formatted, err := FormatDate(b.Date)
	if err != nil {
		n.Outcome = DateFallback
		n.DateErr = err
		return n
	}
	n.Bill.DisplayDate = formatted
	return n
}

// FormatDate renders an ISO date as "4 Avr. 04".
func FormatDate(raw string) (string, error) {
	t, err := time.Parse(IsoDateLayout, raw)
	if err != nil {
		return "", fmt.Errorf("parse bill date %q: %w", raw, err)
	}
	year := strconv.Itoa(t.Year() % 100)
	if len(year) < 2 {
		year = "0" + year
	}
	return fmt.Sprintf("%d %s. %s", t.Day(), monthAbbrev[t.Month()-1], year), nil
}

// StatusLabel maps a status to its French label; unknown statuses pass through.
func StatusLabel(s Status) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}
