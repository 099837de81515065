package google

import (
	"fmt"
	"strconv"
	"strings"

	"billed/internal/core"
)

// parseBills maps a values matrix whose first row holds the column headers
// (id, email, type, name, amount, date, vat, pct, commentary, status,
// fileUrl, fileName, commentAdmin) to bills. Rows without an id are skipped
// and counted. Unparseable amounts and percentages read as zero.
func parseBills(values [][]interface{}) ([]core.Bill, int) {
	if len(values) == 0 {
		return []core.Bill{}, 0
	}
	headers := toStrings(values[0])
	col := func(name string) int { return indexOf(headers, name) }
	var (
		cID, cEmail, cType, cName      = col("id"), col("email"), col("type"), col("name")
		cAmount, cDate, cVAT, cPct     = col("amount"), col("date"), col("vat"), col("pct")
		cComment, cStatus, cURL, cFile = col("commentary"), col("status"), col("fileUrl"), col("fileName")
		cAdmin                         = col("commentAdmin")
	)

	out := make([]core.Bill, 0, len(values)-1)
	skipped := 0
	for _, raw := range values[1:] {
		row := toStrings(raw)
		id := safeGet(row, cID)
		if id == "" {
			skipped++
			continue
		}
		b := core.Bill{
			ID:           id,
			Email:        safeGet(row, cEmail),
			Type:         safeGet(row, cType),
			Name:         safeGet(row, cName),
			Date:         safeGet(row, cDate),
			VAT:          safeGet(row, cVAT),
			Commentary:   safeGet(row, cComment),
			Status:       core.Status(safeGet(row, cStatus)),
			FileURL:      safeGet(row, cURL),
			FileName:     safeGet(row, cFile),
			CommentAdmin: safeGet(row, cAdmin),
		}
		if cents, err := core.ParseDecimalToCents(safeGet(row, cAmount)); err == nil {
			b.Amount = core.Money{Cents: cents}
		}
		if pct, err := strconv.Atoi(safeGet(row, cPct)); err == nil {
			b.Pct = pct
		}
		out = append(out, b)
	}
	return out, skipped
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(target)) {
			return i
		}
	}
	return -1
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}
