// Package fixtures holds the sample bills used to seed the memory backend and tests.
package fixtures

import "billed/internal/core"

const storageBase = "https://test.storage.tld/v0/b/billable-677b6.appspot.com/o/"

// Bills returns four bills of employee "a@a", deliberately out of date order.
func Bills() []core.Bill {
	return []core.Bill{
		{
			ID:           "47qAXb6fIm2zOKkLzMro",
			Email:        "a@a",
			Type:         "Hôtel et logement",
			Name:         "encore",
			Amount:       core.Money{Cents: 40000},
			Date:         "2004-04-04",
			VAT:          "80",
			Pct:          20,
			Commentary:   "séminaire billed",
			Status:       core.StatusPending,
			FileURL:      storageBase + "preview-facture-free-201801-pdf-1.jpg?alt=media",
			FileName:     "preview-facture-free-201801-pdf-1.jpg",
			CommentAdmin: "ok",
		},
		{
			ID:           "BeKy5Mo4jkmdfPGYpTxZ",
			Email:        "a@a",
			Type:         "Transports",
			Name:         "test1",
			Amount:       core.Money{Cents: 10000},
			Date:         "2001-01-01",
			Pct:          20,
			Commentary:   "plop",
			Status:       core.StatusRefused,
			FileURL:      storageBase + "1592770761.jpeg?alt=media",
			FileName:     "1592770761.jpeg",
			CommentAdmin: "en fait non",
		},
		{
			ID:           "UIUZtnPQvnbFnB0ozvJh",
			Email:        "a@a",
			Type:         "Services en ligne",
			Name:         "test3",
			Amount:       core.Money{Cents: 30000},
			Date:         "2003-03-03",
			VAT:          "60",
			Pct:          20,
			Status:       core.StatusAccepted,
			FileURL:      storageBase + "facture-client-php-exportee.png?alt=media",
			FileName:     "facture-client-php-exportee.png",
			CommentAdmin: "bon bah d'accord",
		},
		{
			ID:           "qcCK3SzECmaZAGRrHjaC",
			Email:        "a@a",
			Type:         "Restaurants et bars",
			Name:         "test2",
			Amount:       core.Money{Cents: 20000},
			Date:         "2002-02-02",
			VAT:          "40",
			Pct:          20,
			Commentary:   "test2",
			Status:       core.StatusRefused,
			FileURL:      storageBase + "preview-facture-free-201801-pdf-1.jpg?alt=media",
			FileName:     "preview-facture-free-201801-pdf-1.jpg",
			CommentAdmin: "pas la bonne facture",
		},
	}
}

// DisplayBills normalizes Bills without sorting them.
func DisplayBills() []core.DisplayBill {
	raw := Bills()
	out := make([]core.DisplayBill, len(raw))
	for i, b := range raw {
		out[i] = core.Normalize(b).Bill
	}
	return out
}
