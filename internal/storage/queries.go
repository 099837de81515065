package storage

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type BillRow struct {
	ID           string
	Email        string
	Type         string
	Name         string
	AmountCents  int64
	Date         string
	Vat          string
	Pct          int64
	Commentary   string
	Status       string
	FileUrl      string
	FileName     string
	CommentAdmin string
}

const upsertBill = `
INSERT INTO bills (id, email, type, name, amount_cents, date, vat, pct, commentary, status, file_url, file_name, comment_admin)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    email = excluded.email,
    type = excluded.type,
    name = excluded.name,
    amount_cents = excluded.amount_cents,
    date = excluded.date,
    vat = excluded.vat,
    pct = excluded.pct,
    commentary = excluded.commentary,
    status = excluded.status,
    file_url = excluded.file_url,
    file_name = excluded.file_name,
    comment_admin = excluded.comment_admin,
    updated_at = CURRENT_TIMESTAMP
`

func (q *Queries) UpsertBill(ctx context.Context, arg BillRow) error {
	_, err := q.db.ExecContext(ctx, upsertBill,
		arg.ID, arg.Email, arg.Type, arg.Name, arg.AmountCents, arg.Date, arg.Vat,
		arg.Pct, arg.Commentary, arg.Status, arg.FileUrl, arg.FileName, arg.CommentAdmin,
	)
	return err
}

const billColumns = `id, email, type, name, amount_cents, date, vat, pct, commentary, status, file_url, file_name, comment_admin`

// Rows come back in insertion order; display ordering is left to the caller.
const listBills = `SELECT ` + billColumns + ` FROM bills ORDER BY rowid`

func (q *Queries) ListBills(ctx context.Context) ([]BillRow, error) {
	return q.queryBills(ctx, listBills)
}

const listBillsByEmail = `SELECT ` + billColumns + ` FROM bills WHERE email = ? ORDER BY rowid`

func (q *Queries) ListBillsByEmail(ctx context.Context, email string) ([]BillRow, error) {
	return q.queryBills(ctx, listBillsByEmail, email)
}

const countBills = `SELECT COUNT(*) FROM bills`

func (q *Queries) CountBills(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countBills).Scan(&n)
	return n, err
}

func (q *Queries) queryBills(ctx context.Context, query string, args ...interface{}) ([]BillRow, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []BillRow
	for rows.Next() {
		var i BillRow
		if err := rows.Scan(
			&i.ID, &i.Email, &i.Type, &i.Name, &i.AmountCents, &i.Date, &i.Vat,
			&i.Pct, &i.Commentary, &i.Status, &i.FileUrl, &i.FileName, &i.CommentAdmin,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
