package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"billed/internal/core"
	"billed/internal/log"
	"billed/internal/store"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	logger  *log.Logger
}

var (
	_ store.Store      = (*SQLiteRepository)(nil)
	_ store.BillLister = (*SQLiteRepository)(nil)
	_ store.BillWriter = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		logger:  log.Default().WithComponent(log.ComponentStorage),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) Bills() store.BillLister {
	return r
}

// InsertBill stores b, replacing any bill with the same id.
func (r *SQLiteRepository) InsertBill(ctx context.Context, b core.Bill) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("validate bill: %w", err)
	}
	if b.Status == "" {
		b.Status = core.StatusPending
	}
	if err := r.queries.UpsertBill(ctx, toRow(b)); err != nil {
		return fmt.Errorf("upsert bill %s: %w", b.ID, err)
	}

	r.logger.InfoContext(ctx, "Bill saved to SQLite",
		log.FieldOperation, log.OpInsert,
		log.FieldBillID, b.ID,
		log.FieldBillDate, b.Date,
		log.FieldBillStatus, string(b.Status))
	return nil
}

// List returns the stored bills; a non-admin user in ctx only sees their own.
func (r *SQLiteRepository) List(ctx context.Context) ([]core.Bill, error) {
	var (
		rows []BillRow
		err  error
	)
	if u, ok := core.UserFromContext(ctx); ok && !u.SeesAllBills() {
		rows, err = r.queries.ListBillsByEmail(ctx, u.Email)
	} else {
		rows, err = r.queries.ListBills(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	out := make([]core.Bill, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromRow(row))
	}
	return out, nil
}

// Count returns the number of stored bills.
func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.queries.CountBills(ctx)
	if err != nil {
		return 0, fmt.Errorf("count bills: %w", err)
	}
	return n, nil
}

func toRow(b core.Bill) BillRow {
	return BillRow{
		ID:           b.ID,
		Email:        b.Email,
		Type:         b.Type,
		Name:         b.Name,
		AmountCents:  b.Amount.Cents,
		Date:         b.Date,
		Vat:          b.VAT,
		Pct:          int64(b.Pct),
		Commentary:   b.Commentary,
		Status:       string(b.Status),
		FileUrl:      b.FileURL,
		FileName:     b.FileName,
		CommentAdmin: b.CommentAdmin,
	}
}

func fromRow(r BillRow) core.Bill {
	return core.Bill{
		ID:           r.ID,
		Email:        r.Email,
		Type:         r.Type,
		Name:         r.Name,
		Amount:       core.Money{Cents: r.AmountCents},
		Date:         r.Date,
		VAT:          r.Vat,
		Pct:          int(r.Pct),
		Commentary:   r.Commentary,
		Status:       core.Status(r.Status),
		FileURL:      r.FileUrl,
		FileName:     r.FileName,
		CommentAdmin: r.CommentAdmin,
	}
}
