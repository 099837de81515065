package memory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"billed/internal/core"
	"billed/internal/fixtures"
	"billed/internal/store"
)

// SeedFile is the YAML file NewFromFiles reads bills from.
const SeedFile = "seed_bills.yaml"

type Store struct {
	mu    sync.Mutex
	bills []core.Bill
	err   error
}

var (
	_ store.Store      = (*Store)(nil)
	_ store.BillLister = (*Store)(nil)
	_ store.BillWriter = (*Store)(nil)
)

func New(bills []core.Bill) *Store {
	return &Store{bills: dedupeByID(bills)}
}

// NewFromFiles seeds the store from base/seed_bills.yaml, falling back to
// the built-in fixtures when the file is missing or unreadable.
func NewFromFiles(base string) *Store {
	bills, err := readSeed(filepath.Join(base, SeedFile))
	if err != nil || len(bills) == 0 {
		bills = fixtures.Bills()
	}
	return New(bills)
}

// NewFailing returns a store whose List always fails with err.
func NewFailing(err error) *Store {
	return &Store{err: err}
}

func (s *Store) Bills() store.BillLister {
	return s
}

// List returns a copy of the stored bills scoped to the context user.
func (s *Store) List(ctx context.Context) ([]core.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := append([]core.Bill(nil), s.bills...)
	return store.ScopeToUser(ctx, out), nil
}

// InsertBill stores b, replacing any bill with the same id.
func (s *Store) InsertBill(_ context.Context, b core.Bill) error {
	if err := b.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.bills {
		if s.bills[i].ID == b.ID {
			s.bills[i] = b
			return nil
		}
	}
	s.bills = append(s.bills, b)
	return nil
}

func readSeed(path string) ([]core.Bill, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var bills []core.Bill
	if err := yaml.Unmarshal(data, &bills); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return bills, nil
}

// dedupeByID keeps the first bill of each id, preserving input order.
func dedupeByID(in []core.Bill) []core.Bill {
	seen := map[string]struct{}{}
	out := make([]core.Bill, 0, len(in))
	for _, b := range in {
		if _, ok := seen[b.ID]; ok {
			continue
		}
		seen[b.ID] = struct{}{}
		out = append(out, b)
	}
	return out
}
