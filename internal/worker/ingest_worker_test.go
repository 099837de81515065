package worker

import (
	"context"
	"errors"
	"testing"

	"billed/internal/amqp"
	"billed/internal/core"
	"billed/internal/fixtures"
	"billed/internal/store/memory"
)

type failingWriter struct{ err error }

func (f failingWriter) InsertBill(context.Context, core.Bill) error { return f.err }

func TestHandleBillSubmittedStoresBill(t *testing.T) {
	st := memory.New(nil)
	w := NewIngestWorker(st, nil)
	ctx := context.Background()

	b := fixtures.Bills()[0]
	if err := w.HandleBillSubmitted(ctx, amqp.NewBillSubmittedMessage(b)); err != nil {
		t.Fatalf("HandleBillSubmitted: %v", err)
	}

	got, _ := st.List(ctx)
	if len(got) != 1 || got[0] != b {
		t.Fatalf("unexpected stored bills: %+v", got)
	}
}

func TestHandleBillSubmittedAssignsIDAndStatus(t *testing.T) {
	st := memory.New(nil)
	w := NewIngestWorker(st, nil)
	w.newID = func() string { return "generated-id" }

	msg := amqp.NewBillSubmittedMessage(core.Bill{Email: "a@a", Date: "2022-02-02"})
	if err := w.HandleBillSubmitted(context.Background(), msg); err != nil {
		t.Fatalf("HandleBillSubmitted: %v", err)
	}

	got, _ := st.List(context.Background())
	if len(got) != 1 {
		t.Fatalf("expected one bill, got %d", len(got))
	}
	if got[0].ID != "generated-id" || got[0].Status != core.StatusPending {
		t.Fatalf("unexpected bill: %+v", got[0])
	}
}

func TestHandleBillSubmittedDefaultIDIsUUID(t *testing.T) {
	st := memory.New(nil)
	w := NewIngestWorker(st, nil)
	if err := w.HandleBillSubmitted(context.Background(), amqp.NewBillSubmittedMessage(core.Bill{Email: "a@a"})); err != nil {
		t.Fatal(err)
	}
	got, _ := st.List(context.Background())
	if len(got[0].ID) != 36 {
		t.Fatalf("expected a UUID, got %q", got[0].ID)
	}
}

func TestHandleBillSubmittedDiscardsInvalidBills(t *testing.T) {
	w := NewIngestWorker(memory.New(nil), nil)
	err := w.HandleBillSubmitted(context.Background(), amqp.NewBillSubmittedMessage(core.Bill{ID: "x"}))
	if !errors.Is(err, amqp.ErrDiscard) {
		t.Fatalf("expected ErrDiscard, got %v", err)
	}
}

func TestHandleBillSubmittedReturnsStorageErrors(t *testing.T) {
	boom := errors.New("database is locked")
	w := NewIngestWorker(failingWriter{err: boom}, nil)
	err := w.HandleBillSubmitted(context.Background(), amqp.NewBillSubmittedMessage(fixtures.Bills()[0]))
	if !errors.Is(err, boom) || errors.Is(err, amqp.ErrDiscard) {
		t.Fatalf("expected requeueable storage error, got %v", err)
	}
}
