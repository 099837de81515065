package worker

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"billed/internal/amqp"
	"billed/internal/core"
	"billed/internal/log"
	"billed/internal/store"
)

// IngestWorker stores bills arriving as BillSubmittedMessage.
type IngestWorker struct {
	writer store.BillWriter
	newID  func() string
	logger *log.Logger
}

// NewIngestWorker returns a worker persisting into writer.
func NewIngestWorker(writer store.BillWriter, logger *log.Logger) *IngestWorker {
	if logger == nil {
		logger = log.Default()
	}
	return &IngestWorker{
		writer: writer,
		newID:  uuid.NewString,
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// HandleBillSubmitted implements amqp.Handler. Bills without an id get a
// fresh UUID and bills without a status start pending. Invalid bills are
// discarded; storage failures are returned for requeue.
func (w *IngestWorker) HandleBillSubmitted(ctx context.Context, msg *amqp.BillSubmittedMessage) error {
	b := msg.Bill
	if strings.TrimSpace(b.ID) == "" {
		b.ID = w.newID()
	}
	if b.Status == "" {
		b.Status = core.StatusPending
	}
	if !b.Status.Known() {
		w.logger.WarnContext(ctx, "Ingesting bill with unknown status",
			log.FieldBillID, b.ID, log.FieldBillStatus, string(b.Status))
	}
	if err := b.Validate(); err != nil {
		return fmt.Errorf("bill %q: %v: %w", b.ID, err, amqp.ErrDiscard)
	}

	if err := w.writer.InsertBill(ctx, b); err != nil {
		return fmt.Errorf("store bill %s: %w", b.ID, err)
	}

	w.logger.InfoContext(ctx, "Bill ingested",
		log.FieldOperation, log.OpIngest,
		log.FieldBillID, b.ID,
		log.FieldBillDate, b.Date,
		"submitted_at", msg.Timestamp)
	return nil
}
