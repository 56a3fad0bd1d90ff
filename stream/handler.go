// Package stream provides the Lambda entry point that applies ordered
// operation batches to a claim ledger.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"github.com/provenly/notary/dispatch"
	"github.com/provenly/notary/ledger"
	"github.com/provenly/notary/store"
)

// Handler applies operation batches delivered over SQS to a claim ledger
// and writes each committed effect through to the store.
type Handler struct {
	ledger *ledger.Ledger
	store  *store.Store
	logger *slog.Logger
}

// NewHandler creates a new operation handler. A nil store disables
// write-through persistence.
func NewHandler(l *ledger.Ledger, s *store.Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		ledger: l,
		store:  s,
		logger: logger,
	}
}

// HandleOperations processes one SQS batch of JSON-encoded operations.
// This function is designed to be used as an AWS Lambda handler behind a
// FIFO queue: FIFO delivery supplies the serialized, ordered execution the
// ledger requires.
//
// Rejected operations (failed preconditions) leave the ledger untouched
// and never fail the batch; malformed records and persistence failures do,
// so the batch retries.
func (h *Handler) HandleOperations(ctx context.Context, event events.SQSEvent) error {
	batchID := uuid.New().String()

	for _, record := range event.Records {
		if err := h.processRecord(ctx, batchID, record); err != nil {
			h.logger.Error("failed to process record",
				"batchID", batchID,
				"messageID", record.MessageId,
				"error", err,
			)
			return err // Will retry, eventually DLQ
		}
	}
	return nil
}

// processRecord decodes and applies a single operation record.
func (h *Handler) processRecord(ctx context.Context, batchID string, record events.SQSMessage) error {
	var op dispatch.Operation
	if err := json.Unmarshal([]byte(record.Body), &op); err != nil {
		return fmt.Errorf("decode operation: %w", err)
	}

	if err := dispatch.Apply(h.ledger, op); err != nil {
		// A failed precondition wrote nothing; retrying the record
		// would only fail the same way.
		h.logger.Warn("operation rejected",
			"batchID", batchID,
			"messageID", record.MessageId,
			"kind", string(op.Kind),
			"caller", string(op.Caller),
			"error", err,
		)
		return nil
	}

	for _, ev := range h.ledger.DrainEvents() {
		if err := h.persist(ctx, ev); err != nil {
			return fmt.Errorf("persist %s: %w", ev.Kind, err)
		}
		h.logger.Info("operation applied",
			"batchID", batchID,
			"event", string(ev.Kind),
			"actor", string(ev.Actor),
		)
	}
	return nil
}

// persist writes one event's effect through to the committed-state table.
func (h *Handler) persist(ctx context.Context, ev ledger.Event) error {
	if h.store == nil {
		return nil
	}

	if ev.Kind == ledger.EventClaimRevoked {
		return h.store.DeleteClaim(ctx, ev.Digest)
	}

	claim, ok := h.ledger.Get(ev.Digest)
	if !ok {
		return fmt.Errorf("claim missing after %s", ev.Kind)
	}
	price, _ := h.ledger.Price(ev.Digest)

	if ev.Kind == ledger.EventClaimCreated {
		return h.store.PutNewClaim(ctx, ev.Digest, claim, price)
	}
	return h.store.PutClaim(ctx, ev.Digest, claim, price)
}
