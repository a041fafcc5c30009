// internal/outbox/outbox.go
package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	dbgen "github.com/courtlyhq/courtly/internal/db/generated"
)

// Event types recorded by the booking core.
const (
	EventReservationCreated   = "reservation.created"
	EventReservationPaid      = "reservation.paid"
	EventReservationCancelled = "reservation.cancelled"
	EventReservationCheckedIn = "reservation.checked_in"
	EventReservationCompleted = "reservation.completed"
	EventReservationNoShow    = "reservation.no_show"
	EventReservationRefunded  = "reservation.refunded"
	EventWalletTopUp          = "wallet.topup"
)

const (
	AggregateReservation = "reservation"
	AggregateWallet      = "wallet"
)

// Append records a domain fact. It must run on the same transactional
// querier as the state or ledger change that produced the fact, so either
// both commit or neither does. The payload is marshalled to JSON.
func Append(ctx context.Context, q *dbgen.Queries, eventType, aggregateType string, aggregateID int64, payload any) (dbgen.OutboxEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return dbgen.OutboxEvent{}, fmt.Errorf("encoding outbox payload: %w", err)
	}
	event, err := q.InsertOutboxEvent(ctx, dbgen.InsertOutboxEventParams{
		ID:            uuid.New().String(),
		EventType:     eventType,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventData:     string(data),
	})
	if err != nil {
		return dbgen.OutboxEvent{}, fmt.Errorf("appending outbox event: %w", err)
	}
	return event, nil
}

// ListUnprocessed returns the oldest pending events for a consumer pass.
func ListUnprocessed(ctx context.Context, q *dbgen.Queries, limit int64) ([]dbgen.OutboxEvent, error) {
	return q.ListUnprocessedOutboxEvents(ctx, limit)
}

// ListByReservation returns a reservation's audit trail in creation order.
func ListByReservation(ctx context.Context, q *dbgen.Queries, reservationID int64) ([]dbgen.OutboxEvent, error) {
	return q.ListOutboxEventsByAggregate(ctx, dbgen.ListOutboxEventsByAggregateParams{
		AggregateType: AggregateReservation,
		AggregateID:   reservationID,
	})
}

// MarkProcessed flags an event as consumed. The guarded update makes
// consumption exactly-once: a second consumer marking the same event gets
// false and must skip its side effect.
func MarkProcessed(ctx context.Context, q *dbgen.Queries, eventID string, now time.Time) (bool, error) {
	rows, err := q.MarkOutboxEventProcessed(ctx, dbgen.MarkOutboxEventProcessedParams{
		ProcessedAt: sql.NullTime{Time: now, Valid: true},
		ID:          eventID,
	})
	if err != nil {
		return false, fmt.Errorf("marking outbox event processed: %w", err)
	}
	return rows == 1, nil
}
