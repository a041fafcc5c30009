// internal/api/audit/handlers.go
package audit

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/courtlyhq/courtly/internal/api/apiutil"
	appdb "github.com/courtlyhq/courtly/internal/db"
	"github.com/courtlyhq/courtly/internal/outbox"
)

const auditQueryTimeout = 5 * time.Second

var (
	store     *appdb.DB
	storeOnce sync.Once
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(database *appdb.DB) {
	if database == nil {
		return
	}
	storeOnce.Do(func() {
		store = database
	})
}

type eventResponse struct {
	ID          string          `json:"id"`
	EventType   string          `json:"eventType"`
	Payload     json.RawMessage `json:"payload"`
	Processed   bool            `json:"processed"`
	CreatedAt   string          `json:"createdAt"`
	ProcessedAt string          `json:"processedAt,omitempty"`
}

// GET /api/v1/reservations/{id}/events
// The outbox doubles as the audit trail for a reservation: every state
// change appended an event in the same transaction.
func HandleListReservationEvents(w http.ResponseWriter, r *http.Request) {
	if store == nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	id, err := apiutil.PathInt64(r, "id")
	if err != nil {
		apiutil.WriteDomainError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: err.Error(), Err: err})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), auditQueryTimeout)
	defer cancel()

	events, err := outbox.ListByReservation(ctx, store.Queries, id)
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}

	out := make([]eventResponse, 0, len(events))
	for _, ev := range events {
		item := eventResponse{
			ID:        ev.ID,
			EventType: ev.EventType,
			Payload:   json.RawMessage(ev.EventData),
			Processed: ev.Processed,
			CreatedAt: ev.CreatedAt.UTC().Format(time.RFC3339),
		}
		if ev.ProcessedAt.Valid {
			item.ProcessedAt = ev.ProcessedAt.Time.UTC().Format(time.RFC3339)
		}
		out = append(out, item)
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, map[string]any{"events": out})
}
