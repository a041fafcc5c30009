package audit

// NOTE: Tests cannot use t.Parallel() due to shared package state.

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/courtlyhq/courtly/internal/booking"
	"github.com/courtlyhq/courtly/internal/outbox"
	"github.com/courtlyhq/courtly/internal/testutil"
)

func TestHandleListReservationEvents(t *testing.T) {
	database := testutil.NewTestDB(t)
	centerID := testutil.SeedCenter(t, database, "1.00")
	courtID := testutil.SeedCourt(t, database, centerID, "20.00", "tennis", false)
	userID := testutil.SeedUser(t, database, "0", "0")

	start := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
	reservationID := testutil.SeedReservation(t, database, userID, courtID, "tennis",
		booking.StatusPaid, "20.00", start, start.Add(time.Hour), nil)

	ctx := context.Background()
	for _, eventType := range []string{outbox.EventReservationCreated, outbox.EventReservationPaid} {
		if _, err := outbox.Append(ctx, database.Queries, eventType,
			outbox.AggregateReservation, reservationID, map[string]string{"status": "x"}); err != nil {
			t.Fatalf("append event: %v", err)
		}
	}

	store = nil
	storeOnce = sync.Once{}
	InitHandlers(database)
	t.Cleanup(func() {
		store = nil
		storeOnce = sync.Once{}
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations/1/events", nil)
	req.SetPathValue("id", strconv.FormatInt(reservationID, 10))
	recorder := httptest.NewRecorder()

	HandleListReservationEvents(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d body: %s", recorder.Code, recorder.Body.String())
	}
	var res struct {
		Events []eventResponse `json:"events"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode events: %v", err)
	}
	if len(res.Events) != 2 {
		t.Fatalf("events: %d", len(res.Events))
	}
	if res.Events[0].EventType != outbox.EventReservationCreated {
		t.Fatalf("first event: %s", res.Events[0].EventType)
	}
	var payload map[string]string
	if err := json.Unmarshal(res.Events[0].Payload, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload["status"] != "x" {
		t.Fatalf("payload: %v", payload)
	}
}
