package reservations

// NOTE: Tests cannot use t.Parallel() due to shared package state.

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/courtlyhq/courtly/internal/booking"
	"github.com/courtlyhq/courtly/internal/db"
	dbgen "github.com/courtlyhq/courtly/internal/db/generated"
	"github.com/courtlyhq/courtly/internal/outbox"
	"github.com/courtlyhq/courtly/internal/reconcile"
	"github.com/courtlyhq/courtly/internal/testutil"
)

type reservationTestEnv struct {
	db      *db.DB
	courtID int64
	userID  int64
}

func setupReservationTest(t *testing.T, balance string) reservationTestEnv {
	t.Helper()

	database := testutil.NewTestDB(t)
	centerID := testutil.SeedCenter(t, database, "1.00")
	courtID := testutil.SeedCourt(t, database, centerID, "20.00", "tennis", false)
	userID := testutil.SeedUser(t, database, "0", balance)

	svc := reconcile.New(database, 15*time.Minute)

	store = nil
	service = nil
	limiter = nil
	holdTTL = 0
	storeOnce = sync.Once{}
	InitHandlers(database, svc, nil, 15*time.Minute)

	t.Cleanup(func() {
		store = nil
		service = nil
		limiter = nil
		holdTTL = 0
		storeOnce = sync.Once{}
	})

	return reservationTestEnv{db: database, courtID: courtID, userID: userID}
}

func createBody(env reservationTestEnv, start, end time.Time, payWithCredits bool) string {
	return `{"userId":` + intStr(env.userID) +
		`,"courtId":` + intStr(env.courtID) +
		`,"sport":"tennis","startTime":"` + start.Format(time.RFC3339) +
		`","endTime":"` + end.Format(time.RFC3339) +
		`","payWithCredits":` + boolStr(payWithCredits) + `}`
}

func intStr(n int64) string {
	return strconv.FormatInt(n, 10)
}

func boolStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func postReservation(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	HandleCreateReservation(recorder, req)
	return recorder
}

func TestHandleCreateReservation_PendingHold(t *testing.T) {
	env := setupReservationTest(t, "0")
	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)
	end := start.Add(time.Hour)

	recorder := postReservation(t, createBody(env, start, end, false))

	if recorder.Code != http.StatusCreated {
		t.Fatalf("status: %d body: %s", recorder.Code, recorder.Body.String())
	}
	var res reservationResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Status != booking.StatusPending {
		t.Fatalf("status: %s", res.Status)
	}
	if res.TotalPrice != "20" {
		t.Fatalf("total price: %s", res.TotalPrice)
	}
	if res.ExpiresAt == "" {
		t.Fatalf("expected hold expiry to be set")
	}

	events, err := outbox.ListByReservation(context.Background(), env.db.Queries, res.ID)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 1 || events[0].EventType != outbox.EventReservationCreated {
		t.Fatalf("events: %+v", events)
	}
}

func TestHandleCreateReservation_PayWithCredits(t *testing.T) {
	env := setupReservationTest(t, "50")
	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)
	end := start.Add(time.Hour)

	recorder := postReservation(t, createBody(env, start, end, true))

	if recorder.Code != http.StatusCreated {
		t.Fatalf("status: %d body: %s", recorder.Code, recorder.Body.String())
	}
	var res reservationResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Status != booking.StatusPaid {
		t.Fatalf("status: %s", res.Status)
	}

	user, err := env.db.Queries.GetUserByID(context.Background(), env.userID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if !user.CreditBalance.Equal(decimal.RequireFromString("30")) {
		t.Fatalf("balance after funding: %s", user.CreditBalance)
	}
}

func TestHandleCreateReservation_InsufficientBalanceKeepsHold(t *testing.T) {
	env := setupReservationTest(t, "5")
	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)
	end := start.Add(time.Hour)

	recorder := postReservation(t, createBody(env, start, end, true))

	if recorder.Code != http.StatusConflict {
		t.Fatalf("status: %d body: %s", recorder.Code, recorder.Body.String())
	}

	// The pending hold survives so the client can retry another payment
	// method.
	rows, err := env.db.Queries.ListUserPendingHoldsForSlot(context.Background(), dbgen.ListUserPendingHoldsForSlotParams{
		UserID:    env.userID,
		CourtID:   env.courtID,
		EndTime:   end,
		StartTime: start,
	})
	if err != nil {
		t.Fatalf("list holds: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("pending holds: %d", len(rows))
	}
}

func TestHandleCreateReservation_Conflict(t *testing.T) {
	env := setupReservationTest(t, "0")
	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)
	end := start.Add(time.Hour)

	otherUser := testutil.SeedUser(t, env.db, "0", "0")
	testutil.SeedReservation(t, env.db, otherUser, env.courtID, "tennis", booking.StatusPaid, "20.00", start, end, nil)

	recorder := postReservation(t, createBody(env, start.Add(30*time.Minute), end.Add(30*time.Minute), false))

	if recorder.Code != http.StatusConflict {
		t.Fatalf("status: %d body: %s", recorder.Code, recorder.Body.String())
	}
}

func TestHandleCreateReservation_RebookReleasesOwnHold(t *testing.T) {
	env := setupReservationTest(t, "0")
	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)
	end := start.Add(time.Hour)

	expires := time.Now().UTC().Add(10 * time.Minute)
	held := testutil.SeedReservation(t, env.db, env.userID, env.courtID, "tennis", booking.StatusPending, "20.00", start, end, &expires)

	recorder := postReservation(t, createBody(env, start, end, false))

	if recorder.Code != http.StatusCreated {
		t.Fatalf("status: %d body: %s", recorder.Code, recorder.Body.String())
	}
	old, err := env.db.Queries.GetReservationByID(context.Background(), held)
	if err != nil {
		t.Fatalf("get old hold: %v", err)
	}
	if old.Status != booking.StatusCancelled {
		t.Fatalf("old hold status: %s", old.Status)
	}
}

func TestHandleCreateReservation_Validation(t *testing.T) {
	setupReservationTest(t, "0")

	recorder := postReservation(t, `{"userId":0}`)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status: %d body: %s", recorder.Code, recorder.Body.String())
	}
}

func TestHandleCancelReservation(t *testing.T) {
	env := setupReservationTest(t, "0")
	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)
	end := start.Add(time.Hour)
	id := testutil.SeedReservation(t, env.db, env.userID, env.courtID, "tennis", booking.StatusPending, "20.00", start, end, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations/1/cancel", nil)
	req.SetPathValue("id", intStr(id))
	recorder := httptest.NewRecorder()

	HandleCancelReservation(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d body: %s", recorder.Code, recorder.Body.String())
	}
	var res reservationResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Status != booking.StatusCancelled {
		t.Fatalf("status: %s", res.Status)
	}
}
