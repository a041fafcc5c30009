package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/courtlyhq/courtly/internal/booking"
	"github.com/courtlyhq/courtly/internal/outbox"
	"github.com/courtlyhq/courtly/internal/testutil"
)

func TestSweepAutoComplete(t *testing.T) {
	f := newFixture(t, "0")
	ctx := context.Background()

	resID := testutil.SeedReservation(t, f.db, f.userID, f.courtID, "tennis",
		booking.StatusInProgress, "18.00", slotStart, slotEnd, nil)
	if _, err := f.db.ExecContext(ctx,
		`UPDATE reservations SET check_in_time = ? WHERE id = ?`, slotStart, resID); err != nil {
		t.Fatalf("set check-in time: %v", err)
	}
	// Still running: not a candidate yet.
	stillRunning := testutil.SeedReservation(t, f.db, f.userID, f.courtID, "tennis",
		booking.StatusInProgress, "18.00", slotEnd, slotEnd.Add(time.Hour), nil)
	if _, err := f.db.ExecContext(ctx,
		`UPDATE reservations SET check_in_time = ? WHERE id = ?`, slotEnd, stillRunning); err != nil {
		t.Fatalf("set check-in time: %v", err)
	}

	now := slotEnd.Add(5 * time.Minute)
	completed, err := f.svc.SweepAutoComplete(ctx, now)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if completed != 1 {
		t.Errorf("completed = %d, want 1", completed)
	}

	res, _ := f.db.Queries.GetReservationByID(ctx, resID)
	if res.Status != booking.StatusCompleted {
		t.Errorf("status = %s, want completed", res.Status)
	}
	if !res.CheckOutTime.Valid || !res.CheckOutTime.Time.Equal(slotEnd) {
		t.Errorf("check-out time pinned to %v, want end time %v", res.CheckOutTime.Time, slotEnd)
	}
	running, _ := f.db.Queries.GetReservationByID(ctx, stillRunning)
	if running.Status != booking.StatusInProgress {
		t.Errorf("reservation still inside its slot must not be completed, got %s", running.Status)
	}

	// Second run finds nothing new.
	completed, err = f.svc.SweepAutoComplete(ctx, now)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if completed != 0 {
		t.Errorf("second sweep completed = %d, want 0", completed)
	}
	events, _ := outbox.ListByReservation(ctx, f.db.Queries, resID)
	if len(events) != 1 {
		t.Errorf("expected one completed event, got %d", len(events))
	}
}

func TestSweepExpiredHolds(t *testing.T) {
	f := newFixture(t, "0")
	ctx := context.Background()
	now := slotStart.Add(-30 * time.Minute)

	expired := now.Add(-time.Minute)
	live := now.Add(10 * time.Minute)
	expiredID := f.pendingReservation(t, "18.00", expired)
	liveID := testutil.SeedReservation(t, f.db, f.userID, f.courtID, "tennis",
		booking.StatusPending, "18.00", slotStart.Add(2*time.Hour), slotEnd.Add(2*time.Hour), &live)

	cancelled, err := f.svc.SweepExpiredHolds(ctx, now)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if cancelled != 1 {
		t.Errorf("cancelled = %d, want 1", cancelled)
	}
	res, _ := f.db.Queries.GetReservationByID(ctx, expiredID)
	if res.Status != booking.StatusCancelled {
		t.Errorf("expired hold status = %s, want cancelled", res.Status)
	}
	kept, _ := f.db.Queries.GetReservationByID(ctx, liveID)
	if kept.Status != booking.StatusPending {
		t.Errorf("live hold must stay pending, got %s", kept.Status)
	}
}

func TestSweepNoShows(t *testing.T) {
	f := newFixture(t, "0")
	ctx := context.Background()

	noShowID := testutil.SeedReservation(t, f.db, f.userID, f.courtID, "tennis",
		booking.StatusPaid, "18.00", slotStart, slotEnd, nil)
	checkedInID := testutil.SeedReservation(t, f.db, f.userID, f.courtID, "tennis",
		booking.StatusInProgress, "18.00", slotStart, slotEnd, nil)
	if _, err := f.db.ExecContext(ctx,
		`UPDATE reservations SET check_in_time = ? WHERE id = ?`, slotStart, checkedInID); err != nil {
		t.Fatalf("set check-in time: %v", err)
	}

	now := slotEnd.Add(time.Minute)
	flagged, err := f.svc.SweepNoShows(ctx, now)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if flagged != 1 {
		t.Errorf("flagged = %d, want 1", flagged)
	}
	res, _ := f.db.Queries.GetReservationByID(ctx, noShowID)
	if res.Status != booking.StatusNoShow {
		t.Errorf("status = %s, want no_show", res.Status)
	}
	events, _ := outbox.ListByReservation(ctx, f.db.Queries, noShowID)
	if len(events) != 1 || events[0].EventType != outbox.EventReservationNoShow {
		t.Errorf("expected one no-show event, got %+v", events)
	}
}
