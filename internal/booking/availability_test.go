package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	dbgen "github.com/courtlyhq/courtly/internal/db/generated"
	"github.com/courtlyhq/courtly/internal/testutil"
)

func TestCheckSlotFree(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	centerID := testutil.SeedCenter(t, database, "1.00")
	courtID := testutil.SeedCourt(t, database, centerID, "20.00", "tennis", false)
	userID := testutil.SeedUser(t, database, "0", "0")

	court, err := database.Queries.GetCourtByID(ctx, courtID)
	if err != nil {
		t.Fatalf("load court: %v", err)
	}

	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	ten := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)
	eleven := ten.Add(time.Hour)

	testutil.SeedReservation(t, database, userID, courtID, "tennis", "paid", "20.00", ten, eleven, nil)

	t.Run("overlapping slot conflicts", func(t *testing.T) {
		err := CheckSlotFree(ctx, database.Queries, court, "tennis", ten.Add(30*time.Minute), eleven.Add(30*time.Minute), 0, now)
		var conflict SlotConflictError
		if !errors.As(err, &conflict) {
			t.Fatalf("expected SlotConflictError, got %v", err)
		}
		if conflict.Maintenance {
			t.Error("conflict should come from a reservation, not maintenance")
		}
	})

	t.Run("adjacent slot is free", func(t *testing.T) {
		if err := CheckSlotFree(ctx, database.Queries, court, "tennis", eleven, eleven.Add(time.Hour), 0, now); err != nil {
			t.Errorf("11:00-12:00 should not conflict with 10:00-11:00: %v", err)
		}
	})

	t.Run("expired pending hold does not block", func(t *testing.T) {
		expired := now.Add(-time.Minute)
		testutil.SeedReservation(t, database, userID, courtID, "tennis", "pending", "20.00",
			ten.Add(3*time.Hour), eleven.Add(3*time.Hour), &expired)
		if err := CheckSlotFree(ctx, database.Queries, court, "tennis", ten.Add(3*time.Hour), eleven.Add(3*time.Hour), 0, now); err != nil {
			t.Errorf("expired hold should not block: %v", err)
		}
	})

	t.Run("unexpired pending hold blocks", func(t *testing.T) {
		live := now.Add(15 * time.Minute)
		testutil.SeedReservation(t, database, userID, courtID, "tennis", "pending", "20.00",
			ten.Add(5*time.Hour), eleven.Add(5*time.Hour), &live)
		err := CheckSlotFree(ctx, database.Queries, court, "tennis", ten.Add(5*time.Hour), eleven.Add(5*time.Hour), 0, now)
		var conflict SlotConflictError
		if !errors.As(err, &conflict) {
			t.Errorf("unexpired hold should block, got %v", err)
		}
	})

	t.Run("exclude own reservation", func(t *testing.T) {
		held := testutil.SeedReservation(t, database, userID, courtID, "tennis", "paid", "20.00",
			ten.Add(7*time.Hour), eleven.Add(7*time.Hour), nil)
		if err := CheckSlotFree(ctx, database.Queries, court, "tennis", ten.Add(7*time.Hour), eleven.Add(7*time.Hour), held, now); err != nil {
			t.Errorf("slot should be free when excluding its own reservation: %v", err)
		}
	})

	t.Run("scheduled maintenance blocks", func(t *testing.T) {
		_, err := database.ExecContext(ctx,
			`INSERT INTO maintenance_windows (court_id, start_time, end_time, status) VALUES (?, ?, ?, 'scheduled')`,
			courtID, ten.Add(9*time.Hour), eleven.Add(9*time.Hour))
		if err != nil {
			t.Fatalf("seed maintenance: %v", err)
		}
		err = CheckSlotFree(ctx, database.Queries, court, "tennis", ten.Add(9*time.Hour), eleven.Add(9*time.Hour), 0, now)
		var conflict SlotConflictError
		if !errors.As(err, &conflict) {
			t.Fatalf("expected SlotConflictError, got %v", err)
		}
		if !conflict.Maintenance {
			t.Error("conflict should be flagged as maintenance")
		}
	})

	t.Run("cancelled maintenance does not block", func(t *testing.T) {
		_, err := database.ExecContext(ctx,
			`INSERT INTO maintenance_windows (court_id, start_time, end_time, status) VALUES (?, ?, ?, 'cancelled')`,
			courtID, ten.Add(11*time.Hour), eleven.Add(11*time.Hour))
		if err != nil {
			t.Fatalf("seed maintenance: %v", err)
		}
		if err := CheckSlotFree(ctx, database.Queries, court, "tennis", ten.Add(11*time.Hour), eleven.Add(11*time.Hour), 0, now); err != nil {
			t.Errorf("cancelled maintenance should not block: %v", err)
		}
	})

	t.Run("wrong sport on single-use court", func(t *testing.T) {
		err := CheckSlotFree(ctx, database.Queries, court, "padel", eleven.Add(time.Hour), eleven.Add(2*time.Hour), 0, now)
		var notAllowed SportNotAllowedError
		if !errors.As(err, &notAllowed) {
			t.Errorf("expected SportNotAllowedError, got %v", err)
		}
	})

	t.Run("non-positive duration", func(t *testing.T) {
		err := CheckSlotFree(ctx, database.Queries, court, "tennis", ten, ten, 0, now)
		var validation ValidationError
		if !errors.As(err, &validation) {
			t.Errorf("expected ValidationError, got %v", err)
		}
	})
}

func TestValidateSportMultiuse(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	centerID := testutil.SeedCenter(t, database, "1.00")
	courtID := testutil.SeedCourt(t, database, centerID, "20.00", "tennis", true)
	for _, sport := range []string{"tennis", "padel"} {
		if err := database.Queries.AddCourtSport(ctx, dbgen.AddCourtSportParams{CourtID: courtID, Sport: sport}); err != nil {
			t.Fatalf("add court sport: %v", err)
		}
	}
	court, err := database.Queries.GetCourtByID(ctx, courtID)
	if err != nil {
		t.Fatalf("load court: %v", err)
	}

	if err := ValidateSport(ctx, database.Queries, court, "padel"); err != nil {
		t.Errorf("padel is tagged on the court: %v", err)
	}
	err = ValidateSport(ctx, database.Queries, court, "squash")
	var notAllowed SportNotAllowedError
	if !errors.As(err, &notAllowed) {
		t.Errorf("expected SportNotAllowedError for squash, got %v", err)
	}
}
