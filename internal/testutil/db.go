package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/courtlyhq/courtly/internal/db"
)

// NewTestDB creates a temporary SQLite database with migrations applied.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(dbPath)
	if err != nil {
		t.Fatalf("create test db: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	return database
}

// SeedCenter inserts a center with the given euro-per-credit ratio and
// returns its id.
func SeedCenter(t *testing.T, database *db.DB, euroPerCredit string) int64 {
	t.Helper()

	res, err := database.ExecContext(context.Background(),
		`INSERT INTO centers (name, slug, euro_per_credit) VALUES (?, ?, ?)`,
		"Test Center", "test-center", euroPerCredit)
	if err != nil {
		t.Fatalf("seed center: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("seed center id: %v", err)
	}
	return id
}

// SeedCourt inserts an active court on the center and returns its id.
func SeedCourt(t *testing.T, database *db.DB, centerID int64, basePrice, sport string, multiuse bool) int64 {
	t.Helper()

	res, err := database.ExecContext(context.Background(),
		`INSERT INTO courts (center_id, name, base_price_per_hour, is_multiuse, default_sport, is_active)
		 VALUES (?, ?, ?, ?, ?, 1)`,
		centerID, "Court 1", basePrice, multiuse, sport)
	if err != nil {
		t.Fatalf("seed court: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("seed court id: %v", err)
	}
	return id
}

// SeedUser inserts a user with the given tariff discount and credit
// balance and returns its id.
func SeedUser(t *testing.T, database *db.DB, discountPct, balance string) int64 {
	t.Helper()

	res, err := database.ExecContext(context.Background(),
		`INSERT INTO users (first_name, last_name, email, tariff_discount_pct, credit_balance)
		 VALUES (?, ?, ?, ?, ?)`,
		"Alex", "Tester", "alex@example.com", discountPct, balance)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("seed user id: %v", err)
	}
	return id
}

// SeedReservation inserts a reservation row directly and returns its id.
func SeedReservation(t *testing.T, database *db.DB, userID, courtID int64, sport, status, totalPrice string, start, end time.Time, expiresAt *time.Time) int64 {
	t.Helper()

	res, err := database.ExecContext(context.Background(),
		`INSERT INTO reservations (user_id, court_id, sport, start_time, end_time, status, total_price, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, courtID, sport, start, end, status, totalPrice, expiresAt)
	if err != nil {
		t.Fatalf("seed reservation: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("seed reservation id: %v", err)
	}
	return id
}
