package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/courtlyhq/courtly/internal/db"
	"github.com/courtlyhq/courtly/internal/testutil"
)

func countLedgerRows(t *testing.T, database *db.DB, userID int64) int {
	t.Helper()
	var n int
	err := database.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM wallet_ledger WHERE user_id = ?`, userID).Scan(&n)
	if err != nil {
		t.Fatalf("count ledger rows: %v", err)
	}
	return n
}

func TestDebitAndBalance(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	userID := testutil.SeedUser(t, database, "0", "10.00")

	err := database.RunInTx(ctx, func(tx *db.DB) error {
		entry, err := Debit(ctx, tx.Queries, EntryParams{
			UserID:         userID,
			Credits:        decimal.RequireFromString("3.50"),
			Reason:         ReasonReservation,
			IdempotencyKey: "DEBIT:RESERVATION:1",
			SourceType:     SourceTypeReservation,
			SourceID:       1,
		})
		if err != nil {
			return err
		}
		if entry.BalanceAfter.String() != "6.5" {
			t.Errorf("balance_after = %s, want 6.5", entry.BalanceAfter)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("debit: %v", err)
	}

	user, err := database.Queries.GetUserByID(ctx, userID)
	if err != nil {
		t.Fatalf("load user: %v", err)
	}
	if user.CreditBalance.Cmp(decimal.RequireFromString("6.5")) != 0 {
		t.Errorf("denormalized balance = %s, want 6.5", user.CreditBalance)
	}
}

func TestDebitIdempotentReplay(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	userID := testutil.SeedUser(t, database, "0", "10.00")

	params := EntryParams{
		UserID:         userID,
		Credits:        decimal.RequireFromString("4.00"),
		Reason:         ReasonReservation,
		IdempotencyKey: "DEBIT:RESERVATION:7",
		SourceType:     SourceTypeReservation,
		SourceID:       7,
	}

	var first, second int64
	err := database.RunInTx(ctx, func(tx *db.DB) error {
		entry, err := Debit(ctx, tx.Queries, params)
		first = entry.ID
		return err
	})
	if err != nil {
		t.Fatalf("first debit: %v", err)
	}
	err = database.RunInTx(ctx, func(tx *db.DB) error {
		entry, err := Debit(ctx, tx.Queries, params)
		second = entry.ID
		return err
	})
	if err != nil {
		t.Fatalf("replayed debit: %v", err)
	}

	if first != second {
		t.Errorf("replay returned a different entry: %d vs %d", first, second)
	}
	if n := countLedgerRows(t, database, userID); n != 1 {
		t.Errorf("expected exactly one ledger row, got %d", n)
	}
	user, _ := database.Queries.GetUserByID(ctx, userID)
	if user.CreditBalance.Cmp(decimal.RequireFromString("6")) != 0 {
		t.Errorf("balance debited more than once: %s", user.CreditBalance)
	}
}

func TestDebitInsufficientBalance(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	userID := testutil.SeedUser(t, database, "0", "5.00")

	err := database.RunInTx(ctx, func(tx *db.DB) error {
		_, err := Debit(ctx, tx.Queries, EntryParams{
			UserID:         userID,
			Credits:        decimal.RequireFromString("7.00"),
			Reason:         ReasonReservation,
			IdempotencyKey: "DEBIT:RESERVATION:9",
		})
		return err
	})
	var insufficient InsufficientBalanceError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientBalanceError, got %v", err)
	}
	if insufficient.Available.String() != "5" {
		t.Errorf("available = %s, want 5", insufficient.Available)
	}
	if n := countLedgerRows(t, database, userID); n != 0 {
		t.Errorf("failed debit must not leave a ledger row, got %d", n)
	}
}

func TestRefundCappedAtCharge(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	userID := testutil.SeedUser(t, database, "0", "20.00")

	one := decimal.RequireFromString("1.00")

	err := database.RunInTx(ctx, func(tx *db.DB) error {
		_, err := Debit(ctx, tx.Queries, EntryParams{
			UserID:         userID,
			Credits:        decimal.RequireFromString("10.00"),
			Reason:         ReasonReservation,
			IdempotencyKey: DebitKey(SourceTypeReservation, 3),
			SourceType:     SourceTypeReservation,
			SourceID:       3,
		})
		return err
	})
	if err != nil {
		t.Fatalf("charge: %v", err)
	}

	err = database.RunInTx(ctx, func(tx *db.DB) error {
		_, err := Refund(ctx, tx.Queries, RefundParams{
			UserID:        userID,
			SourceType:    SourceTypeReservation,
			SourceID:      3,
			AmountEuro:    decimal.RequireFromString("6.00"),
			EuroPerCredit: one,
		})
		return err
	})
	if err != nil {
		t.Fatalf("partial refund: %v", err)
	}

	err = database.RunInTx(ctx, func(tx *db.DB) error {
		_, err := Refund(ctx, tx.Queries, RefundParams{
			UserID:        userID,
			SourceType:    SourceTypeReservation,
			SourceID:      3,
			AmountEuro:    decimal.RequireFromString("5.00"),
			EuroPerCredit: one,
		})
		return err
	})
	if !errors.Is(err, ErrRefundExceedsCharge) {
		t.Fatalf("expected ErrRefundExceedsCharge, got %v", err)
	}

	user, _ := database.Queries.GetUserByID(ctx, userID)
	if user.CreditBalance.Cmp(decimal.RequireFromString("16")) != 0 {
		t.Errorf("balance = %s, want 16 (20 - 10 + 6)", user.CreditBalance)
	}
}

func TestRefundSnapshotsRatioInMetadata(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	userID := testutil.SeedUser(t, database, "0", "100.00")

	err := database.RunInTx(ctx, func(tx *db.DB) error {
		_, err := Debit(ctx, tx.Queries, EntryParams{
			UserID:         userID,
			Credits:        decimal.RequireFromString("10.00"),
			Reason:         ReasonReservation,
			IdempotencyKey: DebitKey(SourceTypeReservation, 5),
			SourceType:     SourceTypeReservation,
			SourceID:       5,
		})
		return err
	})
	if err != nil {
		t.Fatalf("charge: %v", err)
	}

	var metadata string
	err = database.RunInTx(ctx, func(tx *db.DB) error {
		entry, err := Refund(ctx, tx.Queries, RefundParams{
			UserID:        userID,
			SourceType:    SourceTypeReservation,
			SourceID:      5,
			AmountEuro:    decimal.RequireFromString("5.00"),
			EuroPerCredit: decimal.RequireFromString("2.00"),
		})
		metadata = entry.Metadata
		return err
	})
	if err != nil {
		t.Fatalf("refund: %v", err)
	}
	if metadata == "{}" || metadata == "" {
		t.Fatal("refund entry should snapshot the conversion ratio in metadata")
	}
	entry, err := database.Queries.GetLedgerEntryByIdempotencyKey(ctx,
		RefundKey(SourceTypeReservation, 5, decimal.RequireFromString("5.00")))
	if err != nil {
		t.Fatalf("lookup refund entry: %v", err)
	}
	// 5 euro at 2 euro per credit -> 2.5 credits.
	if entry.Credits.Cmp(decimal.RequireFromString("2.5")) != 0 {
		t.Errorf("refund credits = %s, want 2.5", entry.Credits)
	}
}

func TestReconstructBalanceMatchesDenormalized(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	userID := testutil.SeedUser(t, database, "0", "0")

	movements := []struct {
		entryType string
		credits   string
		key       string
	}{
		{EntryTypeCredit, "50.00", "TOPUP:1"},
		{EntryTypeDebit, "12.25", "DEBIT:RESERVATION:11"},
		{EntryTypeCredit, "2.25", "REFUND:RESERVATION:11:2.25"},
		{EntryTypeDebit, "8.00", "DEBIT:RESERVATION:12"},
	}
	for _, m := range movements {
		err := database.RunInTx(ctx, func(tx *db.DB) error {
			params := EntryParams{
				UserID:         userID,
				Credits:        decimal.RequireFromString(m.credits),
				Reason:         ReasonTopUp,
				IdempotencyKey: m.key,
			}
			var err error
			if m.entryType == EntryTypeDebit {
				_, err = Debit(ctx, tx.Queries, params)
			} else {
				_, err = Credit(ctx, tx.Queries, params)
			}
			return err
		})
		if err != nil {
			t.Fatalf("movement %s: %v", m.key, err)
		}
	}

	replayed, err := ReconstructBalance(ctx, database.Queries, userID)
	if err != nil {
		t.Fatalf("reconstruct: %v", err)
	}
	user, _ := database.Queries.GetUserByID(ctx, userID)
	if replayed.Cmp(user.CreditBalance) != 0 {
		t.Errorf("replayed balance %s != denormalized %s", replayed, user.CreditBalance)
	}
	if replayed.Cmp(decimal.RequireFromString("32")) != 0 {
		t.Errorf("replayed balance = %s, want 32", replayed)
	}
}
