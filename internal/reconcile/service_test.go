package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/courtlyhq/courtly/internal/booking"
	"github.com/courtlyhq/courtly/internal/db"
	"github.com/courtlyhq/courtly/internal/outbox"
	"github.com/courtlyhq/courtly/internal/testutil"
	"github.com/courtlyhq/courtly/internal/wallet"
)

type fixture struct {
	db       *db.DB
	svc      *Service
	centerID int64
	courtID  int64
	userID   int64
}

func newFixture(t *testing.T, balance string) fixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	centerID := testutil.SeedCenter(t, database, "1.00")
	courtID := testutil.SeedCourt(t, database, centerID, "20.00", "tennis", false)
	userID := testutil.SeedUser(t, database, "0", balance)
	return fixture{
		db:       database,
		svc:      New(database, 15*time.Minute),
		centerID: centerID,
		courtID:  courtID,
		userID:   userID,
	}
}

var (
	slotStart = time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)
	slotEnd   = slotStart.Add(time.Hour)
)

func (f fixture) pendingReservation(t *testing.T, price string, expiresAt time.Time) int64 {
	t.Helper()
	return testutil.SeedReservation(t, f.db, f.userID, f.courtID, "tennis",
		booking.StatusPending, price, slotStart, slotEnd, &expiresAt)
}

func countLedgerRows(t *testing.T, database *db.DB) int {
	t.Helper()
	var n int
	if err := database.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM wallet_ledger`).Scan(&n); err != nil {
		t.Fatalf("count ledger rows: %v", err)
	}
	return n
}

func TestConfirmCreditPayment(t *testing.T) {
	f := newFixture(t, "50.00")
	ctx := context.Background()
	now := slotStart.Add(-time.Hour)
	resID := f.pendingReservation(t, "18.00", now.Add(15*time.Minute))

	res, err := f.svc.ConfirmCreditPayment(ctx, resID, now)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if res.Status != booking.StatusPaid {
		t.Errorf("status = %s, want paid", res.Status)
	}
	if !res.PaymentMethod.Valid || res.PaymentMethod.String != MethodCredits {
		t.Errorf("payment method = %v, want credits", res.PaymentMethod)
	}

	user, _ := f.db.Queries.GetUserByID(ctx, f.userID)
	if user.CreditBalance.Cmp(decimal.RequireFromString("32")) != 0 {
		t.Errorf("balance = %s, want 32", user.CreditBalance)
	}

	events, err := outbox.ListByReservation(ctx, f.db.Queries, resID)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 1 || events[0].EventType != outbox.EventReservationPaid {
		t.Errorf("expected exactly one paid event, got %+v", events)
	}

	// Retried confirmation is a no-op.
	if _, err := f.svc.ConfirmCreditPayment(ctx, resID, now); err != nil {
		t.Fatalf("replayed confirm: %v", err)
	}
	user, _ = f.db.Queries.GetUserByID(ctx, f.userID)
	if user.CreditBalance.Cmp(decimal.RequireFromString("32")) != 0 {
		t.Errorf("replay double-charged: balance = %s", user.CreditBalance)
	}
	if n := countLedgerRows(t, f.db); n != 1 {
		t.Errorf("expected one ledger row after replay, got %d", n)
	}
}

func TestConfirmCreditPaymentExpiredHold(t *testing.T) {
	f := newFixture(t, "50.00")
	ctx := context.Background()
	now := slotStart.Add(-time.Hour)
	resID := f.pendingReservation(t, "18.00", now.Add(-time.Minute))

	_, err := f.svc.ConfirmCreditPayment(ctx, resID, now)
	if !errors.Is(err, ErrHoldExpired) {
		t.Fatalf("expected ErrHoldExpired, got %v", err)
	}
	res, _ := f.db.Queries.GetReservationByID(ctx, resID)
	if res.Status != booking.StatusPending {
		t.Errorf("expired confirmation must not change state, got %s", res.Status)
	}
	if n := countLedgerRows(t, f.db); n != 0 {
		t.Errorf("expired confirmation must not move money, got %d ledger rows", n)
	}
}

func TestConfirmCreditPaymentInsufficientBalance(t *testing.T) {
	f := newFixture(t, "5.00")
	ctx := context.Background()
	now := slotStart.Add(-time.Hour)
	resID := f.pendingReservation(t, "7.00", now.Add(15*time.Minute))

	_, err := f.svc.ConfirmCreditPayment(ctx, resID, now)
	var insufficient wallet.InsufficientBalanceError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientBalanceError, got %v", err)
	}
	res, _ := f.db.Queries.GetReservationByID(ctx, resID)
	if res.Status != booking.StatusPending {
		t.Errorf("reservation must stay pending, got %s", res.Status)
	}
	if n := countLedgerRows(t, f.db); n != 0 {
		t.Errorf("no ledger row expected, got %d", n)
	}
}

func TestConfirmGatewayPayment(t *testing.T) {
	f := newFixture(t, "0")
	ctx := context.Background()
	now := slotStart.Add(-time.Hour)
	resID := f.pendingReservation(t, "18.00", now.Add(15*time.Minute))

	fact := PaymentFact{
		ReservationID:     resID,
		ExternalPaymentID: "pi_123",
		Amount:            decimal.RequireFromString("18.00"),
		Status:            FactConfirmed,
	}
	res, err := f.svc.ConfirmGatewayPayment(ctx, fact, now)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if res.Status != booking.StatusPaid || !res.PaymentIntentID.Valid || res.PaymentIntentID.String != "pi_123" {
		t.Errorf("unexpected reservation after confirm: %+v", res)
	}

	// Redelivered webhook: same fact, no duplicate event.
	if _, err := f.svc.ConfirmGatewayPayment(ctx, fact, now); err != nil {
		t.Fatalf("redelivery: %v", err)
	}
	events, _ := outbox.ListByReservation(ctx, f.db.Queries, resID)
	if len(events) != 1 {
		t.Errorf("redelivery must not append another event, got %d", len(events))
	}
}

func TestConfirmGatewayPaymentAmountMismatch(t *testing.T) {
	f := newFixture(t, "0")
	ctx := context.Background()
	now := slotStart.Add(-time.Hour)
	resID := f.pendingReservation(t, "18.00", now.Add(15*time.Minute))

	_, err := f.svc.ConfirmGatewayPayment(ctx, PaymentFact{
		ReservationID:     resID,
		ExternalPaymentID: "pi_456",
		Amount:            decimal.RequireFromString("17.00"),
		Status:            FactConfirmed,
	}, now)
	var mismatch AmountMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected AmountMismatchError, got %v", err)
	}
	res, _ := f.db.Queries.GetReservationByID(ctx, resID)
	if res.Status != booking.StatusPending {
		t.Errorf("mismatched payment must not change state, got %s", res.Status)
	}
}

func TestRefundCreditFunded(t *testing.T) {
	f := newFixture(t, "50.00")
	ctx := context.Background()
	now := slotStart.Add(-time.Hour)
	resID := f.pendingReservation(t, "18.00", now.Add(15*time.Minute))

	if _, err := f.svc.ConfirmCreditPayment(ctx, resID, now); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	res, err := f.svc.Refund(ctx, RefundRequest{ReservationID: resID}, now)
	if err != nil {
		t.Fatalf("refund: %v", err)
	}
	if res.Status != booking.StatusRefunded {
		t.Errorf("status = %s, want refunded", res.Status)
	}
	user, _ := f.db.Queries.GetUserByID(ctx, f.userID)
	if user.CreditBalance.Cmp(decimal.RequireFromString("50")) != 0 {
		t.Errorf("balance = %s, want full 50 restored", user.CreditBalance)
	}

	// Refunding again is idempotent: already refunded, balance unchanged.
	if _, err := f.svc.Refund(ctx, RefundRequest{ReservationID: resID}, now); err != nil {
		t.Fatalf("second refund: %v", err)
	}
	user, _ = f.db.Queries.GetUserByID(ctx, f.userID)
	if user.CreditBalance.Cmp(decimal.RequireFromString("50")) != 0 {
		t.Errorf("second refund moved money: %s", user.CreditBalance)
	}
}

func TestRefundFromPendingRejected(t *testing.T) {
	f := newFixture(t, "0")
	ctx := context.Background()
	now := slotStart.Add(-time.Hour)
	resID := f.pendingReservation(t, "18.00", now.Add(15*time.Minute))

	_, err := f.svc.Refund(ctx, RefundRequest{ReservationID: resID}, now)
	if !errors.Is(err, booking.ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition, got %v", err)
	}
}

func TestCancelGuards(t *testing.T) {
	f := newFixture(t, "0")
	ctx := context.Background()
	now := slotStart.Add(-time.Hour)
	resID := f.pendingReservation(t, "18.00", now.Add(15*time.Minute))

	res, err := f.svc.Cancel(ctx, resID)
	if err != nil {
		t.Fatalf("cancel pending: %v", err)
	}
	if res.Status != booking.StatusCancelled {
		t.Errorf("status = %s, want cancelled", res.Status)
	}

	completedID := testutil.SeedReservation(t, f.db, f.userID, f.courtID, "tennis",
		booking.StatusCompleted, "18.00", slotStart, slotEnd, nil)
	if _, err := f.svc.Cancel(ctx, completedID); !errors.Is(err, booking.ErrIllegalTransition) {
		t.Fatalf("cancelling a completed reservation should fail, got %v", err)
	}
	stored, _ := f.db.Queries.GetReservationByID(ctx, completedID)
	if stored.Status != booking.StatusCompleted {
		t.Errorf("rejected transition must leave state unchanged, got %s", stored.Status)
	}
}

func TestCheckInAndOut(t *testing.T) {
	f := newFixture(t, "50.00")
	ctx := context.Background()
	resID := testutil.SeedReservation(t, f.db, f.userID, f.courtID, "tennis",
		booking.StatusPaid, "18.00", slotStart, slotEnd, nil)

	if _, err := f.svc.CheckIn(ctx, resID, slotStart.Add(-time.Hour)); err == nil {
		t.Fatal("check-in an hour early should be rejected")
	} else {
		var window OutsideCheckInWindowError
		if !errors.As(err, &window) {
			t.Fatalf("expected OutsideCheckInWindowError, got %v", err)
		}
	}

	res, err := f.svc.CheckIn(ctx, resID, slotStart.Add(-10*time.Minute))
	if err != nil {
		t.Fatalf("check-in: %v", err)
	}
	if res.Status != booking.StatusInProgress || !res.CheckInTime.Valid {
		t.Errorf("unexpected reservation after check-in: %+v", res)
	}

	res, err = f.svc.CheckOut(ctx, resID, slotStart.Add(50*time.Minute))
	if err != nil {
		t.Fatalf("check-out: %v", err)
	}
	if res.Status != booking.StatusCompleted || !res.CheckOutTime.Valid {
		t.Errorf("unexpected reservation after check-out: %+v", res)
	}

	events, _ := outbox.ListByReservation(ctx, f.db.Queries, resID)
	if len(events) != 2 {
		t.Errorf("expected check-in and completed events, got %d", len(events))
	}
}

func TestReleaseOwnHolds(t *testing.T) {
	f := newFixture(t, "0")
	ctx := context.Background()
	otherUser := testutil.SeedUser(t, f.db, "0", "0")
	expiry := slotStart.Add(time.Hour)

	ownHold := f.pendingReservation(t, "18.00", expiry)
	otherHold := testutil.SeedReservation(t, f.db, otherUser, f.courtID, "tennis",
		booking.StatusPending, "18.00", slotStart, slotEnd, &expiry)

	released, err := f.svc.ReleaseOwnHolds(ctx, f.userID, f.courtID, slotStart, slotEnd)
	if err != nil {
		t.Fatalf("release: %v", err)
	}
	if released != 1 {
		t.Errorf("released = %d, want 1", released)
	}

	own, _ := f.db.Queries.GetReservationByID(ctx, ownHold)
	if own.Status != booking.StatusCancelled {
		t.Errorf("own hold status = %s, want cancelled", own.Status)
	}
	other, _ := f.db.Queries.GetReservationByID(ctx, otherHold)
	if other.Status != booking.StatusPending {
		t.Errorf("other user's hold must stay pending, got %s", other.Status)
	}
}
