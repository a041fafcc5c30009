// internal/reconcile/service.go
package reconcile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/courtlyhq/courtly/internal/booking"
	"github.com/courtlyhq/courtly/internal/db"
	dbgen "github.com/courtlyhq/courtly/internal/db/generated"
	"github.com/courtlyhq/courtly/internal/outbox"
	"github.com/courtlyhq/courtly/internal/wallet"
)

var ErrHoldExpired = errors.New("hold expired")

// AmountMismatchError reports a funding amount that does not match the
// reservation's price within tolerance.
type AmountMismatchError struct {
	Expected decimal.Decimal
	Got      decimal.Decimal
}

func (e AmountMismatchError) Error() string {
	return fmt.Sprintf("amount %s does not match reservation total %s", e.Got, e.Expected)
}

// OutsideCheckInWindowError reports a check-in attempted before the
// tolerance window opens or after the slot ended.
type OutsideCheckInWindowError struct {
	Start time.Time
	End   time.Time
}

func (e OutsideCheckInWindowError) Error() string {
	return fmt.Sprintf("check-in only accepted between %s and %s",
		e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339))
}

// Payment methods recorded on funded reservations.
const (
	MethodCredits = "credits"
	MethodCard    = "card"
	MethodCash    = "cash"
)

// PaymentFact is the normalized signal a gateway webhook consumer
// delivers. Delivery may repeat; every operation derived from it is keyed
// on ExternalPaymentID.
type PaymentFact struct {
	ReservationID     int64
	ExternalPaymentID string
	Amount            decimal.Decimal
	Status            string // "confirmed" | "refunded"
}

const (
	FactConfirmed = "confirmed"
	FactRefunded  = "refunded"
)

// Service turns funding events into atomic state + ledger + outbox units.
type Service struct {
	db               *db.DB
	checkInTolerance time.Duration
}

func New(database *db.DB, checkInTolerance time.Duration) *Service {
	return &Service{db: database, checkInTolerance: checkInTolerance}
}

// centerRatio resolves the euro-per-credit ratio configured on the center
// owning the reservation's court.
func centerRatio(ctx context.Context, q *dbgen.Queries, courtID int64) (decimal.Decimal, error) {
	court, err := q.GetCourtByID(ctx, courtID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("loading court: %w", err)
	}
	center, err := q.GetCenterByID(ctx, court.CenterID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("loading center: %w", err)
	}
	return center.EuroPerCredit, nil
}

// ConfirmCreditPayment funds a pending hold from the user's stored
// credits: debit, transition to paid, outbox event — one transaction.
// Replaying the call after success is a no-op thanks to the deterministic
// debit key.
func (s *Service) ConfirmCreditPayment(ctx context.Context, reservationID int64, now time.Time) (dbgen.Reservation, error) {
	var updated dbgen.Reservation
	err := s.db.RunInTx(ctx, func(tx *db.DB) error {
		res, err := tx.Queries.GetReservationByID(ctx, reservationID)
		if err != nil {
			return err
		}
		if res.Status == booking.StatusPaid {
			updated = res
			return nil
		}
		if err := booking.CheckTransition(res.Status, booking.StatusPaid); err != nil {
			return err
		}
		if booking.HoldExpired(res.ExpiresAt.Time, res.ExpiresAt.Valid, now) {
			return ErrHoldExpired
		}

		ratio, err := centerRatio(ctx, tx.Queries, res.CourtID)
		if err != nil {
			return err
		}
		if !ratio.IsPositive() {
			return fmt.Errorf("center has non-positive euro-per-credit ratio %s", ratio)
		}
		credits := res.TotalPrice.Div(ratio)

		if _, err := wallet.Debit(ctx, tx.Queries, wallet.EntryParams{
			UserID:         res.UserID,
			Credits:        credits,
			Reason:         wallet.ReasonReservation,
			IdempotencyKey: wallet.DebitKey(wallet.SourceTypeReservation, res.ID),
			SourceType:     wallet.SourceTypeReservation,
			SourceID:       res.ID,
			Metadata: map[string]string{
				"euro_per_credit": ratio.String(),
				"amount_euro":     res.TotalPrice.String(),
			},
		}); err != nil {
			return err
		}

		updated, err = tx.Queries.MarkReservationPaid(ctx, dbgen.MarkReservationPaidParams{
			PaymentMethod: sql.NullString{String: MethodCredits, Valid: true},
			ID:            res.ID,
		})
		if err != nil {
			return fmt.Errorf("marking reservation paid: %w", err)
		}

		_, err = outbox.Append(ctx, tx.Queries, outbox.EventReservationPaid,
			outbox.AggregateReservation, res.ID, paymentEventPayload(updated))
		return err
	})
	return updated, err
}

// ConfirmGatewayPayment applies a "payment confirmed" webhook fact. Money
// already moved at the gateway, so no ledger entry is written; idempotency
// rests on the external payment id recorded on the reservation.
func (s *Service) ConfirmGatewayPayment(ctx context.Context, fact PaymentFact, now time.Time) (dbgen.Reservation, error) {
	if fact.Status == FactRefunded {
		return s.Refund(ctx, RefundRequest{
			ReservationID:  fact.ReservationID,
			AmountEuro:     fact.Amount,
			IdempotencyKey: "REFUND:GATEWAY:" + fact.ExternalPaymentID,
		}, now)
	}
	if fact.Status != FactConfirmed {
		return dbgen.Reservation{}, booking.ValidationError{Field: "status", Reason: "must be confirmed or refunded"}
	}
	if fact.ExternalPaymentID == "" {
		return dbgen.Reservation{}, booking.ValidationError{Field: "external_payment_id", Reason: "is required"}
	}

	var updated dbgen.Reservation
	err := s.db.RunInTx(ctx, func(tx *db.DB) error {
		res, err := tx.Queries.GetReservationByID(ctx, fact.ReservationID)
		if err != nil {
			return err
		}
		if res.Status == booking.StatusPaid && res.PaymentIntentID.Valid &&
			res.PaymentIntentID.String == fact.ExternalPaymentID {
			// Redelivered webhook for an already-applied payment.
			updated = res
			return nil
		}
		if err := booking.CheckTransition(res.Status, booking.StatusPaid); err != nil {
			return err
		}
		if booking.HoldExpired(res.ExpiresAt.Time, res.ExpiresAt.Valid, now) {
			return ErrHoldExpired
		}
		if !booking.AmountMatches(fact.Amount, res.TotalPrice) {
			return AmountMismatchError{Expected: res.TotalPrice, Got: fact.Amount}
		}

		updated, err = tx.Queries.MarkReservationPaid(ctx, dbgen.MarkReservationPaidParams{
			PaymentMethod:   sql.NullString{String: MethodCard, Valid: true},
			PaymentIntentID: sql.NullString{String: fact.ExternalPaymentID, Valid: true},
			ID:              res.ID,
		})
		if err != nil {
			return fmt.Errorf("marking reservation paid: %w", err)
		}

		_, err = outbox.Append(ctx, tx.Queries, outbox.EventReservationPaid,
			outbox.AggregateReservation, res.ID, paymentEventPayload(updated))
		return err
	})
	return updated, err
}

// RefundRequest describes an explicit refund. A zero AmountEuro means the
// full reservation price.
type RefundRequest struct {
	ReservationID  int64
	AmountEuro     decimal.Decimal
	IdempotencyKey string
}

// Refund reverses a funded reservation. The money moves first: for
// credit-funded reservations the wallet is credited back inside this
// transaction; for gateway-funded ones the gateway refund already happened
// upstream and only the fact is recorded. The state transition to
// refunded is the last step of the unit.
func (s *Service) Refund(ctx context.Context, req RefundRequest, now time.Time) (dbgen.Reservation, error) {
	var updated dbgen.Reservation
	err := s.db.RunInTx(ctx, func(tx *db.DB) error {
		res, err := tx.Queries.GetReservationByID(ctx, req.ReservationID)
		if err != nil {
			return err
		}
		if res.Status == booking.StatusRefunded {
			updated = res
			return nil
		}
		if err := booking.CheckTransition(res.Status, booking.StatusRefunded); err != nil {
			return err
		}

		amount := req.AmountEuro
		if amount.IsZero() {
			amount = res.TotalPrice
		}
		if amount.GreaterThan(res.TotalPrice) {
			return AmountMismatchError{Expected: res.TotalPrice, Got: amount}
		}

		if res.PaymentMethod.Valid && res.PaymentMethod.String == MethodCredits {
			ratio, err := centerRatio(ctx, tx.Queries, res.CourtID)
			if err != nil {
				return err
			}
			if _, err := wallet.Refund(ctx, tx.Queries, wallet.RefundParams{
				UserID:         res.UserID,
				SourceType:     wallet.SourceTypeReservation,
				SourceID:       res.ID,
				AmountEuro:     amount,
				EuroPerCredit:  ratio,
				IdempotencyKey: req.IdempotencyKey,
			}); err != nil {
				return err
			}
		}

		updated, err = tx.Queries.UpdateReservationStatus(ctx, dbgen.UpdateReservationStatusParams{
			Status: booking.StatusRefunded,
			ID:     res.ID,
		})
		if err != nil {
			return fmt.Errorf("marking reservation refunded: %w", err)
		}

		_, err = outbox.Append(ctx, tx.Queries, outbox.EventReservationRefunded,
			outbox.AggregateReservation, res.ID, map[string]string{
				"reservation_id": fmt.Sprint(res.ID),
				"amount_euro":    amount.String(),
			})
		return err
	})
	return updated, err
}

// Cancel releases an unfunded pending hold.
func (s *Service) Cancel(ctx context.Context, reservationID int64) (dbgen.Reservation, error) {
	var updated dbgen.Reservation
	err := s.db.RunInTx(ctx, func(tx *db.DB) error {
		res, err := tx.Queries.GetReservationByID(ctx, reservationID)
		if err != nil {
			return err
		}
		if res.Status == booking.StatusCancelled {
			updated = res
			return nil
		}
		if err := booking.CheckTransition(res.Status, booking.StatusCancelled); err != nil {
			return err
		}
		updated, err = tx.Queries.UpdateReservationStatus(ctx, dbgen.UpdateReservationStatusParams{
			Status: booking.StatusCancelled,
			ID:     res.ID,
		})
		if err != nil {
			return fmt.Errorf("cancelling reservation: %w", err)
		}
		_, err = outbox.Append(ctx, tx.Queries, outbox.EventReservationCancelled,
			outbox.AggregateReservation, res.ID, map[string]string{
				"reservation_id": fmt.Sprint(res.ID),
				"reason":         "cancelled",
			})
		return err
	})
	return updated, err
}

// CheckIn moves a paid reservation into progress if now is within the
// accepted window.
func (s *Service) CheckIn(ctx context.Context, reservationID int64, now time.Time) (dbgen.Reservation, error) {
	var updated dbgen.Reservation
	err := s.db.RunInTx(ctx, func(tx *db.DB) error {
		res, err := tx.Queries.GetReservationByID(ctx, reservationID)
		if err != nil {
			return err
		}
		if err := booking.CheckTransition(res.Status, booking.StatusInProgress); err != nil {
			return err
		}
		if !booking.InCheckInWindow(now, res.StartTime, res.EndTime, s.checkInTolerance) {
			return OutsideCheckInWindowError{
				Start: res.StartTime.Add(-s.checkInTolerance),
				End:   res.EndTime,
			}
		}
		updated, err = tx.Queries.SetReservationCheckIn(ctx, dbgen.SetReservationCheckInParams{
			CheckInTime: sql.NullTime{Time: now, Valid: true},
			ID:          res.ID,
		})
		if err != nil {
			return fmt.Errorf("checking in: %w", err)
		}
		_, err = outbox.Append(ctx, tx.Queries, outbox.EventReservationCheckedIn,
			outbox.AggregateReservation, res.ID, map[string]string{
				"reservation_id": fmt.Sprint(res.ID),
				"check_in_time":  now.Format(time.RFC3339),
			})
		return err
	})
	return updated, err
}

// CheckOut completes an in-progress reservation.
func (s *Service) CheckOut(ctx context.Context, reservationID int64, now time.Time) (dbgen.Reservation, error) {
	var updated dbgen.Reservation
	err := s.db.RunInTx(ctx, func(tx *db.DB) error {
		res, err := tx.Queries.GetReservationByID(ctx, reservationID)
		if err != nil {
			return err
		}
		if err := booking.CheckTransition(res.Status, booking.StatusCompleted); err != nil {
			return err
		}
		updated, err = tx.Queries.SetReservationCheckOut(ctx, dbgen.SetReservationCheckOutParams{
			CheckOutTime: sql.NullTime{Time: now, Valid: true},
			ID:           res.ID,
		})
		if err != nil {
			return fmt.Errorf("checking out: %w", err)
		}
		_, err = outbox.Append(ctx, tx.Queries, outbox.EventReservationCompleted,
			outbox.AggregateReservation, res.ID, map[string]string{
				"reservation_id": fmt.Sprint(res.ID),
				"check_out_time": now.Format(time.RFC3339),
			})
		return err
	})
	return updated, err
}

// ReleaseOwnHolds cancels the requester's own stale pending holds
// overlapping the slot, so an abandoned cart cannot deadlock the user out
// of rebooking. Other users' holds are untouched.
func (s *Service) ReleaseOwnHolds(ctx context.Context, userID, courtID int64, start, end time.Time) (int, error) {
	released := 0
	err := s.db.RunInTx(ctx, func(tx *db.DB) error {
		holds, err := tx.Queries.ListUserPendingHoldsForSlot(ctx, dbgen.ListUserPendingHoldsForSlotParams{
			UserID:    userID,
			CourtID:   courtID,
			EndTime:   end,
			StartTime: start,
		})
		if err != nil {
			return fmt.Errorf("listing own holds: %w", err)
		}
		for _, hold := range holds {
			if _, err := tx.Queries.UpdateReservationStatus(ctx, dbgen.UpdateReservationStatusParams{
				Status: booking.StatusCancelled,
				ID:     hold.ID,
			}); err != nil {
				return fmt.Errorf("releasing hold %d: %w", hold.ID, err)
			}
			if _, err := outbox.Append(ctx, tx.Queries, outbox.EventReservationCancelled,
				outbox.AggregateReservation, hold.ID, map[string]string{
					"reservation_id": fmt.Sprint(hold.ID),
					"reason":         "released_own_hold",
				}); err != nil {
				return err
			}
			released++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if released > 0 {
		log.Ctx(ctx).Info().
			Int64("user_id", userID).
			Int64("court_id", courtID).
			Int("released", released).
			Msg("Released stale holds before rebooking")
	}
	return released, nil
}

func paymentEventPayload(res dbgen.Reservation) map[string]string {
	payload := map[string]string{
		"reservation_id": fmt.Sprint(res.ID),
		"total_price":    res.TotalPrice.String(),
	}
	if res.PaymentMethod.Valid {
		payload["payment_method"] = res.PaymentMethod.String
	}
	if res.PaymentIntentID.Valid {
		payload["payment_intent_id"] = res.PaymentIntentID.String
	}
	return payload
}
