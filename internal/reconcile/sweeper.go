// internal/reconcile/sweeper.go
package reconcile

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/courtlyhq/courtly/internal/booking"
	"github.com/courtlyhq/courtly/internal/db"
	dbgen "github.com/courtlyhq/courtly/internal/db/generated"
	"github.com/courtlyhq/courtly/internal/outbox"
)

const sweepBatchSize = 100

// SweepAutoComplete finalizes in-progress reservations whose slot has
// elapsed: checkOutTime is pinned to endTime, not to when the sweep ran.
// Each reservation is its own transaction so one failure does not stall
// the batch. Zero candidates is a normal no-op.
func (s *Service) SweepAutoComplete(ctx context.Context, now time.Time) (int, error) {
	candidates, err := s.db.Queries.ListElapsedInProgress(ctx, dbgen.ListElapsedInProgressParams{
		Now:   now,
		Limit: sweepBatchSize,
	})
	if err != nil {
		return 0, fmt.Errorf("listing elapsed reservations: %w", err)
	}

	completed := 0
	for _, candidate := range candidates {
		err := s.db.RunInTx(ctx, func(tx *db.DB) error {
			res, err := tx.Queries.GetReservationByID(ctx, candidate.ID)
			if err != nil {
				return err
			}
			// Another sweep or an explicit check-out may have won.
			if res.Status != booking.StatusInProgress {
				return nil
			}
			if _, err := tx.Queries.SetReservationCheckOut(ctx, dbgen.SetReservationCheckOutParams{
				CheckOutTime: sql.NullTime{Time: res.EndTime, Valid: true},
				ID:           res.ID,
			}); err != nil {
				return fmt.Errorf("completing reservation: %w", err)
			}
			_, err = outbox.Append(ctx, tx.Queries, outbox.EventReservationCompleted,
				outbox.AggregateReservation, res.ID, map[string]string{
					"reservation_id": fmt.Sprint(res.ID),
					"check_out_time": res.EndTime.Format(time.RFC3339),
					"source":         "sweep",
				})
			return err
		})
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Int64("reservation_id", candidate.ID).
				Msg("Auto-complete sweep failed for reservation")
			continue
		}
		completed++
	}
	return completed, nil
}

// SweepExpiredHolds cancels pending holds whose expiry has lapsed,
// releasing their slots.
func (s *Service) SweepExpiredHolds(ctx context.Context, now time.Time) (int, error) {
	candidates, err := s.db.Queries.ListExpiredPendingHolds(ctx, dbgen.ListExpiredPendingHoldsParams{
		Now:   now,
		Limit: sweepBatchSize,
	})
	if err != nil {
		return 0, fmt.Errorf("listing expired holds: %w", err)
	}

	cancelled := 0
	for _, candidate := range candidates {
		err := s.db.RunInTx(ctx, func(tx *db.DB) error {
			res, err := tx.Queries.GetReservationByID(ctx, candidate.ID)
			if err != nil {
				return err
			}
			if res.Status != booking.StatusPending {
				return nil
			}
			if _, err := tx.Queries.UpdateReservationStatus(ctx, dbgen.UpdateReservationStatusParams{
				Status: booking.StatusCancelled,
				ID:     res.ID,
			}); err != nil {
				return fmt.Errorf("cancelling expired hold: %w", err)
			}
			_, err = outbox.Append(ctx, tx.Queries, outbox.EventReservationCancelled,
				outbox.AggregateReservation, res.ID, map[string]string{
					"reservation_id": fmt.Sprint(res.ID),
					"reason":         "hold_expired",
				})
			return err
		})
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Int64("reservation_id", candidate.ID).
				Msg("Expired-hold sweep failed for reservation")
			continue
		}
		cancelled++
	}
	return cancelled, nil
}

// SweepNoShows flags paid reservations whose slot elapsed without a
// check-in.
func (s *Service) SweepNoShows(ctx context.Context, now time.Time) (int, error) {
	candidates, err := s.db.Queries.ListElapsedPaidWithoutCheckIn(ctx, dbgen.ListElapsedPaidWithoutCheckInParams{
		Now:   now,
		Limit: sweepBatchSize,
	})
	if err != nil {
		return 0, fmt.Errorf("listing no-show candidates: %w", err)
	}

	flagged := 0
	for _, candidate := range candidates {
		err := s.db.RunInTx(ctx, func(tx *db.DB) error {
			res, err := tx.Queries.GetReservationByID(ctx, candidate.ID)
			if err != nil {
				return err
			}
			if res.Status != booking.StatusPaid || res.CheckInTime.Valid {
				return nil
			}
			if _, err := tx.Queries.UpdateReservationStatus(ctx, dbgen.UpdateReservationStatusParams{
				Status: booking.StatusNoShow,
				ID:     res.ID,
			}); err != nil {
				return fmt.Errorf("flagging no-show: %w", err)
			}
			_, err = outbox.Append(ctx, tx.Queries, outbox.EventReservationNoShow,
				outbox.AggregateReservation, res.ID, map[string]string{
					"reservation_id": fmt.Sprint(res.ID),
				})
			return err
		})
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Int64("reservation_id", candidate.ID).
				Msg("No-show sweep failed for reservation")
			continue
		}
		flagged++
	}
	return flagged, nil
}
