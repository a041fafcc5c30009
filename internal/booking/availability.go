// internal/booking/availability.go
package booking

import (
	"context"
	"fmt"
	"time"

	dbgen "github.com/courtlyhq/courtly/internal/db/generated"
)

// Maintenance window lifecycle. Only scheduled windows block bookings.
const (
	MaintenanceScheduled = "scheduled"
	MaintenanceCompleted = "completed"
	MaintenanceCancelled = "cancelled"
)

// SlotConflictError reports the first overlapping booking or maintenance
// window blocking a requested slot.
type SlotConflictError struct {
	CourtID     int64
	Start       time.Time
	End         time.Time
	Maintenance bool
}

func (e SlotConflictError) Error() string {
	if e.Maintenance {
		return fmt.Sprintf("court %d blocked by maintenance %s-%s",
			e.CourtID, e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339))
	}
	return fmt.Sprintf("court %d already booked %s-%s",
		e.CourtID, e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339))
}

// ValidationError reports a malformed booking request (bad duration,
// unknown field value) rather than a state conflict.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// SportNotAllowedError is a domain error, distinct from a slot conflict:
// retrying the same slot with an allowed sport may succeed.
type SportNotAllowedError struct {
	CourtID int64
	Sport   string
}

func (e SportNotAllowedError) Error() string {
	return fmt.Sprintf("sport %q not allowed on court %d", e.Sport, e.CourtID)
}

// ValidateSport checks the requested sport against the court's
// configuration. Non-multiuse courts carry exactly one implicit sport;
// multiuse courts allow any sport tagged in court_sports.
func ValidateSport(ctx context.Context, q *dbgen.Queries, court dbgen.Court, sport string) error {
	if !court.IsMultiuse {
		if sport != court.DefaultSport {
			return SportNotAllowedError{CourtID: court.ID, Sport: sport}
		}
		return nil
	}
	allowed, err := q.ListCourtSports(ctx, court.ID)
	if err != nil {
		return fmt.Errorf("loading court sports: %w", err)
	}
	for _, s := range allowed {
		if s == sport {
			return nil
		}
	}
	return SportNotAllowedError{CourtID: court.ID, Sport: sport}
}

// CheckSlotFree determines whether [start, end) on the court is bookable.
// Half-open semantics: a slot ending exactly when another starts does not
// conflict. Blocking reservations are paid, in-progress, and unexpired
// pending holds; scheduled maintenance windows block regardless of sport.
// Multiuse courts are single-occupancy per instant, so any overlapping
// booking conflicts even when its sport differs.
//
// Callers must run this on a transactional querier in the same transaction
// as the reservation insert, so two concurrent requests cannot both
// observe "free".
func CheckSlotFree(ctx context.Context, q *dbgen.Queries, court dbgen.Court, sport string, start, end time.Time, excludeReservationID int64, now time.Time) error {
	if !end.After(start) {
		return ValidationError{Field: "end_time", Reason: "must be after start_time"}
	}
	if err := ValidateSport(ctx, q, court, sport); err != nil {
		return err
	}

	conflicts, err := q.CountConflictingReservations(ctx, dbgen.CountConflictingReservationsParams{
		CourtID:   court.ID,
		ExcludeID: excludeReservationID,
		EndTime:   end,
		StartTime: start,
		Now:       now,
	})
	if err != nil {
		return fmt.Errorf("conflict check failed: %w", err)
	}
	if conflicts > 0 {
		return SlotConflictError{CourtID: court.ID, Start: start, End: end}
	}

	blocked, err := q.CountBlockingMaintenance(ctx, dbgen.CountBlockingMaintenanceParams{
		CourtID:   court.ID,
		EndTime:   end,
		StartTime: start,
	})
	if err != nil {
		return fmt.Errorf("maintenance check failed: %w", err)
	}
	if blocked > 0 {
		return SlotConflictError{CourtID: court.ID, Start: start, End: end, Maintenance: true}
	}

	return nil
}
