// internal/booking/state.go
package booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Reservation lifecycle statuses as stored in the reservations table.
const (
	StatusPending    = "pending"
	StatusPaid       = "paid"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
	StatusNoShow     = "no_show"
	StatusRefunded   = "refunded"
)

var ErrIllegalTransition = errors.New("illegal reservation state transition")

// allowedTransitions is the full lifecycle graph. Terminal states have no
// outgoing edges except paid/completed -> refunded.
var allowedTransitions = map[string][]string{
	StatusPending:    {StatusPaid, StatusCancelled},
	StatusPaid:       {StatusInProgress, StatusNoShow, StatusRefunded},
	StatusInProgress: {StatusCompleted},
	StatusCompleted:  {StatusRefunded},
	StatusCancelled:  {},
	StatusNoShow:     {},
	StatusRefunded:   {},
}

func IsTerminal(status string) bool {
	switch status {
	case StatusCompleted, StatusCancelled, StatusNoShow, StatusRefunded:
		return true
	}
	return false
}

func CanTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckTransition validates a single edge of the lifecycle graph. The
// returned error wraps ErrIllegalTransition so callers can distinguish it
// from not-found and infrastructure failures.
func CheckTransition(from, to string) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
	}
	return nil
}

// amountTolerance is the largest acceptable gap between a funded amount
// and the reservation's total price, in currency units.
var amountTolerance = decimal.NewFromFloat(0.01)

func AmountMatches(funded, total decimal.Decimal) bool {
	return funded.Sub(total).Abs().Cmp(amountTolerance) <= 0
}

// InCheckInWindow reports whether now falls within
// [start - tolerance, end], the interval during which check-in is accepted.
func InCheckInWindow(now, start, end time.Time, tolerance time.Duration) bool {
	return !now.Before(start.Add(-tolerance)) && !now.After(end)
}

// HoldExpired reports whether an unfunded pending hold has lapsed.
// A hold with no expiry never expires.
func HoldExpired(expiresAt time.Time, hasExpiry bool, now time.Time) bool {
	return hasExpiry && !expiresAt.After(now)
}
