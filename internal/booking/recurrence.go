// internal/booking/recurrence.go
package booking

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// maxOccurrences caps a single expansion so a misconfigured every-minute
// expression cannot materialize an unbounded number of windows.
const maxOccurrences = 1000

// Occurrence is one materialized window of a recurring series.
type Occurrence struct {
	Start time.Time
	End   time.Time
}

// ExpandSeries expands a standard 5-field cron expression into concrete
/// occurrences within [from, from+horizon). Pure function: callers persist
// the occurrences as maintenance windows themselves.
func ExpandSeries(cronExpr string, duration time.Duration, from time.Time, horizon time.Duration) ([]Occurrence, error) {
	if duration <= 0 {
		return nil, ValidationError{Field: "duration_minutes", Reason: "must be greater than 0"}
	}
	if horizon <= 0 {
		return nil, ValidationError{Field: "horizon", Reason: "must be greater than 0"}
	}

	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid recurrence expression %q: %w", cronExpr, err)
	}

	until := from.Add(horizon)
	var occurrences []Occurrence
	next := schedule.Next(from)
	for !next.IsZero() && next.Before(until) {
		occurrences = append(occurrences, Occurrence{
			Start: next,
			End:   next.Add(duration),
		})
		if len(occurrences) >= maxOccurrences {
			break
		}
		next = schedule.Next(next)
	}
	return occurrences, nil
}
