package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"

	"github.com/courtlyhq/courtly/internal/reconcile"
)

const sweepJobTimeout = 2 * time.Minute

// RegisterSweepJobs registers the background passes that advance stale
// reservations: expired holds every minute, auto-complete and no-show
// detection every five. Singleton mode keeps overlapping runs from piling
// up; each sweep is idempotent anyway.
func RegisterSweepJobs(svc *reconcile.Service) error {
	if svc == nil {
		return fmt.Errorf("sweep jobs require reconciliation service")
	}

	jobs := []struct {
		name string
		cron string
		run  func(context.Context, time.Time) (int, error)
	}{
		{"expired_hold_sweep", "* * * * *", svc.SweepExpiredHolds},
		{"auto_complete_sweep", "*/5 * * * *", svc.SweepAutoComplete},
		{"no_show_sweep", "*/5 * * * *", svc.SweepNoShows},
	}

	for _, job := range jobs {
		job := job
		jobLogger := log.With().Str("component", job.name).Logger()
		_, err := AddJob(job.name, job.cron, func() {
			ctx, cancel := context.WithTimeout(context.Background(), sweepJobTimeout)
			defer cancel()
			ctx = jobLogger.WithContext(ctx)

			advanced, err := job.run(ctx, time.Now().UTC())
			if err != nil {
				jobLogger.Error().Err(err).Msg("Sweep failed")
				return
			}
			if advanced > 0 {
				jobLogger.Info().Int("advanced", advanced).Msg("Sweep advanced reservations")
			}
		}, gocron.WithSingletonMode(gocron.LimitModeWait))
		if err != nil {
			return fmt.Errorf("add %s job: %w", job.name, err)
		}
	}

	return nil
}
