package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Normalizer repairs stored POD state; TripService implements it.
type Normalizer interface {
	NormalizePODs(ctx context.Context) (int, error)
}

// PODNormalizer runs the POD repair pass on a cron schedule.
type PODNormalizer struct {
	cronScheduler *cron.Cron
	normalizer    Normalizer
	timeout       time.Duration
	jobID         cron.EntryID
}

func NewPODNormalizer(n Normalizer, timeout time.Duration) *PODNormalizer {
	return &PODNormalizer{
		cronScheduler: cron.New(),
		normalizer:    n,
		timeout:       timeout,
	}
}

// Start schedules the job. schedule is a standard five-field cron spec or
// a descriptor such as "@hourly".
func (p *PODNormalizer) Start(schedule string) error {
	var err error
	p.jobID, err = p.cronScheduler.AddFunc(schedule, p.RunOnce)
	if err != nil {
		return fmt.Errorf("error scheduling pod normalizer: %w", err)
	}

	p.cronScheduler.Start()
	slog.Info("pod normalizer scheduled", "schedule", schedule)
	return nil
}

// Stop waits for a running pass to finish.
func (p *PODNormalizer) Stop() {
	if p.cronScheduler != nil {
		<-p.cronScheduler.Stop().Done()
		slog.Info("pod normalizer stopped")
	}
}

// RunOnce executes a single repair pass.
func (p *PODNormalizer) RunOnce() {
	ctx := context.Background()
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	repaired, err := p.normalizer.NormalizePODs(ctx)
	if err != nil {
		slog.Error("pod normalization failed", "error", err, "repaired", repaired)
		return
	}
	slog.Debug("pod normalization finished", "repaired", repaired)
}
