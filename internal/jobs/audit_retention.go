package jobs

import (
	"context"
	"fmt"
	"time"

	"trainer_dashboard/internal/logger"

	"github.com/robfig/cron/v3"
)

// Pruner deletes audit rows older than a window.
type Pruner interface {
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
}

// AuditRetention periodically trims the audit log.
type AuditRetention struct {
	cronScheduler *cron.Cron
	pruner        Pruner
	retention     time.Duration
	schedule      string
	logger        logger.Interface
	jobID         cron.EntryID
}

// NewAuditRetention keeps retentionDays of audit history. The schedule uses
// the six-field cron format with seconds, e.g. "0 30 3 * * *".
func NewAuditRetention(pruner Pruner, retentionDays int, schedule string, log logger.Interface) *AuditRetention {
	return &AuditRetention{
		cronScheduler: cron.New(cron.WithSeconds()),
		pruner:        pruner,
		retention:     time.Duration(retentionDays) * 24 * time.Hour,
		schedule:      schedule,
		logger:        log,
	}
}

func (j *AuditRetention) Start() error {
	var err error
	j.jobID, err = j.cronScheduler.AddFunc(j.schedule, j.Run)
	if err != nil {
		return fmt.Errorf("error scheduling audit retention job: %w", err)
	}

	j.cronScheduler.Start()
	j.logger.Info(fmt.Sprintf("Audit retention scheduled (%s), keeping %s", j.schedule, j.retention))
	return nil
}

// Run prunes once.
func (j *AuditRetention) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	deleted, err := j.pruner.Prune(ctx, j.retention)
	if err != nil {
		j.logger.Error("audit retention run failed", err)
		return
	}
	j.logger.Info(fmt.Sprintf("Audit retention removed %d entries", deleted))
}

// Stop waits for a running prune to finish.
func (j *AuditRetention) Stop() {
	if j.cronScheduler != nil {
		<-j.cronScheduler.Stop().Done()
		j.logger.Info("Audit retention stopped")
	}
}
