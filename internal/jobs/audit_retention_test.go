package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"trainer_dashboard/internal/logger"

	"github.com/stretchr/testify/assert"
)

type fakePruner struct {
	mu    sync.Mutex
	calls []time.Duration
	err   error
}

func (p *fakePruner) Prune(_ context.Context, olderThan time.Duration) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, olderThan)
	return 3, p.err
}

func TestAuditRetention_Run(t *testing.T) {
	pruner := &fakePruner{}
	job := NewAuditRetention(pruner, 30, "0 30 3 * * *", logger.Nop{})

	job.Run()

	assert.Equal(t, []time.Duration{30 * 24 * time.Hour}, pruner.calls)
}

func TestAuditRetention_RunError(t *testing.T) {
	pruner := &fakePruner{err: errors.New("store down")}
	job := NewAuditRetention(pruner, 7, "0 30 3 * * *", logger.Nop{})

	// Failures are logged, not raised.
	assert.NotPanics(t, job.Run)
	assert.Len(t, pruner.calls, 1)
}

func TestAuditRetention_StartStop(t *testing.T) {
	job := NewAuditRetention(&fakePruner{}, 30, "0 30 3 * * *", logger.Nop{})
	assert.NoError(t, job.Start())
	job.Stop()
}

func TestAuditRetention_BadSchedule(t *testing.T) {
	job := NewAuditRetention(&fakePruner{}, 30, "every night", logger.Nop{})
	assert.Error(t, job.Start())
}
