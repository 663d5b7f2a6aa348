package retention

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakePruner struct {
	mu      sync.Mutex
	errs    []error
	deleted int64
	cutoffs []time.Time
}

func (p *fakePruner) DeleteSubmissionsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cutoffs = append(p.cutoffs, cutoff)
	if len(p.errs) > 0 {
		err := p.errs[0]
		p.errs = p.errs[1:]
		return 0, err
	}
	return p.deleted, nil
}

func (p *fakePruner) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.cutoffs)
}

func TestSweepUsesTTLCutoff(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	p := &fakePruner{deleted: 4}
	w := NewWorker(p, 24*time.Hour, 0, nil)
	w.now = func() time.Time { return now }

	require.EqualValues(t, 4, w.Sweep(context.Background()))
	require.Equal(t, []time.Time{now.Add(-24 * time.Hour)}, p.cutoffs)
	require.Equal(t, DefaultInterval, w.interval)
}

func TestSweepRetriesBusyDatabase(t *testing.T) {
	p := &fakePruner{
		errs:    []error{errors.New("database is locked"), errors.New("SQLITE_BUSY")},
		deleted: 2,
	}
	w := NewWorker(p, time.Hour, time.Minute, nil)

	require.EqualValues(t, 2, w.Sweep(context.Background()))
	require.Equal(t, 3, p.calls())
}

func TestSweepStopsOnOtherErrors(t *testing.T) {
	p := &fakePruner{errs: []error{errors.New("no such table: submissions")}}
	w := NewWorker(p, time.Hour, time.Minute, nil)

	require.Zero(t, w.Sweep(context.Background()))
	require.Equal(t, 1, p.calls())
}

func TestStartSweepsUntilCanceled(t *testing.T) {
	p := &fakePruner{}
	w := NewWorker(p, time.Hour, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)

	require.Eventually(t, func() bool { return p.calls() >= 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()
}
