package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type countingPoller struct {
	calls int32
	err   error
}

func (p *countingPoller) Poll(ctx context.Context) error {
	atomic.AddInt32(&p.calls, 1)
	return p.err
}

func TestScheduler_PollsUntilStopped(t *testing.T) {
	poller := &countingPoller{err: errors.New("api down")}
	s := NewScheduler(poller, 10*time.Millisecond, zap.NewNop())

	s.Start(context.Background())
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&poller.calls) >= 2
	}, time.Second, 5*time.Millisecond)

	s.Stop()
	calls := atomic.LoadInt32(&poller.calls)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, atomic.LoadInt32(&poller.calls))

	// повторный Stop не паникует
	s.Stop()
}

func TestScheduler_StopsOnContextCancel(t *testing.T) {
	s := NewScheduler(&countingPoller{}, time.Hour, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	s.Start(ctx)
	cancel()

	select {
	case <-s.done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after context cancel")
	}
}
