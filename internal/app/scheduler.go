package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Poller одна итерация фоновой задачи
type Poller interface {
	Poll(ctx context.Context) error
}

// Scheduler периодически опрашивает чаты TutorNearby
type Scheduler struct {
	poller   Poller
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(poller Poller, interval time.Duration, logger *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Scheduler{
		poller:   poller,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start запускает опрос в отдельной горутине
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting chat poller", zap.Duration("interval", s.interval))
	go s.run(ctx)
}

// Stop останавливает опрос и ждёт завершения текущей итерации
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping chat poller")
		close(s.stopChan)
	})
	<-s.done
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.poll(ctx)
		case <-s.stopChan:
			s.logger.Info("Chat poller stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Chat poller cancelled")
			return
		}
	}
}

func (s *Scheduler) poll(ctx context.Context) {
	// итерация не дольше интервала, чтобы тики не копились
	pollCtx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	if err := s.poller.Poll(pollCtx); err != nil {
		s.logger.Error("Chat poll failed", zap.Error(err))
	}
}
