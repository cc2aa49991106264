package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/cardboardhq/cardboard/internal/pkg/plans"
	"github.com/gofiber/fiber/v2/log"
)

// Sweeper is the slice of the plan engine the scheduler drives.
type Sweeper interface {
	CheckExpiredPlans(ctx context.Context) plans.SweepSummary
}

// Scheduler triggers the expiration sweep on a fixed interval. There is no
// hidden timer state inside the engine itself: the sweep stays a plain
// method that tests and operators can invoke directly, and this type only
// decides when to call it.
type Scheduler struct {
	sweeper  Sweeper
	interval time.Duration
	ticker   *time.Ticker
	stopCh   chan struct{}
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	mu       sync.Mutex
	running  bool
}

// New creates a scheduler that runs the sweep every interval.
func New(sweeper Sweeper, interval time.Duration) *Scheduler {
	return &Scheduler{
		sweeper:  sweeper,
		interval: interval,
	}
}

// Start launches the sweep loop. One sweep runs immediately so a restart
// never waits a full interval to catch up on already-expired plans.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	// Recreate per-start state so the scheduler can be restarted safely.
	s.stopCh = make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.running = true

	log.Infof("[PlanScheduler] starting, sweep interval %s", s.interval)

	s.ticker = time.NewTicker(s.interval)
	s.wg.Add(1)
	go s.run(ctx)
}

func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	s.sweeper.CheckExpiredPlans(ctx)

	for {
		select {
		case <-s.ticker.C:
			s.sweeper.CheckExpiredPlans(ctx)
		case <-s.stopCh:
			return
		}
	}
}

// Stop halts the sweep loop and waits for an in-flight sweep to wind down.
// Cancellation stops the sweep between users, never mid-transition.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	log.Info("[PlanScheduler] stopping...")

	s.ticker.Stop()
	s.cancel()
	close(s.stopCh)
	s.wg.Wait()
	s.running = false

	log.Info("[PlanScheduler] stopped")
}

// IsRunning reports whether the sweep loop is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
