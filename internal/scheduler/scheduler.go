package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Expirer closes listings older than maxAge and reports how many were closed.
type Expirer interface {
	ExpireStale(ctx context.Context, maxAge time.Duration) (int64, error)
}

// Scheduler runs the listing expiry job on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	expirer Expirer
	maxAge  time.Duration
	timeout time.Duration
	logger  *log.Logger

	onExpired func(n int64)

	stopOnce sync.Once
}

// New parses spec (standard five-field cron or a descriptor such as "@every 1h").
func New(spec string, maxAge time.Duration, expirer Expirer, logger *log.Logger) (*Scheduler, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	c := cron.New(cron.WithParser(parser), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	s := &Scheduler{
		cron:    c,
		expirer: expirer,
		maxAge:  maxAge,
		timeout: time.Minute,
		logger:  logger,
	}
	if _, err := c.AddFunc(spec, func() { _, _ = s.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid expiry schedule %q: %w", spec, err)
	}
	return s, nil
}

// OnExpired registers a callback receiving the number of listings closed by each run.
func (s *Scheduler) OnExpired(fn func(n int64)) {
	s.onExpired = fn
}

func (s *Scheduler) Start() {
	if s.maxAge <= 0 {
		s.logf("[Scheduler] listing expiry disabled")
		return
	}
	s.cron.Start()
	s.logf("[Scheduler] listing expiry started max_age=%s", s.maxAge)
}

// Stop waits for a running job to finish or ctx to expire. It is safe to call more than once.
func (s *Scheduler) Stop(ctx context.Context) {
	s.stopOnce.Do(func() {
		done := s.cron.Stop()
		select {
		case <-done.Done():
		case <-ctx.Done():
			s.logf("[Scheduler] stop timed out waiting for running job")
		}
	})
}

func (s *Scheduler) RunOnce(ctx context.Context) (int64, error) {
	if s.maxAge <= 0 {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	n, err := s.expirer.ExpireStale(ctx, s.maxAge)
	if err != nil {
		s.logf("[Scheduler] listing expiry failed: %v", err)
		return 0, err
	}
	if n > 0 {
		s.logf("[Scheduler] closed %d stale listings", n)
		if s.onExpired != nil {
			s.onExpired(n)
		}
	}
	return n, nil
}

func (s *Scheduler) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
