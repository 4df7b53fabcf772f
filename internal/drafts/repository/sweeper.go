package repository

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/gate2way/gate2way-backend/internal/logging"
)

// DefaultSweepSchedule runs the memory sweeper once a minute.
const DefaultSweepSchedule = "@every 1m"

// Sweeper periodically drops expired sessions from a MemoryStore. Redis expires
// keys itself and needs no sweeper.
type Sweeper struct {
	cron  *cron.Cron
	store *MemoryStore
}

// NewSweeper schedules store.Sweep on schedule (cron expression with seconds, or a
// descriptor such as "@every 30s").
func NewSweeper(store *MemoryStore, schedule string) (*Sweeper, error) {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}
	s := &Sweeper{
		cron:  cron.New(cron.WithSeconds()),
		store: store,
	}
	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Sweeper) run() {
	if n := s.store.Sweep(); n > 0 {
		logging.NewLogger(context.Background()).LogInfof("session_sweep", "removed %d expired draft sessions", n)
	}
}

func (s *Sweeper) Start() {
	s.cron.Start()
}

// Stop halts scheduling and returns a context done when a running sweep ends.
func (s *Sweeper) Stop() context.Context {
	return s.cron.Stop()
}
