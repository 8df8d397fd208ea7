// Package scheduler runs named jobs on cron expressions.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/marcus/brew/internal/logging"
)

// ErrInvalidCron is returned for expressions cron cannot parse.
var ErrInvalidCron = errors.New("invalid cron expression")

// Job is a scheduled unit of work.
type Job func(ctx context.Context) error

// Scheduler wraps a cron runner with logging and a shared context.
type Scheduler struct {
	cron   *cron.Cron
	loc    *time.Location
	log    *logging.Logger
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	entries map[string]entry
}

type entry struct {
	id  cron.EntryID
	job Job
}

// New creates a scheduler using loc for cron evaluation. A nil loc means time.Local.
func New(loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(loc), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		loc:     loc,
		log:     logging.Component("scheduler"),
		ctx:     ctx,
		cancel:  cancel,
		entries: make(map[string]entry),
	}
}

// AddCron schedules job under name using a standard 5-field expression
// (descriptors like @daily are accepted). Re-adding a name replaces it.
func (s *Scheduler) AddCron(name, expr string, job Job) error {
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidCron, expr, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[name]; ok {
		s.cron.Remove(e.id)
	}
	id := s.cron.Schedule(sched, cron.FuncJob(func() {
		s.run(name, job)
	}))
	s.entries[name] = entry{id: id, job: job}
	return nil
}

// Remove unschedules name. Unknown names are ignored.
func (s *Scheduler) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[name]; ok {
		s.cron.Remove(e.id)
		delete(s.entries, name)
	}
}

// Next returns the next run time for name.
func (s *Scheduler) Next(name string) (time.Time, bool) {
	s.mu.Lock()
	e, ok := s.entries[name]
	s.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}
	ce := s.cron.Entry(e.id)
	if !ce.Valid() {
		return time.Time{}, false
	}
	if ce.Next.IsZero() {
		// Not started yet; compute from the schedule.
		return ce.Schedule.Next(time.Now().In(s.loc)), true
	}
	return ce.Next, true
}

// RunNow runs name once, synchronously, even if a scheduled run is in progress.
func (s *Scheduler) RunNow(name string) error {
	s.mu.Lock()
	e, ok := s.entries[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("no job named %q", name)
	}
	s.run(name, e.job)
	return nil
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started")
	s.cron.Start()
}

// Stop cancels the job context and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) run(name string, job Job) {
	start := time.Now()
	if err := job(s.ctx); err != nil {
		s.log.Err(err).Str("job", name).Msg("job failed")
		return
	}
	s.log.InfoCtx("job finished", map[string]any{"job": name, "duration": time.Since(start).String()})
}
