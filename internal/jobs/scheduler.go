// Package jobs runs the periodic background tasks of the bot.
package jobs

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyCommunityGo/pkg/logger"
	"github.com/PancyStudios/PancyCommunityGo/pkg/store"
	"github.com/robfig/cron/v3"
)

const (
	SpamSweepSpec = "@every 1m"
	StatsSpec     = "@every 5m"
)

// SpamSweeper drops idle spam counters
type SpamSweeper interface {
	SweepSpam(now time.Time) int
}

// StatsPublisher sends the stats snapshot
type StatsPublisher interface {
	PublishStats(data interface{}) error
}

// StatsSnapshot is published on community/stats
type StatsSnapshot struct {
	store.Stats
	TrackedSpammers int   `json:"trackedSpammers"`
	Guilds          int   `json:"guilds"`
	UptimeSeconds   int64 `json:"uptimeSeconds"`

	Events map[string]uint64 `json:"events,omitempty"`
}

// Scheduler owns the cron runner
type Scheduler struct {
	cron      *cron.Cron
	sweeper   SpamSweeper
	stats     func() store.Stats
	publisher StatsPublisher
	extra     func(*StatsSnapshot)
	now       func() time.Time
}

// Options wires the jobs. A nil Publisher disables the stats job.
type Options struct {
	Sweeper   SpamSweeper
	Stats     func() store.Stats
	Publisher StatsPublisher
	// Extra fills the fields the store does not know about
	Extra func(*StatsSnapshot)
	Now   func() time.Time
}

// NewScheduler creates a scheduler. Panics inside a job are recovered and
// logged.
func NewScheduler(opts Options) *Scheduler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	l := cronLogger{}
	return &Scheduler{
		cron:      cron.New(cron.WithLogger(l), cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l))),
		sweeper:   opts.Sweeper,
		stats:     opts.Stats,
		publisher: opts.Publisher,
		extra:     opts.Extra,
		now:       opts.Now,
	}
}

// Start registers the jobs and starts the runner
func (s *Scheduler) Start() error {
	if s.sweeper != nil {
		if _, err := s.cron.AddFunc(SpamSweepSpec, func() { s.SweepSpam() }); err != nil {
			return fmt.Errorf("error programando limpieza de spam: %w", err)
		}
	}
	if s.publisher != nil && s.stats != nil {
		if _, err := s.cron.AddFunc(StatsSpec, func() { _ = s.PublishStats() }); err != nil {
			return fmt.Errorf("error programando estadísticas: %w", err)
		}
	}

	s.cron.Start()
	logger.System(fmt.Sprintf("⏰ Planificador iniciado con %d tareas", len(s.cron.Entries())), "Jobs")
	return nil
}

// Stop stops the runner and waits for running jobs
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Planificador detenido", "Jobs")
}

// SweepSpam removes spam counters that are past their interval
func (s *Scheduler) SweepSpam() int {
	removed := s.sweeper.SweepSpam(s.now())
	if removed > 0 {
		logger.Debug(fmt.Sprintf("🧹 %d contadores de spam eliminados", removed), "Jobs")
	}
	return removed
}

// Snapshot builds the stats payload
func (s *Scheduler) Snapshot() StatsSnapshot {
	snap := StatsSnapshot{Stats: s.stats()}
	if s.extra != nil {
		s.extra(&snap)
	}
	return snap
}

// PublishStats publishes the current snapshot
func (s *Scheduler) PublishStats() error {
	if err := s.publisher.PublishStats(s.Snapshot()); err != nil {
		logger.Warn(fmt.Sprintf("No se pudieron publicar las estadísticas: %v", err), "Jobs")
		return err
	}
	return nil
}

// cronLogger routes cron's logging through the bot logger
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug(fmt.Sprintf("%s %v", msg, keysAndValues), "Cron")
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error(fmt.Sprintf("%s: %v %v", msg, err, keysAndValues), "Cron")
}
