// Package schedule runs recurring jobs, with optional distributed locking
// so a job fires on only one server per tick.
package schedule

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// LockProvider is a distributed lock used by OnOneServer jobs.
type LockProvider interface {
	// GetLock attempts to acquire a named lock for the given duration.
	GetLock(ctx context.Context, name string, duration time.Duration) (bool, error)
	// ReleaseLock releases the lock.
	ReleaseLock(ctx context.Context, name string) error
}

// Kernel manages scheduled tasks.
type Kernel struct {
	cron *cron.Cron
	lock LockProvider
}

// JobOption configures a scheduled job.
type JobOption func(*jobConfig)

type jobConfig struct {
	withoutOverlapping bool
	onOneServer        bool
	name               string
}

// NewKernel creates a scheduler with second-level cron precision.
func NewKernel(lock LockProvider) *Kernel {
	return &Kernel{
		cron: cron.New(cron.WithSeconds()),
		lock: lock,
	}
}

// WithoutOverlapping skips a run while the previous one is still going
// (local to this process).
func WithoutOverlapping() JobOption {
	return func(c *jobConfig) {
		c.withoutOverlapping = true
	}
}

// OnOneServer lets only one server per tick run the job, guarded by the
// kernel's lock provider under the given name.
func OnOneServer(name string) JobOption {
	return func(c *jobConfig) {
		c.onOneServer = true
		c.name = name
	}
}

// Register adds a function on a cron schedule ("s m h dom mon dow").
func (k *Kernel) Register(schedule string, cmd func(), opts ...JobOption) {
	cfg := &jobConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	var job cron.Job = cron.FuncJob(cmd)

	if cfg.withoutOverlapping {
		job = cron.SkipIfStillRunning(cron.DefaultLogger)(job)
	}

	if cfg.onOneServer {
		if k.lock == nil {
			log.Warn().Str("job", cfg.name).Msg("Ignoring OnOneServer: no lock provider configured")
		} else {
			job = k.lockedJob(cfg.name, job)
		}
	}

	if _, err := k.cron.AddJob(schedule, job); err != nil {
		log.Error().Err(err).Str("schedule", schedule).Msg("Failed to register cron job")
		return
	}
	log.Info().Str("job", cfg.name).Str("schedule", schedule).Msg("Registered cron job")
}

// lockedJob wraps a job so the tick is claimed through the lock provider
// before running. The lock covers roughly one schedule slot; it is released
// after the run so a crashed holder cannot block the next tick forever.
func (k *Kernel) lockedJob(name string, job cron.Job) cron.Job {
	return cron.FuncJob(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		acquired, err := k.lock.GetLock(ctx, name, time.Minute)
		if err != nil {
			log.Error().Err(err).Str("job", name).Msg("Error checking scheduler lock")
			return
		}
		if !acquired {
			return
		}
		defer func() {
			_ = k.lock.ReleaseLock(context.Background(), name)
		}()
		job.Run()
	})
}

// Run starts the scheduler and blocks until SIGINT/SIGTERM, then waits for
// active jobs to finish.
func (k *Kernel) Run() {
	log.Info().Msg("Starting task scheduler")
	k.cron.Start()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("Stopping task scheduler")
	<-k.cron.Stop().Done()
}
