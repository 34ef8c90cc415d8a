package telemetry

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
)

// Scheduler runs named jobs on cron schedules and logs their failures. A job still running when its next turn comes
// is skipped.
type Scheduler struct {
	cron   *cron.Cron
	logger *log.Logger
	jobs   int
}

func NewScheduler(logger *log.Logger) *Scheduler {
	l := cron.PrintfLogger(logger)
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(l), cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l))),
		logger: logger,
	}
}

// Add schedules job. spec uses the standard five fields or a descriptor such as "@every 1m".
func (s *Scheduler) Add(name, spec string, job func() error) error {
	_, err := s.cron.AddFunc(spec, func() {
		if err := job(); err != nil {
			s.logger.Printf("%s failed: %v", name, err)
		}
	})
	if err != nil {
		return err
	}
	s.jobs++
	return nil
}

// Len is the number of scheduled jobs.
func (s *Scheduler) Len() int {
	return s.jobs
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling; the returned context is done once running jobs have finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
