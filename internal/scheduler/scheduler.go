// Package scheduler runs the clinic's periodic housekeeping on cron specs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"clinic-operations/config"
	"clinic-operations/internal/usecase"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const jobTimeout = 2 * time.Minute

type Scheduler struct {
	cron         *cron.Cron
	log          *logrus.Logger
	cfg          config.SchedulingConfig
	appointments usecase.AppointmentUsecase
	calendar     usecase.CalendarUsecase
	now          func() time.Time
}

func New(
	log *logrus.Logger,
	cfg config.SchedulingConfig,
	loc *time.Location,
	appointments usecase.AppointmentUsecase,
	calendar usecase.CalendarUsecase,
) *Scheduler {
	return &Scheduler{
		cron:         cron.New(cron.WithLocation(loc), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		log:          log,
		cfg:          cfg,
		appointments: appointments,
		calendar:     calendar,
		now:          time.Now,
	}
}

// Register adds the no-show sweep and slot pre-generation jobs. An empty spec
// disables the job.
func (s *Scheduler) Register() error {
	jobs := []struct {
		name string
		spec string
		run  func(context.Context) error
	}{
		{"no_show_sweep", s.cfg.NoShowSweepCron, s.SweepNoShows},
		{"slot_pregeneration", s.cfg.SlotGenerationCron, s.PregenerateSlots},
	}

	for _, job := range jobs {
		if job.spec == "" {
			s.log.WithField("job", job.name).Info("Job disabled")
			continue
		}
		job := job
		if _, err := s.cron.AddFunc(job.spec, func() { s.runJob(job.name, job.run) }); err != nil {
			return fmt.Errorf("schedule %s: %w", job.name, err)
		}
		s.log.WithFields(logrus.Fields{"job": job.name, "spec": job.spec}).Info("Job scheduled")
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs or until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("Scheduler stopped before running jobs finished")
	}
}

func (s *Scheduler) runJob(name string, run func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	if err := run(ctx); err != nil {
		s.log.WithError(err).WithField("job", name).Error("Scheduled job failed")
		return
	}
	s.log.WithFields(logrus.Fields{
		"job":         name,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Scheduled job finished")
}

// SweepNoShows marks confirmed appointments whose start passed more than the
// configured grace ago.
func (s *Scheduler) SweepNoShows(ctx context.Context) error {
	cutoff := s.now().Add(-s.cfg.NoShowGrace)
	n, err := s.appointments.SweepNoShows(ctx, cutoff)
	if err != nil {
		return err
	}
	if n > 0 {
		s.log.WithFields(logrus.Fields{"count": n, "cutoff": cutoff}).Info("Appointments marked as no-show")
	}
	return nil
}

// PregenerateSlots materializes template slots for the booking horizon.
func (s *Scheduler) PregenerateSlots(ctx context.Context) error {
	n, err := s.calendar.PregenerateSlots(ctx, s.cfg.HorizonDays)
	if err != nil {
		return err
	}
	if n > 0 {
		s.log.WithFields(logrus.Fields{"count": n, "horizon_days": s.cfg.HorizonDays}).Info("Slots generated from templates")
	}
	return nil
}
