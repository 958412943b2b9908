package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"wine-quality-service/internal/core/domain"
	"wine-quality-service/internal/core/ports/input"
)

// Scheduler retrains the model on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	trainer input.Trainer
	timeout time.Duration
}

// New schedules retraining with the default parameters. schedule uses the
// six-field cron format with seconds.
func New(schedule string, trainer input.Trainer, timeout time.Duration) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		trainer: trainer,
		timeout: timeout,
	}
	if _, err := s.cron.AddFunc(schedule, s.retrain); err != nil {
		return nil, fmt.Errorf("schedule retraining %q: %w", schedule, err)
	}
	log.WithField("schedule", schedule).Info("retraining scheduled")
	return s, nil
}

func (s *Scheduler) Start() {
	log.Info("starting scheduler")
	s.cron.Start()
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	log.Info("stopping scheduler")
	<-s.cron.Stop().Done()
	log.Info("scheduler stopped")
}

func (s *Scheduler) retrain() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	run, err := s.trainer.Run(ctx, s.trainer.DefaultParams())
	switch {
	case errors.Is(err, domain.ErrTrainingInProgress):
		log.Info("scheduled retraining skipped, a run is already in progress")
	case err != nil:
		log.WithError(err).Error("scheduled retraining failed")
	default:
		log.WithField("run_id", run.ID).Info("scheduled retraining finished")
	}
}
