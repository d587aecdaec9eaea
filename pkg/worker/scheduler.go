package worker

import (
	"context"
	"fmt"

	"github.com/huettenbuch/huettenbuch/pkg/config"
	"github.com/huettenbuch/huettenbuch/pkg/jobs"
	"github.com/huettenbuch/huettenbuch/pkg/models"
	"github.com/robfig/cron/v3"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

// Scheduler enqueues a remote sync job on a fixed interval. It never
// runs the sync itself; the worker picks the job up like any other, so
// the single-writer property holds.
type Scheduler struct {
	config     *config.Config
	cron       *cron.Cron
	jobService *jobs.Service
	log        logger.Logger
}

func NewScheduler(cfg *config.Config, db *bun.DB) *Scheduler {
	return &Scheduler{
		config:     cfg,
		cron:       cron.New(),
		jobService: jobs.NewService(db),
		log:        logger.New(),
	}
}

func (s *Scheduler) Start() error {
	if !s.config.SyncEnabled {
		s.log.Info("scheduled sync disabled")
		return nil
	}

	spec := fmt.Sprintf("@every %dm", s.config.SyncIntervalMinutes)
	if _, err := s.cron.AddFunc(spec, s.enqueueSync); err != nil {
		return err
	}
	s.cron.Start()

	s.log.Info("scheduled sync enabled", logger.Data{"interval_minutes": s.config.SyncIntervalMinutes})
	return nil
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// enqueueSync creates a pending sync job unless one is already pending
// or running.
func (s *Scheduler) enqueueSync() {
	ctx := context.Background()

	hasActive, err := s.jobService.HasActiveJobByType(ctx, models.JobTypeRemoteSync)
	if err != nil {
		s.log.Err(err).Error("active job check error")
		return
	}
	if hasActive {
		s.log.Info("skipping scheduled sync; job already active")
		return
	}

	job := &models.Job{
		Type:   models.JobTypeRemoteSync,
		Status: models.JobStatusPending,
		DataParsed: &models.JobRemoteSyncData{
			HutID:  s.config.HutID,
			Months: s.config.SyncMonths,
		},
	}
	if err := s.jobService.CreateJob(ctx, job); err != nil {
		s.log.Err(err).Error("create job error")
		return
	}

	s.log.Info("enqueued scheduled sync job", logger.Data{"job_id": job.ID})
}
