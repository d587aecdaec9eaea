package worker

import (
	"context"

	"github.com/huettenbuch/huettenbuch/pkg/models"
	"github.com/huettenbuch/huettenbuch/pkg/sync"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

// ProcessRemoteSyncJob runs one full synchronization against the remote
// system. Job data may narrow the hut or the window; zero values fall
// back to configuration.
func (w *Worker) ProcessRemoteSyncJob(ctx context.Context, job *models.Job) error {
	log := logger.FromContext(ctx)

	data, _ := job.DataParsed.(*models.JobRemoteSyncData)
	if data == nil {
		data = &models.JobRemoteSyncData{}
	}

	report, err := w.runner.Run(ctx, data.HutID, data.Months)
	if err != nil {
		return errors.WithStack(err)
	}

	log.Info("remote sync job finished", logger.Data{
		"hut_id":               report.HutID,
		"fetched_reservations": report.FetchedReservations,
		"skipped_reservations": report.SkippedReservations,
		"merge_inserted":       report.Merge.Inserted,
		"merge_updated":        report.Merge.Updated,
		"merge_unchanged":      report.Merge.Unchanged,
	})
	return nil
}

// ProcessStagingMergeJob merges whatever sits in the staging table into
// the authoritative reservations, without talking to the remote system.
func (w *Worker) ProcessStagingMergeJob(ctx context.Context, job *models.Job) error {
	log := logger.FromContext(ctx)

	data, _ := job.DataParsed.(*models.JobStagingMergeData)
	if data == nil {
		data = &models.JobStagingMergeData{}
	}

	result, err := w.reconciler.MergeStaging(ctx, sync.MergeOptions{
		DryRun:      data.DryRun,
		KeepStaging: !w.config.TruncateStaging,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	log.Info("staging merge job finished", logger.Data{
		"total":     result.Total,
		"inserted":  result.Inserted,
		"updated":   result.Updated,
		"unchanged": result.Unchanged,
		"dry_run":   data.DryRun,
	})
	return nil
}
