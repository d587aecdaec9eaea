package sync

import (
	"context"
	"time"

	"github.com/huettenbuch/huettenbuch/pkg/config"
	"github.com/huettenbuch/huettenbuch/pkg/models"
	"github.com/huettenbuch/huettenbuch/pkg/remote"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

const localDateLayout = "2006-01-02"

// RunReport summarizes one full sync run.
type RunReport struct {
	HutID               int          `json:"hut_id"`
	FetchedReservations int          `json:"fetched_reservations"`
	SkippedReservations int          `json:"skipped_reservations"`
	Staged              int          `json:"staged"`
	Merge               *MergeResult `json:"merge"`
	Quotas              *Result      `json:"quotas"`
	Summaries           *Result      `json:"summaries"`
}

// Runner performs one synchronization run against the remote system:
// login handshake, then reservations into staging and through the
// merge, then quota and daily-summary reconciliation. Everything is
// strictly sequential; the first transport, auth, or persistence error
// aborts the run. Record-level problems (one undecodable page, one
// invalid record) are absorbed and logged.
//
// Each run owns its session and cookie state, so runs against different
// huts could proceed in the same process; two concurrent runs against
// the same local store are not safe.
type Runner struct {
	cfg        *config.Config
	db         *bun.DB
	reconciler *Reconciler
	mapper     *remote.Mapper
	log        logger.Logger
}

func NewRunner(cfg *config.Config, db *bun.DB) *Runner {
	return &Runner{
		cfg:        cfg,
		db:         db,
		reconciler: NewReconciler(db),
		mapper:     remote.NewMapper(),
		log:        logger.New(),
	}
}

// Run executes one sync run for the given hut covering today through
// today plus months. Zero arguments fall back to the configured
// defaults.
func (r *Runner) Run(ctx context.Context, hutID, months int) (*RunReport, error) {
	if r.cfg.RemoteBaseURL == "" || r.cfg.RemoteEmail == "" || r.cfg.RemotePassword == "" {
		return nil, errors.New("remote sync is not configured: remote_base_url, remote_email and remote_password are required")
	}
	if hutID == 0 {
		hutID = r.cfg.HutID
	}
	if hutID == 0 {
		return nil, errors.New("remote sync is not configured: hut_id is required")
	}
	if months == 0 {
		months = r.cfg.SyncMonths
	}

	from := time.Now()
	to := from.AddDate(0, months, 0)
	report := &RunReport{HutID: hutID}

	session := remote.NewSession(r.cfg.RemoteBaseURL)
	if err := session.Login(ctx, r.cfg.RemoteEmail, r.cfg.RemotePassword); err != nil {
		return nil, errors.WithStack(err)
	}
	fetcher := remote.NewFetcher(session, r.cfg.RemotePageSize)

	// Reservations flow through the staging table and the merge.
	records, err := fetcher.FetchReservations(ctx, hutID, from, to, 0)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	report.FetchedReservations = len(records)

	staged := make([]*models.ReservationStaging, 0, len(records))
	for _, record := range records {
		row, err := r.mapper.MapReservation(record, hutID)
		if err != nil {
			report.SkippedReservations++
			r.log.Err(err).Warn("skipping invalid reservation record", logger.Data{
				"remote_id": record.ReservationNumber.Int(),
			})
			continue
		}
		staged = append(staged, row)
	}
	report.Staged = len(staged)

	if err := r.replaceStaging(ctx, staged); err != nil {
		return nil, errors.WithStack(err)
	}
	report.Merge, err = r.reconciler.MergeStaging(ctx, MergeOptions{KeepStaging: !r.cfg.TruncateStaging})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// Quotas.
	quotaRecords, err := fetcher.FetchQuotas(ctx, hutID, from, months)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	quotas := make([]*models.Quota, 0, len(quotaRecords))
	for _, record := range quotaRecords {
		quota, err := r.mapper.MapQuota(record, hutID)
		if err != nil {
			r.log.Err(err).Warn("skipping invalid quota record", logger.Data{"remote_id": record.ID.Int()})
			continue
		}
		quotas = append(quotas, quota)
	}
	report.Quotas, err = r.reconciler.ReconcileQuotas(ctx, hutID, quotas, from.Format(localDateLayout), to.Format(localDateLayout))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// Daily summaries.
	summaryRecords, err := fetcher.FetchDailySummaries(ctx, hutID, from, to)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	summaries := make([]*models.DailySummary, 0, len(summaryRecords))
	for _, record := range summaryRecords {
		summary, err := r.mapper.MapDailySummary(record, hutID)
		if err != nil {
			r.log.Err(err).Warn("skipping invalid daily summary record", logger.Data{"date": record.Date})
			continue
		}
		summaries = append(summaries, summary)
	}
	report.Summaries, err = r.reconciler.ReconcileDailySummaries(ctx, hutID, summaries, from.Format(localDateLayout), to.Format(localDateLayout))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	r.log.Info("sync run finished", logger.Data{
		"hut_id":       hutID,
		"reservations": report.Staged,
		"quotas":       len(quotas),
		"summaries":    len(summaries),
	})
	return report, nil
}

// replaceStaging swaps the staging table contents for the freshly
// mapped rows so the merge always sees exactly one import.
func (r *Runner) replaceStaging(ctx context.Context, rows []*models.ReservationStaging) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*models.ReservationStaging)(nil)).
			Where("1=1").
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if len(rows) == 0 {
			return nil
		}
		_, err = tx.NewInsert().Model(&rows).Exec(ctx)
		return errors.WithStack(err)
	})
}
