package sync

import (
	"context"
	"time"

	"github.com/huettenbuch/huettenbuch/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

// ReconcileDailySummaries mirrors the fetched day rows for a hut and
// date range. The (hut_id, day) pair is the reconciliation key; the
// remote system assigns these rows no identifier of their own. Days in
// the requested range that the fetch no longer contains are deleted
// with their category children. Duplicate days in the input (the fetch
// windows overlap at the edges) collapse to the last occurrence.
func (r *Reconciler) ReconcileDailySummaries(ctx context.Context, hutID int, summaries []*models.DailySummary, dateFrom, dateTo string) (*Result, error) {
	result := &Result{}

	byDay := make(map[string]*models.DailySummary, len(summaries))
	days := make([]string, 0, len(summaries))
	for _, summary := range summaries {
		if _, seen := byDay[summary.Day]; !seen {
			days = append(days, summary.Day)
		}
		byDay[summary.Day] = summary
	}

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		existing := []*models.DailySummary{}
		err := tx.NewSelect().
			Model(&existing).
			Column("ds.id", "ds.day").
			Where("ds.hut_id = ?", hutID).
			Where("ds.day >= ?", dateFrom).
			Where("ds.day <= ?", dateTo).
			Scan(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		obsolete := make([]int, 0)
		for _, summary := range existing {
			if _, ok := byDay[summary.Day]; !ok {
				obsolete = append(obsolete, summary.ID)
			}
		}

		if len(obsolete) > 0 {
			deleted, err := r.deleteSummaryRows(ctx, tx, obsolete)
			if err != nil {
				return err
			}
			result.Deleted += deleted
		}

		now := time.Now()
		for _, day := range days {
			summary := byDay[day]

			// Replace keyed by (hut_id, day), independent of the fetch
			// window, so a stray out-of-range day never collides with the
			// unique index.
			oldIDs := make([]int, 0, 1)
			err := tx.NewSelect().
				Model((*models.DailySummary)(nil)).
				Column("ds.id").
				Where("ds.hut_id = ?", hutID).
				Where("ds.day = ?", day).
				Scan(ctx, &oldIDs)
			if err != nil {
				return errors.WithStack(err)
			}

			if len(oldIDs) > 0 {
				if _, err := r.deleteSummaryRows(ctx, tx, oldIDs); err != nil {
					return err
				}
				result.Updated++
			} else {
				result.Inserted++
			}

			summary.ID = 0
			summary.CreatedAt = now
			summary.UpdatedAt = now
			if _, err := tx.NewInsert().Model(summary).Returning("id").Exec(ctx); err != nil {
				return errors.WithStack(err)
			}

			for _, category := range summary.Categories {
				category.ID = 0
				category.DailySummaryID = summary.ID
			}
			if len(summary.Categories) > 0 {
				if _, err := tx.NewInsert().Model(&summary.Categories).Exec(ctx); err != nil {
					return errors.WithStack(err)
				}
			}
		}

		return nil
	})
	if err != nil {
		result.Errors++
		return result, errors.WithStack(err)
	}

	r.log.Info("reconciled daily summaries", logger.Data{
		"hut_id":   hutID,
		"inserted": result.Inserted,
		"updated":  result.Updated,
		"deleted":  result.Deleted,
	})
	return result, nil
}

func (r *Reconciler) deleteSummaryRows(ctx context.Context, tx bun.Tx, ids []int) (int, error) {
	_, err := tx.NewDelete().
		Model((*models.DailySummaryCategory)(nil)).
		Where("daily_summary_id IN (?)", bun.In(ids)).
		Exec(ctx)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	res, err := tx.NewDelete().
		Model((*models.DailySummary)(nil)).
		Where("id IN (?)", bun.In(ids)).
		Exec(ctx)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return int(deleted), nil
}
