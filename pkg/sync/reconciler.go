package sync

import (
	"context"
	"time"

	"github.com/huettenbuch/huettenbuch/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

// Result reports what one reconciliation changed. When the transaction
// rolls back, Errors is set and none of the other counts have been
// applied to the database.
type Result struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Deleted  int `json:"deleted"`
	Errors   int `json:"errors"`
}

// Reconciler keeps the local mirror tables consistent with what the
// remote system reports. All mutating work happens inside a single
// transaction per call; a failure on any row rolls back the whole
// batch.
type Reconciler struct {
	db  *bun.DB
	log logger.Logger
}

func NewReconciler(db *bun.DB) *Reconciler {
	return &Reconciler{db: db, log: logger.New()}
}

// ReconcileQuotas diffs the fetched quotas against the local mirror for
// the given hut and date range. Quotas the remote system no longer
// reports inside the range are deleted (children first); every fetched
// quota is written with delete-and-reinsert keyed by its remote id, so
// reapplying the same batch is a no-op apart from refreshed child rows.
func (r *Reconciler) ReconcileQuotas(ctx context.Context, hutID int, quotas []*models.Quota, dateFrom, dateTo string) (*Result, error) {
	result := &Result{}

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		newIDs := make(map[int]struct{}, len(quotas))
		for _, quota := range quotas {
			newIDs[quota.RemoteID] = struct{}{}
		}

		// Everything currently mirrored whose range intersects the
		// fetched window.
		existing := []*models.Quota{}
		err := tx.NewSelect().
			Model(&existing).
			Column("q.id", "q.remote_id").
			Where("q.hut_id = ?", hutID).
			Where("q.date_from <= ?", dateTo).
			Where("q.date_to >= ?", dateFrom).
			Scan(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		obsolete := make([]int, 0)
		for _, quota := range existing {
			if _, ok := newIDs[quota.RemoteID]; !ok {
				obsolete = append(obsolete, quota.ID)
			}
		}

		if len(obsolete) > 0 {
			deleted, err := r.deleteQuotaRows(ctx, tx, obsolete)
			if err != nil {
				return err
			}
			result.Deleted += deleted
		}

		now := time.Now()
		for _, quota := range quotas {
			// Insert-or-replace keyed by remote id. Rows outside the
			// fetched window are replaced too if the remote id matches.
			oldIDs := make([]int, 0, 1)
			err := tx.NewSelect().
				Model((*models.Quota)(nil)).
				Column("q.id").
				Where("q.remote_id = ?", quota.RemoteID).
				Scan(ctx, &oldIDs)
			if err != nil {
				return errors.WithStack(err)
			}

			if len(oldIDs) > 0 {
				if _, err := r.deleteQuotaRows(ctx, tx, oldIDs); err != nil {
					return err
				}
				result.Updated++
			} else {
				result.Inserted++
			}

			quota.ID = 0
			quota.CreatedAt = now
			quota.UpdatedAt = now
			if _, err := tx.NewInsert().Model(quota).Returning("id").Exec(ctx); err != nil {
				return errors.WithStack(err)
			}

			for _, category := range quota.Categories {
				category.ID = 0
				category.QuotaID = quota.ID
			}
			if len(quota.Categories) > 0 {
				if _, err := tx.NewInsert().Model(&quota.Categories).Exec(ctx); err != nil {
					return errors.WithStack(err)
				}
			}
			for _, language := range quota.Languages {
				language.ID = 0
				language.QuotaID = quota.ID
			}
			if len(quota.Languages) > 0 {
				if _, err := tx.NewInsert().Model(&quota.Languages).Exec(ctx); err != nil {
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

	r.log.Info("reconciled quotas", logger.Data{
		"hut_id":   hutID,
		"inserted": result.Inserted,
		"updated":  result.Updated,
		"deleted":  result.Deleted,
	})
	return result, nil
}

// deleteQuotaRows removes quota rows by primary key, children first so
// foreign keys stay satisfied. Returns the number of parent rows
// removed.
func (r *Reconciler) deleteQuotaRows(ctx context.Context, tx bun.Tx, ids []int) (int, error) {
	_, err := tx.NewDelete().
		Model((*models.QuotaCategory)(nil)).
		Where("quota_id IN (?)", bun.In(ids)).
		Exec(ctx)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	_, err = tx.NewDelete().
		Model((*models.QuotaLanguage)(nil)).
		Where("quota_id IN (?)", bun.In(ids)).
		Exec(ctx)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	res, err := tx.NewDelete().
		Model((*models.Quota)(nil)).
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
