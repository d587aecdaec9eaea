package summaries

import (
	"context"

	"github.com/huettenbuch/huettenbuch/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type ListDailySummariesOptions struct {
	HutID    *int
	DateFrom *string
	DateTo   *string
}

// Service reads the daily occupancy mirror for dashboard feeds. Rows
// are written exclusively by the sync reconciler.
type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) ListDailySummaries(ctx context.Context, opts ListDailySummariesOptions) ([]*models.DailySummary, error) {
	summaries := []*models.DailySummary{}

	q := svc.db.
		NewSelect().
		Model(&summaries).
		Relation("Categories").
		Order("ds.day ASC")

	if opts.HutID != nil {
		q = q.Where("ds.hut_id = ?", *opts.HutID)
	}
	if opts.DateFrom != nil {
		q = q.Where("ds.day >= ?", *opts.DateFrom)
	}
	if opts.DateTo != nil {
		q = q.Where("ds.day <= ?", *opts.DateTo)
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return summaries, nil
}
