package quotas

import (
	"context"
	"database/sql"

	"github.com/huettenbuch/huettenbuch/pkg/errcodes"
	"github.com/huettenbuch/huettenbuch/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveQuotaOptions struct {
	ID *int
}

type ListQuotasOptions struct {
	Limit    *int
	Offset   *int
	HutID    *int
	DateFrom *string
	DateTo   *string

	includeTotal bool
}

// Service reads the quota mirror. Writes happen exclusively through
// the sync reconciler; there is no create or update here.
type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) RetrieveQuota(ctx context.Context, opts RetrieveQuotaOptions) (*models.Quota, error) {
	quota := &models.Quota{}

	q := svc.db.
		NewSelect().
		Model(quota).
		Relation("Categories").
		Relation("Languages")

	if opts.ID != nil {
		q = q.Where("q.id = ?", *opts.ID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Quota")
		}
		return nil, errors.WithStack(err)
	}

	return quota, nil
}

func (svc *Service) ListQuotas(ctx context.Context, opts ListQuotasOptions) ([]*models.Quota, error) {
	q, _, err := svc.listQuotasWithTotal(ctx, opts)
	return q, errors.WithStack(err)
}

func (svc *Service) ListQuotasWithTotal(ctx context.Context, opts ListQuotasOptions) ([]*models.Quota, int, error) {
	opts.includeTotal = true
	return svc.listQuotasWithTotal(ctx, opts)
}

func (svc *Service) listQuotasWithTotal(ctx context.Context, opts ListQuotasOptions) ([]*models.Quota, int, error) {
	quotas := []*models.Quota{}
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&quotas).
		Relation("Categories").
		Relation("Languages").
		Order("q.date_from ASC")

	if opts.HutID != nil {
		q = q.Where("q.hut_id = ?", *opts.HutID)
	}
	if opts.DateFrom != nil {
		q = q.Where("q.date_to >= ?", *opts.DateFrom)
	}
	if opts.DateTo != nil {
		q = q.Where("q.date_from <= ?", *opts.DateTo)
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return quotas, total, nil
}
