package reservations

import (
	"context"
	"database/sql"
	"time"

	"github.com/huettenbuch/huettenbuch/pkg/errcodes"
	"github.com/huettenbuch/huettenbuch/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveReservationOptions struct {
	ID *int
}

type ListReservationsOptions struct {
	Limit            *int
	Offset           *int
	HutID            *int
	DateFrom         *string
	DateTo           *string
	IncludeCancelled bool

	includeTotal bool
}

type UpdateReservationOptions struct {
	Columns []string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// CreateReservation stores a locally created reservation. RemoteID is
// forced to 0; only the sync import writes remote ids.
func (svc *Service) CreateReservation(ctx context.Context, reservation *models.Reservation) error {
	reservation.RemoteID = 0

	now := time.Now()
	if reservation.CreatedAt.IsZero() {
		reservation.CreatedAt = now
	}
	reservation.UpdatedAt = reservation.CreatedAt

	_, err := svc.db.
		NewInsert().
		Model(reservation).
		Returning("*").
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) RetrieveReservation(ctx context.Context, opts RetrieveReservationOptions) (*models.Reservation, error) {
	reservation := &models.Reservation{}

	q := svc.db.
		NewSelect().
		Model(reservation)

	if opts.ID != nil {
		q = q.Where("r.id = ?", *opts.ID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Reservation")
		}
		return nil, errors.WithStack(err)
	}

	return reservation, nil
}

func (svc *Service) ListReservations(ctx context.Context, opts ListReservationsOptions) ([]*models.Reservation, error) {
	r, _, err := svc.listReservationsWithTotal(ctx, opts)
	return r, errors.WithStack(err)
}

func (svc *Service) ListReservationsWithTotal(ctx context.Context, opts ListReservationsOptions) ([]*models.Reservation, int, error) {
	opts.includeTotal = true
	return svc.listReservationsWithTotal(ctx, opts)
}

func (svc *Service) listReservationsWithTotal(ctx context.Context, opts ListReservationsOptions) ([]*models.Reservation, int, error) {
	reservations := []*models.Reservation{}
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&reservations).
		Order("r.date_from ASC", "r.guest_name ASC")

	if opts.HutID != nil {
		q = q.Where("r.hut_id = ?", *opts.HutID)
	}
	// A stay matches the window when it intersects it.
	if opts.DateFrom != nil {
		q = q.Where("r.date_to >= ?", *opts.DateFrom)
	}
	if opts.DateTo != nil {
		q = q.Where("r.date_from <= ?", *opts.DateTo)
	}
	if !opts.IncludeCancelled {
		q = q.Where("r.cancelled = ?", false)
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

	return reservations, total, nil
}

func (svc *Service) UpdateReservation(ctx context.Context, reservation *models.Reservation, opts UpdateReservationOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	now := time.Now()
	reservation.UpdatedAt = now
	columns := append(opts.Columns, "updated_at")

	_, err := svc.db.
		NewUpdate().
		Model(reservation).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errcodes.NotFound("Reservation")
		}
		return errors.WithStack(err)
	}
	return nil
}

func (svc *Service) DeleteReservation(ctx context.Context, id int) error {
	_, err := svc.db.
		NewDelete().
		Model((*models.Reservation)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return errors.WithStack(err)
}
