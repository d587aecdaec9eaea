package sync

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/huettenbuch/huettenbuch/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

// MergeOptions controls one staging merge run. The zero value writes
// and clears the staging table afterwards.
type MergeOptions struct {
	// DryRun classifies every staged row without writing anything.
	DryRun bool
	// KeepStaging leaves the staging table in place after a successful
	// merge instead of truncating it.
	KeepStaging bool
}

// MergeResult reports the classification of every staged row. Errors
// holds per-row validation messages; those rows were skipped, the rest
// of the batch still went through.
type MergeResult struct {
	Total     int      `json:"total"`
	Inserted  int      `json:"inserted"`
	Updated   int      `json:"updated"`
	Unchanged int      `json:"unchanged"`
	Errors    []string `json:"errors,omitempty"`
}

// MergeStaging merges the staging table into the authoritative
// reservations table. The reservations table deliberately has no UNIQUE
// constraint on remote_id (locally created rows all carry 0), so the
// merge pre-loads the positive remote ids into memory once and decides
// UPDATE vs INSERT per row: remote id 0 always inserts, a known remote
// id updates in place, an unknown one inserts and joins the set so a
// duplicate later in the same batch becomes an update. Everything runs
// in one transaction.
func (r *Reconciler) MergeStaging(ctx context.Context, opts MergeOptions) (*MergeResult, error) {
	result := &MergeResult{}

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		staged := []*models.ReservationStaging{}
		err := tx.NewSelect().
			Model(&staged).
			Order("rs.id ASC").
			Scan(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		result.Total = len(staged)

		remoteIDs := make([]int, 0)
		err = tx.NewSelect().
			Model((*models.Reservation)(nil)).
			Column("r.remote_id").
			Where("r.remote_id > 0").
			Scan(ctx, &remoteIDs)
		if err != nil {
			return errors.WithStack(err)
		}
		known := make(map[int]struct{}, len(remoteIDs))
		for _, id := range remoteIDs {
			known[id] = struct{}{}
		}

		now := time.Now()
		for _, row := range staged {
			if row.DateFrom == "" || row.DateTo == "" {
				result.Errors = append(result.Errors, fmt.Sprintf("staging row %d has no stay dates", row.ID))
				continue
			}

			_, exists := known[row.RemoteID]
			switch {
			case row.RemoteID <= 0:
				// Local reservations are never deduplicated.
				result.Inserted++
				if !opts.DryRun {
					if err := insertReservation(ctx, tx, row, now); err != nil {
						return err
					}
				}
			case exists:
				existing := &models.Reservation{}
				err := tx.NewSelect().
					Model(existing).
					Where("r.remote_id = ?", row.RemoteID).
					Order("r.id ASC").
					Limit(1).
					Scan(ctx)
				if err != nil {
					if errors.Is(err, sql.ErrNoRows) && opts.DryRun {
						// The id joined the set earlier in this dry-run
						// batch; nothing was written to compare against.
						result.Updated++
						continue
					}
					return errors.WithStack(err)
				}
				if reservationMatchesStaging(existing, row) {
					result.Unchanged++
					continue
				}
				result.Updated++
				if !opts.DryRun {
					if err := updateReservation(ctx, tx, existing, row, now); err != nil {
						return err
					}
				}
			default:
				result.Inserted++
				known[row.RemoteID] = struct{}{}
				if !opts.DryRun {
					if err := insertReservation(ctx, tx, row, now); err != nil {
						return err
					}
				}
			}
		}

		if !opts.DryRun && !opts.KeepStaging {
			_, err := tx.NewDelete().
				Model((*models.ReservationStaging)(nil)).
				Where("1=1").
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
		}

		return nil
	})
	if err != nil {
		return result, errors.WithStack(err)
	}

	r.log.Info("merged staging table", logger.Data{
		"total":     result.Total,
		"inserted":  result.Inserted,
		"updated":   result.Updated,
		"unchanged": result.Unchanged,
		"dry_run":   opts.DryRun,
	})
	return result, nil
}

func reservationFromStaging(row *models.ReservationStaging) *models.Reservation {
	return &models.Reservation{
		RemoteID:      row.RemoteID,
		HutID:         row.HutID,
		DateFrom:      row.DateFrom,
		DateTo:        row.DateTo,
		GuestName:     row.GuestName,
		Email:         row.Email,
		Phone:         row.Phone,
		Comment:       row.Comment,
		ArrivalTime:   row.ArrivalTime,
		HalfBoard:     row.HalfBoard,
		Cancelled:     row.Status == models.ReservationStatusCancelled,
		CheckedIn:     row.Status == models.ReservationStatusCheckedIn,
		BedsDormitory: row.BedsDormitory,
		BedsMultiBed:  row.BedsMultiBed,
		BedsTwoBed:    row.BedsTwoBed,
		BedsSpecial:   row.BedsSpecial,
	}
}

// reservationMatchesStaging reports whether the authoritative row
// already reflects the staged one, so the merge can skip the write.
func reservationMatchesStaging(existing *models.Reservation, row *models.ReservationStaging) bool {
	candidate := reservationFromStaging(row)
	return existing.HutID == candidate.HutID &&
		existing.DateFrom == candidate.DateFrom &&
		existing.DateTo == candidate.DateTo &&
		existing.GuestName == candidate.GuestName &&
		existing.Email == candidate.Email &&
		existing.Phone == candidate.Phone &&
		existing.Comment == candidate.Comment &&
		existing.ArrivalTime == candidate.ArrivalTime &&
		existing.HalfBoard == candidate.HalfBoard &&
		existing.Cancelled == candidate.Cancelled &&
		existing.CheckedIn == candidate.CheckedIn &&
		existing.BedsDormitory == candidate.BedsDormitory &&
		existing.BedsMultiBed == candidate.BedsMultiBed &&
		existing.BedsTwoBed == candidate.BedsTwoBed &&
		existing.BedsSpecial == candidate.BedsSpecial
}

func insertReservation(ctx context.Context, tx bun.Tx, row *models.ReservationStaging, now time.Time) error {
	reservation := reservationFromStaging(row)
	reservation.CreatedAt = now
	reservation.UpdatedAt = now
	_, err := tx.NewInsert().Model(reservation).Exec(ctx)
	return errors.WithStack(err)
}

func updateReservation(ctx context.Context, tx bun.Tx, existing *models.Reservation, row *models.ReservationStaging, now time.Time) error {
	reservation := reservationFromStaging(row)
	reservation.ID = existing.ID
	reservation.CreatedAt = existing.CreatedAt
	reservation.UpdatedAt = now
	_, err := tx.NewUpdate().
		Model(reservation).
		WherePK().
		Exec(ctx)
	return errors.WithStack(err)
}
