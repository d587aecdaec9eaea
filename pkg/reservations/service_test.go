package reservations

import (
	"context"
	"database/sql"
	"testing"

	"github.com/huettenbuch/huettenbuch/pkg/migrations"
	"github.com/huettenbuch/huettenbuch/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func makeReservation(name, dateFrom, dateTo string) *models.Reservation {
	return &models.Reservation{
		HutID:         42,
		DateFrom:      dateFrom,
		DateTo:        dateTo,
		GuestName:     name,
		BedsDormitory: 2,
	}
}

func TestCreateReservation_ForcesLocalRemoteID(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	reservation := makeReservation("Muster Max", "2025-04-19", "2025-04-26")
	reservation.RemoteID = 12345

	err := svc.CreateReservation(ctx, reservation)
	require.NoError(t, err)
	require.NotZero(t, reservation.ID)
	assert.Equal(t, 0, reservation.RemoteID)
	assert.False(t, reservation.CreatedAt.IsZero())
}

func TestRetrieveReservation_NotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	id := 999
	_, err := svc.RetrieveReservation(ctx, RetrieveReservationOptions{ID: &id})
	require.Error(t, err)
}

func TestListReservations_DateWindow(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	require.NoError(t, svc.CreateReservation(ctx, makeReservation("April", "2025-04-19", "2025-04-26")))
	require.NoError(t, svc.CreateReservation(ctx, makeReservation("July", "2025-07-01", "2025-07-05")))
	// Straddles the window edge; intersecting stays count.
	require.NoError(t, svc.CreateReservation(ctx, makeReservation("Edge", "2025-04-28", "2025-05-02")))

	from := "2025-04-01"
	to := "2025-04-30"
	reservations, total, err := svc.ListReservationsWithTotal(ctx, ListReservationsOptions{
		DateFrom: &from,
		DateTo:   &to,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, reservations, 2)
	assert.Equal(t, "April", reservations[0].GuestName)
	assert.Equal(t, "Edge", reservations[1].GuestName)
}

func TestListReservations_CancelledFilter(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	open := makeReservation("Open", "2025-04-19", "2025-04-26")
	require.NoError(t, svc.CreateReservation(ctx, open))

	cancelled := makeReservation("Cancelled", "2025-04-19", "2025-04-26")
	cancelled.Cancelled = true
	require.NoError(t, svc.CreateReservation(ctx, cancelled))

	reservations, err := svc.ListReservations(ctx, ListReservationsOptions{})
	require.NoError(t, err)
	require.Len(t, reservations, 1)
	assert.Equal(t, "Open", reservations[0].GuestName)

	reservations, err = svc.ListReservations(ctx, ListReservationsOptions{IncludeCancelled: true})
	require.NoError(t, err)
	assert.Len(t, reservations, 2)
}

func TestUpdateReservation_OnlyNamedColumns(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	reservation := makeReservation("Muster Max", "2025-04-19", "2025-04-26")
	require.NoError(t, svc.CreateReservation(ctx, reservation))

	reservation.Cancelled = true
	reservation.GuestName = "should not be written"
	err := svc.UpdateReservation(ctx, reservation, UpdateReservationOptions{Columns: []string{"cancelled"}})
	require.NoError(t, err)

	got, err := svc.RetrieveReservation(ctx, RetrieveReservationOptions{ID: &reservation.ID})
	require.NoError(t, err)
	assert.True(t, got.Cancelled)
	assert.Equal(t, "Muster Max", got.GuestName)
}

func TestDeleteReservation(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	reservation := makeReservation("Muster Max", "2025-04-19", "2025-04-26")
	require.NoError(t, svc.CreateReservation(ctx, reservation))

	err := svc.DeleteReservation(ctx, reservation.ID)
	require.NoError(t, err)

	_, err = svc.RetrieveReservation(ctx, RetrieveReservationOptions{ID: &reservation.ID})
	require.Error(t, err)
}
