package worker

import (
	"context"
	"database/sql"
	"testing"

	"github.com/huettenbuch/huettenbuch/pkg/config"
	"github.com/huettenbuch/huettenbuch/pkg/jobs"
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

func TestProcessJob_StagingMerge(t *testing.T) {
	db := newTestDB(t)
	cfg := config.NewForTest()
	w := New(cfg, db)
	jobService := jobs.NewService(db)
	ctx := context.Background()

	staged := &models.ReservationStaging{
		RemoteID:  100,
		HutID:     42,
		DateFrom:  "2025-04-19",
		DateTo:    "2025-04-26",
		GuestName: "Muster Max",
		Status:    models.ReservationStatusOpen,
	}
	_, err := db.NewInsert().Model(staged).Exec(ctx)
	require.NoError(t, err)

	job := &models.Job{
		Type:       models.JobTypeStagingMerge,
		Status:     models.JobStatusPending,
		DataParsed: &models.JobStagingMergeData{},
	}
	require.NoError(t, jobService.CreateJob(ctx, job))
	require.NoError(t, job.UnmarshalData())

	w.processJob(job)

	got, err := jobService.RetrieveJob(ctx, jobs.RetrieveJobOptions{ID: &job.ID})
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, got.Status)
	require.NotNil(t, got.ProcessID)

	count, err := db.NewSelect().Model((*models.Reservation)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestProcessJob_UnknownTypeFails(t *testing.T) {
	db := newTestDB(t)
	cfg := config.NewForTest()
	w := New(cfg, db)
	jobService := jobs.NewService(db)
	ctx := context.Background()

	job := &models.Job{
		Type:   "unknown",
		Status: models.JobStatusPending,
	}
	require.NoError(t, jobService.CreateJob(ctx, job))

	w.processJob(job)

	got, err := jobService.RetrieveJob(ctx, jobs.RetrieveJobOptions{ID: &job.ID})
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusFailed, got.Status)
	require.NotNil(t, got.Error)
}

func TestProcessJob_RemoteSyncFailureMarksFailed(t *testing.T) {
	db := newTestDB(t)
	// The test config has no remote credentials, so the run aborts
	// before any network access.
	cfg := config.NewForTest()
	w := New(cfg, db)
	jobService := jobs.NewService(db)
	ctx := context.Background()

	job := &models.Job{
		Type:       models.JobTypeRemoteSync,
		Status:     models.JobStatusPending,
		DataParsed: &models.JobRemoteSyncData{HutID: 42},
	}
	require.NoError(t, jobService.CreateJob(ctx, job))
	require.NoError(t, job.UnmarshalData())

	w.processJob(job)

	got, err := jobService.RetrieveJob(ctx, jobs.RetrieveJobOptions{ID: &job.ID})
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusFailed, got.Status)
	require.NotNil(t, got.Error)
	assert.Contains(t, *got.Error, "not configured")
}
