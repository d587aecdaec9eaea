package sync

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/huettenbuch/huettenbuch/pkg/config"
	"github.com/huettenbuch/huettenbuch/pkg/models"
	"github.com/huettenbuch/huettenbuch/pkg/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSyncServer serves the full handshake plus one small data set for
// every fetch endpoint.
func newSyncServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Set-Cookie", "JSESSIONID=abc; Path=/")
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/v1/csrf", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"csrf-token"}`))
	})
	mux.HandleFunc("/api/v1/users/verifyEmail", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/v1/users/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/v1/manage/reservation/list", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"_embedded":{"reservationList":[
			{"reservationNumber":12345,"checkinDate":"19.04.2025","checkoutDate":"26.04.2025",
			 "firstName":"Max","lastName":"Muster","status":"RESERVED",
			 "categories":[{"categoryId":1,"amount":4}]},
			{"checkinDate":"20.04.2025","checkoutDate":"21.04.2025"}
		]}}`))
	})
	mux.HandleFunc("/api/v1/manage/hutQuota", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"_embedded":{"bedCapacityChangeResponseDTOList":[
			{"id":55,"dateFrom":"01.06.2025","dateTo":"30.09.2025","mode":"SERVICED","capacity":60,
			 "categories":[{"categoryId":1,"totalBeds":40}]}
		]},"page":{"totalPages":1,"number":0}}`))
	})
	mux.HandleFunc("/api/v1/manage/reservation/dailySummary", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"date":"15.07.2025","totalGuests":52,
			"categories":[{"categoryId":1,"freePlaces":8,"assignedGuests":32,"percentOccupied":80}]}]`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newSyncConfig(baseURL string) *config.Config {
	cfg := config.NewForTest()
	cfg.RemoteBaseURL = baseURL
	cfg.RemoteEmail = "hut@example.com"
	cfg.RemotePassword = "secret"
	cfg.HutID = 42
	return cfg
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	server := newSyncServer(t)
	db := newTestDB(t)
	runner := NewRunner(newSyncConfig(server.URL), db)

	report, err := runner.Run(context.Background(), 0, 1)
	require.NoError(t, err)

	assert.Equal(t, 42, report.HutID)
	assert.Equal(t, 2, report.FetchedReservations)
	// The record without a reservation number is invalid and skipped.
	assert.Equal(t, 1, report.SkippedReservations)
	assert.Equal(t, 1, report.Staged)

	require.NotNil(t, report.Merge)
	assert.Equal(t, 1, report.Merge.Inserted)
	require.NotNil(t, report.Quotas)
	assert.Equal(t, 1, report.Quotas.Inserted)
	require.NotNil(t, report.Summaries)
	// The same day arrives once per 10-day window and collapses to one
	// row.
	assert.Equal(t, 1, report.Summaries.Inserted)

	assert.Equal(t, 1, countRows(t, db, (*models.Reservation)(nil)))
	assert.Equal(t, 1, countRows(t, db, (*models.Quota)(nil)))
	assert.Equal(t, 1, countRows(t, db, (*models.DailySummary)(nil)))
	// Staging is truncated by default.
	assert.Equal(t, 0, countRows(t, db, (*models.ReservationStaging)(nil)))
}

func TestRunner_Run_SecondRunIsNoOp(t *testing.T) {
	t.Parallel()

	server := newSyncServer(t)
	db := newTestDB(t)
	runner := NewRunner(newSyncConfig(server.URL), db)

	_, err := runner.Run(context.Background(), 0, 1)
	require.NoError(t, err)

	report, err := runner.Run(context.Background(), 0, 1)
	require.NoError(t, err)

	assert.Equal(t, 0, report.Merge.Inserted)
	assert.Equal(t, 1, report.Merge.Unchanged)
	assert.Equal(t, 1, countRows(t, db, (*models.Reservation)(nil)))
	assert.Equal(t, 1, countRows(t, db, (*models.Quota)(nil)))
	assert.Equal(t, 1, countRows(t, db, (*models.DailySummary)(nil)))
}

func TestRunner_Run_NotConfigured(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	runner := NewRunner(config.NewForTest(), db)

	_, err := runner.Run(context.Background(), 42, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestRunner_Run_AuthFailureAborts(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	db := newTestDB(t)
	runner := NewRunner(newSyncConfig(server.URL), db)

	_, err := runner.Run(context.Background(), 0, 1)
	require.Error(t, err)

	authErr := &remote.AuthError{}
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, 0, countRows(t, db, (*models.Reservation)(nil)))
}
