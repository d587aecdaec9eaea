package server

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/huettenbuch/huettenbuch/pkg/config"
	"github.com/huettenbuch/huettenbuch/pkg/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	srv, err := New(config.NewForTest(), db)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(func() {
		ts.Close()
		db.Close()
	})
	return ts
}

func TestServer_ReservationLifecycle(t *testing.T) {
	ts := newTestServer(t)

	body := `{"hut_id":42,"date_from":"2025-04-19","date_to":"2025-04-26","guest_name":"Muster Max","beds_dormitory":2}`
	resp, err := http.Post(ts.URL+"/reservations", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/reservations?date_from=2025-04-01&date_to=2025-04-30")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_CreateReservation_RejectsInvertedDates(t *testing.T) {
	ts := newTestServer(t)

	body := `{"hut_id":42,"date_from":"2025-04-26","date_to":"2025-04-19","guest_name":"Muster Max"}`
	resp, err := http.Post(ts.URL+"/reservations", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_DuplicateJobConflicts(t *testing.T) {
	ts := newTestServer(t)

	body := `{"type":"staging_merge","data":{"dry_run":true}}`
	resp, err := http.Post(ts.URL+"/jobs", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(ts.URL+"/jobs", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestServer_UnknownRouteIs404(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
