package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrsandeep/animelist/internal/jobs"
	"github.com/vrsandeep/animelist/internal/testutil"
)

func TestHealthAndConfig(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	router := server.Router()

	rr := doRequest(t, router, "GET", "/api/health", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())

	rr = doRequest(t, router, "GET", "/api/config", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"version":"test","demo_model":true,"offline_catalog":true}`, rr.Body.String())
}

func TestJobsStatus(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	router := server.Router()
	cookie, _ := testutil.GetAuthCookie(t, server, "ops@example.com", "password123")

	rr := doRequest(t, router, "GET", "/api/admin/jobs/status", nil, cookie)
	require.Equal(t, http.StatusOK, rr.Code)

	var statuses []jobs.JobStatus
	decodeBody(t, rr, &statuses)
	require.Len(t, statuses, 1)
	assert.Equal(t, jobs.SessionCleanupJob, statuses[0].Name)
	assert.Equal(t, "idle", statuses[0].Status)
}
