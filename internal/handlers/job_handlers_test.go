package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunJob(t *testing.T) {
	jobs := &stubJobs{}
	h := NewJobHandlers(jobs, discardLogger)

	c, rec := newContext(http.MethodPost, "/v1/admin/jobs/cart_janitor/run", "", "name", "cart_janitor")
	require.NoError(t, h.RunJob(c))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, []string{"cart_janitor"}, jobs.ran)

	c, rec = newContext(http.MethodPost, "/v1/admin/jobs/nope/run", "", "name", "nope")
	require.NoError(t, h.RunJob(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListJobs(t *testing.T) {
	h := NewJobHandlers(&stubJobs{}, discardLogger)

	c, rec := newContext(http.MethodGet, "/v1/admin/jobs", "")
	require.NoError(t, h.ListJobs(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_jobs":1`)
}
