package v1

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corrnet/corrnet/server/runner/refresh"
)

func TestGetDataStatusEmpty(t *testing.T) {
	s := newTestService(t)

	c, rec := newJSONContext(http.MethodGet, "/api/v1/data/status", "")
	require.NoError(t, s.GetDataStatus(c))

	var rows []*DataStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	assert.Empty(t, rows)
}

func TestRefreshData(t *testing.T) {
	s := newTestService(t)
	s.Refresher = refresh.NewRunner(s.Store, s.Profile)

	// Refresh is an authenticated operation.
	c, _ := newJSONContext(http.MethodPost, "/api/v1/data/refresh", "")
	assert.Equal(t, http.StatusUnauthorized, httpStatus(s.RefreshData(c)))

	c, rec := newJSONContext(http.MethodPost, "/api/v1/data/refresh", "")
	asUser(c, 1)
	require.NoError(t, s.RefreshData(c))

	var rows []*DataStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	kinds := []string{rows[0].Kind, rows[1].Kind}
	assert.ElementsMatch(t, []string{refresh.KindNews, refresh.KindPrices}, kinds)
	for _, row := range rows {
		assert.False(t, row.Stale)
	}
}

func TestGetInstanceStats(t *testing.T) {
	s := newTestService(t)

	c, _ := newJSONContext(http.MethodPost, "/api/v1/chat", `{"message":"hi"}`)
	require.NoError(t, s.Chat(c))

	c, rec := newJSONContext(http.MethodGet, "/api/v1/stats", "")
	require.NoError(t, s.GetInstanceStats(c))

	var snapshot map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.Equal(t, 1.0, snapshot["ai_queries"])
	assert.GreaterOrEqual(t, snapshot["uptime_seconds"], 0.0)
}

func TestRefreshDataWithoutRunner(t *testing.T) {
	s := newTestService(t)
	c, _ := newJSONContext(http.MethodPost, "/api/v1/data/refresh", "")
	asUser(c, 1)
	assert.Equal(t, http.StatusServiceUnavailable, httpStatus(s.RefreshData(c)))
}
