package v1

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatOffline(t *testing.T) {
	s := newTestService(t)
	require.False(t, s.AI.Online())

	c, rec := newJSONContext(http.MethodPost, "/api/v1/chat", `{"message":"삼성전자 어때?"}`)
	require.NoError(t, s.Chat(c))

	var response ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Contains(t, response.Reply, "삼성전자 어때?")
	assert.False(t, response.Online)

	c, _ = newJSONContext(http.MethodPost, "/api/v1/chat", `{"message":"  "}`)
	assert.Equal(t, http.StatusBadRequest, httpStatus(s.Chat(c)))
}

func TestListGurus(t *testing.T) {
	s := newTestService(t)

	c, rec := newJSONContext(http.MethodGet, "/api/v1/gurus", "")
	require.NoError(t, s.ListGurus(c))

	var gurus []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &gurus))
	require.Len(t, gurus, 3)
	assert.Equal(t, "Warren Buffett", gurus[0]["name"])
}

func TestGuruAnalysisOffline(t *testing.T) {
	s := newTestService(t)
	addHolding(t, s, 1, `{"code":"005930","amount":10,"purchase_price":70000}`)

	c, rec := newJSONContext(http.MethodPost, "/api/v1/guru-analysis", `{"guru":"Charlie Munger"}`)
	asUser(c, 1)
	require.NoError(t, s.GuruAnalysis(c))

	var response GuruAnalysisResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "Charlie Munger", response.Guru.Name)
	assert.Contains(t, response.Analysis, "찰리 멍거")
	assert.Contains(t, response.Analysis, "005930")

	// An empty portfolio has nothing to analyze.
	c, _ = newJSONContext(http.MethodPost, "/api/v1/guru-analysis", `{"guru":"Warren Buffett"}`)
	asUser(c, 2)
	assert.Equal(t, http.StatusBadRequest, httpStatus(s.GuruAnalysis(c)))
}
