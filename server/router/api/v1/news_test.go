package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corrnet/corrnet/store"
)

func seedNews(t *testing.T, s *APIV1Service) {
	t.Helper()
	ctx := context.Background()
	for _, item := range []*store.NewsItem{
		{Title: "삼성전자 수주 확대", Date: "2026-08-27", Sentiment: "Positive", Codes: "005930"},
		{Title: "SK하이닉스 실적 부진", Date: "2026-08-28", Sentiment: "Negative", Codes: "000660"},
		{Title: "반도체 업황 관망", Date: "2026-08-29", Sentiment: "Neutral", Codes: "005930,000660"},
	} {
		_, err := s.Store.CreateNewsItem(ctx, item)
		require.NoError(t, err)
	}
}

func TestListNews(t *testing.T) {
	s := newTestService(t)
	seedNews(t, s)

	c, rec := newJSONContext(http.MethodGet, "/api/v1/news", "")
	require.NoError(t, s.ListNews(c))
	var items []*NewsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 3)
	assert.Equal(t, "반도체 업황 관망", items[0].Title, "newest first")
	assert.Equal(t, []string{"005930", "000660"}, items[0].Codes)
}

func TestListNewsWithFilter(t *testing.T) {
	s := newTestService(t)
	seedNews(t, s)

	filter := url.QueryEscape(`sentiment == "Negative" && "000660" in codes`)
	c, rec := newJSONContext(http.MethodGet, "/api/v1/news?filter="+filter, "")
	require.NoError(t, s.ListNews(c))
	var items []*NewsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "SK하이닉스 실적 부진", items[0].Title)

	// Non-boolean and malformed filters are rejected.
	c, _ = newJSONContext(http.MethodGet, "/api/v1/news?filter="+url.QueryEscape(`title`), "")
	assert.Equal(t, http.StatusBadRequest, httpStatus(s.ListNews(c)))
	c, _ = newJSONContext(http.MethodGet, "/api/v1/news?filter="+url.QueryEscape(`sentiment ==`), "")
	assert.Equal(t, http.StatusBadRequest, httpStatus(s.ListNews(c)))
}

func TestListNewsFilterWithLimit(t *testing.T) {
	s := newTestService(t)
	seedNews(t, s)

	filter := url.QueryEscape(`"005930" in codes`)
	c, rec := newJSONContext(http.MethodGet, "/api/v1/news?limit=1&filter="+filter, "")
	require.NoError(t, s.ListNews(c))
	var items []*NewsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "반도체 업황 관망", items[0].Title)
}

func TestGetNewsFeed(t *testing.T) {
	s := newTestService(t)
	seedNews(t, s)

	c, rec := newJSONContext(http.MethodGet, "/api/v1/news/rss", "")
	require.NoError(t, s.GetNewsFeed(c))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "application/rss+xml")

	body := rec.Body.String()
	assert.Contains(t, body, "<rss")
	assert.Contains(t, body, "CorrNet Market News")
	assert.Contains(t, body, "[Negative] SK하이닉스 실적 부진")
}
