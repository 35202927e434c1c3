package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corrnet/corrnet/store"
)

func TestWatchlistCRUD(t *testing.T) {
	s := newTestService(t)

	c, rec := newJSONContext(http.MethodPost, "/api/v1/watchlist", `{"code":"000660"}`)
	asUser(c, 1)
	require.NoError(t, s.AddWatchItem(c))
	item := &store.WatchItem{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), item))
	assert.Equal(t, "SK하이닉스", item.Name, "name falls back to the listing table")

	// Watching the same code twice returns the existing entry.
	c, rec = newJSONContext(http.MethodPost, "/api/v1/watchlist", `{"code":"000660"}`)
	asUser(c, 1)
	require.NoError(t, s.AddWatchItem(c))
	dup := &store.WatchItem{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dup))
	assert.Equal(t, item.ID, dup.ID)

	c, rec = newJSONContext(http.MethodGet, "/api/v1/watchlist", "")
	asUser(c, 1)
	require.NoError(t, s.ListWatchlist(c))
	var items []*store.WatchItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)

	// Another user cannot delete it.
	itemID := strconv.Itoa(int(item.ID))
	c, _ = newJSONContext(http.MethodDelete, "/api/v1/watchlist/"+itemID, "")
	asUser(c, 2)
	c.SetParamNames("id")
	c.SetParamValues(itemID)
	assert.Equal(t, http.StatusNotFound, httpStatus(s.RemoveWatchItem(c)))

	c, rec = newJSONContext(http.MethodDelete, "/api/v1/watchlist/"+itemID, "")
	asUser(c, 1)
	c.SetParamNames("id")
	c.SetParamValues(itemID)
	require.NoError(t, s.RemoveWatchItem(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestListToneChanges(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	c, _ := newJSONContext(http.MethodPost, "/api/v1/watchlist", `{"code":"005930"}`)
	asUser(c, 1)
	require.NoError(t, s.AddWatchItem(c))
	c, _ = newJSONContext(http.MethodPost, "/api/v1/watchlist", `{"code":"000660"}`)
	asUser(c, 1)
	require.NoError(t, s.AddWatchItem(c))

	// 005930 flips Positive -> Negative; 000660 stays Positive.
	for _, item := range []*store.NewsItem{
		{Title: "삼성전자 호실적", Date: "2026-08-27", Sentiment: "Positive", Codes: "005930"},
		{Title: "삼성전자 리콜 악재", Date: "2026-08-28", Sentiment: "Negative", Codes: "005930"},
		{Title: "SK하이닉스 수주", Date: "2026-08-27", Sentiment: "Positive", Codes: "000660"},
		{Title: "SK하이닉스 증설", Date: "2026-08-28", Sentiment: "Positive", Codes: "000660"},
	} {
		_, err := s.Store.CreateNewsItem(ctx, item)
		require.NoError(t, err)
	}

	c, rec := newJSONContext(http.MethodGet, "/api/v1/watchlist/tone-changes", "")
	asUser(c, 1)
	require.NoError(t, s.ListToneChanges(c))

	var changes []*ToneChangeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &changes))
	require.Len(t, changes, 1)
	change := changes[0]
	assert.Equal(t, "005930", change.Code)
	assert.Equal(t, "Positive", change.PreviousTone)
	assert.Equal(t, "Negative", change.CurrentTone)
	assert.Contains(t, change.Briefing, "삼성전자")
	assert.Contains(t, change.Briefing, "Negative")
}
