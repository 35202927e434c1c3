package refresh

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corrnet/corrnet/internal/profile"
	"github.com/corrnet/corrnet/store"
	storetest "github.com/corrnet/corrnet/store/test"
)

func TestRunOnceLabelsSentiment(t *testing.T) {
	ctx := context.Background()
	ts := storetest.NewTestingStore(ctx, t)

	item, err := ts.CreateNewsItem(ctx, &store.NewsItem{
		Title: "삼성전자 수주 급등", Date: "2026-08-28", Codes: "005930",
	})
	require.NoError(t, err)
	require.Empty(t, item.Sentiment)

	runner := NewRunner(ts, &profile.Profile{Mode: "prod"})
	runner.RunOnce(ctx)

	items, err := ts.ListNewsItems(ctx, &store.FindNewsItem{ID: &item.ID})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Positive", items[0].Sentiment)

	// Freshness is recorded for both kinds.
	for _, kind := range []string{KindNews, KindPrices} {
		freshness, err := ts.GetDataFreshness(ctx, kind)
		require.NoError(t, err)
		require.NotNil(t, freshness)
		assert.Greater(t, freshness.RefreshedTs, int64(0))
	}
}

func TestRunOnceKeepsExistingLabels(t *testing.T) {
	ctx := context.Background()
	ts := storetest.NewTestingStore(ctx, t)

	item, err := ts.CreateNewsItem(ctx, &store.NewsItem{
		Title: "적자 전환 급락", Date: "2026-08-28", Sentiment: "Positive",
	})
	require.NoError(t, err)

	runner := NewRunner(ts, &profile.Profile{Mode: "prod"})
	runner.RunOnce(ctx)

	items, err := ts.ListNewsItems(ctx, &store.FindNewsItem{ID: &item.ID})
	require.NoError(t, err)
	assert.Equal(t, "Positive", items[0].Sentiment, "pre-labeled articles are untouched")
}

func TestRunOnceSeedsDemoPrices(t *testing.T) {
	ctx := context.Background()
	ts := storetest.NewTestingStore(ctx, t)

	runner := NewRunner(ts, &profile.Profile{Mode: "demo"})
	runner.RunOnce(ctx)

	code := "005930"
	series, err := ts.ListPricePoints(ctx, &store.FindPricePoint{Code: &code})
	require.NoError(t, err)
	assert.NotEmpty(t, series)

	// A second run does not duplicate or rewrite the history.
	first := series[0].Close
	runner.RunOnce(ctx)
	series2, err := ts.ListPricePoints(ctx, &store.FindPricePoint{Code: &code})
	require.NoError(t, err)
	assert.Len(t, series2, len(series))
	assert.Equal(t, first, series2[0].Close)
}
