package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corrnet/corrnet/store"
)

func addHolding(t *testing.T, s *APIV1Service, userID int32, body string) *store.PortfolioItem {
	t.Helper()
	c, rec := newJSONContext(http.MethodPost, "/api/v1/portfolio", body)
	asUser(c, userID)
	require.NoError(t, s.AddPortfolioItem(c))
	require.Equal(t, http.StatusOK, rec.Code)
	item := &store.PortfolioItem{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), item))
	return item
}

func TestAddPortfolioItemMergesPositions(t *testing.T) {
	s := newTestService(t)

	first := addHolding(t, s, 1, `{"code":"005930","amount":10,"purchase_price":70000}`)
	assert.Equal(t, "삼성전자", first.Name, "name falls back to the listing table")
	assert.Equal(t, 10.0, first.Amount)

	// Buying more of the same code merges at the volume-weighted average.
	merged := addHolding(t, s, 1, `{"code":"005930","amount":10,"purchase_price":80000}`)
	assert.Equal(t, first.ID, merged.ID)
	assert.Equal(t, 20.0, merged.Amount)
	assert.Equal(t, 75000.0, merged.PurchasePrice)
}

func TestPortfolioRequiresAuth(t *testing.T) {
	s := newTestService(t)
	c, _ := newJSONContext(http.MethodGet, "/api/v1/portfolio", "")
	assert.Equal(t, http.StatusUnauthorized, httpStatus(s.ListPortfolio(c)))
}

func TestRemovePortfolioItemPartial(t *testing.T) {
	s := newTestService(t)
	item := addHolding(t, s, 1, `{"code":"000660","amount":10,"purchase_price":190000}`)

	itemID := strconv.Itoa(int(item.ID))

	// Selling part of the position reduces the amount.
	c, rec := newJSONContext(http.MethodDelete, "/api/v1/portfolio/"+itemID+"?amount=4", "")
	asUser(c, 1)
	c.SetParamNames("id")
	c.SetParamValues(itemID)
	require.NoError(t, s.RemovePortfolioItem(c))
	require.Equal(t, http.StatusOK, rec.Code)
	updated := &store.PortfolioItem{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), updated))
	assert.Equal(t, item.ID, updated.ID)
	assert.Equal(t, 6.0, updated.Amount)

	// Selling at least the full amount removes the position.
	c, rec = newJSONContext(http.MethodDelete, "/api/v1/portfolio/"+itemID+"?amount=6", "")
	asUser(c, 1)
	c.SetParamNames("id")
	c.SetParamValues(itemID)
	require.NoError(t, s.RemovePortfolioItem(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// Another user cannot touch the (now absent) position either.
	c, _ = newJSONContext(http.MethodDelete, "/api/v1/portfolio/"+itemID, "")
	asUser(c, 2)
	c.SetParamNames("id")
	c.SetParamValues(itemID)
	assert.Equal(t, http.StatusNotFound, httpStatus(s.RemovePortfolioItem(c)))
}

func TestPortfolioSummaryAndReport(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.Store.UpsertPricePoint(ctx, &store.PricePoint{Code: "005930", Date: "2026-08-28", Close: 77000})
	require.NoError(t, err)
	addHolding(t, s, 1, `{"code":"005930","amount":10,"purchase_price":70000}`)

	c, rec := newJSONContext(http.MethodGet, "/api/v1/portfolio/summary", "")
	asUser(c, 1)
	require.NoError(t, s.GetPortfolioSummary(c))
	var summary PortfolioSummaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 700000.0, summary.TotalPurchase)
	assert.Equal(t, 770000.0, summary.TotalEval)
	assert.Equal(t, 70000.0, summary.TotalProfit)
	assert.InDelta(t, 0.1, summary.ProfitRate, 1e-9)

	c, rec = newJSONContext(http.MethodGet, "/api/v1/portfolio/report", "")
	asUser(c, 1)
	require.NoError(t, s.GetPortfolioReport(c))
	report := rec.Body.String()
	assert.True(t, strings.HasPrefix(report, "# 포트폴리오 일일 리포트"))
	assert.Contains(t, report, "| 삼성전자 (005930) |")

	// format=html runs the markdown through goldmark.
	c, rec = newJSONContext(http.MethodGet, "/api/v1/portfolio/report?format=html", "")
	asUser(c, 1)
	require.NoError(t, s.GetPortfolioReport(c))
	assert.Contains(t, rec.Body.String(), "<h1")
	assert.Contains(t, rec.Body.String(), "<table>")
}
