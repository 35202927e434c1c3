package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/corrnet/corrnet/server/service/market"
	"github.com/corrnet/corrnet/store"
)

// StockResponse is one listing with its latest price, when available.
type StockResponse struct {
	market.Listing
	CurrentPrice float64 `json:"current_price,omitempty"`
}

// ListStocks returns the known securities with their latest close.
// GET /api/v1/stocks
func (s *APIV1Service) ListStocks(c echo.Context) error {
	ctx := c.Request().Context()
	listings := market.Listings()
	responses := make([]*StockResponse, 0, len(listings))
	for _, listing := range listings {
		response := &StockResponse{Listing: listing}
		closes, err := s.Market.PriceSeries(ctx, listing.Code, 1)
		if err == nil && len(closes) > 0 {
			response.CurrentPrice = closes[0]
		}
		responses = append(responses, response)
	}
	return c.JSON(http.StatusOK, responses)
}

// GetStockIndicators returns the technical indicators for one code.
// GET /api/v1/stocks/:code/indicators
func (s *APIV1Service) GetStockIndicators(c echo.Context) error {
	code := c.Param("code")
	indicators, err := s.Market.Indicators(c.Request().Context(), code)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to compute indicators").SetInternal(err)
	}
	if indicators == nil {
		return echo.NewHTTPError(http.StatusNotFound, "not enough price data")
	}
	return c.JSON(http.StatusOK, indicators)
}

// ListStockNews returns recent news mentioning the code, newest first.
// GET /api/v1/stocks/:code/news?limit=N
func (s *APIV1Service) ListStockNews(c echo.Context) error {
	code := c.Param("code")
	find := &store.FindNewsItem{Code: &code}
	if limitParam := c.QueryParam("limit"); limitParam != "" {
		limit, err := strconv.Atoi(limitParam)
		if err != nil || limit <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		find.Limit = &limit
	}
	items, err := s.Store.ListNewsItems(c.Request().Context(), find)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list news").SetInternal(err)
	}
	return c.JSON(http.StatusOK, toNewsResponses(items))
}
