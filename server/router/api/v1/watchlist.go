package v1

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/corrnet/corrnet/server/service/market"
	"github.com/corrnet/corrnet/store"
)

// AddWatchItemRequest is the payload for POST /watchlist.
type AddWatchItemRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// ToneChangeResponse reports a sentiment flip for a watched stock.
type ToneChangeResponse struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	PreviousTone  string `json:"previous_tone"`
	CurrentTone   string `json:"current_tone"`
	LatestTitle   string `json:"latest_title"`
	LatestDate    string `json:"latest_date"`
	Briefing      string `json:"briefing,omitempty"`
}

// ListWatchlist returns the caller's watched stocks.
// GET /api/v1/watchlist
func (s *APIV1Service) ListWatchlist(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	items, err := s.Store.ListWatchItems(c.Request().Context(), &store.FindWatchItem{UserID: &userID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list watchlist").SetInternal(err)
	}
	return c.JSON(http.StatusOK, items)
}

// AddWatchItem puts a stock on the caller's watchlist. Adding a watched code
// again is a no-op that returns the existing entry.
// POST /api/v1/watchlist
func (s *APIV1Service) AddWatchItem(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	request := &AddWatchItemRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request").SetInternal(err)
	}
	request.Code = strings.TrimSpace(request.Code)
	if request.Code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "code is required")
	}
	if request.Name == "" {
		request.Name = market.StockName(request.Code)
	}

	ctx := c.Request().Context()
	existing, err := s.Store.ListWatchItems(ctx, &store.FindWatchItem{UserID: &userID, Code: &request.Code})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list watchlist").SetInternal(err)
	}
	if len(existing) > 0 {
		return c.JSON(http.StatusOK, existing[0])
	}

	item, err := s.Store.CreateWatchItem(ctx, &store.WatchItem{
		UserID:    userID,
		Code:      request.Code,
		Name:      request.Name,
		CreatedTs: time.Now().Unix(),
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create watch item").SetInternal(err)
	}
	return c.JSON(http.StatusOK, item)
}

// RemoveWatchItem deletes a watchlist entry.
// DELETE /api/v1/watchlist/:id
func (s *APIV1Service) RemoveWatchItem(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	ctx := c.Request().Context()
	items, err := s.Store.ListWatchItems(ctx, &store.FindWatchItem{UserID: &userID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list watchlist").SetInternal(err)
	}
	for _, item := range items {
		if item.ID == int32(id) {
			if err := s.Store.DeleteWatchItem(ctx, &store.DeleteWatchItem{ID: item.ID}); err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete watch item").SetInternal(err)
			}
			return c.NoContent(http.StatusNoContent)
		}
	}
	return echo.NewHTTPError(http.StatusNotFound, "watch item not found")
}

// ListToneChanges compares the two most recent articles per watched stock and
// reports sentiment flips, each with an AI briefing.
// GET /api/v1/watchlist/tone-changes
func (s *APIV1Service) ListToneChanges(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	watched, err := s.Store.ListWatchItems(ctx, &store.FindWatchItem{UserID: &userID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list watchlist").SetInternal(err)
	}

	changes := make([]*ToneChangeResponse, 0)
	for _, watch := range watched {
		limit := 2
		articles, err := s.Store.ListNewsItems(ctx, &store.FindNewsItem{Code: &watch.Code, Limit: &limit})
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to list news").SetInternal(err)
		}
		if len(articles) < 2 {
			continue
		}
		latest, previous := articles[0], articles[1]
		if latest.Sentiment == previous.Sentiment {
			continue
		}

		change := &ToneChangeResponse{
			Code:         watch.Code,
			Name:         watch.Name,
			PreviousTone: previous.Sentiment,
			CurrentTone:  latest.Sentiment,
			LatestTitle:  latest.Title,
			LatestDate:   latest.Date,
		}
		briefing, err := s.AI.ToneBriefing(ctx, watch.Name, latest.Sentiment, latest.Title)
		if err == nil {
			change.Briefing = briefing
		}
		changes = append(changes, change)
	}
	return c.JSON(http.StatusOK, changes)
}
