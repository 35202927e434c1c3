package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/corrnet/corrnet/store"
)

// Refresher triggers one data refresh pass.
type Refresher interface {
	RunOnce(ctx context.Context)
}

// DataStatusResponse reports when one data kind was last refreshed.
type DataStatusResponse struct {
	Kind        string `json:"kind"`
	RefreshedTs int64  `json:"refreshed_ts"`
	AgeSeconds  int64  `json:"age_seconds"`
	Stale       bool   `json:"stale"`
}

// GetDataStatus returns the freshness of each tracked data kind.
// GET /api/v1/data/status
func (s *APIV1Service) GetDataStatus(c echo.Context) error {
	rows, err := s.Store.ListDataFreshness(c.Request().Context(), &store.FindDataFreshness{})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list freshness").SetInternal(err)
	}

	staleAfter := time.Duration(s.Profile.RefreshInterval) * time.Minute
	now := time.Now().Unix()
	responses := make([]*DataStatusResponse, 0, len(rows))
	for _, row := range rows {
		age := now - row.RefreshedTs
		responses = append(responses, &DataStatusResponse{
			Kind:        row.Kind,
			RefreshedTs: row.RefreshedTs,
			AgeSeconds:  age,
			Stale:       staleAfter > 0 && age > int64(staleAfter.Seconds()),
		})
	}
	return c.JSON(http.StatusOK, responses)
}

// RefreshData runs one refresh pass and returns the updated status.
// POST /api/v1/data/refresh
func (s *APIV1Service) RefreshData(c echo.Context) error {
	if _, err := currentUserID(c); err != nil {
		return err
	}
	if s.Refresher == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "refresh runner is not configured")
	}
	s.Refresher.RunOnce(c.Request().Context())
	return s.GetDataStatus(c)
}
