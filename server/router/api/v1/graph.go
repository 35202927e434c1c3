package v1

import (
	"bytes"
	"net/http"
	"strconv"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/corrnet/corrnet/plugin/layout"
	"github.com/corrnet/corrnet/plugin/layout/render"
	"github.com/corrnet/corrnet/store"
)

// maxGraphSessions bounds the number of live layout sessions.
const maxGraphSessions = 128

// graphSession pairs a layout session with the exporter that keeps its last
// published frame for PNG export.
type graphSession struct {
	session  *layout.Session
	exporter *render.Exporter
}

type sessionRegistry struct {
	mu      sync.Mutex
	entries map[string]*graphSession
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{entries: make(map[string]*graphSession)}
}

func (r *sessionRegistry) add(gs *graphSession) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) >= maxGraphSessions {
		return false
	}
	r.entries[gs.session.ID] = gs
	return true
}

func (r *sessionRegistry) get(id string) *graphSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[id]
}

func (r *sessionRegistry) remove(id string) *graphSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	gs := r.entries[id]
	delete(r.entries, id)
	return gs
}

// GraphSessionResponse describes a created layout session.
type GraphSessionResponse struct {
	ID       string           `json:"id"`
	Snapshot *layout.Snapshot `json:"snapshot"`
	Frame    *layout.Frame    `json:"frame"`
}

// CreateGraphSessionRequest is the payload for POST /graph/sessions.
type CreateGraphSessionRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// GraphEventRequest is one interaction event for a session. Type is one of
// dragStart, dragMove, dragEnd, unpin, resize.
type GraphEventRequest struct {
	Type   string  `json:"type"`
	NodeID string  `json:"node_id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// GetGraph returns the correlation snapshot for the caller's portfolio, or
// the default portfolio for anonymous callers.
// GET /api/v1/graph
func (s *APIV1Service) GetGraph(c echo.Context) error {
	snapshot, err := s.portfolioSnapshot(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snapshot)
}

// CreateGraphSession starts an interactive layout session seeded from the
// caller's portfolio and settles it to a first converged frame.
// POST /api/v1/graph/sessions
func (s *APIV1Service) CreateGraphSession(c echo.Context) error {
	request := &CreateGraphSessionRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request").SetInternal(err)
	}
	if request.Width <= 0 {
		request.Width = 800
	}
	if request.Height <= 0 {
		request.Height = 600
	}

	snapshot, err := s.portfolioSnapshot(c)
	if err != nil {
		return err
	}

	cfg := layout.DefaultConfig(request.Width, request.Height)
	session := layout.NewSession(cfg)
	session.Load(snapshot)

	gs := &graphSession{
		session:  session,
		exporter: render.NewExporter(render.DefaultOptions(int(request.Width), int(request.Height))),
	}
	if !s.sessions.add(gs) {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "too many live sessions")
	}

	frame := session.Advance(cfg.MaxTicks)
	gs.exporter.Publish(frame)
	s.Stats.RecordGraphSession()
	return c.JSON(http.StatusOK, &GraphSessionResponse{
		ID:       session.ID,
		Snapshot: snapshot,
		Frame:    frame,
	})
}

// GetGraphFrame advances the session by the requested tick count (default 1)
// and returns the resulting frame. ticks=0 renders without advancing.
// GET /api/v1/graph/sessions/:id/frame?ticks=N
func (s *APIV1Service) GetGraphFrame(c echo.Context) error {
	gs := s.sessions.get(c.Param("id"))
	if gs == nil {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}

	ticks := 1
	if ticksParam := c.QueryParam("ticks"); ticksParam != "" {
		parsed, err := strconv.Atoi(ticksParam)
		if err != nil || parsed < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid ticks")
		}
		ticks = parsed
	}

	var frame *layout.Frame
	if ticks == 0 {
		frame = gs.session.Frame()
	} else {
		frame = gs.session.Advance(ticks)
	}
	gs.exporter.Publish(frame)
	return c.JSON(http.StatusOK, frame)
}

// PostGraphEvent applies a pointer or viewport event to the session. The
// event is staged; its effect lands on the next frame request.
// POST /api/v1/graph/sessions/:id/events
func (s *APIV1Service) PostGraphEvent(c echo.Context) error {
	gs := s.sessions.get(c.Param("id"))
	if gs == nil {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	request := &GraphEventRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request").SetInternal(err)
	}

	switch request.Type {
	case "dragStart":
		gs.session.DragStart(request.NodeID, request.X, request.Y)
	case "dragMove":
		gs.session.DragMove(request.NodeID, request.X, request.Y)
	case "dragEnd":
		gs.session.DragEnd(request.NodeID)
	case "unpin":
		gs.session.Unpin(request.NodeID)
	case "resize":
		gs.session.Resize(request.Width, request.Height)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unknown event type")
	}
	return c.NoContent(http.StatusAccepted)
}

// ExportGraphPNG writes the session's last published frame as a PNG.
// GET /api/v1/graph/sessions/:id/export
func (s *APIV1Service) ExportGraphPNG(c echo.Context) error {
	gs := s.sessions.get(c.Param("id"))
	if gs == nil {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	var buf bytes.Buffer
	if err := gs.exporter.WritePNG(&buf); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to export frame").SetInternal(err)
	}
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

// DeleteGraphSession closes and discards the session.
// DELETE /api/v1/graph/sessions/:id
func (s *APIV1Service) DeleteGraphSession(c echo.Context) error {
	gs := s.sessions.remove(c.Param("id"))
	if gs == nil {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	gs.session.Close()
	return c.NoContent(http.StatusNoContent)
}

// portfolioSnapshot builds the snapshot from the caller's holdings when
// authenticated, otherwise from the default portfolio.
func (s *APIV1Service) portfolioSnapshot(c echo.Context) (*layout.Snapshot, error) {
	ctx := c.Request().Context()
	var codes []string
	if userID, err := currentUserID(c); err == nil {
		items, err := s.Store.ListPortfolioItems(ctx, &store.FindPortfolioItem{UserID: &userID})
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusInternalServerError, "failed to list portfolio").SetInternal(err)
		}
		for _, item := range items {
			codes = append(codes, item.Code)
		}
	}
	snapshot, err := s.Market.BuildSnapshot(ctx, codes)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "failed to build snapshot").SetInternal(err)
	}
	return snapshot, nil
}
