package v1

import (
	"encoding/json"
	"image/png"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corrnet/corrnet/plugin/layout"
	"github.com/corrnet/corrnet/server/service/market"
)

func TestGetGraphAnonymousFallsBack(t *testing.T) {
	s := newTestService(t)

	c, rec := newJSONContext(http.MethodGet, "/api/v1/graph", "")
	require.NoError(t, s.GetGraph(c))

	var snapshot layout.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.Equal(t, market.DefaultPortfolioCodes, snapshot.AnchorIDs)
	assert.NotEmpty(t, snapshot.Nodes)
}

func TestGetGraphUsesPortfolioAnchors(t *testing.T) {
	s := newTestService(t)
	addHolding(t, s, 1, `{"code":"042700","amount":5,"purchase_price":100000}`)

	c, rec := newJSONContext(http.MethodGet, "/api/v1/graph", "")
	asUser(c, 1)
	require.NoError(t, s.GetGraph(c))

	var snapshot layout.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.Equal(t, []string{"042700"}, snapshot.AnchorIDs)
}

func TestGraphSessionLifecycle(t *testing.T) {
	s := newTestService(t)

	c, rec := newJSONContext(http.MethodPost, "/api/v1/graph/sessions", `{"width":400,"height":300}`)
	require.NoError(t, s.CreateGraphSession(c))
	var created GraphSessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	require.NotNil(t, created.Frame)
	assert.LessOrEqual(t, created.Frame.Alpha, 0.0011, "a fresh session settles before responding")
	assert.Len(t, created.Frame.Nodes, len(created.Snapshot.Nodes))

	// A drag event pins the node at the pointer.
	nodeID := created.Frame.Nodes[0].ID
	c, _ = newJSONContext(http.MethodPost, "/api/v1/graph/sessions/"+created.ID+"/events",
		`{"type":"dragStart","node_id":"`+nodeID+`","x":50,"y":60}`)
	c.SetParamNames("id")
	c.SetParamValues(created.ID)
	require.NoError(t, s.PostGraphEvent(c))

	c, rec = newJSONContext(http.MethodGet, "/api/v1/graph/sessions/"+created.ID+"/frame?ticks=1", "")
	c.SetParamNames("id")
	c.SetParamValues(created.ID)
	require.NoError(t, s.GetGraphFrame(c))
	var frame layout.Frame
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &frame))
	for _, node := range frame.Nodes {
		if node.ID == nodeID {
			assert.Equal(t, 50.0, node.X)
			assert.Equal(t, 60.0, node.Y)
		}
	}

	// The export is a decodable PNG at the session's canvas size.
	c, rec = newJSONContext(http.MethodGet, "/api/v1/graph/sessions/"+created.ID+"/export", "")
	c.SetParamNames("id")
	c.SetParamValues(created.ID)
	require.NoError(t, s.ExportGraphPNG(c))
	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())

	c, rec = newJSONContext(http.MethodDelete, "/api/v1/graph/sessions/"+created.ID, "")
	c.SetParamNames("id")
	c.SetParamValues(created.ID)
	require.NoError(t, s.DeleteGraphSession(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// The session is gone afterwards.
	c, _ = newJSONContext(http.MethodGet, "/api/v1/graph/sessions/"+created.ID+"/frame", "")
	c.SetParamNames("id")
	c.SetParamValues(created.ID)
	assert.Equal(t, http.StatusNotFound, httpStatus(s.GetGraphFrame(c)))
}

func TestPostGraphEventValidation(t *testing.T) {
	s := newTestService(t)

	c, rec := newJSONContext(http.MethodPost, "/api/v1/graph/sessions", `{}`)
	require.NoError(t, s.CreateGraphSession(c))
	var created GraphSessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	c, _ = newJSONContext(http.MethodPost, "/api/v1/graph/sessions/"+created.ID+"/events",
		`{"type":"wobble"}`)
	c.SetParamNames("id")
	c.SetParamValues(created.ID)
	assert.Equal(t, http.StatusBadRequest, httpStatus(s.PostGraphEvent(c)))

	c, _ = newJSONContext(http.MethodPost, "/api/v1/graph/sessions/missing/events",
		`{"type":"dragEnd","node_id":"005930"}`)
	c.SetParamNames("id")
	c.SetParamValues("missing")
	assert.Equal(t, http.StatusNotFound, httpStatus(s.PostGraphEvent(c)))
}
