package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/corrnet/corrnet/internal/profile"
	storetest "github.com/corrnet/corrnet/store/test"
)

func newTestService(t *testing.T) *APIV1Service {
	ctx := context.Background()
	ts := storetest.NewTestingStore(ctx, t)
	testProfile := &profile.Profile{
		Mode:            "dev",
		Driver:          "sqlite",
		JWTSecret:       "test-secret",
		RefreshInterval: 30,
	}
	return NewAPIV1Service(testProfile.JWTSecret, testProfile, ts)
}

// newJSONContext builds an echo context carrying a JSON body.
func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func asUser(c echo.Context, userID int32) {
	c.Set(userIDContextKey, userID)
}

func httpStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if httpErr, ok := err.(*echo.HTTPError); ok {
		return httpErr.Code
	}
	return http.StatusInternalServerError
}
