package v1

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignUpAndSignIn(t *testing.T) {
	s := newTestService(t)

	c, rec := newJSONContext(http.MethodPost, "/api/v1/auth/signup",
		`{"username":"alice","password":"secret","nickname":"Alice"}`)
	require.NoError(t, s.SignUp(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var signup AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &signup))
	assert.NotEmpty(t, signup.AccessToken)
	assert.Equal(t, "alice", signup.Username)
	assert.Equal(t, "Alice", signup.Nickname)

	// The signed token resolves back to the same user.
	userID, err := s.parseToken(signup.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, signup.UserID, userID)

	// Duplicate usernames are rejected.
	c, _ = newJSONContext(http.MethodPost, "/api/v1/auth/signup",
		`{"username":"alice","password":"other"}`)
	assert.Equal(t, http.StatusConflict, httpStatus(s.SignUp(c)))

	c, rec = newJSONContext(http.MethodPost, "/api/v1/auth/login",
		`{"username":"alice","password":"secret"}`)
	require.NoError(t, s.SignIn(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c, _ = newJSONContext(http.MethodPost, "/api/v1/auth/login",
		`{"username":"alice","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, httpStatus(s.SignIn(c)))

	c, _ = newJSONContext(http.MethodPost, "/api/v1/auth/login",
		`{"username":"nobody","password":"secret"}`)
	assert.Equal(t, http.StatusUnauthorized, httpStatus(s.SignIn(c)))
}

func TestSignUpValidation(t *testing.T) {
	s := newTestService(t)

	c, _ := newJSONContext(http.MethodPost, "/api/v1/auth/signup", `{"username":"","password":""}`)
	assert.Equal(t, http.StatusBadRequest, httpStatus(s.SignUp(c)))

	// Without a configured secret the auth endpoints are disabled.
	s.Secret = ""
	c, _ = newJSONContext(http.MethodPost, "/api/v1/auth/signup",
		`{"username":"bob","password":"pw"}`)
	assert.Equal(t, http.StatusServiceUnavailable, httpStatus(s.SignUp(c)))
}

func TestAuthMiddleware(t *testing.T) {
	s := newTestService(t)

	c, rec := newJSONContext(http.MethodPost, "/api/v1/auth/signup",
		`{"username":"carol","password":"pw"}`)
	require.NoError(t, s.SignUp(c))
	var signup AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &signup))

	handler := s.authMiddleware(func(c echo.Context) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}
		assert.Equal(t, signup.UserID, userID)
		return nil
	})

	c, _ = newJSONContext(http.MethodGet, "/api/v1/portfolio", "")
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer "+signup.AccessToken)
	assert.NoError(t, handler(c))

	// A garbage token is rejected outright.
	c, _ = newJSONContext(http.MethodGet, "/api/v1/portfolio", "")
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, httpStatus(handler(c)))

	// No token passes through; the handler itself demands identity.
	c, _ = newJSONContext(http.MethodGet, "/api/v1/portfolio", "")
	assert.Equal(t, http.StatusUnauthorized, httpStatus(handler(c)))
}
