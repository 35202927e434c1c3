package v1

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/corrnet/corrnet/store"
)

const (
	// accessTokenDuration is the validity window of a signed token.
	accessTokenDuration = 7 * 24 * time.Hour

	userIDContextKey = "user-id"
)

// claims carries the authenticated user identity inside the token.
type claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// SignUpRequest is the payload for POST /auth/signup.
type SignUpRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

// SignInRequest is the payload for POST /auth/login.
type SignInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse returns the signed token and basic user info.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	UserID      int32  `json:"user_id"`
	Username    string `json:"username"`
	Nickname    string `json:"nickname"`
}

// SignUp creates a user account and returns a fresh token.
// POST /api/v1/auth/signup
func (s *APIV1Service) SignUp(c echo.Context) error {
	if s.Secret == "" {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "auth is not configured")
	}

	request := &SignUpRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request").SetInternal(err)
	}
	request.Username = strings.TrimSpace(request.Username)
	if request.Username == "" || request.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	ctx := c.Request().Context()
	existing, err := s.Store.GetUser(ctx, &store.FindUser{Username: &request.Username})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to look up user").SetInternal(err)
	}
	if existing != nil {
		return echo.NewHTTPError(http.StatusConflict, "username is taken")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to hash password").SetInternal(err)
	}

	nickname := request.Nickname
	if nickname == "" {
		nickname = request.Username
	}
	now := time.Now().Unix()
	user, err := s.Store.CreateUser(ctx, &store.User{
		Username:     request.Username,
		Nickname:     nickname,
		PasswordHash: string(passwordHash),
		CreatedTs:    now,
		UpdatedTs:    now,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create user").SetInternal(err)
	}

	token, err := s.signToken(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to sign token").SetInternal(err)
	}
	return c.JSON(http.StatusOK, &AuthResponse{
		AccessToken: token,
		UserID:      user.ID,
		Username:    user.Username,
		Nickname:    user.Nickname,
	})
}

// SignIn verifies credentials and returns a token.
// POST /api/v1/auth/login
func (s *APIV1Service) SignIn(c echo.Context) error {
	if s.Secret == "" {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "auth is not configured")
	}

	request := &SignInRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request").SetInternal(err)
	}

	ctx := c.Request().Context()
	user, err := s.Store.GetUser(ctx, &store.FindUser{Username: &request.Username})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to look up user").SetInternal(err)
	}
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	token, err := s.signToken(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to sign token").SetInternal(err)
	}
	return c.JSON(http.StatusOK, &AuthResponse{
		AccessToken: token,
		UserID:      user.ID,
		Username:    user.Username,
		Nickname:    user.Nickname,
	})
}

func (s *APIV1Service) signToken(user *store.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   jwtSubject(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(accessTokenDuration)),
		},
	})
	signed, err := token.SignedString([]byte(s.Secret))
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

func (s *APIV1Service) parseToken(tokenString string) (int32, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(s.Secret), nil
	})
	if err != nil {
		return 0, errors.Wrap(err, "parse token")
	}
	tokenClaims, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return 0, errors.New("invalid token claims")
	}
	return parseJWTSubject(tokenClaims.Subject)
}

// authMiddleware resolves the bearer token when one is present and stores the
// user id in the request context. Requests without a token pass through;
// handlers that need an identity reject them individually, which lets the
// graph endpoints serve anonymous demo traffic.
func (s *APIV1Service) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" || s.Secret == "" {
			return next(c)
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		userID, err := s.parseToken(tokenString)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token").SetInternal(err)
		}
		c.Set(userIDContextKey, userID)
		return next(c)
	}
}

// currentUserID returns the authenticated user id, or an HTTP 401 error.
func currentUserID(c echo.Context) (int32, error) {
	userID, ok := c.Get(userIDContextKey).(int32)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return userID, nil
}

func jwtSubject(userID int32) string {
	return strconv.FormatInt(int64(userID), 10)
}

func parseJWTSubject(subject string) (int32, error) {
	id, err := strconv.ParseInt(subject, 10, 32)
	if err != nil {
		return 0, errors.Wrap(err, "parse token subject")
	}
	return int32(id), nil
}
