// Package v1 exposes the REST API: auth, portfolio and watchlist CRUD, the
// correlation graph with interactive layout sessions, news with filtering and
// RSS, and the AI chat/analysis endpoints.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/corrnet/corrnet/internal/profile"
	"github.com/corrnet/corrnet/plugin/ai"
	"github.com/corrnet/corrnet/server/middleware"
	"github.com/corrnet/corrnet/server/service/market"
	"github.com/corrnet/corrnet/server/stats"
	"github.com/corrnet/corrnet/store"
)

type APIV1Service struct {
	Secret  string
	Profile *profile.Profile
	Store   *store.Store
	Market  *market.Service
	AI      *ai.Provider

	// Refresher triggers a data refresh on demand; wired in by the server
	// bootstrap when the refresh runner exists.
	Refresher Refresher

	Stats *stats.Collector

	sessions *sessionRegistry
	limiter  *middleware.RateLimiter
}

func NewAPIV1Service(secret string, profile *profile.Profile, store *store.Store) *APIV1Service {
	aiConfig := ai.DefaultConfig()
	aiConfig.APIKey = profile.AIAPIKey
	if profile.AIBaseURL != "" {
		aiConfig.BaseURL = profile.AIBaseURL
	}
	if profile.AIChatModel != "" {
		aiConfig.ChatModel = profile.AIChatModel
	}

	return &APIV1Service{
		Secret:   secret,
		Profile:  profile,
		Store:    store,
		Market:   market.NewService(store),
		AI:       ai.NewProvider(aiConfig),
		Stats:    stats.NewCollector(),
		sessions: newSessionRegistry(),
		limiter:  middleware.NewRateLimiter(middleware.DefaultRateLimit()),
	}
}

// RegisterRoutes mounts every handler under /api/v1 on the given Echo
// instance. Portfolio, watchlist and session mutation require a token; the
// graph itself degrades to the default portfolio for anonymous callers.
func (s *APIV1Service) RegisterRoutes(echoServer *echo.Echo) {
	apiGroup := echoServer.Group("/api/v1")
	apiGroup.Use(echomw.CORS())
	apiGroup.Use(s.authMiddleware)
	apiGroup.Use(s.rateLimitMiddleware)

	apiGroup.POST("/auth/signup", s.SignUp)
	apiGroup.POST("/auth/login", s.SignIn)

	apiGroup.GET("/stocks", s.ListStocks)
	apiGroup.GET("/stocks/:code/indicators", s.GetStockIndicators)
	apiGroup.GET("/stocks/:code/news", s.ListStockNews)

	apiGroup.GET("/news", s.ListNews)
	apiGroup.GET("/news/rss", s.GetNewsFeed)

	apiGroup.GET("/portfolio", s.ListPortfolio)
	apiGroup.POST("/portfolio", s.AddPortfolioItem)
	apiGroup.PATCH("/portfolio/:id", s.UpdatePortfolioItem)
	apiGroup.DELETE("/portfolio/:id", s.RemovePortfolioItem)
	apiGroup.GET("/portfolio/summary", s.GetPortfolioSummary)
	apiGroup.GET("/portfolio/report", s.GetPortfolioReport)

	apiGroup.GET("/watchlist", s.ListWatchlist)
	apiGroup.POST("/watchlist", s.AddWatchItem)
	apiGroup.DELETE("/watchlist/:id", s.RemoveWatchItem)
	apiGroup.GET("/watchlist/tone-changes", s.ListToneChanges)

	apiGroup.GET("/graph", s.GetGraph)
	apiGroup.POST("/graph/sessions", s.CreateGraphSession)
	apiGroup.GET("/graph/sessions/:id/frame", s.GetGraphFrame)
	apiGroup.POST("/graph/sessions/:id/events", s.PostGraphEvent)
	apiGroup.GET("/graph/sessions/:id/export", s.ExportGraphPNG)
	apiGroup.DELETE("/graph/sessions/:id", s.DeleteGraphSession)

	apiGroup.POST("/chat", s.Chat)
	apiGroup.POST("/guru-analysis", s.GuruAnalysis)
	apiGroup.GET("/gurus", s.ListGurus)

	apiGroup.GET("/data/status", s.GetDataStatus)
	apiGroup.POST("/data/refresh", s.RefreshData)

	apiGroup.GET("/stats", s.GetInstanceStats)
}

// rateLimitMiddleware throttles per client IP. AI endpoints are the expensive
// ones but the limit is generous enough that normal UI traffic never hits it.
func (s *APIV1Service) rateLimitMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.limiter.Allow(c.RealIP()) {
			return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
		}
		s.Stats.RecordRequest()
		return next(c)
	}
}

// GetInstanceStats returns the in-memory usage counters.
// GET /api/v1/stats
func (s *APIV1Service) GetInstanceStats(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Stats.Snapshot())
}
