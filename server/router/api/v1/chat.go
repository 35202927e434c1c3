package v1

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/corrnet/corrnet/plugin/ai"
	"github.com/corrnet/corrnet/store"
)

// ChatRequest is the payload for POST /chat. Either a full message history
// or a single message may be supplied.
type ChatRequest struct {
	Message  string       `json:"message"`
	Messages []ai.Message `json:"messages"`
}

// ChatResponse carries the assistant reply.
type ChatResponse struct {
	Reply  string `json:"reply"`
	Online bool   `json:"online"`
}

// GuruAnalysisRequest is the payload for POST /guru-analysis.
type GuruAnalysisRequest struct {
	Guru string `json:"guru"`
}

// GuruAnalysisResponse carries the persona opinion.
type GuruAnalysisResponse struct {
	Guru     ai.GuruConfig `json:"guru"`
	Analysis string        `json:"analysis"`
	Online   bool          `json:"online"`
}

// Chat relays a conversation to the AI provider.
// POST /api/v1/chat
func (s *APIV1Service) Chat(c echo.Context) error {
	request := &ChatRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request").SetInternal(err)
	}
	messages := request.Messages
	if len(messages) == 0 {
		if strings.TrimSpace(request.Message) == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "message is required")
		}
		messages = []ai.Message{{Role: "user", Content: request.Message}}
	}

	s.Stats.RecordAIQuery()
	reply, err := s.AI.Chat(c.Request().Context(), messages)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "chat failed").SetInternal(err)
	}
	return c.JSON(http.StatusOK, &ChatResponse{Reply: reply, Online: s.AI.Online()})
}

// ListGurus returns the available analysis personas.
// GET /api/v1/gurus
func (s *APIV1Service) ListGurus(c echo.Context) error {
	return c.JSON(http.StatusOK, ai.Gurus())
}

// GuruAnalysis asks the chosen persona for an opinion on the caller's
// portfolio, fed with live valuations, indicators and recent news.
// POST /api/v1/guru-analysis
func (s *APIV1Service) GuruAnalysis(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	request := &GuruAnalysisRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request").SetInternal(err)
	}

	holdings, err := s.valuedPortfolio(c, userID)
	if err != nil {
		return err
	}
	if len(holdings) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "portfolio is empty")
	}

	ctx := c.Request().Context()
	var portfolioText, indicatorText, newsText strings.Builder
	for _, holding := range holdings {
		fmt.Fprintf(&portfolioText, "- %s(%s): %.0f주, 매수가 %.0f, 현재가 %.0f, 손익률 %.2f%%\n",
			holding.Name, holding.Code, holding.Amount, holding.PurchasePrice,
			holding.CurrentPrice, holding.ProfitRate*100)

		if indicators, err := s.Market.Indicators(ctx, holding.Code); err == nil && indicators != nil {
			fmt.Fprintf(&indicatorText, "- %s: 현재가 %.0f, 등락률 %.2f%%",
				holding.Name, indicators.CurrentPrice, indicators.ChangeRate*100)
			if indicators.HasSMA200 {
				fmt.Fprintf(&indicatorText, ", SMA200 %.0f", indicators.SMA200)
			}
			if indicators.HasPosition52 {
				fmt.Fprintf(&indicatorText, ", 52주 위치 %.0f%%", indicators.Position52W*100)
			}
			indicatorText.WriteString("\n")
		}

		limit := 3
		articles, err := s.Store.ListNewsItems(ctx, &store.FindNewsItem{Code: &holding.Code, Limit: &limit})
		if err == nil {
			for _, article := range articles {
				fmt.Fprintf(&newsText, "- [%s] %s (%s)\n", article.Sentiment, article.Title, article.Date)
			}
		}
	}

	s.Stats.RecordAIQuery()
	analysis, err := s.AI.GuruAnalysis(ctx, request.Guru,
		portfolioText.String(), indicatorText.String(), newsText.String())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "analysis failed").SetInternal(err)
	}
	return c.JSON(http.StatusOK, &GuruAnalysisResponse{
		Guru:     ai.GuruFor(request.Guru),
		Analysis: analysis,
		Online:   s.AI.Online(),
	})
}
