package v1

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/corrnet/corrnet/server/service/market"
	"github.com/corrnet/corrnet/store"
)

// PortfolioItemResponse is one holding with its live valuation.
type PortfolioItemResponse struct {
	ID            int32   `json:"id"`
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	Amount        float64 `json:"amount"`
	PurchasePrice float64 `json:"purchase_price"`
	PurchaseDate  string  `json:"purchase_date"`
	CurrentPrice  float64 `json:"current_price"`
	EvalValue     float64 `json:"eval_value"`
	Profit        float64 `json:"profit"`
	ProfitRate    float64 `json:"profit_rate"`
}

// PortfolioSummaryResponse aggregates the whole portfolio.
type PortfolioSummaryResponse struct {
	TotalPurchase float64                  `json:"total_purchase"`
	TotalEval     float64                  `json:"total_eval"`
	TotalProfit   float64                  `json:"total_profit"`
	ProfitRate    float64                  `json:"profit_rate"`
	Items         []*PortfolioItemResponse `json:"items"`
}

// AddPortfolioItemRequest is the payload for POST /portfolio. Adding a code
// the user already holds merges the positions at the volume-weighted average
// purchase price.
type AddPortfolioItemRequest struct {
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	Amount        float64 `json:"amount"`
	PurchasePrice float64 `json:"purchase_price"`
	PurchaseDate  string  `json:"purchase_date"`
}

// UpdatePortfolioItemRequest is the payload for PATCH /portfolio/:id.
type UpdatePortfolioItemRequest struct {
	Amount        *float64 `json:"amount"`
	PurchasePrice *float64 `json:"purchase_price"`
}

// ListPortfolio returns the caller's holdings with valuations.
// GET /api/v1/portfolio
func (s *APIV1Service) ListPortfolio(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	items, err := s.valuedPortfolio(c, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// AddPortfolioItem records a purchase, merging with an existing position.
// POST /api/v1/portfolio
func (s *APIV1Service) AddPortfolioItem(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	request := &AddPortfolioItemRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request").SetInternal(err)
	}
	request.Code = strings.TrimSpace(request.Code)
	if request.Code == "" || request.Amount <= 0 || request.PurchasePrice <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "code, amount and purchase_price are required")
	}
	if request.Name == "" {
		request.Name = market.StockName(request.Code)
	}
	if request.PurchaseDate == "" {
		request.PurchaseDate = time.Now().Format("2006-01-02")
	}

	ctx := c.Request().Context()
	existingItems, err := s.Store.ListPortfolioItems(ctx, &store.FindPortfolioItem{UserID: &userID, Code: &request.Code})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list portfolio").SetInternal(err)
	}

	now := time.Now().Unix()
	if len(existingItems) > 0 {
		existing := existingItems[0]
		mergedAmount := existing.Amount + request.Amount
		mergedPrice := (existing.Amount*existing.PurchasePrice + request.Amount*request.PurchasePrice) / mergedAmount
		updated, err := s.Store.UpdatePortfolioItem(ctx, &store.UpdatePortfolioItem{
			ID:            existing.ID,
			Amount:        &mergedAmount,
			PurchasePrice: &mergedPrice,
			UpdatedTs:     &now,
		})
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to merge position").SetInternal(err)
		}
		return c.JSON(http.StatusOK, updated)
	}

	item, err := s.Store.CreatePortfolioItem(ctx, &store.PortfolioItem{
		UserID:        userID,
		Code:          request.Code,
		Name:          request.Name,
		Amount:        request.Amount,
		PurchasePrice: request.PurchasePrice,
		PurchaseDate:  request.PurchaseDate,
		CreatedTs:     now,
		UpdatedTs:     now,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create position").SetInternal(err)
	}
	return c.JSON(http.StatusOK, item)
}

// UpdatePortfolioItem adjusts a position's amount or average price.
// PATCH /api/v1/portfolio/:id
func (s *APIV1Service) UpdatePortfolioItem(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	item, err := s.ownedPortfolioItem(c, userID)
	if err != nil {
		return err
	}
	request := &UpdatePortfolioItemRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request").SetInternal(err)
	}
	if request.Amount == nil && request.PurchasePrice == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "nothing to update")
	}
	if request.Amount != nil && *request.Amount <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "amount must be positive")
	}

	now := time.Now().Unix()
	updated, err := s.Store.UpdatePortfolioItem(c.Request().Context(), &store.UpdatePortfolioItem{
		ID:            item.ID,
		Amount:        request.Amount,
		PurchasePrice: request.PurchasePrice,
		UpdatedTs:     &now,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update position").SetInternal(err)
	}
	return c.JSON(http.StatusOK, updated)
}

// RemovePortfolioItem sells off a position. An optional amount query sells
// part of it; without one the whole position is removed.
// DELETE /api/v1/portfolio/:id?amount=N
func (s *APIV1Service) RemovePortfolioItem(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	item, err := s.ownedPortfolioItem(c, userID)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if amountParam := c.QueryParam("amount"); amountParam != "" {
		amount, err := strconv.ParseFloat(amountParam, 64)
		if err != nil || amount <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid amount")
		}
		if amount < item.Amount {
			remaining := item.Amount - amount
			now := time.Now().Unix()
			updated, err := s.Store.UpdatePortfolioItem(ctx, &store.UpdatePortfolioItem{
				ID:        item.ID,
				Amount:    &remaining,
				UpdatedTs: &now,
			})
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "failed to reduce position").SetInternal(err)
			}
			return c.JSON(http.StatusOK, updated)
		}
	}

	if err := s.Store.DeletePortfolioItem(ctx, &store.DeletePortfolioItem{ID: item.ID}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete position").SetInternal(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetPortfolioSummary returns the aggregated valuation.
// GET /api/v1/portfolio/summary
func (s *APIV1Service) GetPortfolioSummary(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	summary, err := s.portfolioSummary(c, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

// GetPortfolioReport renders the daily portfolio report as markdown, or as
// HTML when format=html is requested.
// GET /api/v1/portfolio/report?format=html
func (s *APIV1Service) GetPortfolioReport(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	summary, err := s.portfolioSummary(c, userID)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	var headlines []*store.NewsItem
	limit := 5
	newsItems, err := s.Store.ListNewsItems(ctx, &store.FindNewsItem{Limit: &limit})
	if err == nil {
		for _, item := range newsItems {
			for _, holding := range summary.Items {
				if item.Mentions(holding.Code) {
					headlines = append(headlines, item)
					break
				}
			}
		}
	}

	report := buildPortfolioReport(summary, headlines, time.Now())
	if c.QueryParam("format") != "html" {
		return c.Blob(http.StatusOK, "text/markdown; charset=utf-8", []byte(report))
	}

	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var buf bytes.Buffer
	if err := md.Convert([]byte(report), &buf); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to render report").SetInternal(err)
	}
	return c.HTML(http.StatusOK, buf.String())
}

// buildPortfolioReport assembles the markdown daily report.
func buildPortfolioReport(summary *PortfolioSummaryResponse, headlines []*store.NewsItem, now time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# 포트폴리오 일일 리포트 (%s)\n\n", now.Format("2006-01-02"))
	fmt.Fprintf(&sb, "- 총 매수금액: %.0f\n- 총 평가금액: %.0f\n- 평가손익: %.0f (%.2f%%)\n\n",
		summary.TotalPurchase, summary.TotalEval, summary.TotalProfit, summary.ProfitRate*100)

	if len(summary.Items) > 0 {
		sb.WriteString("## 보유 종목\n\n")
		sb.WriteString("| 종목 | 수량 | 매수가 | 현재가 | 손익률 |\n")
		sb.WriteString("| --- | ---: | ---: | ---: | ---: |\n")
		for _, item := range summary.Items {
			fmt.Fprintf(&sb, "| %s (%s) | %.0f | %.0f | %.0f | %.2f%% |\n",
				item.Name, item.Code, item.Amount, item.PurchasePrice, item.CurrentPrice, item.ProfitRate*100)
		}
		sb.WriteString("\n")
	}

	if len(headlines) > 0 {
		sb.WriteString("## 관련 뉴스\n\n")
		for _, item := range headlines {
			fmt.Fprintf(&sb, "- [%s] %s (%s)\n", item.Sentiment, item.Title, item.Date)
		}
	}
	return sb.String()
}

// valuedPortfolio loads the user's holdings and attaches current prices.
func (s *APIV1Service) valuedPortfolio(c echo.Context, userID int32) ([]*PortfolioItemResponse, error) {
	ctx := c.Request().Context()
	items, err := s.Store.ListPortfolioItems(ctx, &store.FindPortfolioItem{UserID: &userID})
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "failed to list portfolio").SetInternal(err)
	}

	responses := make([]*PortfolioItemResponse, 0, len(items))
	for _, item := range items {
		response := &PortfolioItemResponse{
			ID:            item.ID,
			Code:          item.Code,
			Name:          item.Name,
			Amount:        item.Amount,
			PurchasePrice: item.PurchasePrice,
			PurchaseDate:  item.PurchaseDate,
		}
		closes, err := s.Market.PriceSeries(ctx, item.Code, 1)
		if err == nil && len(closes) > 0 {
			response.CurrentPrice = closes[0]
			response.EvalValue = closes[0] * item.Amount
			response.Profit = (closes[0] - item.PurchasePrice) * item.Amount
			if item.PurchasePrice > 0 {
				response.ProfitRate = (closes[0] - item.PurchasePrice) / item.PurchasePrice
			}
		}
		responses = append(responses, response)
	}
	return responses, nil
}

func (s *APIV1Service) portfolioSummary(c echo.Context, userID int32) (*PortfolioSummaryResponse, error) {
	items, err := s.valuedPortfolio(c, userID)
	if err != nil {
		return nil, err
	}
	summary := &PortfolioSummaryResponse{Items: items}
	for _, item := range items {
		summary.TotalPurchase += item.PurchasePrice * item.Amount
		summary.TotalEval += item.EvalValue
		summary.TotalProfit += item.Profit
	}
	if summary.TotalPurchase > 0 {
		summary.ProfitRate = summary.TotalProfit / summary.TotalPurchase
	}
	return summary, nil
}

// ownedPortfolioItem resolves :id and checks ownership.
func (s *APIV1Service) ownedPortfolioItem(c echo.Context, userID int32) (*store.PortfolioItem, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	itemID := int32(id)
	items, err := s.Store.ListPortfolioItems(c.Request().Context(), &store.FindPortfolioItem{ID: &itemID})
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "failed to load position").SetInternal(err)
	}
	if len(items) == 0 || items[0].UserID != userID {
		return nil, echo.NewHTTPError(http.StatusNotFound, "position not found")
	}
	return items[0], nil
}
