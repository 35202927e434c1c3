package v1

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/gorilla/feeds"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/corrnet/corrnet/store"
)

// NewsResponse is one article with its related codes split out.
type NewsResponse struct {
	ID        int32    `json:"id"`
	Title     string   `json:"title"`
	Date      string   `json:"date"`
	Content   string   `json:"content,omitempty"`
	Sentiment string   `json:"sentiment"`
	URL       string   `json:"url,omitempty"`
	Codes     []string `json:"codes"`
}

func toNewsResponses(items []*store.NewsItem) []*NewsResponse {
	responses := make([]*NewsResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, &NewsResponse{
			ID:        item.ID,
			Title:     item.Title,
			Date:      item.Date,
			Content:   item.Content,
			Sentiment: item.Sentiment,
			URL:       item.URL,
			Codes:     item.CodeList(),
		})
	}
	return responses
}

// newsFilterEnv declares the variables a news filter expression may use.
// Example: `sentiment == "Negative" && "005930" in codes`.
func newsFilterEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("title", cel.StringType),
		cel.Variable("sentiment", cel.StringType),
		cel.Variable("date", cel.StringType),
		cel.Variable("codes", cel.ListType(cel.StringType)),
	)
}

// compileNewsFilter compiles a CEL expression into a per-item predicate.
func compileNewsFilter(expression string) (func(item *store.NewsItem) (bool, error), error) {
	env, err := newsFilterEnv()
	if err != nil {
		return nil, errors.Wrap(err, "create filter environment")
	}
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, errors.Wrap(issues.Err(), "compile filter")
	}
	if !ast.OutputType().IsExactType(types.BoolType) {
		return nil, errors.New("filter must evaluate to a boolean")
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, errors.Wrap(err, "plan filter")
	}

	return func(item *store.NewsItem) (bool, error) {
		codes := item.CodeList()
		if codes == nil {
			codes = []string{}
		}
		out, _, err := program.Eval(map[string]any{
			"title":     item.Title,
			"sentiment": item.Sentiment,
			"date":      item.Date,
			"codes":     codes,
		})
		if err != nil {
			return false, err
		}
		return out == types.True, nil
	}, nil
}

// ListNews returns articles newest first, optionally filtered with a CEL
// expression over title, sentiment, date and codes.
// GET /api/v1/news?filter=...&limit=N
func (s *APIV1Service) ListNews(c echo.Context) error {
	find := &store.FindNewsItem{}
	limit := 0
	if limitParam := c.QueryParam("limit"); limitParam != "" {
		parsed, err := strconv.Atoi(limitParam)
		if err != nil || parsed <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		limit = parsed
	}

	filterExpr := c.QueryParam("filter")
	if filterExpr == "" && limit > 0 {
		// Without a filter the limit can be pushed down to the store.
		find.Limit = &limit
	}

	items, err := s.Store.ListNewsItems(c.Request().Context(), find)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list news").SetInternal(err)
	}

	if filterExpr != "" {
		predicate, err := compileNewsFilter(filterExpr)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid filter").SetInternal(err)
		}
		filtered := make([]*store.NewsItem, 0, len(items))
		for _, item := range items {
			keep, err := predicate(item)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "filter evaluation failed").SetInternal(err)
			}
			if keep {
				filtered = append(filtered, item)
				if limit > 0 && len(filtered) >= limit {
					break
				}
			}
		}
		items = filtered
	}
	return c.JSON(http.StatusOK, toNewsResponses(items))
}

// GetNewsFeed serves the latest articles as an RSS feed.
// GET /api/v1/news/rss
func (s *APIV1Service) GetNewsFeed(c echo.Context) error {
	limit := 50
	items, err := s.Store.ListNewsItems(c.Request().Context(), &store.FindNewsItem{Limit: &limit})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list news").SetInternal(err)
	}

	baseURL := s.Profile.InstanceURL
	feed := &feeds.Feed{
		Title:       "CorrNet Market News",
		Link:        &feeds.Link{Href: baseURL + "/api/v1/news"},
		Description: "Market news with sentiment labels",
		Created:     time.Now(),
	}
	for _, item := range items {
		created, _ := time.Parse("2006-01-02", item.Date)
		link := item.URL
		if link == "" {
			link = fmt.Sprintf("%s/api/v1/news?filter=title==%q", baseURL, item.Title)
		}
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          fmt.Sprintf("news-%d", item.ID),
			Title:       fmt.Sprintf("[%s] %s", item.Sentiment, item.Title),
			Link:        &feeds.Link{Href: link},
			Description: item.Content,
			Created:     created,
		})
	}

	rss, err := feed.ToRss()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to render feed").SetInternal(err)
	}
	return c.Blob(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(rss))
}
