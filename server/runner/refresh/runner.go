// Package refresh keeps the market data warm: it labels unclassified news
// sentiment, records per-kind freshness, and in demo mode seeds synthetic
// price history so the graph works out of the box.
package refresh

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/corrnet/corrnet/internal/profile"
	"github.com/corrnet/corrnet/plugin/ai"
	"github.com/corrnet/corrnet/server/service/market"
	"github.com/corrnet/corrnet/server/timezone"
	"github.com/corrnet/corrnet/store"
)

const (
	// demoHistoryDays is how much synthetic price history demo mode seeds.
	demoHistoryDays = 260

	// KindNews and KindPrices are the tracked freshness kinds.
	KindNews   = "news"
	KindPrices = "prices"
)

type Runner struct {
	store    *store.Store
	interval time.Duration
	seedDemo bool
}

// NewRunner creates a data refresh runner. A zero refresh interval disables
// the periodic loop; RunOnce still works for manual triggers.
func NewRunner(store *store.Store, profile *profile.Profile) *Runner {
	return &Runner{
		store:    store,
		interval: time.Duration(profile.RefreshInterval) * time.Minute,
		seedDemo: profile.Mode == "demo",
	}
}

// Interval returns the configured refresh cadence.
func (r *Runner) Interval() time.Duration {
	return r.interval
}

// Run starts the background task.
func (r *Runner) Run(ctx context.Context) {
	// Process once on startup
	r.refresh(ctx)

	if r.interval <= 0 {
		slog.Info("refresh runner disabled, no interval configured")
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.refresh(ctx)
		case <-ctx.Done():
			slog.Info("refresh runner stopped")
			return
		}
	}
}

// RunOnce refreshes once (for manual trigger).
func (r *Runner) RunOnce(ctx context.Context) {
	r.refresh(ctx)
}

func (r *Runner) refresh(ctx context.Context) {
	if r.seedDemo {
		if err := r.seedDemoPrices(ctx); err != nil {
			slog.Error("failed to seed demo prices", "error", err)
		}
	}
	if err := r.classifyNews(ctx); err != nil {
		slog.Error("failed to classify news sentiment", "error", err)
	}
	r.markFresh(ctx, KindNews)
	r.markFresh(ctx, KindPrices)
}

// classifyNews labels articles without a sentiment using the keyword
// classifier. The label is written back so it is computed once per article.
func (r *Runner) classifyNews(ctx context.Context) error {
	items, err := r.store.ListNewsItems(ctx, &store.FindNewsItem{})
	if err != nil {
		return err
	}

	labeled := 0
	for _, item := range items {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if item.Sentiment != "" {
			continue
		}
		sentiment := string(ai.Classify(item.Title + " " + item.Content))
		if _, err := r.store.UpdateNewsItem(ctx, &store.UpdateNewsItem{
			ID:        item.ID,
			Sentiment: &sentiment,
		}); err != nil {
			slog.Error("failed to label article", "id", item.ID, "error", err)
			continue
		}
		labeled++
	}
	if labeled > 0 {
		slog.Info("labeled news sentiment", "count", labeled)
	}
	return nil
}

// seedDemoPrices generates a deterministic random walk per known listing,
// but only for codes with no stored history yet.
func (r *Runner) seedDemoPrices(ctx context.Context) error {
	for _, listing := range market.Listings() {
		code := listing.Code
		existing, err := r.store.ListPricePoints(ctx, &store.FindPricePoint{Code: &code})
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			continue
		}

		rng := rand.New(rand.NewSource(seedFor(code)))
		price := 10000 + float64(rng.Intn(90))*1000
		day := time.Now().AddDate(0, 0, -demoHistoryDays)
		for i := 0; i < demoHistoryDays; i++ {
			if timezone.IsTradingDay(day) {
				price *= 1 + (rng.Float64()-0.5)*0.04
				if _, err := r.store.UpsertPricePoint(ctx, &store.PricePoint{
					Code:  code,
					Date:  timezone.MarketDate(day),
					Close: float64(int(price)),
				}); err != nil {
					return err
				}
			}
			day = day.AddDate(0, 0, 1)
		}
		slog.Info("seeded demo price history", "code", code, "days", demoHistoryDays)
	}
	return nil
}

func (r *Runner) markFresh(ctx context.Context, kind string) {
	if _, err := r.store.UpsertDataFreshness(ctx, &store.DataFreshness{
		Kind:        kind,
		RefreshedTs: time.Now().Unix(),
	}); err != nil {
		slog.Error("failed to record freshness", "kind", kind, "error", err)
	}
}

// seedFor derives a stable RNG seed from a listing code.
func seedFor(code string) int64 {
	var seed int64
	for _, r := range code {
		seed = seed*31 + int64(r)
	}
	return seed
}
