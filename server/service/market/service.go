// Package market derives the correlation network and per-stock technical
// indicators from stored daily prices. It feeds the layout engine its
// snapshots: portfolio codes become anchors, price correlations and industry
// chain relations become links.
package market

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"github.com/corrnet/corrnet/plugin/layout"
	"github.com/corrnet/corrnet/store"
)

// CorrelationThreshold is the minimum |Pearson r| for a price link.
const CorrelationThreshold = 0.3

// CorrelationDays is how many daily closes feed the correlation window.
const CorrelationDays = 60

// Service computes market analytics over the store's price and news data.
type Service struct {
	store *store.Store
}

// NewService creates a market service.
func NewService(s *store.Store) *Service {
	return &Service{store: s}
}

// PriceSeries returns up to days closing prices for code, newest first.
func (s *Service) PriceSeries(ctx context.Context, code string, days int) ([]float64, error) {
	find := &store.FindPricePoint{Code: &code}
	if days > 0 {
		find.Limit = &days
	}
	points, err := s.store.ListPricePoints(ctx, find)
	if err != nil {
		return nil, err
	}
	closes := make([]float64, 0, len(points))
	for _, p := range points {
		closes = append(closes, p.Close)
	}
	return closes, nil
}

// Correlation computes the Pearson coefficient between two price series.
// Series shorter than 10 points carry no signal and score 0.
func Correlation(prices1, prices2 []float64) float64 {
	if len(prices1) < 10 || len(prices2) < 10 {
		return 0
	}

	n := len(prices1)
	if len(prices2) < n {
		n = len(prices2)
	}
	p1, p2 := prices1[:n], prices2[:n]

	var mean1, mean2 float64
	for i := 0; i < n; i++ {
		mean1 += p1[i]
		mean2 += p2[i]
	}
	mean1 /= float64(n)
	mean2 /= float64(n)

	var numerator, ss1, ss2 float64
	for i := 0; i < n; i++ {
		d1, d2 := p1[i]-mean1, p2[i]-mean2
		numerator += d1 * d2
		ss1 += d1 * d1
		ss2 += d2 * d2
	}

	std1 := math.Sqrt(ss1 / float64(n))
	std2 := math.Sqrt(ss2 / float64(n))
	if std1 == 0 || std2 == 0 {
		return 0
	}
	return numerator / (float64(n) * std1 * std2)
}

// CorrelationMatrix computes pairwise correlations for codes with price
// data. Both directions are populated.
func (s *Service) CorrelationMatrix(ctx context.Context, codes []string, days int) (map[string]map[string]float64, error) {
	series := make(map[string][]float64)
	withData := make([]string, 0, len(codes))
	for _, code := range codes {
		prices, err := s.PriceSeries(ctx, code, days)
		if err != nil {
			return nil, err
		}
		if len(prices) > 0 {
			series[code] = prices
			withData = append(withData, code)
		}
	}
	sort.Strings(withData)

	matrix := make(map[string]map[string]float64)
	for i, code1 := range withData {
		if matrix[code1] == nil {
			matrix[code1] = make(map[string]float64)
		}
		for _, code2 := range withData[i+1:] {
			corr := Correlation(series[code1], series[code2])
			matrix[code1][code2] = corr
			if matrix[code2] == nil {
				matrix[code2] = make(map[string]float64)
			}
			matrix[code2][code1] = corr
		}
	}
	return matrix, nil
}

// BuildSnapshot assembles the layout snapshot for a portfolio: the portfolio
// codes plus their industry chain neighbors as nodes, significant price
// correlations and chain relations as links, the portfolio itself as the
// anchor set. Chain strengths max-merge with price correlations per pair.
func (s *Service) BuildSnapshot(ctx context.Context, portfolioCodes []string) (*layout.Snapshot, error) {
	if len(portfolioCodes) == 0 {
		portfolioCodes = DefaultPortfolioCodes
	}

	codeSet := make(map[string]bool)
	for _, code := range portfolioCodes {
		codeSet[code] = true
	}
	for _, chain := range industryChains {
		for _, code := range portfolioCodes {
			if _, ok := chain.Companies[code]; ok {
				for member := range chain.Companies {
					codeSet[member] = true
				}
			}
		}
	}

	allCodes := make([]string, 0, len(codeSet))
	for code := range codeSet {
		allCodes = append(allCodes, code)
	}
	sort.Strings(allCodes)

	matrix, err := s.CorrelationMatrix(ctx, allCodes, CorrelationDays)
	if err != nil {
		return nil, err
	}

	snapshot := &layout.Snapshot{
		AnchorIDs: append([]string(nil), portfolioCodes...),
	}
	for _, code := range allCodes {
		snapshot.Nodes = append(snapshot.Nodes, layout.SnapshotNode{
			ID:          code,
			DisplayName: StockName(code),
		})
	}

	type pair struct{ a, b string }
	weights := make(map[pair]float64)
	order := make([]pair, 0)

	for _, code1 := range allCodes {
		for code2, corr := range matrix[code1] {
			if code1 >= code2 || math.Abs(corr) <= CorrelationThreshold {
				continue
			}
			key := pair{code1, code2}
			if _, seen := weights[key]; !seen {
				order = append(order, key)
			}
			weights[key] = math.Abs(corr)
		}
	}

	for _, chain := range industryChains {
		for _, rel := range chain.Relationships {
			if !codeSet[rel.CodeA] || !codeSet[rel.CodeB] {
				continue
			}
			a, b := rel.CodeA, rel.CodeB
			if a > b {
				a, b = b, a
			}
			key := pair{a, b}
			if existing, seen := weights[key]; seen {
				if rel.Strength > existing {
					weights[key] = rel.Strength
				}
			} else {
				weights[key] = rel.Strength
				order = append(order, key)
			}
		}
	}

	for _, key := range order {
		snapshot.Links = append(snapshot.Links, layout.SnapshotLink{
			SourceID: key.a,
			TargetID: key.b,
			Weight:   weights[key],
		})
	}

	slog.Debug("built correlation snapshot",
		"nodes", len(snapshot.Nodes),
		"links", len(snapshot.Links),
		"anchors", len(snapshot.AnchorIDs))
	return snapshot, nil
}
