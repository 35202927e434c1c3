package market

import (
	"context"
	"math"
)

// Indicators holds the technical indicators for one stock. Fields are only
// meaningful when the matching Has flag is set; the price history may be too
// short for the longer averages.
type Indicators struct {
	CurrentPrice float64 `json:"current_price"`
	ChangeRate   float64 `json:"change_rate"`

	SMA50       float64 `json:"sma_50,omitempty"`
	HasSMA50    bool    `json:"-"`
	SMA150      float64 `json:"sma_150,omitempty"`
	HasSMA150   bool    `json:"-"`
	SMA200      float64 `json:"sma_200,omitempty"`
	HasSMA200   bool    `json:"-"`
	SMA200Slope float64 `json:"sma_200_slope,omitempty"`
	HasSlope    bool    `json:"-"`

	Week52High    float64 `json:"week_52_high,omitempty"`
	Week52Low     float64 `json:"week_52_low,omitempty"`
	Position52W   float64 `json:"position_52w,omitempty"`
	HasWeek52     bool    `json:"-"`
	HasPosition52 bool    `json:"-"`
}

// Indicators computes indicators from code's stored closes (newest first).
// Fewer than 2 points yields nil: there is no change rate to report.
func (s *Service) Indicators(ctx context.Context, code string) (*Indicators, error) {
	closes, err := s.PriceSeries(ctx, code, 0)
	if err != nil {
		return nil, err
	}
	return computeIndicators(closes), nil
}

func computeIndicators(closes []float64) *Indicators {
	if len(closes) < 2 {
		return nil
	}

	ind := &Indicators{CurrentPrice: closes[0]}
	if closes[1] != 0 {
		ind.ChangeRate = round4((closes[0] - closes[1]) / closes[1])
	}

	if len(closes) >= 50 {
		ind.SMA50, ind.HasSMA50 = round2(mean(closes[:50])), true
	}
	if len(closes) >= 150 {
		ind.SMA150, ind.HasSMA150 = round2(mean(closes[:150])), true
	}
	if len(closes) >= 200 {
		ind.SMA200, ind.HasSMA200 = round2(mean(closes[:200])), true
		// Slope compares the current SMA-200 against its value 20 sessions ago.
		if len(closes) >= 220 {
			now := mean(closes[:200])
			ago := mean(closes[20:220])
			if ago != 0 {
				ind.SMA200Slope, ind.HasSlope = round4((now-ago)/ago), true
			}
		}
	}

	yearWindow := len(closes)
	if yearWindow > 252 {
		yearWindow = 252
	}
	year := closes[:yearWindow]
	high, low := year[0], year[0]
	for _, c := range year[1:] {
		if c > high {
			high = c
		}
		if c < low {
			low = c
		}
	}
	ind.Week52High, ind.Week52Low, ind.HasWeek52 = high, low, true
	if high > low {
		ind.Position52W = round2((ind.CurrentPrice - low) / (high - low))
		ind.HasPosition52 = true
	}
	return ind
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
