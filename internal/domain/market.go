package domain

import "time"

// Platform identifies a supported prediction-market venue.
type Platform string

const (
	PlatformPolymarket Platform = "polymarket"
	PlatformKalshi     Platform = "kalshi"
)

// Market is one venue's quote for a binary proposition. YesPrice and NoPrice
// are independent quotes in [0,1]; they are not required to sum to 1.
type Market struct {
	ID         string     `json:"id"`
	Platform   Platform   `json:"platform"`
	Question   string     `json:"question"`
	YesPrice   float64    `json:"yesPrice"`
	NoPrice    float64    `json:"noPrice"`
	Volume     float64    `json:"volume"`
	Volume24h  float64    `json:"volume24h"`
	Liquidity  *float64   `json:"liquidity,omitempty"`
	EndDate    *time.Time `json:"endDate,omitempty"`
	IsResolved bool       `json:"isResolved"`
	URL        string     `json:"url"`
}

// ClampPrice forces a quote into [0,1]. Upstream feeds occasionally report
// prices slightly outside the interval (rounding, stale books).
func ClampPrice(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// IsLive reports whether the market can still be traded. An unresolved market
// with no end date is treated as indefinitely live.
func (m Market) IsLive(now time.Time) bool {
	if m.IsResolved {
		return false
	}
	if m.EndDate == nil {
		return true
	}
	return m.EndDate.After(now)
}

// Key identifies a market record across venues, used for deduplication.
func (m Market) Key() string {
	return string(m.Platform) + "|" + m.ID
}

// Side is one leg direction of a binary position.
type Side string

const (
	SideYes Side = "YES"
	SideNo  Side = "NO"
)

// Leg is one side of a binary-outcome position on one venue.
type Leg struct {
	Market Market  `json:"market"`
	Side   Side    `json:"side"`
	Price  float64 `json:"price"`
}

// ArbitrageOpportunity is a derived cross-venue finding. It is never persisted;
// instances live only for the duration of one request.
type ArbitrageOpportunity struct {
	// Question is the shorter of the two matched questions.
	Question string `json:"question"`
	// Markets holds exactly two markets, one per venue.
	Markets [2]Market `json:"markets"`
	// YesSpread and NoSpread are signed, venue-A minus venue-B.
	YesSpread float64 `json:"yesSpread"`
	NoSpread  float64 `json:"noSpread"`
	// BestYesBuy and BestNoBuy are the cheaper legs across the two venues.
	BestYesBuy Leg `json:"bestYesBuy"`
	BestNoBuy  Leg `json:"bestNoBuy"`
	// ImpliedProfit is set only when the two best leg prices sum below 1.
	ImpliedProfit *float64 `json:"impliedProfit,omitempty"`
	AIEdgeScore   float64  `json:"aiEdgeScore"`
	Urgency       float64  `json:"urgency"`
	Similarity    float64  `json:"similarity"`
	// Score is the composite ranking value.
	Score float64 `json:"score"`
}
