package arbitrage

import (
	"strings"
	"time"

	"cascreener/internal/domain"
)

// edgeKeywords is the fixed table of domain keywords used by the AI-edge
// heuristic. Entries are matched as whole words (or whole phrases) against the
// normalized question. The table is immutable so scoring stays deterministic.
var edgeKeywords = []string{
	// crypto
	"bitcoin", "btc", "ethereum", "eth", "solana", "sol", "crypto", "defi",
	// macro
	"fed", "inflation", "interest rate", "rate cut", "recession", "gdp", "cpi",
	// sports
	"nfl", "nba", "mlb", "super bowl", "world cup", "championship", "playoffs",
	// tech
	"ai", "openai", "apple", "tesla", "spacex", "nvidia", "iphone",
	// elections
	"election", "president", "presidential", "senate", "congress", "governor",
}

// EdgeScore counts keyword hits in a question: 0 hits scores 0, the first hit
// 0.3, every additional hit +0.2, capped at 1.0.
func EdgeScore(question string) float64 {
	normalized := " " + NormalizeQuestion(question) + " "
	hits := 0
	for _, kw := range edgeKeywords {
		if strings.Contains(normalized, " "+kw+" ") {
			hits++
		}
	}
	if hits == 0 {
		return 0
	}
	score := 0.3 + 0.2*float64(hits-1)
	if score > 1 {
		return 1
	}
	return score
}

// Urgency buckets for the soonest end date; bands per product definition.
const (
	urgencyImminent = 24 * time.Hour
	urgencyWeek     = 7 * 24 * time.Hour
	urgencyMonth    = 30 * 24 * time.Hour
	urgencyQuarter  = 90 * 24 * time.Hour
)

// UrgencyScore grades how soon the matched markets resolve, from the soonest
// end date that is not already past. Markets with no usable end date score the
// floor value.
func UrgencyScore(now time.Time, markets ...domain.Market) float64 {
	var soonest *time.Time
	for _, m := range markets {
		if m.EndDate == nil || !m.EndDate.After(now) {
			continue
		}
		if soonest == nil || m.EndDate.Before(*soonest) {
			end := *m.EndDate
			soonest = &end
		}
	}
	if soonest == nil {
		return 0.1
	}
	switch remaining := soonest.Sub(now); {
	case remaining <= urgencyImminent:
		return 1.0
	case remaining <= urgencyWeek:
		return 0.8
	case remaining <= urgencyMonth:
		return 0.5
	case remaining <= urgencyQuarter:
		return 0.3
	default:
		return 0.1
	}
}

// Composite weights: implied profit dominates, then thematic edge, then time
// pressure. ImpliedProfit is treated as 0 when absent.
func compositeScore(opp domain.ArbitrageOpportunity) float64 {
	profit := 0.0
	if opp.ImpliedProfit != nil {
		profit = *opp.ImpliedProfit
	}
	return profit*50 + opp.AIEdgeScore*30 + opp.Urgency*20
}
