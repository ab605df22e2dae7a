// Package arbitrage detects cross-venue arbitrage opportunities between two
// prediction-market platforms. The engine is a pure function over two already
// fetched market lists: it performs no I/O, holds no state between calls, and
// returns an empty slice (never an error) when nothing clears the thresholds.
package arbitrage

import (
	"math"
	"sort"
	"time"

	"cascreener/internal/domain"
)

// Defaults for caller-supplied thresholds.
const (
	DefaultMinSimilarity = 0.75
	DefaultMinSpread     = 0.01
)

// noiseFloor is the absolute spread below which a price difference is treated
// as market noise rather than a signal, when there is no implied profit.
const noiseFloor = 0.01

// Options tune candidate admission. Zero values fall back to the defaults.
type Options struct {
	// MinSimilarity is the minimum Jaccard question similarity in [0,1].
	MinSimilarity float64
	// MinSpread is the minimum spread (or implied profit) in [0,1].
	MinSpread float64
}

func (o Options) withDefaults() Options {
	if o.MinSimilarity <= 0 {
		o.MinSimilarity = DefaultMinSimilarity
	}
	if o.MinSpread <= 0 {
		o.MinSpread = DefaultMinSpread
	}
	return o
}

// FindOpportunities matches markets across two venues by question similarity
// and returns surviving candidates ranked by composite score, best first.
// Either input being empty yields an empty result.
func FindOpportunities(marketsA, marketsB []domain.Market, opts Options) []domain.ArbitrageOpportunity {
	return findOpportunitiesAt(marketsA, marketsB, opts, time.Now().UTC())
}

// findOpportunitiesAt is the clock-injected implementation; urgency depends on
// time remaining until market end dates.
func findOpportunitiesAt(marketsA, marketsB []domain.Market, opts Options, now time.Time) []domain.ArbitrageOpportunity {
	opts = opts.withDefaults()

	marketsA = dedupeMarkets(marketsA)
	marketsB = dedupeMarkets(marketsB)
	if len(marketsA) == 0 || len(marketsB) == 0 {
		return []domain.ArbitrageOpportunity{}
	}

	// Bucket venue-A markets by exact normalized-question key so the fuzzy
	// comparison runs per distinct question, not per market.
	bucketOrder := make([]string, 0, len(marketsA))
	buckets := make(map[string][]domain.Market, len(marketsA))
	for _, m := range marketsA {
		key := NormalizeQuestion(m.Question)
		if _, seen := buckets[key]; !seen {
			bucketOrder = append(bucketOrder, key)
		}
		buckets[key] = append(buckets[key], m)
	}

	// Venue-B stays flat with precomputed word sets.
	bSets := make([]map[string]struct{}, len(marketsB))
	for i, m := range marketsB {
		bSets[i] = wordSet(NormalizeQuestion(m.Question))
	}

	opportunities := []domain.ArbitrageOpportunity{}
	for _, key := range bucketOrder {
		aSet := wordSet(key)
		for i, mB := range marketsB {
			similarity := jaccard(aSet, bSets[i])
			if similarity < opts.MinSimilarity {
				continue
			}
			for _, mA := range buckets[key] {
				if opp := buildOpportunity(mA, mB, similarity, opts, now); opp != nil {
					opportunities = append(opportunities, *opp)
				}
			}
		}
	}

	sort.SliceStable(opportunities, func(i, j int) bool {
		return opportunities[i].Score > opportunities[j].Score
	})
	return opportunities
}

// buildOpportunity derives the arbitrage candidate for one matched pair.
// Returns nil when the pair does not clear the profit floor or spread noise
// floor, or misses the caller's MinSpread threshold.
func buildOpportunity(a, b domain.Market, similarity float64, opts Options, now time.Time) *domain.ArbitrageOpportunity {
	yesSpread := a.YesPrice - b.YesPrice
	noSpread := a.NoPrice - b.NoPrice

	bestYes := cheaperLeg(a, b, domain.SideYes)
	bestNo := cheaperLeg(a, b, domain.SideNo)

	var impliedProfit *float64
	if sum := bestYes.Price + bestNo.Price; sum < 1 {
		profit := 1 - sum
		impliedProfit = &profit
	}

	// No profit and both spreads inside the noise floor: not a real signal.
	if impliedProfit == nil && math.Abs(yesSpread) < noiseFloor && math.Abs(noSpread) < noiseFloor {
		return nil
	}

	profit := 0.0
	if impliedProfit != nil {
		profit = *impliedProfit
	}
	maxSpread := math.Max(math.Abs(yesSpread), math.Abs(noSpread))
	if maxSpread < opts.MinSpread && profit < opts.MinSpread {
		return nil
	}

	opp := domain.ArbitrageOpportunity{
		Question:      shorterQuestion(a.Question, b.Question),
		Markets:       [2]domain.Market{a, b},
		YesSpread:     yesSpread,
		NoSpread:      noSpread,
		BestYesBuy:    bestYes,
		BestNoBuy:     bestNo,
		ImpliedProfit: impliedProfit,
		Urgency:       UrgencyScore(now, a, b),
		Similarity:    similarity,
	}
	opp.AIEdgeScore = EdgeScore(opp.Question)
	opp.Score = compositeScore(opp)
	return &opp
}

// cheaperLeg picks the cheaper side across the two venues. Exact price ties
// break toward the platform whose name sorts first, so degenerate inputs still
// produce a deterministic leg.
func cheaperLeg(a, b domain.Market, side domain.Side) domain.Leg {
	priceA, priceB := a.YesPrice, b.YesPrice
	if side == domain.SideNo {
		priceA, priceB = a.NoPrice, b.NoPrice
	}
	market, price := a, priceA
	if priceB < priceA || (priceB == priceA && b.Platform < a.Platform) {
		market, price = b, priceB
	}
	return domain.Leg{Market: market, Side: side, Price: price}
}

func shorterQuestion(a, b string) string {
	if len(b) < len(a) {
		return b
	}
	return a
}

// dedupeMarkets drops repeated records for the same (platform, id), keeping
// the first occurrence.
func dedupeMarkets(markets []domain.Market) []domain.Market {
	seen := make(map[string]struct{}, len(markets))
	out := markets[:0:0]
	for _, m := range markets {
		key := m.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, m)
	}
	return out
}
