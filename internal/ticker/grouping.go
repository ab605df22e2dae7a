package ticker

import (
	"sort"
	"strings"

	"cascreener/internal/domain"
)

// mintBucket collects every raw pair backing one distinct mint.
type mintBucket struct {
	mint  string
	name  string // first non-empty display name seen
	pairs []domain.DexPair
}

// groupByMint scans both legs of every pair for a case-insensitive symbol
// match against the resolved ticker and buckets pairs per mint, preserving
// first-seen order. A pair whose base AND quote both carry the ticker
// contributes to two buckets.
func groupByMint(pairs []domain.DexPair, ticker string) []*mintBucket {
	var order []*mintBucket
	byMint := make(map[string]*mintBucket)

	add := func(tok domain.Token, pair domain.DexPair) {
		if tok.Address == "" || !strings.EqualFold(strings.TrimSpace(tok.Symbol), ticker) {
			return
		}
		b, ok := byMint[tok.Address]
		if !ok {
			b = &mintBucket{mint: tok.Address}
			byMint[tok.Address] = b
			order = append(order, b)
		}
		if b.name == "" && tok.Name != "" {
			b.name = tok.Name
		}
		b.pairs = append(b.pairs, pair)
	}

	for _, p := range pairs {
		add(p.BaseToken, p)
		add(p.QuoteToken, p)
	}
	return order
}

// bestPair picks the representative pair: liquidity desc, then 24h volume
// desc, then newest created. Callers must pass a non-empty slice.
func bestPair(pairs []domain.DexPair) domain.DexPair {
	sorted := make([]domain.DexPair, len(pairs))
	copy(sorted, pairs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].LiquidityUSD != sorted[j].LiquidityUSD {
			return sorted[i].LiquidityUSD > sorted[j].LiquidityUSD
		}
		if sorted[i].Volume24hUSD != sorted[j].Volume24hUSD {
			return sorted[i].Volume24hUSD > sorted[j].Volume24hUSD
		}
		return sorted[i].PairCreatedAt > sorted[j].PairCreatedAt
	})
	return sorted[0]
}

// mergeImageURIs collects image URIs across pairs, preserving first-seen
// order with case-insensitive deduplication.
func mergeImageURIs(pairs []domain.DexPair) []string {
	var merged []string
	seen := make(map[string]struct{})
	for _, p := range pairs {
		for _, uri := range p.ImageURIs {
			if uri == "" {
				continue
			}
			key := strings.ToLower(uri)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, uri)
		}
	}
	return merged
}

// rankMatches orders matches canonical first, then by risk severity (riskier
// clones surface before quiet low-risk ones), then liquidity desc, then 24h
// volume desc. The sort is stable so equal matches keep discovery order.
func rankMatches(matches []domain.TokenTickerMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Risk.Severity() != b.Risk.Severity() {
			return a.Risk.Severity() < b.Risk.Severity()
		}
		if a.LiquidityUSD != b.LiquidityUSD {
			return a.LiquidityUSD > b.LiquidityUSD
		}
		return a.Volume24hUSD > b.Volume24hUSD
	})
}
