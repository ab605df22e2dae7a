// Package ticker discovers every distinct token mint trading under a ticker
// symbol and grades each one against the caller-asserted canonical mint. The
// engine consumes raw pairs through the PairSource port; any fetch failure is
// treated as zero pairs returned, so every invocation yields a valid (possibly
// empty) discovery.
package ticker

import (
	"context"
	"strings"
	"time"

	"cascreener/internal/domain"
)

// PairSource provides raw trading pairs to run discovery over.
type PairSource interface {
	// PairsByMint returns pairs whose base or quote token is the given mint.
	PairsByMint(ctx context.Context, mint string) ([]domain.DexPair, error)
	// SearchPairs returns pairs matching a free-text ticker query.
	SearchPairs(ctx context.Context, query string) ([]domain.DexPair, error)
}

// AddressValidator reports whether a string is a syntactically valid chain
// address; it decides "mint" vs "ticker" mode.
type AddressValidator func(s string) bool

// homeChainID scopes direct-mint lookups; ticker resolution only trusts pairs
// on this chain.
const homeChainID = "solana"

// Engine runs ticker clone discovery. Safe for concurrent use: it holds no
// per-request state.
type Engine struct {
	source    PairSource
	isAddress AddressValidator
	now       func() time.Time
}

// NewEngine creates a discovery engine over the given pair source.
func NewEngine(source PairSource, isAddress AddressValidator) *Engine {
	return &Engine{source: source, isAddress: isAddress, now: time.Now}
}

// Query is one discovery request. Query is either a chain address or a
// free-text ticker; CanonicalMint and FallbackSymbol are optional hints.
type Query struct {
	Query          string
	CanonicalMint  string
	FallbackSymbol string
}

// FindByTicker resolves the query to a ticker, groups every raw pair sharing
// that ticker by mint, risk-scores each mint, and returns the ranked envelope.
func (e *Engine) FindByTicker(ctx context.Context, q Query) domain.TokenTickerDiscovery {
	query := strings.TrimSpace(q.Query)
	canonical := strings.TrimSpace(q.CanonicalMint)

	// Mode is decided once: a syntactically valid address (or a supplied
	// canonical mint) selects the direct-by-mint path.
	mode := domain.ModeTicker
	lookupMint := ""
	if e.isAddress != nil && e.isAddress(query) {
		mode = domain.ModeMint
		lookupMint = query
		if canonical == "" {
			canonical = query
		}
	} else if canonical != "" {
		mode = domain.ModeMint
		lookupMint = canonical
	}

	discovery := domain.TokenTickerDiscovery{
		Mode:          mode,
		Query:         q.Query,
		CanonicalMint: canonical,
		Matches:       []domain.TokenTickerMatch{},
	}

	ticker := normalizeTicker(q.FallbackSymbol)
	var directPairs []domain.DexPair
	if mode == domain.ModeMint {
		directPairs = e.fetchByMint(ctx, lookupMint)
		discovery.RawPairCount += len(directPairs)
		if resolved := resolveTicker(directPairs, lookupMint); resolved != "" {
			ticker = resolved
		}
	} else {
		ticker = normalizeTicker(query)
	}
	discovery.Ticker = ticker

	// An empty ticker after normalization has nothing to search for.
	if ticker == "" {
		if canonical != "" {
			discovery.Matches = append(discovery.Matches, e.canonicalFromDirect(canonical, ticker, directPairs))
		}
		return discovery
	}

	searchPairs := e.search(ctx, ticker)
	discovery.RawPairCount += len(searchPairs)

	buckets := groupByMint(searchPairs, ticker)
	canonicalSeen := false
	for _, b := range buckets {
		match := e.buildMatch(b, ticker, canonical)
		if match.IsExactMintMatch {
			canonicalSeen = true
		}
		discovery.Matches = append(discovery.Matches, match)
	}

	// The canonical record must always be present when a canonical mint was
	// supplied, even if the text search never surfaced it.
	if canonical != "" && !canonicalSeen {
		canonicalMatch := e.canonicalFromDirect(canonical, ticker, directPairs)
		discovery.Matches = append([]domain.TokenTickerMatch{canonicalMatch}, discovery.Matches...)
	}

	rankMatches(discovery.Matches)
	return discovery
}

func (e *Engine) fetchByMint(ctx context.Context, mint string) []domain.DexPair {
	if mint == "" {
		return nil
	}
	pairs, err := e.source.PairsByMint(ctx, mint)
	if err != nil {
		return nil
	}
	return pairs
}

func (e *Engine) search(ctx context.Context, ticker string) []domain.DexPair {
	pairs, err := e.source.SearchPairs(ctx, ticker)
	if err != nil {
		return nil
	}
	return pairs
}

// buildMatch condenses one per-mint bucket into a scored match.
func (e *Engine) buildMatch(b *mintBucket, ticker, canonical string) domain.TokenTickerMatch {
	best := bestPair(b.pairs)
	match := domain.TokenTickerMatch{
		Symbol:        ticker,
		Mint:          b.mint,
		Name:          b.name,
		ImageURIs:     mergeImageURIs(b.pairs),
		DexID:         best.DexID,
		PairAddress:   best.PairAddress,
		URL:           best.URL,
		PriceUSD:      best.PriceUSD,
		LiquidityUSD:  best.LiquidityUSD,
		Volume24hUSD:  best.Volume24hUSD,
		FDV:           best.FDV,
		MarketCap:     best.MarketCap,
		PairCreatedAt: best.PairCreatedAt,
		PairCount:     len(b.pairs),
	}
	if canonical != "" && b.mint == canonical {
		match.IsExactMintMatch = true
		match.Risk = domain.RiskCanonical
		match.RiskReasons = []string{canonicalReason}
		return match
	}
	match.Risk, match.RiskReasons = scoreRisk(riskSignals{
		LiquidityUSD:  match.LiquidityUSD,
		Volume24hUSD:  match.Volume24hUSD,
		FDV:           match.FDV,
		PairCreatedAt: match.PairCreatedAt,
		PairCount:     match.PairCount,
	}, e.now())
	return match
}

// canonicalFromDirect synthesizes the canonical match from the direct-mint
// pairs, or a bare zero-pair record when no home-chain pair exists at all.
func (e *Engine) canonicalFromDirect(canonical, ticker string, directPairs []domain.DexPair) domain.TokenTickerMatch {
	chainPairs := make([]domain.DexPair, 0, len(directPairs))
	for _, p := range directPairs {
		if p.ChainID == homeChainID {
			chainPairs = append(chainPairs, p)
		}
	}

	match := domain.TokenTickerMatch{
		Symbol:           ticker,
		Mint:             canonical,
		IsExactMintMatch: true,
		Risk:             domain.RiskCanonical,
		RiskReasons:      []string{canonicalReason},
	}
	if len(chainPairs) == 0 {
		return match
	}

	best := bestPair(chainPairs)
	match.Name = tokenNameForMint(chainPairs, canonical)
	match.ImageURIs = mergeImageURIs(chainPairs)
	match.DexID = best.DexID
	match.PairAddress = best.PairAddress
	match.URL = best.URL
	match.PriceUSD = best.PriceUSD
	match.LiquidityUSD = best.LiquidityUSD
	match.Volume24hUSD = best.Volume24hUSD
	match.FDV = best.FDV
	match.MarketCap = best.MarketCap
	match.PairCreatedAt = best.PairCreatedAt
	match.PairCount = len(chainPairs)
	return match
}

// normalizeTicker upper-cases a symbol and strips the cashtag prefix.
func normalizeTicker(s string) string {
	return strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(s), "$"))
}

// resolveTicker reads the symbol off whichever side of the best home-chain
// pair actually holds the queried mint. Returns "" when no pair qualifies.
func resolveTicker(pairs []domain.DexPair, mint string) string {
	chainPairs := make([]domain.DexPair, 0, len(pairs))
	for _, p := range pairs {
		if p.ChainID == homeChainID {
			chainPairs = append(chainPairs, p)
		}
	}
	if len(chainPairs) == 0 {
		return ""
	}
	best := bestPair(chainPairs)
	switch mint {
	case best.BaseToken.Address:
		return normalizeTicker(best.BaseToken.Symbol)
	case best.QuoteToken.Address:
		return normalizeTicker(best.QuoteToken.Symbol)
	}
	return ""
}

// tokenNameForMint finds the first non-empty display name attached to the
// mint across the given pairs.
func tokenNameForMint(pairs []domain.DexPair, mint string) string {
	for _, p := range pairs {
		if p.BaseToken.Address == mint && p.BaseToken.Name != "" {
			return p.BaseToken.Name
		}
		if p.QuoteToken.Address == mint && p.QuoteToken.Name != "" {
			return p.QuoteToken.Name
		}
	}
	return ""
}
