package domain

import "time"

// Token identifies one side of a trading pair.
type Token struct {
	Address string `json:"address"`
	Symbol  string `json:"symbol"`
	Name    string `json:"name"`
}

// DexPair is a single trading pool/listing between two tokens on one exchange,
// as reported by the pair aggregator. Missing numeric fields are zero.
type DexPair struct {
	ChainID       string   `json:"chainId"`
	DexID         string   `json:"dexId"`
	PairAddress   string   `json:"pairAddress"`
	URL           string   `json:"url"`
	BaseToken     Token    `json:"baseToken"`
	QuoteToken    Token    `json:"quoteToken"`
	PriceUSD      float64  `json:"priceUsd"`
	LiquidityUSD  float64  `json:"liquidityUsd"`
	Volume24hUSD  float64  `json:"volume24hUsd"`
	FDV           float64  `json:"fdv"`
	MarketCap     float64  `json:"marketCap"`
	PairCreatedAt int64    `json:"pairCreatedAt"` // Unix ms, 0 when unknown
	ImageURIs     []string `json:"imageUris,omitempty"`
}

// Age returns how long the pair has existed as of now. Pairs with an unknown
// creation time report a very large age so age-based penalties never fire.
func (p DexPair) Age(now time.Time) time.Duration {
	if p.PairCreatedAt <= 0 {
		return time.Duration(1<<62 - 1)
	}
	return now.Sub(time.UnixMilli(p.PairCreatedAt))
}

// Key identifies a pair record across fetches, used for merge deduplication.
func (p DexPair) Key() string {
	return p.ChainID + "|" + p.PairAddress
}
