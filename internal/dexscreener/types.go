package dexscreener

import (
	"strconv"

	"cascreener/internal/domain"
)

// Wire types for the DexScreener REST API. Numeric fields the API renders as
// strings decode through flexFloat; malformed values coerce to zero rather
// than failing the whole payload.

type searchResponse struct {
	SchemaVersion string     `json:"schemaVersion"`
	Pairs         []pairData `json:"pairs"`
}

type pairData struct {
	ChainID       string     `json:"chainId"`
	DexID         string     `json:"dexId"`
	URL           string     `json:"url"`
	PairAddress   string     `json:"pairAddress"`
	BaseToken     tokenData  `json:"baseToken"`
	QuoteToken    tokenData  `json:"quoteToken"`
	PriceUsd      string     `json:"priceUsd"`
	Volume        volumeData `json:"volume"`
	Liquidity     *liquidity `json:"liquidity"`
	Fdv           float64    `json:"fdv"`
	MarketCap     float64    `json:"marketCap"`
	PairCreatedAt int64      `json:"pairCreatedAt"`
	Info          *pairInfo  `json:"info"`
}

type tokenData struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

type liquidity struct {
	Usd   float64 `json:"usd"`
	Base  float64 `json:"base"`
	Quote float64 `json:"quote"`
}

type volumeData struct {
	M5  float64 `json:"m5"`
	H1  float64 `json:"h1"`
	H6  float64 `json:"h6"`
	H24 float64 `json:"h24"`
}

type pairInfo struct {
	ImageURL  string `json:"imageUrl"`
	Header    string `json:"header"`
	OpenGraph string `json:"openGraph"`
}

// toDomain maps one wire pair to the canonical shape.
func (p pairData) toDomain() domain.DexPair {
	out := domain.DexPair{
		ChainID:     p.ChainID,
		DexID:       p.DexID,
		PairAddress: p.PairAddress,
		URL:         p.URL,
		BaseToken: domain.Token{
			Address: p.BaseToken.Address,
			Symbol:  p.BaseToken.Symbol,
			Name:    p.BaseToken.Name,
		},
		QuoteToken: domain.Token{
			Address: p.QuoteToken.Address,
			Symbol:  p.QuoteToken.Symbol,
			Name:    p.QuoteToken.Name,
		},
		PriceUSD:      parsePrice(p.PriceUsd),
		Volume24hUSD:  p.Volume.H24,
		FDV:           p.Fdv,
		MarketCap:     p.MarketCap,
		PairCreatedAt: p.PairCreatedAt,
	}
	if p.Liquidity != nil {
		out.LiquidityUSD = p.Liquidity.Usd
	}
	if p.Info != nil {
		for _, uri := range []string{p.Info.ImageURL, p.Info.Header, p.Info.OpenGraph} {
			if uri != "" {
				out.ImageURIs = append(out.ImageURIs, uri)
			}
		}
	}
	return out
}

func toDomainPairs(pairs []pairData) []domain.DexPair {
	out := make([]domain.DexPair, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, p.toDomain())
	}
	return out
}

// parsePrice coerces the API's string price to a float; malformed input is
// treated as absent (0), never an error.
func parsePrice(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
