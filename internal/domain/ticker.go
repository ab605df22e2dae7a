package domain

// RiskLevel classifies one ticker match. Canonical marks the caller-asserted
// real token; the remaining levels grade same-ticker clones.
type RiskLevel string

const (
	RiskCanonical RiskLevel = "canonical"
	RiskHigh      RiskLevel = "high"
	RiskMedium    RiskLevel = "medium"
	RiskLow       RiskLevel = "low"
)

// Severity orders risk levels for ranking: canonical first, then riskier
// clones before quiet low-risk ones.
func (r RiskLevel) Severity() int {
	switch r {
	case RiskCanonical:
		return 0
	case RiskHigh:
		return 1
	case RiskMedium:
		return 2
	default:
		return 3
	}
}

// TokenTickerMatch is one distinct mint sharing the queried ticker, annotated
// with its best pair's metadata and a risk classification.
type TokenTickerMatch struct {
	Symbol    string   `json:"symbol"`
	Mint      string   `json:"mint"`
	Name      string   `json:"name"`
	ImageURIs []string `json:"imageUris,omitempty"`

	// Best-pair metadata, from the most liquid pair that backs this mint.
	DexID         string  `json:"dexId"`
	PairAddress   string  `json:"pairAddress"`
	URL           string  `json:"url"`
	PriceUSD      float64 `json:"priceUsd"`
	LiquidityUSD  float64 `json:"liquidityUsd"`
	Volume24hUSD  float64 `json:"volume24hUsd"`
	FDV           float64 `json:"fdv"`
	MarketCap     float64 `json:"marketCap"`
	PairCreatedAt int64   `json:"pairCreatedAt"`

	// PairCount is how many raw pairs collapsed into this mint.
	PairCount        int       `json:"pairCount"`
	IsExactMintMatch bool      `json:"isExactMintMatch"`
	Risk             RiskLevel `json:"risk"`
	// RiskReasons preserves evaluation order; no reordering or dedup.
	RiskReasons []string `json:"riskReasons"`
}

// DiscoveryMode records which fetch path a discovery used.
type DiscoveryMode string

const (
	ModeMint   DiscoveryMode = "mint"
	ModeTicker DiscoveryMode = "ticker"
)

// TokenTickerDiscovery is the query envelope returned for one lookup.
type TokenTickerDiscovery struct {
	Mode          DiscoveryMode      `json:"mode"`
	Query         string             `json:"query"`
	Ticker        string             `json:"ticker"`
	CanonicalMint string             `json:"canonicalMint,omitempty"`
	RawPairCount  int                `json:"rawPairCount"`
	Matches       []TokenTickerMatch `json:"matches"`
}
