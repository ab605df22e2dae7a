package venues

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"cascreener/internal/domain"
)

// Kalshi trade API defaults. The public market listing needs no auth.
const (
	DefaultKalshiBaseURL = "https://api.elections.kalshi.com/trade-api/v2"
	kalshiPageSize       = 200
)

// KalshiClient fetches open markets from the Kalshi REST API.
type KalshiClient struct {
	baseURL string
	client  *http.Client
}

// NewKalshiClient creates a Kalshi client. A nil httpClient falls back to a
// default with a 10s timeout.
func NewKalshiClient(baseURL string, httpClient *http.Client) *KalshiClient {
	if baseURL == "" {
		baseURL = DefaultKalshiBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &KalshiClient{baseURL: baseURL, client: httpClient}
}

// kalshiMarket is the subset of the Kalshi market record this system reads.
// Prices arrive as integer cents.
type kalshiMarket struct {
	Ticker    string  `json:"ticker"`
	Title     string  `json:"title"`
	YesAsk    float64 `json:"yes_ask"`
	NoAsk     float64 `json:"no_ask"`
	Volume    float64 `json:"volume"`
	Volume24h float64 `json:"volume_24h"`
	Liquidity float64 `json:"liquidity"`
	CloseTime string  `json:"close_time"`
	Status    string  `json:"status"`
}

type kalshiMarketsResponse struct {
	Markets []kalshiMarket `json:"markets"`
	Cursor  string         `json:"cursor"`
}

// Markets fetches one page of open markets and returns them normalized.
func (c *KalshiClient) Markets(ctx context.Context) ([]domain.Market, error) {
	endpoint := fmt.Sprintf("%s/markets?status=open&limit=%d", c.baseURL, kalshiPageSize)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kalshi markets: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("kalshi markets: status %d", resp.StatusCode)
	}

	var page kalshiMarketsResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("kalshi markets: decode: %w", err)
	}

	markets := make([]domain.Market, 0, len(page.Markets))
	for _, raw := range page.Markets {
		markets = append(markets, c.normalize(raw))
	}
	return markets, nil
}

func (c *KalshiClient) normalize(raw kalshiMarket) domain.Market {
	m := domain.Market{
		ID:         raw.Ticker,
		Platform:   domain.PlatformKalshi,
		Question:   raw.Title,
		YesPrice:   domain.ClampPrice(raw.YesAsk / 100),
		NoPrice:    domain.ClampPrice(raw.NoAsk / 100),
		Volume:     raw.Volume,
		Volume24h:  raw.Volume24h,
		IsResolved: raw.Status == "settled" || raw.Status == "finalized",
	}
	if raw.Liquidity > 0 {
		liq := raw.Liquidity / 100 // cents to dollars
		m.Liquidity = &liq
	}
	if t, err := time.Parse(time.RFC3339, raw.CloseTime); err == nil {
		m.EndDate = &t
	}
	if raw.Ticker != "" {
		m.URL = "https://kalshi.com/markets/" + url.PathEscape(raw.Ticker)
	}
	return m
}
