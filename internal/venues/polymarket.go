// Package venues fetches and normalizes raw market records from the two
// supported prediction-market platforms. Normalization clamps every price
// into [0,1]; everything downstream assumes that invariant holds.
package venues

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"cascreener/internal/domain"
)

// Polymarket Gamma API defaults.
const (
	DefaultPolymarketBaseURL = "https://gamma-api.polymarket.com"
	polymarketPageSize       = 100
	polymarketPages          = 2
)

// PolymarketClient fetches active markets from the Gamma REST API.
type PolymarketClient struct {
	baseURL string
	client  *http.Client
}

// NewPolymarketClient creates a Gamma API client. A nil httpClient falls back
// to a default with a 10s timeout.
func NewPolymarketClient(baseURL string, httpClient *http.Client) *PolymarketClient {
	if baseURL == "" {
		baseURL = DefaultPolymarketBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &PolymarketClient{baseURL: baseURL, client: httpClient}
}

// polymarketMarket is the subset of the Gamma market record this system reads.
type polymarketMarket struct {
	ID            string        `json:"id"`
	Question      string        `json:"question"`
	Slug          string        `json:"slug"`
	OutcomePrices outcomePrices `json:"outcomePrices"`
	Volume        flexFloat     `json:"volume"`
	Volume24hr    flexFloat     `json:"volume24hr"`
	Liquidity     flexFloat     `json:"liquidity"`
	EndDate       string        `json:"endDate"`
	Closed        bool          `json:"closed"`
}

// Markets fetches open markets, two pages in parallel, and returns them
// normalized. A page failure fails the whole fetch; the caller degrades it to
// an empty list.
func (c *PolymarketClient) Markets(ctx context.Context) ([]domain.Market, error) {
	pages := make([][]polymarketMarket, polymarketPages)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < polymarketPages; i++ {
		g.Go(func() error {
			page, err := c.fetchPage(gctx, i*polymarketPageSize)
			if err != nil {
				return err
			}
			pages[i] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("polymarket markets: %w", err)
	}

	var markets []domain.Market
	for _, page := range pages {
		for _, raw := range page {
			markets = append(markets, c.normalize(raw))
		}
	}
	return markets, nil
}

func (c *PolymarketClient) fetchPage(ctx context.Context, offset int) ([]polymarketMarket, error) {
	endpoint := fmt.Sprintf("%s/markets?active=true&closed=false&limit=%d&offset=%d",
		c.baseURL, polymarketPageSize, offset)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var page []polymarketMarket
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode page at offset %d: %w", offset, err)
	}
	return page, nil
}

func (c *PolymarketClient) normalize(raw polymarketMarket) domain.Market {
	yes, no := raw.OutcomePrices.YesNo()
	m := domain.Market{
		ID:         raw.ID,
		Platform:   domain.PlatformPolymarket,
		Question:   raw.Question,
		YesPrice:   domain.ClampPrice(yes.Or(0)),
		NoPrice:    domain.ClampPrice(no.Or(0)),
		Volume:     raw.Volume.Or(0),
		Volume24h:  raw.Volume24hr.Or(0),
		IsResolved: raw.Closed,
	}
	if raw.Liquidity.Valid {
		liq := raw.Liquidity.Value
		m.Liquidity = &liq
	}
	if t, err := time.Parse(time.RFC3339, raw.EndDate); err == nil {
		m.EndDate = &t
	}
	if raw.Slug != "" {
		m.URL = "https://polymarket.com/event/" + url.PathEscape(raw.Slug)
	}
	return m
}
