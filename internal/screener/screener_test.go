package screener

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cascreener/internal/arbitrage"
	"cascreener/internal/domain"
)

type stubMarkets struct {
	markets []domain.Market
	err     error
}

func (s *stubMarkets) Markets(ctx context.Context) ([]domain.Market, error) {
	return s.markets, s.err
}

type stubPairs struct {
	byMint   map[string][]domain.DexPair
	searched map[string][]domain.DexPair
}

func (s *stubPairs) PairsByMint(ctx context.Context, mint string) ([]domain.DexPair, error) {
	return s.byMint[mint], nil
}

func (s *stubPairs) SearchPairs(ctx context.Context, query string) ([]domain.DexPair, error) {
	return s.searched[query], nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func market(platform domain.Platform, id, question string, yes, no float64) domain.Market {
	return domain.Market{
		Platform: platform,
		ID:       id,
		Question: question,
		YesPrice: yes,
		NoPrice:  no,
	}
}

func TestScanArbitrage(t *testing.T) {
	s := New(Options{
		Polymarket: &stubMarkets{markets: []domain.Market{
			market(domain.PlatformPolymarket, "p1", "Will BTC hit 100k?", 0.40, 0.55),
		}},
		Kalshi: &stubMarkets{markets: []domain.Market{
			market(domain.PlatformKalshi, "k1", "Will BTC hit 100k?", 0.50, 0.45),
		}},
		Pairs:     &stubPairs{},
		IsAddress: func(string) bool { return false },
		Log:       quietLogger(),
	})

	opps := s.ScanArbitrage(context.Background(), arbitrage.Options{})
	require.Len(t, opps, 1)
	require.NotNil(t, opps[0].ImpliedProfit)
	assert.InDelta(t, 0.15, *opps[0].ImpliedProfit, 1e-9)
}

func TestScanArbitrage_VenueFailureDegrades(t *testing.T) {
	s := New(Options{
		Polymarket: &stubMarkets{err: errors.New("gamma unavailable")},
		Kalshi: &stubMarkets{markets: []domain.Market{
			market(domain.PlatformKalshi, "k1", "Will BTC hit 100k?", 0.50, 0.45),
		}},
		Pairs:     &stubPairs{},
		IsAddress: func(string) bool { return false },
		Log:       quietLogger(),
	})

	opps := s.ScanArbitrage(context.Background(), arbitrage.Options{})
	require.NotNil(t, opps)
	assert.Empty(t, opps)
}

func TestScanArbitrage_BothVenuesFail(t *testing.T) {
	s := New(Options{
		Polymarket: &stubMarkets{err: errors.New("down")},
		Kalshi:     &stubMarkets{err: errors.New("down")},
		Pairs:      &stubPairs{},
		IsAddress:  func(string) bool { return false },
		Log:        quietLogger(),
	})

	opps := s.ScanArbitrage(context.Background(), arbitrage.Options{})
	require.NotNil(t, opps)
	assert.Empty(t, opps)
}

func TestLookupTicker(t *testing.T) {
	pair := domain.DexPair{
		ChainID:      "solana",
		PairAddress:  "pair1",
		BaseToken:    domain.Token{Address: "MintBonk", Symbol: "BONK", Name: "Bonk"},
		QuoteToken:   domain.Token{Address: "MintSol", Symbol: "SOL"},
		LiquidityUSD: 500_000,
		Volume24hUSD: 1_000_000,
	}
	s := New(Options{
		Polymarket: &stubMarkets{},
		Kalshi:     &stubMarkets{},
		Pairs: &stubPairs{
			searched: map[string][]domain.DexPair{"BONK": {pair}},
		},
		IsAddress: func(string) bool { return false },
		Log:       quietLogger(),
	})

	discovery := s.LookupTicker(context.Background(), "BONK", "", "")
	assert.Equal(t, domain.ModeTicker, discovery.Mode)
	assert.Equal(t, "BONK", discovery.Ticker)
	require.Len(t, discovery.Matches, 1)
	assert.Equal(t, "MintBonk", discovery.Matches[0].Mint)
}
