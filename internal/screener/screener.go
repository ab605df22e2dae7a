// Package screener is the service layer: it wires the venue and pair
// fetchers to the two analysis engines and enforces the degradation
// contract: an upstream failure becomes an empty input list, never an error
// surfaced to the caller.
package screener

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"cascreener/internal/arbitrage"
	"cascreener/internal/domain"
	"cascreener/internal/observability"
	"cascreener/internal/ticker"
)

// MarketSource provides one venue's open markets, already normalized.
type MarketSource interface {
	Markets(ctx context.Context) ([]domain.Market, error)
}

// DefaultMarketTimeout bounds each venue fetch.
const DefaultMarketTimeout = 10 * time.Second

// Screener runs complete scans over freshly fetched data. Safe for
// concurrent use; every scan is self-contained.
type Screener struct {
	polymarket    MarketSource
	kalshi        MarketSource
	tickerEngine  *ticker.Engine
	metrics       *observability.Metrics
	log           *logrus.Logger
	marketTimeout time.Duration
}

// Options for constructing a Screener. Metrics may be nil; Log defaults to a
// fresh logger.
type Options struct {
	Polymarket MarketSource
	Kalshi     MarketSource
	Pairs      ticker.PairSource
	IsAddress  ticker.AddressValidator
	Metrics    *observability.Metrics
	Log        *logrus.Logger
}

// New creates a Screener.
func New(opts Options) *Screener {
	log := opts.Log
	if log == nil {
		log = logrus.New()
	}
	return &Screener{
		polymarket:    opts.Polymarket,
		kalshi:        opts.Kalshi,
		tickerEngine:  ticker.NewEngine(opts.Pairs, opts.IsAddress),
		metrics:       opts.Metrics,
		log:           log,
		marketTimeout: DefaultMarketTimeout,
	}
}

// ScanArbitrage fetches both venues in parallel and runs the arbitrage
// engine. A venue failure degrades that venue to an empty list, which the
// engine answers with an empty result.
func (s *Screener) ScanArbitrage(ctx context.Context, opts arbitrage.Options) []domain.ArbitrageOpportunity {
	start := time.Now()
	log := s.log.WithFields(logrus.Fields{
		"request_id": uuid.NewString(),
		"scan":       "arbitrage",
	})

	var polyMarkets, kalshiMarkets []domain.Market
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		polyMarkets = s.fetchMarkets(gctx, s.polymarket, domain.PlatformPolymarket, log)
		return nil
	})
	g.Go(func() error {
		kalshiMarkets = s.fetchMarkets(gctx, s.kalshi, domain.PlatformKalshi, log)
		return nil
	})
	_ = g.Wait()

	opportunities := arbitrage.FindOpportunities(polyMarkets, kalshiMarkets, opts)

	log.WithFields(logrus.Fields{
		"polymarket":    len(polyMarkets),
		"kalshi":        len(kalshiMarkets),
		"opportunities": len(opportunities),
		"elapsed":       time.Since(start).String(),
	}).Info("arbitrage scan complete")
	if s.metrics != nil {
		s.metrics.ScansTotal.WithLabelValues("arbitrage").Inc()
		s.metrics.ScanDuration.WithLabelValues("arbitrage").Observe(time.Since(start).Seconds())
		s.metrics.OpportunitiesFound.Observe(float64(len(opportunities)))
	}
	return opportunities
}

// LookupTicker runs ticker clone discovery for a query.
func (s *Screener) LookupTicker(ctx context.Context, query, canonicalMint, fallbackSymbol string) domain.TokenTickerDiscovery {
	start := time.Now()
	log := s.log.WithFields(logrus.Fields{
		"request_id": uuid.NewString(),
		"scan":       "ticker",
		"query":      query,
	})

	discovery := s.tickerEngine.FindByTicker(ctx, ticker.Query{
		Query:          query,
		CanonicalMint:  canonicalMint,
		FallbackSymbol: fallbackSymbol,
	})

	log.WithFields(logrus.Fields{
		"mode":      discovery.Mode,
		"ticker":    discovery.Ticker,
		"raw_pairs": discovery.RawPairCount,
		"matches":   len(discovery.Matches),
		"elapsed":   time.Since(start).String(),
	}).Info("ticker discovery complete")
	if s.metrics != nil {
		s.metrics.ScansTotal.WithLabelValues("ticker").Inc()
		s.metrics.ScanDuration.WithLabelValues("ticker").Observe(time.Since(start).Seconds())
		s.metrics.TickerMatchesFound.Observe(float64(len(discovery.Matches)))
	}
	return discovery
}

// fetchMarkets applies the per-venue timeout and degrades any failure to an
// empty list.
func (s *Screener) fetchMarkets(ctx context.Context, source MarketSource, venue domain.Platform, log *logrus.Entry) []domain.Market {
	if source == nil {
		return []domain.Market{}
	}
	fctx, cancel := context.WithTimeout(ctx, s.marketTimeout)
	defer cancel()

	markets, err := source.Markets(fctx)
	if err != nil {
		log.WithError(err).WithField("venue", venue).Warn("market fetch failed, degrading to empty")
		if s.metrics != nil {
			s.metrics.MarketFetches.WithLabelValues(string(venue), "error").Inc()
		}
		return []domain.Market{}
	}
	if s.metrics != nil {
		s.metrics.MarketFetches.WithLabelValues(string(venue), "ok").Inc()
	}
	return markets
}
