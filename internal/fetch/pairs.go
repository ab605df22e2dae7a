// Package fetch sits between the engines and the raw HTTP clients. It owns
// the short-TTL read cache, fans parallel searches out and merges them, and
// converts every upstream failure into "zero records" so the engines never
// observe an error from their inputs.
package fetch

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"cascreener/internal/dexscreener"
	"cascreener/internal/domain"
	"cascreener/internal/observability"
)

// DefaultPairTimeout bounds each outbound pair fetch.
const DefaultPairTimeout = 8 * time.Second

// DefaultCacheTTL keeps pair lookups warm across bursts of requests without
// serving stale listings for long.
const DefaultCacheTTL = 30 * time.Second

// PairService implements ticker.PairSource over the DexScreener client.
type PairService struct {
	client  *dexscreener.Client
	cache   *Cache[[]domain.DexPair]
	chainID string
	timeout time.Duration
	metrics *observability.Metrics
	log     *logrus.Entry
}

// NewPairService wires the client with a cache. metrics may be nil.
func NewPairService(client *dexscreener.Client, chainID string, ttl time.Duration, metrics *observability.Metrics, log *logrus.Logger) *PairService {
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}
	if log == nil {
		log = logrus.New()
	}
	return &PairService{
		client:  client,
		cache:   NewCache[[]domain.DexPair](ttl),
		chainID: chainID,
		timeout: DefaultPairTimeout,
		metrics: metrics,
		log:     log.WithField("component", "fetch"),
	}
}

// PairsByMint returns pairs for a direct mint lookup. Failures degrade to an
// empty list.
func (s *PairService) PairsByMint(ctx context.Context, mint string) ([]domain.DexPair, error) {
	key := "mint:" + mint
	if cached, ok := s.cache.Get(key); ok {
		s.count("mint", "cached")
		return cached, nil
	}

	fctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	pairs, err := s.client.TokenPairs(fctx, s.chainID, mint)
	if err != nil {
		s.count("mint", "error")
		s.log.WithError(err).WithField("mint", mint).Warn("mint lookup failed, degrading to empty")
		return []domain.DexPair{}, nil
	}
	s.count("mint", "ok")
	s.cache.Set(key, pairs)
	return pairs, nil
}

// SearchPairs runs the plain-ticker and $-prefixed searches in parallel and
// merges the results, deduplicating by (chain, pair address) while keeping
// first-seen order. Each branch degrades independently to an empty list.
func (s *PairService) SearchPairs(ctx context.Context, query string) ([]domain.DexPair, error) {
	key := "search:" + query
	if cached, ok := s.cache.Get(key); ok {
		s.count("search", "cached")
		return cached, nil
	}

	queries := []string{query, "$" + query}
	results := make([][]domain.DexPair, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(gctx, s.timeout)
			defer cancel()
			pairs, err := s.client.Search(fctx, q)
			if err != nil {
				s.count("search", "error")
				s.log.WithError(err).WithField("query", q).Warn("search failed, degrading to empty")
				return nil
			}
			s.count("search", "ok")
			results[i] = pairs
			return nil
		})
	}
	_ = g.Wait() // branches degrade instead of returning errors

	merged := mergePairs(results...)
	s.cache.Set(key, merged)
	return merged, nil
}

func (s *PairService) count(kind, outcome string) {
	if s.metrics != nil {
		s.metrics.PairFetches.WithLabelValues(kind, outcome).Inc()
	}
}

// mergePairs concatenates result sets, dropping repeated pair records.
func mergePairs(sets ...[]domain.DexPair) []domain.DexPair {
	merged := []domain.DexPair{}
	seen := make(map[string]struct{})
	for _, set := range sets {
		for _, p := range set {
			key := p.Key()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, p)
		}
	}
	return merged
}
