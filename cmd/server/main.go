// Package main runs the screener HTTP service: cross-venue arbitrage scans
// over Polymarket and Kalshi plus token ticker-clone discovery over
// DexScreener, with health and Prometheus metrics endpoints.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"cascreener/internal/arbitrage"
	"cascreener/internal/config"
	"cascreener/internal/dexscreener"
	"cascreener/internal/fetch"
	"cascreener/internal/observability"
	"cascreener/internal/screener"
	"cascreener/internal/solana"
	"cascreener/internal/venues"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (optional, env vars apply on top)")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	log := newLogger(cfg.Log)
	metrics := observability.NewMetrics("")

	dexClient := dexscreener.NewClient(
		dexscreener.WithBaseURL(cfg.DexScreener.BaseURL),
		dexscreener.WithTimeout(cfg.DexScreener.Timeout),
		dexscreener.WithRequestsPerMinute(cfg.DexScreener.RequestsPerMinute),
	)
	pairs := fetch.NewPairService(dexClient, cfg.DexScreener.ChainID, cfg.DexScreener.CacheTTL, metrics, log)

	svc := screener.New(screener.Options{
		Polymarket: venues.NewPolymarketClient(cfg.Polymarket.BaseURL, &http.Client{Timeout: cfg.Polymarket.Timeout}),
		Kalshi:     venues.NewKalshiClient(cfg.Kalshi.BaseURL, &http.Client{Timeout: cfg.Kalshi.Timeout}),
		Pairs:      pairs,
		IsAddress:  solana.IsValidAddress,
		Metrics:    metrics,
		Log:        log,
	})

	app := &app{
		screener: svc,
		scanCfg:  cfg.Scan,
		metrics:  metrics,
		log:      log,
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      app.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Server.Addr).Info("server listening")
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.WithField("signal", sig.String()).Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.WithError(err).Error("shutdown")
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}
	log.Info("shutdown complete")
}

type app struct {
	screener *screener.Screener
	scanCfg  config.ScanConfig
	metrics  *observability.Metrics
	log      *logrus.Logger
}

func (a *app) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", a.metrics.Handler())
	mux.HandleFunc("/api/arbitrage", a.handleArbitrage)
	mux.HandleFunc("/api/tokens", a.handleTokens)
	return mux
}

// handleArbitrage runs a full cross-venue scan. Thresholds come from config
// and may be overridden per request via query parameters.
func (a *app) handleArbitrage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	opts := arbitrage.Options{
		MinSimilarity: a.scanCfg.MinSimilarity,
		MinSpread:     a.scanCfg.MinSpread,
	}
	var err error
	if opts.MinSimilarity, err = floatParam(r, "minSimilarity", opts.MinSimilarity); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if opts.MinSpread, err = floatParam(r, "minSpread", opts.MinSpread); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	opportunities := a.screener.ScanArbitrage(r.Context(), opts)
	writeJSON(w, a.log, map[string]interface{}{
		"count":         len(opportunities),
		"opportunities": opportunities,
	})
}

// handleTokens runs ticker-clone discovery for ?q=, which may be a ticker,
// a cashtag, or a mint address.
func (a *app) handleTokens(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, "q parameter is required", http.StatusBadRequest)
		return
	}

	discovery := a.screener.LookupTicker(r.Context(),
		query,
		r.URL.Query().Get("canonicalMint"),
		r.URL.Query().Get("fallbackSymbol"),
	)
	writeJSON(w, a.log, discovery)
}

func floatParam(r *http.Request, name string, fallback float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New(name + " must be a number")
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, log *logrus.Logger, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("encode response")
	}
}

func newLogger(cfg config.LogConfig) *logrus.Logger {
	log := logrus.New()
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log
}
