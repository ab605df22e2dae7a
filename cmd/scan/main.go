// Package main runs one-shot scans from the command line and prints the
// results as JSON. Useful for cron jobs and quick manual checks without
// standing up the HTTP service.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"cascreener/internal/arbitrage"
	"cascreener/internal/config"
	"cascreener/internal/dexscreener"
	"cascreener/internal/fetch"
	"cascreener/internal/screener"
	"cascreener/internal/solana"
	"cascreener/internal/venues"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (optional, env vars apply on top)")
	mode := flag.String("mode", "arbitrage", "Scan mode: arbitrage or ticker")
	query := flag.String("q", "", "Ticker, cashtag, or mint address (ticker mode)")
	canonicalMint := flag.String("canonical-mint", "", "Known canonical mint address (ticker mode)")
	fallbackSymbol := flag.String("fallback-symbol", "", "Symbol to use when resolution fails (ticker mode)")
	minSimilarity := flag.Float64("min-similarity", 0, "Question similarity threshold (0 uses config)")
	minSpread := flag.Float64("min-spread", 0, "Minimum spread threshold (0 uses config)")
	timeout := flag.Duration("timeout", 60*time.Second, "Overall scan timeout")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		log.SetLevel(level)
	}

	dexClient := dexscreener.NewClient(
		dexscreener.WithBaseURL(cfg.DexScreener.BaseURL),
		dexscreener.WithTimeout(cfg.DexScreener.Timeout),
		dexscreener.WithRequestsPerMinute(cfg.DexScreener.RequestsPerMinute),
	)
	pairs := fetch.NewPairService(dexClient, cfg.DexScreener.ChainID, cfg.DexScreener.CacheTTL, nil, log)

	svc := screener.New(screener.Options{
		Polymarket: venues.NewPolymarketClient(cfg.Polymarket.BaseURL, &http.Client{Timeout: cfg.Polymarket.Timeout}),
		Kalshi:     venues.NewKalshiClient(cfg.Kalshi.BaseURL, &http.Client{Timeout: cfg.Kalshi.Timeout}),
		Pairs:      pairs,
		IsAddress:  solana.IsValidAddress,
		Log:        log,
	})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var result interface{}
	switch *mode {
	case "arbitrage":
		opts := arbitrage.Options{
			MinSimilarity: cfg.Scan.MinSimilarity,
			MinSpread:     cfg.Scan.MinSpread,
		}
		if *minSimilarity > 0 {
			opts.MinSimilarity = *minSimilarity
		}
		if *minSpread > 0 {
			opts.MinSpread = *minSpread
		}
		result = svc.ScanArbitrage(ctx, opts)
	case "ticker":
		if *query == "" {
			fmt.Fprintln(os.Stderr, "Error: --q is required in ticker mode")
			os.Exit(1)
		}
		result = svc.LookupTicker(ctx, *query, *canonicalMint, *fallbackSymbol)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q (want arbitrage or ticker)\n", *mode)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding result: %v\n", err)
		os.Exit(1)
	}
}
