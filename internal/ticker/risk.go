package ticker

import (
	"time"

	"cascreener/internal/domain"
)

// Risk thresholds. Fixed constants, not runtime configuration, so scoring is
// deterministic and testable in isolation.
const (
	veryLowLiquidityUSD = 5_000
	lowLiquidityUSD     = 25_000
	veryLowVolumeUSD    = 1_000
	lowVolumeUSD        = 10_000
	recentPairAge       = 24 * time.Hour
	newPairAge          = 72 * time.Hour
	maxFDVLiquidityRatio = 250
	duplicatePairLimit  = 3

	highRiskScore   = 4
	mediumRiskScore = 2
)

const canonicalReason = "Matches the canonical mint address"

// riskSignals are the per-mint fields the scorer reads. Absent fields arrive
// as zero and never abort scoring.
type riskSignals struct {
	LiquidityUSD  float64
	Volume24hUSD  float64
	FDV           float64
	PairCreatedAt int64 // Unix ms, 0 when unknown
	PairCount     int
}

// scoreRisk converts signals into a risk band plus human-readable reasons in
// evaluation order. Thin liquidity, thin volume, and very young pairs weigh
// double; FDV inflation and duplicate listings add one point each.
func scoreRisk(in riskSignals, now time.Time) (domain.RiskLevel, []string) {
	score := 0
	var reasons []string

	switch {
	case in.LiquidityUSD < veryLowLiquidityUSD:
		score += 2
		reasons = append(reasons, "Very low liquidity (<$5k)")
	case in.LiquidityUSD < lowLiquidityUSD:
		score++
		reasons = append(reasons, "Low liquidity (<$25k)")
	}

	switch {
	case in.Volume24hUSD < veryLowVolumeUSD:
		score += 2
		reasons = append(reasons, "Very low 24h volume (<$1k)")
	case in.Volume24hUSD < lowVolumeUSD:
		score++
		reasons = append(reasons, "Low 24h volume (<$10k)")
	}

	if in.PairCreatedAt > 0 {
		switch age := now.Sub(time.UnixMilli(in.PairCreatedAt)); {
		case age < recentPairAge:
			score += 2
			reasons = append(reasons, "Recently created pair (<24h)")
		case age < newPairAge:
			score++
			reasons = append(reasons, "New pair (<72h)")
		}
	}

	if in.LiquidityUSD > 0 && in.FDV/in.LiquidityUSD > maxFDVLiquidityRatio {
		score++
		reasons = append(reasons, "FDV far exceeds pool liquidity")
	}

	if in.PairCount > duplicatePairLimit {
		score++
		reasons = append(reasons, "Listed across many duplicate pairs")
	}

	switch {
	case score >= highRiskScore:
		return domain.RiskHigh, reasons
	case score >= mediumRiskScore:
		return domain.RiskMedium, reasons
	}
	if len(reasons) == 0 {
		reasons = []string{"Established liquidity and trading activity"}
	}
	return domain.RiskLow, reasons
}
