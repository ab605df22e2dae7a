package arbitrage

import (
	"math"
	"testing"
	"time"

	"cascreener/internal/domain"
)

func TestEdgeScore_NoKeywords(t *testing.T) {
	if got := EdgeScore("Will it rain in London tomorrow?"); got != 0 {
		t.Errorf("expected 0, got %f", got)
	}
}

func TestEdgeScore_SingleKeyword(t *testing.T) {
	if got := EdgeScore("Will Bitcoin close above 100k?"); got != 0.3 {
		t.Errorf("expected 0.3, got %f", got)
	}
}

func TestEdgeScore_MultipleKeywords(t *testing.T) {
	// bitcoin + eth = 2 hits → 0.3 + 0.2 = 0.5
	got := EdgeScore("Will Bitcoin flip ETH this year?")
	if math.Abs(got-0.5) > 1e-9 {
		t.Errorf("expected 0.5, got %f", got)
	}
}

func TestEdgeScore_CappedAtOne(t *testing.T) {
	// 5+ hits would push past 1.0 without the cap.
	got := EdgeScore("bitcoin btc ethereum eth solana crypto election")
	if got != 1.0 {
		t.Errorf("expected cap at 1.0, got %f", got)
	}
}

func TestEdgeScore_WholeWordsOnly(t *testing.T) {
	// "chair" contains "ai" and "aether" contains "eth"; neither is a hit.
	if got := EdgeScore("Will the chair of aether society resign?"); got != 0 {
		t.Errorf("expected 0 for substring-only matches, got %f", got)
	}
}

func TestEdgeScore_Phrase(t *testing.T) {
	if got := EdgeScore("Who wins the Super Bowl?"); got != 0.3 {
		t.Errorf("expected 0.3 for phrase keyword, got %f", got)
	}
}

func endIn(now time.Time, d time.Duration) *time.Time {
	end := now.Add(d)
	return &end
}

func TestUrgencyScore_Bands(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		end  *time.Time
		want float64
	}{
		{"within a day", endIn(now, 6 * time.Hour), 1.0},
		{"within a week", endIn(now, 3 * 24 * time.Hour), 0.8},
		{"within a month", endIn(now, 20 * 24 * time.Hour), 0.5},
		{"within a quarter", endIn(now, 60 * 24 * time.Hour), 0.3},
		{"beyond a quarter", endIn(now, 200 * 24 * time.Hour), 0.1},
		{"no end date", nil, 0.1},
	}
	for _, c := range cases {
		m := domain.Market{EndDate: c.end}
		if got := UrgencyScore(now, m); got != c.want {
			t.Errorf("%s: expected %f, got %f", c.name, c.want, got)
		}
	}
}

func TestUrgencyScore_SoonestNonPastWins(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := domain.Market{EndDate: endIn(now, -2 * time.Hour)}
	near := domain.Market{EndDate: endIn(now, 12 * time.Hour)}
	far := domain.Market{EndDate: endIn(now, 40 * 24 * time.Hour)}

	// Past end dates are ignored; the 12h market drives urgency.
	if got := UrgencyScore(now, past, far, near); got != 1.0 {
		t.Errorf("expected 1.0 from soonest non-past end date, got %f", got)
	}
	// Only a past end date behaves like no end date at all.
	if got := UrgencyScore(now, past); got != 0.1 {
		t.Errorf("expected 0.1 for past-only end dates, got %f", got)
	}
}
