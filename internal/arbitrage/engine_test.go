package arbitrage

import (
	"math"
	"testing"
	"time"

	"cascreener/internal/domain"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func polyMarket(id, question string, yes, no float64) domain.Market {
	return domain.Market{
		ID: id, Platform: domain.PlatformPolymarket,
		Question: question, YesPrice: yes, NoPrice: no,
	}
}

func kalshiMarket(id, question string, yes, no float64) domain.Market {
	return domain.Market{
		ID: id, Platform: domain.PlatformKalshi,
		Question: question, YesPrice: yes, NoPrice: no,
	}
}

func TestFindOpportunities_EmptyInputs(t *testing.T) {
	a := []domain.Market{polyMarket("a1", "q", 0.4, 0.6)}

	for _, c := range [][2][]domain.Market{
		{nil, nil},
		{a, nil},
		{nil, a},
	} {
		got := FindOpportunities(c[0], c[1], Options{})
		if got == nil {
			t.Fatal("expected empty slice, got nil")
		}
		if len(got) != 0 {
			t.Errorf("expected no opportunities, got %d", len(got))
		}
	}
}

func TestFindOpportunities_ImpliedProfitScenario(t *testing.T) {
	// A: yes 0.40/no 0.55, B: yes 0.50/no 0.45, same question.
	// Best YES buy = A@0.40, best NO buy = B@0.45, sum 0.85 → profit 0.15.
	a := []domain.Market{polyMarket("a1", "Will BTC hit 100k?", 0.40, 0.55)}
	b := []domain.Market{kalshiMarket("b1", "Will BTC hit 100k?", 0.50, 0.45)}

	got := findOpportunitiesAt(a, b, Options{}, testNow)
	if len(got) != 1 {
		t.Fatalf("expected 1 opportunity, got %d", len(got))
	}
	opp := got[0]

	if opp.BestYesBuy.Market.ID != "a1" || opp.BestYesBuy.Price != 0.40 {
		t.Errorf("bestYesBuy = %s@%f, want a1@0.40", opp.BestYesBuy.Market.ID, opp.BestYesBuy.Price)
	}
	if opp.BestNoBuy.Market.ID != "b1" || opp.BestNoBuy.Price != 0.45 {
		t.Errorf("bestNoBuy = %s@%f, want b1@0.45", opp.BestNoBuy.Market.ID, opp.BestNoBuy.Price)
	}
	if opp.ImpliedProfit == nil {
		t.Fatal("expected implied profit")
	}
	if math.Abs(*opp.ImpliedProfit-0.15) > 1e-9 {
		t.Errorf("impliedProfit = %f, want 0.15", *opp.ImpliedProfit)
	}
	if opp.Similarity != 1.0 {
		t.Errorf("similarity = %f, want 1.0", opp.Similarity)
	}
	// Signed spreads, venue-A minus venue-B.
	if math.Abs(opp.YesSpread-(-0.10)) > 1e-9 {
		t.Errorf("yesSpread = %f, want -0.10", opp.YesSpread)
	}
	if math.Abs(opp.NoSpread-0.10) > 1e-9 {
		t.Errorf("noSpread = %f, want 0.10", opp.NoSpread)
	}
}

func TestFindOpportunities_NoProfitWhenLegsSumAboveOne(t *testing.T) {
	a := []domain.Market{polyMarket("a1", "Will BTC hit 100k?", 0.60, 0.55)}
	b := []domain.Market{kalshiMarket("b1", "Will BTC hit 100k?", 0.70, 0.48)}

	got := findOpportunitiesAt(a, b, Options{}, testNow)
	if len(got) != 1 {
		t.Fatalf("expected 1 opportunity, got %d", len(got))
	}
	// Legs sum to 0.60 + 0.48 = 1.08 ≥ 1: profit absent, spreads carry it.
	if got[0].ImpliedProfit != nil {
		t.Errorf("expected absent implied profit, got %f", *got[0].ImpliedProfit)
	}
}

func TestFindOpportunities_NoiseDiscarded(t *testing.T) {
	// Spreads of 0.005 with no implied profit are market noise.
	a := []domain.Market{polyMarket("a1", "Will BTC hit 100k?", 0.600, 0.405)}
	b := []domain.Market{kalshiMarket("b1", "Will BTC hit 100k?", 0.605, 0.400)}

	got := findOpportunitiesAt(a, b, Options{}, testNow)
	if len(got) != 0 {
		t.Errorf("expected noise pair discarded, got %d opportunities", len(got))
	}
}

func TestFindOpportunities_SimilarityThreshold(t *testing.T) {
	a := []domain.Market{polyMarket("a1", "Will BTC reach 100k in June", 0.40, 0.50)}
	b := []domain.Market{kalshiMarket("b1", "Will BTC hit 100k by July 4th", 0.50, 0.40)}

	// Word overlap is well below the default 0.75.
	if got := findOpportunitiesAt(a, b, Options{}, testNow); len(got) != 0 {
		t.Errorf("expected low-similarity pair rejected, got %d", len(got))
	}
	// Lowering the threshold admits it.
	if got := findOpportunitiesAt(a, b, Options{MinSimilarity: 0.3}, testNow); len(got) != 1 {
		t.Errorf("expected pair admitted at 0.3, got %d", len(got))
	}
}

func TestFindOpportunities_IdenticalQuestionsAlwaysEligible(t *testing.T) {
	a := []domain.Market{polyMarket("a1", "Same question", 0.30, 0.50)}
	b := []domain.Market{kalshiMarket("b1", "Same question", 0.50, 0.30)}

	got := findOpportunitiesAt(a, b, Options{MinSimilarity: 1.0}, testNow)
	if len(got) != 1 {
		t.Fatalf("identical questions must clear any threshold, got %d", len(got))
	}
}

func TestFindOpportunities_MinSpreadFilter(t *testing.T) {
	// Spreads of 0.02 and implied profit 1-(0.49+0.49)=0.02.
	a := []domain.Market{polyMarket("a1", "Will BTC hit 100k?", 0.49, 0.51)}
	b := []domain.Market{kalshiMarket("b1", "Will BTC hit 100k?", 0.51, 0.49)}

	if got := findOpportunitiesAt(a, b, Options{MinSpread: 0.05}, testNow); len(got) != 0 {
		t.Errorf("expected candidate below MinSpread filtered, got %d", len(got))
	}
	if got := findOpportunitiesAt(a, b, Options{MinSpread: 0.02}, testNow); len(got) != 1 {
		t.Errorf("expected candidate at MinSpread kept, got %d", len(got))
	}
}

func TestFindOpportunities_QuestionIsShorter(t *testing.T) {
	a := []domain.Market{polyMarket("a1", "Will Bitcoin hit $100k??", 0.40, 0.50)}
	b := []domain.Market{kalshiMarket("b1", "Will Bitcoin hit $100k", 0.50, 0.40)}

	got := findOpportunitiesAt(a, b, Options{}, testNow)
	if len(got) != 1 {
		t.Fatalf("expected 1 opportunity, got %d", len(got))
	}
	if got[0].Question != "Will Bitcoin hit $100k" {
		t.Errorf("expected shorter question, got %q", got[0].Question)
	}
}

func TestFindOpportunities_RankedByComposite(t *testing.T) {
	// Two independent matches with different implied profits; the bigger
	// profit must rank first regardless of input order.
	a := []domain.Market{
		polyMarket("small", "alpha proposition closes", 0.48, 0.48), // profit 0.04
		polyMarket("large", "beta proposition settles", 0.30, 0.40), // profit 0.35
	}
	b := []domain.Market{
		kalshiMarket("smallB", "alpha proposition closes", 0.52, 0.52),
		kalshiMarket("largeB", "beta proposition settles", 0.45, 0.35),
	}

	got := findOpportunitiesAt(a, b, Options{}, testNow)
	if len(got) != 2 {
		t.Fatalf("expected 2 opportunities, got %d", len(got))
	}
	if got[0].Markets[0].ID != "large" {
		t.Errorf("expected high-profit opportunity first, got %s", got[0].Markets[0].ID)
	}
	if got[0].Score <= got[1].Score {
		t.Errorf("expected descending scores, got %f then %f", got[0].Score, got[1].Score)
	}
}

func TestFindOpportunities_RankingIdempotent(t *testing.T) {
	a := []domain.Market{
		polyMarket("m1", "alpha proposition closes", 0.48, 0.48),
		polyMarket("m2", "beta proposition settles", 0.30, 0.40),
		polyMarket("m3", "gamma proposition resolves", 0.40, 0.45),
	}
	b := []domain.Market{
		kalshiMarket("k1", "alpha proposition closes", 0.52, 0.52),
		kalshiMarket("k2", "beta proposition settles", 0.45, 0.35),
		kalshiMarket("k3", "gamma proposition resolves", 0.42, 0.44),
	}

	first := findOpportunitiesAt(a, b, Options{}, testNow)
	second := findOpportunitiesAt(a, b, Options{}, testNow)
	if len(first) != len(second) {
		t.Fatalf("expected identical result sizes, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Markets[0].ID != second[i].Markets[0].ID {
			t.Errorf("position %d: %s vs %s", i, first[i].Markets[0].ID, second[i].Markets[0].ID)
		}
	}
}

func TestFindOpportunities_DuplicateRecordsCollapsed(t *testing.T) {
	m := polyMarket("a1", "Will BTC hit 100k?", 0.40, 0.55)
	a := []domain.Market{m, m, m}
	b := []domain.Market{kalshiMarket("b1", "Will BTC hit 100k?", 0.50, 0.45)}

	got := findOpportunitiesAt(a, b, Options{}, testNow)
	if len(got) != 1 {
		t.Errorf("expected duplicates collapsed to 1 opportunity, got %d", len(got))
	}
}

func TestCheaperLeg_TieBreaksByPlatform(t *testing.T) {
	a := polyMarket("a1", "q", 0.50, 0.50)
	b := kalshiMarket("b1", "q", 0.50, 0.50)

	// kalshi sorts before polymarket, so equal prices pick the kalshi leg
	// no matter the operand order.
	leg := cheaperLeg(a, b, domain.SideYes)
	if leg.Market.Platform != domain.PlatformKalshi {
		t.Errorf("expected kalshi leg on tie, got %s", leg.Market.Platform)
	}
	leg = cheaperLeg(b, a, domain.SideYes)
	if leg.Market.Platform != domain.PlatformKalshi {
		t.Errorf("expected kalshi leg on tie (reversed operands), got %s", leg.Market.Platform)
	}
}
