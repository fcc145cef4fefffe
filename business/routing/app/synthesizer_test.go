package app_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	crosschainDomain "github.com/scr1ptjunk13/peepsweep/business/crosschain/domain"
	"github.com/scr1ptjunk13/peepsweep/business/crosschain/infra/bridges"
	"github.com/scr1ptjunk13/peepsweep/business/routing/app"
)

// fakeArbitrage serves a fixed opportunity table.
type fakeArbitrage []crosschainDomain.ArbitrageRoute

func (f fakeArbitrage) Opportunities(ctx context.Context) []crosschainDomain.ArbitrageRoute {
	return f
}

func newSynthesizer(arb fakeArbitrage) *app.ComplexRouteSynthesizer {
	return app.NewComplexRouteSynthesizer(
		app.DefaultSynthesizerConfig(), bridges.NewDirectory(), arb, testLogger())
}

func TestFindComplexRoutes_LongHopOnlyFromMatchingInput(t *testing.T) {
	s := newSynthesizer(nil)

	routes := s.FindComplexRoutes(context.Background(), request(t, "ETH", "USDC", "1"))

	var longHops int
	for _, r := range routes {
		if strings.HasPrefix(r.Venue, "complex ") {
			longHops++
			if !strings.Contains(r.Venue, "ETH") {
				t.Errorf("long-hop venue %q does not start from ETH", r.Venue)
			}
		}
	}
	// All three curated sequences start at ETH.
	if longHops != 3 {
		t.Errorf("got %d long-hop routes, want 3", longHops)
	}

	// Starting elsewhere produces none.
	routes = s.FindComplexRoutes(context.Background(), request(t, "USDC", "DAI", "1"))
	for _, r := range routes {
		if strings.HasPrefix(r.Venue, "complex ") {
			t.Errorf("unexpected long-hop route %q for USDC input", r.Venue)
		}
	}
}

func TestFindComplexRoutes_LongHopPricing(t *testing.T) {
	s := newSynthesizer(nil)

	routes := s.FindComplexRoutes(context.Background(), request(t, "ETH", "USDT", "1000"))

	// 4 hops of 0.3% plus the 0.5% complexity penalty.
	perHop := decimal.RequireFromString("0.997")
	want := decimal.RequireFromString("1000").
		Mul(perHop).Mul(perHop).Mul(perHop).Mul(perHop).
		Mul(decimal.RequireFromString("0.995"))

	found := false
	for _, r := range routes {
		if strings.Contains(r.Venue, "ETH -> USDC -> DAI -> WBTC -> USDT") {
			found = true
			if !r.AmountOut.Equal(want) {
				t.Errorf("amount out = %s, want %s", r.AmountOut, want)
			}
			if r.GasEstimate != 5*180_000 {
				t.Errorf("gas = %d, want %d", r.GasEstimate, 5*180_000)
			}
		}
	}
	if !found {
		t.Error("expected the ETH -> USDC -> DAI -> WBTC -> USDT sequence")
	}
}

func TestFindComplexRoutes_ArbitrageCandidates(t *testing.T) {
	arb := fakeArbitrage{
		{ChainA: "ethereum", ChainB: "arbitrum", Token: "USDC",
			PriceDifference: decimal.RequireFromString("0.01"), Bridge: "Across Protocol"},
		{ChainA: "ethereum", ChainB: "polygon", Token: "DAI", // wrong output token
			PriceDifference: decimal.RequireFromString("0.02"), Bridge: "Hop Protocol"},
		{ChainA: "ethereum", ChainB: "bsc", Token: "USDC", // unknown bridge
			PriceDifference: decimal.RequireFromString("0.02"), Bridge: "Wormhole"},
	}
	s := newSynthesizer(arb)

	routes := s.FindComplexRoutes(context.Background(), request(t, "ETH", "USDC", "100"))

	var crossChain []string
	for _, r := range routes {
		if strings.HasPrefix(r.Venue, "cross-chain arbitrage") {
			crossChain = append(crossChain, r.Venue)

			// 100 * 1.01 * (1 - 0.03/100) - 180000 * 0.00001
			want := decimal.RequireFromString("100").
				Mul(decimal.RequireFromString("1.01")).
				Mul(decimal.RequireFromString("0.9997")).
				Sub(decimal.RequireFromString("1.8"))
			if !r.AmountOut.Equal(want) {
				t.Errorf("amount out = %s, want %s", r.AmountOut, want)
			}
			if r.GasEstimate != 180_000+300_000 {
				t.Errorf("gas = %d, want %d", r.GasEstimate, 180_000+300_000)
			}
		}
	}

	if len(crossChain) != 1 {
		t.Fatalf("got %d cross-chain routes (%v), want 1", len(crossChain), crossChain)
	}
	if !strings.Contains(crossChain[0], "Across Protocol") {
		t.Errorf("venue = %q, want Across Protocol route", crossChain[0])
	}
}

func TestFindComplexRoutes_FlashLoanFlooredAtInput(t *testing.T) {
	cfg := app.DefaultSynthesizerConfig()
	// Fee above margin would model a loss; output must clamp to the input.
	cfg.FlashLoanFee = decimal.RequireFromString("0.01")
	s := app.NewComplexRouteSynthesizer(cfg, bridges.NewDirectory(), fakeArbitrage(nil), testLogger())

	routes := s.FindComplexRoutes(context.Background(), request(t, "WBTC", "USDT", "2"))

	var flashLoans int
	for _, r := range routes {
		if strings.Contains(r.Venue, "Flash Loan") {
			flashLoans++
			if !r.AmountOut.Equal(decimal.NewFromInt(2)) {
				t.Errorf("amount out = %s, want floor at 2", r.AmountOut)
			}
			if r.GasEstimate != 450_000 {
				t.Errorf("gas = %d, want 450000", r.GasEstimate)
			}
		}
	}
	if flashLoans != 2 {
		t.Errorf("got %d flash-loan routes, want 2", flashLoans)
	}
}

func TestFindComplexRoutes_FlashLoanProfit(t *testing.T) {
	s := newSynthesizer(nil)

	routes := s.FindComplexRoutes(context.Background(), request(t, "WBTC", "USDT", "100"))

	// 100 + 500*0.001 - 500*0.0009 = 100.05
	want := decimal.RequireFromString("100.05")
	for _, r := range routes {
		if strings.Contains(r.Venue, "Flash Loan") && !r.AmountOut.Equal(want) {
			t.Errorf("amount out = %s, want %s", r.AmountOut, want)
		}
	}
}
