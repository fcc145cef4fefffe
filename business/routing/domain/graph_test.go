package domain_test

import (
	"errors"
	"testing"

	"github.com/scr1ptjunk13/peepsweep/business/routing/domain"
	"github.com/scr1ptjunk13/peepsweep/internal/apperror"
)

func pairRoutes(venue string) []domain.PairRoute {
	return []domain.PairRoute{{Venue: venue, Liquidity: 1_000_000, GasEstimate: 150_000}}
}

func TestAddPair_Rejections(t *testing.T) {
	g := domain.NewTokenGraph()

	err := g.AddPair("ETH", "ETH", pairRoutes("Uniswap V3"))
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperror.CodeSelfLoopPair {
		t.Errorf("self-loop: got %v, want %s", err, apperror.CodeSelfLoopPair)
	}

	err = g.AddPair("ETH", "USDC", nil)
	if !errors.As(err, &appErr) || appErr.Code != apperror.CodeEmptyPairRoute {
		t.Errorf("empty routes: got %v, want %s", err, apperror.CodeEmptyPairRoute)
	}
}

func TestAddPair_Bidirectional(t *testing.T) {
	g := domain.NewTokenGraph()
	if err := g.AddPair("ETH", "USDC", pairRoutes("Uniswap V3")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(g.Routes("ETH", "USDC")) != 1 || len(g.Routes("USDC", "ETH")) != 1 {
		t.Error("expected routes in both directions")
	}
	if g.EdgeCount() != 2 {
		t.Errorf("edge count = %d, want 2", g.EdgeCount())
	}
}

// diamond builds ETH-USDC and ETH-USDT-USDC so two paths exist.
func diamond(t *testing.T) *domain.TokenGraph {
	t.Helper()
	g := domain.NewTokenGraph()
	for _, pair := range [][2]string{{"ETH", "USDC"}, {"ETH", "USDT"}, {"USDT", "USDC"}} {
		if err := g.AddPair(pair[0], pair[1], pairRoutes("Uniswap V3")); err != nil {
			t.Fatalf("AddPair(%v): %v", pair, err)
		}
	}
	return g
}

func TestPaths_ShortestFirst(t *testing.T) {
	g := diamond(t)

	paths := g.Paths("ETH", "USDC", 3)
	if len(paths) != 2 {
		t.Fatalf("got %d paths, want 2", len(paths))
	}
	if len(paths[0]) != 2 || paths[0][1] != "USDC" {
		t.Errorf("first path = %v, want direct ETH->USDC", paths[0])
	}
	if len(paths[1]) != 3 || paths[1][1] != "USDT" {
		t.Errorf("second path = %v, want ETH->USDT->USDC", paths[1])
	}
}

func TestPaths_Bounded(t *testing.T) {
	g := diamond(t)
	if err := g.AddPair("USDC", "DAI", pairRoutes("Curve")); err != nil {
		t.Fatal(err)
	}
	if err := g.AddPair("DAI", "WBTC", pairRoutes("SushiSwap")); err != nil {
		t.Fatal(err)
	}
	if err := g.AddPair("WBTC", "LINK", pairRoutes("SushiSwap")); err != nil {
		t.Fatal(err)
	}

	maxHops := 3
	for _, path := range g.Paths("ETH", "LINK", maxHops) {
		if len(path) > maxHops+1 {
			t.Errorf("path %v exceeds %d hops", path, maxHops)
		}
	}

	// LINK is 4 hops away through the USDT detour; only the direct-side
	// chain fits the bound.
	paths := g.Paths("ETH", "LINK", maxHops)
	if len(paths) != 0 {
		t.Errorf("got %d paths, want 0 within %d hops", len(paths), maxHops)
	}
}

func TestPaths_NoRevisits(t *testing.T) {
	g := diamond(t)

	for _, path := range g.Paths("ETH", "USDC", 3) {
		seen := make(map[string]bool)
		for _, tok := range path {
			if seen[tok] {
				t.Errorf("path %v revisits %s", path, tok)
			}
			seen[tok] = true
		}
	}
}

func TestPaths_UnknownToken(t *testing.T) {
	g := diamond(t)
	if paths := g.Paths("TOKX", "USDC", 3); paths != nil {
		t.Errorf("got %v, want nil for unknown token", paths)
	}
}
