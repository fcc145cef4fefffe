package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/scr1ptjunk13/peepsweep/business/crosschain/infra/bridges"
	"github.com/scr1ptjunk13/peepsweep/business/routing/app"
	"github.com/scr1ptjunk13/peepsweep/business/routing/domain"
	"github.com/scr1ptjunk13/peepsweep/internal/apperror"
)

// newOrchestrator builds the three tiers with generous budgets so tests
// exercise control flow, not wall-clock behavior.
func newOrchestrator(t *testing.T, adapters []app.VenueAdapter, graph *domain.TokenGraph) (*app.Orchestrator, *app.Registry) {
	t.Helper()

	registry := app.NewRegistry(app.DefaultRegistryConfig(), testLogger())
	for _, a := range adapters {
		registry.Register(a)
	}
	t.Cleanup(registry.Close)

	if graph == nil {
		graph = domain.NewTokenGraph()
	}
	multiHop := app.NewMultiHopRouter(app.DefaultPathfinderConfig(), graph, fakeRates{}, testLogger())
	synth := app.NewComplexRouteSynthesizer(
		app.DefaultSynthesizerConfig(), bridges.NewDirectory(), fakeArbitrage(nil), testLogger())

	cfg := app.OrchestratorConfig{
		Tier1Budget: time.Second,
		Tier2Budget: 2 * time.Second,
		MaxRoutes:   3,
	}
	return app.NewOrchestrator(cfg, registry, multiHop, synth, testLogger()), registry
}

func TestGetOptimalRoute_FastPath(t *testing.T) {
	uni := &fakeAdapter{name: "Uniswap V3", chains: []string{"ethereum"},
		amountOut: decimal.RequireFromString("3400"), gas: 150_000}
	graph := testGraph(t, [2]string{"ETH", "USDT"}, [2]string{"USDT", "USDC"})

	o, _ := newOrchestrator(t, []app.VenueAdapter{uni}, graph)

	routes, err := o.GetOptimalRoute(context.Background(), request(t, "ETH", "USDC", "1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A direct quote inside the Tier 1 budget skips the later tiers.
	if len(routes) != 1 {
		t.Fatalf("got %d routes, want 1", len(routes))
	}
	if routes[0].Venue != "Uniswap V3" {
		t.Errorf("venue = %s", routes[0].Venue)
	}
	if !routes[0].AllocationPercent.Equal(decimal.NewFromInt(100)) {
		t.Errorf("allocation = %s, want 100", routes[0].AllocationPercent)
	}
}

func TestGetOptimalRoute_FallsThroughToLaterTiers(t *testing.T) {
	failing := &fakeAdapter{name: "Uniswap V3", chains: []string{"ethereum"},
		err: errors.New("node down")}
	graph := testGraph(t, [2]string{"ETH", "USDT"}, [2]string{"USDT", "USDC"})

	o, _ := newOrchestrator(t, []app.VenueAdapter{failing}, graph)

	routes, err := o.GetOptimalRoute(context.Background(), request(t, "ETH", "USDC", "1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(routes) == 0 {
		t.Fatal("expected multi-hop candidates")
	}

	found := false
	for _, r := range routes {
		if strings.HasPrefix(r.Venue, "multi-hop: ") {
			found = true
		}
	}
	if !found {
		t.Errorf("no multi-hop route among %d candidates", len(routes))
	}

	sum := decimal.Zero
	for _, r := range routes {
		sum = sum.Add(r.AllocationPercent)
	}
	if !sum.Equal(decimal.NewFromInt(100)) {
		t.Errorf("allocations sum to %s, want 100", sum)
	}
}

func TestGetOptimalRoute_CapsAtMaxRoutes(t *testing.T) {
	uni := &fakeAdapter{name: "Uniswap V3", chains: []string{"ethereum"},
		amountOut: decimal.RequireFromString("3400"), gas: 150_000}
	graph := testGraph(t, [2]string{"ETH", "USDT"}, [2]string{"USDT", "USDC"})

	o, _ := newOrchestrator(t, []app.VenueAdapter{uni}, graph)

	// Force the merge path with an unreachable fast-path budget.
	cfg := app.OrchestratorConfig{Tier1Budget: 0, Tier2Budget: 2 * time.Second, MaxRoutes: 3}
	registry := app.NewRegistry(app.DefaultRegistryConfig(), testLogger())
	registry.Register(uni)
	t.Cleanup(registry.Close)
	multiHop := app.NewMultiHopRouter(app.DefaultPathfinderConfig(), graph, fakeRates{}, testLogger())
	synth := app.NewComplexRouteSynthesizer(
		app.DefaultSynthesizerConfig(), bridges.NewDirectory(), fakeArbitrage(nil), testLogger())
	o = app.NewOrchestrator(cfg, registry, multiHop, synth, testLogger())

	routes, err := o.GetOptimalRoute(context.Background(), request(t, "ETH", "USDC", "1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(routes) > 3 {
		t.Errorf("got %d routes, want at most 3", len(routes))
	}
	if len(routes) < 2 {
		t.Errorf("got %d routes, want direct plus multi-hop merged", len(routes))
	}
}

// emptyTiers stands in for Tiers 2 and 3 when a test needs them silent.
type emptyTiers struct{}

func (emptyTiers) FindMultiHopRoutes(ctx context.Context, req domain.SwapRequest) []domain.RouteCandidate {
	return nil
}

func (emptyTiers) FindComplexRoutes(ctx context.Context, req domain.SwapRequest) []domain.RouteCandidate {
	return nil
}

func TestGetOptimalRoute_NoLiquidity(t *testing.T) {
	// No adapters, no graph edges, nothing synthesized.
	registry := app.NewRegistry(app.DefaultRegistryConfig(), testLogger())
	t.Cleanup(registry.Close)

	cfg := app.OrchestratorConfig{Tier1Budget: time.Second, Tier2Budget: 2 * time.Second, MaxRoutes: 3}
	o := app.NewOrchestrator(cfg, registry, emptyTiers{}, emptyTiers{}, testLogger())

	_, err := o.GetOptimalRoute(context.Background(), request(t, "ETH", "USDC", "1"))
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperror.CodeNoLiquidity {
		t.Errorf("got %v, want %s", err, apperror.CodeNoLiquidity)
	}
}

func TestGetOptimalRoute_InvalidRequest(t *testing.T) {
	o, _ := newOrchestrator(t, nil, nil)

	_, err := o.GetOptimalRoute(context.Background(), domain.SwapRequest{
		TokenIn:  domain.NewTokenRef("ETH"),
		TokenOut: domain.NewTokenRef("USDC"),
		AmountIn: decimal.Zero,
		Chain:    "ethereum",
	})
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperror.CodeInvalidAmount {
		t.Errorf("got %v, want %s", err, apperror.CodeInvalidAmount)
	}
}
