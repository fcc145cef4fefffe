package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/scr1ptjunk13/peepsweep/business/routing/domain"
	"github.com/scr1ptjunk13/peepsweep/internal/logger"
)

// PathfinderConfig holds Tier 2 tuning.
type PathfinderConfig struct {
	MaxHops     int
	MaxPaths    int             // paths materialized into candidates
	HopSlippage decimal.Decimal // fraction per hop, e.g. 0.003
}

// DefaultPathfinderConfig returns the standard tuning.
func DefaultPathfinderConfig() PathfinderConfig {
	return PathfinderConfig{
		MaxHops:     3,
		MaxPaths:    5,
		HopSlippage: decimal.NewFromFloat(0.003),
	}
}

// unknownPairDiscount is the conservative conversion applied when the rate
// oracle has no entry for a hop.
var unknownPairDiscount = decimal.NewFromFloat(0.95)

// MultiHopRouter is Tier 2: it searches the token graph for bounded-length
// paths and prices them hop by hop through the rate oracle.
type MultiHopRouter struct {
	cfg   PathfinderConfig
	graph *domain.TokenGraph
	rates RateOracle
	log   logger.LoggerInterface
}

// NewMultiHopRouter creates a MultiHopRouter over the shared graph.
func NewMultiHopRouter(cfg PathfinderConfig, graph *domain.TokenGraph, rates RateOracle, log logger.LoggerInterface) *MultiHopRouter {
	return &MultiHopRouter{cfg: cfg, graph: graph, rates: rates, log: log}
}

// Graph exposes the shared token graph for pair registration.
func (m *MultiHopRouter) Graph() *domain.TokenGraph {
	return m.graph
}

// FindMultiHopRoutes returns multi-hop candidates for the request. The
// result may be empty; the search itself never fails.
func (m *MultiHopRouter) FindMultiHopRoutes(ctx context.Context, req domain.SwapRequest) []domain.RouteCandidate {
	paths := m.graph.Paths(req.TokenIn.Symbol, req.TokenOut.Symbol, m.cfg.MaxHops)
	if len(paths) == 0 {
		m.log.Debug(ctx, "no multi-hop paths", "pair", req.Pair())
		return nil
	}

	if len(paths) > m.cfg.MaxPaths {
		paths = paths[:m.cfg.MaxPaths]
	}

	var candidates []domain.RouteCandidate
	for _, path := range paths {
		if c, ok := m.pricePath(ctx, path, req.AmountIn); ok {
			candidates = append(candidates, c)
		}
	}

	m.log.Debug(ctx, "multi-hop search complete",
		"pair", req.Pair(), "paths", len(paths), "candidates", len(candidates))
	return candidates
}

// pricePath walks a path applying per-hop conversion and slippage,
// accumulating gas from the best route on each edge.
func (m *MultiHopRouter) pricePath(ctx context.Context, path []string, amountIn decimal.Decimal) (domain.RouteCandidate, bool) {
	if len(path) < 2 {
		return domain.RouteCandidate{}, false
	}

	amount := amountIn
	var totalGas uint64
	hops := make([]string, 0, len(path)-1)

	oneMinusSlippage := decimal.NewFromInt(1).Sub(m.cfg.HopSlippage)

	for i := 0; i < len(path)-1; i++ {
		from, to := path[i], path[i+1]

		routes := m.graph.Routes(from, to)
		if len(routes) == 0 {
			return domain.RouteCandidate{}, false
		}
		edge := routes[0]
		totalGas += edge.GasEstimate
		hops = append(hops, fmt.Sprintf("%s->%s via %s", from, to, edge.Venue))

		rate, ok := m.rates.Rate(ctx, from, to)
		if !ok {
			rate = unknownPairDiscount
		}
		amount = amount.Mul(rate).Mul(oneMinusSlippage)
	}

	return domain.RouteCandidate{
		Venue:       "multi-hop: " + strings.Join(hops, ", "),
		AmountOut:   amount,
		GasEstimate: totalGas,
	}, true
}
