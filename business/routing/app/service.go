package app

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/scr1ptjunk13/peepsweep/business/routing/domain"
)

// QuoteResponse is the caller-facing answer: the allocated route list plus
// aggregate figures derived from it.
type QuoteResponse struct {
	Routes         []domain.RouteCandidate
	AmountOut      decimal.Decimal // allocation-weighted total output
	GasEstimate    uint64          // summed across routes
	GasPriceGwei   float64         // 0 when no gas source is wired
	GasCostGwei    float64         // GasEstimate priced at GasPriceGwei
	ResponseTimeMs int64
}

// RouteService is the public entry point of the routing context. It runs
// the orchestrator and assembles the response totals.
type RouteService struct {
	orchestrator *Orchestrator
	gasPrices    GasPriceSource // optional
}

// NewRouteService creates a RouteService. gasPrices may be nil.
func NewRouteService(orchestrator *Orchestrator, gasPrices GasPriceSource) *RouteService {
	return &RouteService{orchestrator: orchestrator, gasPrices: gasPrices}
}

// Quote answers a swap request.
func (s *RouteService) Quote(ctx context.Context, req domain.SwapRequest) (*QuoteResponse, error) {
	start := time.Now()

	routes, err := s.orchestrator.GetOptimalRoute(ctx, req)
	if err != nil {
		return nil, err
	}

	hundred := decimal.NewFromInt(100)
	total := decimal.Zero
	var gas uint64
	for _, r := range routes {
		total = total.Add(r.AmountOut.Mul(r.AllocationPercent).Div(hundred))
		gas += r.GasEstimate
	}

	resp := &QuoteResponse{
		Routes:         routes,
		AmountOut:      total,
		GasEstimate:    gas,
		ResponseTimeMs: time.Since(start).Milliseconds(),
	}

	// Price annotation is best effort; a failing oracle never fails a quote.
	if s.gasPrices != nil {
		if gwei, err := s.gasPrices.GasPriceGwei(ctx); err == nil {
			resp.GasPriceGwei = gwei
			resp.GasCostGwei = gwei * float64(gas)
		}
	}

	return resp, nil
}
