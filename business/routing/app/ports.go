// Package app contains application services and port definitions for the routing context.
package app

import (
	"context"

	"github.com/shopspring/decimal"

	crosschainDomain "github.com/scr1ptjunk13/peepsweep/business/crosschain/domain"
	"github.com/scr1ptjunk13/peepsweep/business/routing/domain"
)

// VenueAdapter is the capability every liquidity venue implements. Quote
// returns one candidate or a typed failure; failures never abort the
// aggregation, they only exclude the venue from the result set.
type VenueAdapter interface {
	// Name returns the venue's display name, also used for priority lookup.
	Name() string

	// SupportedChains lists the chains this adapter can quote on.
	SupportedChains() []string

	// IsPairSupported reports whether the venue can quote this pair.
	// Adapters without pair metadata return true and let Quote fail.
	IsPairSupported(ctx context.Context, tokenIn, tokenOut, chain string) bool

	// Quote prices a swap on this venue.
	Quote(ctx context.Context, req domain.SwapRequest) (domain.RouteCandidate, error)
}

// RateOracle converts between tokens for multi-hop estimation. ok=false
// means the pair is unknown and the caller applies its own conservative
// discount. A placeholder for a real price-oracle integration.
type RateOracle interface {
	Rate(ctx context.Context, from, to string) (rate decimal.Decimal, ok bool)
}

// BridgeDirectory exposes the static bridge reference data consumed by the
// complex-route synthesizer.
type BridgeDirectory interface {
	Bridge(name string) (crosschainDomain.BridgeInfo, bool)
	All() []crosschainDomain.BridgeInfo
}

// MultiHopFinder is Tier 2's contract: graph-backed multi-hop candidates,
// possibly none, never an error.
type MultiHopFinder interface {
	FindMultiHopRoutes(ctx context.Context, req domain.SwapRequest) []domain.RouteCandidate
}

// ComplexRouteFinder is Tier 3's contract: synthesized long-hop, cross-chain
// and leveraged candidates, possibly none, never an error.
type ComplexRouteFinder interface {
	FindComplexRoutes(ctx context.Context, req domain.SwapRequest) []domain.RouteCandidate
}

// GasPriceSource reports the current chain gas price so responses can carry
// a cost annotation next to the per-route gas units. Optional; a nil source
// leaves the annotation at zero.
type GasPriceSource interface {
	GasPriceGwei(ctx context.Context) (float64, error)
}

// ArbitrageSource supplies the currently known cross-chain price
// differences. Maintained by the crosschain context's detector.
type ArbitrageSource interface {
	Opportunities(ctx context.Context) []crosschainDomain.ArbitrageRoute
}
