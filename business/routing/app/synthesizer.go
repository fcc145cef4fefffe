package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/scr1ptjunk13/peepsweep/business/routing/domain"
	"github.com/scr1ptjunk13/peepsweep/internal/logger"
)

// SynthesizerConfig holds Tier 3 tuning.
type SynthesizerConfig struct {
	HopSlippage       decimal.Decimal // fraction per hop
	ComplexityPenalty decimal.Decimal // extra fraction for 4+ hop paths
	GasPerLongHop     uint64
	SwapGasOverhead   uint64 // added on top of a bridge's own gas cost
	FlashLoanGas      uint64
	FlashLoanLeverage decimal.Decimal
	FlashLoanMargin   decimal.Decimal // modeled arbitrage margin, fraction
	FlashLoanFee      decimal.Decimal // fraction of the leveraged amount
}

// DefaultSynthesizerConfig returns the standard tuning.
func DefaultSynthesizerConfig() SynthesizerConfig {
	return SynthesizerConfig{
		HopSlippage:       decimal.NewFromFloat(0.003),
		ComplexityPenalty: decimal.NewFromFloat(0.005),
		GasPerLongHop:     180_000,
		SwapGasOverhead:   300_000,
		FlashLoanGas:      450_000,
		FlashLoanLeverage: decimal.NewFromInt(5),
		FlashLoanMargin:   decimal.NewFromFloat(0.001),
		FlashLoanFee:      decimal.NewFromFloat(0.0009),
	}
}

// longHopSequences are curated intra-chain bridge-token paths used by the
// long-hop generator. Each sequence is walked only when it starts at the
// requested input token.
var longHopSequences = [][]string{
	{"ETH", "USDC", "DAI", "WBTC", "USDT"},
	{"ETH", "UNI", "LINK", "USDC", "WBTC"},
	{"ETH", "AAVE", "COMP", "DAI", "USDC"},
}

// gasToTokenRate is the rough conversion from gas units to output-token
// amount used by the cross-chain generator.
var gasToTokenRate = decimal.NewFromFloat(0.00001)

// ComplexRouteSynthesizer is Tier 3: it fabricates long-hop, cross-chain
// and flash-loan candidates from static reference data. The three
// generators are independent and their outputs are concatenated; the tier
// never fails, it degrades to an empty result.
type ComplexRouteSynthesizer struct {
	cfg       SynthesizerConfig
	bridges   BridgeDirectory
	arbitrage ArbitrageSource
	log       logger.LoggerInterface
}

// NewComplexRouteSynthesizer creates a synthesizer over the given collaborators.
func NewComplexRouteSynthesizer(cfg SynthesizerConfig, bridges BridgeDirectory, arbitrage ArbitrageSource, log logger.LoggerInterface) *ComplexRouteSynthesizer {
	return &ComplexRouteSynthesizer{cfg: cfg, bridges: bridges, arbitrage: arbitrage, log: log}
}

// FindComplexRoutes runs all three generators for the request.
func (s *ComplexRouteSynthesizer) FindComplexRoutes(ctx context.Context, req domain.SwapRequest) []domain.RouteCandidate {
	var routes []domain.RouteCandidate
	routes = append(routes, s.longHopRoutes(req)...)
	routes = append(routes, s.arbitrageRoutes(ctx, req)...)
	routes = append(routes, s.flashLoanRoutes(req)...)

	s.log.Debug(ctx, "complex route synthesis complete", "pair", req.Pair(), "candidates", len(routes))
	return routes
}

func (s *ComplexRouteSynthesizer) longHopRoutes(req domain.SwapRequest) []domain.RouteCandidate {
	one := decimal.NewFromInt(1)
	perHop := one.Sub(s.cfg.HopSlippage)
	penalty := one.Sub(s.cfg.ComplexityPenalty)

	var routes []domain.RouteCandidate
	for _, seq := range longHopSequences {
		if len(seq) < 4 || seq[0] != req.TokenIn.Symbol {
			continue
		}

		amount := req.AmountIn
		for i := 0; i < len(seq)-1; i++ {
			amount = amount.Mul(perHop)
		}
		amount = amount.Mul(penalty)

		routes = append(routes, domain.RouteCandidate{
			Venue:       fmt.Sprintf("complex %d-hop: %s", len(seq)-1, strings.Join(seq, " -> ")),
			AmountOut:   amount,
			GasEstimate: uint64(len(seq)) * s.cfg.GasPerLongHop,
		})
	}
	return routes
}

func (s *ComplexRouteSynthesizer) arbitrageRoutes(ctx context.Context, req domain.SwapRequest) []domain.RouteCandidate {
	one := decimal.NewFromInt(1)
	hundred := decimal.NewFromInt(100)

	var routes []domain.RouteCandidate
	for _, arb := range s.arbitrage.Opportunities(ctx) {
		if arb.Token != req.TokenOut.Symbol {
			continue
		}
		bridge, ok := s.bridges.Bridge(arb.Bridge)
		if !ok {
			continue
		}

		gain := req.AmountIn.Mul(one.Add(arb.PriceDifference))
		afterFees := gain.Mul(one.Sub(bridge.FeePercent.Div(hundred)))
		gasCost := decimal.NewFromUint64(bridge.GasCost).Mul(gasToTokenRate)
		out := afterFees.Sub(gasCost)
		if !out.IsPositive() {
			continue
		}

		routes = append(routes, domain.RouteCandidate{
			Venue:       fmt.Sprintf("cross-chain arbitrage: %s -> %s via %s", arb.ChainA, arb.ChainB, bridge.Name),
			AmountOut:   out,
			GasEstimate: bridge.GasCost + s.cfg.SwapGasOverhead,
		})
	}
	return routes
}

// flashLoanScenarios pair a loan provider with the venue sequence the
// borrowed capital would cycle through.
var flashLoanScenarios = []struct {
	provider string
	path     string
}{
	{"Aave Flash Loan", "Uniswap V3 -> Curve -> Balancer"},
	{"dYdX Flash Loan", "SushiSwap -> 1inch -> Uniswap V2"},
}

func (s *ComplexRouteSynthesizer) flashLoanRoutes(req domain.SwapRequest) []domain.RouteCandidate {
	leveraged := req.AmountIn.Mul(s.cfg.FlashLoanLeverage)
	profit := leveraged.Mul(s.cfg.FlashLoanMargin)
	fee := leveraged.Mul(s.cfg.FlashLoanFee)

	out := req.AmountIn.Add(profit.Sub(fee))
	// The loan is repaid within the transaction, so the modeled output
	// never drops below the original input.
	if out.LessThan(req.AmountIn) {
		out = req.AmountIn
	}

	routes := make([]domain.RouteCandidate, 0, len(flashLoanScenarios))
	for _, sc := range flashLoanScenarios {
		routes = append(routes, domain.RouteCandidate{
			Venue:       sc.provider + ": " + sc.path,
			AmountOut:   out,
			GasEstimate: s.cfg.FlashLoanGas,
		})
	}
	return routes
}
