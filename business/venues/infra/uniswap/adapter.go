// Package uniswap adapts the Uniswap V3 QuoterV2 contract to the routing
// venue port. Every quote probes all fee tiers and keeps the best output.
package uniswap

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/scr1ptjunk13/peepsweep/business/routing/app"
	"github.com/scr1ptjunk13/peepsweep/business/routing/domain"
	"github.com/scr1ptjunk13/peepsweep/business/venues/infra/evm"
	"github.com/scr1ptjunk13/peepsweep/internal/apperror"
	"github.com/scr1ptjunk13/peepsweep/internal/asset"
	"github.com/scr1ptjunk13/peepsweep/internal/circuitbreaker"
	"github.com/scr1ptjunk13/peepsweep/internal/config"
	"github.com/scr1ptjunk13/peepsweep/internal/logger"
)

const (
	venueName  = "Uniswap V3"
	tracerName = "uniswap"
	meterName  = "uniswap"
)

// Ensure Adapter implements the venue port.
var _ app.VenueAdapter = (*Adapter)(nil)

// adapterMetrics holds OTEL metric instruments.
type adapterMetrics struct {
	quotesTotal  metric.Int64Counter
	quoteLatency metric.Float64Histogram
	quoteErrors  metric.Int64Counter
}

// Adapter quotes swaps against the QuoterV2 contract on Ethereum mainnet.
type Adapter struct {
	client    *ethclient.Client
	quoter    common.Address
	quoterABI abi.ABI
	feeTiers  []int

	registry *asset.Registry
	logger   logger.LoggerInterface
	cb       *circuitbreaker.CircuitBreaker[[]byte]

	tracer  trace.Tracer
	metrics *adapterMetrics
}

// NewAdapter creates a Uniswap V3 venue adapter.
func NewAdapter(client *ethclient.Client, cfg config.UniswapConfig, registry *asset.Registry, log logger.LoggerInterface) (*Adapter, error) {
	parsedABI, err := abi.JSON(strings.NewReader(QuoterV2ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse quoter ABI: %w", err)
	}

	a := &Adapter{
		client:    client,
		quoter:    cfg.QuoterAddressHex(),
		quoterABI: parsedABI,
		feeTiers:  []int{cfg.DefaultFeeTier, FeeTier005, FeeTier030, FeeTier100},
		registry:  registry,
		logger:    log,
		tracer:    otel.Tracer(tracerName),
	}

	cbCfg := circuitbreaker.DefaultConfig("uniswap-quoter")
	a.cb = circuitbreaker.New[[]byte](cbCfg)

	if err := a.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}

	return a, nil
}

func (a *Adapter) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	a.metrics = &adapterMetrics{}

	a.metrics.quotesTotal, err = meter.Int64Counter(
		"uniswap_quotes_total",
		metric.WithDescription("Total quote requests"),
	)
	if err != nil {
		return err
	}

	a.metrics.quoteLatency, err = meter.Float64Histogram(
		"uniswap_quote_latency_ms",
		metric.WithDescription("Quote request latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	a.metrics.quoteErrors, err = meter.Int64Counter(
		"uniswap_quote_errors_total",
		metric.WithDescription("Total quote errors"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Name implements app.VenueAdapter.
func (a *Adapter) Name() string {
	return venueName
}

// SupportedChains implements app.VenueAdapter. The quoter address is the
// mainnet deployment.
func (a *Adapter) SupportedChains() []string {
	return []string{"ethereum"}
}

// IsPairSupported implements app.VenueAdapter. A pair is quotable when both
// symbols resolve to ERC20 addresses on the chain.
func (a *Adapter) IsPairSupported(ctx context.Context, tokenIn, tokenOut, chain string) bool {
	chainID, ok := asset.ChainIDByName(chain)
	if !ok {
		return false
	}
	return evm.CanResolve(a.registry, tokenIn, chainID) && evm.CanResolve(a.registry, tokenOut, chainID)
}

// Quote implements app.VenueAdapter.
func (a *Adapter) Quote(ctx context.Context, req domain.SwapRequest) (domain.RouteCandidate, error) {
	ctx, span := a.tracer.Start(ctx, "uniswap.quote",
		trace.WithAttributes(
			attribute.String("pair", req.Pair()),
			attribute.String("amount_in", req.AmountIn.String()),
		),
	)
	defer span.End()

	start := time.Now()
	a.metrics.quotesTotal.Add(ctx, 1)

	chainID, ok := asset.ChainIDByName(req.Chain)
	if !ok {
		return domain.RouteCandidate{}, apperror.New(apperror.CodeUnsupportedChain,
			apperror.WithContext("chain="+req.Chain))
	}

	assetIn, err := evm.ResolveToken(a.registry, req.TokenIn, chainID)
	if err != nil {
		return domain.RouteCandidate{}, err
	}
	assetOut, err := evm.ResolveToken(a.registry, req.TokenOut, chainID)
	if err != nil {
		return domain.RouteCandidate{}, err
	}

	amountIn := evm.ToBaseUnits(assetIn, req.AmountIn)

	// Try each fee tier to find the best quote
	var bestQuote *QuoteResult
	var bestFeeTier int

	for _, feeTier := range a.feeTiers {
		quote, err := a.quoteForFeeTier(ctx, assetIn.Address(), assetOut.Address(), amountIn, feeTier)
		if err != nil {
			span.AddEvent("fee_tier_failed",
				trace.WithAttributes(
					attribute.Int("fee_tier", feeTier),
					attribute.String("error", err.Error()),
				),
			)
			continue
		}

		// Keep the best (highest output) quote
		if bestQuote == nil || quote.AmountOut.Cmp(bestQuote.AmountOut) > 0 {
			bestQuote = quote
			bestFeeTier = feeTier
		}
	}

	latency := float64(time.Since(start).Milliseconds())
	a.metrics.quoteLatency.Record(ctx, latency)

	if bestQuote == nil {
		a.metrics.quoteErrors.Add(ctx, 1)
		span.SetStatus(codes.Error, "no valid quote")
		return domain.RouteCandidate{}, apperror.New(apperror.CodeVenueQuoteFailed,
			apperror.WithContext("no pool found for "+req.Pair()))
	}

	span.SetAttributes(
		attribute.String("amount_out", bestQuote.AmountOut.String()),
		attribute.Int("fee_tier", bestFeeTier),
		attribute.Int64("gas_estimate", bestQuote.GasEstimate.Int64()),
	)
	span.SetStatus(codes.Ok, "quote received")

	a.logger.Debug(ctx, "uniswap quote",
		"pair", req.Pair(),
		"amount_in", amountIn.String(),
		"amount_out", bestQuote.AmountOut.String(),
		"fee_tier", bestFeeTier,
	)

	return domain.RouteCandidate{
		Venue:       venueName,
		AmountOut:   evm.FromBaseUnits(assetOut, bestQuote.AmountOut),
		GasEstimate: bestQuote.GasEstimate.Uint64(),
	}, nil
}

// quoteForFeeTier calls QuoterV2.quoteExactInputSingle for a specific fee tier.
func (a *Adapter) quoteForFeeTier(ctx context.Context, tokenIn, tokenOut common.Address, amountIn *big.Int, feeTier int) (*QuoteResult, error) {
	callData, err := a.quoterABI.Pack("quoteExactInputSingle", QuoteExactInputSingleParams{
		TokenIn:           tokenIn,
		TokenOut:          tokenOut,
		AmountIn:          amountIn,
		Fee:               big.NewInt(int64(feeTier)),
		SqrtPriceLimitX96: big.NewInt(0), // No price limit
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode call: %w", err)
	}

	// Execute call through circuit breaker
	result, err := a.cb.Execute(func() ([]byte, error) {
		return a.client.CallContract(ctx, ethereum.CallMsg{
			To:   &a.quoter,
			Data: callData,
		}, nil)
	})
	if err != nil {
		return nil, apperror.New(apperror.CodeContractCallFailed,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("quoter call failed for fee tier %d", feeTier)))
	}

	outputs, err := a.quoterABI.Unpack("quoteExactInputSingle", result)
	if err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}

	if len(outputs) < 4 {
		return nil, fmt.Errorf("unexpected output length: %d", len(outputs))
	}

	return &QuoteResult{
		AmountOut:               outputs[0].(*big.Int),
		SqrtPriceX96After:       outputs[1].(*big.Int),
		InitializedTicksCrossed: outputs[2].(uint32),
		GasEstimate:             outputs[3].(*big.Int),
	}, nil
}
