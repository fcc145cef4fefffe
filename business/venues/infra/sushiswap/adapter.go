// Package sushiswap adapts the SushiSwap V2 router to the routing venue
// port using getAmountsOut, which prices against the live pair reserves.
package sushiswap

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
	venueName  = "SushiSwap"
	tracerName = "sushiswap"
	meterName  = "sushiswap"

	// swapGasEstimate is the typical gas for a single-pair V2 swap. The
	// router view call does not report gas, unlike QuoterV2.
	swapGasEstimate = 120_000
)

// RouterABI covers getAmountsOut on the UniswapV2-style router.
const RouterABI = `[
	{
		"inputs": [
			{"internalType": "uint256", "name": "amountIn", "type": "uint256"},
			{"internalType": "address[]", "name": "path", "type": "address[]"}
		],
		"name": "getAmountsOut",
		"outputs": [
			{"internalType": "uint256[]", "name": "amounts", "type": "uint256[]"}
		],
		"stateMutability": "view",
		"type": "function"
	}
]`

// Ensure Adapter implements the venue port.
var _ app.VenueAdapter = (*Adapter)(nil)

// Adapter quotes swaps against the SushiSwap router on Ethereum mainnet.
type Adapter struct {
	client    *ethclient.Client
	router    common.Address
	routerABI abi.ABI

	registry *asset.Registry
	logger   logger.LoggerInterface
	cb       *circuitbreaker.CircuitBreaker[[]byte]

	tracer      trace.Tracer
	quotesTotal metric.Int64Counter
	quoteErrors metric.Int64Counter
}

// NewAdapter creates a SushiSwap venue adapter.
func NewAdapter(client *ethclient.Client, cfg config.SushiSwapConfig, registry *asset.Registry, log logger.LoggerInterface) (*Adapter, error) {
	parsedABI, err := abi.JSON(strings.NewReader(RouterABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse router ABI: %w", err)
	}

	a := &Adapter{
		client:    client,
		router:    cfg.RouterAddressHex(),
		routerABI: parsedABI,
		registry:  registry,
		logger:    log,
		cb:        circuitbreaker.New[[]byte](circuitbreaker.DefaultConfig("sushiswap-router")),
		tracer:    otel.Tracer(tracerName),
	}

	meter := otel.Meter(meterName)
	if a.quotesTotal, err = meter.Int64Counter(
		"sushiswap_quotes_total",
		metric.WithDescription("Total quote requests"),
	); err != nil {
		return nil, err
	}
	if a.quoteErrors, err = meter.Int64Counter(
		"sushiswap_quote_errors_total",
		metric.WithDescription("Total quote errors"),
	); err != nil {
		return nil, err
	}

	return a, nil
}

// Name implements app.VenueAdapter.
func (a *Adapter) Name() string {
	return venueName
}

// SupportedChains implements app.VenueAdapter.
func (a *Adapter) SupportedChains() []string {
	return []string{"ethereum"}
}

// IsPairSupported implements app.VenueAdapter.
func (a *Adapter) IsPairSupported(ctx context.Context, tokenIn, tokenOut, chain string) bool {
	chainID, ok := asset.ChainIDByName(chain)
	if !ok {
		return false
	}
	return evm.CanResolve(a.registry, tokenIn, chainID) && evm.CanResolve(a.registry, tokenOut, chainID)
}

// Quote implements app.VenueAdapter.
func (a *Adapter) Quote(ctx context.Context, req domain.SwapRequest) (domain.RouteCandidate, error) {
	ctx, span := a.tracer.Start(ctx, "sushiswap.quote",
		trace.WithAttributes(
			attribute.String("pair", req.Pair()),
			attribute.String("amount_in", req.AmountIn.String()),
		),
	)
	defer span.End()

	a.quotesTotal.Add(ctx, 1)
	start := time.Now()

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

	amounts, err := a.getAmountsOut(ctx, evm.ToBaseUnits(assetIn, req.AmountIn),
		[]common.Address{assetIn.Address(), assetOut.Address()})
	if err != nil {
		a.quoteErrors.Add(ctx, 1)
		span.SetStatus(codes.Error, err.Error())
		return domain.RouteCandidate{}, err
	}

	amountOut := amounts[len(amounts)-1]
	if amountOut.Sign() <= 0 {
		a.quoteErrors.Add(ctx, 1)
		span.SetStatus(codes.Error, "zero output")
		return domain.RouteCandidate{}, apperror.New(apperror.CodeInsufficientLiquidity,
			apperror.WithContext("pair "+req.Pair()))
	}

	span.SetAttributes(attribute.String("amount_out", amountOut.String()))
	span.SetStatus(codes.Ok, "quote received")

	a.logger.Debug(ctx, "sushiswap quote",
		"pair", req.Pair(),
		"amount_out", amountOut.String(),
		"latency_ms", time.Since(start).Milliseconds(),
	)

	return domain.RouteCandidate{
		Venue:       venueName,
		AmountOut:   evm.FromBaseUnits(assetOut, amountOut),
		GasEstimate: swapGasEstimate,
	}, nil
}

func (a *Adapter) getAmountsOut(ctx context.Context, amountIn *big.Int, path []common.Address) ([]*big.Int, error) {
	callData, err := a.routerABI.Pack("getAmountsOut", amountIn, path)
	if err != nil {
		return nil, fmt.Errorf("failed to encode call: %w", err)
	}

	result, err := a.cb.Execute(func() ([]byte, error) {
		return a.client.CallContract(ctx, ethereum.CallMsg{
			To:   &a.router,
			Data: callData,
		}, nil)
	})
	if err != nil {
		return nil, apperror.New(apperror.CodeContractCallFailed,
			apperror.WithCause(err),
			apperror.WithContext("getAmountsOut"))
	}

	outputs, err := a.routerABI.Unpack("getAmountsOut", result)
	if err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}

	amounts, ok := outputs[0].([]*big.Int)
	if !ok || len(amounts) < 2 {
		return nil, fmt.Errorf("unexpected getAmountsOut output")
	}
	return amounts, nil
}
