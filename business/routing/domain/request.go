// Package domain contains the core domain types for the routing context.
package domain

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/scr1ptjunk13/peepsweep/internal/apperror"
)

// TokenRef identifies one side of a swap. Symbol is required; address and
// decimals are optional hints for on-chain adapters.
type TokenRef struct {
	Symbol   string
	Address  common.Address
	Decimals uint8
}

// NewTokenRef creates a TokenRef with just a symbol.
func NewTokenRef(symbol string) TokenRef {
	return TokenRef{Symbol: symbol}
}

// SwapRequest describes one quote request. Immutable after construction;
// every tier reads it, none mutates it.
type SwapRequest struct {
	TokenIn     TokenRef
	TokenOut    TokenRef
	AmountIn    decimal.Decimal
	Chain       string
	SlippageBps int // optional, 0 = caller default
}

// NewSwapRequest parses the human-readable amount and builds a request.
func NewSwapRequest(tokenIn, tokenOut TokenRef, amountIn, chain string) (SwapRequest, error) {
	amount, err := decimal.NewFromString(amountIn)
	if err != nil {
		return SwapRequest{}, apperror.New(apperror.CodeInvalidAmount,
			apperror.WithContext(fmt.Sprintf("amountIn=%q", amountIn)),
			apperror.WithCause(err))
	}

	req := SwapRequest{
		TokenIn:  tokenIn,
		TokenOut: tokenOut,
		AmountIn: amount,
		Chain:    chain,
	}
	if err := req.Validate(); err != nil {
		return SwapRequest{}, err
	}
	return req, nil
}

// Validate checks the request's structural invariants.
func (r SwapRequest) Validate() error {
	if strings.TrimSpace(r.TokenIn.Symbol) == "" {
		return apperror.New(apperror.CodeRequiredField, apperror.WithContext("tokenIn.symbol"))
	}
	if strings.TrimSpace(r.TokenOut.Symbol) == "" {
		return apperror.New(apperror.CodeRequiredField, apperror.WithContext("tokenOut.symbol"))
	}
	if strings.TrimSpace(r.Chain) == "" {
		return apperror.New(apperror.CodeRequiredField, apperror.WithContext("chain"))
	}
	if !r.AmountIn.IsPositive() {
		return apperror.New(apperror.CodeInvalidAmount,
			apperror.WithContext(fmt.Sprintf("amountIn=%s", r.AmountIn)))
	}
	return nil
}

// CacheKey returns the quote-cache key for this request.
func (r SwapRequest) CacheKey() string {
	return fmt.Sprintf("%s:%s:%s:%s", r.TokenIn.Symbol, r.TokenOut.Symbol, r.AmountIn.String(), r.Chain)
}

// Pair returns a "IN->OUT" label for logging.
func (r SwapRequest) Pair() string {
	return r.TokenIn.Symbol + "->" + r.TokenOut.Symbol
}
