// Package app contains port definitions for the gas context.
package app

import (
	"context"

	"github.com/scr1ptjunk13/peepsweep/business/gas/domain"
)

// Oracle supplies current gas prices and transaction-level estimates.
type Oracle interface {
	// GasPrice returns the current suggested gas price, cached for about
	// one block.
	GasPrice(ctx context.Context) (*domain.GasPrice, error)

	// EstimateGas estimates the gas limit for a call against a contract.
	EstimateGas(ctx context.Context, data []byte, to string) (uint64, error)

	// Estimate combines price and limit into a full cost estimate.
	Estimate(ctx context.Context, data []byte, to string) (*domain.GasEstimate, error)
}
