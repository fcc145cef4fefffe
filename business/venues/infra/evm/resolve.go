// Package evm holds helpers shared by the EVM venue adapters: token
// resolution against the asset registry and base-unit conversion.
package evm

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/scr1ptjunk13/peepsweep/business/routing/domain"
	"github.com/scr1ptjunk13/peepsweep/internal/apperror"
	"github.com/scr1ptjunk13/peepsweep/internal/asset"
)

var zeroAddress common.Address

// ResolveToken maps a swap-request token to the asset the venue trades.
// An explicit address on the request wins and yields an ad-hoc token asset;
// otherwise the symbol is looked up in the registry. Native ETH resolves to
// WETH since quoters only deal in ERC20s.
func ResolveToken(reg *asset.Registry, ref domain.TokenRef, chainID uint64) (*asset.Asset, error) {
	if ref.Address != zeroAddress {
		symbol := ref.Symbol
		if symbol == "" {
			symbol = ref.Address.Hex()
		}
		decimals := ref.Decimals
		if decimals == 0 {
			decimals = 18
		}
		return asset.NewAsset(asset.NewTokenAssetID(chainID, ref.Address), symbol, decimals), nil
	}

	symbol := ref.Symbol
	if symbol == "ETH" {
		symbol = "WETH"
	}

	a, ok := reg.GetBySymbolAndChain(symbol, chainID)
	if !ok || a.IsNative() {
		return nil, apperror.New(apperror.CodeUnknownToken,
			apperror.WithContext(fmt.Sprintf("symbol=%s chainID=%d", ref.Symbol, chainID)))
	}
	return a, nil
}

// CanResolve reports whether a symbol is resolvable on the chain.
func CanResolve(reg *asset.Registry, symbol string, chainID uint64) bool {
	if symbol == "ETH" {
		symbol = "WETH"
	}
	a, ok := reg.GetBySymbolAndChain(symbol, chainID)
	return ok && !a.IsNative()
}

// ToBaseUnits converts a human-readable amount to the asset's smallest
// unit, truncating any dust below one base unit.
func ToBaseUnits(a *asset.Asset, amount decimal.Decimal) *big.Int {
	truncated := amount.Truncate(int32(a.Decimals()))
	amt, err := asset.ParseDecimal(a, truncated)
	if err != nil {
		return new(big.Int)
	}
	return amt.Raw()
}

// FromBaseUnits converts base units back to a human-readable amount.
// Non-positive raw values collapse to zero.
func FromBaseUnits(a *asset.Asset, raw *big.Int) decimal.Decimal {
	if raw == nil || raw.Sign() < 0 {
		return decimal.Zero
	}
	return asset.NewAmount(a, raw).ToDecimal()
}
