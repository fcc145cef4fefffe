package evm_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/scr1ptjunk13/peepsweep/business/routing/domain"
	"github.com/scr1ptjunk13/peepsweep/business/venues/infra/evm"
	"github.com/scr1ptjunk13/peepsweep/internal/apperror"
	"github.com/scr1ptjunk13/peepsweep/internal/asset"
)

func TestResolveToken_NativeMapsToWrapped(t *testing.T) {
	reg := asset.DefaultRegistry()

	a, err := evm.ResolveToken(reg, domain.NewTokenRef("ETH"), asset.ChainIDEthereum)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Address() != asset.AddrWETHEthereum {
		t.Errorf("address = %s, want WETH", a.Address().Hex())
	}
	if a.Decimals() != 18 {
		t.Errorf("decimals = %d, want 18", a.Decimals())
	}
}

func TestResolveToken_SymbolLookup(t *testing.T) {
	reg := asset.DefaultRegistry()

	a, err := evm.ResolveToken(reg, domain.NewTokenRef("USDC"), asset.ChainIDEthereum)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Address() != asset.AddrUSDCEthereum {
		t.Errorf("address = %s, want USDC", a.Address().Hex())
	}
	if a.Decimals() != 6 {
		t.Errorf("decimals = %d, want 6", a.Decimals())
	}
}

func TestResolveToken_AddressHintWins(t *testing.T) {
	reg := asset.DefaultRegistry()
	hint := common.HexToAddress("0x1111111111111111111111111111111111111111")

	a, err := evm.ResolveToken(reg, domain.TokenRef{
		Symbol: "USDC", Address: hint, Decimals: 8,
	}, asset.ChainIDEthereum)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Address() != hint {
		t.Errorf("address = %s, want the hint", a.Address().Hex())
	}
	if a.Decimals() != 8 {
		t.Errorf("decimals = %d, want 8", a.Decimals())
	}
}

func TestResolveToken_Unknown(t *testing.T) {
	reg := asset.DefaultRegistry()

	_, err := evm.ResolveToken(reg, domain.NewTokenRef("NOPE"), asset.ChainIDEthereum)
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperror.CodeUnknownToken {
		t.Errorf("got %v, want %s", err, apperror.CodeUnknownToken)
	}
}

func TestBaseUnitConversion(t *testing.T) {
	in := decimal.RequireFromString("1.5")

	base := evm.ToBaseUnits(asset.USDC, in)
	if base.Cmp(big.NewInt(1_500_000)) != 0 {
		t.Errorf("base units = %s, want 1500000", base)
	}

	back := evm.FromBaseUnits(asset.USDC, base)
	if !back.Equal(in) {
		t.Errorf("round trip = %s, want 1.5", back)
	}

	// Dust below one base unit truncates.
	dusty := evm.ToBaseUnits(asset.USDC, decimal.RequireFromString("0.0000019"))
	if dusty.Cmp(big.NewInt(1)) != 0 {
		t.Errorf("dusty = %s, want 1", dusty)
	}

	if got := evm.FromBaseUnits(asset.USDC, big.NewInt(-5)); !got.IsZero() {
		t.Errorf("negative raw = %s, want 0", got)
	}
}
