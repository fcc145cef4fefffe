package rates_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/scr1ptjunk13/peepsweep/business/routing/infra/rates"
)

func TestStaticOracle_SeededPairs(t *testing.T) {
	o := rates.NewStaticOracle()
	ctx := context.Background()

	r, ok := o.Rate(ctx, "ETH", "USDC")
	if !ok || !r.Equal(decimal.NewFromInt(3400)) {
		t.Errorf("ETH/USDC = %s (%t), want 3400", r, ok)
	}

	// The inverse is registered automatically; fixed-point inversion loses
	// only sub-wei precision, so the round trip stays within dust.
	inv, ok := o.Rate(ctx, "USDC", "ETH")
	if !ok {
		t.Fatal("USDC/ETH missing")
	}
	drift := inv.Mul(decimal.NewFromInt(3400)).Sub(decimal.NewFromInt(1)).Abs()
	if drift.GreaterThan(decimal.New(1, -12)) {
		t.Errorf("USDC/ETH = %s, round trip drift %s", inv, drift)
	}

	// Stablecoin legs both carry the peg spread, neither is an inverse.
	fwd, _ := o.Rate(ctx, "USDC", "USDT")
	back, _ := o.Rate(ctx, "USDT", "USDC")
	if !fwd.Equal(back) || !fwd.Equal(decimal.NewFromFloat(0.9999)) {
		t.Errorf("stable legs = %s/%s, want 0.9999 both ways", fwd, back)
	}

	if _, ok := o.Rate(ctx, "ETH", "SHIB"); ok {
		t.Error("unexpected rate for an unseeded pair")
	}
}

func TestStaticOracle_SetRateOverrides(t *testing.T) {
	o := rates.NewStaticOracle()
	ctx := context.Background()

	o.SetRate("ETH", "USDC", decimal.NewFromInt(4000))

	r, _ := o.Rate(ctx, "ETH", "USDC")
	if !r.Equal(decimal.NewFromInt(4000)) {
		t.Errorf("ETH/USDC = %s, want 4000 after override", r)
	}
	inv, _ := o.Rate(ctx, "USDC", "ETH")
	if !inv.Equal(decimal.RequireFromString("0.00025")) {
		t.Errorf("USDC/ETH = %s, want refreshed inverse 0.00025", inv)
	}
}

func TestStaticOracle_UnknownSymbolRegisters(t *testing.T) {
	o := rates.NewStaticOracle()
	ctx := context.Background()

	o.SetRate("TOKX", "USDC", decimal.NewFromInt(2))

	r, ok := o.Rate(ctx, "TOKX", "USDC")
	if !ok || !r.Equal(decimal.NewFromInt(2)) {
		t.Errorf("TOKX/USDC = %s (%t), want 2", r, ok)
	}
	inv, ok := o.Rate(ctx, "USDC", "TOKX")
	if !ok || !inv.Equal(decimal.RequireFromString("0.5")) {
		t.Errorf("USDC/TOKX = %s (%t), want 0.5", inv, ok)
	}
}
