// Package di contains dependency injection tokens for the venues context.
package di

import (
	"github.com/scr1ptjunk13/peepsweep/business/venues/infra/sushiswap"
	"github.com/scr1ptjunk13/peepsweep/business/venues/infra/uniswap"
	"github.com/scr1ptjunk13/peepsweep/business/venues/infra/zeroex"
	"github.com/scr1ptjunk13/peepsweep/internal/di"
)

// Private dependency tokens - internal to the venues module. The adapters
// reach other modules only through the routing registry.
var (
	UniswapAdapter   = di.NewToken[*uniswap.Adapter]("venues:uniswapAdapter")
	SushiSwapAdapter = di.NewToken[*sushiswap.Adapter]("venues:sushiswapAdapter")
	ZeroExAdapter    = di.NewToken[*zeroex.Adapter]("venues:zeroexAdapter")
)

// Helper functions for type-safe access
func GetUniswapAdapter(c di.ServiceRegistry) *uniswap.Adapter {
	return di.GetToken(c, UniswapAdapter)
}

func GetSushiSwapAdapter(c di.ServiceRegistry) *sushiswap.Adapter {
	return di.GetToken(c, SushiSwapAdapter)
}

func GetZeroExAdapter(c di.ServiceRegistry) *zeroex.Adapter {
	return di.GetToken(c, ZeroExAdapter)
}
