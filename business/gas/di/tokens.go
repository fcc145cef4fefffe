// Package di contains dependency injection tokens for the gas context.
package di

import (
	"github.com/scr1ptjunk13/peepsweep/business/gas/infra/ethereum"
	"github.com/scr1ptjunk13/peepsweep/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Oracle = di.NewToken[*ethereum.Oracle]("gas.Oracle")
)

// Helper functions for type-safe access
func GetOracle(c di.ServiceRegistry) *ethereum.Oracle {
	return di.GetToken(c, Oracle)
}
