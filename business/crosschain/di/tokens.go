// Package di contains dependency injection tokens for the crosschain context.
package di

import (
	"github.com/scr1ptjunk13/peepsweep/business/crosschain/app"
	"github.com/scr1ptjunk13/peepsweep/business/crosschain/infra/bridges"
	"github.com/scr1ptjunk13/peepsweep/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Detector        = di.NewToken[*app.Detector]("crosschain.Detector")
	BridgeDirectory = di.NewToken[*bridges.Directory]("crosschain.BridgeDirectory")
)

// Private dependency tokens - internal to the crosschain module
var (
	OpportunityFeed = di.NewToken[app.OpportunityFeed]("crosschain:opportunityFeed")
)

// Helper functions for type-safe access
func GetDetector(c di.ServiceRegistry) *app.Detector {
	return di.GetToken(c, Detector)
}

func GetBridgeDirectory(c di.ServiceRegistry) *bridges.Directory {
	return di.GetToken(c, BridgeDirectory)
}

func GetOpportunityFeed(c di.ServiceRegistry) app.OpportunityFeed {
	return di.GetToken(c, OpportunityFeed)
}
