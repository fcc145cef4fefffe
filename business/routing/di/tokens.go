// Package di contains dependency injection tokens for the routing context.
package di

import (
	"github.com/scr1ptjunk13/peepsweep/business/routing/app"
	"github.com/scr1ptjunk13/peepsweep/business/routing/domain"
	"github.com/scr1ptjunk13/peepsweep/internal/di"
)

// Public service tokens - exposed to other modules
var (
	RouteService = di.NewToken[*app.RouteService]("routing.RouteService")
	Registry     = di.NewToken[*app.Registry]("routing.Registry")
)

// Private dependency tokens - internal to the routing module
var (
	TokenGraph     = di.NewToken[*domain.TokenGraph]("routing:tokenGraph")
	RateOracle     = di.NewToken[app.RateOracle]("routing:rateOracle")
	MultiHopRouter = di.NewToken[*app.MultiHopRouter]("routing:multiHopRouter")
	Synthesizer    = di.NewToken[*app.ComplexRouteSynthesizer]("routing:synthesizer")
	Orchestrator   = di.NewToken[*app.Orchestrator]("routing:orchestrator")
)

// Helper functions for type-safe access
func GetRouteService(c di.ServiceRegistry) *app.RouteService {
	return di.GetToken(c, RouteService)
}

func GetRegistry(c di.ServiceRegistry) *app.Registry {
	return di.GetToken(c, Registry)
}

func GetTokenGraph(c di.ServiceRegistry) *domain.TokenGraph {
	return di.GetToken(c, TokenGraph)
}

func GetOrchestrator(c di.ServiceRegistry) *app.Orchestrator {
	return di.GetToken(c, Orchestrator)
}
