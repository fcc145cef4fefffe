// Package main is the entry point for the peepsweep route-search engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/scr1ptjunk13/peepsweep/business/crosschain"
	"github.com/scr1ptjunk13/peepsweep/business/gas"
	"github.com/scr1ptjunk13/peepsweep/business/routing"
	routingApp "github.com/scr1ptjunk13/peepsweep/business/routing/app"
	routingDI "github.com/scr1ptjunk13/peepsweep/business/routing/di"
	"github.com/scr1ptjunk13/peepsweep/business/routing/domain"
	"github.com/scr1ptjunk13/peepsweep/business/venues"
	"github.com/scr1ptjunk13/peepsweep/internal/apm"
	"github.com/scr1ptjunk13/peepsweep/internal/config"
	"github.com/scr1ptjunk13/peepsweep/internal/health"
	"github.com/scr1ptjunk13/peepsweep/internal/logger"
	"github.com/scr1ptjunk13/peepsweep/internal/metrics"
	"github.com/scr1ptjunk13/peepsweep/internal/monolith"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	// Parse flags
	configPath := flag.String("config", "", "Path to configuration file")
	tokenIn := flag.String("in", "ETH", "Input token symbol for the demo loop")
	tokenOut := flag.String("out", "USDC", "Output token symbol for the demo loop")
	amount := flag.String("amount", "1", "Input amount for the demo loop")
	chain := flag.String("chain", "ethereum", "Chain for the demo loop")
	interval := flag.Duration("interval", 15*time.Second, "Demo loop quote interval")
	once := flag.Bool("once", false, "Quote once and exit")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("peepsweep %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		cancel()
	}()

	demo := demoRequest{
		tokenIn:  *tokenIn,
		tokenOut: *tokenOut,
		amount:   *amount,
		chain:    *chain,
		interval: *interval,
		once:     *once,
	}

	if err := run(ctx, *configPath, demo); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type demoRequest struct {
	tokenIn  string
	tokenOut string
	amount   string
	chain    string
	interval time.Duration
	once     bool
}

func run(ctx context.Context, configPath string, demo demoRequest) error {
	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logLevel := logger.LevelInfo
	switch cfg.App.LogLevel {
	case "debug":
		logLevel = logger.LevelDebug
	case "warn":
		logLevel = logger.LevelWarn
	case "error":
		logLevel = logger.LevelError
	}

	log := logger.New(os.Stderr, logLevel, cfg.App.Name, nil)
	log.Info(ctx, "starting peepsweep route-search engine",
		"version", version,
		"environment", cfg.App.Environment,
	)

	// Initialize observability if enabled
	var traceProvider apm.TraceProvider
	if cfg.Telemetry.Enabled {
		// Set service name env var for OTEL
		if cfg.Telemetry.ServiceName != "" {
			os.Setenv("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
		}
		if cfg.Telemetry.OTLPEndpoint != "" {
			os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
		}

		// Initialize tracing with Zipkin (local dev friendly)
		traceProvider = apm.NewTraceProvider(log, apm.WithProvider(apm.ZipkinProvider, log))
		log.Info(ctx, "tracing initialized", "provider", "zipkin", "endpoint", cfg.Telemetry.OTLPEndpoint)

		// Initialize metrics with Prometheus
		metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.ProviderCfg{
				Provider: metrics.PrometheusProvider,
			}),
		)

		// Start Prometheus metrics server in background
		port := cfg.Telemetry.PrometheusPort
		if port == 0 {
			port = 9090
		}
		go metrics.ServePrometheusMetrics(metrics.WithPort(strconv.Itoa(port)))
		log.Info(ctx, "prometheus metrics server started", "port", port)
	}
	defer func() {
		if traceProvider != nil {
			traceProvider.Stop()
		}
	}()

	// Start health check server on port 8081
	healthServer := health.NewServer(8081, version)
	if err := healthServer.Start(); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
	} else {
		log.Info(ctx, "health server started", "port", 8081)
	}
	defer healthServer.Stop(ctx)

	// Create monolith (application container)
	mono, err := monolith.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create monolith: %w", err)
	}
	defer mono.Close()

	// Define modules in dependency order
	modules := []monolith.Module{
		&gas.Module{},        // Gas oracle, no dependencies
		&crosschain.Module{}, // Bridge directory + arbitrage feed
		&routing.Module{},    // Depends on crosschain and gas
		&venues.Module{},     // Registers adapters into the routing registry
	}

	// Register all module services
	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}

	// Start modules
	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}

	service := routingDI.GetRouteService(mono.Services())
	return runQuoteLoop(ctx, service, demo, log)
}

// runQuoteLoop periodically prices the configured pair and logs the chosen
// routes until the context is cancelled.
func runQuoteLoop(ctx context.Context, service *routingApp.RouteService, demo demoRequest, log *logger.Logger) error {
	req, err := domain.NewSwapRequest(
		domain.NewTokenRef(demo.tokenIn),
		domain.NewTokenRef(demo.tokenOut),
		demo.amount,
		demo.chain,
	)
	if err != nil {
		return fmt.Errorf("invalid demo request: %w", err)
	}

	log.Info(ctx, "all modules started, entering quote loop",
		"pair", req.Pair(), "amount", req.AmountIn.String(), "chain", req.Chain)

	quote := func() {
		resp, err := service.Quote(ctx, req)
		if err != nil {
			log.Warn(ctx, "quote failed", "pair", req.Pair(), "error", err)
			return
		}

		log.Info(ctx, "quote",
			"pair", req.Pair(),
			"amount_out", resp.AmountOut.String(),
			"routes", len(resp.Routes),
			"gas", resp.GasEstimate,
			"gas_price_gwei", resp.GasPriceGwei,
			"took_ms", resp.ResponseTimeMs,
		)
		for _, r := range resp.Routes {
			log.Info(ctx, "route",
				"venue", r.Venue,
				"allocation_pct", r.AllocationPercent.String(),
				"amount_out", r.AmountOut.String(),
				"gas", r.GasEstimate,
			)
		}
	}

	quote()
	if demo.once {
		return nil
	}

	ticker := time.NewTicker(demo.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info(ctx, "shutting down")
			return nil
		case <-ticker.C:
			quote()
		}
	}
}
