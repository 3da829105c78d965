package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pulsedns/pulse-dns/internal/dns/common/log"
	"github.com/pulsedns/pulse-dns/internal/dns/common/metrics"
	"github.com/pulsedns/pulse-dns/internal/dns/config"
	"github.com/pulsedns/pulse-dns/internal/dns/gateways/probe"
	"github.com/pulsedns/pulse-dns/internal/dns/gateways/transport"
	"github.com/pulsedns/pulse-dns/internal/dns/gateways/wire"
	"github.com/pulsedns/pulse-dns/internal/dns/repos/zonestore"
	"github.com/pulsedns/pulse-dns/internal/dns/services/responder"
	"github.com/pulsedns/pulse-dns/internal/dns/services/updater"
)

const (
	// Version information
	version = "0.1.0-dev"
	appName = "pulse-dnsd"

	defaultShutdownTimeout = 10 * time.Second
)

// Application holds all the components of the DNS server
type Application struct {
	config    *config.AppConfig
	transport *transport.UDPTransport
	responder *responder.QueryResponder
	engine    *updater.Engine
	runner    *updater.Runner
	metrics   *http.Server
}

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Configure global logging
	err = log.Configure(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logging configuration error: %v\n", err)
		os.Exit(1)
	}

	log.Info(map[string]any{
		"version":   version,
		"env":       cfg.Env,
		"log_level": cfg.LogLevel,
		"port":      cfg.Port,
		"zone":      cfg.Zone,
		"signed":    cfg.DNSSECKeyFile != "",
	}, "Starting pulse-dns server")

	// Build application with all dependencies
	app, err := buildApplication(cfg)
	if err != nil {
		log.Fatal(map[string]any{"error": err}, "Failed to build application")
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info(map[string]any{"signal": sig.String()}, "Shutdown signal received")
		cancel()
	}()

	// Start the DNS server
	if err := app.Run(ctx); err != nil {
		log.Fatal(map[string]any{"error": err}, "Server failed")
	}

	log.Info(nil, "pulse-dns server stopped gracefully")
}

// buildApplication constructs all components and wires them together
func buildApplication(cfg *config.AppConfig) (*Application, error) {
	// Initialize logger (already configured globally)
	logger := log.GetLogger()

	// Materialize domain objects from the raw configuration
	server, err := cfg.Materialize()
	if err != nil {
		return nil, fmt.Errorf("failed to materialize config: %w", err)
	}

	// Zone store: the single source every query is answered from
	store := zonestore.New(server.Origins.Primary())

	// Health prober
	prober := probe.NewTCPProber(probe.Options{
		Timeout: server.ProbeTimeout,
	})

	// Zone engine and its refresh loop
	engine, err := updater.New(updater.Options{
		Origins:      server.Origins,
		NameServers:  server.NameServers,
		Sets:         server.Sets,
		Prober:       prober,
		Zone:         store,
		Key:          server.Key,
		MinInterval:  server.MinInterval,
		ProbeTimeout: server.ProbeTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create zone engine: %w", err)
	}

	log.Info(map[string]any{
		"interval":     engine.Interval().String(),
		"name_servers": server.NameServers,
		"subdomains":   len(server.Sets),
	}, "Zone engine configured")

	// Query responder
	responderService, err := responder.New(responder.Options{
		Origins: server.Origins,
		Zone:    store,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create responder: %w", err)
	}

	// Transport layer
	addr := fmt.Sprintf(":%d", cfg.Port)
	codec := wire.NewUDPCodec(logger)
	udpTransport := transport.NewUDPTransport(addr, codec, logger)

	// Optional Prometheus endpoint
	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		metricsServer = &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
	}

	return &Application{
		config:    cfg,
		transport: udpTransport,
		responder: responderService,
		engine:    engine,
		runner:    updater.NewRunner(engine),
		metrics:   metricsServer,
	}, nil
}

// Run starts the DNS server and blocks until context is cancelled
func (app *Application) Run(ctx context.Context) error {
	// Publish the first zone generation before accepting queries, so the
	// server never answers from an empty zone.
	if err := app.engine.Initialize(); err != nil {
		return fmt.Errorf("failed to build initial zone: %w", err)
	}

	// Start the refresh loop
	runnerDone := make(chan struct{})
	go func() {
		defer close(runnerDone)
		app.runner.Run(ctx)
	}()

	// Start UDP transport
	if err := app.transport.Start(ctx, app.responder); err != nil {
		return fmt.Errorf("failed to start UDP transport: %w", err)
	}

	// Start metrics endpoint
	if app.metrics != nil {
		go func() {
			log.Info(map[string]any{"address": app.metrics.Addr}, "Metrics endpoint started")
			if err := app.metrics.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error(map[string]any{"error": err.Error()}, "Metrics endpoint failed")
			}
		}()
	}

	log.Info(map[string]any{
		"address":   app.transport.Address(),
		"transport": "UDP",
	}, "DNS server started")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info(nil, "Shutdown initiated")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	// Stop transport gracefully
	if err := app.transport.Stop(); err != nil {
		log.Warn(map[string]any{"error": err}, "Error during transport shutdown")
	}

	if app.metrics != nil {
		if err := app.metrics.Shutdown(shutdownCtx); err != nil {
			log.Warn(map[string]any{"error": err}, "Error during metrics shutdown")
		}
	}

	// Wait for the refresh loop to wind down or time out
	select {
	case <-runnerDone:
		log.Info(nil, "Graceful shutdown completed")
		return nil
	case <-shutdownCtx.Done():
		log.Warn(map[string]any{"timeout": defaultShutdownTimeout}, "Shutdown timeout exceeded")
		return fmt.Errorf("shutdown timeout")
	}
}
