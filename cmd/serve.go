package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpgo "github.com/mark3labs/mcp-go/server"

	"github.com/donna-ai/donna/internal/config"
	"github.com/donna-ai/donna/internal/google"
	"github.com/donna-ai/donna/internal/instrumentation"
	"github.com/donna-ai/donna/internal/logging"
	"github.com/donna-ai/donna/internal/mcpserver"
	"github.com/donna-ai/donna/internal/review"
	"github.com/donna-ai/donna/internal/tools"
)

func newServeCmd() *cobra.Command {
	var (
		yolo        bool
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server over stdio, exposing the
assistant's calendar and email tools to AI clients. No LLM API key is
needed; the connected client brings its own model.

Safety Mode:
  By default there is no reviewer attached, so sensitive actions
  (sending email, changing calendar events) are rejected with
  instructions to restart with --yolo. Read operations are always
  available. Use --yolo to approve sensitive actions automatically.

Metrics:
  --metrics-addr (or METRICS_ADDR) serves Prometheus metrics and a
  health probe on a dedicated port, e.g. :9090. Metrics cover tool
  invocations, review verdicts, Google API calls, and token refreshes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runServe(cfg, yolo, metricsAddr)
		},
	}

	cmd.Flags().BoolVar(&yolo, "yolo", false, "Approve sensitive actions without review (default: reject them)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Address for the Prometheus metrics endpoint (empty: disabled)")

	return cmd
}

func runServe(cfg *config.Config, yolo bool, metricsAddr string) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Stdout belongs to the MCP protocol; all logging goes to stderr.
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if metricsAddr == "" {
		metricsAddr = os.Getenv("METRICS_ADDR")
	}

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Error("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	if metricsAddr != "" && provider.Enabled() {
		metricsServer, err := mcpserver.NewMetricsServer(mcpserver.MetricsServerConfig{
			Addr:     metricsAddr,
			Provider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		// Use ready channel to confirm the metrics server started
		metricsReady := make(chan struct{})
		metricsErr := make(chan error, 1)
		go func() {
			if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && err != http.ErrServerClosed {
				metricsErr <- err
			}
			close(metricsErr)
		}()

		select {
		case <-metricsReady:
		case err := <-metricsErr:
			return fmt.Errorf("metrics server failed to start: %w", err)
		case <-time.After(5 * time.Second):
			return fmt.Errorf("metrics server startup timed out")
		}

		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(ctx); err != nil {
				logger.Error("metrics server shutdown failed", logging.Err(err))
			}
		}()
	}

	oauthConf := google.NewOAuthConfig(cfg.Google.ClientID, cfg.Google.ClientSecret)
	var tokens google.TokenProvider = google.NewFileTokenProvider(oauthConf)
	if provider.Enabled() {
		tokens = &google.ObservedTokenProvider{Inner: tokens, Metrics: provider.Metrics()}
	}
	if !tokens.HasToken() {
		logger.Warn("no Google OAuth token cached; tool calls will fail until donna auth is run")
	}

	runner := tools.NewRunner(
		tools.NewLazyCalendar(shutdownCtx, tokens),
		tools.NewLazyMail(shutdownCtx, tokens),
		cfg.Location(),
	)

	gateOpts := []review.Option{review.WithLogger(logger)}
	if provider.Enabled() {
		gateOpts = append(gateOpts, review.WithInstrumentation(review.Instrumentation{
			Metrics:   provider.Metrics(),
			Audit:     instrumentation.NewAuditLoggerWithConfig(nil, instrConfig.AuditLogging),
			UserEmail: cfg.User.Email,
		}))
	}
	gate := review.NewGate(mcpserver.NewPolicyReviewer(yolo, logger), runner, gateOpts...)

	if yolo {
		logger.Warn("sensitive actions will be approved without review (--yolo)")
	} else {
		logger.Info("sensitive actions will be rejected; restart with --yolo to allow them")
	}

	return runStdioServer(mcpserver.New(gate, version))
}

func runStdioServer(srv *mcpgo.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpgo.ServeStdio(srv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}
