package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bpopineau/gspace/internal/instrumentation"
	"github.com/bpopineau/gspace/internal/logging"
	"github.com/bpopineau/gspace/internal/server"
	"github.com/bpopineau/gspace/internal/tools"
	"github.com/bpopineau/gspace/internal/workspace"
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
Drive, Sheets, Docs, Calendar, Tasks, Gmail and Contacts operations as
tools for AI assistants.

Safety Mode:
  By default, the server operates in read-only mode, providing only safe
  operations. Use --yolo to enable write operations (email sending,
  event deletion, etc.)

Metrics:
  With --metrics-addr set, a separate HTTP listener serves Prometheus
  metrics on /metrics plus /healthz and /readyz probes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(!yolo, metricsAddr)
		},
	}

	cmd.Flags().BoolVar(&yolo, "yolo", false, "Enable write operations (email sending, event deletion, etc.). Default is read-only mode.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Address for the Prometheus metrics listener (e.g. :9090). Disabled when empty.")
	return cmd
}

func runServe(readOnly bool, metricsAddr string) error {
	shutdownCtx, cancel := runContext()
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// stdout carries the MCP protocol, so everything else goes to stderr.
	logger := logging.Setup(os.Stderr, logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	if metricsAddr == "" {
		instrConfig.MetricsExporter = instrumentation.ExporterNone
	}

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Warn("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	var metricsServer *server.MetricsServer
	if metricsAddr != "" && provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(metricsAddr, provider)
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
		go func() {
			if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server stopped", logging.Err(err))
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(ctx); err != nil {
				logger.Warn("metrics server shutdown failed", logging.Err(err))
			}
		}()
	}

	ws := workspace.New(cfg, logger, provider.Metrics())

	mcpSrv := mcpserver.NewMCPServer("gspace", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithToolHandlerMiddleware(tools.MetricsMiddleware(provider.Metrics())),
	)

	if readOnly {
		logger.Info("starting server in read-only mode (use --yolo to enable write operations)")
	} else {
		logger.Info("starting server with write operations enabled")
	}

	if err := tools.RegisterAll(mcpSrv, ws, readOnly); err != nil {
		return err
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	select {
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("server stopped with error: %w", err)
		}
		return nil
	case <-shutdownCtx.Done():
		return nil
	}
}
