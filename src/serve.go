package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/newrelic/infra-integrations-sdk/v3/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/coltonspears/McpServer/src/args"
	"github.com/coltonspears/McpServer/src/httpapi"
	"github.com/coltonspears/McpServer/src/monitor"
	"github.com/coltonspears/McpServer/src/telemetry"
	"github.com/coltonspears/McpServer/src/tools"
)

const (
	mcpPath         = "/mcp"
	shutdownTimeout = 10 * time.Second
)

// newServeMux mounts the HTTP API, health and metrics endpoints.
// mcpServer is mounted on /mcp when it is not nil.
func newServeMux(m monitor.Monitor, pinger httpapi.Pinger, reg *prometheus.Registry, metrics *telemetry.Metrics, mcpServer *mcp.Server) *http.ServeMux {
	mux := http.NewServeMux()
	httpapi.RegisterRoutes(mux, m, metrics)
	httpapi.RegisterHealth(mux, pinger)
	mux.Handle("GET /metrics", telemetry.Handler(reg))

	if mcpServer != nil {
		h := tools.HTTPHandler(mcpServer)
		mux.Handle(mcpPath, h)
		mux.Handle(mcpPath+"/", h)
	}
	return mux
}

// serve runs the HTTP API and the MCP server until ctx is done.
// With the stdio transport the end of the MCP session also stops the server.
func serve(ctx context.Context, al *args.ArgumentList, pinger httpapi.Pinger, m monitor.Monitor) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	transport := al.McpTransport
	if transport == args.TransportStdio && !stdioAvailable(os.Stdin) {
		log.Warn("Standard input is closed or /dev/null, MCP over stdio is disabled")
		transport = args.TransportNone
	}

	reg := telemetry.NewRegistry()
	metrics := telemetry.NewMetrics(reg)

	var mcpServer *mcp.Server
	if transport != args.TransportNone {
		mcpServer = tools.NewServer(m, metrics, integrationVersion)
	}

	var httpMCP *mcp.Server
	if transport == args.TransportHTTP {
		httpMCP = mcpServer
	}

	srv := &http.Server{
		Addr:              al.ListenAddress,
		Handler:           httpapi.Wrap(newServeMux(m, pinger, reg, metrics, httpMCP)),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	if transport == args.TransportStdio {
		go func() {
			defer cancel()
			log.Info("MCP server running on stdio")
			if err := mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("MCP stdio session ended: %s", err.Error())
			}
		}()
	}

	var err error
	select {
	case <-ctx.Done():
	case err = <-serveErr:
	}

	log.Info("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Warn("HTTP shutdown error: %s", shutdownErr.Error())
	}
	return err
}

// stdioAvailable reports whether stdin can carry an MCP session: it must be open and not /dev/null
func stdioAvailable(stdin *os.File) bool {
	info, err := stdin.Stat()
	if err != nil {
		return false
	}
	devNull, err := os.Stat(os.DevNull)
	if err != nil {
		return true
	}
	return !os.SameFile(info, devNull)
}
