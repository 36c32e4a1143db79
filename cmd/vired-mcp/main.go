package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	mcpadapter "vired/internal/adapters/mcp"
	"vired/internal/bootstrap"
	"vired/internal/config"
	"vired/internal/logging"
	"vired/internal/metrics"
)

func main() {
	configFlag := flag.String("config", "", "path to the config file")
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("vired-mcp: %v", err)
	}

	// stdout carries the protocol
	if cfg.Log.OutputPath == "stdout" {
		cfg.Log.OutputPath = "stderr"
	}
	if err := logging.Init(cfg.Log); err != nil {
		log.Fatalf("vired-mcp: %v", err)
	}
	defer logging.Sync()

	rt := bootstrap.New(cfg, bootstrap.Options{})
	defer rt.Close()

	if cfg.MetricsAddr != "" {
		srv := serveMetrics(cfg.MetricsAddr)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
	}

	mcpServer := server.NewMCPServer(
		"vired-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, rt.Sessions, rt.Trash)
	mcpadapter.RegisterWriteTools(mcpServer, rt.Sessions, rt.Trash)

	if err := server.ServeStdio(mcpServer); err != nil {
		logging.Error("server stopped", zap.Error(err))
		log.Fatalf("vired-mcp: %v", err)
	}
}

func serveMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("metrics server stopped", zap.String("addr", addr), zap.Error(err))
		}
	}()
	logging.Info("serving metrics", zap.String("addr", addr))
	return srv
}
