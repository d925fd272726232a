package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bcnelson/dhcp-fleet-manager/internal/api"
	"github.com/bcnelson/dhcp-fleet-manager/internal/config"
	"github.com/bcnelson/dhcp-fleet-manager/internal/nodeapi"
	"github.com/bcnelson/dhcp-fleet-manager/internal/service"
	"github.com/bcnelson/dhcp-fleet-manager/internal/storage/sql"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Create data directory if needed (for SQLite)
	if cfg.Database.Driver == "sqlite3" {
		if dir := filepath.Dir(cfg.Database.DSN); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				log.Fatalf("Failed to create data directory: %v", err)
			}
		}
	}

	// Initialize snapshot storage
	store, err := sql.New(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	// Build the node registry (real HTTP clients, or in-memory shims)
	registry := nodeapi.NewRegistry()
	if cfg.UseShim() {
		log.Printf("Using in-memory shim nodes: %v", cfg.Nodes.ShimNodes)
		for _, id := range cfg.Nodes.ShimNodes {
			registry.Register(nodeapi.NodeInfo{ID: id, Name: id}, nodeapi.NewFake(id))
		}
	} else {
		nodes, err := cfg.Nodes.FleetNodes()
		if err != nil {
			log.Fatalf("Failed to parse fleet nodes: %v", err)
		}
		for _, n := range nodes {
			name := n.Name
			if name == "" {
				name = n.ID
			}
			registry.Register(
				nodeapi.NodeInfo{ID: n.ID, Name: name, BaseURL: n.BaseURL},
				nodeapi.NewHTTPClient(n.ID, n.BaseURL, n.Token, cfg.Nodes.Timeout),
			)
		}
	}

	// Initialize the orchestrator
	orchestrator := service.NewOrchestrator(store, registry)

	// Create router
	router := api.NewRouter(orchestrator, cfg.API.Token)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Starting DHCP Fleet Manager on http://%s", cfg.Server.Addr())
	log.Printf("Press Ctrl+C to stop")

	// Start server in goroutine
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
