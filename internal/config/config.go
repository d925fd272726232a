package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v9"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Nodes    NodesConfig
	API      APIConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port int    `env:"SERVER_PORT" envDefault:"8080"`
}

// DatabaseConfig holds snapshot database configuration.
type DatabaseConfig struct {
	Driver string `env:"DB_DRIVER" envDefault:"sqlite3"`
	DSN    string `env:"DB_DSN" envDefault:"data/fleet-manager.db"`
}

// APIConfig holds settings for the manager's own API surface.
type APIConfig struct {
	// Token guards /api/v1 with a static bearer token. Empty disables auth.
	Token string `env:"API_TOKEN"`
}

// NodesConfig defines the DHCP node fleet.
type NodesConfig struct {
	// Fleet is a JSON array of node definitions.
	Fleet string `env:"FLEET_NODES"`
	// FleetFile points at a file holding the same JSON array; FLEET_NODES
	// wins when both are set.
	FleetFile string `env:"FLEET_NODES_FILE"`
	// ShimNodes is a comma-separated list of node ids to run as in-memory
	// fake nodes instead of a real fleet. Intended for local development.
	ShimNodes []string `env:"FLEET_SHIM_NODES" envSeparator:","`
	// Timeout bounds each individual remote node call.
	Timeout time.Duration `env:"FLEET_NODE_TIMEOUT" envDefault:"30s"`
}

// NodeDefinition is one entry of the FLEET_NODES JSON array.
type NodeDefinition struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	BaseURL string `json:"baseUrl"`
	Token   string `json:"token,omitempty"`
}

// FleetNodes parses the configured node definitions.
func (c *NodesConfig) FleetNodes() ([]NodeDefinition, error) {
	raw := c.Fleet
	if raw == "" && c.FleetFile != "" {
		data, err := os.ReadFile(c.FleetFile)
		if err != nil {
			return nil, fmt.Errorf("reading FLEET_NODES_FILE: %w", err)
		}
		raw = string(data)
	}
	if raw == "" {
		return nil, nil
	}
	var nodes []NodeDefinition
	if err := json.Unmarshal([]byte(raw), &nodes); err != nil {
		return nil, fmt.Errorf("parsing fleet node definitions: %w", err)
	}
	return nodes, nil
}

// UseShim reports whether fake in-memory nodes should be used.
func (c *Config) UseShim() bool {
	return len(c.Nodes.ShimNodes) > 0
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(&cfg.Server); err != nil {
		return nil, fmt.Errorf("parsing server config: %w", err)
	}
	if err := env.Parse(&cfg.Database); err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	if err := env.Parse(&cfg.Nodes); err != nil {
		return nil, fmt.Errorf("parsing nodes config: %w", err)
	}
	if err := env.Parse(&cfg.API); err != nil {
		return nil, fmt.Errorf("parsing api config: %w", err)
	}

	return cfg, nil
}

// Addr returns the server address in host:port format.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.UseShim() {
		return nil
	}
	nodes, err := c.Nodes.FleetNodes()
	if err != nil {
		return err
	}
	if len(nodes) == 0 {
		return fmt.Errorf("FLEET_NODES or FLEET_NODES_FILE is required (or set FLEET_SHIM_NODES for local development)")
	}
	seen := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if n.ID == "" {
			return fmt.Errorf("FLEET_NODES: every node needs an id")
		}
		if n.BaseURL == "" {
			return fmt.Errorf("FLEET_NODES: node %s needs a baseUrl", n.ID)
		}
		if seen[n.ID] {
			return fmt.Errorf("FLEET_NODES: duplicate node id %s", n.ID)
		}
		seen[n.ID] = true
	}
	return nil
}
