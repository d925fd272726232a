package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bcnelson/dhcp-fleet-manager/internal/domain"
)

var (
	serverURL string
	apiToken  string
)

// rootCmd is the base command for fleetctl.
var rootCmd = &cobra.Command{
	Use:   "fleetctl",
	Short: "Manage a fleet of DHCP nodes",
	Long: `fleetctl talks to a running DHCP Fleet Manager and lets you inspect
nodes and scopes, capture and restore snapshots, and synchronize scope
configuration across the fleet.

The server address comes from --server or the FLEETCTL_SERVER environment
variable; the API token from --token or FLEETCTL_TOKEN.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "manager base URL (default http://localhost:8080)")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", "", "API token")
}

func baseURL() string {
	if serverURL != "" {
		return serverURL
	}
	if v := os.Getenv("FLEETCTL_SERVER"); v != "" {
		return v
	}
	return "http://localhost:8080"
}

func token() string {
	if apiToken != "" {
		return apiToken
	}
	return os.Getenv("FLEETCTL_TOKEN")
}

// apiCall performs one request against the manager API and decodes the JSON
// response into out (when out is non-nil).
func apiCall(method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var reqBody bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&reqBody).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, baseURL()+"/api/v1"+path, &reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if t := token(); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr domain.APIError
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("%s (HTTP %d)", apiErr.Message, resp.StatusCode)
		}
		return fmt.Errorf("request failed with HTTP %d", resp.StatusCode)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// printJSON renders a value as indented JSON on stdout.
func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

// printWarnings echoes operation warnings (failed automatic snapshots and
// the like) to stderr so they survive piping stdout.
func printWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
}
