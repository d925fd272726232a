package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/bcnelson/dhcp-fleet-manager/internal/domain"
	"github.com/bcnelson/dhcp-fleet-manager/internal/syncer"
)

var (
	syncSource   string
	syncTargets  []string
	syncStrategy string
	syncScopes   []string
	syncEnable   bool
)

func syncRequest() domain.SyncRequest {
	return domain.SyncRequest{
		SourceNodeID:   syncSource,
		TargetNodeIDs:  syncTargets,
		Strategy:       domain.SyncStrategy(syncStrategy),
		ScopeNames:     syncScopes,
		EnableOnTarget: syncEnable,
	}
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize scopes from a source node to target nodes",
	Long: `Sync copies scope configuration from one source node to one or more
targets. The strategy decides how conflicts are handled:

  skip-existing   create missing scopes, never touch existing ones
  overwrite-all   make the targets match the source, deleting extras
  merge-missing   create and replace scopes but keep target-only extras

An automatic snapshot of each target is attempted before anything is
changed; a failed snapshot is reported as a warning, not an error.

Examples:
  # Mirror every scope of node-a onto node-b and node-c
  fleetctl sync --from node-a --to node-b --to node-c --strategy overwrite-all

  # Push two specific scopes, enabled, without deleting anything
  fleetctl sync --from node-a --to node-b --strategy merge-missing \
    --scope guest-wifi --scope iot --enable`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var result domain.SyncResult
		if err := apiCall(http.MethodPost, "/sync", syncRequest(), &result); err != nil {
			return err
		}
		printWarnings(result.Warnings)
		for _, node := range result.Nodes {
			fmt.Printf("%s: %s (%d synced, %d skipped, %d failed)\n",
				node.NodeID, node.Status, node.Synced, node.Skipped, node.Failed)
			for _, s := range node.Scopes {
				if s.Outcome == domain.OutcomeFailed {
					fmt.Printf("  %s %s: %s\n", s.Action, s.ScopeName, s.Error)
				}
			}
		}
		fmt.Printf("Total: %d synced, %d skipped, %d failed\n",
			result.TotalSynced, result.TotalSkipped, result.TotalFailed)
		if result.TotalFailed > 0 {
			return fmt.Errorf("sync finished with %d failures", result.TotalFailed)
		}
		return nil
	},
}

var syncPreviewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show what a sync would do without changing anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		var plan syncer.Plan
		if err := apiCall(http.MethodPost, "/sync/preview", syncRequest(), &plan); err != nil {
			return err
		}
		for _, node := range plan.Nodes {
			fmt.Printf("%s:\n", node.NodeID)
			if len(node.Actions) == 0 {
				fmt.Println("  nothing to do")
				continue
			}
			for _, a := range node.Actions {
				fmt.Printf("  %s %s", a.Type, a.ScopeName)
				if a.Reason != "" {
					fmt.Printf(" (%s)", a.Reason)
				}
				fmt.Println()
				for _, c := range a.Changes {
					fmt.Printf("    %s: %q -> %q\n", c.Field, c.Before, c.After)
				}
			}
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{syncCmd, syncPreviewCmd} {
		c.Flags().StringVar(&syncSource, "from", "", "source node id (required)")
		c.Flags().StringSliceVar(&syncTargets, "to", nil, "target node id (repeatable, required)")
		c.Flags().StringVar(&syncStrategy, "strategy", "skip-existing", "skip-existing, overwrite-all or merge-missing")
		c.Flags().StringSliceVar(&syncScopes, "scope", nil, "restrict to named scopes (repeatable)")
		c.Flags().BoolVar(&syncEnable, "enable", false, "enable synced scopes on the targets")
		c.MarkFlagRequired("from")
		c.MarkFlagRequired("to")
	}

	syncCmd.AddCommand(syncPreviewCmd)
	rootCmd.AddCommand(syncCmd)
}
