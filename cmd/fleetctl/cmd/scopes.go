package cmd

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/bcnelson/dhcp-fleet-manager/internal/domain"
)

var scopesCmd = &cobra.Command{
	Use:   "scopes",
	Short: "Inspect and manage scopes on a node",
}

var scopesListCmd = &cobra.Command{
	Use:   "list <node>",
	Short: "List a node's scopes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var scopes []domain.ScopeSummary
		path := fmt.Sprintf("/nodes/%s/scopes", url.PathEscape(args[0]))
		if err := apiCall(http.MethodGet, path, nil, &scopes); err != nil {
			return err
		}
		if len(scopes) == 0 {
			fmt.Println("No scopes")
			return nil
		}
		for _, s := range scopes {
			state := "disabled"
			if s.Enabled {
				state = "enabled"
			}
			fmt.Printf("%s\t%s - %s\t%s\t%s\n", s.Name, s.StartingAddress, s.EndingAddress, s.SubnetMask, state)
		}
		return nil
	},
}

var scopesGetCmd = &cobra.Command{
	Use:   "get <node> <scope>",
	Short: "Show a scope's full configuration",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var scope domain.Scope
		path := fmt.Sprintf("/nodes/%s/scopes/%s", url.PathEscape(args[0]), url.PathEscape(args[1]))
		if err := apiCall(http.MethodGet, path, nil, &scope); err != nil {
			return err
		}
		printJSON(scope)
		return nil
	},
}

var scopesDeleteCmd = &cobra.Command{
	Use:   "delete <node> <scope>",
	Short: "Delete a scope from a node",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp struct {
			Status   string   `json:"status"`
			Warnings []string `json:"warnings"`
		}
		path := fmt.Sprintf("/nodes/%s/scopes/%s", url.PathEscape(args[0]), url.PathEscape(args[1]))
		if err := apiCall(http.MethodDelete, path, nil, &resp); err != nil {
			return err
		}
		printWarnings(resp.Warnings)
		fmt.Printf("Deleted scope %s from %s\n", args[1], args[0])
		return nil
	},
}

var scopesRenameCmd = &cobra.Command{
	Use:   "rename <node> <scope> <new-name>",
	Short: "Rename a scope on a node",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]string{"newName": args[2]}
		var resp struct {
			Status   string   `json:"status"`
			Warnings []string `json:"warnings"`
		}
		path := fmt.Sprintf("/nodes/%s/scopes/%s/rename", url.PathEscape(args[0]), url.PathEscape(args[1]))
		if err := apiCall(http.MethodPost, path, body, &resp); err != nil {
			return err
		}
		printWarnings(resp.Warnings)
		fmt.Printf("Renamed %s to %s on %s\n", args[1], args[2], args[0])
		return nil
	},
}

var (
	cloneTarget string
	cloneName   string
	cloneEnable bool
)

var scopesCloneCmd = &cobra.Command{
	Use:   "clone <node> <scope>",
	Short: "Clone a scope within a node or to another node",
	Long: `Clone copies a scope's configuration. Without --to the clone lands on
the same node and needs --name. With --to the scope is copied to another
node, keeping its name unless --name overrides it.

Examples:
  # Duplicate a scope on the same node under a new name
  fleetctl scopes clone node-a guest-wifi --name guest-wifi-2

  # Copy a scope to another node, disabled until reviewed
  fleetctl scopes clone node-a guest-wifi --to node-b`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := domain.CloneRequest{
			TargetNodeID:   cloneTarget,
			NewScopeName:   cloneName,
			EnableOnTarget: cloneEnable,
		}
		var result domain.CloneResult
		path := fmt.Sprintf("/nodes/%s/scopes/%s/clone", url.PathEscape(args[0]), url.PathEscape(args[1]))
		if err := apiCall(http.MethodPost, path, req, &result); err != nil {
			return err
		}
		printWarnings(result.Warnings)
		fmt.Printf("Cloned %s on %s to %s on %s\n", args[1], result.SourceNodeID, result.ScopeName, result.TargetNodeID)
		return nil
	},
}

func init() {
	scopesCloneCmd.Flags().StringVar(&cloneTarget, "to", "", "target node id (default: same node)")
	scopesCloneCmd.Flags().StringVar(&cloneName, "name", "", "name for the cloned scope")
	scopesCloneCmd.Flags().BoolVar(&cloneEnable, "enable", false, "enable the clone on the target")

	scopesCmd.AddCommand(scopesListCmd)
	scopesCmd.AddCommand(scopesGetCmd)
	scopesCmd.AddCommand(scopesDeleteCmd)
	scopesCmd.AddCommand(scopesRenameCmd)
	scopesCmd.AddCommand(scopesCloneCmd)
	rootCmd.AddCommand(scopesCmd)
}
