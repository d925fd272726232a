package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/bcnelson/dhcp-fleet-manager/internal/nodeapi"
)

// nodesCmd lists the registered DHCP nodes.
var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "List registered DHCP nodes",
	RunE: func(cmd *cobra.Command, args []string) error {
		var nodes []nodeapi.NodeInfo
		if err := apiCall(http.MethodGet, "/nodes", nil, &nodes); err != nil {
			return err
		}
		if len(nodes) == 0 {
			fmt.Println("No nodes registered")
			return nil
		}
		for _, n := range nodes {
			if n.BaseURL != "" {
				fmt.Printf("%s\t%s\t%s\n", n.ID, n.Name, n.BaseURL)
			} else {
				fmt.Printf("%s\t%s\n", n.ID, n.Name)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(nodesCmd)
}
