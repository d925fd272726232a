package cmd

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/bcnelson/dhcp-fleet-manager/internal/domain"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Capture, inspect and restore node snapshots",
}

var snapshotListCmd = &cobra.Command{
	Use:   "list <node>",
	Short: "List a node's snapshots, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var metas []domain.SnapshotMetadata
		path := fmt.Sprintf("/nodes/%s/snapshots", url.PathEscape(args[0]))
		if err := apiCall(http.MethodGet, path, nil, &metas); err != nil {
			return err
		}
		if len(metas) == 0 {
			fmt.Println("No snapshots")
			return nil
		}
		for _, m := range metas {
			pinned := ""
			if m.Pinned {
				pinned = "\tpinned"
			}
			fmt.Printf("%s\t%s\t%s\t%d scopes%s\n",
				m.ID, m.CreatedAt.Format("2006-01-02 15:04:05"), m.Origin, m.ScopeCount, pinned)
			if m.Note != "" {
				fmt.Printf("\t%s\n", m.Note)
			}
		}
		return nil
	},
}

var snapshotCreateCmd = &cobra.Command{
	Use:   "create <node>",
	Short: "Capture a snapshot of the node's current scopes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var meta domain.SnapshotMetadata
		path := fmt.Sprintf("/nodes/%s/snapshots", url.PathEscape(args[0]))
		if err := apiCall(http.MethodPost, path, nil, &meta); err != nil {
			return err
		}
		fmt.Printf("Created snapshot %s (%d scopes)\n", meta.ID, meta.ScopeCount)
		return nil
	},
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show <node> <snapshot-id>",
	Short: "Show a snapshot including its captured scopes",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var snap domain.Snapshot
		path := fmt.Sprintf("/nodes/%s/snapshots/%s", url.PathEscape(args[0]), url.PathEscape(args[1]))
		if err := apiCall(http.MethodGet, path, nil, &snap); err != nil {
			return err
		}
		printJSON(snap)
		return nil
	},
}

func setPinned(node, id string, pinned bool) error {
	body := map[string]bool{"pinned": pinned}
	var meta domain.SnapshotMetadata
	path := fmt.Sprintf("/nodes/%s/snapshots/%s/pin", url.PathEscape(node), url.PathEscape(id))
	return apiCall(http.MethodPut, path, body, &meta)
}

var snapshotPinCmd = &cobra.Command{
	Use:   "pin <node> <snapshot-id>",
	Short: "Pin a snapshot so retention sweeps never remove it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setPinned(args[0], args[1], true); err != nil {
			return err
		}
		fmt.Printf("Pinned snapshot %s\n", args[1])
		return nil
	},
}

var snapshotUnpinCmd = &cobra.Command{
	Use:   "unpin <node> <snapshot-id>",
	Short: "Remove a snapshot's pin",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setPinned(args[0], args[1], false); err != nil {
			return err
		}
		fmt.Printf("Unpinned snapshot %s\n", args[1])
		return nil
	},
}

var snapshotNoteCmd = &cobra.Command{
	Use:   "note <node> <snapshot-id> <note>",
	Short: "Set a snapshot's note",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]string{"note": args[2]}
		var meta domain.SnapshotMetadata
		path := fmt.Sprintf("/nodes/%s/snapshots/%s/note", url.PathEscape(args[0]), url.PathEscape(args[1]))
		if err := apiCall(http.MethodPut, path, body, &meta); err != nil {
			return err
		}
		fmt.Printf("Updated note on snapshot %s\n", meta.ID)
		return nil
	},
}

var snapshotDeleteCmd = &cobra.Command{
	Use:   "delete <node> <snapshot-id>",
	Short: "Delete a snapshot",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := fmt.Sprintf("/nodes/%s/snapshots/%s", url.PathEscape(args[0]), url.PathEscape(args[1]))
		if err := apiCall(http.MethodDelete, path, nil, nil); err != nil {
			return err
		}
		fmt.Printf("Deleted snapshot %s\n", args[1])
		return nil
	},
}

var restoreKeepExtras bool

var snapshotRestoreCmd = &cobra.Command{
	Use:   "restore <node> <snapshot-id>",
	Short: "Restore a node's scopes from a snapshot",
	Long: `Restore re-applies every scope captured in the snapshot to the node.
Scopes that exist on the node but not in the snapshot are deleted unless
--keep-extras is set. Individual scope failures are reported without
aborting the rest of the restore.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := domain.RestoreOptions{KeepExtras: restoreKeepExtras}
		var result domain.RestoreResult
		path := fmt.Sprintf("/nodes/%s/snapshots/%s/restore", url.PathEscape(args[0]), url.PathEscape(args[1]))
		if err := apiCall(http.MethodPost, path, opts, &result); err != nil {
			return err
		}
		printWarnings(result.Warnings)
		fmt.Printf("Restored %d scopes, deleted %d\n", result.Restored, result.Deleted)
		for _, f := range result.Failures {
			fmt.Printf("Failed: %s: %s\n", f.ScopeName, f.Error)
		}
		if len(result.Failures) > 0 {
			return fmt.Errorf("%d scopes failed to restore", len(result.Failures))
		}
		return nil
	},
}

func init() {
	snapshotRestoreCmd.Flags().BoolVar(&restoreKeepExtras, "keep-extras", false, "keep scopes that are not in the snapshot")

	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotCreateCmd)
	snapshotCmd.AddCommand(snapshotShowCmd)
	snapshotCmd.AddCommand(snapshotPinCmd)
	snapshotCmd.AddCommand(snapshotUnpinCmd)
	snapshotCmd.AddCommand(snapshotNoteCmd)
	snapshotCmd.AddCommand(snapshotDeleteCmd)
	snapshotCmd.AddCommand(snapshotRestoreCmd)
	rootCmd.AddCommand(snapshotCmd)
}
