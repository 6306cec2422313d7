package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/siliconyouth/revolutionary-ui/internal/ui"
	"github.com/siliconyouth/revolutionary-ui/internal/workspace"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	GroupID: "info",
	Short:   "Show sync status",
	Long: `Show the sync state between the workspace and the cloud store:
last sync time, open conflicts, pending changes on both sides, and the
local files git reports as changed.`,
	Run: func(cmd *cobra.Command, args []string) {
		root := workspaceRoot()
		cfg := loadConfig()

		ctx := context.Background()
		client := connect(ctx, cfg)
		defer client.Disconnect()

		status, err := client.GetSyncStatus(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if status.LastSync.IsZero() {
			fmt.Println("Last sync: never")
		} else {
			fmt.Printf("Last sync: %s\n", status.LastSync.Local().Format(time.RFC822))
		}

		if len(status.Conflicts) == 0 {
			fmt.Printf("%s No conflicts\n", ui.RenderPass("✓"))
		} else {
			fmt.Printf("%s %d conflict(s):\n", ui.RenderWarn("⚠"), len(status.Conflicts))
			for _, c := range status.Conflicts {
				fmt.Printf("  %s (%s): local %s, remote %s\n",
					ui.RenderAccent(c.ComponentName), c.Type, c.LocalVersion, c.RemoteVersion)
			}
		}

		fmt.Printf("Pending: %d local, %d remote\n",
			len(status.Pending.Local), len(status.Pending.Remote))

		printLocalChanges(ctx, root)
	},
}

// printLocalChanges lists changed source files from git, when the
// workspace is a repository.
func printLocalChanges(ctx context.Context, root string) {
	disc, err := workspace.NewDiscoverer(root)
	if err != nil {
		return
	}
	changed, err := disc.Changed(ctx, workspace.NewGitChanges(root))
	if err != nil || len(changed) == 0 {
		return
	}

	fmt.Printf("Changed locally (%d):\n", len(changed))
	for _, rel := range changed {
		fmt.Printf("  %s\n", rel)
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
