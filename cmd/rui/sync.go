package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/siliconyouth/revolutionary-ui/internal/syncer"
	"github.com/siliconyouth/revolutionary-ui/internal/ui"
	"github.com/siliconyouth/revolutionary-ui/internal/workspace"
)

var (
	syncDryRun   bool
	syncForce    bool
	syncPullOnly bool
	syncPushOnly bool
	syncStrategy string
)

var syncCmd = &cobra.Command{
	Use:     "sync",
	GroupID: "sync",
	Short:   "Run a full bidirectional sync",
	Long: `Run a full bidirectional sync against the cloud store.

The sequence is: fetch sync status, resolve any conflicts, pull
remote-side changes, push local-side changes, then record a snapshot
server-side.

Conflict resolution defaults to an interactive prompt per conflict.
--conflict-resolution fixes the answer for all conflicts: local keeps
your version, remote takes the server's, merge falls back to local
with a warning (true merging is not implemented). --force skips
resolution entirely and transfers changes as-is.`,
	Run: func(cmd *cobra.Command, args []string) {
		root := workspaceRoot()
		cfg := loadConfig()

		strategy, err := syncer.ParseStrategy(syncStrategy)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		disc, err := workspace.NewDiscoverer(root)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		logger, closeLog := newLogger(root, "[sync] ", cfg)
		defer closeLog.Close()

		ctx := context.Background()
		client := connect(ctx, cfg)
		defer client.Disconnect()

		prompter := ui.FormPrompter{}
		pusher := syncer.NewPusher(client, disc, workspace.NewGitChanges(root), logger)
		puller := syncer.NewPuller(client, root, prompter, logger)

		o := syncer.NewOrchestrator(client, prompter, logger)
		o.Pull = func(ctx context.Context, names []string) ([]syncer.ItemResult, error) {
			return puller.Run(ctx, syncer.PullOptions{Names: names, Exact: true, Overwrite: true})
		}
		o.Push = func(ctx context.Context, names []string) ([]syncer.ItemResult, error) {
			return pusher.Run(ctx, syncer.PushOptions{Names: names, Force: true})
		}

		report, err := o.Run(ctx, syncer.SyncOptions{
			DryRun:   syncDryRun,
			Force:    syncForce,
			PullOnly: syncPullOnly,
			PushOnly: syncPushOnly,
			Strategy: strategy,
		})
		if err != nil {
			if errors.Is(err, syncer.ErrCancelled) {
				fmt.Println("Cancelled.")
				return
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if report.Resolved > 0 {
			fmt.Printf("%s Resolved %d conflict(s)\n", ui.RenderPass("✓"), report.Resolved)
		}
		printResults(report.Pulled)
		printResults(report.Pushed)
		if report.SnapshotID != "" {
			fmt.Printf("%s Snapshot %s recorded\n", ui.RenderPass("✓"), ui.RenderAccent(report.SnapshotID))
		}
	},
}

func init() {
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "show the plan without transferring")
	syncCmd.Flags().BoolVar(&syncForce, "force", false, "skip conflict resolution")
	syncCmd.Flags().BoolVar(&syncPullOnly, "pull-only", false, "only transfer remote changes")
	syncCmd.Flags().BoolVar(&syncPushOnly, "push-only", false, "only transfer local changes")
	syncCmd.Flags().StringVar(&syncStrategy, "conflict-resolution", "prompt",
		"conflict strategy: prompt, local, remote, or merge")
	rootCmd.AddCommand(syncCmd)
}
