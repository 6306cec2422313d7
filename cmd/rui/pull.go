package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/siliconyouth/revolutionary-ui/internal/syncer"
	"github.com/siliconyouth/revolutionary-ui/internal/ui"
)

var (
	pullAll       bool
	pullDryRun    bool
	pullForce     bool
	pullOverwrite bool
)

var pullCmd = &cobra.Command{
	Use:     "pull [name ...]",
	GroupID: "sync",
	Short:   "Download components from the cloud store",
	Long: `Download remote components into the local workspace.

Without arguments, pull opens an interactive picker over the remote
catalog. Arguments select components by case-insensitive substring
match; --all pulls everything.

Each component is written to its canonical location derived from its
type and framework (e.g. src/factories/vue/TableFactory.vue). When a
target file already exists you choose whether to skip, overwrite, or
decide per file; --overwrite replaces existing files without asking.`,
	Run: func(cmd *cobra.Command, args []string) {
		root := workspaceRoot()
		cfg := loadConfig()

		logger, closeLog := newLogger(root, "[pull] ", cfg)
		defer closeLog.Close()

		ctx := context.Background()
		client := connect(ctx, cfg)
		defer client.Disconnect()

		puller := syncer.NewPuller(client, root, ui.FormPrompter{}, logger)
		results, err := puller.Run(ctx, syncer.PullOptions{
			All:       pullAll,
			Names:     args,
			DryRun:    pullDryRun,
			Force:     pullForce,
			Overwrite: pullOverwrite,
		})
		if err != nil {
			if errors.Is(err, syncer.ErrCancelled) {
				fmt.Println("Cancelled.")
				return
			}
			if errors.Is(err, syncer.ErrNotInteractive) {
				fmt.Fprintln(os.Stderr, "Error: no terminal attached; pass component names, --all, or --overwrite")
				os.Exit(1)
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		printResults(results)
	},
}

func init() {
	pullCmd.Flags().BoolVarP(&pullAll, "all", "a", false, "pull every remote component")
	pullCmd.Flags().BoolVar(&pullDryRun, "dry-run", false, "plan without writing files")
	pullCmd.Flags().BoolVar(&pullForce, "force", false, "overwrite existing files without asking")
	pullCmd.Flags().BoolVar(&pullOverwrite, "overwrite", false, "overwrite existing files without asking")
	rootCmd.AddCommand(pullCmd)
}
