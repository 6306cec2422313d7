package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/siliconyouth/revolutionary-ui/internal/daemon"
	"github.com/siliconyouth/revolutionary-ui/internal/dashboard"
	"github.com/siliconyouth/revolutionary-ui/internal/syncer"
	"github.com/siliconyouth/revolutionary-ui/internal/ui"
	"github.com/siliconyouth/revolutionary-ui/internal/workspace"
)

var (
	watchDebounce      time.Duration
	watchDashboardPort int
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	GroupID: "sync",
	Short:   "Watch the workspace and push changes automatically",
	Long: `Watch the component directories and push changed files after a
quiet period, so a burst of editor saves becomes one upload batch.

With --dashboard-port, a WebSocket dashboard server also runs and
broadcasts every file change and completed push to connected clients.

Runs in the foreground; stop with Ctrl+C.`,
	Run: func(cmd *cobra.Command, args []string) {
		root := workspaceRoot()
		cfg := loadConfig()

		disc, err := workspace.NewDiscoverer(root)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		logger, closeLog := newLogger(root, "[watch] ", cfg)
		defer closeLog.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		client := connect(ctx, cfg)
		defer client.Disconnect()

		var board *dashboard.Server
		if watchDashboardPort > 0 {
			board = dashboard.NewServer(&dashboard.Config{Port: watchDashboardPort, Logger: logger})
			if err := board.Start(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			defer board.Stop()
			fmt.Printf("%s Dashboard on http://%s\n", ui.RenderAccent("▸"), board.Addr())
		}

		watcher, err := daemon.NewWatcher(disc.EligibleAbs)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := watcher.Start(disc.Roots()...); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer watcher.Stop()

		author, defaultFw := projectDefaults(root)
		pusher := syncer.NewPusher(client, disc, nil, logger)
		push := func(ctx context.Context, paths []string) error {
			names := make([]string, 0, len(paths))
			for _, abs := range paths {
				if rel, err := filepath.Rel(root, abs); err == nil {
					names = append(names, rel)
				}
			}
			results, err := pusher.Run(ctx, syncer.PushOptions{
				Names:            names,
				Force:            true,
				DefaultAuthor:    author,
				DefaultFramework: defaultFw,
			})
			if err != nil {
				return err
			}
			if board != nil {
				s := syncer.Summarize(results)
				board.Publish(dashboard.EventPushComplete, dashboard.TransferData{
					Succeeded: s.Success, Skipped: s.Skipped, Failed: s.Errors,
				})
			}
			return nil
		}

		auto := daemon.NewAutoPush(watcher, push, logger)
		auto.Debounce = watchDebounce

		fmt.Printf("%s Watching for component changes (Ctrl+C to stop)\n", ui.RenderAccent("▸"))
		if err := auto.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("\nStopped.")
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 2*time.Second,
		"quiet period before pushing a change batch")
	watchCmd.Flags().IntVar(&watchDashboardPort, "dashboard-port", 0,
		"also serve the sync dashboard on this port (0 = off)")
	rootCmd.AddCommand(watchCmd)
}
