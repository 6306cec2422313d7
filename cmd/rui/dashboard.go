package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/siliconyouth/revolutionary-ui/internal/dashboard"
	"github.com/siliconyouth/revolutionary-ui/internal/ui"
)

var dashboardPort int

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	GroupID: "info",
	Short:   "Run the sync dashboard server",
	Long: `Run the WebSocket dashboard server standalone.

Connected clients receive push, pull, and conflict events as JSON
messages on ws://host:port/ws. Normally the dashboard runs as part of
'rui watch --dashboard-port'; this command serves it on its own, for
a team display fed by other rui processes on the same machine.

Runs in the foreground; stop with Ctrl+C.`,
	Run: func(cmd *cobra.Command, args []string) {
		root := workspaceRoot()
		cfg := loadConfig()

		logger, closeLog := newLogger(root, "[dashboard] ", cfg)
		defer closeLog.Close()

		server := dashboard.NewServer(&dashboard.Config{Port: dashboardPort, Logger: logger})
		if err := server.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("%s Dashboard on http://%s (Ctrl+C to stop)\n",
			ui.RenderAccent("▸"), server.Addr())

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		<-ctx.Done()

		if err := server.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("\nStopped.")
	},
}

func init() {
	dashboardCmd.Flags().IntVar(&dashboardPort, "port", 7317, "port to listen on")
	rootCmd.AddCommand(dashboardCmd)
}
