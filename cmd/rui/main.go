// Command rui synchronizes UI component source files between a local
// workspace and the Revolutionary UI cloud store.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "rui",
	Short: "Sync UI components with the Revolutionary UI cloud store",
	Long: `rui keeps a local component workspace and the Revolutionary UI cloud
store in step.

Source files under src/factories/, src/components/, and templates/ are
parsed into components (name, type, framework, metadata, checksum) and
pushed to the store; remote components are pulled back into the same
layout. A full sync resolves conflicts and moves changes both ways.

Authentication uses RUI_API_KEY or the api_key entry in the user config
file. Project-level sync rules live in .revolutionary-ui/sync.yaml.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: "sync", Title: "Sync Commands:"},
		&cobra.Group{ID: "info", Title: "Inspection Commands:"},
	)
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"mirror engine logs to stderr")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "",
		"path to the user config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
