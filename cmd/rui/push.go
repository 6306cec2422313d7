package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/siliconyouth/revolutionary-ui/internal/component"
	"github.com/siliconyouth/revolutionary-ui/internal/syncer"
	"github.com/siliconyouth/revolutionary-ui/internal/ui"
	"github.com/siliconyouth/revolutionary-ui/internal/workspace"
)

var (
	pushAll       bool
	pushMessage   string
	pushSince     string
	pushType      string
	pushFramework string
	pushTags      string
	pushDryRun    bool
	pushForce     bool
)

var pushCmd = &cobra.Command{
	Use:     "push [component|glob ...]",
	GroupID: "sync",
	Short:   "Upload local components to the cloud store",
	Long: `Upload local component source files to the cloud store.

Without arguments, push uploads the files git reports as changed.
Arguments are component names or glob patterns; --all uploads every
source file under the component directories.

A component whose name already exists remotely is updated in place.
If the server reports a conflict for any component in the push set the
whole push aborts before uploading anything; resolve with 'rui sync'
or retry with --force.`,
	Run: func(cmd *cobra.Command, args []string) {
		root := workspaceRoot()
		cfg := loadConfig()

		opts := syncer.PushOptions{
			All:     pushAll,
			Names:   args,
			Message: pushMessage,
			DryRun:  pushDryRun,
			Force:   pushForce,
		}

		opts.DefaultAuthor, opts.DefaultFramework = projectDefaults(root)

		if pushSince != "" {
			cutoff, err := workspace.ParseSince(pushSince, time.Now())
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			opts.Since = cutoff
		}
		if pushType != "" {
			typ := component.Type(strings.ToLower(pushType))
			if !typ.Valid() {
				fmt.Fprintf(os.Stderr, "Error: unknown component type %q\n", pushType)
				os.Exit(1)
			}
			opts.Type = typ
		}
		if pushFramework != "" {
			opts.Framework = parseFramework(pushFramework)
			if opts.Framework == "" {
				fmt.Fprintf(os.Stderr, "Error: unknown framework %q\n", pushFramework)
				os.Exit(1)
			}
		}
		if pushTags != "" {
			for _, tag := range strings.Split(pushTags, ",") {
				if tag = strings.TrimSpace(tag); tag != "" {
					opts.FilterTags = append(opts.FilterTags, tag)
				}
			}
		}

		disc, err := workspace.NewDiscoverer(root)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		logger, closeLog := newLogger(root, "[push] ", cfg)
		defer closeLog.Close()

		ctx := context.Background()
		client := connect(ctx, cfg)
		defer client.Disconnect()

		pusher := syncer.NewPusher(client, disc, workspace.NewGitChanges(root), logger)
		results, err := pusher.Run(ctx, opts)
		if err != nil {
			if errors.Is(err, syncer.ErrConflictsDetected) {
				os.Exit(1)
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		printResults(results)
	},
}

// parseFramework maps a case-insensitive CLI value to a Framework.
func parseFramework(s string) component.Framework {
	for _, fw := range []component.Framework{
		component.FrameworkReact,
		component.FrameworkVue,
		component.FrameworkAngular,
		component.FrameworkSvelte,
	} {
		if strings.EqualFold(s, string(fw)) {
			return fw
		}
	}
	return ""
}

// printResults renders the batch summary. Per-item failures are shown
// but do not change the exit code; the summary line carries the count.
func printResults(results []syncer.ItemResult) {
	if len(results) == 0 {
		return
	}
	for _, r := range results {
		if r.Status == syncer.StatusError {
			fmt.Printf("%s %s: %s\n", ui.RenderFail("✗"), r.Name, r.Err)
		}
	}
	summary := syncer.Summarize(results)
	marker := ui.RenderPass("✓")
	if summary.Errors > 0 {
		marker = ui.RenderWarn("⚠")
	}
	fmt.Printf("%s %s\n", marker, summary)
}

func init() {
	pushCmd.Flags().BoolVarP(&pushAll, "all", "a", false, "push every component source file")
	pushCmd.Flags().StringVarP(&pushMessage, "message", "m", "", "annotate the push")
	pushCmd.Flags().StringVar(&pushSince, "since", "", "only files modified since (e.g. \"yesterday\", \"2 days ago\")")
	pushCmd.Flags().StringVar(&pushType, "type", "", "filter by component type (factory, component, template, config)")
	pushCmd.Flags().StringVar(&pushFramework, "framework", "", "filter by framework (react, vue, angular, svelte)")
	pushCmd.Flags().StringVarP(&pushTags, "tags", "t", "", "filter by tags, comma-separated (any match)")
	pushCmd.Flags().BoolVar(&pushDryRun, "dry-run", false, "plan without uploading")
	pushCmd.Flags().BoolVar(&pushForce, "force", false, "skip the conflict pre-flight")
	rootCmd.AddCommand(pushCmd)
}
