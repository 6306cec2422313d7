package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/siliconyouth/revolutionary-ui/internal/cache"
	"github.com/siliconyouth/revolutionary-ui/internal/cloud"
	"github.com/siliconyouth/revolutionary-ui/internal/component"
	"github.com/siliconyouth/revolutionary-ui/internal/ui"
)

var (
	listType      string
	listFramework string
	listTag       string
	listCached    bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	GroupID: "info",
	Short:   "List components in the cloud store",
	Long: `List the components available in the cloud store.

By default this queries the store and refreshes the local catalog
cache (.revolutionary-ui/catalog.db). --cached answers from the cache
without a network connection.`,
	Run: func(cmd *cobra.Command, args []string) {
		root := workspaceRoot()

		var typ component.Type
		if listType != "" {
			typ = component.Type(listType)
			if !typ.Valid() {
				fmt.Fprintf(os.Stderr, "Error: unknown component type %q\n", listType)
				os.Exit(1)
			}
		}
		var fw component.Framework
		if listFramework != "" {
			fw = parseFramework(listFramework)
			if fw == "" {
				fmt.Fprintf(os.Stderr, "Error: unknown framework %q\n", listFramework)
				os.Exit(1)
			}
		}

		ctx := context.Background()

		if listCached {
			listFromCache(ctx, root, typ, fw)
			return
		}

		cfg := loadConfig()
		client := connect(ctx, cfg)
		defer client.Disconnect()

		filter := &cloud.ListFilter{Type: typ, Framework: fw}
		if listTag != "" {
			filter.Tags = []string{listTag}
		}

		comps, err := client.ListComponents(ctx, filter)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		printComponents(comps)

		// Only an unfiltered listing represents the whole catalog.
		if typ == "" && fw == "" && listTag == "" {
			refreshCatalog(ctx, root, comps)
		}
	},
}

func listFromCache(ctx context.Context, root string, typ component.Type, fw component.Framework) {
	catalog, err := cache.Open(cache.DefaultPath(root))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer catalog.Close()

	comps, err := catalog.List(ctx, cache.ListFilter{Type: typ, Framework: fw, Tag: listTag})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printComponents(comps)
	if fetched, err := catalog.LastFetched(ctx); err == nil && !fetched.IsZero() {
		fmt.Println(ui.RenderMuted(fmt.Sprintf("cached %s", fetched.Local().Format(time.RFC822))))
	}
}

func printComponents(comps []*component.Component) {
	if len(comps) == 0 {
		fmt.Println("No components found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE\tFRAMEWORK\tVERSION\tDESCRIPTION")
	for _, c := range comps {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			c.Name, c.Type, c.Framework, c.Version, c.Description)
	}
	w.Flush()
}

func init() {
	listCmd.Flags().StringVar(&listType, "type", "", "filter by component type")
	listCmd.Flags().StringVar(&listFramework, "framework", "", "filter by framework")
	listCmd.Flags().StringVar(&listTag, "tag", "", "filter by tag")
	listCmd.Flags().BoolVar(&listCached, "cached", false, "answer from the local catalog cache")
	rootCmd.AddCommand(listCmd)
}
