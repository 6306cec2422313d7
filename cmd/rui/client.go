package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/siliconyouth/revolutionary-ui/internal/cache"
	"github.com/siliconyouth/revolutionary-ui/internal/cloud"
	"github.com/siliconyouth/revolutionary-ui/internal/component"
	"github.com/siliconyouth/revolutionary-ui/internal/config"
	"github.com/siliconyouth/revolutionary-ui/internal/logging"
)

// workspaceRoot returns the directory commands operate in.
func workspaceRoot() string {
	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot determine working directory: %v\n", err)
		os.Exit(1)
	}
	return wd
}

// loadConfig reads the user config, exiting on parse errors.
func loadConfig() *config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// connect builds and connects the cloud client. The caller must defer
// Disconnect.
func connect(ctx context.Context, cfg *config.Config) *cloud.HTTPClient {
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	client := cloud.NewHTTPClient(cloud.HTTPOptions{
		BaseURL: cfg.CloudURL,
		APIKey:  cfg.APIKey,
		Timeout: cfg.RequestTimeout,
	})

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := client.Connect(connectCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return client
}

// projectDefaults loads the workspace manifest and maps it onto push
// defaults. A missing manifest yields empty defaults; a malformed one
// or an unknown framework value is fatal.
func projectDefaults(root string) (author string, fw component.Framework) {
	proj, err := config.LoadProject(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if proj.Framework != "" {
		fw = parseFramework(proj.Framework)
		if fw == "" {
			fmt.Fprintf(os.Stderr, "Error: unknown framework %q in %s\n", proj.Framework, config.ProjectFile)
			os.Exit(1)
		}
	}
	return proj.Author, fw
}

// newLogger builds the rotating engine logger for one command.
func newLogger(root, prefix string, cfg *config.Config) (*log.Logger, io.Closer) {
	path := cfg.LogFile
	if path == "" {
		path = logging.DefaultPath(root)
	}
	return logging.New(prefix, logging.Options{Path: path, Verbose: flagVerbose})
}

// refreshCatalog updates the local catalog cache from a listing.
// Best-effort: cache failures never fail the command.
func refreshCatalog(ctx context.Context, root string, comps []*component.Component) {
	catalog, err := cache.Open(cache.DefaultPath(root))
	if err != nil {
		return
	}
	defer catalog.Close()
	_ = catalog.Replace(ctx, comps)
}
