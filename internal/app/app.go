package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"daylist/internal/api"
	"daylist/internal/config"
	"daylist/internal/offline"
	"daylist/internal/snapshot"
	"daylist/internal/store"
	"daylist/internal/ui"
)

// Options configure the daylist application.
type Options struct {
	ConfigPath string
	APIURL     string // overrides the configured API origin when set
	PollEvery  int    // seconds; zero uses the configured cadence
}

// Run boots the daylist TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.APIURL != "" {
		cfg.APIURL = opts.APIURL
	}
	if opts.PollEvery > 0 {
		cfg.PollSeconds = opts.PollEvery
	}

	var transport http.RoundTripper = http.DefaultTransport
	if cfg.OfflineCache {
		origin, err := api.ParseOrigin(cfg.APIURL)
		if err != nil {
			return fmt.Errorf("resolve api origin: %w", err)
		}
		worker := offline.New(cfg.CacheRoot(), cfg.CacheVersion, origin, transport)
		// Install is best effort: with the server unreachable the
		// worker still activates and replays whatever it has cached.
		if err := worker.Install(); err != nil {
			log.Printf("offline cache install failed: %v", err)
		}
		transport = worker
	}

	client, err := api.NewClient(cfg.APIURL, transport)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	taskStore := store.New(client, snapshot.New(cfg.SnapshotPath()))

	// Populate before the UI starts; a failure here already fell back
	// to the local snapshot and surfaced in the store's status.
	if err := taskStore.LoadAll(ctx); err != nil {
		log.Printf("initial load failed: %v", err)
	}

	StartPoller(ctx, taskStore, time.Duration(cfg.PollSeconds)*time.Second)

	return ui.Run(ctx, ui.Options{Store: taskStore})
}
