package main

import (
	"context"
	"fmt"

	"github.com/phanxgames/orbit"
	"github.com/phanxgames/orbit/sqlitestore"
	"github.com/spf13/cobra"
)

// globalFlags override the ORBIT_* environment.
type globalFlags struct {
	apiURL    string
	policy    string
	flagStore string
	debug     bool
}

func newRootCmd() *cobra.Command {
	var gf globalFlags
	root := &cobra.Command{
		Use:           "orbit",
		Short:         "Interactive 3D viewer orchestration",
		Long:          `Drive a 3D product viewer: guided sections on scroll, explore mode, annotations and engagement counters.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&gf.apiURL, "api", "", "catalog API base URL (overrides ORBIT_API_URL)")
	root.PersistentFlags().StringVar(&gf.policy, "policy", "", "overlay gesture: double-tap or long-press (overrides ORBIT_GESTURE_POLICY)")
	root.PersistentFlags().StringVar(&gf.flagStore, "flags", "", "SQLite file for client flags (overrides ORBIT_FLAG_STORE)")
	root.PersistentFlags().BoolVar(&gf.debug, "debug", false, "print [orbit] trace lines to stderr")

	root.AddCommand(
		newServeCmd(&gf),
		newPreviewCmd(&gf),
		newShowCmd(&gf),
		newLikeCmd(&gf),
		newListCmd(&gf),
	)
	return root
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig(gf *globalFlags) (orbit.Config, error) {
	cfg, err := orbit.LoadConfig()
	if err != nil {
		return orbit.Config{}, err
	}
	if gf.apiURL != "" {
		cfg.APIURL = gf.apiURL
	}
	if gf.policy != "" {
		if _, err := orbit.ParseGesturePolicy(gf.policy); err != nil {
			return orbit.Config{}, fmt.Errorf("--policy: %w", err)
		}
		cfg.GesturePolicy = gf.policy
	}
	if gf.flagStore != "" {
		cfg.FlagStore = gf.flagStore
	}
	if gf.debug {
		cfg.Debug = true
	}
	orbit.SetDebugMode(cfg.Debug)
	return cfg, nil
}

// openFlagStore returns the SQLite store when configured, otherwise an
// in-memory one. The returned func closes it.
func openFlagStore(cfg orbit.Config) (orbit.FlagStore, func(), error) {
	if cfg.FlagStore == "" {
		return orbit.NewMemoryFlagStore(), func() {}, nil
	}
	store, err := sqlitestore.Open(cfg.FlagStore)
	if err != nil {
		return nil, nil, fmt.Errorf("open flag store: %w", err)
	}
	return store, func() { _ = store.Close() }, nil
}

// env bundles what every command needs.
type env struct {
	cfg    orbit.Config
	client *orbit.Client
	sync   *orbit.Synchronizer
	close  func()
}

func setup(gf *globalFlags) (*env, error) {
	cfg, err := loadConfig(gf)
	if err != nil {
		return nil, err
	}
	store, closeStore, err := openFlagStore(cfg)
	if err != nil {
		return nil, err
	}
	client := cfg.Client()
	sync := orbit.NewSynchronizer(client, store, orbit.SyncOptions{
		Timeout: cfg.HTTPTimeout,
		OnError: func(op, shortID string, err error) {
			fmt.Printf("warning: %s sync for %s failed: %v\n", op, shortID, err)
		},
	})
	return &env{
		cfg:    cfg,
		client: client,
		sync:   sync,
		close: func() {
			sync.Wait()
			closeStore()
		},
	}, nil
}

// openSession loads shortID, which may also be a viewer path like /view/abc.
func (e *env) openSession(ctx context.Context, arg string, viewport orbit.Rect) (*orbit.Session, error) {
	id := orbit.ParseShortID(arg)
	if id == "" {
		return nil, fmt.Errorf("no model id in %q", arg)
	}
	return orbit.OpenSession(ctx, e.client, id, e.cfg.SessionOptions(viewport, e.sync))
}
