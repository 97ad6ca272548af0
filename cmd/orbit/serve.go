package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/phanxgames/orbit"
	"github.com/phanxgames/orbit/wsbridge"
	"github.com/spf13/cobra"
)

const frameInterval = time.Second / 60

func newServeCmd(gf *globalFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve <shortId>",
		Short: "Serve the viewer page and drive it over a websocket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(gf)
			if err != nil {
				return err
			}
			defer e.close()
			if addr != "" {
				e.cfg.BridgeAddr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			s, err := e.openSession(ctx, args[0], orbit.Rect{Width: 1280, Height: 800})
			if err != nil {
				return err
			}
			return serve(ctx, e.cfg.BridgeAddr, s)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides ORBIT_BRIDGE_ADDR)")
	return cmd
}

// serve runs the bridge. Page messages arrive on connection goroutines and
// are funnelled into this goroutine, which owns the session.
func serve(ctx context.Context, addr string, s *orbit.Session) error {
	inbox := make(chan wsbridge.ClientMessage, 64)
	bridge := wsbridge.New(func(m wsbridge.ClientMessage) {
		select {
		case inbox <- m:
		case <-ctx.Done():
		}
	})
	s.Attach(bridge)

	srv := &http.Server{Addr: addr, Handler: bridge.Mux()}
	errc := make(chan error, 1)
	go func() {
		log.Printf("orbit: serving %s on http://%s", s.ShortID(), addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	var lastOverlay orbit.OverlayLayout
	var lastCounters orbit.Counters
	publish := func() {
		if o := s.Overlay(); o != lastOverlay {
			lastOverlay = o
			_ = bridge.Publish(wsbridge.Message{Type: "overlay", Overlay: &o})
		}
		if c := s.Counters(); c != lastCounters {
			lastCounters = c
			_ = bridge.Publish(wsbridge.Message{Type: "counters", Counters: &c})
		}
	}
	publish()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		case err := <-errc:
			return err
		case m := <-inbox:
			if err := wsbridge.Route(ctx, s, m, time.Now()); err != nil {
				log.Printf("orbit: %v", err)
			}
			if s.RendererFailed() {
				log.Printf("orbit: renderer failed: %v", s.Controller().Err())
			}
			publish()
		case now := <-ticker.C:
			s.Update(now)
			publish()
		}
	}
}
