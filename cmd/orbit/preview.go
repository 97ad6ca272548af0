package main

import (
	"fmt"
	"os"

	"github.com/phanxgames/orbit"
	"github.com/phanxgames/orbit/preview"
	"github.com/spf13/cobra"
)

func newPreviewCmd(gf *globalFlags) *cobra.Command {
	var (
		width, height int
		script        string
		showFPS       bool
	)
	cmd := &cobra.Command{
		Use:   "preview <shortId>",
		Short: "Open a desktop window with a wireframe stand-in renderer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(gf)
			if err != nil {
				return err
			}
			defer e.close()

			viewport := orbit.Rect{Width: float64(width), Height: float64(height)}
			s, err := e.openSession(cmd.Context(), args[0], viewport)
			if err != nil {
				return err
			}
			if script != "" {
				data, err := os.ReadFile(script)
				if err != nil {
					return fmt.Errorf("read script: %w", err)
				}
				runner, err := orbit.LoadTestScript(data)
				if err != nil {
					return err
				}
				s.SetTestRunner(runner)
			}
			return preview.Run(s, preview.RunConfig{
				Title:   "Orbit: " + s.Model().Name,
				Width:   width,
				Height:  height,
				ShowFPS: showFPS,
				Glide:   e.cfg.Glide,
			})
		},
	}
	cmd.Flags().IntVar(&width, "width", 960, "window width")
	cmd.Flags().IntVar(&height, "height", 640, "window height")
	cmd.Flags().StringVar(&script, "script", "", "JSON input script to replay")
	cmd.Flags().BoolVar(&showFPS, "fps", false, "show FPS counter")
	return cmd
}
