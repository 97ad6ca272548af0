package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/phanxgames/orbit"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
)

func newShowCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <shortId>",
		Short: "Print model metadata and its narrative sections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(gf)
			if err != nil {
				return err
			}
			defer e.close()

			id := orbit.ParseShortID(args[0])
			m, err := e.client.GetModel(cmd.Context(), id)
			if orbit.IsNotFound(err) {
				return fmt.Errorf("%w: %s", orbit.ErrNotFound, id)
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", m.Name, m.ShortID)
			fmt.Fprintf(out, "  asset: %s\n", m.URL)
			fmt.Fprintf(out, "  %s, %s\n", orbit.FormatViews(language.English, m.Views), orbit.FormatLikes(language.English, m.Likes))
			if m.Qty > 0 {
				fmt.Fprintf(out, "  stock: %d of %d sold\n", m.Sold, m.Qty)
			}
			for i, s := range orbit.SectionsFromModel(m) {
				fmt.Fprintf(out, "  [%d] %-10s %s\n", i+1, s.Label, s.Target)
			}
			ann := m.Info.Annotations()
			for c, text := range ann {
				if text != "" {
					fmt.Fprintf(out, "  %s: %s\n", orbit.Corner(c), text)
				}
			}
			return nil
		},
	}
}

func newLikeCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "like <shortId>",
		Short: "Toggle this client's like on a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(gf)
			if err != nil {
				return err
			}
			defer e.close()

			id := orbit.ParseShortID(args[0])
			m, err := e.client.GetModel(cmd.Context(), id)
			if err != nil {
				return err
			}
			if _, err := e.sync.Seed(cmd.Context(), id, m.Views, m.Likes); err != nil {
				return err
			}
			c, err := e.sync.ToggleLike(cmd.Context(), id)
			if err != nil {
				return err
			}
			verb := "unliked"
			if c.LikedByThisClient {
				verb = "liked"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", verb, id, orbit.FormatLikes(language.English, c.Likes))
			if e.cfg.FlagStore == "" {
				fmt.Fprintln(cmd.ErrOrStderr(), "note: no --flags store, the like flag will not persist")
			}
			return nil
		},
	}
}

func newListCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List models in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(gf)
			if err != nil {
				return err
			}
			defer e.close()

			models, err := e.client.ListModels(cmd.Context())
			if err != nil {
				var apiErr *orbit.APIError
				if errors.As(err, &apiErr) {
					return fmt.Errorf("list models: %s", apiErr.Status)
				}
				return err
			}
			out := cmd.OutOrStdout()
			for _, m := range models {
				name := strings.TrimSpace(m.Name)
				if name == "" {
					name = "(untitled)"
				}
				fmt.Fprintf(out, "%-12s %-30s %s\n", m.ShortID, name, orbit.FormatViews(language.English, m.Views))
			}
			return nil
		},
	}
}
