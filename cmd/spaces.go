package cmd

import (
	"context"
	"os"

	"jyu-rooms/render"

	"github.com/spf13/cobra"
)

func spacesCmd() *cobra.Command {
	var campus string
	var building string
	var search string

	cmd := &cobra.Command{
		Use:   "spaces",
		Short: "List bookable rooms on a campus or in a building",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := loadController(context.Background())
			if err != nil {
				return err
			}
			defer ctrl.Close()

			if err := selectTarget(ctrl, campus, building); err != nil {
				return err
			}
			ctrl.SetSearch(search)

			snap := ctrl.Snapshot()
			cards := render.Cards(snap.Visible, render.Options{
				Language:           snap.Language,
				Date:               snap.Selection.Date,
				Search:             snap.Selection.Search,
				ReservationBaseURL: cfg.ReservationBaseURL,
			})

			if outputJSON {
				return writeJSON(cards)
			}
			return render.Text(os.Stdout, cards, snap.Language, outputCompact, render.TerminalWidth(os.Stdout))
		},
	}

	cmd.Flags().StringVar(&campus, "campus", "", "Campus name")
	cmd.Flags().StringVar(&building, "building", "", "Building id, short code or name")
	cmd.Flags().StringVar(&search, "search", "", "Filter by room name, label or category")
	return cmd
}
