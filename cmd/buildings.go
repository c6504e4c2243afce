package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"jyu-rooms/render"
	"jyu-rooms/rooms"

	"github.com/spf13/cobra"
)

type BuildingSummary struct {
	ID       string `json:"id"`
	Code     string `json:"code,omitempty"`
	Name     string `json:"name"`
	Campus   string `json:"campus"`
	Spaces   int    `json:"spaces"`
	MapsLink string `json:"maps_link,omitempty"`
}

func buildingsCmd() *cobra.Command {
	var campus string

	cmd := &cobra.Command{
		Use:   "buildings",
		Short: "List buildings that have bookable rooms",
		RunE: func(cmd *cobra.Command, args []string) error {
			if campus == "" {
				campus = cfg.DefaultCampus
			}

			ctrl, err := loadController(context.Background())
			if err != nil {
				return err
			}
			defer ctrl.Close()

			snap := ctrl.Snapshot()
			all := ctrl.Spaces()
			buildings := rooms.BuildingsInCampus(snap.Buildings, campus)
			if campus != "" && len(buildings) == 0 {
				return fmt.Errorf("campus %q not found", campus)
			}

			summaries := make([]BuildingSummary, 0, len(buildings))
			for _, b := range buildings {
				summaries = append(summaries, BuildingSummary{
					ID:       b.ID,
					Code:     b.Glyph,
					Name:     b.Name,
					Campus:   b.Campus,
					Spaces:   len(rooms.SpacesInBuilding(all, b.ID)),
					MapsLink: render.MapsLink(b),
				})
			}

			if outputJSON {
				return writeJSON(summaries)
			}

			writer := tabwriter.NewWriter(os.Stdout, 2, 2, 2, ' ', 0)
			if !outputCompact {
				fmt.Fprintln(writer, "ID\tCODE\tNAME\tCAMPUS\tROOMS")
			}
			for _, b := range summaries {
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%d\n", b.ID, b.Code, b.Name, b.Campus, b.Spaces)
			}
			return writer.Flush()
		},
	}

	cmd.Flags().StringVar(&campus, "campus", "", "Only list buildings on this campus")
	return cmd
}
