package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"jyu-rooms/rooms"

	"github.com/spf13/cobra"
)

type CampusSummary struct {
	Name      string `json:"name"`
	Buildings int    `json:"buildings"`
	Spaces    int    `json:"spaces"`
}

func campusesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "campuses",
		Short: "List campuses with bookable rooms",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := loadController(context.Background())
			if err != nil {
				return err
			}
			defer ctrl.Close()

			snap := ctrl.Snapshot()
			all := ctrl.Spaces()
			summaries := []CampusSummary{}
			for _, campus := range rooms.Campuses(snap.Buildings) {
				summaries = append(summaries, CampusSummary{
					Name:      campus,
					Buildings: len(rooms.BuildingsInCampus(snap.Buildings, campus)),
					Spaces:    len(rooms.SpacesInCampus(all, snap.Buildings, campus)),
				})
			}

			if outputJSON {
				return writeJSON(summaries)
			}

			writer := tabwriter.NewWriter(os.Stdout, 2, 2, 2, ' ', 0)
			if !outputCompact {
				fmt.Fprintln(writer, "CAMPUS\tBUILDINGS\tROOMS")
			}
			for _, s := range summaries {
				fmt.Fprintf(writer, "%s\t%d\t%d\n", s.Name, s.Buildings, s.Spaces)
			}
			return writer.Flush()
		},
	}
}
