package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"jyu-rooms/render"
	"jyu-rooms/rooms"
	"jyu-rooms/state"

	"github.com/spf13/cobra"
)

type CheckOutput struct {
	Selection state.Selection `json:"selection"`
	Notice    string          `json:"notice,omitempty"`
	Rooms     []render.Card   `json:"rooms"`
}

func checkCmd() *cobra.Command {
	var campus string
	var building string
	var search string
	var date string
	var clock string
	var duration int
	var onlyAvailable bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check room availability for a date, time and duration",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			ctrl, err := loadController(ctx)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			if err := selectTarget(ctrl, campus, building); err != nil {
				return err
			}
			if date != "" {
				day, err := parseDateInput(date, time.Now())
				if err != nil {
					return err
				}
				if err := ctrl.SetDate(day); err != nil {
					return err
				}
			}
			if clock != "" {
				if err := ctrl.SetTime(clock); err != nil {
					return err
				}
			}
			if err := ctrl.SetDuration(duration); err != nil {
				return err
			}
			ctrl.SetSearch(search)

			if !outputJSON {
				unsubscribe := ctrl.Subscribe(progressPrinter())
				defer unsubscribe()
			}

			if err := ctrl.CheckAvailability(ctx); err != nil {
				return err
			}

			snap := ctrl.Snapshot()
			visible := snap.Visible
			if onlyAvailable {
				visible = nil
				for _, sp := range snap.Visible {
					if sp.Availability == rooms.Available {
						visible = append(visible, sp)
					}
				}
			}
			cards := render.Cards(visible, render.Options{
				Language:           snap.Language,
				Date:               snap.Selection.Date,
				Search:             snap.Selection.Search,
				ReservationBaseURL: cfg.ReservationBaseURL,
			})

			if outputJSON {
				return writeJSON(CheckOutput{Selection: snap.Selection, Notice: snap.Notice, Rooms: cards})
			}
			if snap.Notice != "" {
				fmt.Fprintln(os.Stderr, snap.Notice)
			}
			return render.Text(os.Stdout, cards, snap.Language, outputCompact, render.TerminalWidth(os.Stdout))
		},
	}

	cmd.Flags().StringVar(&campus, "campus", "", "Campus name")
	cmd.Flags().StringVar(&building, "building", "", "Building id, short code or name")
	cmd.Flags().StringVar(&search, "search", "", "Filter by room name, label or category")
	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, today or tomorrow; default today)")
	cmd.Flags().StringVar(&clock, "time", "", "Start time (HH:MM; default next half hour)")
	cmd.Flags().IntVar(&duration, "duration", state.DefaultDuration, "Duration in minutes (30-720, 30 minute steps)")
	cmd.Flags().BoolVar(&onlyAvailable, "available", false, "Only show available rooms")
	return cmd
}

// progressPrinter reports checked rooms on stderr as batches complete.
func progressPrinter() func(state.Snapshot) {
	return func(snap state.Snapshot) {
		if !snap.Loading || len(snap.Visible) == 0 {
			return
		}
		checked := 0
		for _, sp := range snap.Visible {
			if sp.Availability != rooms.Unknown {
				checked++
			}
		}
		fmt.Fprintf(os.Stderr, "checked %d/%d rooms\n", checked, len(snap.Visible))
	}
}
