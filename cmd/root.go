package cmd

import (
	"fmt"
	"os"

	"jyu-rooms/api"
	"jyu-rooms/config"
	"jyu-rooms/i18n"
	"jyu-rooms/logger"

	"github.com/spf13/cobra"
)

var (
	outputJSON    bool
	outputCompact bool
	verbose       bool
	langFlag      string
	cfg           = config.Default()
	cfgErr        error
	client        = api.NewClient()
	log           = logger.Discard()
)

var rootCmd = &cobra.Command{
	Use:   "jyu-rooms",
	Short: "Find bookable rooms at JYU and check their availability",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if outputJSON && outputCompact {
			return fmt.Errorf("choose either --json or --compact")
		}
		if cfgErr != nil {
			return fmt.Errorf("load config: %w", cfgErr)
		}
		if langFlag != "" {
			if _, ok := i18n.Parse(langFlag); !ok {
				return fmt.Errorf("--lang must be fi or en, got %q", langFlag)
			}
		}
		if verbose {
			log = logger.NewStderr(true)
		}
		client = newClient()
		return nil
	},
	SilenceUsage: true,
}

func Execute() {
	cobra.OnInitialize(initConfig)
	rootCmd.AddCommand(campusesCmd())
	rootCmd.AddCommand(buildingsCmd())
	rootCmd.AddCommand(spacesCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output JSON")
	rootCmd.PersistentFlags().BoolVar(&outputCompact, "compact", false, "Output compact text")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log requests and retries to stderr")
	rootCmd.PersistentFlags().StringVar(&langFlag, "lang", "", "Language for names and categories (fi or en)")
}

func initConfig() {
	cfg, cfgErr = config.Load()
}
