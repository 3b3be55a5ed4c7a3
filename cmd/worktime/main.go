package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/warp/worktime-engine/config"
	"github.com/warp/worktime-engine/store/sqlite"
)

// app carries what every subcommand needs once the root has opened the store.
type app struct {
	cfg   *config.Config
	store *sqlite.Store
	loc   *time.Location
	now   func() time.Time
}

func newRootCmd() *cobra.Command {
	a := &app{now: time.Now}

	var (
		configPath string
		dbPath     string
		timezone   string
	)

	rootCmd := &cobra.Command{
		Use:   "worktime",
		Short: "Worked hours, credited days and pay from the command line",
		Long: `worktime records attendance per calendar day and computes worked seconds,
credited vacation/holiday/sick days and pay, using the same SQLite database
as the HTTP server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a.cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			if dbPath != "" {
				a.cfg.DatabasePath = dbPath
			}
			if timezone != "" {
				a.cfg.Timezone = timezone
			}
			if a.loc, err = a.cfg.Location(); err != nil {
				return err
			}
			a.store, err = sqlite.NewWithLocation(a.cfg.DatabasePath, a.loc)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.store != nil {
				return a.store.Close()
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "worktime.yaml", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&timezone, "tz", "", "IANA timezone for day keys (overrides config)")

	rootCmd.AddCommand(newDayCmd(a))
	rootCmd.AddCommand(newSummaryCmd(a))
	rootCmd.AddCommand(newExportCmd(a))
	rootCmd.AddCommand(newSettingsCmd(a))
	rootCmd.AddCommand(newNetCmd())

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
