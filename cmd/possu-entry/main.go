package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"possu/internal/calendar"
	"possu/internal/cli"
	"possu/internal/config"
	"possu/internal/log"
)

var (
	flagLogLevel  string
	flagYearsBack int
	flagPreselect string

	logger *log.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "possu-entry",
	Short:         "Record dated entries from the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger = cli.SetupLogger(flagLogLevel, log.ComponentCLI, os.Stderr)
		c, err := cli.LoadConfig()
		if err != nil {
			return err
		}
		cfg = c
		if !cmd.Flags().Changed("years-back") {
			flagYearsBack = cfg.EntryRangeYearsBack
		}
		if flagYearsBack < 1 {
			return fmt.Errorf("--years-back must be at least 1, got %d", flagYearsBack)
		}
		return nil
	},
}

func init() {
	cli.LoadEnvFile()
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().IntVar(&flagYearsBack, "years-back", 5, "How many years before today may be picked")
	rootCmd.PersistentFlags().StringVar(&flagPreselect, "preselect", "", "Date the picker starts at (YYYY-MM-DD or RFC 3339), today when empty")
	rootCmd.AddCommand(pickCmd, addCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// entryRange ends at now and starts yearsBack years earlier.
func entryRange(now time.Time, yearsBack int) calendar.Range {
	return calendar.NewRange(now.AddDate(-yearsBack, 0, 0), now)
}
