package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/lesplan/untis-tabulator/internal"
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	logFile      string
	snapshotPath string
	version      string = "dev"
	commit       string = "unknown"
	date         string = "unknown"

	closeLogFile func() error
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "untis-tabulator",
	Short: "Pair WebUntis sessions with planned course contents",
	Long: `Reconcile a WebUntis timetable with a course file and produce a table that pairs
every confirmed session with the content planned for it.

A course file lists, per course, the WebUntis subject, the semester, the class groups
that must attend, the length of one session and the contents of each session.
Adjacent timetable periods of the same groups are merged before matching, so a double
period counts as one session.

Quick Start:
  untis-tabulator tabulate courses.yaml > sessions.html
  untis-tabulator tabulate courses.yaml --format csv --by-course
  untis-tabulator inspect courses.yaml`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		internal.SetVerbose(verbose)
		if logFile != "" {
			closer, err := internal.SetLogFile(logFile)
			if err != nil {
				return err
			}
			closeLogFile = closer
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if cerr := closeLog(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		internal.PrintError(err.Error())
		stop()
		os.Exit(1)
	}
}

// closeLog restores stderr logging if --log-file redirected it
func closeLog() error {
	if closeLogFile == nil {
		return nil
	}
	err := closeLogFile()
	closeLogFile = nil
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write log output to this file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&snapshotPath, "snapshot", "", "Custom location of the timetable snapshot database")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
