package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lesplan/untis-tabulator/internal"
	"github.com/lesplan/untis-tabulator/internal/export"
	"github.com/spf13/cobra"
)

var (
	format      string
	outputPath  string
	byCourse    bool
	orderName   string
	offline     bool
	clearCache  bool
	mergePolicy string
	username    string
)

// tabulateCmd represents the tabulate command
var tabulateCmd = &cobra.Command{
	Use:   "tabulate <course-file>",
	Short: "Build the session table for a course file",
	Long: `Fetch the timetable of every course in the course file, confirm the sessions whose
class groups and length match the course, and pair each session with its planned content.

Formats: html (interactive page), csv (semicolon separated), md, json, jsonl, yaml,
ics (calendar) and table (terminal).

Rows are sorted chronologically unless --order course (or --by-course) is given. When
--out names a directory the table is written there as sessions.<ext>.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}
		order, err := internal.ParseOrder(orderName)
		if err != nil {
			return err
		}
		if byCourse {
			order = internal.OrderByCourse
		}

		cfg, err := internal.LoadConfig()
		if err != nil {
			return err
		}
		if mergePolicy != "" {
			cfg.MergePolicy = mergePolicy
		}
		policy, err := internal.ParseMergePolicy(cfg.MergePolicy)
		if err != nil {
			return err
		}

		path, err := outputFile(outputPath, exporter)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		source, err := openProvider(ctx, cfg, providerOptions{
			offline:    offline,
			clearCache: clearCache,
			username:   username,
		})
		if err != nil {
			return err
		}
		defer source.Close()

		recorder := internal.NewDiagnosticsRecorder(internal.LogDiagnostics{})
		reconciler := internal.NewReconciler(source.Provider(),
			internal.WithMergePolicy(policy),
			internal.WithConcurrency(cfg.Concurrency),
			internal.WithDiagnostics(recorder),
		)

		var (
			catalog *internal.Catalog
			table   *internal.Table
		)
		steps := []internal.ProgressStep{{
			Message: "Loading course file " + args[0],
			Fn: func() error {
				var err error
				if catalog, err = internal.LoadCatalog(args[0]); err != nil {
					return err
				}
				internal.LogDebug("Loaded %d course(s) from %s", catalog.Len(), args[0])
				return nil
			},
		}}
		if !offline {
			steps = append(steps, internal.ProgressStep{
				Message:     "Signing in to " + cfg.Server,
				Interactive: true,
				Fn: func() error {
					return source.SignIn(ctx, catalog)
				},
			})
		}
		steps = append(steps,
			internal.ProgressStep{
				Message: "Reconciling timetables",
				Fn: func() error {
					records, err := reconciler.Reconcile(ctx, catalog)
					if err != nil {
						return err
					}
					table = internal.NewTable(records, order)
					return nil
				},
			},
			internal.ProgressStep{
				Message: "Writing table as " + format,
				Fn: func() error {
					return writeTable(cmd, exporter, table, path)
				},
			},
		)
		if err := internal.ShowProgressWithSteps(ctx, steps); err != nil {
			return err
		}

		if events := recorder.Events(); len(events) > 0 {
			for _, e := range events {
				internal.LogDebug("mismatch: %s", e)
			}
			internal.PrintWarning(fmt.Sprintf("%d content mismatch(es); run 'untis-tabulator inspect' for details", len(events)))
		}
		if path != "" && path != "-" {
			internal.PrintSuccess(fmt.Sprintf("Wrote %d session(s) for %d course(s) to %s", len(table.Rows), len(table.Courses()), path))
		}
		return nil
	},
}

// outputFile resolves the -o flag: a directory (existing, or given with a trailing
// separator) gets sessions.<ext> for the chosen format
func outputFile(path string, exporter export.Exporter) (string, error) {
	if path == "" || path == "-" {
		return path, nil
	}
	isDir := strings.HasSuffix(path, string(filepath.Separator))
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		isDir = true
	}
	if !isDir {
		return path, nil
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return filepath.Join(path, "sessions."+exporter.Extension()), nil
}

// writeTable exports the table to path, or to the command output when path is empty or "-"
func writeTable(cmd *cobra.Command, exporter export.Exporter, table *internal.Table, path string) error {
	if path == "" || path == "-" {
		return exporter.Export(table, cmd.OutOrStdout())
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := exporter.Export(table, file); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to export table: %w", err)
	}
	return file.Close()
}

func init() {
	rootCmd.AddCommand(tabulateCmd)
	tabulateCmd.Flags().StringVarP(&format, "format", "f", "html", "Output format (html, csv, md, json, jsonl, yaml, ics, table)")
	tabulateCmd.Flags().StringVarP(&outputPath, "out", "o", "", "Output file or directory (default: standard output)")
	tabulateCmd.Flags().StringVar(&orderName, "order", "chronological", "Row order: chronological or course")
	tabulateCmd.Flags().BoolVar(&byCourse, "by-course", false, "Shorthand for --order course")
	tabulateCmd.Flags().BoolVar(&offline, "offline", false, "Only use timetable snapshots, never contact WebUntis")
	tabulateCmd.Flags().BoolVar(&clearCache, "clear-cache", false, "Clear the timetable snapshots before running")
	tabulateCmd.Flags().StringVar(&mergePolicy, "merge-policy", "", "Which periods are merged: any or single (default from config)")
	tabulateCmd.Flags().StringVarP(&username, "username", "u", "", "WebUntis username (default from config)")
}
