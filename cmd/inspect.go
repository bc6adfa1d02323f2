package cmd

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/lesplan/untis-tabulator/internal"
	"github.com/spf13/cobra"
)

var (
	inspectOffline     bool
	inspectMergePolicy string

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Padding(0, 1)

	mismatchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Padding(0, 1)

	plainStyle = lipgloss.NewStyle().Padding(0, 1)
)

// courseSummary is one line of the inspect report
type courseSummary struct {
	Slug       string
	Groups     string
	Duration   string
	Sessions   int
	Contents   int
	First      string
	Last       string
	Shortfalls int
	Unused     int
}

func (s courseSummary) status() string {
	switch {
	case s.Shortfalls > 0:
		return fmt.Sprintf("%d session(s) without content", s.Shortfalls)
	case s.Unused > 0:
		return fmt.Sprintf("%d content entr(ies) unused", s.Unused)
	default:
		return "ok"
	}
}

// summarize builds one summary per course; the mismatch counts come from the diagnostics
// recorded while aligning schedule with catalog
func summarize(schedule *internal.Schedule, catalog *internal.Catalog, recorder *internal.DiagnosticsRecorder) []courseSummary {
	var summaries []courseSummary
	for _, slug := range catalog.Slugs() {
		course, _ := catalog.Get(slug)
		sessions := schedule.Sessions(slug)
		s := courseSummary{
			Slug:     slug,
			Groups:   course.Groups.Key(),
			Duration: course.Duration.String(),
			Sessions: len(sessions),
			Contents: course.Contents.Len(),
			First:    "-",
			Last:     "-",
		}
		if len(sessions) > 0 {
			s.First = sessions[0].Format(internal.MomentLayout)
			s.Last = sessions[len(sessions)-1].Format(internal.MomentLayout)
		}
		for _, d := range recorder.ForCourse(slug) {
			switch d.Kind {
			case internal.KindContentShortfall:
				s.Shortfalls++
			case internal.KindContentSurplus:
				s.Unused = d.Contents - d.Sessions
			}
		}
		summaries = append(summaries, s)
	}
	return summaries
}

func renderSummaries(summaries []courseSummary) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("COURSE", "GROUPS", "LENGTH", "SESSIONS", "CONTENTS", "FIRST", "LAST", "STATUS").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 7 && row >= 0 && row < len(summaries) {
				if summaries[row].status() == "ok" {
					return okStyle
				}
				return mismatchStyle
			}
			return plainStyle
		})

	for _, s := range summaries {
		t.Row(s.Slug, s.Groups, s.Duration, strconv.Itoa(s.Sessions), strconv.Itoa(s.Contents), s.First, s.Last, s.status())
	}
	return t.Render()
}

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <course-file>",
	Short: "Compare confirmed sessions with planned contents per course",
	Long: `Show, for every course in the course file, how many sessions were confirmed in the
timetable and how many content entries are planned, so mismatches can be fixed before
building the table.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := internal.LoadConfig()
		if err != nil {
			return err
		}
		if inspectMergePolicy != "" {
			cfg.MergePolicy = inspectMergePolicy
		}
		policy, err := internal.ParseMergePolicy(cfg.MergePolicy)
		if err != nil {
			return err
		}

		catalog, err := internal.LoadCatalog(args[0])
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		source, err := openProvider(ctx, cfg, providerOptions{offline: inspectOffline})
		if err != nil {
			return err
		}
		defer source.Close()
		if err := source.SignIn(ctx, catalog); err != nil {
			return err
		}

		reconciler := internal.NewReconciler(source.Provider(),
			internal.WithMergePolicy(policy),
			internal.WithConcurrency(cfg.Concurrency),
		)
		schedule, err := reconciler.CollectSchedule(ctx, catalog)
		if err != nil {
			return err
		}
		recorder := internal.NewDiagnosticsRecorder(nil)
		internal.Align(schedule, catalog, recorder)

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%s (merge policy: %s)", args[0], policy)))
		fmt.Fprintln(out, renderSummaries(summarize(schedule, catalog, recorder)))
		for _, d := range recorder.Events() {
			fmt.Fprintln(out, mismatchStyle.Render(d.String()))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().BoolVar(&inspectOffline, "offline", false, "Only use timetable snapshots, never contact WebUntis")
	inspectCmd.Flags().StringVar(&inspectMergePolicy, "merge-policy", "", "Which periods are merged: any or single (default from config)")
}
