package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/coursekit/internal/store"
	"github.com/spf13/cobra"
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Inspect the local activity log",
}

var activityListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent backend calls and learning events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		kind, _ := cmd.Flags().GetString("kind")
		course, _ := cmd.Flags().GetString("course")
		session, _ := cmd.Flags().GetString("session")

		switch kind {
		case "", "requests", "learning":
		default:
			return fmt.Errorf("invalid kind %q: must be requests or learning", kind)
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		r := st.EventReader()

		if kind == "" || kind == "learning" {
			events, err := r.Learning(ctx, store.QueryOpts{Limit: limit, CourseID: course, SessionID: session})
			if err != nil {
				return fmt.Errorf("query learning events: %w", err)
			}
			printLearning(out, events)
		}
		if kind == "" {
			fmt.Fprintln(out)
		}
		if kind == "" || kind == "requests" {
			events, err := r.Requests(ctx, store.QueryOpts{Limit: limit, SessionID: session})
			if err != nil {
				return fmt.Errorf("query request events: %w", err)
			}
			printRequests(out, events)
		}
		return nil
	},
}

var activityStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize backend calls and learning events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		course, _ := cmd.Flags().GetString("course")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		r := st.EventReader()

		routes, err := r.RequestStats(ctx, store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query request stats: %w", err)
		}
		kinds, err := r.LearningStats(ctx, store.QueryOpts{CourseID: course})
		if err != nil {
			return fmt.Errorf("query learning stats: %w", err)
		}
		printStats(out, routes, kinds)
		return nil
	},
}

func init() {
	activityListCmd.Flags().IntP("limit", "n", 20, "Number of events to show per table")
	activityListCmd.Flags().StringP("kind", "k", "", "Only show requests or learning events")
	activityListCmd.Flags().String("course", "", "Only show learning events for this course")
	activityListCmd.Flags().String("session", "", "Only show events of one coursekit invocation")
	activityStatsCmd.Flags().String("course", "", "Only count learning events for this course")

	activityCmd.AddCommand(activityListCmd)
	activityCmd.AddCommand(activityStatsCmd)
}

func printLearning(w io.Writer, events []store.LearningEvent) {
	fmt.Fprintln(w, "Learning")
	if len(events) == 0 {
		fmt.Fprintln(w, "No learning events recorded yet.")
		return
	}
	fmt.Fprintf(w, "%-5s  %-19s  %-16s  %-24s  %-24s  %s\n",
		"ID", "Recorded", "Kind", "Course", "Chapter", "Result")
	fmt.Fprintln(w, strings.Repeat("─", 100))
	for _, e := range events {
		result := ""
		if e.Kind == store.KindQuizSubmit {
			result = fmt.Sprintf("%d/%d", e.Score, e.Total)
			if e.Passed {
				result += " ✓"
			}
		}
		fmt.Fprintf(w, "%-5d  %-19s  %-16s  %-24s  %-24s  %s\n",
			e.ID,
			e.RecordedAt.Local().Format("2006-01-02 15:04:05"),
			e.Kind,
			truncate(e.CourseID, 24),
			truncate(e.ChapterID, 24),
			result,
		)
	}
}

func printRequests(w io.Writer, events []store.RequestEvent) {
	fmt.Fprintln(w, "Requests")
	if len(events) == 0 {
		fmt.Fprintln(w, "No requests recorded yet.")
		return
	}
	fmt.Fprintf(w, "%-5s  %-19s  %-6s  %-48s  %-6s  %-7s  %s\n",
		"ID", "Recorded", "Method", "Route", "Status", "Ms", "OK")
	fmt.Fprintln(w, strings.Repeat("─", 110))
	for _, e := range events {
		ok := "✓"
		if !e.Success {
			ok = "✗"
		}
		fmt.Fprintf(w, "%-5d  %-19s  %-6s  %-48s  %-6d  %-7d  %s\n",
			e.ID,
			e.RecordedAt.Local().Format("2006-01-02 15:04:05"),
			e.Method,
			truncate(e.Route, 48),
			e.Status,
			e.LatencyMs,
			ok,
		)
	}
}

func printStats(w io.Writer, routes []store.RouteStats, kinds []store.KindCount) {
	fmt.Fprintln(w, "Requests by Route")
	fmt.Fprintln(w, strings.Repeat("─", 80))
	fmt.Fprintf(w, "%-6s  %-48s  %6s  %8s  %8s\n", "Method", "Route", "Calls", "Failures", "Avg Ms")
	fmt.Fprintln(w, strings.Repeat("─", 80))
	var calls, failures int
	for _, s := range routes {
		fmt.Fprintf(w, "%-6s  %-48s  %6d  %8d  %8.0f\n",
			s.Method, truncate(s.Route, 48), s.Calls, s.Failures, s.AvgLatencyMs)
		calls += s.Calls
		failures += s.Failures
	}
	fmt.Fprintln(w, strings.Repeat("─", 80))
	fmt.Fprintf(w, "%-6s  %-48s  %6d  %8d\n", "TOTAL", "", calls, failures)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Learning Events")
	fmt.Fprintln(w, strings.Repeat("─", 32))
	if len(kinds) == 0 {
		fmt.Fprintln(w, "None recorded yet.")
		return
	}
	for _, k := range kinds {
		fmt.Fprintf(w, "%-20s  %10d\n", k.Kind, k.Count)
	}
}
