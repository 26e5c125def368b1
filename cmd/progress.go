package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/coursekit/internal/api"
	"github.com/abhisek/coursekit/internal/progress"
	"github.com/abhisek/coursekit/internal/report"
	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:   "progress <courseId>",
	Short: "Show your completion of a course",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		xlsx, _ := cmd.Flags().GetString("xlsx")
		courseID := args[0]

		if err := requireAuth(cmd.Context()); err != nil {
			return err
		}
		return withClient(cmd, func(ctx context.Context, c *api.Client) error {
			cur, err := c.Curriculum(ctx, courseID)
			if err != nil {
				return fmt.Errorf("get curriculum: %w", err)
			}
			ids, err := c.Progress(ctx, courseID)
			if err != nil {
				return fmt.Errorf("get progress: %w", err)
			}

			title := courseID
			if course, err := c.Course(ctx, courseID); err == nil {
				title = course.Title
			} else {
				logger.Warn("get course failed", "course_id", courseID, "err", err)
			}

			r := report.Build(courseID, title, cur, progress.NewSet(ids...))
			printReport(cmd.OutOrStdout(), r)

			if xlsx != "" {
				if err := r.SaveXLSX(xlsx); err != nil {
					return fmt.Errorf("export report: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\nReport written to %s\n", xlsx)
			}
			return nil
		})
	},
}

func init() {
	progressCmd.Flags().String("xlsx", "", "Also export the report to this .xlsx file")
}

func printReport(w io.Writer, r report.Report) {
	fmt.Fprintf(w, "%s: %d/%d chapters (%.1f%%)\n", r.CourseTitle, r.Completed, r.Total, r.Percent())
	fmt.Fprintln(w, strings.Repeat("─", 72))
	fmt.Fprintf(w, "%-7s  %-40s  %-6s  %s\n", "Chapter", "Title", "Type", "Done")
	fmt.Fprintln(w, strings.Repeat("─", 72))

	for _, row := range r.Rows {
		done := " "
		if row.Completed {
			done = "✓"
		}
		fmt.Fprintf(w, "%-7s  %-40s  %-6s  %s\n",
			row.Position.Label(), truncate(row.ChapterTitle, 40), row.Type.Label(), done)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-40s  %9s\n", "Section", "Completed")
	fmt.Fprintln(w, strings.Repeat("─", 52))
	for i, s := range r.Sections {
		fmt.Fprintf(w, "%-40s  %9s\n",
			truncate(fmt.Sprintf("%d. %s", i+1, s.Title), 40), fmt.Sprintf("%d/%d", s.Completed, s.Total))
	}
}
