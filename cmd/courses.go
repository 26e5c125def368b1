package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/coursekit/internal/api"
	"github.com/abhisek/coursekit/internal/curriculum"
	"github.com/abhisek/coursekit/internal/navigation"
	"github.com/spf13/cobra"
)

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List published courses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *api.Client) error {
			courses, err := c.PublishedCourses(ctx)
			if err != nil {
				return fmt.Errorf("list courses: %w", err)
			}
			if len(courses) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No published courses.")
				return nil
			}
			printCourses(cmd.OutOrStdout(), courses, false)
			return nil
		})
	},
}

var enrolledCmd = &cobra.Command{
	Use:   "enrolled",
	Short: "List the courses you are enrolled in",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(cmd.Context()); err != nil {
			return err
		}
		return withClient(cmd, func(ctx context.Context, c *api.Client) error {
			courses, err := c.EnrolledCourses(ctx)
			if err != nil {
				return fmt.Errorf("list enrolled courses: %w", err)
			}
			if len(courses) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Not enrolled in any course yet.")
				return nil
			}
			printCourses(cmd.OutOrStdout(), courses, true)
			return nil
		})
	},
}

var enrollCmd = &cobra.Command{
	Use:   "enroll <courseId>",
	Short: "Enroll in a course",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(cmd.Context()); err != nil {
			return err
		}
		return withClient(cmd, func(ctx context.Context, c *api.Client) error {
			if err := c.Enroll(ctx, args[0]); err != nil {
				return fmt.Errorf("enroll: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Enrolled in %s.\n", args[0])
			return nil
		})
	},
}

var courseCmd = &cobra.Command{
	Use:   "course <courseId>",
	Short: "Show a course and its curriculum outline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *api.Client) error {
			course, err := c.Course(ctx, args[0])
			if err != nil {
				return fmt.Errorf("get course: %w", err)
			}
			cur, err := c.Curriculum(ctx, args[0])
			if err != nil {
				return fmt.Errorf("get curriculum: %w", err)
			}
			printCourse(cmd.OutOrStdout(), *course, cur)
			return nil
		})
	},
}

func printCourses(w io.Writer, courses []api.Course, withProgress bool) {
	if withProgress {
		fmt.Fprintf(w, "%-24s  %-32s  %-18s  %8s\n", "ID", "Title", "Instructor", "Progress")
	} else {
		fmt.Fprintf(w, "%-24s  %-32s  %-18s  %-14s  %s\n", "ID", "Title", "Instructor", "Category", "Rating")
	}
	fmt.Fprintln(w, strings.Repeat("─", 100))

	for _, c := range courses {
		if withProgress {
			fmt.Fprintf(w, "%-24s  %-32s  %-18s  %7.0f%%\n",
				c.ID, truncate(c.Title, 32), truncate(c.InstructorName, 18), c.Progress)
			continue
		}
		rating := "-"
		if c.RatingsCount > 0 {
			rating = fmt.Sprintf("%.1f (%d)", c.AverageRating, c.RatingsCount)
		}
		fmt.Fprintf(w, "%-24s  %-32s  %-18s  %-14s  %s\n",
			c.ID, truncate(c.Title, 32), truncate(c.InstructorName, 18), truncate(c.Category, 14), rating)
	}
}

func printCourse(w io.Writer, c api.Course, cur curriculum.Curriculum) {
	fmt.Fprintln(w, c.Title)
	var meta []string
	if c.InstructorName != "" {
		meta = append(meta, "by "+c.InstructorName)
	}
	if c.Category != "" {
		meta = append(meta, c.Category)
	}
	if c.RatingsCount > 0 {
		meta = append(meta, fmt.Sprintf("★ %.1f (%d)", c.AverageRating, c.RatingsCount))
	}
	if len(meta) > 0 {
		fmt.Fprintln(w, strings.Join(meta, " · "))
	}
	if d := strings.TrimSpace(c.Description); d != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, d)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Curriculum: %d sections · %d chapters\n", len(cur), cur.ChapterCount())
	fmt.Fprintln(w, strings.Repeat("─", 60))
	for si, sec := range cur {
		fmt.Fprintf(w, "%d. %s\n", si+1, sec.Title)
		if len(sec.Chapters) == 0 {
			fmt.Fprintln(w, "     (no chapters yet)")
		}
		for ci, ch := range sec.Chapters {
			free := ""
			if ch.IsFree {
				free = "  free"
			}
			pos := navigation.Position{Section: si, Chapter: ci}
			fmt.Fprintf(w, "   %-6s %s %s%s\n", pos.Label(), ch.Type.Icon(), ch.Title, free)
		}
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
