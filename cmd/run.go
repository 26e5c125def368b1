package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/abhisek/coursekit/internal/api"
	"github.com/abhisek/coursekit/internal/app"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Browse the course catalogue (default)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "", "")
	},
}

var learnCmd = &cobra.Command{
	Use:   "learn <courseId>",
	Short: "Open a course in the learning view",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		chapter, _ := cmd.Flags().GetString("chapter")
		return runApp(cmd, args[0], chapter)
	},
}

func init() {
	learnCmd.Flags().String("chapter", "", "Chapter ID to open first")
}

// runApp opens the store, builds the client and launches the TUI. On exit
// it prints the command that resumes at the last chapter.
func runApp(cmd *cobra.Command, courseID, chapterID string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) || !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("coursekit needs an interactive terminal; use the courses, course or progress commands instead")
	}

	ctx := cmd.Context()
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	events := st.EventRepo()
	client := newClient(events)

	opts := app.Options{
		Context:       ctx,
		Backend:       client,
		BaseURL:       client.BaseURL(),
		Events:        events,
		Logger:        logger,
		SessionID:     sessionID,
		Authenticated: api.Authenticated(ctx, client.Tokens(), time.Now()),
		DwellDelay:    cfg.DwellDelay,
		CourseID:      courseID,
		ChapterID:     chapterID,
	}
	if courseID != "" {
		if course, err := client.Course(ctx, courseID); err == nil {
			opts.CourseTitle = course.Title
		} else {
			logger.Warn("get course failed", "course_id", courseID, "err", err)
		}
	}

	logger.Info("session start", "course_id", courseID, "authenticated", opts.Authenticated)
	res, err := app.Run(opts)
	logger.Info("session end", "course_id", res.CourseID, "chapter_id", res.ChapterID)

	if res.CourseID != "" && res.ChapterID != "" {
		fmt.Printf("Continue where you left off:\n  coursekit learn %s --chapter %s\n", res.CourseID, res.ChapterID)
	}
	return err
}
