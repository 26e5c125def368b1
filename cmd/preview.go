package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/abhisek/coursekit/internal/api"
	"github.com/abhisek/coursekit/internal/curriculum"
	"github.com/abhisek/coursekit/internal/quiz"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview <courseId> <chapterId>",
	Short: "Take a quiz chapter locally, without recording anything",
	Long: `Answer a quiz chapter on stdin and grade it locally.

Nothing is sent to the backend beyond fetching the curriculum: no
submission, no completion, no attempt history.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *api.Client) error {
			cur, err := c.Curriculum(ctx, args[0])
			if err != nil {
				return fmt.Errorf("get curriculum: %w", err)
			}
			ch, ok := cur.FindChapter(curriculum.ID(args[1]))
			if !ok {
				return fmt.Errorf("chapter %s not found in course %s", args[1], args[0])
			}
			if ch.Type != curriculum.TypeQuiz {
				return fmt.Errorf("chapter %s is a %s chapter, not a quiz", args[1], ch.Type.Label())
			}
			_, err = runQuizPreview(cmd.InOrStdin(), cmd.OutOrStdout(), ch)
			return err
		})
	},
}

// runQuizPreview asks each question on in and prints the graded result,
// then offers a retake. A blank answer skips the question; it counts as
// wrong.
func runQuizPreview(in io.Reader, out io.Writer, ch curriculum.Chapter) (*quiz.Preview, error) {
	p := quiz.NewPreview(ch.Questions)
	if len(ch.Questions) == 0 {
		fmt.Fprintln(out, "This quiz has no questions yet.")
		return p, nil
	}

	scanner := bufio.NewScanner(in)
	fmt.Fprintf(out, "Quiz: %s (%d questions)\n\n", ch.Title, len(ch.Questions))

	for {
		finished, err := askQuestions(scanner, out, p)
		if err != nil {
			return p, err
		}
		if err := scanner.Err(); err != nil {
			return p, fmt.Errorf("read answers: %w", err)
		}
		printResults(out, p)
		if !finished {
			return p, nil
		}

		fmt.Fprint(out, "\nTry again? [y/N] ")
		if !scanner.Scan() || !strings.EqualFold(strings.TrimSpace(scanner.Text()), "y") {
			fmt.Fprintln(out)
			return p, scanner.Err()
		}
		p.Reset()
		fmt.Fprintln(out)
	}
}

// askQuestions reads one answer per question. It reports false when the
// input ran out before every question was asked.
func askQuestions(scanner *bufio.Scanner, out io.Writer, p *quiz.Preview) (bool, error) {
	questions := p.Questions()
	for i, q := range questions {
		fmt.Fprintf(out, "── Question %d/%d ──\n", i+1, len(questions))
		fmt.Fprintln(out, q.Question)
		for j, opt := range q.Options {
			fmt.Fprintf(out, "  %d) %s\n", j+1, opt)
		}

		for {
			fmt.Fprint(out, "\nYour answer: ")
			if !scanner.Scan() {
				fmt.Fprintln(out, "\n(input closed)")
				return false, nil
			}
			answer := strings.TrimSpace(scanner.Text())
			if answer == "" {
				fmt.Fprintln(out, "(skipped)")
				break
			}
			n, err := strconv.Atoi(answer)
			if err == nil {
				err = p.Select(i, n-1)
			}
			if err == nil {
				break
			}
			if errors.Is(err, quiz.ErrLocked) {
				return false, err
			}
			fmt.Fprintf(out, "Enter a number from 1 to %d.", len(q.Options))
		}
		fmt.Fprintln(out)
	}
	return true, nil
}

func printResults(out io.Writer, p *quiz.Preview) {
	questions := p.Questions()
	score := p.Submit()
	fmt.Fprintln(out, "── Results ──")
	for i, q := range questions {
		mark := "✗"
		if p.Correct(i) {
			mark = "✓"
		}
		fmt.Fprintf(out, "%s %d. %s  (answer: %s)\n", mark, i+1, q.Question, optionText(q, q.CorrectAnswer))
	}

	verdict := "not passed"
	if p.Passed() {
		verdict = "passed"
	}
	fmt.Fprintf(out, "\nScore: %d/%d, %s (%.0f%% needed)\n", score, len(questions), verdict, quiz.PassThreshold*100)
}

func optionText(q curriculum.Question, i int) string {
	if i < 0 || i >= len(q.Options) {
		return "?"
	}
	return fmt.Sprintf("%d) %s", i+1, q.Options[i])
}
