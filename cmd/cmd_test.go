package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/coursekit/internal/api"
	"github.com/abhisek/coursekit/internal/curriculum"
	"github.com/abhisek/coursekit/internal/progress"
	"github.com/abhisek/coursekit/internal/report"
	"github.com/abhisek/coursekit/internal/store"
)

func quizChapter() curriculum.Chapter {
	return curriculum.Chapter{
		ID:    "q1",
		Title: "Check",
		Type:  curriculum.TypeQuiz,
		Questions: []curriculum.Question{
			{Question: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: 1},
			{Question: "Capital of France?", Options: []string{"Paris", "Rome", "Oslo"}, CorrectAnswer: 0},
			{Question: "Blue is a colour?", Options: []string{"yes", "no"}, CorrectAnswer: 0},
		},
	}
}

func sampleCurriculum() curriculum.Curriculum {
	return curriculum.Curriculum{
		{ID: "s1", Title: "Basics", Chapters: []curriculum.Chapter{
			{ID: "v1", Title: "Welcome", Type: curriculum.TypeVideo, IsFree: true},
			{ID: "t1", Title: "Reading", Type: curriculum.TypeText},
		}},
		{ID: "s2", Title: "Practice", Chapters: []curriculum.Chapter{quizChapter()}},
		{ID: "s3", Title: "Coming soon"},
	}
}

func TestRunQuizPreview_AllCorrect(t *testing.T) {
	var out bytes.Buffer
	p, err := runQuizPreview(strings.NewReader("2\n1\n1\n"), &out, quizChapter())
	require.NoError(t, err)

	assert.True(t, p.Submitted())
	assert.Equal(t, 3, p.Score())
	assert.True(t, p.Passed())
	assert.Contains(t, out.String(), "Score: 3/3, passed")
}

func TestRunQuizPreview_RepromptsAndSkips(t *testing.T) {
	var out bytes.Buffer
	p, err := runQuizPreview(strings.NewReader("9\nx\n2\n\n1\n"), &out, quizChapter())
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(out.String(), "Enter a number from 1 to 2."))
	assert.Contains(t, out.String(), "(skipped)")
	_, answered := p.Answer(1)
	assert.False(t, answered)
	assert.Equal(t, 2, p.Score())
	assert.False(t, p.Passed(), "2/3 is below the pass threshold")
	assert.Contains(t, out.String(), "not passed (70% needed)")
}

func TestRunQuizPreview_Retake(t *testing.T) {
	var out bytes.Buffer
	p, err := runQuizPreview(strings.NewReader("1\n1\n2\ny\n2\n1\n1\nn\n"), &out, quizChapter())
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "Score: 1/3, not passed")
	assert.Equal(t, 2, strings.Count(s, "Try again? [y/N]"))
	assert.Equal(t, 2, strings.Count(s, "── Results ──"))
	assert.True(t, p.Submitted())
	assert.Equal(t, 3, p.Score(), "the retake is graded afresh")
	assert.True(t, p.Passed())
}

func TestRunQuizPreview_DeclineRetake(t *testing.T) {
	var out bytes.Buffer
	p, err := runQuizPreview(strings.NewReader("2\n1\n1\n\n"), &out, quizChapter())
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(out.String(), "── Results ──"))
	assert.Equal(t, 3, p.Score())
}

func TestRunQuizPreview_InputClosed(t *testing.T) {
	var out bytes.Buffer
	p, err := runQuizPreview(strings.NewReader("2\n"), &out, quizChapter())
	require.NoError(t, err)

	assert.Contains(t, out.String(), "(input closed)")
	assert.Equal(t, 1, p.Score())
}

func TestRunQuizPreview_NoQuestions(t *testing.T) {
	var out bytes.Buffer
	p, err := runQuizPreview(strings.NewReader(""), &out, curriculum.Chapter{Title: "Empty", Type: curriculum.TypeQuiz})
	require.NoError(t, err)

	assert.False(t, p.Submitted())
	assert.Contains(t, out.String(), "no questions")
}

func TestPrintCourse(t *testing.T) {
	var out bytes.Buffer
	printCourse(&out, api.Course{
		ID:             "c1",
		Title:          "Go Fundamentals",
		InstructorName: "Ada",
		Category:       "Programming",
		AverageRating:  4.5,
		RatingsCount:   12,
	}, sampleCurriculum())

	s := out.String()
	assert.Contains(t, s, "by Ada · Programming · ★ 4.5 (12)")
	assert.Contains(t, s, "Curriculum: 3 sections · 3 chapters")
	assert.Contains(t, s, "1.1    ▶ Welcome  free")
	assert.Contains(t, s, "2.1    ? Check")
	assert.Contains(t, s, "(no chapters yet)")
}

func TestPrintCourses(t *testing.T) {
	var out bytes.Buffer
	printCourses(&out, []api.Course{
		{ID: "c1", Title: "Go Fundamentals", InstructorName: "Ada", Progress: 66.6},
	}, true)

	assert.Contains(t, out.String(), "Progress")
	assert.Contains(t, out.String(), "67%")
}

func TestPrintReport(t *testing.T) {
	r := report.Build("c1", "Go Fundamentals", sampleCurriculum(), progress.NewSet("v1", "q1"))

	var out bytes.Buffer
	printReport(&out, r)

	s := out.String()
	assert.Contains(t, s, "Go Fundamentals: 2/3 chapters (66.7%)")
	assert.Contains(t, s, "1. Basics")
	assert.Contains(t, s, "1/2")
	assert.Contains(t, s, "3. Coming soon")
	assert.Contains(t, s, "0/0")
}

func TestPrintStats(t *testing.T) {
	var out bytes.Buffer
	printStats(&out,
		[]store.RouteStats{
			{Method: "GET", Route: "/api/courses/{courseId}/curriculum", Calls: 3, Failures: 1, AvgLatencyMs: 12},
			{Method: "POST", Route: "/api/courses/{courseId}/chapters/{chapterId}/complete", Calls: 2},
		},
		[]store.KindCount{{Kind: store.KindChapterComplete, Count: 2}},
	)

	s := out.String()
	assert.Contains(t, s, "TOTAL")
	assert.Regexp(t, `TOTAL\s+5\s+1`, s)
	assert.Contains(t, s, "chapter_complete")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Wate…", truncate("Watercolour", 5))
	assert.Equal(t, "Wätercolour", truncate("Wätercolour", 11))
}

func TestResolvedVersion(t *testing.T) {
	old := version
	t.Cleanup(func() { version = old })

	version = "v1.2.3"
	assert.Equal(t, "v1.2.3", resolvedVersion())

	version = ""
	assert.NotEmpty(t, resolvedVersion())
}
