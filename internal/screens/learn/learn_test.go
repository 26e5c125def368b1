package learn

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/coursekit/internal/api"
	"github.com/abhisek/coursekit/internal/curriculum"
	"github.com/abhisek/coursekit/internal/progress"
	"github.com/abhisek/coursekit/internal/quiz"
	"github.com/abhisek/coursekit/internal/screen"
	"github.com/abhisek/coursekit/internal/store"
)

type fakeBackend struct {
	mu         sync.Mutex
	cur        curriculum.Curriculum
	curErr     error
	progress   []curriculum.ID
	attempt    *quiz.Attempt
	submission quiz.Submission
	submitErr  error

	completed []curriculum.ID
	submits   []map[int]int
}

func (b *fakeBackend) Curriculum(context.Context, string) (curriculum.Curriculum, error) {
	return b.cur, b.curErr
}

func (b *fakeBackend) Progress(context.Context, string) ([]curriculum.ID, error) {
	return b.progress, nil
}

func (b *fakeBackend) CompleteChapter(_ context.Context, _ string, id curriculum.ID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.completed = append(b.completed, id)
	return nil
}

func (b *fakeBackend) QuizAttempt(context.Context, string, curriculum.ID) (*quiz.Attempt, error) {
	return b.attempt, nil
}

func (b *fakeBackend) SubmitQuiz(_ context.Context, _ string, _ curriculum.ID, answers map[int]int) (quiz.Submission, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.submits = append(b.submits, answers)
	return b.submission, b.submitErr
}

type recordingEvents struct {
	mu       sync.Mutex
	learning []store.LearningEventData
}

func (r *recordingEvents) AppendRequest(context.Context, store.RequestEventData) error { return nil }

func (r *recordingEvents) AppendLearning(_ context.Context, data store.LearningEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.learning = append(r.learning, data)
	return nil
}

func sampleCurriculum() curriculum.Curriculum {
	return curriculum.Curriculum{
		{ID: "s1", Title: "Basics", Chapters: []curriculum.Chapter{
			{ID: "v1", Title: "Welcome", Type: curriculum.TypeVideo, Content: "/uploads/welcome.mp4", IsFree: true},
			{ID: "t1", Title: "Reading", Type: curriculum.TypeText, Content: "Go is a language."},
		}},
		{ID: "s2", Title: "Practice", Chapters: []curriculum.Chapter{
			{ID: "q1", Title: "Check", Type: curriculum.TypeQuiz, Questions: []curriculum.Question{
				{Question: "First?", Options: []string{"a", "b", "c"}, CorrectAnswer: 1},
				{Question: "Second?", Options: []string{"a", "b", "c"}, CorrectAnswer: 0},
			}},
			{ID: "p1", Title: "Handout", Type: curriculum.TypePDF, Content: "/uploads/handout.pdf"},
		}},
		{ID: "s3", Title: "Coming soon"},
	}
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// collect runs cmd and returns the messages it produces, flattening batches.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// pump feeds every produced message back into the screen until it is idle.
func pump(s *Screen, cmd tea.Cmd) []tea.Msg {
	var seen []tea.Msg
	queue := collect(cmd)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		seen = append(seen, msg)
		_, next := s.Update(msg)
		queue = append(queue, collect(next)...)
	}
	return seen
}

func press(s *Screen, msg tea.KeyPressMsg) []tea.Msg {
	_, cmd := s.Update(msg)
	return pump(s, cmd)
}

func newScreen(b *fakeBackend, auth bool, delay time.Duration) (*Screen, *recordingEvents) {
	events := &recordingEvents{}
	s := New(Options{
		Backend:       b,
		CourseID:      "c1",
		CourseTitle:   "Go 101",
		Authenticated: auth,
		BaseURL:       "https://lms.example.com",
		Dweller:       progress.NewDweller(nil, delay),
		Events:        events,
		SessionID:     "sess-1",
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return s, events
}

func loaded(t *testing.T, b *fakeBackend, auth bool, delay time.Duration) (*Screen, *recordingEvents, []tea.Msg) {
	t.Helper()
	s, events := newScreen(b, auth, delay)
	msgs := pump(s, s.Init())
	if !s.State().Loaded() {
		t.Fatal("expected curriculum to be loaded")
	}
	return s, events, msgs
}

func TestLearnScreen_LoadSelectsFirstChapter(t *testing.T) {
	b := &fakeBackend{cur: sampleCurriculum(), progress: []curriculum.ID{"p1"}}
	s, _, msgs := loaded(t, b, true, time.Millisecond)

	if s.State().ActiveID != "v1" {
		t.Errorf("ActiveID = %q, want v1", s.State().ActiveID)
	}
	if !s.State().Expanded.Has("s1") {
		t.Error("first section should be expanded")
	}
	if !s.State().Completed.Has("p1") {
		t.Error("server progress should be merged")
	}

	var loc *screen.LocationMsg
	for _, m := range msgs {
		if l, ok := m.(screen.LocationMsg); ok {
			loc = &l
		}
	}
	if loc == nil || loc.ChapterID != "v1" || loc.CourseID != "c1" {
		t.Errorf("expected location announcement for v1, got %+v", loc)
	}

	done, total := s.Progress()
	if done != 1 || total != 4 {
		t.Errorf("Progress() = %d/%d, want 1/4", done, total)
	}
	if s.Title() != "Go 101" {
		t.Errorf("Title() = %q", s.Title())
	}
}

func TestLearnScreen_RequestedChapter(t *testing.T) {
	b := &fakeBackend{cur: sampleCurriculum()}
	s, _ := newScreen(b, true, time.Millisecond)
	s.opts.ChapterID = "p1"
	pump(s, s.Init())

	if s.State().ActiveID != "p1" {
		t.Errorf("ActiveID = %q, want p1", s.State().ActiveID)
	}
	if !s.State().Expanded.Has("s2") || s.State().Expanded.Has("s1") {
		t.Error("only the requested chapter's section should be expanded")
	}
	if s.Location() != "p1" {
		t.Errorf("Location() = %q", s.Location())
	}
}

func TestLearnScreen_TextDwellCompletes(t *testing.T) {
	b := &fakeBackend{cur: sampleCurriculum()}
	s, events, _ := loaded(t, b, true, time.Millisecond)

	press(s, keyPress('n'))

	if s.State().ActiveID != "t1" {
		t.Fatalf("ActiveID = %q, want t1", s.State().ActiveID)
	}
	if !s.State().Completed.Has("t1") {
		t.Error("text chapter should be complete after the dwell")
	}
	if len(b.completed) != 1 || b.completed[0] != "t1" {
		t.Errorf("backend completions = %v, want [t1]", b.completed)
	}

	var found bool
	for _, e := range events.learning {
		if e.Kind == store.KindChapterComplete && e.ChapterID == "t1" && e.SessionID == "sess-1" {
			found = true
		}
	}
	if !found {
		t.Errorf("completion not recorded: %+v", events.learning)
	}
}

func TestLearnScreen_LeavingCancelsDwell(t *testing.T) {
	b := &fakeBackend{cur: sampleCurriculum()}
	s, _, _ := loaded(t, b, true, time.Hour)

	s.Update(keyPress('n'))
	if !s.dweller.Pending() {
		t.Fatal("expected a pending dwell on the text chapter")
	}

	s.Update(keyPress('n'))
	if s.State().ActiveID != "q1" {
		t.Fatalf("ActiveID = %q, want q1", s.State().ActiveID)
	}
	if s.dweller.Pending() {
		t.Error("dwell should be cancelled when the chapter changes")
	}
	if s.State().Completed.Has("t1") {
		t.Error("t1 must not be completed")
	}
}

func TestLearnScreen_LeaveCancelsDwell(t *testing.T) {
	b := &fakeBackend{cur: sampleCurriculum()}
	s, _, _ := loaded(t, b, true, time.Hour)

	_, cmd := s.Update(keyPress('n'))
	if !s.dweller.Pending() {
		t.Fatal("expected a pending dwell on the text chapter")
	}

	s.Leave()
	if s.dweller.Pending() {
		t.Error("Leave should cancel the pending dwell")
	}
	for _, msg := range collect(cmd) {
		if _, ok := msg.(dwellElapsedMsg); ok {
			t.Error("a cancelled dwell must not report elapsed")
		}
	}
	if len(b.completed) != 0 {
		t.Errorf("backend completions = %v, want none", b.completed)
	}
}

func TestLearnScreen_IgnoresResultsOfClosedScreen(t *testing.T) {
	b := &fakeBackend{cur: sampleCurriculum()}
	first, _, _ := loaded(t, b, true, time.Hour)
	first.Update(keyPress('n'))
	staleEpoch := first.State().Epoch
	first.Leave()

	second, _, _ := loaded(t, b, true, time.Hour)
	defer second.Leave()
	second.Update(keyPress('n'))
	if second.State().ActiveID != "t1" || second.State().Epoch != staleEpoch {
		t.Fatalf("second screen on %q epoch %d, want t1 epoch %d", second.State().ActiveID, second.State().Epoch, staleEpoch)
	}

	_, cmd := second.Update(dwellElapsedMsg{Token: first.token, Epoch: staleEpoch, ChapterID: "t1"})
	pump(second, cmd)
	if second.State().Completed.Has("t1") {
		t.Error("a dwell from a closed screen must not complete the chapter")
	}
	if len(b.completed) != 0 {
		t.Errorf("backend completions = %v, want none", b.completed)
	}

	second.Update(quizSubmittedMsg{Token: first.token, Epoch: staleEpoch, ChapterID: "t1", Submission: quiz.Submission{Passed: true}})
	second.Update(attemptLoadedMsg{Token: first.token, Epoch: staleEpoch, ChapterID: "t1", Attempt: &quiz.Attempt{}})
	if second.State().Quiz != nil || second.State().Completed.Has("t1") {
		t.Error("quiz results from a closed screen must be ignored")
	}
}

func TestLearnScreen_VideoEnd(t *testing.T) {
	b := &fakeBackend{cur: sampleCurriculum()}
	s, _, _ := loaded(t, b, true, time.Millisecond)

	press(s, keyPress('v'))

	if !s.State().Completed.Has("v1") {
		t.Error("video should be complete after playback end")
	}
	if len(b.completed) != 1 || b.completed[0] != "v1" {
		t.Errorf("backend completions = %v", b.completed)
	}
}

func TestLearnScreen_QuizSubmitPass(t *testing.T) {
	b := &fakeBackend{
		cur: sampleCurriculum(),
		submission: quiz.Submission{
			Score:  2,
			Passed: true,
			Results: []quiz.Result{
				{QuestionIndex: 0, IsCorrect: true, CorrectAnswer: 1},
				{QuestionIndex: 1, IsCorrect: true, CorrectAnswer: 0},
			},
			CompletedChapters: []curriculum.ID{"v1", "q1"},
		},
	}
	s, events, _ := loaded(t, b, true, time.Millisecond)
	s.Update(keyPress('n'))
	press(s, keyPress('n'))
	if s.State().ActiveID != "q1" {
		t.Fatalf("ActiveID = %q, want q1", s.State().ActiveID)
	}

	press(s, keyPress('2'))
	if s.question != 1 {
		t.Errorf("focus should move to the next question, got %d", s.question)
	}
	press(s, keyPress('1'))
	press(s, keyPress('s'))

	if len(b.submits) != 1 || b.submits[0][0] != 1 || b.submits[0][1] != 0 {
		t.Fatalf("submitted answers = %v", b.submits)
	}
	q := s.State().Quiz
	if q.State() != quiz.Submitted || q.Score() == nil || *q.Score() != 2 {
		t.Errorf("quiz not graded: state=%v score=%v", q.State(), q.Score())
	}
	for _, id := range []curriculum.ID{"v1", "q1"} {
		if !s.State().Completed.Has(id) {
			t.Errorf("%s should be complete after the pass", id)
		}
	}

	var recorded bool
	for _, e := range events.learning {
		if e.Kind == store.KindQuizSubmit && e.Score == 2 && e.Total == 2 && e.Passed {
			recorded = true
		}
	}
	if !recorded {
		t.Errorf("quiz submission not recorded: %+v", events.learning)
	}

	view := s.View(120, 40)
	if !strings.Contains(view, "Score: 2/2") {
		t.Errorf("view should show the score")
	}
}

func TestLearnScreen_QuizSubmitFailureKeepsAnswers(t *testing.T) {
	b := &fakeBackend{cur: sampleCurriculum(), submitErr: errors.New("boom")}
	s, _, _ := loaded(t, b, true, time.Millisecond)
	press(s, keyPress('n'))
	press(s, keyPress('n'))

	press(s, keyPress('1'))
	press(s, keyPress('3'))
	press(s, keyPress('s'))

	q := s.State().Quiz
	if q.State() != quiz.Unanswered || q.Submitting() {
		t.Errorf("quiz should be answerable again, state=%v submitting=%v", q.State(), q.Submitting())
	}
	if a, _ := q.Answer(1); a != 2 {
		t.Errorf("answers should be kept, got %v", q.Answers())
	}
	if s.notice == "" {
		t.Error("expected a failure notice")
	}
}

func TestLearnScreen_QuizRequiresAllAnswers(t *testing.T) {
	b := &fakeBackend{cur: sampleCurriculum()}
	s, _, _ := loaded(t, b, true, time.Millisecond)
	press(s, keyPress('n'))
	press(s, keyPress('n'))

	press(s, keyPress('1'))
	press(s, keyPress('s'))

	if len(b.submits) != 0 {
		t.Error("incomplete quiz must not be submitted")
	}
	if !strings.Contains(s.notice, "Answer every question") {
		t.Errorf("notice = %q", s.notice)
	}
}

func TestLearnScreen_QuizMissingOption(t *testing.T) {
	b := &fakeBackend{cur: sampleCurriculum()}
	s, _, _ := loaded(t, b, true, time.Millisecond)
	press(s, keyPress('n'))
	press(s, keyPress('n'))

	press(s, keyPress('7'))
	if _, ok := s.State().Quiz.Answer(0); ok {
		t.Error("a missing option must not be recorded")
	}
	if s.notice != "Question 1 has no option 7." {
		t.Errorf("notice = %q", s.notice)
	}
	if view := s.View(120, 40); !strings.Contains(view, "no option 7") {
		t.Error("the notice should be shown under the quiz")
	}

	press(s, keyPress('2'))
	if a, ok := s.State().Quiz.Answer(0); !ok || a != 1 {
		t.Errorf("answer = %d, %v; want 1, true", a, ok)
	}
	if s.notice != "" {
		t.Errorf("a valid answer should clear the notice, got %q", s.notice)
	}
}

func TestLearnScreen_AttemptRestoreAndRetake(t *testing.T) {
	score := 1
	b := &fakeBackend{
		cur: sampleCurriculum(),
		attempt: &quiz.Attempt{
			Answers: quiz.Answers{0: 1, 1: 2},
			Score:   score,
			Results: []quiz.Result{
				{QuestionIndex: 0, IsCorrect: true, CorrectAnswer: 1},
				{QuestionIndex: 1, IsCorrect: false, CorrectAnswer: 0},
			},
		},
	}
	s, _, _ := loaded(t, b, true, time.Millisecond)
	press(s, keyPress('n'))
	press(s, keyPress('n'))

	q := s.State().Quiz
	if q.State() != quiz.Submitted || *q.Score() != 1 {
		t.Fatalf("attempt not restored: state=%v", q.State())
	}

	press(s, keyPress('r'))
	q = s.State().Quiz
	if q.State() != quiz.Unanswered || q.Score() != nil || len(q.Answers()) != 0 {
		t.Errorf("retake should clear the quiz, got state=%v answers=%v", q.State(), q.Answers())
	}
}

func TestLearnScreen_StaleAttemptIgnored(t *testing.T) {
	b := &fakeBackend{cur: sampleCurriculum()}
	s, _, _ := loaded(t, b, true, time.Hour)

	s.Update(keyPress('n'))
	s.Update(keyPress('n'))
	quizEpoch := s.State().Epoch
	s.Update(keyPress('n'))
	if s.State().ActiveID != "p1" {
		t.Fatalf("ActiveID = %q, want p1", s.State().ActiveID)
	}

	s.Update(attemptLoadedMsg{Token: s.token, Epoch: quizEpoch, ChapterID: "q1", Attempt: &quiz.Attempt{Answers: quiz.Answers{0: 0}}})
	if s.State().Quiz != nil {
		t.Error("a stale attempt must not create quiz state on another chapter")
	}

	s.Update(dwellElapsedMsg{Token: s.token, Epoch: quizEpoch, ChapterID: "q1"})
	if s.State().Completed.Has("q1") {
		t.Error("a stale dwell must not complete a chapter")
	}
}

func TestLearnScreen_Unauthenticated(t *testing.T) {
	b := &fakeBackend{cur: sampleCurriculum(), progress: []curriculum.ID{"v1"}}
	s, _, _ := loaded(t, b, false, time.Millisecond)

	if s.State().Completed.Has("v1") {
		t.Error("progress must not be fetched when signed out")
	}

	press(s, keyPress('v'))
	press(s, keyPress('n'))
	press(s, keyPress('n'))
	press(s, keyPress('1'))
	press(s, keyPress('1'))
	press(s, keyPress('s'))

	if len(b.completed) != 0 || len(b.submits) != 0 {
		t.Errorf("signed-out learner must not call the backend: completed=%v submits=%v", b.completed, b.submits)
	}
	if !strings.Contains(s.notice, "Sign in") {
		t.Errorf("notice = %q", s.notice)
	}
}

func TestLearnScreen_SidebarToggleAndOpen(t *testing.T) {
	b := &fakeBackend{cur: sampleCurriculum()}
	s, _, _ := loaded(t, b, false, time.Millisecond)

	if s.cursor != 1 {
		t.Fatalf("cursor should start on the active chapter row, got %d", s.cursor)
	}

	press(s, specialKey(tea.KeyDown))
	press(s, specialKey(tea.KeyEnter))
	if s.State().ActiveID != "t1" {
		t.Errorf("enter on a chapter row should open it, got %q", s.State().ActiveID)
	}

	press(s, specialKey(tea.KeyUp))
	press(s, specialKey(tea.KeyUp))
	press(s, specialKey(tea.KeyEnter))
	if s.State().Expanded.Has("s1") {
		t.Error("enter on a section row should collapse it")
	}
	if got := len(s.rows()); got != 3 {
		t.Errorf("rows after collapse = %d, want 3", got)
	}
	if s.State().ActiveID != "t1" {
		t.Error("collapsing a section must not change the active chapter")
	}
}

func TestLearnScreen_NotFound(t *testing.T) {
	b := &fakeBackend{curErr: &api.StatusError{Method: "GET", Path: "/api/courses/{courseId}/curriculum", Code: 404}}
	s, _ := newScreen(b, true, time.Millisecond)
	pump(s, s.Init())

	if s.State().Loaded() {
		t.Fatal("state should not be loaded")
	}
	if view := s.View(100, 30); !strings.Contains(view, "Course not found.") {
		t.Errorf("expected not-found view, got %q", view)
	}

	b.curErr = nil
	b.cur = sampleCurriculum()
	press(s, keyPress('r'))
	if !s.State().Loaded() {
		t.Error("retry should load the curriculum")
	}
}

func TestLearnScreen_LoadErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"rejected token", &api.StatusError{Method: "GET", Path: "/api/courses/{courseId}/curriculum", Code: 401}, "API token was rejected"},
		{"unreachable", &api.TransportError{Method: "GET", Path: "/api/courses/{courseId}/curriculum", Err: errors.New("connection refused")}, "Could not reach the server."},
		{"server error", &api.StatusError{Method: "GET", Path: "/api/courses/{courseId}/curriculum", Code: 500}, "Could not load this course."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newScreen(&fakeBackend{curErr: tt.err}, true, time.Millisecond)
			pump(s, s.Init())
			if view := s.View(100, 30); !strings.Contains(view, tt.want) {
				t.Errorf("view = %q, want %q", view, tt.want)
			}
		})
	}
}

func TestLearnScreen_ViewShowsContentURL(t *testing.T) {
	b := &fakeBackend{cur: sampleCurriculum()}
	s, _, _ := loaded(t, b, true, time.Millisecond)

	view := s.View(120, 40)
	if !strings.Contains(view, "https://lms.example.com/uploads/welcome.mp4") {
		t.Errorf("video URL should be resolved against the base URL")
	}
	if !strings.Contains(view, "Chapter 1.1") {
		t.Errorf("view should show the chapter label")
	}
	if !strings.Contains(view, "0%") {
		t.Errorf("sidebar should show course progress")
	}
}

func TestLearnScreen_IgnoresOtherCourse(t *testing.T) {
	s, _ := newScreen(&fakeBackend{cur: sampleCurriculum()}, true, time.Hour)

	s.Update(curriculumLoadedMsg{Token: s.token, CourseID: "c2", Curriculum: sampleCurriculum()})
	if s.State().Loaded() {
		t.Fatal("curriculum of another course should be ignored")
	}

	pump(s, s.Init())
	s.Update(progressLoadedMsg{Token: s.token, CourseID: "c2", IDs: []curriculum.ID{"t1"}})
	if s.State().Completed.Has("t1") {
		t.Error("progress of another course should be ignored")
	}
	s.dweller.Cancel()
}
