// Package learn is the learning screen: a collapsible curriculum sidebar
// next to the active chapter's content.
package learn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/coursekit/internal/api"
	"github.com/abhisek/coursekit/internal/curriculum"
	lrn "github.com/abhisek/coursekit/internal/learn"
	"github.com/abhisek/coursekit/internal/progress"
	"github.com/abhisek/coursekit/internal/quiz"
	"github.com/abhisek/coursekit/internal/screen"
	"github.com/abhisek/coursekit/internal/store"
	"github.com/abhisek/coursekit/internal/ui/layout"
)

// Backend is the part of the course API the learning screen calls.
type Backend interface {
	progress.Remote
	Curriculum(ctx context.Context, courseID string) (curriculum.Curriculum, error)
	QuizAttempt(ctx context.Context, courseID string, chapterID curriculum.ID) (*quiz.Attempt, error)
	SubmitQuiz(ctx context.Context, courseID string, chapterID curriculum.ID, answers map[int]int) (quiz.Submission, error)
}

// Options configures the learning screen.
type Options struct {
	Context     context.Context
	Backend     Backend
	CourseID    string
	CourseTitle string
	// ChapterID is the requested starting chapter, empty for the default.
	ChapterID     curriculum.ID
	Authenticated bool
	// BaseURL resolves relative content paths.
	BaseURL   string
	Dweller   *progress.Dweller
	Events    store.EventRepo
	SessionID string
	Logger    *slog.Logger
}

// screenTokens hands every Screen a distinct token for its async results.
var screenTokens atomic.Uint64

// Screen implements screen.Screen for one course.
type Screen struct {
	opts    Options
	token   uint64
	ctx     context.Context
	backend Backend
	tracker *progress.Tracker
	dweller *progress.Dweller
	log     *slog.Logger

	state    lrn.State
	loadErr  error
	cursor   int
	question int
	notice   string
	location curriculum.ID
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.ProgressProvider = (*Screen)(nil)
var _ screen.Leaver = (*Screen)(nil)

// New creates the learning screen. The curriculum is fetched by Init.
func New(opts Options) *Screen {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	dweller := opts.Dweller
	if dweller == nil {
		dweller = progress.NewDweller(nil, progress.DefaultDwell)
	}
	return &Screen{
		opts:    opts,
		token:   screenTokens.Add(1),
		ctx:     ctx,
		backend: opts.Backend,
		tracker: progress.NewTracker(opts.Backend, progress.TrackerOptions{
			CourseID:  opts.CourseID,
			SessionID: opts.SessionID,
			Events:    opts.Events,
			Logger:    log,
		}),
		dweller: dweller,
		log:     log.With("screen", "learn", "course_id", opts.CourseID),
		state:   lrn.New(opts.CourseID),
	}
}

func (s *Screen) Init() tea.Cmd {
	return s.fetchCurriculum()
}

func (s *Screen) Title() string {
	if s.opts.CourseTitle != "" {
		return s.opts.CourseTitle
	}
	return "Learn"
}

// Progress reports completed and total chapters for the header.
func (s *Screen) Progress() (int, int) {
	return s.state.CompletedCount(), s.state.Curriculum.ChapterCount()
}

// Leave cancels the pending dwell so a closed screen never completes a
// chapter.
func (s *Screen) Leave() {
	if s.dweller.Pending() {
		s.log.Debug("cancel dwell on leave", "chapter_id", s.state.ActiveID)
	}
	s.dweller.Cancel()
}

// Location returns the last announced chapter.
func (s *Screen) Location() curriculum.ID { return s.location }

// State exposes the learning state for rendering and tests.
func (s *Screen) State() lrn.State { return s.state }

func (s *Screen) KeyHints() []layout.KeyHint {
	if !s.state.Loaded() {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Browse"},
		{Key: "Enter", Description: "Open"},
		{Key: "n/p", Description: "Next/Prev"},
	}
	ch, ok := s.state.ActiveChapter()
	if !ok {
		return hints
	}
	switch ch.Type {
	case curriculum.TypeVideo:
		hints = append(hints, layout.KeyHint{Key: "v", Description: "Finished watching"})
	case curriculum.TypeQuiz:
		if s.state.Quiz != nil && s.state.Quiz.State() == quiz.Submitted {
			hints = append(hints, layout.KeyHint{Key: "r", Description: "Retake"})
		} else {
			hints = append(hints,
				layout.KeyHint{Key: "Tab", Description: "Question"},
				layout.KeyHint{Key: "1-9", Description: "Answer"},
				layout.KeyHint{Key: "s", Description: "Submit"},
			)
		}
	}
	return hints
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case curriculumLoadedMsg:
		if msg.Token != s.token || msg.CourseID != s.opts.CourseID {
			return s, nil
		}
		return s, s.handleCurriculum(msg)

	case progressLoadedMsg:
		if msg.Token != s.token || msg.CourseID != s.opts.CourseID {
			return s, nil
		}
		s.state = s.state.ProgressLoaded(msg.IDs)
		return s, nil

	case dwellElapsedMsg:
		if msg.Token != s.token {
			return s, nil
		}
		return s, s.apply(s.state.DwellElapsed(msg.Epoch, msg.ChapterID))

	case attemptLoadedMsg:
		if msg.Token != s.token {
			return s, nil
		}
		s.state = s.state.AttemptLoaded(msg.Epoch, msg.ChapterID, msg.Attempt)
		return s, nil

	case quizSubmittedMsg:
		if msg.Token != s.token {
			return s, nil
		}
		s.state = s.state.QuizSubmitted(msg.Epoch, msg.ChapterID, msg.Submission)
		return s, nil

	case quizSubmitFailedMsg:
		if msg.Token != s.token {
			return s, nil
		}
		if msg.Epoch == s.state.Epoch {
			s.notice = "Could not submit the quiz. Your answers are kept; try again."
		}
		s.state = s.state.QuizSubmitFailed(msg.Epoch)
		return s, nil

	case tea.KeyPressMsg:
		return s, s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) handleCurriculum(msg curriculumLoadedMsg) tea.Cmd {
	if msg.Err != nil {
		s.loadErr = msg.Err
		s.log.Warn("load curriculum failed", "err", msg.Err)
		return nil
	}
	s.loadErr = nil
	next, effects := s.state.Load(msg.Curriculum, s.opts.ChapterID, s.opts.Authenticated)
	cmd := s.apply(next, effects)
	if s.state.ActiveID == "" {
		return cmd
	}
	// Load does not announce the initial chapter.
	s.location = s.state.ActiveID
	return tea.Batch(cmd, announce(s.opts.CourseID, s.state.ActiveID))
}

// apply installs a new state and runs its effects.
func (s *Screen) apply(next lrn.State, effects []lrn.Effect) tea.Cmd {
	prevEpoch := s.state.Epoch
	s.state = next
	if s.state.Epoch != prevEpoch {
		s.question = 0
		s.notice = ""
		s.syncCursor()
	}
	return s.run(effects)
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()

	if s.loadErr != nil {
		if key == "r" {
			s.loadErr = nil
			return s.fetchCurriculum()
		}
		return nil
	}
	if !s.state.Loaded() {
		return nil
	}

	switch key {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
		return nil
	case "down", "j":
		if s.cursor < len(s.rows())-1 {
			s.cursor++
		}
		return nil
	case "enter", "space":
		return s.openRow()
	case "n", "right":
		return s.apply(s.state.Next())
	case "p", "left":
		return s.apply(s.state.Previous())
	case "v":
		return s.apply(s.state.VideoEnded())
	}

	if s.state.Quiz == nil {
		return nil
	}
	return s.handleQuizKey(key)
}

func (s *Screen) handleQuizKey(key string) tea.Cmd {
	q := s.state.Quiz
	switch key {
	case "tab":
		if n := q.Questions(); n > 0 {
			s.question = (s.question + 1) % n
		}
	case "shift+tab":
		if n := q.Questions(); n > 0 {
			s.question = (s.question + n - 1) % n
		}
	case "s":
		if !s.state.Authenticated {
			s.notice = "Sign in to submit this quiz."
			return nil
		}
		if !s.state.CanSubmit() {
			if q.State() == quiz.Unanswered && !q.Complete() {
				s.notice = "Answer every question before submitting."
			}
			return nil
		}
		s.notice = ""
		return s.apply(s.state.Submit())
	case "r":
		s.state = s.state.Retake()
		s.question = 0
		s.notice = ""
	default:
		// Options are picked with a single digit, so only the first nine
		// are reachable from the keyboard.
		n, err := strconv.Atoi(key)
		if err != nil || n < 1 || n > 9 {
			return nil
		}
		next, err := s.state.Answer(s.question, n-1)
		switch {
		case errors.Is(err, quiz.ErrOutOfRange):
			s.notice = fmt.Sprintf("Question %d has no option %d.", s.question+1, n)
			return nil
		case err != nil:
			return nil
		}
		s.state = next
		s.notice = ""
		if s.state.Quiz.State() == quiz.Unanswered {
			s.focusNextUnanswered()
		}
	}
	return nil
}

// focusNextUnanswered moves question focus forward to the next question
// without an answer, staying put when all are answered.
func (s *Screen) focusNextUnanswered() {
	q := s.state.Quiz
	n := q.Questions()
	for i := 1; i <= n; i++ {
		idx := (s.question + i) % n
		if _, ok := q.Answer(idx); !ok {
			s.question = idx
			return
		}
	}
}

// sidebarRow is a section header (chapter == -1) or a chapter.
type sidebarRow struct {
	section int
	chapter int
}

func (s *Screen) rows() []sidebarRow {
	var rows []sidebarRow
	for si, sec := range s.state.Curriculum {
		rows = append(rows, sidebarRow{section: si, chapter: -1})
		if !s.state.Expanded.Has(sec.ID) {
			continue
		}
		for ci := range sec.Chapters {
			rows = append(rows, sidebarRow{section: si, chapter: ci})
		}
	}
	return rows
}

// syncCursor moves the sidebar cursor onto the active chapter.
func (s *Screen) syncCursor() {
	pos, ok := s.state.Position()
	if !ok {
		return
	}
	for i, r := range s.rows() {
		if r.section == pos.Section && r.chapter == pos.Chapter {
			s.cursor = i
			return
		}
	}
}

func (s *Screen) openRow() tea.Cmd {
	rows := s.rows()
	if s.cursor < 0 || s.cursor >= len(rows) {
		return nil
	}
	r := rows[s.cursor]
	sec := s.state.Curriculum[r.section]
	if r.chapter < 0 {
		s.state = s.state.ToggleSection(sec.ID)
		if n := len(s.rows()); s.cursor >= n {
			s.cursor = n - 1
		}
		return nil
	}
	return s.apply(s.state.Select(sec.Chapters[r.chapter].ID))
}

// notFound reports whether the load error means the course does not exist.
func (s *Screen) notFound() bool {
	return api.IsNotFound(s.loadErr) || errors.Is(s.loadErr, api.ErrNoData)
}
