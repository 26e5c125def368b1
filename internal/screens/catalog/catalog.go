// Package catalog lists published courses and opens them for learning.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursekit/internal/api"
	"github.com/abhisek/coursekit/internal/curriculum"
	"github.com/abhisek/coursekit/internal/router"
	"github.com/abhisek/coursekit/internal/screen"
	"github.com/abhisek/coursekit/internal/ui/components"
	"github.com/abhisek/coursekit/internal/ui/layout"
	"github.com/abhisek/coursekit/internal/ui/theme"
)

// Backend is the part of the course API the catalogue calls.
type Backend interface {
	PublishedCourses(ctx context.Context) ([]api.Course, error)
	EnrolledCourses(ctx context.Context) ([]api.Course, error)
	Enroll(ctx context.Context, courseID string) error
}

// Options configures the catalogue screen.
type Options struct {
	Context       context.Context
	Backend       Backend
	Authenticated bool
	// Open builds the screen pushed when a course is chosen.
	Open   func(api.Course) screen.Screen
	Logger *slog.Logger
}

type coursesLoadedMsg struct {
	Published []api.Course
	Enrolled  []api.Course
	Err       error
}

type enrolledMsg struct {
	Course api.Course
	Err    error
}

// Screen implements screen.Screen.
type Screen struct {
	opts Options
	ctx  context.Context
	log  *slog.Logger

	loading   bool
	err       error
	courses   []api.Course
	enrolled  map[curriculum.ID]api.Course
	visible   []api.Course
	menu      components.Menu
	filter    components.TextInput
	filtering bool
	notice    string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.InputCapturer = (*Screen)(nil)

// New creates the catalogue. Courses are fetched by Init.
func New(opts Options) *Screen {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Screen{
		opts:     opts,
		ctx:      ctx,
		log:      log.With("screen", "catalog"),
		loading:  true,
		enrolled: map[curriculum.ID]api.Course{},
		filter:   components.NewTextInput("filter by title, instructor or category", 60),
	}
}

func (s *Screen) Init() tea.Cmd {
	return s.load()
}

func (s *Screen) Title() string {
	return "Courses"
}

// CapturingInput reports whether the filter is being edited.
func (s *Screen) CapturingInput() bool {
	return s.filtering
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.filtering {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Apply"},
			{Key: "Esc", Description: "Clear"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Browse"},
		{Key: "Enter", Description: "Open"},
		{Key: "/", Description: "Filter"},
	}
	if s.opts.Authenticated {
		hints = append(hints, layout.KeyHint{Key: "e", Description: "Enroll"})
	}
	return append(hints,
		layout.KeyHint{Key: "r", Description: "Reload"},
		layout.KeyHint{Key: "q", Description: "Quit"},
	)
}

// Visible returns the courses passing the current filter.
func (s *Screen) Visible() []api.Course {
	return s.visible
}

func (s *Screen) load() tea.Cmd {
	backend, ctx, auth, log := s.opts.Backend, s.ctx, s.opts.Authenticated, s.log
	return func() tea.Msg {
		published, err := backend.PublishedCourses(ctx)
		if err != nil {
			return coursesLoadedMsg{Err: err}
		}
		var enrolled []api.Course
		if auth {
			enrolled, err = backend.EnrolledCourses(ctx)
			if err != nil {
				log.Warn("load enrolled courses failed", "err", err)
				enrolled = nil
			}
		}
		return coursesLoadedMsg{Published: published, Enrolled: enrolled}
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case coursesLoadedMsg:
		s.loading = false
		s.err = msg.Err
		if msg.Err != nil {
			s.log.Warn("load courses failed", "err", msg.Err)
			return s, nil
		}
		s.courses = msg.Published
		s.enrolled = make(map[curriculum.ID]api.Course, len(msg.Enrolled))
		for _, c := range msg.Enrolled {
			s.enrolled[c.ID] = c
		}
		s.refresh()
		return s, nil

	case enrolledMsg:
		if msg.Err != nil {
			s.log.Warn("enroll failed", "course_id", msg.Course.ID, "err", msg.Err)
			s.notice = "Could not enroll: " + msg.Err.Error()
			if api.IsUnauthorized(msg.Err) {
				s.notice = "Could not enroll: " + tokenRejected
			}
			return s, nil
		}
		s.notice = fmt.Sprintf("Enrolled in %s.", msg.Course.Title)
		return s, s.load()

	case screen.ResumedMsg:
		// Enrolled progress changes while a course is open.
		if s.opts.Authenticated && !s.loading {
			return s, s.load()
		}
		return s, nil

	case tea.KeyPressMsg:
		return s, s.handleKey(msg)
	}

	if s.filtering {
		var cmd tea.Cmd
		s.filter, cmd = s.filter.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()

	if s.filtering {
		switch key {
		case "esc":
			s.filtering = false
			s.filter.Blur()
			s.filter.Reset()
			s.refresh()
			return nil
		case "enter":
			s.filtering = false
			s.filter.Blur()
			return nil
		}
		var cmd tea.Cmd
		s.filter, cmd = s.filter.Update(msg)
		s.refresh()
		return cmd
	}

	switch key {
	case "/":
		s.filtering = true
		s.notice = ""
		return s.filter.Focus()
	case "r":
		s.loading = true
		s.notice = ""
		return s.load()
	case "e":
		return s.enroll()
	}

	if s.loading || s.err != nil {
		return nil
	}
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return cmd
}

func (s *Screen) enroll() tea.Cmd {
	c, ok := s.current()
	if !ok {
		return nil
	}
	if !s.opts.Authenticated {
		s.notice = "Sign in to enroll."
		return nil
	}
	if _, done := s.enrolled[c.ID]; done {
		s.notice = fmt.Sprintf("Already enrolled in %s.", c.Title)
		return nil
	}
	backend, ctx := s.opts.Backend, s.ctx
	return func() tea.Msg {
		return enrolledMsg{Course: c, Err: backend.Enroll(ctx, string(c.ID))}
	}
}

func (s *Screen) current() (api.Course, bool) {
	if s.menu.Selected < 0 || s.menu.Selected >= len(s.visible) {
		return api.Course{}, false
	}
	return s.visible[s.menu.Selected], true
}

// refresh rebuilds the menu from the filter, keeping the cursor on the
// same course when it is still visible.
func (s *Screen) refresh() {
	prev, hadPrev := s.current()

	s.visible = s.visible[:0]
	for _, c := range s.courses {
		if s.filter.Matches(c.Title, c.InstructorName, c.Category) {
			s.visible = append(s.visible, c)
		}
	}

	items := make([]components.MenuItem, len(s.visible))
	selected := 0
	for i, c := range s.visible {
		items[i] = components.MenuItem{
			Label:  s.label(c),
			Detail: s.detail(c),
			Action: s.openAction(c),
		}
		if hadPrev && c.ID == prev.ID {
			selected = i
		}
	}
	s.menu = components.NewMenu(items)
	s.menu.Selected = selected
}

func (s *Screen) openAction(c api.Course) func() tea.Cmd {
	return func() tea.Cmd {
		if s.opts.Open == nil {
			return nil
		}
		next := s.opts.Open(c)
		return func() tea.Msg {
			return router.PushScreenMsg{Screen: next}
		}
	}
}

func (s *Screen) label(c api.Course) string {
	label := c.Title
	if _, ok := s.enrolled[c.ID]; ok {
		label += "  ✓"
	}
	return label
}

func (s *Screen) detail(c api.Course) string {
	var parts []string
	if c.InstructorName != "" {
		parts = append(parts, "by "+c.InstructorName)
	}
	if c.Category != "" {
		parts = append(parts, c.Category)
	}
	if c.RatingsCount > 0 {
		parts = append(parts, fmt.Sprintf("★ %.1f (%d)", c.AverageRating, c.RatingsCount))
	}
	if e, ok := s.enrolled[c.ID]; ok {
		parts = append(parts, fmt.Sprintf("%.0f%% complete", e.Progress))
	}
	return strings.Join(parts, " · ")
}

func (s *Screen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Published courses"))
	b.WriteString("\n")
	if s.filtering || s.filter.Value() != "" {
		b.WriteString(s.filter.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case s.loading:
		b.WriteString(theme.Hint.Render("Loading courses..."))
	case s.err != nil:
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render(describeLoadError(s.err)))
		b.WriteString("\n\n" + theme.Hint.Render("r to retry"))
	case len(s.courses) == 0:
		b.WriteString(theme.Hint.Render("No published courses yet."))
	case len(s.visible) == 0:
		b.WriteString(theme.Hint.Render("No courses match the filter."))
	default:
		used := lipgloss.Height(b.String()) + 2
		b.WriteString(s.menu.View(height - used))
	}

	if s.notice != "" {
		b.WriteString("\n" + theme.Subtitle.Render(s.notice))
	}

	return lipgloss.NewStyle().
		Width(width).
		MaxHeight(height).
		Padding(0, 2).
		Render(b.String())
}

const tokenRejected = "your API token was rejected. Set a new one with --token or COURSEKIT_TOKEN."

func describeLoadError(err error) string {
	switch {
	case api.IsUnauthorized(err):
		return "Could not load courses: " + tokenRejected
	case api.IsTransport(err):
		return "Could not reach the server.\n" + err.Error()
	default:
		return "Could not load courses: " + err.Error()
	}
}
