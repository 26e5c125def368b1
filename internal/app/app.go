package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursekit/internal/api"
	"github.com/abhisek/coursekit/internal/curriculum"
	"github.com/abhisek/coursekit/internal/progress"
	"github.com/abhisek/coursekit/internal/router"
	"github.com/abhisek/coursekit/internal/screen"
	"github.com/abhisek/coursekit/internal/screens/catalog"
	"github.com/abhisek/coursekit/internal/screens/learn"
	"github.com/abhisek/coursekit/internal/store"
	"github.com/abhisek/coursekit/internal/ui/layout"
)

// Backend is everything the screens call on the course API.
type Backend interface {
	learn.Backend
	catalog.Backend
}

// Options holds the dependencies for the TUI.
type Options struct {
	Context context.Context
	Backend Backend
	// BaseURL resolves relative content paths.
	BaseURL string
	Events  store.EventRepo
	Logger  *slog.Logger

	SessionID     string
	Authenticated bool
	DwellDelay    time.Duration

	// CourseID opens a course directly instead of the catalogue.
	CourseID    string
	CourseTitle string
	ChapterID   string
}

// Result is the learner's location when the program exits.
type Result struct {
	CourseID  string
	ChapterID string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router   *router.Router
	opts     Options
	width    int
	height   int
	location Result
}

// newAppModel creates the root model, starting on the learning screen when
// a course is given and on the catalogue otherwise.
func newAppModel(opts Options) AppModel {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.DwellDelay <= 0 {
		opts.DwellDelay = progress.DefaultDwell
	}

	m := AppModel{opts: opts}
	var root screen.Screen
	if opts.CourseID != "" {
		root = m.learnScreen(opts.CourseID, opts.CourseTitle, curriculum.ID(opts.ChapterID))
		m.location = Result{CourseID: opts.CourseID, ChapterID: opts.ChapterID}
	} else {
		root = catalog.New(catalog.Options{
			Context:       opts.Context,
			Backend:       opts.Backend,
			Authenticated: opts.Authenticated,
			Logger:        opts.Logger,
			Open: func(c api.Course) screen.Screen {
				return m.learnScreen(string(c.ID), c.Title, "")
			},
		})
	}
	m.router = router.New(root)
	return m
}

func (m AppModel) learnScreen(courseID, title string, chapterID curriculum.ID) *learn.Screen {
	return learn.New(learn.Options{
		Context:       m.opts.Context,
		Backend:       m.opts.Backend,
		CourseID:      courseID,
		CourseTitle:   title,
		ChapterID:     chapterID,
		Authenticated: m.opts.Authenticated,
		BaseURL:       m.opts.BaseURL,
		Dweller:       progress.NewDweller(nil, m.opts.DwellDelay),
		Events:        m.opts.Events,
		SessionID:     m.opts.SessionID,
		Logger:        m.opts.Logger,
	})
}

// Location returns the last chapter announced by a learning screen.
func (m AppModel) Location() Result {
	return m.location
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screen.LocationMsg:
		m.location = Result{CourseID: msg.CourseID, ChapterID: msg.ChapterID}
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if !m.capturing() {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "esc":
				if m.router.Depth() > 1 {
					return m, func() tea.Msg { return router.PopScreenMsg{} }
				}
				return m, nil
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// capturing reports whether the active screen is reading free text.
func (m AppModel) capturing() bool {
	c, ok := m.router.Active().(screen.InputCapturer)
	return ok && c.CapturingInput()
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the full frame for the current terminal size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := strings.Join(m.router.Titles(), " › ")
	var completed, total int
	if p, ok := active.(screen.ProgressProvider); ok {
		completed, total = p.Progress()
	}

	header := layout.RenderHeader(title, completed, total, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	var hints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		hints = p.KeyHints()
	} else {
		hints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
		}
	}
	if m.router.Depth() > 1 {
		hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	}
	return hints
}

// Run starts the Bubble Tea program and returns where the learner left off.
func Run(opts Options) (Result, error) {
	m := newAppModel(opts)
	ctx := m.opts.Context

	record(ctx, m.opts, store.LearningEventData{Kind: store.KindSessionStart, CourseID: opts.CourseID})

	p := tea.NewProgram(m, tea.WithContext(ctx))
	final, err := p.Run()

	result := m.location
	if fm, ok := final.(AppModel); ok {
		result = fm.location
	}
	record(context.WithoutCancel(ctx), m.opts, store.LearningEventData{
		Kind:      store.KindSessionEnd,
		CourseID:  result.CourseID,
		ChapterID: result.ChapterID,
	})

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return result, err
	}
	return result, nil
}

func record(ctx context.Context, opts Options, data store.LearningEventData) {
	if opts.Events == nil {
		return
	}
	data.SessionID = opts.SessionID
	if err := opts.Events.AppendLearning(ctx, data); err != nil {
		opts.Logger.Warn("record session event failed", "kind", data.Kind, "err", err)
	}
}
