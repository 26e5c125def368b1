package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/coursekit/internal/screen"
)

// stubScreen counts Init calls and records the messages it receives.
type stubScreen struct {
	title string
	inits int
	got   []tea.Msg
}

func (s *stubScreen) Init() tea.Cmd {
	s.inits++
	return nil
}

func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.got = append(s.got, msg)
	return s, nil
}

func (s *stubScreen) View(int, int) string { return "view of " + s.title }
func (s *stubScreen) Title() string        { return s.title }

func TestRouter_PushInitsAndActivates(t *testing.T) {
	catalog := &stubScreen{title: "Courses"}
	r := New(catalog)

	course := &stubScreen{title: "Go Fundamentals"}
	r.Update(PushScreenMsg{Screen: course})

	if r.Depth() != 2 {
		t.Fatalf("depth = %d, want 2", r.Depth())
	}
	if r.Active() != course {
		t.Errorf("active = %q, want the pushed screen", r.Active().Title())
	}
	if course.inits != 1 {
		t.Errorf("pushed screen Init ran %d times, want 1", course.inits)
	}
	if catalog.inits != 0 {
		t.Error("the router must not Init the root; the program does")
	}
}

func TestRouter_PopResumesScreenUnderneath(t *testing.T) {
	catalog := &stubScreen{title: "Courses"}
	r := New(catalog)
	r.Push(&stubScreen{title: "Go Fundamentals"})

	cmd := r.Update(PopScreenMsg{})
	if r.Depth() != 1 || r.Active() != catalog {
		t.Fatalf("after pop depth=%d active=%q", r.Depth(), r.Active().Title())
	}
	if cmd == nil {
		t.Fatal("pop should notify the resumed screen")
	}

	r.Update(cmd())
	if len(catalog.got) != 1 {
		t.Fatalf("catalog received %d messages, want 1", len(catalog.got))
	}
	if _, ok := catalog.got[0].(screen.ResumedMsg); !ok {
		t.Errorf("catalog received %T, want screen.ResumedMsg", catalog.got[0])
	}
}

func TestRouter_PopKeepsRoot(t *testing.T) {
	r := New(&stubScreen{title: "Courses"})

	if cmd := r.Pop(); cmd != nil {
		t.Error("popping the root should be a no-op")
	}
	if r.Depth() != 1 {
		t.Errorf("depth = %d, want 1", r.Depth())
	}
}

func TestRouter_ForwardsToTopOnly(t *testing.T) {
	catalog := &stubScreen{title: "Courses"}
	course := &stubScreen{title: "Go Fundamentals"}
	r := New(catalog)
	r.Push(course)

	r.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	if len(course.got) != 1 || len(catalog.got) != 0 {
		t.Errorf("course got %d, catalog got %d; want 1 and 0", len(course.got), len(catalog.got))
	}
	if got := r.View(80, 24); got != "view of Go Fundamentals" {
		t.Errorf("view = %q", got)
	}
}

func TestRouter_Titles(t *testing.T) {
	r := New(&stubScreen{title: "Courses"})
	r.Push(&stubScreen{title: "Go Fundamentals"})

	got := r.Titles()
	if len(got) != 2 || got[0] != "Courses" || got[1] != "Go Fundamentals" {
		t.Errorf("titles = %v", got)
	}
}

type leavingScreen struct {
	stubScreen
	left int
}

func (s *leavingScreen) Leave() { s.left++ }

func TestRouter_PopTellsClosedScreen(t *testing.T) {
	r := New(&stubScreen{title: "Courses"})
	course := &leavingScreen{stubScreen: stubScreen{title: "Go Fundamentals"}}
	r.Push(course)

	r.Update(PopScreenMsg{})
	if course.left != 1 {
		t.Errorf("Leave ran %d times, want 1", course.left)
	}

	r.Update(PopScreenMsg{})
	if course.left != 1 {
		t.Error("popping the root must not touch closed screens")
	}
}
