// Package router keeps the stack of screens the TUI navigates through.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/coursekit/internal/screen"
)

// PushScreenMsg opens Screen on top of the current one.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg closes the top screen.
type PopScreenMsg struct{}

// Router is a stack of screens. Only the top one receives messages and is
// drawn; the root is never popped.
type Router struct {
	stack []screen.Screen
}

func New(root screen.Screen) *Router {
	return &Router{stack: []screen.Screen{root}}
}

// Push opens s and returns its Init command.
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop closes the top screen and tells the one underneath that it is
// visible again. A closed screen that is a screen.Leaver is told first.
func (r *Router) Pop() tea.Cmd {
	n := len(r.stack)
	if n <= 1 {
		return nil
	}
	if l, ok := r.stack[n-1].(screen.Leaver); ok {
		l.Leave()
	}
	r.stack[n-1] = nil
	r.stack = r.stack[:n-1]
	return func() tea.Msg { return screen.ResumedMsg{} }
}

// Active returns the top screen.
func (r *Router) Active() screen.Screen {
	return r.stack[len(r.stack)-1]
}

func (r *Router) Depth() int {
	return len(r.stack)
}

// Titles returns the title of every open screen, root first.
func (r *Router) Titles() []string {
	titles := make([]string, len(r.stack))
	for i, s := range r.stack {
		titles[i] = s.Title()
	}
	return titles
}

// Update handles navigation messages and forwards everything else to the
// top screen. Late results meant for a screen that has since been popped
// land on the new top screen, which drops what it does not recognize.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	}

	top := len(r.stack) - 1
	next, cmd := r.stack[top].Update(msg)
	r.stack[top] = next
	return cmd
}

// View draws the top screen.
func (r *Router) View(width, height int) string {
	return r.Active().View(width, height)
}
