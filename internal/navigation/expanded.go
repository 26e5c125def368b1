package navigation

import "github.com/abhisek/coursekit/internal/curriculum"

// Expanded tracks which sidebar sections are open. The zero value is an
// empty set ready to use.
type Expanded struct {
	ids map[curriculum.ID]struct{}
}

// Only collapses every section except id.
func (e *Expanded) Only(id curriculum.ID) {
	e.ids = map[curriculum.ID]struct{}{id: {}}
}

// Add opens id without touching other sections.
func (e *Expanded) Add(id curriculum.ID) {
	if e.ids == nil {
		e.ids = make(map[curriculum.ID]struct{})
	}
	e.ids[id] = struct{}{}
}

// Toggle flips the open state of id.
func (e *Expanded) Toggle(id curriculum.ID) {
	if e.Has(id) {
		delete(e.ids, id)
		return
	}
	e.Add(id)
}

// Has reports whether id is open.
func (e Expanded) Has(id curriculum.ID) bool {
	_, ok := e.ids[id]
	return ok
}

// Len returns the number of open sections.
func (e Expanded) Len() int { return len(e.ids) }

// Clone returns an independent copy.
func (e Expanded) Clone() Expanded {
	out := Expanded{ids: make(map[curriculum.ID]struct{}, len(e.ids))}
	for id := range e.ids {
		out.ids[id] = struct{}{}
	}
	return out
}
