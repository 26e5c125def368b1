// Package progress tracks which chapters a learner has completed and
// decides when a chapter becomes complete.
package progress

import (
	"sort"

	"github.com/abhisek/coursekit/internal/curriculum"
)

// Set is the completion set for one learner and course. Membership is
// monotonic: there is no way to remove an id once added.
type Set struct {
	ids map[curriculum.ID]struct{}
}

// NewSet returns a set holding ids.
func NewSet(ids ...curriculum.ID) *Set {
	s := &Set{ids: make(map[curriculum.ID]struct{}, len(ids))}
	s.Merge(ids)
	return s
}

// Add inserts id and reports whether it was new.
func (s *Set) Add(id curriculum.ID) bool {
	if id == "" {
		return false
	}
	if s.ids == nil {
		s.ids = make(map[curriculum.ID]struct{})
	}
	if _, ok := s.ids[id]; ok {
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// Merge unions ids into the set and returns how many were new. A server
// set is always merged, never substituted, so local completions survive
// a response that predates them.
func (s *Set) Merge(ids []curriculum.ID) int {
	added := 0
	for _, id := range ids {
		if s.Add(id) {
			added++
		}
	}
	return added
}

// Has reports whether id is complete.
func (s *Set) Has(id curriculum.ID) bool {
	if s == nil {
		return false
	}
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of completed chapters.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

// IDs returns the members in sorted order.
func (s *Set) IDs() []curriculum.ID {
	if s == nil {
		return nil
	}
	out := make([]curriculum.ID, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clone returns an independent copy.
func (s *Set) Clone() *Set {
	out := &Set{ids: make(map[curriculum.ID]struct{}, s.Len())}
	if s != nil {
		for id := range s.ids {
			out.ids[id] = struct{}{}
		}
	}
	return out
}

// ApplyQuizPass records a passed quiz. When the server reported its
// updated completion set it is merged; otherwise the chapter is added
// optimistically.
func (s *Set) ApplyQuizPass(chapterID curriculum.ID, server []curriculum.ID) {
	if len(server) > 0 {
		s.Merge(server)
	}
	s.Add(chapterID)
}

// CountIn returns how many of the curriculum's chapters are complete.
func (s *Set) CountIn(c curriculum.Curriculum) int {
	n := 0
	for _, ch := range c.Flatten() {
		if s.Has(ch.ID) {
			n++
		}
	}
	return n
}

// NormalizeIDs converts backend ids of mixed representation into
// canonical chapter ids. Empty ids are dropped.
func NormalizeIDs(raw []any) []curriculum.ID {
	out := make([]curriculum.ID, 0, len(raw))
	for _, v := range raw {
		if id := curriculum.NormalizeID(v); id != "" {
			out = append(out, curriculum.ID(id))
		}
	}
	return out
}
