// Package navigation resolves the active chapter of a curriculum and
// walks the flattened section→chapter sequence.
package navigation

import (
	"fmt"

	"github.com/abhisek/coursekit/internal/curriculum"
)

// Selection is the outcome of initial chapter selection.
type Selection struct {
	ChapterID curriculum.ID
	// SectionID owns the selected chapter and becomes the single
	// expanded section.
	SectionID curriculum.ID
	// Found reports whether any chapter was selected.
	Found bool
}

// Target is the chapter reached by Next or Previous.
type Target struct {
	ChapterID curriculum.ID
	// ExpandSection is set when the move crossed into another section.
	ExpandSection curriculum.ID
}

// Position locates a chapter by index.
type Position struct {
	Section int
	Chapter int
}

// Label returns the 1-based "N.M" form used in chapter headings.
func (p Position) Label() string {
	return fmt.Sprintf("%d.%d", p.Section+1, p.Chapter+1)
}

// Initial picks the chapter to show when a curriculum is loaded. A
// requested id wins when it matches; otherwise the first chapter of the
// first non-empty section is chosen.
func Initial(c curriculum.Curriculum, requested curriculum.ID) Selection {
	if requested != "" {
		for _, s := range c {
			for _, ch := range s.Chapters {
				if ch.ID == requested {
					return Selection{ChapterID: ch.ID, SectionID: s.ID, Found: true}
				}
			}
		}
	}

	first, ok := c.FirstChapter()
	if !ok {
		return Selection{}
	}
	sel := Selection{ChapterID: first.ID, Found: true}
	if pos, ok := Locate(c, first.ID); ok {
		sel.SectionID = c[pos.Section].ID
	}
	return sel
}

// Locate returns the indices of the first chapter matching id.
func Locate(c curriculum.Curriculum, id curriculum.ID) (Position, bool) {
	if id == "" {
		return Position{}, false
	}
	for si, s := range c {
		for ci, ch := range s.Chapters {
			if ch.ID == id {
				return Position{Section: si, Chapter: ci}, true
			}
		}
	}
	return Position{}, false
}

// Next returns the successor of the active chapter. Crossing a section
// boundary only succeeds when the immediately following section has
// chapters; empty sections are not skipped.
func Next(c curriculum.Curriculum, active curriculum.ID) (Target, bool) {
	pos, ok := Locate(c, active)
	if !ok {
		return Target{}, false
	}

	sec := c[pos.Section]
	if pos.Chapter < len(sec.Chapters)-1 {
		return Target{ChapterID: sec.Chapters[pos.Chapter+1].ID}, true
	}
	if pos.Section >= len(c)-1 {
		return Target{}, false
	}

	next := c[pos.Section+1]
	if len(next.Chapters) == 0 {
		return Target{}, false
	}
	return Target{ChapterID: next.Chapters[0].ID, ExpandSection: next.ID}, true
}

// Previous is the mirror of Next.
func Previous(c curriculum.Curriculum, active curriculum.ID) (Target, bool) {
	pos, ok := Locate(c, active)
	if !ok {
		return Target{}, false
	}

	sec := c[pos.Section]
	if pos.Chapter > 0 {
		return Target{ChapterID: sec.Chapters[pos.Chapter-1].ID}, true
	}
	if pos.Section == 0 {
		return Target{}, false
	}

	prev := c[pos.Section-1]
	if len(prev.Chapters) == 0 {
		return Target{}, false
	}
	return Target{ChapterID: prev.Chapters[len(prev.Chapters)-1].ID, ExpandSection: prev.ID}, true
}

// IsFirst reports whether active is the first chapter of the first
// section. It is vacuously true when nothing is active, the curriculum is
// empty, or the first section has no chapters.
func IsFirst(c curriculum.Curriculum, active curriculum.ID) bool {
	if active == "" || len(c) == 0 || len(c[0].Chapters) == 0 {
		return true
	}
	return c[0].Chapters[0].ID == active
}

// IsLast reports whether active is the last chapter of the last section,
// with the same vacuous cases as IsFirst.
func IsLast(c curriculum.Curriculum, active curriculum.ID) bool {
	if active == "" || len(c) == 0 {
		return true
	}
	last := c[len(c)-1]
	if len(last.Chapters) == 0 {
		return true
	}
	return last.Chapters[len(last.Chapters)-1].ID == active
}
