package curriculum

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ChapterType determines how a chapter's content is rendered and how it
// becomes complete.
type ChapterType string

const (
	TypeVideo ChapterType = "video"
	TypeText  ChapterType = "text"
	TypePDF   ChapterType = "pdf"
	TypeQuiz  ChapterType = "quiz"
)

// AllTypes returns every chapter type in display order.
func AllTypes() []ChapterType {
	return []ChapterType{TypeVideo, TypeText, TypePDF, TypeQuiz}
}

var titleCaser = cases.Title(language.English)

// Label returns a human-readable name for the type.
func (t ChapterType) Label() string {
	if t == TypePDF {
		return "PDF"
	}
	return titleCaser.String(string(t))
}

// Icon returns a single-glyph marker used in chapter lists.
func (t ChapterType) Icon() string {
	switch t {
	case TypeVideo:
		return "▶"
	case TypeText:
		return "≡"
	case TypePDF:
		return "▤"
	case TypeQuiz:
		return "?"
	default:
		return "·"
	}
}

// Question is a single-select quiz question.
type Question struct {
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"min=1"`
	CorrectAnswer int      `json:"correctAnswer" validate:"gte=0"`
}

// Chapter is a single learning unit. Content is a URL path for video and
// pdf chapters and a text body for text chapters.
type Chapter struct {
	ID        ID          `json:"_id" validate:"required"`
	Title     string      `json:"title"`
	Type      ChapterType `json:"type" validate:"oneof=video text pdf quiz"`
	Content   string      `json:"content"`
	IsFree    bool        `json:"isFree"`
	Order     int         `json:"order"`
	Questions []Question  `json:"questions,omitempty" validate:"dive"`
}

// Section is an ordered group of chapters.
type Section struct {
	ID       ID        `json:"_id"`
	Title    string    `json:"title"`
	Order    int       `json:"order"`
	Chapters []Chapter `json:"chapters"`
}

// Curriculum is a course's ordered section tree. Order is array position
// as returned by the backend; the Order fields are informational only.
type Curriculum []Section

var validate = validator.New()

// Validate checks the chapter's field constraints, including that every
// quiz answer index points at an existing option.
func (c Chapter) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("chapter %q: %w", c.ID, err)
	}
	for i, q := range c.Questions {
		if q.CorrectAnswer >= len(q.Options) {
			return fmt.Errorf("chapter %q: question %d: correct answer %d out of range (%d options)",
				c.ID, i, q.CorrectAnswer, len(q.Options))
		}
	}
	return nil
}

// ContentURL resolves the chapter content against the API base URL.
// Absolute URLs are returned unchanged.
func (c Chapter) ContentURL(base string) string {
	if c.Content == "" {
		return ""
	}
	if strings.HasPrefix(c.Content, "http://") || strings.HasPrefix(c.Content, "https://") {
		return c.Content
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(c.Content, "/")
}

// Flatten returns every chapter in section order, then chapter order.
func (c Curriculum) Flatten() []Chapter {
	var out []Chapter
	for _, s := range c {
		out = append(out, s.Chapters...)
	}
	return out
}

// ChapterCount returns the total number of chapters across all sections.
func (c Curriculum) ChapterCount() int {
	n := 0
	for _, s := range c {
		n += len(s.Chapters)
	}
	return n
}

// FindChapter returns the first chapter with the given id.
func (c Curriculum) FindChapter(id ID) (Chapter, bool) {
	for _, s := range c {
		for _, ch := range s.Chapters {
			if ch.ID == id {
				return ch, true
			}
		}
	}
	return Chapter{}, false
}

// FirstChapter returns the first chapter of the first non-empty section.
func (c Curriculum) FirstChapter() (Chapter, bool) {
	for _, s := range c {
		if len(s.Chapters) > 0 {
			return s.Chapters[0], true
		}
	}
	return Chapter{}, false
}

// Validate checks every chapter in the curriculum.
func (c Curriculum) Validate() error {
	for _, s := range c {
		for _, ch := range s.Chapters {
			if err := ch.Validate(); err != nil {
				return fmt.Errorf("section %q: %w", s.ID, err)
			}
		}
	}
	return nil
}
