package progress

import (
	"time"

	"github.com/abhisek/coursekit/internal/curriculum"
)

// DefaultDwell is how long a text or PDF chapter must stay active before
// it counts as read.
const DefaultDwell = time.Second

// Trigger is the event that completes a chapter.
type Trigger int

const (
	TriggerNone        Trigger = iota
	TriggerPlaybackEnd         // video reached its end
	TriggerDwell               // text/pdf stayed active for the dwell delay
	TriggerQuizPass            // server flagged a passing submission
)

// String returns the trigger name used in logs.
func (t Trigger) String() string {
	switch t {
	case TriggerPlaybackEnd:
		return "playback_end"
	case TriggerDwell:
		return "dwell"
	case TriggerQuizPass:
		return "quiz_pass"
	default:
		return "none"
	}
}

// Rule returns the completion trigger for a chapter type.
func Rule(t curriculum.ChapterType) Trigger {
	switch t {
	case curriculum.TypeVideo:
		return TriggerPlaybackEnd
	case curriculum.TypeText, curriculum.TypePDF:
		return TriggerDwell
	case curriculum.TypeQuiz:
		return TriggerQuizPass
	default:
		return TriggerNone
	}
}
