package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// LearningEvent records learner activity: sessions, chapter completions
// and quiz submissions.
type LearningEvent struct {
	ent.Schema
}

func (LearningEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{ActivityMixin{}}
}

func (LearningEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("kind").
			Comment("session_start, session_end, chapter_complete or quiz_submit"),
		field.String("course_id"),
		field.String("chapter_id").
			Default(""),
		field.Int("score").
			Default(0).
			Comment("Correct answers, quiz_submit only"),
		field.Int("total").
			Default(0).
			Comment("Question count, quiz_submit only"),
		field.Bool("passed").
			Default(false),
	}
}

func (LearningEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("kind"),
		index.Fields("course_id"),
	}
}
