package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"entgo.io/ent/schema/mixin"
)

// ActivityMixin holds the columns every activity log table shares. The
// sequence orders rows across tables; session_id groups everything one
// coursekit invocation did.
type ActivityMixin struct {
	mixin.Schema
}

func (ActivityMixin) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("sequence").
			Unique().
			Immutable().
			Comment("Position in the activity log, shared by all tables"),
		field.Time("recorded_at").
			Default(func() time.Time { return time.Now().UTC() }).
			Immutable(),
		field.String("session_id").
			Default("").
			Comment("UUID of the coursekit invocation"),
	}
}

func (ActivityMixin) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("recorded_at"),
		index.Fields("session_id"),
	}
}
