package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// RequestEvent records every REST call made to the course backend.
type RequestEvent struct {
	ent.Schema
}

func (RequestEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{ActivityMixin{}}
}

func (RequestEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("method").
			Comment("HTTP method"),
		field.String("route").
			Comment("Route template, without path parameters"),
		field.Int("status").
			Default(0).
			Comment("HTTP status, 0 when no response arrived"),
		field.Int64("latency_ms").
			Default(0).
			Comment("Wall-clock time for the request"),
		field.Bool("success").
			Comment("Whether the request returned a 2xx status"),
		field.String("request_id").
			Default("").
			Comment("X-Request-ID sent with the call"),
		field.String("error_message").
			Default("").
			Comment("Error message if failed"),
	}
}

func (RequestEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("route"),
		index.Fields("success"),
	}
}
