package store

import (
	"fmt"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/abhisek/coursekit/ent/schema"
)

// tableFrom derives a migration table from an ent schema definition: an
// auto-increment id, then the mixin fields, then the schema's own fields.
// Indexes are named table_field.
func tableFrom(name string, def ent.Interface) *schema.Table {
	cols := []*schema.Column{{Name: "id", Type: field.TypeInt, Increment: true}}
	var indexes []ent.Index

	for _, m := range def.Mixin() {
		cols = append(cols, columns(m.Fields())...)
		indexes = append(indexes, m.Indexes()...)
	}
	cols = append(cols, columns(def.Fields())...)
	indexes = append(indexes, def.Indexes()...)

	byName := make(map[string]*schema.Column, len(cols))
	for _, c := range cols {
		byName[c.Name] = c
	}

	t := &schema.Table{
		Name:       name,
		Columns:    cols,
		PrimaryKey: []*schema.Column{cols[0]},
	}
	for _, idx := range indexes {
		d := idx.Descriptor()
		ic := make([]*schema.Column, 0, len(d.Fields))
		for _, f := range d.Fields {
			c, ok := byName[f]
			if !ok {
				panic(fmt.Sprintf("store: index on unknown column %s.%s", name, f))
			}
			ic = append(ic, c)
		}
		t.Indexes = append(t.Indexes, &schema.Index{
			Name:    name + "_" + strings.Join(d.Fields, "_"),
			Unique:  d.Unique,
			Columns: ic,
		})
	}
	return t
}

func columns(fields []ent.Field) []*schema.Column {
	cols := make([]*schema.Column, 0, len(fields))
	for _, f := range fields {
		d := f.Descriptor()
		c := &schema.Column{
			Name:     d.Name,
			Type:     d.Info.Type,
			Unique:   d.Unique,
			Nullable: d.Nillable,
		}
		// Function defaults such as time.Now are applied at insert time.
		switch v := d.Default.(type) {
		case string, bool, int, int64:
			c.Default = v
		}
		cols = append(cols, c)
	}
	return cols
}

// sequenceTable holds the single counter row behind event sequences.
func sequenceTable() *schema.Table {
	id := &schema.Column{Name: "id", Type: field.TypeInt}
	return &schema.Table{
		Name: "activity_sequence",
		Columns: []*schema.Column{
			id,
			{Name: "next_val", Type: field.TypeInt64, Default: 1},
		},
		PrimaryKey: []*schema.Column{id},
	}
}

var (
	// RequestEventsTable records every REST call made to the backend.
	RequestEventsTable = tableFrom("request_events", entschema.RequestEvent{})

	// LearningEventsTable records learner activity: sessions, completions
	// and quiz submissions.
	LearningEventsTable = tableFrom("learning_events", entschema.LearningEvent{})

	// SequenceTable backs the global event sequence.
	SequenceTable = sequenceTable()

	// Tables lists every table the store migrates.
	Tables = []*schema.Table{
		SequenceTable,
		RequestEventsTable,
		LearningEventsTable,
	}
)
