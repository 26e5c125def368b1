package curriculum

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "schema://curriculum.json"

// Schema describes the curriculum payload returned by the backend. Only
// the fields navigation depends on are constrained; unknown fields pass.
var Schema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"_id":   map[string]any{"type": []any{"string", "number"}},
			"title": map[string]any{"type": "string"},
			"chapters": map[string]any{
				"type": []any{"array", "null"},
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"_id":     map[string]any{"type": []any{"string", "number"}},
						"title":   map[string]any{"type": "string"},
						"type":    map[string]any{"type": "string", "enum": typeEnum()},
						"content": map[string]any{"type": []any{"string", "null"}},
						"isFree":  map[string]any{"type": []any{"boolean", "null"}},
						"questions": map[string]any{
							"type": []any{"array", "null"},
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"question":      map[string]any{"type": "string"},
									"options":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
									"correctAnswer": map[string]any{"type": "integer", "minimum": 0},
								},
								"required": []any{"question", "options", "correctAnswer"},
							},
						},
					},
					"required": []any{"_id", "type"},
				},
			},
		},
		"required": []any{"_id"},
	},
}

func typeEnum() []any {
	var out []any
	for _, t := range AllTypes() {
		out = append(out, string(t))
	}
	return out
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// ErrInvalidPayload indicates the backend returned a curriculum that does
// not match the expected shape.
type ErrInvalidPayload struct {
	Err error
}

func (e *ErrInvalidPayload) Error() string {
	return fmt.Sprintf("invalid curriculum payload: %v", e.Err)
}

func (e *ErrInvalidPayload) Unwrap() error { return e.Err }

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// Round-trip so the compiler sees plain JSON values.
		defBytes, err := json.Marshal(Schema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(defBytes))
		if err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// Decode validates raw against the curriculum schema, unmarshals it and
// checks every chapter with Curriculum.Validate.
// A null or empty body decodes to an empty curriculum.
func Decode(raw []byte) (Curriculum, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Curriculum{}, nil
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, &ErrInvalidPayload{Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	sch, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile curriculum schema: %w", err)
	}
	if err := sch.Validate(inst); err != nil {
		return nil, &ErrInvalidPayload{Err: err}
	}

	var c Curriculum
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, &ErrInvalidPayload{Err: err}
	}
	if err := c.Validate(); err != nil {
		return nil, &ErrInvalidPayload{Err: err}
	}
	return c, nil
}
