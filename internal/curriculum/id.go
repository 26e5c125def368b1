package curriculum

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// ID identifies a section or chapter. The backend is inconsistent about
// whether ids arrive as strings or numbers, so every ID is held in its
// canonical string form.
type ID string

// String returns the canonical string form.
func (id ID) String() string { return string(id) }

// UnmarshalJSON accepts a JSON string, a JSON number, or null.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("decode id %s: %w", b, err)
	}
	*id = ID(NormalizeID(n))
	return nil
}

// NormalizeID converts an id of any representation the backend may send
// into its canonical string form. Integral numbers lose any fractional
// zero suffix, so 12 and 12.0 both become "12". A populated document is
// reduced to its _id.
func NormalizeID(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case ID:
		return string(x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return strconv.FormatInt(i, 10)
		}
		if f, err := x.Float64(); err == nil {
			return formatFloat(f)
		}
		return x.String()
	case float64:
		return formatFloat(x)
	case float32:
		return formatFloat(float64(x))
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case map[string]any:
		return NormalizeID(x["_id"])
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
