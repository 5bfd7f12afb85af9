package metadata

import "strconv"

// Clause is a single equality condition on a metadata key.
type Clause struct {
	Key   string
	Value any
}

// Filter is a conjunction of equality clauses. A record matches when every
// clause matches one of its indexed metadata terms.
type Filter []Clause

// Eq creates a filter with a single key == value clause.
func Eq(key string, value any) Filter {
	return Filter{{Key: key, Value: value}}
}

// And returns a new filter extended by key == value.
func (f Filter) And(key string, value any) Filter {
	out := make(Filter, len(f), len(f)+1)
	copy(out, f)
	return append(out, Clause{Key: key, Value: value})
}

// term renders a key/value pair as a posting-list term.
// Only scalar values are indexable; numeric types collapse to float64 so
// that values survive a JSON round trip unchanged.
func term(key string, value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return key + "\x00s:" + v, true
	case bool:
		if v {
			return key + "\x00b:1", true
		}
		return key + "\x00b:0", true
	case float64:
		return key + "\x00n:" + strconv.FormatFloat(v, 'g', -1, 64), true
	case float32:
		return term(key, float64(v))
	case int:
		return term(key, float64(v))
	case int32:
		return term(key, float64(v))
	case int64:
		return term(key, float64(v))
	case uint32:
		return term(key, float64(v))
	case uint64:
		return term(key, float64(v))
	default:
		return "", false
	}
}
