// Package codec maps local entities to and from the backend wire format:
// flat records with snake_case string keys, ISO-8601 timestamps, lowercase
// hyphenated UUID strings and tag lists as string arrays.
//
// Decode never panics: a missing or malformed required field yields ok=false
// and the caller skips the record. Optional fields default to absence.
package codec

import (
	"time"

	"github.com/google/uuid"
)

// Record is one flat wire-format row.
type Record map[string]any

func getString(r Record, key string) (string, bool) {
	v, ok := r[key].(string)
	return v, ok
}

func getUUID(r Record, key string) (uuid.UUID, bool) {
	s, ok := r[key].(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func getTime(r Record, key string) (time.Time, bool) {
	s, ok := r[key].(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func getBool(r Record, key string) (bool, bool) {
	v, ok := r[key].(bool)
	return v, ok
}

// getInt tolerates float64 because JSON numbers decode that way.
func getInt(r Record, key string) (int, bool) {
	switch v := r[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

func getFloat(r Record, key string) (float64, bool) {
	switch v := r[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

func getStrings(r Record, key string) ([]string, bool) {
	switch v := r[key].(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

func optString(r Record, key string) *string {
	if s, ok := r[key].(string); ok {
		return &s
	}
	return nil
}

func optInt(r Record, key string) *int {
	if v, ok := getInt(r, key); ok {
		return &v
	}
	return nil
}

func optFloat(r Record, key string) *float64 {
	if v, ok := getFloat(r, key); ok {
		return &v
	}
	return nil
}

func optTime(r Record, key string) *time.Time {
	if t, ok := getTime(r, key); ok {
		return &t
	}
	return nil
}

func encodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
