package model

import (
	"time"
)

// Layouts accepted for date-like string values in payloads. Bare calendar
// dates never persist; they are widened to a midnight timestamp in the
// configured zone.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
}

// NormalizePayload walks a payload and converts every date-like string to
// RFC3339 in loc. Values already carrying an RFC3339 timestamp are kept
// as-is. Non-string leaves pass through untouched.
func NormalizePayload(payload JSONMap, loc *time.Location) JSONMap {
	out := make(JSONMap, len(payload))
	for k, v := range payload {
		out[k] = normalizeValue(v, loc)
	}
	return out
}

func normalizeValue(v interface{}, loc *time.Location) interface{} {
	switch val := v.(type) {
	case string:
		return normalizeDateString(val, loc)
	case JSONMap:
		return NormalizePayload(val, loc)
	case map[string]interface{}:
		return NormalizePayload(JSONMap(val), loc)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item, loc)
		}
		return out
	default:
		return v
	}
}

func normalizeDateString(s string, loc *time.Location) string {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.Format(time.RFC3339)
		}
	}
	return s
}

// CommitKey derives the record key for a committed clinical record from
// the commit timestamp.
func CommitKey(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
