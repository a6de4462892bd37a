package services

import (
	"time"

	"cropgenius-api/internal/models"
	"cropgenius-api/internal/oracle"
)

// Shared normalizer helpers. Re-normalizing an already-normalized result must
// not drift any field, so the stamps prefer values already present in the
// partial over fresh ones.

func stampTimestamp(partial map[string]any) time.Time {
	if s, ok := oracle.Str(partial, "timestamp"); ok {
		if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return ts
		}
	}
	return time.Now()
}

func stampProcessingTime(partial map[string]any, elapsed time.Duration) int64 {
	if n, ok := oracle.Num(partial, "processing_time_ms"); ok && n >= 0 {
		return int64(n)
	}
	return elapsed.Milliseconds()
}

func strSliceOrDefault(partial map[string]any, key string, def models.StringList) models.StringList {
	if list, ok := oracle.StrSlice(partial, key); ok {
		return models.StringList(list)
	}
	return def
}

// numFirst reads the first present numeric field among keys, so normalizers
// accept both the prompt's camelCase schema and the persisted snake_case
// shape.
func numFirst(partial map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		if v, ok := oracle.Num(partial, key); ok {
			return v, true
		}
	}
	return 0, false
}

func strFirst(partial map[string]any, keys ...string) (string, bool) {
	for _, key := range keys {
		if v, ok := oracle.Str(partial, key); ok {
			return v, true
		}
	}
	return "", false
}

func strSliceFirst(partial map[string]any, def models.StringList, keys ...string) models.StringList {
	for _, key := range keys {
		if list, ok := oracle.StrSlice(partial, key); ok {
			return models.StringList(list)
		}
	}
	return def
}

// coerceEnum folds a raw string into a closed set, case insensitive, with
// spaces collapsed to underscores.
func coerceEnum(raw string, allowed []string, def string) string {
	return oracle.Enum(map[string]any{"v": raw}, "v", allowed, def)
}
