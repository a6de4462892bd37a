package oracle

import (
	"encoding/json"
	"math"
	"strings"
)

// ExtractJSONBlock returns the first balanced {...} block in s. It walks the
// string tracking brace depth and string/escape state, so noise before and
// after the object, or multiple unrelated objects, cannot bleed into the
// extracted candidate. Returns "" when no complete object exists.
func ExtractJSONBlock(s string) string {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}
	return ""
}

// ParsePartial extracts the model's JSON payload from raw free text and
// decodes it into a partial result map. It never fails: markdown fences are
// stripped first (Gemini wraps JSON in ```json blocks), then the first
// balanced object is decoded; anything unparseable yields an empty map so the
// normalizer fills every field from defaults.
func ParsePartial(raw string) map[string]any {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	}

	block := ExtractJSONBlock(cleaned)
	if block == "" {
		return map[string]any{}
	}

	var partial map[string]any
	if err := json.Unmarshal([]byte(block), &partial); err != nil {
		return map[string]any{}
	}
	if partial == nil {
		return map[string]any{}
	}
	return partial
}

// Field accessors used by domain normalizers. Each returns the zero value
// plus ok=false when the key is absent or the wrong type, so every field is
// defaulted independently.

func Num(m map[string]any, key string) (float64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func Str(m map[string]any, key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return strings.TrimSpace(s), true
}

func StrSlice(m map[string]any, key string) ([]string, bool) {
	v, ok := m[key]
	if !ok {
		return nil, false
	}
	switch list := v.(type) {
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		if len(out) == 0 {
			return nil, false
		}
		return out, true
	case []string:
		if len(list) == 0 {
			return nil, false
		}
		return list, true
	}
	return nil, false
}

// Clamp bounds v to the closed interval [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampNum reads a numeric field and clamps it, falling back to def when the
// field is absent or not a number.
func ClampNum(m map[string]any, key string, lo, hi, def float64) float64 {
	v, ok := Num(m, key)
	if !ok {
		return def
	}
	return Clamp(v, lo, hi)
}

// Enum coerces a string field to a member of the closed set allowed (case
// insensitive), falling back to def.
func Enum(m map[string]any, key string, allowed []string, def string) string {
	s, ok := Str(m, key)
	if !ok {
		return def
	}
	normalized := strings.ToLower(strings.ReplaceAll(s, " ", "_"))
	for _, a := range allowed {
		if normalized == a {
			return a
		}
	}
	return def
}
