package xanterra

import (
	"html"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

/********** alias registries **********/

var codeAliases = []string{"code", "hotelCode", "roomCode", "id"}

var titleAliases = []string{"title", "name", "description"}

var roomRowAliases = map[string][]string{
	"room_code": {"roomCode", "room_code", "code"},
	"available": {"available", "availability", "count"},
	"price":     {"price", "rate", "amount"},
	"rate_code": {"rateCode", "rate_code"},
	"updated":   {"updated", "lastUpdated", "updated_at"},
}

var titlePolicy = bluemonday.StrictPolicy()

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// firstStr returns the first non-empty string (numbers are formatted) at paths.
func firstStr(m map[string]any, paths ...string) string {
	for _, p := range paths {
		switch v := lookupAny(m, p).(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// firstFloat: number from several paths (float64 or numeric string like "129,00").
func firstFloat(m map[string]any, paths ...string) (float64, bool) {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			return v, true
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

// firstCount reads a non-negative integer count; fractional values are rejected.
func firstCount(m map[string]any, paths ...string) (int, bool) {
	f, ok := firstFloat(m, paths...)
	if !ok || f < 0 || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// objects accepts either a JSON array of objects or an object keyed by id,
// returning the objects in a stable order.
func objects(v any) []map[string]any {
	switch t := v.(type) {
	case []any:
		out := make([]map[string]any, 0, len(t))
		for _, it := range t {
			if m, ok := it.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]map[string]any, 0, len(t))
		for _, k := range keys {
			if m, ok := t[k].(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

// cleanTitle strips markup from upstream titles and decodes entities.
func cleanTitle(s string) string {
	return strings.Join(strings.Fields(html.UnescapeString(titlePolicy.Sanitize(s))), " ")
}
