// Package extract pulls result URLs and numeric values out of loosely typed
// provider payloads. Generation APIs in preview keep moving the artifact URL
// between response shapes, so the lookup tries each known shape in a fixed
// priority order instead of binding to one schema.
package extract

import (
	"encoding/json"
	"strconv"
)

// URL finds an artifact URL in a raw JSON payload. Known shapes are tried in
// priority order:
//
//	data[0].url
//	generations[0].url
//	generations[0].video.url
//	result.url
//	url
//
// The second return is false when no shape matches; callers treat that as a
// soft miss and fall back to a content fetch.
func URL(raw []byte) (string, bool) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", false
	}
	return URLFromMap(doc)
}

// URLFromMap is URL for payloads already decoded into a map.
func URLFromMap(doc map[string]any) (string, bool) {
	if first, ok := firstElement(doc["data"]); ok {
		if u := stringField(first, "url"); u != "" {
			return u, true
		}
	}

	if first, ok := firstElement(doc["generations"]); ok {
		if u := stringField(first, "url"); u != "" {
			return u, true
		}
		if video, ok := first["video"].(map[string]any); ok {
			if u := stringField(video, "url"); u != "" {
				return u, true
			}
		}
	}

	if result, ok := doc["result"].(map[string]any); ok {
		if u := stringField(result, "url"); u != "" {
			return u, true
		}
	}

	if u := stringField(doc, "url"); u != "" {
		return u, true
	}

	return "", false
}

// Float converts a loosely typed JSON value to a float64. Providers emit
// chart values as numbers or numeric strings interchangeably; anything
// unparseable yields zero.
func Float(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func firstElement(v any) (map[string]any, bool) {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return nil, false
	}
	obj, ok := list[0].(map[string]any)
	return obj, ok
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}
