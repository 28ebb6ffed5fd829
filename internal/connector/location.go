package connector

import (
	"regexp"
	"strings"
)

// joinParts drops empty components and joins the rest with ", ".
// Callers pass city/region/country in that order.
func joinParts(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}

// joinLocation reduces a loosely typed location value (string, list of
// strings, structured address object, or a list of those) to one
// comma-joined string. Used where the payload shape is not fixed, e.g.
// JSON-LD jobLocation.
func joinLocation(v any) string {
	return joinParts(flattenLocation(v)...)
}

func flattenLocation(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return []string{t}
	case []string:
		return t
	case []any:
		var parts []string
		for _, e := range t {
			parts = append(parts, flattenLocation(e)...)
		}
		return parts
	case map[string]any:
		// Structured objects carry city/region/country under vendor or
		// schema.org names; components are extracted in that order.
		if addr, ok := t["address"]; ok {
			if parts := flattenLocation(addr); len(parts) > 0 {
				return parts
			}
		}
		return []string{
			firstString(t, "city", "addressLocality"),
			firstString(t, "region", "addressRegion"),
			firstString(t, "country", "addressCountry"),
		}
	}
	return nil
}

// firstString returns the first non-empty string value among keys.
// Nested objects with a "name" field (schema.org Country etc.) count too.
func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case map[string]any:
			if name, ok := v["name"].(string); ok && name != "" {
				return name
			}
		}
	}
	return ""
}

var slugifyRegex = regexp.MustCompile(`[^a-z0-9]+`)

// slugify converts a free-text title into a URL-safe fragment.
func slugify(s string) string {
	return strings.Trim(slugifyRegex.ReplaceAllString(strings.ToLower(s), "-"), "-")
}
