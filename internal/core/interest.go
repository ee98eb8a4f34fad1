package core

import "strings"

// randomTag is the sentinel interest meaning "no preference." It only
// matches another random declaration, never an arbitrary interest.
const randomTag = "random"

// Normalize canonicalizes a raw find_partner/skip payload into an ordered,
// deduplicated interest list. input is a string (optionally
// comma-separated), a []string, a []any of strings (as produced by
// decoding a JSON array into interface{}), or nil (treated as an
// omitted/empty string). Normalize never fails: any unrecognized shape
// degenerates to [random].
func Normalize(input any) []string {
	switch v := input.(type) {
	case string:
		return normalizeString(v)
	case []string:
		return dedupe(trimList(v))
	case []any:
		strs := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				strs = append(strs, s)
			}
		}
		return dedupe(trimList(strs))
	default:
		return []string{randomTag}
	}
}

func normalizeString(s string) []string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || strings.EqualFold(trimmed, randomTag) {
		return []string{randomTag}
	}
	parts := strings.Split(trimmed, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			tags = append(tags, p)
		}
	}
	return dedupe(tags)
}

func trimList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func dedupe(in []string) []string {
	if len(in) == 0 {
		return []string{randomTag}
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	if len(out) == 0 {
		return []string{randomTag}
	}
	return out
}
