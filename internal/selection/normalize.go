// Package selection holds the country and year selection and the filter every view shares.
package selection

import (
	"fmt"
	"strings"
)

// NormalizeCountries accepts nil, a string, a []string or a []any and returns the
// non-blank names in first-seen order with duplicates removed. The result is never nil.
func NormalizeCountries(input any) []string {
	switch v := input.(type) {
	case nil:
		return []string{}
	case string:
		return dedupe([]string{v})
	case []string:
		return dedupe(v)
	case []any:
		names := make([]string, 0, len(v))
		for _, item := range v {
			switch s := item.(type) {
			case nil:
			case string:
				names = append(names, s)
			default:
				names = append(names, fmt.Sprint(s))
			}
		}
		return dedupe(names)
	default:
		return dedupe([]string{fmt.Sprint(v)})
	}
}

// SplitList parses a comma-separated country list as typed on the command line.
func SplitList(raw string) []string {
	return NormalizeCountries(strings.Split(raw, ","))
}

func dedupe(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
