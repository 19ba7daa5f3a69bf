package search

import (
	"net/url"
	"strings"
)

// Merge concatenates result groups in order and drops repeats of the same
// page. Results are keyed by title, or by normalized URL when untitled.
func Merge(groups ...[]Result) []Result {
	seen := map[string]struct{}{}
	var out []Result
	for _, g := range groups {
		for _, r := range g {
			key := pageKey(r)
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, r)
		}
	}
	return out
}

func pageKey(r Result) string {
	if t := strings.TrimSpace(r.Title); t != "" {
		return "t:" + strings.ToLower(strings.ReplaceAll(t, "_", " "))
	}
	if r.URL == "" {
		return ""
	}
	u, err := url.Parse(r.URL)
	if err != nil {
		return ""
	}
	u.Fragment = ""
	u.Host = strings.ToLower(u.Host)
	return "u:" + u.String()
}
