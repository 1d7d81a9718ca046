// Package urlscore compares cBioPortal URLs in agent answers against
// expected links. URLs are extracted from markdown or plain text, decomposed
// into path, query and fragment components, and scored hierarchically so
// partially correct links earn partial credit.
package urlscore

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
)

// urlPattern captures markdown links or bare URLs. Embedded quotes are
// allowed so unencoded filterJson fragments survive extraction.
var urlPattern = regexp.MustCompile(`(?i)(?:\[[^\]]*\]\((https?://[^)\s]+)\))|(https?://[^\s<>]+)`)

// SpecialQueryKeys are query parameters whose values are run-specific ids.
// Links carrying them cannot be compared verbatim, so they are flagged in
// the score summary.
var SpecialQueryKeys = map[string]bool{
	"session_id":   true,
	"comparisonId": true,
}

const filterJSONToken = "#filterJson={"

// compactFilterJSONBlocks removes whitespace and newlines inside
// #filterJson={...} fragments so the URL is contiguous for extraction.
// Nested braces are handled; unterminated fragments are left as found.
func compactFilterJSONBlocks(text string) string {
	var b strings.Builder
	idx := 0

	for {
		start := strings.Index(text[idx:], filterJSONToken)
		if start == -1 {
			b.WriteString(text[idx:])
			break
		}
		start += idx

		b.WriteString(text[idx:start])

		j := start + len(filterJSONToken)
		depth := 1
		for j < len(text) && depth > 0 {
			switch text[j] {
			case '{':
				depth++
			case '}':
				depth--
			}
			j++
		}

		fragment := text[start:j]
		b.WriteString(strings.Join(strings.Fields(fragment), ""))
		idx = j
	}

	return b.String()
}

// stripUnbalancedTrailingParens removes closing parens that wrap markdown
// links while keeping balanced ones inside the URL, then trims trailing
// punctuation.
func stripUnbalancedTrailingParens(u string) string {
	opens := strings.Count(u, "(")
	closes := strings.Count(u, ")")
	for strings.HasSuffix(u, ")") && closes > opens {
		u = u[:len(u)-1]
		closes--
	}
	return strings.TrimRight(u, ".,;:")
}

// ExtractURLs returns all URLs found in the text, in order of first
// occurrence, deduplicated.
func ExtractURLs(text string) []string {
	text = compactFilterJSONBlocks(text)

	var urls []string
	seen := make(map[string]bool)

	for _, m := range urlPattern.FindAllStringSubmatch(text, -1) {
		u := m[1]
		if u == "" {
			u = m[2]
		}
		cleaned := stripUnbalancedTrailingParens(u)
		if cleaned != "" && !seen[cleaned] {
			seen[cleaned] = true
			urls = append(urls, cleaned)
		}
	}

	return urls
}

// FilterPortalURLs keeps only URLs that point at cbioportal.org.
func FilterPortalURLs(urls []string) []string {
	var kept []string
	for _, u := range urls {
		if strings.Contains(u, "cbioportal.org") {
			kept = append(kept, u)
		}
	}
	return kept
}

// CollectSpecialIDs aggregates special query parameter values across URLs,
// deduplicating per key.
func CollectSpecialIDs(urls []string) map[string][]string {
	combined := make(map[string][]string)
	for _, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil {
			continue
		}
		for _, p := range parseQueryPairs(u.RawQuery) {
			if !SpecialQueryKeys[p.key] {
				continue
			}
			if !contains(combined[p.key], p.value) {
				combined[p.key] = append(combined[p.key], p.value)
			}
		}
	}
	if len(combined) == 0 {
		return nil
	}
	return combined
}

// FormatSpecialIDs renders collected ids as "key=v1,v2; key2=v3" for the
// score summary. Keys are sorted for stable output.
func FormatSpecialIDs(ids map[string][]string) string {
	if len(ids) == 0 {
		return ""
	}

	keys := make([]string, 0, len(ids))
	for k := range ids {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		entry := k + "=" + strings.Join(ids[k], ",")
		parts = append(parts, strings.TrimRight(entry, "="))
	}
	return strings.Join(parts, "; ")
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
