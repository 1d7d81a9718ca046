package urlscore

import (
	"encoding/json"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

var defaultPorts = map[string]int{"http": 80, "https": 443}

// listSeparators split query values that encode lists. Comma is the common
// case; semicolons and newlines appear in hand-written expected answers.
var listSeparators = []string{",", ";", "\n"}

type queryPair struct {
	key   string
	value string
}

// parsedURL is a URL decomposed for comparison. Port is zero when absent or
// equal to the scheme default.
type parsedURL struct {
	scheme     string
	host       string
	port       int
	path       string
	queryPairs []queryPair
	fragment   string
}

func normalizeURL(raw string) (*parsedURL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}

	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())

	port := 0
	if p := u.Port(); p != "" {
		if n, err := strconv.Atoi(p); err == nil && n != defaultPorts[scheme] {
			port = n
		}
	}

	path := u.Path
	if path == "" {
		path = "/"
	}

	return &parsedURL{
		scheme:     scheme,
		host:       host,
		port:       port,
		path:       path,
		queryPairs: parseQueryPairs(u.RawQuery),
		fragment:   u.Fragment,
	}, nil
}

// parseQueryPairs decodes the raw query while preserving order, duplicate
// keys, and blank values. Undecodable components are kept verbatim.
func parseQueryPairs(rawQuery string) []queryPair {
	if rawQuery == "" {
		return nil
	}

	var pairs []queryPair
	for _, part := range strings.Split(rawQuery, "&") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		if dk, err := url.QueryUnescape(k); err == nil {
			k = dk
		}
		if dv, err := url.QueryUnescape(v); err == nil {
			v = dv
		}
		pairs = append(pairs, queryPair{key: k, value: v})
	}
	return pairs
}

// multimap groups query values by key, preserving value order.
func multimap(pairs []queryPair) map[string][]string {
	m := make(map[string][]string)
	for _, p := range pairs {
		m[p.key] = append(m[p.key], p.value)
	}
	return m
}

// sortedCopy returns the values sorted without mutating the input. Missing
// keys (nil) stay nil so presence still matters in comparisons.
func sortedCopy(vals []string) []string {
	if vals == nil {
		return nil
	}
	out := make([]string, len(vals))
	copy(out, vals)
	sort.Strings(out)
	return out
}

// doubleUnquote applies a second percent-decode for values that arrive
// double-encoded. Plus signs are left alone on the second pass.
func doubleUnquote(v string) string {
	if dv, err := url.PathUnescape(v); err == nil {
		return dv
	}
	return v
}

// explodeList splits list-encoded values into their elements. A value with
// no separator passes through after double-unquoting.
func explodeList(vals []string) []string {
	var exploded []string
	for _, v := range vals {
		work := doubleUnquote(v)
		sep := ""
		for _, s := range listSeparators {
			if strings.Contains(work, s) {
				sep = s
				break
			}
		}
		if sep == "" {
			exploded = append(exploded, work)
			continue
		}
		for _, part := range strings.Split(work, sep) {
			if part = strings.TrimSpace(part); part != "" {
				exploded = append(exploded, part)
			}
		}
	}
	return exploded
}

// tryJSON parses a value as JSON, returning ok only for objects and arrays.
func tryJSON(v string) (any, bool) {
	var parsed any
	if err := json.Unmarshal([]byte(v), &parsed); err != nil {
		return nil, false
	}
	switch parsed.(type) {
	case map[string]any, []any:
		return parsed, true
	}
	return nil, false
}

func deepEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}
