package urlscore

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// node is one comparison point in the URL component tree.
type node struct {
	name     string
	expected any
	actual   any
	match    bool
	children []*node
}

// Row is one node of the scored comparison tree, for the per-question
// detail report.
type Row struct {
	NodeID    string
	Component string
	Expected  any
	Actual    any
	Match     bool
	Weight    float64
	Counts    bool
	Score     float64
}

// nonScoring components anchor a URL but carry no credit: a wrong host makes
// the whole link wrong regardless of component-level similarity, and a right
// host earns nothing by itself.
var nonScoring = map[string]bool{"core": true, "scheme": true, "host": true, "port": true}

// Score compares an actual URL against the expected one. The component tree
// splits weight equally among children at each level; only matching leaves
// contribute, so the total lands in [0, 1].
func Score(expected, actual string) (float64, []Row, error) {
	exp, err := normalizeURL(expected)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid expected URL %q: %w", expected, err)
	}
	act, err := normalizeURL(actual)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid answer URL %q: %w", actual, err)
	}

	tree := buildTree(exp, act)
	if len(tree) == 0 {
		return 0, nil, nil
	}

	scoringCount := 0
	for _, n := range tree {
		if !nonScoring[n.name] {
			scoringCount++
		}
	}
	if scoringCount == 0 {
		return 0, nil, nil
	}

	topWeight := 1.0 / float64(scoringCount)
	var rows []Row
	total := 0.0
	for idx, n := range tree {
		weight := topWeight
		if nonScoring[n.name] {
			weight = 0
		}
		total += assignScores(n, weight, strconv.Itoa(idx+1), &rows)
	}

	return total, rows, nil
}

// BestScore scores every expected/answer URL pair and returns the maximum,
// with the detail rows of the best pair.
func BestScore(expectedURLs, answerURLs []string) (float64, []Row) {
	best := 0.0
	var bestRows []Row

	for _, exp := range expectedURLs {
		for _, ans := range answerURLs {
			score, rows, err := Score(exp, ans)
			if err != nil {
				continue
			}
			if score >= best {
				best = score
				bestRows = rows
			}
		}
	}

	return best, bestRows
}

func buildTree(exp, act *parsedURL) []*node {
	var nodes []*node

	coreChildren := []*node{
		{name: "scheme", expected: exp.scheme, actual: act.scheme, match: exp.scheme == act.scheme},
		{name: "host", expected: exp.host, actual: act.host, match: exp.host == act.host},
		{name: "port", expected: exp.port, actual: act.port, match: exp.port == act.port},
	}
	coreMatch := true
	for _, c := range coreChildren {
		coreMatch = coreMatch && c.match
	}
	nodes = append(nodes, &node{name: "core", match: coreMatch, children: coreChildren})

	nodes = append(nodes, buildPathNode(exp.path, act.path))
	nodes = append(nodes, buildQueryNode(exp.queryPairs, act.queryPairs))

	if frag := buildFragmentNode(exp.fragment, act.fragment); frag != nil {
		nodes = append(nodes, frag)
	}

	return nodes
}

func pathSegments(path string) []string {
	if path == "/" {
		return nil
	}
	var segs []string
	for _, seg := range strings.Split(strings.Trim(path, "/"), "/") {
		if seg != "" {
			segs = append(segs, seg)
		}
	}
	return segs
}

func buildPathNode(expPath, actPath string) *node {
	expSegs := pathSegments(expPath)
	actSegs := pathSegments(actPath)

	var children []*node
	maxLen := len(expSegs)
	if len(actSegs) > maxLen {
		maxLen = len(actSegs)
	}
	for i := 0; i < maxLen; i++ {
		var ev, av any
		if i < len(expSegs) {
			ev = expSegs[i]
		}
		if i < len(actSegs) {
			av = actSegs[i]
		}
		children = append(children, &node{
			name:     fmt.Sprintf("path[%d]", i),
			expected: ev,
			actual:   av,
			match:    ev == av,
		})
	}

	return &node{
		name:     "path",
		expected: expPath,
		actual:   actPath,
		match:    expPath == actPath,
		children: children,
	}
}

func buildQueryNode(expPairs, actPairs []queryPair) *node {
	expQ := multimap(expPairs)
	actQ := multimap(actPairs)

	keySet := make(map[string]bool)
	for k := range expQ {
		keySet[k] = true
	}
	for k := range actQ {
		keySet[k] = true
	}
	keys := make([]string, 0, len(keySet))
	for k := range keySet {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var children []*node
	for _, key := range keys {
		evList, evOK := expQ[key]
		avList, avOK := actQ[key]
		keyMatch := evOK && avOK && deepEqual(sortedCopy(evList), sortedCopy(avList))

		var valueChildren []*node
		if !keyMatch {
			valueChildren = buildValueNodes(key, evList, avList)
		}

		children = append(children, &node{
			name:     fmt.Sprintf("query[%s]", key),
			expected: anyOrNil(evList),
			actual:   anyOrNil(avList),
			match:    keyMatch,
			children: valueChildren,
		})
	}

	return &node{
		name:     "query",
		expected: expQ,
		actual:   actQ,
		match:    deepEqual(expQ, actQ),
		children: children,
	}
}

// buildValueNodes pairs up exploded values by multiplicity. Matched values
// become matching leaves (with JSON subtrees when the value parses), while
// surplus values on either side become mismatched leaves.
func buildValueNodes(key string, evList, avList []string) []*node {
	evVals := explodeList(evList)
	avVals := explodeList(avList)

	expCount := make(map[string]int)
	for _, v := range evVals {
		expCount[v]++
	}
	actCount := make(map[string]int)
	for _, v := range avVals {
		actCount[v]++
	}

	valSet := make(map[string]bool)
	for v := range expCount {
		valSet[v] = true
	}
	for v := range actCount {
		valSet[v] = true
	}
	vals := make([]string, 0, len(valSet))
	for v := range valSet {
		vals = append(vals, v)
	}
	sort.Strings(vals)

	var children []*node
	idx := 0
	for _, val := range vals {
		matched := expCount[val]
		if actCount[val] < matched {
			matched = actCount[val]
		}
		for i := 0; i < matched; i++ {
			name := fmt.Sprintf("query[%s][%d]", key, idx)
			var jsonChildren []*node
			if parsed, ok := tryJSON(val); ok {
				jsonChildren = buildJSONNodes(name, parsed, parsed)
			}
			children = append(children, &node{
				name: name, expected: val, actual: val, match: true, children: jsonChildren,
			})
			idx++
		}
		for i := 0; i < expCount[val]-matched; i++ {
			children = append(children, &node{
				name: fmt.Sprintf("query[%s][%d]", key, idx), expected: val,
			})
			idx++
		}
		for i := 0; i < actCount[val]-matched; i++ {
			children = append(children, &node{
				name: fmt.Sprintf("query[%s][%d]", key, idx), actual: val,
			})
			idx++
		}
	}

	return children
}

func buildFragmentNode(expFrag, actFrag string) *node {
	splitFrag := func(frag string) (key, value any) {
		if frag == "" {
			return nil, nil
		}
		if k, v, found := strings.Cut(frag, "="); found {
			return k, v
		}
		return nil, frag
	}

	expFK, expFV := splitFrag(expFrag)
	actFK, actFV := splitFrag(actFrag)

	var children []*node
	if expFK != nil || actFK != nil {
		children = append(children, &node{
			name: "fragment.key", expected: expFK, actual: actFK, match: expFK == actFK,
		})
	}
	if expFV != nil || actFV != nil {
		var jsonChildren []*node
		if evStr, ok := expFV.(string); ok {
			if avStr, ok := actFV.(string); ok {
				evJSON, evOK := tryJSON(evStr)
				avJSON, avOK := tryJSON(avStr)
				if evOK && avOK {
					jsonChildren = buildJSONNodes("fragment.value", evJSON, avJSON)
				}
			}
		}
		children = append(children, &node{
			name: "fragment.value", expected: expFV, actual: actFV,
			match: expFV == actFV, children: jsonChildren,
		})
	}

	if len(children) == 0 && expFrag == "" && actFrag == "" {
		return nil
	}
	return &node{
		name:     "fragment",
		expected: expFrag,
		actual:   actFrag,
		match:    expFrag == actFrag,
		children: children,
	}
}

// buildJSONNodes walks parallel JSON structures, one node per key or index.
func buildJSONNodes(prefix string, ev, av any) []*node {
	if evMap, ok := ev.(map[string]any); ok {
		avMap, ok := av.(map[string]any)
		if !ok {
			return nil
		}
		keySet := make(map[string]bool)
		for k := range evMap {
			keySet[k] = true
		}
		for k := range avMap {
			keySet[k] = true
		}
		keys := make([]string, 0, len(keySet))
		for k := range keySet {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var nodes []*node
		for _, k := range keys {
			childPrefix := prefix + "." + k
			evChild := evMap[k]
			avChild := avMap[k]
			nodes = append(nodes, &node{
				name:     childPrefix,
				expected: evChild,
				actual:   avChild,
				match:    deepEqual(evChild, avChild),
				children: buildJSONNodes(childPrefix, evChild, avChild),
			})
		}
		return nodes
	}

	if evList, ok := ev.([]any); ok {
		avList, ok := av.([]any)
		if !ok {
			return nil
		}
		maxLen := len(evList)
		if len(avList) > maxLen {
			maxLen = len(avList)
		}
		var nodes []*node
		for i := 0; i < maxLen; i++ {
			var evItem, avItem any
			if i < len(evList) {
				evItem = evList[i]
			}
			if i < len(avList) {
				avItem = avList[i]
			}
			childPrefix := fmt.Sprintf("%s[%d]", prefix, i)
			nodes = append(nodes, &node{
				name:     childPrefix,
				expected: evItem,
				actual:   avItem,
				match:    deepEqual(evItem, avItem),
				children: buildJSONNodes(childPrefix, evItem, avItem),
			})
		}
		return nodes
	}

	return nil
}

// assignScores walks the tree, splitting weight equally among children.
// Internal nodes get rows for visibility but only leaves add to the total.
func assignScores(n *node, weight float64, label string, rows *[]Row) float64 {
	if nonScoring[n.name] {
		weight = 0
	}

	if len(n.children) > 0 {
		childWeight := weight / float64(len(n.children))
		contrib := 0.0
		for idx, child := range n.children {
			contrib += assignScores(child, childWeight, fmt.Sprintf("%s.%d", label, idx+1), rows)
		}
		*rows = append(*rows, Row{
			NodeID: label, Component: n.name,
			Expected: n.expected, Actual: n.actual,
			Match: n.match, Weight: weight,
		})
		return contrib
	}

	contrib := 0.0
	if n.match {
		contrib = weight
	}
	*rows = append(*rows, Row{
		NodeID: label, Component: n.name,
		Expected: n.expected, Actual: n.actual,
		Match: n.match, Weight: weight,
		Counts: weight > 0, Score: contrib,
	})
	return contrib
}

func anyOrNil(vals []string) any {
	if vals == nil {
		return nil
	}
	return vals
}

// WriteRowsTSV renders the detail rows as a tab-separated report.
func WriteRowsTSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	if err := cw.Write([]string{"node_id", "component", "expected", "actual", "match", "weight", "counts", "score"}); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.NodeID,
			r.Component,
			formatCell(r.Expected),
			formatCell(r.Actual),
			strconv.FormatBool(r.Match),
			strconv.FormatFloat(r.Weight, 'g', -1, 64),
			strconv.FormatBool(r.Counts),
			strconv.FormatFloat(r.Score, 'g', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(b)
	}
}
