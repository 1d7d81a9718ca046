// Package sqllog captures SQL queries from MCP server log output and
// renders them as a markdown appendix for answer files.
package sqllog

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	queryPattern  = regexp.MustCompile(`(?i)(?:Executing (?:SELECT|INSERT|UPDATE|DELETE|DESCRIBE|SHOW) query:|Query:)\s*(.+)`)
	resultPattern = regexp.MustCompile(`(?i)Query returned (\d+) rows?`)
	// trailing timestamps that some loggers append to the same line
	logTailPattern   = regexp.MustCompile(`\s*\d{4}-\d{2}-\d{2}.*$`)
	whitespaceRun    = regexp.MustCompile(`\s+`)
	sqlKeywords      = []string{"SELECT", "INSERT", "UPDATE", "DELETE", "DESCRIBE", "SHOW"}
	minQueryLength   = 20
	timestampDisplay = "2006-01-02 15:04:05"
)

// Query is one captured SQL statement with its log metadata.
type Query struct {
	SQL           string
	Timestamp     time.Time
	ExecutionTime float64 // seconds, zero when unknown
	ResultCount   *int
	Error         string
}

// Logger accumulates queries parsed from server log lines. It is safe for
// concurrent use since agent requests and log scanning run on different
// goroutines.
type Logger struct {
	mu      sync.Mutex
	queries []Query
	enabled bool
	now     func() time.Time
}

// NewLogger creates a disabled logger; call Enable before feeding lines.
func NewLogger() *Logger {
	return &Logger{now: time.Now}
}

func (l *Logger) Enable() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = true
}

func (l *Logger) Disable() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = false
}

// Clear drops all captured queries.
func (l *Logger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.queries = nil
}

// Add records a query when logging is enabled.
func (l *Logger) Add(q Query) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.enabled {
		return
	}
	if q.Timestamp.IsZero() {
		q.Timestamp = l.now()
	}
	l.queries = append(l.queries, q)
}

// Queries returns a copy of the captured queries.
func (l *Logger) Queries() []Query {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Query, len(l.queries))
	copy(out, l.queries)
	return out
}

// ParseLine extracts a SQL query or a result count from one server log line.
// Result-count lines update the most recently captured query.
func (l *Logger) ParseLine(line string) {
	if m := queryPattern.FindStringSubmatch(line); m != nil {
		if sql := CleanQuery(m[1]); sql != "" {
			q := Query{SQL: sql}
			if count, ok := extractResultCount(line); ok {
				q.ResultCount = &count
			}
			l.Add(q)
		}
	}

	if count, ok := extractResultCount(line); ok {
		l.mu.Lock()
		if l.enabled && len(l.queries) > 0 {
			l.queries[len(l.queries)-1].ResultCount = &count
		}
		l.mu.Unlock()
	}
}

// Scan feeds every line from r through ParseLine, e.g. from an MCP server's
// stderr pipe.
func (l *Logger) Scan(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			l.ParseLine(line)
		}
	}
	return scanner.Err()
}

// CleanQuery strips trailing log noise and collapses whitespace. Fragments
// too short to be a real statement are discarded.
func CleanQuery(query string) string {
	query = logTailPattern.ReplaceAllString(query, "")
	query = strings.TrimSpace(whitespaceRun.ReplaceAllString(query, " "))

	if len(query) <= minQueryLength {
		return ""
	}
	upper := strings.ToUpper(query)
	for _, kw := range sqlKeywords {
		if strings.Contains(upper, kw) {
			return query
		}
	}
	return ""
}

// Markdown renders the captured queries as a "SQL Queries Executed" section,
// or "" when nothing was captured.
func (l *Logger) Markdown() string {
	queries := l.Queries()
	if len(queries) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("## SQL Queries Executed\n\n")

	for i, q := range queries {
		fmt.Fprintf(&b, "### Query %d\n", i+1)
		fmt.Fprintf(&b, "**Timestamp:** %s\n", q.Timestamp.Format(timestampDisplay))

		if q.ExecutionTime > 0 {
			fmt.Fprintf(&b, "**Execution Time:** %.3fs\n", q.ExecutionTime)
		}
		if q.ResultCount != nil {
			fmt.Fprintf(&b, "**Result Count:** %d\n", *q.ResultCount)
		}
		if q.Error != "" {
			fmt.Fprintf(&b, "**Error:** %s\n", q.Error)
		}

		b.WriteString("\n```sql\n")
		b.WriteString(q.SQL)
		b.WriteString("\n```\n\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func extractResultCount(line string) (int, bool) {
	m := resultPattern.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
