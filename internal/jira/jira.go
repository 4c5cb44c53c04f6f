// Package jira builds issue tracker queries and links for dashboard cells.
package jira

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/huangsam/kpidash/schema"
)

// Mode selects which date constraint a query applies.
type Mode string

// Query modes.
const (
	// ExistedAtStart matches issues created before start and unresolved at start.
	ExistedAtStart Mode = "existedAtStart"
	// ResolvedInRange matches issues resolved within [start, end], inclusive.
	ResolvedInRange Mode = "resolvedInRange"
	// StillOpen matches unresolved issues, ignoring dates.
	StillOpen Mode = "stillOpen"
	// CreatedInRange matches issues created within [start, end], inclusive.
	CreatedInRange Mode = "createdInRange"
)

// ValidModes lists all valid query modes.
var ValidModes = map[Mode]struct{}{
	ExistedAtStart:  {},
	ResolvedInRange: {},
	StillOpen:       {},
	CreatedInRange:  {},
}

// DefaultIssueTypes is the issue type filter used when none is given.
var DefaultIssueTypes = []string{"Story", "Task", "Sub-task", "Bug"}

var bareKeyRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*-\d+$`)

// Query describes issues under a set of epics.
type Query struct {
	Keys       []string // Epic keys the issues belong to
	IssueTypes []string // Empty means DefaultIssueTypes
	Start      string   // YYYY-MM-DD
	End        string   // YYYY-MM-DD
	Mode       Mode
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func formatKey(k string) string {
	if bareKeyRe.MatchString(k) {
		return k
	}
	return quote(k)
}

func keyList(keys []string) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			parts = append(parts, formatKey(k))
		}
	}
	return strings.Join(parts, ", ")
}

// groupClause matches issues linked to the epics either as epic children or sub-items.
func groupClause(keys []string) string {
	if len(keys) == 1 {
		k := formatKey(keys[0])
		return fmt.Sprintf(`("Epic Link" = %s OR parent = %s)`, k, k)
	}
	list := keyList(keys)
	return fmt.Sprintf(`("Epic Link" IN (%s) OR parent IN (%s))`, list, list)
}

// JQL renders the query expression.
func (q Query) JQL() string {
	types := q.IssueTypes
	if len(types) == 0 {
		types = DefaultIssueTypes
	}
	quoted := make([]string, len(types))
	for i, t := range types {
		quoted[i] = quote(t)
	}

	var b strings.Builder
	b.WriteString(groupClause(q.Keys))
	fmt.Fprintf(&b, " AND issuetype IN (%s)", strings.Join(quoted, ", "))

	switch q.Mode {
	case ExistedAtStart:
		if q.Start != "" {
			s := quote(q.Start)
			fmt.Fprintf(&b, " AND created < %s AND (resolved IS EMPTY OR resolved >= %s)", s, s)
		}
	case ResolvedInRange:
		if q.Start != "" {
			fmt.Fprintf(&b, " AND resolved >= %s", quote(q.Start))
		}
		if q.End != "" {
			fmt.Fprintf(&b, " AND resolved <= %s", quote(q.End))
		}
	case StillOpen:
		b.WriteString(" AND resolved IS EMPTY")
	case CreatedInRange:
		if q.Start != "" {
			fmt.Fprintf(&b, " AND created >= %s", quote(q.Start))
		}
		if q.End != "" {
			fmt.Fprintf(&b, " AND created <= %s", quote(q.End))
		}
	}
	return b.String()
}

// IssueListJQL matches exactly the given issue keys.
func IssueListJQL(keys []string) string {
	return fmt.Sprintf("key IN (%s)", keyList(keys))
}

// Encode percent-encodes a query expression with spaces as %20.
func Encode(jql string) string {
	return strings.ReplaceAll(url.QueryEscape(jql), "+", "%20")
}

// SearchURL links to the issue search page for a query expression.
func SearchURL(base, jql string) string {
	return strings.TrimRight(base, "/") + "/issues/?jql=" + Encode(jql)
}

// BrowseURL links to a single issue.
func BrowseURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/browse/" + url.PathEscape(strings.TrimSpace(key))
}

// CountLink renders a count as a cell linking to the matching issue search.
// Zero counts, queries without epic keys and an unset base render as plain text.
func CountLink(base string, count *int, q Query) schema.Cell {
	if count == nil {
		return schema.NumberCell("NA", nil, schema.NotApplicable)
	}
	cell := schema.NumberCell(strconv.Itoa(*count), schema.IntToFloat(count), "")
	if *count == 0 || len(q.Keys) == 0 || base == "" {
		return cell
	}
	cell.URL = SearchURL(base, q.JQL())
	return cell
}

// IssueListLink renders the number of issue keys, linked to a search for them.
func IssueListLink(base string, keys []string) schema.Cell {
	n := len(keys)
	cell := schema.NumberCell(strconv.Itoa(n), schema.Float(float64(n)), "")
	if n == 0 || base == "" {
		return cell
	}
	cell.URL = SearchURL(base, IssueListJQL(keys))
	return cell
}

// ParseKeys splits a comma or whitespace separated list of issue keys.
func ParseKeys(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}
