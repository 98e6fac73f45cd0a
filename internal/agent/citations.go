package agent

import (
	"regexp"
	"sort"
	"strings"
)

// tablePattern extracts table names referenced by a query. Bracketed
// identifiers like [Order Details] are intentionally not matched; the
// backend is expected to cite multi-word tables explicitly.
var tablePattern = regexp.MustCompile("(?i)\\b(?:FROM|JOIN|INTO|UPDATE|DELETE\\s+FROM)\\s+[`\"]?(\\w+)[`\"]?")

// identPattern is the bare-identifier shape accepted for a table citation.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// validCitation accepts chunk references ("sales_policy::chunk2") and
// plain identifiers under 50 characters. Everything else, including
// free prose the backend sometimes emits in the citations field, is
// dropped silently.
func validCitation(c string) bool {
	if c == "" || len(c) >= 50 {
		return false
	}
	if strings.Contains(c, "::chunk") {
		return true
	}
	return identPattern.MatchString(c)
}

// SanitizeCitations merges table names extracted from the executed
// query with the backend's own citations, keeping only well-formed
// entries. The result is deduplicated, sorted, and never nil.
func SanitizeCitations(raw any, sqlQuery string) []string {
	set := make(map[string]bool)

	for _, m := range tablePattern.FindAllStringSubmatch(sqlQuery, -1) {
		set[m[1]] = true
	}
	for _, c := range rawCitations(raw) {
		c = strings.TrimSpace(c)
		if validCitation(c) {
			set[c] = true
		}
	}

	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// rawCitations flattens whatever the backend put in the citations
// field into candidate strings. A single string is first tried as a
// serialized list ("['Orders', 'Order Details']"); if that fails it
// counts as one citation. Non-string list elements are skipped.
func rawCitations(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return nil
	case []string:
		return v
	case []any:
		var out []string
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if parsed, ok := ParseLiteral(strings.TrimSpace(v)); ok {
			if list, ok := parsed.([]any); ok {
				var out []string
				for _, e := range list {
					if s, ok := e.(string); ok {
						out = append(out, s)
					}
				}
				return out
			}
		}
		return []string{v}
	default:
		return nil
	}
}
