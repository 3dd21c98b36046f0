package mysql

import (
	"strings"

	domain "github.com/bryanwahyu/accessiscan/internal/domain/scans"
)

// whereClause builds the WHERE fragment and its args for a history filter.
func whereClause(f domain.Filter) (string, []any) {
	var conds []string
	var args []any
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(f.Status))
	}
	if w := strings.TrimSpace(f.Website); w != "" {
		conds = append(conds, `(website_url LIKE ? ESCAPE '\\' OR website_name LIKE ? ESCAPE '\\')`)
		pattern := "%" + escapeLikePattern(w) + "%"
		args = append(args, pattern, pattern)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// escapeLikePattern escapes special characters in LIKE patterns to prevent SQL injection
func escapeLikePattern(s string) string {
	// Escape backslash first, then other LIKE special characters
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
