package postgres

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps q for a substring ILIKE match with metacharacters escaped.
func likePattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}
