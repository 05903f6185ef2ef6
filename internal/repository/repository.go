// Package repository holds the Postgres data access used by the dashboard API.
// Every failure is returned as a STORAGE_ERROR carrying the driver message, and
// missing single rows as NOT_FOUND.
package repository

import (
	"strings"
)

// EscapeLike escapes LIKE/ILIKE metacharacters so s matches literally.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// ContainsPattern builds a case-insensitive "contains" pattern for ILIKE.
func ContainsPattern(s string) string {
	return "%" + EscapeLike(s) + "%"
}
