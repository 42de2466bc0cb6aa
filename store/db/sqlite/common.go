package sqlite

import "strings"

// placeholders returns n placeholders for SQLite.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func joinWhere(where []string) string {
	return strings.Join(where, " AND ")
}
