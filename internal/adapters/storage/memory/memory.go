// Package memory implementa los repositorios en RAM. Se usa cuando no hay
// DB_DSN configurado y en los tests end-to-end del router.
package memory

import "strings"

// page recorta out a [offset, offset+limit). limit <= 0 no recorta.
func page[T any](out []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(out) {
			return out[:0]
		}
		out = out[offset:]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func containsFold(q string, fields ...string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(strings.Join(fields, " ")), q)
}
