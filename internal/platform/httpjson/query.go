package httpjson

import (
	"net/http"
	"strconv"
	"strings"

	"pet-adoption/internal/platform/apperr"
)

// QueryInt lee un entero opcional; vacío devuelve def.
func QueryInt(r *http.Request, key string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperr.WithFields(apperr.ErrBadRequest, map[string]any{key: "debe ser un entero >= 0"})
	}
	return n, nil
}

// QueryList parsea "a,b,c" descartando vacíos.
func QueryList(r *http.Request, key string) []string {
	raw := r.URL.Query().Get(key)
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	out := make([]string, 0)
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
