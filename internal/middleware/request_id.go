package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"pet-adoption/internal/platform/logger"
)

// RequestID corre después de chimw.RequestID: devuelve el id en la
// respuesta y deja en el contexto un logger con request_id.
func RequestID(base logger.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = logger.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chimw.GetReqID(r.Context())
			l := base
			if id != "" {
				w.Header().Set(chimw.RequestIDHeader, id)
				l = base.With(map[string]any{"request_id": id})
			}
			next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context(), l)))
		})
	}
}
