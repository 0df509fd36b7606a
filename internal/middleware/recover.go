package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"pet-adoption/internal/platform/apperr"
	"pet-adoption/internal/platform/httpjson"
	"pet-adoption/internal/platform/logger"
)

// Recover reemplaza chi/middleware.Recoverer: el panic se loguea con el
// logger del request y el cliente recibe el error JSON estándar.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logger.FromContext(r.Context()).Error("panic recovered", map[string]any{
				"panic": fmt.Sprint(rec),
				"stack": string(debug.Stack()),
				"path":  r.URL.Path,
			})
			httpjson.Write(w, http.StatusInternalServerError, apperr.Payload(apperr.ErrInternal))
		}()
		next.ServeHTTP(w, r)
	})
}
