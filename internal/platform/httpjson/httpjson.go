// Package httpjson concentra el writeJSON que antes estaba duplicado por módulo.
package httpjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"pet-adoption/internal/platform/apperr"
	"pet-adoption/internal/platform/logger"
)

const maxBodyBytes = 1 << 20

func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error traduce err a su status/payload. Los 5xx se loguean con el logger
// del request y salen con un mensaje genérico.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("request failed", map[string]any{
			"err":    err,
			"method": r.Method,
			"path":   r.URL.Path,
		})
		Write(w, status, apperr.Payload(apperr.ErrInternal))
		return
	}
	Write(w, status, apperr.Payload(err))
}

// Decode lee un JSON de hasta 1MB (más grande: 400). Campos desconocidos se
// rechazan si strict.
func Decode(w http.ResponseWriter, r *http.Request, dst any, strict bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return apperr.WithMessage(apperr.ErrBadRequest, fmt.Sprintf("el cuerpo supera %d bytes", tooLarge.Limit))
		case errors.Is(err, io.EOF):
			return apperr.WithMessage(apperr.ErrBadRequest, "cuerpo vacío")
		}
		return apperr.Wrap(err, apperr.ErrBadRequest, "json inválido")
	}
	return nil
}
