package apperr

import (
	"errors"
	"net/http"
)

// Error es un error tipado que conoce su status HTTP y su código estable.
type Error struct {
	Code    string         `json:"code"`
	Message string         `json:"message,omitempty"`
	Status  int            `json:"-"`
	Fields  map[string]any `json:"fields,omitempty"`
	Err     error          `json:"-"`
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	return "error"
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is compara por código, así las copias de Wrap/WithMessage siguen
// matcheando con errors.Is(err, apperr.ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

func Wrap(err error, base *Error, message string) *Error {
	if err == nil {
		return nil
	}
	if base == nil {
		base = ErrInternal
	}
	cp := *base
	if message != "" {
		cp.Message = message
	}
	cp.Err = err
	return &cp
}

func WithMessage(base *Error, message string) *Error {
	if base == nil {
		return nil
	}
	cp := *base
	cp.Message = message
	return &cp
}

func WithFields(base *Error, fields map[string]any) *Error {
	if base == nil {
		return nil
	}
	cp := *base
	cp.Fields = fields
	return &cp
}

func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e, true
	}
	return nil, false
}

func Status(err error) int {
	if e, ok := As(err); ok && e.Status != 0 {
		return e.Status
	}
	return http.StatusInternalServerError
}

func Code(err error) string {
	if e, ok := As(err); ok && e.Code != "" {
		return e.Code
	}
	return "internal_error"
}

func Message(err error) string {
	if e, ok := As(err); ok {
		if e.Message != "" {
			return e.Message
		}
		if e.Err != nil {
			return e.Err.Error()
		}
		return e.Code
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

func Payload(err error) map[string]any {
	if err == nil {
		return map[string]any{}
	}
	if e, ok := As(err); ok {
		payload := map[string]any{
			"code":    Code(e),
			"message": Message(e),
		}
		if len(e.Fields) > 0 {
			payload["fields"] = e.Fields
		}
		return payload
	}
	return map[string]any{
		"code":    "internal_error",
		"message": err.Error(),
	}
}

var (
	ErrBadRequest      = New("bad_request", http.StatusBadRequest, "solicitud inválida")
	ErrValidation      = New("validation_error", http.StatusBadRequest, "datos inválidos")
	ErrUnauthorized    = New("unauthorized", http.StatusUnauthorized, "no autenticado")
	ErrForbidden       = New("forbidden", http.StatusForbidden, "acceso denegado")
	ErrNotFound        = New("not_found", http.StatusNotFound, "no encontrado")
	ErrConflict        = New("conflict", http.StatusConflict, "conflicto")
	ErrBadState        = New("invalid_state", http.StatusConflict, "transición de estado inválida")
	ErrTooManyRequests = New("too_many_requests", http.StatusTooManyRequests, "demasiadas solicitudes, intentá más tarde")
	ErrInternal        = New("internal_error", http.StatusInternalServerError, "error interno")
)
