package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIs_MatchesCopiesByCode(t *testing.T) {
	err := WithMessage(ErrNotFound, "perrito no encontrado")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))

	wrapped := fmt.Errorf("repo: %w", Wrap(errors.New("boom"), ErrNotFound, ""))
	assert.True(t, errors.Is(wrapped, ErrNotFound))
}

func TestStatus_DefaultsTo500(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, Status(errors.New("x")))
	assert.Equal(t, http.StatusConflict, Status(ErrBadState))
	assert.Equal(t, "internal_error", Code(errors.New("x")))
}

func TestPayload_IncludesFields(t *testing.T) {
	p := Payload(WithFields(ErrValidation, map[string]any{"nombre": "requerido"}))
	assert.Equal(t, "validation_error", p["code"])
	assert.Equal(t, map[string]any{"nombre": "requerido"}, p["fields"])
}
