package auth

import (
	"context"
	"errors"
)

var ErrInvalidToken = errors.New("auth: invalid token")

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
