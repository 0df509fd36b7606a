// Package statictoken valida tokens Bearer contra una lista fija de la config.
package statictoken

import (
	"context"
	"crypto/subtle"
	"strings"

	"pet-adoption/internal/config"
	"pet-adoption/internal/ports/auth"
)

type entry struct {
	token  []byte
	claims auth.Claims
}

type Verifier struct {
	entries []entry
}

var _ auth.AuthVerifier = (*Verifier)(nil)

func New(tokens []config.TokenConfig) *Verifier {
	v := &Verifier{}
	for _, t := range tokens {
		tok := strings.TrimSpace(t.Token)
		if tok == "" {
			continue
		}
		role := t.Role
		if role == "" {
			role = auth.RoleAdmin
		}
		v.entries = append(v.entries, entry{
			token:  []byte(tok),
			claims: auth.Claims{UserID: t.UserID, Email: t.Email, Role: role},
		})
	}
	return v
}

func (v *Verifier) Len() int { return len(v.entries) }

func (v *Verifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	got := []byte(strings.TrimSpace(token))
	if len(got) == 0 {
		return auth.Claims{}, auth.ErrInvalidToken
	}
	for _, e := range v.entries {
		if subtle.ConstantTimeCompare(got, e.token) == 1 {
			return e.claims, nil
		}
	}
	return auth.Claims{}, auth.ErrInvalidToken
}
