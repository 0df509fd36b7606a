// Package remote verifica tokens Bearer contra el servicio de identidad
// municipal. Se activa con auth.remote.url.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pet-adoption/internal/platform/httpclient"
	"pet-adoption/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("remote auth: not configured")
	ErrUpstream      = errors.New("remote auth: upstream error")
)

type Config struct {
	URL    string
	APIKey string

	// Header de la API key; vacío = X-Api-Key.
	APIKeyHeader string
	Timeout      time.Duration
}

type Verifier struct {
	url          string
	apiKey       string
	apiKeyHeader string
	client       *httpclient.Client
}

var _ auth.AuthVerifier = (*Verifier)(nil)

// New valida la URL; client nil arma uno con cfg.Timeout.
func New(cfg Config, client *httpclient.Client) (*Verifier, error) {
	u := strings.TrimSpace(cfg.URL)
	if u == "" {
		return nil, ErrNotConfigured
	}
	if err := httpclient.ValidateURL(u); err != nil {
		return nil, fmt.Errorf("remote auth: %w", err)
	}
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		client = httpclient.New(timeout, nil)
	}
	return &Verifier{url: u, apiKey: strings.TrimSpace(cfg.APIKey), apiKeyHeader: h, client: client}, nil
}

type verifyResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// Verify manda el token al servicio. 401/403 del upstream es token inválido;
// cualquier otra falla se informa como ErrUpstream. Un rol desconocido
// baja a operador.
func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, auth.ErrInvalidToken
	}

	headers := map[string]string{"Authorization": "Bearer " + token}
	if v.apiKey != "" {
		headers[v.apiKeyHeader] = v.apiKey
	}

	var out verifyResponse
	err := v.client.DoJSON(ctx, v.url, headers, map[string]string{"token": token}, &out)
	if err != nil {
		var he *httpclient.HTTPError
		if errors.As(err, &he) && (he.StatusCode == http.StatusUnauthorized || he.StatusCode == http.StatusForbidden) {
			return auth.Claims{}, auth.ErrInvalidToken
		}
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	out.UserID = strings.TrimSpace(out.UserID)
	if out.UserID == "" {
		return auth.Claims{}, fmt.Errorf("%w: response missing user_id", ErrUpstream)
	}
	role := strings.ToLower(strings.TrimSpace(out.Role))
	if role != auth.RoleAdmin {
		role = auth.RoleOperator
	}
	return auth.Claims{UserID: out.UserID, Email: strings.TrimSpace(out.Email), Role: role}, nil
}
