package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-adoption/internal/ports/auth"
)

func newUpstream(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "k", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		assert.Equal(t, "tok", in["token"])
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVerify_OK(t *testing.T) {
	srv := newUpstream(t, http.StatusOK, `{"user_id":" u1 ","email":"a@muni.gob","role":"ADMIN"}`)
	v, err := New(Config{URL: srv.URL, APIKey: "k"}, nil)
	require.NoError(t, err)

	c, err := v.Verify(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, auth.Claims{UserID: "u1", Email: "a@muni.gob", Role: auth.RoleAdmin}, c)
}

func TestVerify_UnknownRoleIsOperator(t *testing.T) {
	srv := newUpstream(t, http.StatusOK, `{"user_id":"u2","role":"root"}`)
	v, err := New(Config{URL: srv.URL, APIKey: "k"}, nil)
	require.NoError(t, err)

	c, err := v.Verify(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleOperator, c.Role)
}

func TestVerify_Rejected(t *testing.T) {
	srv := newUpstream(t, http.StatusUnauthorized, `{}`)
	v, err := New(Config{URL: srv.URL, APIKey: "k"}, nil)
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), "tok")
	assert.True(t, errors.Is(err, auth.ErrInvalidToken))
}

func TestVerify_Upstream(t *testing.T) {
	srv := newUpstream(t, http.StatusBadGateway, `caído`)
	v, err := New(Config{URL: srv.URL, APIKey: "k"}, nil)
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), "tok")
	assert.True(t, errors.Is(err, ErrUpstream))

	srv2 := newUpstream(t, http.StatusOK, `{"email":"x"}`)
	v2, _ := New(Config{URL: srv2.URL, APIKey: "k"}, nil)
	_, err = v2.Verify(context.Background(), "tok")
	assert.True(t, errors.Is(err, ErrUpstream))
}

func TestNew_Config(t *testing.T) {
	_, err := New(Config{}, nil)
	assert.True(t, errors.Is(err, ErrNotConfigured))
	_, err = New(Config{URL: "/relativa"}, nil)
	assert.Error(t, err)

	v, err := New(Config{URL: "https://id.muni.gob/verify"}, nil)
	require.NoError(t, err)
	_, err = v.Verify(context.Background(), "  ")
	assert.True(t, errors.Is(err, auth.ErrInvalidToken))
}
