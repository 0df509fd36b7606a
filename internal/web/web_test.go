package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-adoption/internal/domain/businesses"
	"pet-adoption/internal/domain/dogs"
	"pet-adoption/internal/domain/events"
	"pet-adoption/internal/platform/apperr"
)

type fakeDogs map[string]dogs.Dog

func (f fakeDogs) GetByID(_ context.Context, id string) (dogs.Dog, error) {
	d, ok := f[id]
	if !ok {
		return dogs.Dog{}, apperr.ErrNotFound
	}
	return d, nil
}

func (f fakeDogs) List(context.Context, dogs.ListFilter, bool) ([]dogs.Dog, int, error) {
	out := make([]dogs.Dog, 0, len(f))
	for _, d := range f {
		out = append(out, d)
	}
	return out, len(out), nil
}

type fakeAgenda []events.Event

func (f fakeAgenda) Upcoming(context.Context, events.Type, int) ([]events.Event, error) { return f, nil }

type fakeDirectory map[string]businesses.Business

func (f fakeDirectory) LookupPublic(_ context.Context, code string) (businesses.Business, error) {
	b, ok := f[code]
	if !ok {
		return businesses.Business{}, apperr.ErrNotFound
	}
	return b, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	p, err := New(
		fakeDogs{"d1": {ID: "d1", Name: "Max <3", Age: "2 años", Status: dogs.StatusAvailable, Sterilized: true}},
		fakeAgenda{{ID: "e1", Title: "Jornada de adopción", StartsAt: time.Date(2025, 10, 4, 10, 0, 0, 0, time.UTC), Location: "Plaza Central"}},
		fakeDirectory{"PF-ABC123": {ID: "b1", Code: "PF-ABC123", Name: "Veterinaria Sur", Category: businesses.CategoryVet, Active: true}},
	)
	require.NoError(t, err)
	r := chi.NewRouter()
	p.Register(r)
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	buf := new(strings.Builder)
	_, err = io.Copy(buf, res.Body)
	require.NoError(t, err)
	return res.StatusCode, buf.String()
}

func TestPages(t *testing.T) {
	ts := newTestServer(t)

	st, body := get(t, ts.URL+"/")
	assert.Equal(t, http.StatusOK, st)
	assert.Contains(t, body, "Max &lt;3", "escapa HTML")
	assert.Contains(t, body, "Jornada de adopción")
	assert.Contains(t, body, "04/10/2025 10:00")

	st, body = get(t, ts.URL+"/perritos/d1")
	assert.Equal(t, http.StatusOK, st)
	assert.Contains(t, body, "Esterilizado: sí")

	st, body = get(t, ts.URL+"/comercios/PF-ABC123")
	assert.Equal(t, http.StatusOK, st)
	assert.Contains(t, body, "Veterinaria Sur")
	assert.Contains(t, body, "/perritos/d1")

	st, body = get(t, ts.URL+"/comercios/PF-NOPE00")
	assert.Equal(t, http.StatusNotFound, st)
	assert.Contains(t, body, "No encontrado")
}
