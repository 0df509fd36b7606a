package businesses

import (
	"bytes"
	"context"
	"image/png"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-adoption/internal/platform/apperr"
	"pet-adoption/internal/platform/metrics"
)

type testRepo struct {
	byID map[string]Business
}

func newTestRepo() *testRepo { return &testRepo{byID: map[string]Business{}} }

func (r *testRepo) Create(_ context.Context, b Business) error {
	for _, x := range r.byID {
		if x.Code == b.Code {
			return apperr.ErrConflict
		}
	}
	r.byID[b.ID] = b
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Business, error) {
	b, ok := r.byID[id]
	if !ok {
		return Business{}, apperr.ErrNotFound
	}
	return b, nil
}

func (r *testRepo) GetByCode(_ context.Context, code string) (Business, error) {
	for _, b := range r.byID {
		if b.Code == code {
			return b, nil
		}
	}
	return Business{}, apperr.ErrNotFound
}

func (r *testRepo) List(_ context.Context, f ListFilter) ([]Business, int, error) {
	out := make([]Business, 0)
	for _, b := range r.byID {
		if f.ActiveOnly && !b.Active {
			continue
		}
		if f.Category != "" && b.Category != f.Category {
			continue
		}
		out = append(out, b)
	}
	return out, len(out), nil
}

func (r *testRepo) Update(_ context.Context, b Business) error {
	r.byID[b.ID] = b
	return nil
}

func (r *testRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func newTestService(t *testing.T) (*Service, *testRepo, *metrics.Metrics) {
	t.Helper()
	repo := newTestRepo()
	m := metrics.New(prometheus.NewRegistry())
	svc := NewService(repo, Options{BaseURL: "https://adopta.example.org/", Metrics: m})
	svc.now = func() time.Time { return time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC) }
	return svc, repo, m
}

func TestCreate_AssignsCodeAndDefaults(t *testing.T) {
	svc, _, _ := newTestService(t)

	b, err := svc.Create(context.Background(), CreateInput{Name: "Café Patitas", Address: "Av. Siempreviva 742"})
	require.NoError(t, err)
	assert.Regexp(t, `^PF-[0-9A-F]{6}$`, b.Code)
	assert.Equal(t, CategoryOther, b.Category)
	assert.True(t, b.Active)
}

func TestCreate_RetriesCodeCollision(t *testing.T) {
	svc, _, _ := newTestService(t)
	codes := []string{"PF-AAAAAA", "PF-AAAAAA", "PF-BBBBBB"}
	svc.newCode = func() string {
		c := codes[0]
		codes = codes[1:]
		return c
	}

	_, err := svc.Create(context.Background(), CreateInput{Name: "Uno", Address: "x"})
	require.NoError(t, err)
	b, err := svc.Create(context.Background(), CreateInput{Name: "Dos", Address: "y"})
	require.NoError(t, err)
	assert.Equal(t, "PF-BBBBBB", b.Code)
}

func TestCreate_Validation(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreateInput{Name: "Sin dirección"})
	require.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Create(context.Background(), CreateInput{Name: "x", Address: "y", Email: "no-mail"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestLookupPublic_HidesInactive(t *testing.T) {
	svc, _, _ := newTestService(t)
	off := false

	b, err := svc.Create(context.Background(), CreateInput{Name: "Cerrado", Address: "x", Active: &off})
	require.NoError(t, err)

	_, err = svc.Lookup(context.Background(), b.Code)
	require.NoError(t, err)
	_, err = svc.LookupPublic(context.Background(), b.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestList_Category(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	_, _ = svc.Create(ctx, CreateInput{Name: "Vet", Address: "x", Category: CategoryVet})
	_, _ = svc.Create(ctx, CreateInput{Name: "Café", Address: "y", Category: CategoryCafe})

	items, total, err := svc.List(ctx, ListFilter{Category: "Cafetería", ActiveOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Café", items[0].Name)

	_, _, err = svc.List(ctx, ListFilter{Category: "bar"})
	assert.ErrorIs(t, err, apperr.ErrBadRequest)
}

func TestQRCard(t *testing.T) {
	svc, _, m := newTestService(t)
	b, err := svc.Create(context.Background(), CreateInput{Name: "Patitas", Address: "x"})
	require.NoError(t, err)

	assert.Equal(t, "https://adopta.example.org/comercios/"+b.Code, svc.LandingURL(b))

	card, err := svc.QRCard(b, StyleOverride{Primary: "#123456", Width: 400})
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(card.PNG))
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QRCardsGenerated))

	_, err = svc.QRCard(b, StyleOverride{Secondary: "rojo"})
	assert.ErrorIs(t, err, apperr.ErrBadRequest)
}

func TestUpdateAndDelete(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	b, err := svc.Create(ctx, CreateInput{Name: "Pelu", Address: "x"})
	require.NoError(t, err)

	cat := CategoryGrooming
	off := false
	got, err := svc.Update(ctx, b.ID, UpdateInput{Category: &cat, Active: &off})
	require.NoError(t, err)
	assert.Equal(t, CategoryGrooming, got.Category)
	assert.False(t, got.Active)
	assert.Equal(t, b.Code, got.Code)

	blank := ""
	_, err = svc.Update(ctx, b.ID, UpdateInput{Address: &blank})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	require.NoError(t, svc.Delete(ctx, b.ID))
	assert.ErrorIs(t, svc.Delete(ctx, b.ID), apperr.ErrNotFound)
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory(" Peluquería ")
	assert.True(t, ok)
	assert.Equal(t, CategoryGrooming, c)

	c, ok = ParseCategory("")
	assert.True(t, ok)
	assert.Equal(t, CategoryOther, c)

	_, ok = ParseCategory("bar")
	assert.False(t, ok)
}
