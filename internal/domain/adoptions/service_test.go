package adoptions

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-adoption/internal/domain/dogs"
	"pet-adoption/internal/platform/apperr"
	"pet-adoption/internal/platform/metrics"
)

type testRepo struct {
	byID  map[string]Request
	order []string
}

func newTestRepo() *testRepo { return &testRepo{byID: map[string]Request{}} }

func (r *testRepo) Create(_ context.Context, req Request) error {
	r.byID[req.ID] = req
	r.order = append(r.order, req.ID)
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Request, error) {
	req, ok := r.byID[id]
	if !ok {
		return Request{}, apperr.ErrNotFound
	}
	return req, nil
}

func (r *testRepo) List(_ context.Context, f ListFilter) ([]Request, int, error) {
	out := make([]Request, 0)
	for _, id := range r.order {
		req := r.byID[id]
		if f.DogID != "" && req.DogID != f.DogID {
			continue
		}
		if len(f.Statuses) > 0 {
			ok := false
			for _, s := range f.Statuses {
				ok = ok || req.Status == s
			}
			if !ok {
				continue
			}
		}
		out = append(out, req)
	}
	return out, len(out), nil
}

func (r *testRepo) Update(_ context.Context, req Request) error {
	if _, ok := r.byID[req.ID]; !ok {
		return apperr.ErrNotFound
	}
	r.byID[req.ID] = req
	return nil
}

type testDogs struct {
	byID map[string]dogs.Dog
}

func (d *testDogs) GetByID(_ context.Context, id string) (dogs.Dog, error) {
	dog, ok := d.byID[id]
	if !ok {
		return dogs.Dog{}, apperr.ErrNotFound
	}
	return dog, nil
}

func (d *testDogs) SetStatus(_ context.Context, id string, st dogs.Status) error {
	dog, ok := d.byID[id]
	if !ok {
		return apperr.ErrNotFound
	}
	dog.Status = st
	d.byID[id] = dog
	return nil
}

type fixture struct {
	svc     *Service
	repo    *testRepo
	dogs    *testDogs
	metrics *metrics.Metrics
	now     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:    newTestRepo(),
		dogs:    &testDogs{byID: map[string]dogs.Dog{}},
		metrics: metrics.New(prometheus.NewRegistry()),
		now:     time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC),
	}
	f.dogs.byID["d1"] = dogs.Dog{ID: "d1", Name: "Luna", Status: dogs.StatusAvailable}
	f.dogs.byID["d2"] = dogs.Dog{ID: "d2", Name: "Rocky", Status: dogs.StatusAdopted}
	f.svc = NewService(f.repo, f.dogs, f.metrics)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *fixture) submit(t *testing.T, dogID, name string) Request {
	t.Helper()
	req, err := f.svc.Create(context.Background(), CreateInput{
		DogID: dogID, ApplicantName: name, Email: name + "@example.org", Phone: "11-5555-0000",
	})
	require.NoError(t, err)
	return req
}

func (f *fixture) move(t *testing.T, id string, to Status) Request {
	t.Helper()
	req, err := f.svc.Transition(context.Background(), id, TransitionInput{Status: to}, "admin-1")
	require.NoError(t, err)
	return req
}

func TestCreate(t *testing.T) {
	f := newFixture(t)

	req := f.submit(t, "d1", "ana")
	assert.Equal(t, StatusPending, req.Status)
	assert.Equal(t, "Luna", req.DogName)
	assert.Equal(t, HousingOther, req.Housing)
	assert.Equal(t, f.now, req.StatusChangedAt)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AdoptionRequests.WithLabelValues("pendiente")))
}

func TestCreate_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, CreateInput{DogID: "d2", ApplicantName: "a", Email: "a@b.co", Phone: "1"})
	assert.ErrorIs(t, err, apperr.ErrConflict, "perrito adoptado")

	_, err = f.svc.Create(ctx, CreateInput{DogID: "nope", ApplicantName: "a", Email: "a@b.co", Phone: "1"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.svc.Create(ctx, CreateInput{DogID: "d1", ApplicantName: "a", Email: "mal", Phone: "1"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestTransition_StateMachine(t *testing.T) {
	all := []Status{StatusPending, StatusReview, StatusInterview, StatusApproved, StatusCompleted, StatusRejected, StatusCancelled}
	allowed := map[Status]map[Status]bool{
		StatusPending:   {StatusReview: true, StatusRejected: true, StatusCancelled: true},
		StatusReview:    {StatusInterview: true, StatusApproved: true, StatusRejected: true, StatusCancelled: true},
		StatusInterview: {StatusApproved: true, StatusRejected: true, StatusCancelled: true},
		StatusApproved:  {StatusCompleted: true, StatusCancelled: true},
	}
	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[from][to], CanTransition(from, to), "%s -> %s", from, to)
		}
		assert.Equal(t, len(allowed[from]) == 0, from.Terminal(), "%s terminal", from)
	}
}

func TestTransition_InvalidIsBadState(t *testing.T) {
	f := newFixture(t)
	req := f.submit(t, "d1", "ana")

	_, err := f.svc.Transition(context.Background(), req.ID, TransitionInput{Status: StatusCompleted}, "x")
	assert.ErrorIs(t, err, apperr.ErrBadState)

	_, err = f.svc.Transition(context.Background(), req.ID, TransitionInput{Status: "inventado"}, "x")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.svc.Transition(context.Background(), "nope", TransitionInput{Status: StatusReview}, "x")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestTransition_ApproveAndComplete(t *testing.T) {
	f := newFixture(t)
	a := f.submit(t, "d1", "ana")
	b := f.submit(t, "d1", "beto")
	c := f.submit(t, "d1", "carla")
	f.move(t, c.ID, StatusCancelled)

	f.now = f.now.Add(48 * time.Hour)
	f.move(t, a.ID, StatusReview)
	got := f.move(t, a.ID, StatusApproved)
	assert.Equal(t, f.now, got.StatusChangedAt)
	assert.Equal(t, dogs.StatusInProcess, f.dogs.byID["d1"].Status)

	// Una segunda aprobación para el mismo perrito se bloquea.
	f.move(t, b.ID, StatusReview)
	_, err := f.svc.Transition(context.Background(), b.ID, TransitionInput{Status: StatusApproved}, "x")
	assert.ErrorIs(t, err, apperr.ErrConflict)

	f.move(t, a.ID, StatusCompleted)
	assert.Equal(t, dogs.StatusAdopted, f.dogs.byID["d1"].Status)

	assert.Equal(t, StatusRejected, f.repo.byID[b.ID].Status)
	assert.Contains(t, f.repo.byID[b.ID].AdminNotes, "adoptado por otra solicitud")
	assert.Equal(t, StatusCancelled, f.repo.byID[c.ID].Status, "las terminales no se tocan")
}

func TestTransition_CancelApprovedReleasesDog(t *testing.T) {
	f := newFixture(t)
	a := f.submit(t, "d1", "ana")
	f.move(t, a.ID, StatusReview)
	f.move(t, a.ID, StatusApproved)
	require.Equal(t, dogs.StatusInProcess, f.dogs.byID["d1"].Status)

	f.move(t, a.ID, StatusCancelled)
	assert.Equal(t, dogs.StatusAvailable, f.dogs.byID["d1"].Status)
}

func TestTransition_NotesAppend(t *testing.T) {
	f := newFixture(t)
	a := f.submit(t, "d1", "ana")

	_, err := f.svc.Transition(context.Background(), a.ID, TransitionInput{Status: StatusReview, Notes: "llamar el lunes"}, "admin-1")
	require.NoError(t, err)
	got, err := f.svc.Transition(context.Background(), a.ID, TransitionInput{Status: StatusInterview, Notes: "visita ok"}, "")
	require.NoError(t, err)

	assert.Equal(t, "[2025-04-01 admin-1] llamar el lunes\n[2025-04-01 admin] visita ok", got.AdminNotes)
}

func TestTransition_DeletedDogStillAdvances(t *testing.T) {
	f := newFixture(t)
	a := f.submit(t, "d1", "ana")
	f.move(t, a.ID, StatusReview)
	delete(f.dogs.byID, "d1")

	got := f.move(t, a.ID, StatusApproved)
	assert.Equal(t, StatusApproved, got.Status)
}

func TestListOpen(t *testing.T) {
	f := newFixture(t)
	a := f.submit(t, "d1", "ana")
	b := f.submit(t, "d1", "beto")
	f.move(t, b.ID, StatusRejected)

	open, err := f.svc.ListOpen(context.Background())
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, a.ID, open[0].ID)

	_, _, err = f.svc.List(context.Background(), ListFilter{Statuses: []Status{"x"}})
	assert.ErrorIs(t, err, apperr.ErrBadRequest)
}
