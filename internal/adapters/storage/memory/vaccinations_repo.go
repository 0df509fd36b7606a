package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"pet-adoption/internal/domain/vaccinations"
	"pet-adoption/internal/platform/apperr"
)

type vaccinationRepo struct {
	mu   sync.RWMutex
	byID map[string]vaccinations.Schedule
}

func NewVaccinationRepo() vaccinations.Repository {
	return &vaccinationRepo{
		byID: make(map[string]vaccinations.Schedule),
	}
}

func (r *vaccinationRepo) Create(ctx context.Context, s vaccinations.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.ID == "" {
		return errors.New("schedule id required")
	}
	if _, exists := r.byID[s.ID]; exists {
		return apperr.ErrConflict
	}
	r.byID[s.ID] = s
	return nil
}

func (r *vaccinationRepo) GetByID(ctx context.Context, id string) (vaccinations.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return vaccinations.Schedule{}, apperr.ErrNotFound
	}
	return s, nil
}

func (r *vaccinationRepo) ListByDog(ctx context.Context, dogID string) ([]vaccinations.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]vaccinations.Schedule, 0)
	for _, s := range r.byID {
		if s.DogID == dogID {
			out = append(out, s)
		}
	}
	sortByDue(out)
	return out, nil
}

func (r *vaccinationRepo) ListPending(ctx context.Context, until time.Time) ([]vaccinations.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]vaccinations.Schedule, 0)
	for _, s := range r.byID {
		if s.AppliedAt != nil || s.DueDate.After(until) {
			continue
		}
		out = append(out, s)
	}
	sortByDue(out)
	return out, nil
}

func sortByDue(out []vaccinations.Schedule) {
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].DueDate.Before(out[j].DueDate)
		}
		return out[i].Vaccine < out[j].Vaccine
	})
}

func (r *vaccinationRepo) Update(ctx context.Context, s vaccinations.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[s.ID]; !ok {
		return apperr.ErrNotFound
	}
	r.byID[s.ID] = s
	return nil
}

func (r *vaccinationRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
