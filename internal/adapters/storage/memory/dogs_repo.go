package memory

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
	"time"

	"pet-adoption/internal/domain/dogs"
	"pet-adoption/internal/platform/apperr"
)

type dogRepo struct {
	mu   sync.RWMutex
	byID map[string]dogs.Dog
}

func NewDogRepo() dogs.Repository {
	return &dogRepo{
		byID: make(map[string]dogs.Dog),
	}
}

func (r *dogRepo) Create(ctx context.Context, d dogs.Dog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d.ID == "" {
		return errors.New("dog id required")
	}
	if _, exists := r.byID[d.ID]; exists {
		return apperr.ErrConflict
	}
	r.byID[d.ID] = d
	return nil
}

func (r *dogRepo) GetByID(ctx context.Context, id string) (dogs.Dog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byID[id]
	if !ok || d.DeletedAt != nil {
		return dogs.Dog{}, apperr.ErrNotFound
	}
	return d, nil
}

func (r *dogRepo) List(ctx context.Context, f dogs.ListFilter) ([]dogs.Dog, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]dogs.Dog, 0)
	for _, d := range r.byID {
		if d.DeletedAt != nil {
			continue
		}
		if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, d.Status) {
			continue
		}
		if f.Sex != "" && d.Sex != f.Sex {
			continue
		}
		if f.Size != "" && d.Size != f.Size {
			continue
		}
		if !containsFold(f.Query, d.Name, d.Breed, d.Color, d.Description) {
			continue
		}
		out = append(out, d)
	}

	// Ingresos más recientes primero
	sort.Slice(out, func(i, j int) bool {
		if !out[i].IntakeDate.Equal(out[j].IntakeDate) {
			return out[i].IntakeDate.After(out[j].IntakeDate)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	total := len(out)
	return page(out, f.Limit, f.Offset), total, nil
}

func (r *dogRepo) Update(ctx context.Context, d dogs.Dog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[d.ID]
	if !ok || cur.DeletedAt != nil {
		return apperr.ErrNotFound
	}
	d.DeletedAt = nil
	r.byID[d.ID] = d
	return nil
}

func (r *dogRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.byID[id]
	if !ok || d.DeletedAt != nil {
		return apperr.ErrNotFound
	}
	d.DeletedAt = &at
	d.UpdatedAt = at
	r.byID[id] = d
	return nil
}
