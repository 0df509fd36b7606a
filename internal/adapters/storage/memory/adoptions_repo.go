package memory

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"

	"pet-adoption/internal/domain/adoptions"
	"pet-adoption/internal/platform/apperr"
)

type adoptionRepo struct {
	mu   sync.RWMutex
	byID map[string]adoptions.Request
}

func NewAdoptionRepo() adoptions.Repository {
	return &adoptionRepo{
		byID: make(map[string]adoptions.Request),
	}
}

func (r *adoptionRepo) Create(ctx context.Context, req adoptions.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if req.ID == "" {
		return errors.New("request id required")
	}
	if _, exists := r.byID[req.ID]; exists {
		return apperr.ErrConflict
	}
	r.byID[req.ID] = req
	return nil
}

func (r *adoptionRepo) GetByID(ctx context.Context, id string) (adoptions.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.byID[id]
	if !ok {
		return adoptions.Request{}, apperr.ErrNotFound
	}
	return req, nil
}

func (r *adoptionRepo) List(ctx context.Context, f adoptions.ListFilter) ([]adoptions.Request, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]adoptions.Request, 0)
	for _, req := range r.byID {
		if f.DogID != "" && req.DogID != f.DogID {
			continue
		}
		if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, req.Status) {
			continue
		}
		out = append(out, req)
	}

	// Más recientes primero
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	total := len(out)
	return page(out, f.Limit, f.Offset), total, nil
}

func (r *adoptionRepo) Update(ctx context.Context, req adoptions.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[req.ID]; !ok {
		return apperr.ErrNotFound
	}
	r.byID[req.ID] = req
	return nil
}
