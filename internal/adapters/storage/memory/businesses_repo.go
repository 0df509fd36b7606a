package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-adoption/internal/domain/businesses"
	"pet-adoption/internal/platform/apperr"
)

type businessRepo struct {
	mu     sync.RWMutex
	byID   map[string]businesses.Business
	byCode map[string]string
}

func NewBusinessRepo() businesses.Repository {
	return &businessRepo{
		byID:   make(map[string]businesses.Business),
		byCode: make(map[string]string),
	}
}

func (r *businessRepo) Create(ctx context.Context, b businesses.Business) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b.ID == "" {
		return errors.New("business id required")
	}
	if _, exists := r.byID[b.ID]; exists {
		return apperr.ErrConflict
	}
	if _, taken := r.byCode[b.Code]; taken {
		return apperr.WithMessage(apperr.ErrConflict, "código de comercio duplicado")
	}
	r.byID[b.ID] = b
	r.byCode[b.Code] = b.ID
	return nil
}

func (r *businessRepo) GetByID(ctx context.Context, id string) (businesses.Business, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.byID[id]
	if !ok {
		return businesses.Business{}, apperr.ErrNotFound
	}
	return b, nil
}

func (r *businessRepo) GetByCode(ctx context.Context, code string) (businesses.Business, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byCode[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return businesses.Business{}, apperr.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *businessRepo) List(ctx context.Context, f businesses.ListFilter) ([]businesses.Business, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]businesses.Business, 0)
	for _, b := range r.byID {
		if f.ActiveOnly && !b.Active {
			continue
		}
		if f.Category != "" && b.Category != f.Category {
			continue
		}
		if !containsFold(f.Query, b.Name, b.Address, b.Description) {
			continue
		}
		out = append(out, b)
	}

	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})

	total := len(out)
	return page(out, f.Limit, f.Offset), total, nil
}

func (r *businessRepo) Update(ctx context.Context, b businesses.Business) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[b.ID]
	if !ok {
		return apperr.ErrNotFound
	}
	// el código es inmutable
	b.Code = cur.Code
	r.byID[b.ID] = b
	return nil
}

func (r *businessRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.byID[id]
	if !ok {
		return apperr.ErrNotFound
	}
	delete(r.byCode, b.Code)
	delete(r.byID, id)
	return nil
}
