package memory

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
	"time"

	"pet-adoption/internal/domain/medical"
	"pet-adoption/internal/platform/apperr"
)

type medicalRepo struct {
	mu   sync.RWMutex
	byID map[string]medical.Record
}

func NewMedicalRepo() medical.Repository {
	return &medicalRepo{
		byID: make(map[string]medical.Record),
	}
}

func (r *medicalRepo) Create(ctx context.Context, rec medical.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.ID == "" {
		return errors.New("record id required")
	}
	if _, exists := r.byID[rec.ID]; exists {
		return apperr.ErrConflict
	}
	r.byID[rec.ID] = rec
	return nil
}

func (r *medicalRepo) GetByID(ctx context.Context, id string) (medical.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byID[id]
	if !ok {
		return medical.Record{}, apperr.ErrNotFound
	}
	return rec, nil
}

func (r *medicalRepo) ListByDog(ctx context.Context, dogID string, filter medical.ListFilter) ([]medical.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	out := make([]medical.Record, 0)
	for _, rec := range r.byID {
		if rec.DogID != dogID {
			continue
		}
		if !filter.IncludeVoided && rec.Status == medical.StatusVoided {
			continue
		}
		if len(filter.Types) > 0 && !slices.Contains(filter.Types, rec.Type) {
			continue
		}
		if filter.From != nil && rec.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && rec.Date.After(*filter.To) {
			continue
		}
		if !containsFold(filter.Query, rec.Title, rec.Notes, rec.Vet) {
			continue
		}
		out = append(out, rec)
	}

	// Orden por fecha desc (más reciente primero)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].RecordedAt.After(out[j].RecordedAt)
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *medicalRepo) Void(ctx context.Context, id, reason string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byID[id]
	if !ok {
		return apperr.ErrNotFound
	}
	rec.Status = medical.StatusVoided
	rec.VoidReason = reason
	rec.VoidedAt = &at
	r.byID[id] = rec
	return nil
}
