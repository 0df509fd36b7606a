package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pet-adoption/internal/domain/events"
	"pet-adoption/internal/platform/apperr"
)

type eventRepo struct {
	mu   sync.RWMutex
	byID map[string]events.Event
}

func NewEventRepo() events.Repository {
	return &eventRepo{
		byID: make(map[string]events.Event),
	}
}

func (r *eventRepo) Create(ctx context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.ID == "" {
		return errors.New("event id required")
	}
	if _, exists := r.byID[e.ID]; exists {
		return apperr.ErrConflict
	}
	r.byID[e.ID] = e
	return nil
}

func (r *eventRepo) GetByID(ctx context.Context, id string) (events.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return events.Event{}, apperr.ErrNotFound
	}
	return e, nil
}

func (r *eventRepo) List(ctx context.Context, filter events.ListFilter) ([]events.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	out := make([]events.Event, 0)
	for _, e := range r.byID {
		if filter.PublishedOnly && !e.Published {
			continue
		}
		if filter.Type != "" && e.Type != filter.Type {
			continue
		}
		if filter.From != nil && e.EndOrStart().Before(*filter.From) {
			continue
		}
		out = append(out, e)
	}

	// Orden por inicio asc (próximo primero)
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartsAt.Before(out[j].StartsAt)
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *eventRepo) Update(ctx context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[e.ID]; !ok {
		return apperr.ErrNotFound
	}
	r.byID[e.ID] = e
	return nil
}

func (r *eventRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
