package events

import (
	"context"
	"time"
)

type ListFilter struct {
	Type          Type
	PublishedOnly bool
	// From: sólo eventos vigentes (fin, o inicio si no hay fin) >= From.
	From  *time.Time
	Limit int
}

type Repository interface {
	Create(ctx context.Context, e Event) error
	GetByID(ctx context.Context, id string) (Event, error)
	List(ctx context.Context, f ListFilter) ([]Event, error) // por inicio asc
	Update(ctx context.Context, e Event) error
	Delete(ctx context.Context, id string) error
}
