package vaccinations

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, s Schedule) error
	GetByID(ctx context.Context, id string) (Schedule, error)
	ListByDog(ctx context.Context, dogID string) ([]Schedule, error)
	// ListPending: no aplicadas con fecha_programada <= until, por fecha asc.
	ListPending(ctx context.Context, until time.Time) ([]Schedule, error)
	Update(ctx context.Context, s Schedule) error
	Delete(ctx context.Context, id string) error
}
