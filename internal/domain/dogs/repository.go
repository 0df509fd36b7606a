package dogs

import (
	"context"
	"time"
)

type ListFilter struct {
	Statuses []Status
	Sex      Sex
	Size     Size
	Query    string // nombre, raza, color, descripción
	Limit    int
	Offset   int
}

type Repository interface {
	Create(ctx context.Context, d Dog) error
	GetByID(ctx context.Context, id string) (Dog, error)
	List(ctx context.Context, f ListFilter) ([]Dog, int, error)
	Update(ctx context.Context, d Dog) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
}
