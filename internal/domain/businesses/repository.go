package businesses

import "context"

type ListFilter struct {
	Category   Category
	Query      string
	ActiveOnly bool
	Limit      int
	Offset     int
}

type Repository interface {
	Create(ctx context.Context, b Business) error // apperr.ErrConflict si el código ya existe
	GetByID(ctx context.Context, id string) (Business, error)
	GetByCode(ctx context.Context, code string) (Business, error)
	List(ctx context.Context, f ListFilter) ([]Business, int, error)
	Update(ctx context.Context, b Business) error
	Delete(ctx context.Context, id string) error
}
