package adoptions

import "context"

type ListFilter struct {
	Statuses []Status
	DogID    string
	Limit    int // 0 = sin límite
	Offset   int
}

type Repository interface {
	Create(ctx context.Context, req Request) error
	GetByID(ctx context.Context, id string) (Request, error)
	List(ctx context.Context, f ListFilter) ([]Request, int, error)
	Update(ctx context.Context, req Request) error
}
