package medical

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, rec Record) error
	GetByID(ctx context.Context, id string) (Record, error)
	ListByDog(ctx context.Context, dogID string, filter ListFilter) ([]Record, error)
	Void(ctx context.Context, id, reason string, at time.Time) error
}

type ListFilter struct {
	Types         []RecordType
	From          *time.Time
	To            *time.Time
	Query         string
	IncludeVoided bool
	Limit         int
}
