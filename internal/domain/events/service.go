package events

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-adoption/internal/platform/apperr"
	"pet-adoption/internal/platform/validate"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Title       string     `json:"titulo" validate:"required,max=160"`
	Description string     `json:"descripcion" validate:"max=4000"`
	Type        Type       `json:"tipo" validate:"omitempty,oneof=jornada_adopcion vacunacion esterilizacion charla otro"`
	Location    string     `json:"lugar" validate:"max=200"`
	StartsAt    time.Time  `json:"inicio" validate:"required"`
	EndsAt      *time.Time `json:"fin"`
	Published   bool       `json:"publicado"`
}

type UpdateInput struct {
	Title       *string    `json:"titulo" validate:"omitempty,min=1,max=160"`
	Description *string    `json:"descripcion" validate:"omitempty,max=4000"`
	Type        *Type      `json:"tipo" validate:"omitempty,oneof=jornada_adopcion vacunacion esterilizacion charla otro"`
	Location    *string    `json:"lugar" validate:"omitempty,max=200"`
	StartsAt    *time.Time `json:"inicio"`
	EndsAt      *time.Time `json:"fin"`
	Published   *bool      `json:"publicado"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Event, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := validate.Struct(in); err != nil {
		return Event{}, err
	}
	if err := checkRange(in.StartsAt, in.EndsAt); err != nil {
		return Event{}, err
	}
	typ := in.Type
	if typ == "" {
		typ = TypeOther
	}

	now := s.now()
	e := Event{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		Type:        typ,
		Location:    strings.TrimSpace(in.Location),
		StartsAt:    in.StartsAt,
		EndsAt:      in.EndsAt,
		Published:   in.Published,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return Event{}, err
	}
	return e, nil
}

func checkRange(start time.Time, end *time.Time) error {
	if end != nil && end.Before(start) {
		return apperr.WithFields(apperr.ErrValidation, map[string]any{"fin": "debe ser posterior al inicio"})
	}
	return nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Event{}, apperr.ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// GetPublished oculta borradores.
func (s *Service) GetPublished(ctx context.Context, id string) (Event, error) {
	e, err := s.GetByID(ctx, id)
	if err != nil {
		return Event{}, err
	}
	if !e.Published {
		return Event{}, apperr.ErrNotFound
	}
	return e, nil
}

// Upcoming: publicados y vigentes desde ahora.
func (s *Service) Upcoming(ctx context.Context, typ Type, limit int) ([]Event, error) {
	now := s.now()
	return s.List(ctx, ListFilter{Type: typ, PublishedOnly: true, From: &now, Limit: limit})
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Event, error) {
	if f.Type != "" && !f.Type.Valid() {
		return nil, apperr.WithFields(apperr.ErrBadRequest, map[string]any{"tipo": "tipo desconocido"})
	}
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	return s.repo.List(ctx, f)
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Event, error) {
	if err := validate.Struct(in); err != nil {
		return Event{}, err
	}
	e, err := s.GetByID(ctx, id)
	if err != nil {
		return Event{}, err
	}
	if in.Title != nil {
		if e.Title = strings.TrimSpace(*in.Title); e.Title == "" {
			return Event{}, apperr.WithFields(apperr.ErrValidation, map[string]any{"titulo": "requerido"})
		}
	}
	if in.Description != nil {
		e.Description = strings.TrimSpace(*in.Description)
	}
	if in.Type != nil {
		e.Type = *in.Type
	}
	if in.Location != nil {
		e.Location = strings.TrimSpace(*in.Location)
	}
	if in.StartsAt != nil {
		e.StartsAt = *in.StartsAt
	}
	if in.EndsAt != nil {
		e.EndsAt = in.EndsAt
	}
	if in.Published != nil {
		e.Published = *in.Published
	}
	if err := checkRange(e.StartsAt, e.EndsAt); err != nil {
		return Event{}, err
	}

	e.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, e); err != nil {
		return Event{}, err
	}
	return e, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperr.ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}
