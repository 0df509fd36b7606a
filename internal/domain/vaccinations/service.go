package vaccinations

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-adoption/internal/domain/dogs"
	"pet-adoption/internal/domain/medical"
	"pet-adoption/internal/platform/apperr"
	"pet-adoption/internal/platform/validate"
)

const (
	DefaultWindowDays = 30
	MaxWindowDays     = 365
	dateLayout        = "2006-01-02"
)

type DogLookup interface {
	GetByID(ctx context.Context, id string) (dogs.Dog, error)
}

// RecordWriter deja asentada la dosis aplicada en el expediente.
type RecordWriter interface {
	Create(ctx context.Context, dogID, actor string, in medical.CreateInput) (medical.Record, error)
}

type Service struct {
	repo    Repository
	dogs    DogLookup
	records RecordWriter
	now     func() time.Time
}

func NewService(repo Repository, dogLookup DogLookup, records RecordWriter) *Service {
	return &Service{
		repo:    repo,
		dogs:    dogLookup,
		records: records,
		now:     time.Now,
	}
}

type CreateInput struct {
	Vaccine string `json:"vacuna" validate:"required,max=120"`
	DueDate string `json:"fecha_programada" validate:"required,datetime=2006-01-02"`
	Vet     string `json:"veterinario" validate:"max=120"`
	Notes   string `json:"notas" validate:"max=2000"`
}

type ApplyInput struct {
	Date  string `json:"fecha" validate:"omitempty,datetime=2006-01-02"`
	Vet   string `json:"veterinario" validate:"max=120"`
	Notes string `json:"notas" validate:"max=2000"`
}

func (s *Service) Create(ctx context.Context, dogID string, in CreateInput) (Schedule, error) {
	in.Vaccine = strings.TrimSpace(in.Vaccine)
	if err := validate.Struct(in); err != nil {
		return Schedule{}, err
	}
	dog, err := s.dogs.GetByID(ctx, dogID)
	if err != nil {
		return Schedule{}, err
	}
	now := s.now()
	due, err := time.ParseInLocation(dateLayout, in.DueDate, now.Location())
	if err != nil {
		return Schedule{}, apperr.WithFields(apperr.ErrValidation, map[string]any{"fecha_programada": "formato YYYY-MM-DD"})
	}

	sc := Schedule{
		ID:        uuid.NewString(),
		DogID:     dog.ID,
		Vaccine:   in.Vaccine,
		DueDate:   due,
		Vet:       strings.TrimSpace(in.Vet),
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, sc); err != nil {
		return Schedule{}, err
	}
	return sc, nil
}

func (s *Service) ListByDog(ctx context.Context, dogID string) ([]Schedule, error) {
	if _, err := s.dogs.GetByID(ctx, dogID); err != nil {
		return nil, err
	}
	return s.repo.ListByDog(ctx, dogID)
}

// Apply marca la dosis como aplicada y agrega la entrada "vacuna" al
// expediente. Aplicar dos veces es conflicto.
func (s *Service) Apply(ctx context.Context, id, actor string, in ApplyInput) (Schedule, error) {
	if err := validate.Struct(in); err != nil {
		return Schedule{}, err
	}
	sc, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Schedule{}, err
	}
	if sc.Applied() {
		return Schedule{}, apperr.WithMessage(apperr.ErrConflict, "la dosis ya fue aplicada")
	}

	now := s.now()
	applied := now
	if in.Date != "" {
		if applied, err = time.ParseInLocation(dateLayout, in.Date, now.Location()); err != nil {
			return Schedule{}, apperr.WithFields(apperr.ErrValidation, map[string]any{"fecha": "formato YYYY-MM-DD"})
		}
		if applied.After(now) {
			return Schedule{}, apperr.WithFields(apperr.ErrValidation, map[string]any{"fecha": "no puede ser futura"})
		}
	}

	if _, err := s.dogs.GetByID(ctx, sc.DogID); err != nil {
		return Schedule{}, err
	}

	prev := sc
	sc.AppliedAt = &applied
	if v := strings.TrimSpace(in.Vet); v != "" {
		sc.Vet = v
	}
	if n := strings.TrimSpace(in.Notes); n != "" {
		sc.Notes = n
	}
	sc.UpdatedAt = now

	var rec medical.CreateInput
	if s.records != nil {
		if strings.TrimSpace(actor) == "" {
			return Schedule{}, apperr.ErrUnauthorized
		}
		rec = medical.CreateInput{
			Type:  medical.TypeVaccine,
			Date:  applied.Format(dateLayout),
			Title: "Vacuna: " + sc.Vaccine,
			Notes: sc.Notes,
			Vet:   sc.Vet,
		}
		if err := validate.Struct(rec); err != nil {
			return Schedule{}, err
		}
	}

	if err := s.repo.Update(ctx, sc); err != nil {
		return Schedule{}, err
	}
	if s.records == nil {
		return sc, nil
	}

	// Sin entrada en el expediente la dosis vuelve a pendiente.
	if _, err := s.records.Create(ctx, sc.DogID, actor, rec); err != nil {
		if rbErr := s.repo.Update(ctx, prev); rbErr != nil {
			return Schedule{}, errors.Join(err, rbErr)
		}
		return Schedule{}, err
	}
	return sc, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperr.ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

// Upcoming lista dosis pendientes hasta hoy+days, incluidas las vencidas.
func (s *Service) Upcoming(ctx context.Context, days int) ([]Due, error) {
	if days < 0 || days > MaxWindowDays {
		return nil, apperr.WithFields(apperr.ErrBadRequest, map[string]any{"dias": "entre 0 y 365"})
	}
	now := s.now()
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	until := today.AddDate(0, 0, days)

	pending, err := s.repo.ListPending(ctx, until)
	if err != nil {
		return nil, err
	}

	names := map[string]string{}
	out := make([]Due, 0, len(pending))
	for _, sc := range pending {
		name, ok := names[sc.DogID]
		if !ok {
			dog, err := s.dogs.GetByID(ctx, sc.DogID)
			switch {
			case errors.Is(err, apperr.ErrNotFound):
				// perrito dado de baja: la dosis no aplica
				names[sc.DogID] = ""
				continue
			case err != nil:
				return nil, err
			}
			name = dog.Name
			names[sc.DogID] = name
		}
		if name == "" {
			continue
		}
		out = append(out, Due{Schedule: sc, DogName: name, Overdue: sc.Overdue(today)})
	}
	return out, nil
}
