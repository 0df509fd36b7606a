package medical

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-adoption/internal/domain/dogs"
	"pet-adoption/internal/platform/apperr"
	"pet-adoption/internal/platform/validate"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// DogProfile: lectura del perrito y actualización de sus flags de salud.
type DogProfile interface {
	GetByID(ctx context.Context, id string) (dogs.Dog, error)
	Update(ctx context.Context, id string, in dogs.UpdateInput) (dogs.Dog, error)
}

type Service struct {
	repo Repository
	dogs DogProfile
	now  func() time.Time
}

func NewService(repo Repository, dogProfile DogProfile) *Service {
	return &Service{
		repo: repo,
		dogs: dogProfile,
		now:  time.Now,
	}
}

type CreateInput struct {
	Type     RecordType `json:"tipo" validate:"required,oneof=consulta vacuna desparasitacion cirugia esterilizacion tratamiento nota"`
	Date     string     `json:"fecha" validate:"omitempty,datetime=2006-01-02"`
	Title    string     `json:"titulo" validate:"required,max=160"`
	Notes    string     `json:"notas" validate:"max=4000"`
	Vet      string     `json:"veterinario" validate:"max=120"`
	WeightKg *float64   `json:"peso_kg" validate:"omitempty,gt=0,lte=150"`
}

type VoidInput struct {
	Reason string `json:"motivo" validate:"required,max=500"`
}

// Create agrega una entrada; vacuna y esterilizacion actualizan el perfil
// del perrito.
func (s *Service) Create(ctx context.Context, dogID, actor string, in CreateInput) (Record, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := validate.Struct(in); err != nil {
		return Record{}, err
	}
	if strings.TrimSpace(actor) == "" {
		return Record{}, apperr.ErrUnauthorized
	}

	dog, err := s.dogs.GetByID(ctx, dogID)
	if err != nil {
		return Record{}, err
	}

	now := s.now()
	date := now
	if in.Date != "" {
		date, err = time.ParseInLocation("2006-01-02", in.Date, now.Location())
		if err != nil {
			return Record{}, apperr.WithFields(apperr.ErrValidation, map[string]any{"fecha": "formato YYYY-MM-DD"})
		}
	}
	if date.After(now) {
		return Record{}, apperr.WithFields(apperr.ErrValidation, map[string]any{"fecha": "no puede ser futura"})
	}

	rec := Record{
		ID:         uuid.NewString(),
		DogID:      dog.ID,
		Type:       in.Type,
		Date:       date,
		RecordedAt: now,
		Title:      in.Title,
		Notes:      strings.TrimSpace(in.Notes),
		Vet:        strings.TrimSpace(in.Vet),
		WeightKg:   in.WeightKg,
		RecordedBy: actor,
		Status:     StatusActive,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return Record{}, err
	}

	if err := s.syncDogFlags(ctx, dog, rec.Type); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *Service) syncDogFlags(ctx context.Context, dog dogs.Dog, t RecordType) error {
	yes := true
	var in dogs.UpdateInput
	switch {
	case t == TypeVaccine && !dog.Vaccinated:
		in.Vaccinated = &yes
	case t == TypeSterilized && !dog.Sterilized:
		in.Sterilized = &yes
	default:
		return nil
	}
	_, err := s.dogs.Update(ctx, dog.ID, in)
	return err
}

func (s *Service) ListByDog(ctx context.Context, dogID string, f ListFilter) ([]Record, error) {
	if _, err := s.dogs.GetByID(ctx, dogID); err != nil {
		return nil, err
	}
	for _, t := range f.Types {
		if !t.Valid() {
			return nil, apperr.WithFields(apperr.ErrBadRequest, map[string]any{"tipos": "tipo desconocido: " + string(t)})
		}
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return nil, apperr.WithFields(apperr.ErrBadRequest, map[string]any{"desde": "debe ser anterior a hasta"})
	}
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	f.Query = strings.TrimSpace(f.Query)
	return s.repo.ListByDog(ctx, dogID, f)
}

// Void anula una entrada del perrito indicado. Idempotente.
func (s *Service) Void(ctx context.Context, dogID, recordID string, in VoidInput) (Record, error) {
	in.Reason = strings.TrimSpace(in.Reason)
	if err := validate.Struct(in); err != nil {
		return Record{}, err
	}
	rec, err := s.repo.GetByID(ctx, strings.TrimSpace(recordID))
	if err != nil {
		return Record{}, err
	}
	if rec.DogID != dogID {
		return Record{}, apperr.ErrNotFound
	}
	if rec.Status == StatusVoided {
		return rec, nil
	}

	now := s.now()
	if err := s.repo.Void(ctx, rec.ID, in.Reason, now); err != nil {
		return Record{}, err
	}
	rec.Status = StatusVoided
	rec.VoidReason = in.Reason
	rec.VoidedAt = &now
	return rec, nil
}
