package adoptions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-adoption/internal/domain/dogs"
	"pet-adoption/internal/platform/apperr"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/platform/metrics"
	"pet-adoption/internal/platform/validate"
)

// DogCatalog es lo que el flujo necesita del módulo de perritos.
type DogCatalog interface {
	GetByID(ctx context.Context, id string) (dogs.Dog, error)
	SetStatus(ctx context.Context, id string, status dogs.Status) error
}

const autoRejectNote = "Rechazada automáticamente: el perrito fue adoptado por otra solicitud."

type Service struct {
	repo    Repository
	dogs    DogCatalog
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewService(repo Repository, dogCatalog DogCatalog, m *metrics.Metrics) *Service {
	return &Service{
		repo:    repo,
		dogs:    dogCatalog,
		metrics: m,
		now:     time.Now,
	}
}

type CreateInput struct {
	DogID         string  `json:"perrito_id" validate:"required"`
	ApplicantName string  `json:"nombre" validate:"required,max=120"`
	Email         string  `json:"email" validate:"required,email,max=120"`
	Phone         string  `json:"telefono" validate:"required,max=40"`
	Address       string  `json:"direccion" validate:"max=200"`
	Housing       Housing `json:"vivienda" validate:"omitempty,oneof=casa departamento otro"`
	HasPets       bool    `json:"tiene_mascotas"`
	HasChildren   bool    `json:"tiene_ninos"`
	Message       string  `json:"mensaje" validate:"max=2000"`
}

type TransitionInput struct {
	Status Status `json:"estado" validate:"required"`
	Notes  string `json:"notas" validate:"max=2000"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Request, error) {
	in.DogID = strings.TrimSpace(in.DogID)
	in.ApplicantName = strings.TrimSpace(in.ApplicantName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := validate.Struct(in); err != nil {
		return Request{}, err
	}

	dog, err := s.dogs.GetByID(ctx, in.DogID)
	if err != nil {
		return Request{}, err
	}
	if !dog.Status.AcceptsRequests() {
		return Request{}, apperr.WithMessage(apperr.ErrConflict, "este perrito ya no recibe solicitudes")
	}

	housing := in.Housing
	if housing == "" {
		housing = HousingOther
	}

	now := s.now()
	req := Request{
		ID:              uuid.NewString(),
		DogID:           dog.ID,
		DogName:         dog.Name,
		ApplicantName:   in.ApplicantName,
		Email:           in.Email,
		Phone:           in.Phone,
		Address:         strings.TrimSpace(in.Address),
		Housing:         housing,
		HasPets:         in.HasPets,
		HasChildren:     in.HasChildren,
		Message:         strings.TrimSpace(in.Message),
		Status:          StatusPending,
		StatusChangedAt: now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return Request{}, err
	}
	s.metrics.RecordAdoptionStatus(string(StatusPending))
	return req, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Request, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Request{}, apperr.ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Request, int, error) {
	for _, st := range f.Statuses {
		if !st.Valid() {
			return nil, 0, apperr.WithFields(apperr.ErrBadRequest, map[string]any{"estado": "estado desconocido: " + string(st)})
		}
	}
	f.DogID = strings.TrimSpace(f.DogID)
	if f.Limit < 0 {
		f.Limit = 0
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.repo.List(ctx, f)
}

// ListOpen devuelve todas las solicitudes no terminales (recordatorios).
func (s *Service) ListOpen(ctx context.Context) ([]Request, error) {
	items, _, err := s.repo.List(ctx, ListFilter{Statuses: OpenStatuses})
	return items, err
}

// Transition aplica un cambio de estado validado contra el flujo y
// propaga el efecto sobre el perrito.
func (s *Service) Transition(ctx context.Context, id string, in TransitionInput, actor string) (Request, error) {
	if err := validate.Struct(in); err != nil {
		return Request{}, err
	}
	if !in.Status.Valid() {
		return Request{}, apperr.WithFields(apperr.ErrValidation, map[string]any{"estado": "estado desconocido"})
	}

	req, err := s.GetByID(ctx, id)
	if err != nil {
		return Request{}, err
	}
	from := req.Status
	if !CanTransition(from, in.Status) {
		return Request{}, apperr.WithMessage(apperr.ErrBadState,
			fmt.Sprintf("no se puede pasar de %s a %s", from, in.Status))
	}

	if in.Status == StatusApproved {
		if err := s.ensureNoOtherApproved(ctx, req); err != nil {
			return Request{}, err
		}
	}

	now := s.now()
	req.Status = in.Status
	req.StatusChangedAt = now
	req.UpdatedAt = now
	req.AdminNotes = appendNote(req.AdminNotes, now, actor, in.Notes)

	if err := s.repo.Update(ctx, req); err != nil {
		return Request{}, err
	}
	s.metrics.RecordAdoptionStatus(string(req.Status))

	log := logger.FromContext(ctx)
	if err := s.applyDogEffects(ctx, req, from); err != nil {
		// Perrito dado de baja: la solicitud igual avanza.
		if !errors.Is(err, apperr.ErrNotFound) {
			return Request{}, err
		}
		log.Warn("adoption dog missing", map[string]any{"request_id": req.ID, "dog_id": req.DogID})
	}

	log.Info("adoption request transitioned", map[string]any{
		"request_id": req.ID,
		"dog_id":     req.DogID,
		"from":       string(from),
		"to":         string(req.Status),
		"actor":      actor,
	})
	return req, nil
}

func (s *Service) ensureNoOtherApproved(ctx context.Context, req Request) error {
	approved, _, err := s.repo.List(ctx, ListFilter{DogID: req.DogID, Statuses: []Status{StatusApproved}})
	if err != nil {
		return err
	}
	for _, o := range approved {
		if o.ID != req.ID {
			return apperr.WithMessage(apperr.ErrConflict, "el perrito ya tiene una solicitud aprobada")
		}
	}
	return nil
}

func (s *Service) applyDogEffects(ctx context.Context, req Request, from Status) error {
	switch {
	case req.Status == StatusApproved:
		return s.dogs.SetStatus(ctx, req.DogID, dogs.StatusInProcess)

	case req.Status == StatusCompleted:
		if err := s.dogs.SetStatus(ctx, req.DogID, dogs.StatusAdopted); err != nil {
			return err
		}
		return s.rejectOthers(ctx, req)

	case from == StatusApproved && req.Status == StatusCancelled:
		return s.dogs.SetStatus(ctx, req.DogID, dogs.StatusAvailable)
	}
	return nil
}

func (s *Service) rejectOthers(ctx context.Context, winner Request) error {
	open, _, err := s.repo.List(ctx, ListFilter{DogID: winner.DogID, Statuses: OpenStatuses})
	if err != nil {
		return err
	}
	now := s.now()
	for _, o := range open {
		if o.ID == winner.ID {
			continue
		}
		o.Status = StatusRejected
		o.StatusChangedAt = now
		o.UpdatedAt = now
		o.AdminNotes = appendNote(o.AdminNotes, now, "sistema", autoRejectNote)
		if err := s.repo.Update(ctx, o); err != nil {
			return err
		}
		s.metrics.RecordAdoptionStatus(string(StatusRejected))
	}
	return nil
}

func appendNote(prev string, at time.Time, actor, note string) string {
	note = strings.TrimSpace(note)
	if note == "" {
		return prev
	}
	if actor == "" {
		actor = "admin"
	}
	line := fmt.Sprintf("[%s %s] %s", at.Format("2006-01-02"), actor, note)
	if prev == "" {
		return line
	}
	return prev + "\n" + line
}
