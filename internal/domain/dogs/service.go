package dogs

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-adoption/internal/platform/apperr"
	"pet-adoption/internal/platform/validate"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
	dateLayout   = "2006-01-02"
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
	Name        string `json:"nombre" validate:"required,max=80"`
	Age         string `json:"edad" validate:"max=40"`
	Sex         Sex    `json:"sexo" validate:"omitempty,oneof=macho hembra"`
	Size        Size   `json:"tamano" validate:"omitempty,oneof=pequeno mediano grande"`
	Breed       string `json:"raza" validate:"max=80"`
	Color       string `json:"color" validate:"max=60"`
	Description string `json:"descripcion" validate:"max=4000"`
	PhotoURL    string `json:"foto_url" validate:"omitempty,url,max=500"`
	Sterilized  bool   `json:"esterilizado"`
	Vaccinated  bool   `json:"vacunado"`
	Status      Status `json:"estado" validate:"omitempty,oneof=disponible en_proceso adoptado"`
	IntakeDate  string `json:"fecha_ingreso" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateInput: punteros para PATCH real, nil = no tocar.
type UpdateInput struct {
	Name        *string `json:"nombre" validate:"omitempty,min=1,max=80"`
	Age         *string `json:"edad" validate:"omitempty,max=40"`
	Sex         *Sex    `json:"sexo" validate:"omitempty,oneof=macho hembra"`
	Size        *Size   `json:"tamano" validate:"omitempty,oneof=pequeno mediano grande"`
	Breed       *string `json:"raza" validate:"omitempty,max=80"`
	Color       *string `json:"color" validate:"omitempty,max=60"`
	Description *string `json:"descripcion" validate:"omitempty,max=4000"`
	PhotoURL    *string `json:"foto_url" validate:"omitempty,url,max=500"`
	Sterilized  *bool   `json:"esterilizado"`
	Vaccinated  *bool   `json:"vacunado"`
	Status      *Status `json:"estado" validate:"omitempty,oneof=disponible en_proceso adoptado"`
	IntakeDate  *string `json:"fecha_ingreso" validate:"omitempty,datetime=2006-01-02"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Dog, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		return Dog{}, err
	}

	now := s.now()
	intake, err := parseDate(in.IntakeDate, now)
	if err != nil {
		return Dog{}, err
	}
	status := in.Status
	if status == "" {
		status = StatusAvailable
	}

	d := Dog{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Age:         strings.TrimSpace(in.Age),
		Sex:         in.Sex,
		Size:        in.Size,
		Breed:       strings.TrimSpace(in.Breed),
		Color:       strings.TrimSpace(in.Color),
		Description: strings.TrimSpace(in.Description),
		PhotoURL:    strings.TrimSpace(in.PhotoURL),
		Sterilized:  in.Sterilized,
		Vaccinated:  in.Vaccinated,
		Status:      status,
		IntakeDate:  intake,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return Dog{}, err
	}
	return d, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Dog, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Dog{}, apperr.ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// List normaliza paginación. Sin estados explícitos, public=true limita a
// los estados del catálogo.
func (s *Service) List(ctx context.Context, f ListFilter, public bool) ([]Dog, int, error) {
	if len(f.Statuses) == 0 && public {
		f.Statuses = PublicStatuses
	}
	for _, st := range f.Statuses {
		if !st.Valid() {
			return nil, 0, apperr.WithFields(apperr.ErrBadRequest, map[string]any{"estado": "estado desconocido: " + string(st)})
		}
	}
	if f.Sex != "" {
		sex, ok := ParseSex(string(f.Sex))
		if !ok {
			return nil, 0, apperr.WithFields(apperr.ErrBadRequest, map[string]any{"sexo": "debe ser macho o hembra"})
		}
		f.Sex = sex
	}
	if f.Size != "" {
		size, ok := ParseSize(string(f.Size))
		if !ok {
			return nil, 0, apperr.WithFields(apperr.ErrBadRequest, map[string]any{"tamano": "debe ser pequeno, mediano o grande"})
		}
		f.Size = size
	}
	f.Query = strings.TrimSpace(f.Query)
	f.Limit, f.Offset = Page(f.Limit, f.Offset)
	return s.repo.List(ctx, f)
}

// Page acota limit a [1, MaxLimit] (0 = DefaultLimit) y offset a >= 0.
func Page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Dog, error) {
	if err := validate.Struct(in); err != nil {
		return Dog{}, err
	}
	d, err := s.GetByID(ctx, id)
	if err != nil {
		return Dog{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Dog{}, apperr.WithFields(apperr.ErrValidation, map[string]any{"nombre": "requerido"})
		}
		d.Name = name
	}
	if in.Age != nil {
		d.Age = strings.TrimSpace(*in.Age)
	}
	if in.Sex != nil {
		d.Sex = *in.Sex
	}
	if in.Size != nil {
		d.Size = *in.Size
	}
	if in.Breed != nil {
		d.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Color != nil {
		d.Color = strings.TrimSpace(*in.Color)
	}
	if in.Description != nil {
		d.Description = strings.TrimSpace(*in.Description)
	}
	if in.PhotoURL != nil {
		d.PhotoURL = strings.TrimSpace(*in.PhotoURL)
	}
	if in.Sterilized != nil {
		d.Sterilized = *in.Sterilized
	}
	if in.Vaccinated != nil {
		d.Vaccinated = *in.Vaccinated
	}
	if in.Status != nil {
		d.Status = *in.Status
	}
	if in.IntakeDate != nil {
		t, err := parseDate(*in.IntakeDate, d.IntakeDate)
		if err != nil {
			return Dog{}, err
		}
		d.IntakeDate = t
	}

	d.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, d); err != nil {
		return Dog{}, err
	}
	return d, nil
}

// SetStatus lo usa el flujo de solicitudes para reflejar la adopción.
func (s *Service) SetStatus(ctx context.Context, id string, status Status) error {
	if !status.Valid() {
		return apperr.WithMessage(apperr.ErrBadRequest, "estado de perrito inválido")
	}
	d, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if d.Status == status {
		return nil
	}
	d.Status = status
	d.UpdatedAt = s.now()
	return s.repo.Update(ctx, d)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperr.ErrNotFound
	}
	return s.repo.SoftDelete(ctx, id, s.now())
}

func parseDate(raw string, def time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return truncateDay(def), nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, apperr.WithFields(apperr.ErrValidation, map[string]any{"fecha_ingreso": "formato YYYY-MM-DD"})
	}
	return t, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
