package businesses

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-adoption/internal/platform/apperr"
	"pet-adoption/internal/platform/metrics"
	"pet-adoption/internal/platform/qrcard"
	"pet-adoption/internal/platform/validate"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
	codeAttempts = 5
)

type Options struct {
	BaseURL string // links de los QR: BaseURL + /comercios/{codigo}
	Style   qrcard.Style
	Metrics *metrics.Metrics
}

type Service struct {
	repo    Repository
	now     func() time.Time
	newCode func() string
	opts    Options
}

func NewService(repo Repository, opts Options) *Service {
	opts.BaseURL = strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if opts.BaseURL == "" {
		opts.BaseURL = "http://localhost:8080"
	}
	if opts.Style == (qrcard.Style{}) {
		opts.Style = qrcard.DefaultStyle()
	}
	return &Service{
		repo:    repo,
		now:     time.Now,
		newCode: randomCode,
		opts:    opts,
	}
}

func randomCode() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "PF-" + strings.ToUpper(hex[:6])
}

type CreateInput struct {
	Name        string   `json:"nombre" validate:"required,max=120"`
	Category    Category `json:"categoria" validate:"omitempty,oneof=veterinaria tienda cafeteria restaurante hotel peluqueria otro"`
	Address     string   `json:"direccion" validate:"required,max=200"`
	Phone       string   `json:"telefono" validate:"max=40"`
	Email       string   `json:"email" validate:"omitempty,email,max=120"`
	Website     string   `json:"sitio_web" validate:"omitempty,url,max=300"`
	Description string   `json:"descripcion" validate:"max=2000"`
	Active      *bool    `json:"activo"`
}

type UpdateInput struct {
	Name        *string   `json:"nombre" validate:"omitempty,min=1,max=120"`
	Category    *Category `json:"categoria" validate:"omitempty,oneof=veterinaria tienda cafeteria restaurante hotel peluqueria otro"`
	Address     *string   `json:"direccion" validate:"omitempty,min=1,max=200"`
	Phone       *string   `json:"telefono" validate:"omitempty,max=40"`
	Email       *string   `json:"email" validate:"omitempty,email,max=120"`
	Website     *string   `json:"sitio_web" validate:"omitempty,url,max=300"`
	Description *string   `json:"descripcion" validate:"omitempty,max=2000"`
	Active      *bool     `json:"activo"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Business, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	if err := validate.Struct(in); err != nil {
		return Business{}, err
	}
	if in.Category == "" {
		in.Category = CategoryOther
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}

	now := s.now()
	b := Business{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Category:    in.Category,
		Address:     in.Address,
		Phone:       strings.TrimSpace(in.Phone),
		Email:       strings.TrimSpace(in.Email),
		Website:     strings.TrimSpace(in.Website),
		Description: strings.TrimSpace(in.Description),
		Active:      active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// El código es corto; ante colisión se reintenta con otro.
	var err error
	for range codeAttempts {
		b.Code = s.newCode()
		err = s.repo.Create(ctx, b)
		if !errors.Is(err, apperr.ErrConflict) {
			break
		}
	}
	if err != nil {
		return Business{}, err
	}
	return b, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Business, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Business{}, apperr.ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// Lookup acepta id o código (PF-...).
func (s *Service) Lookup(ctx context.Context, idOrCode string) (Business, error) {
	idOrCode = strings.TrimSpace(idOrCode)
	if strings.HasPrefix(strings.ToUpper(idOrCode), "PF-") {
		return s.repo.GetByCode(ctx, strings.ToUpper(idOrCode))
	}
	return s.GetByID(ctx, idOrCode)
}

// LookupPublic oculta los comercios inactivos.
func (s *Service) LookupPublic(ctx context.Context, idOrCode string) (Business, error) {
	b, err := s.Lookup(ctx, idOrCode)
	if err != nil {
		return Business{}, err
	}
	if !b.Active {
		return Business{}, apperr.ErrNotFound
	}
	return b, nil
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Business, int, error) {
	if f.Category != "" {
		c, ok := ParseCategory(string(f.Category))
		if !ok {
			return nil, 0, apperr.WithFields(apperr.ErrBadRequest, map[string]any{"categoria": "categoría desconocida"})
		}
		f.Category = c
	}
	f.Query = strings.TrimSpace(f.Query)
	f.Limit, f.Offset = Page(f.Limit, f.Offset)
	return s.repo.List(ctx, f)
}

func Page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return limit, max(offset, 0)
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Business, error) {
	if err := validate.Struct(in); err != nil {
		return Business{}, err
	}
	b, err := s.GetByID(ctx, id)
	if err != nil {
		return Business{}, err
	}

	if in.Name != nil {
		if b.Name = strings.TrimSpace(*in.Name); b.Name == "" {
			return Business{}, apperr.WithFields(apperr.ErrValidation, map[string]any{"nombre": "requerido"})
		}
	}
	if in.Address != nil {
		if b.Address = strings.TrimSpace(*in.Address); b.Address == "" {
			return Business{}, apperr.WithFields(apperr.ErrValidation, map[string]any{"direccion": "requerido"})
		}
	}
	if in.Category != nil {
		b.Category = *in.Category
	}
	if in.Phone != nil {
		b.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Email != nil {
		b.Email = strings.TrimSpace(*in.Email)
	}
	if in.Website != nil {
		b.Website = strings.TrimSpace(*in.Website)
	}
	if in.Description != nil {
		b.Description = strings.TrimSpace(*in.Description)
	}
	if in.Active != nil {
		b.Active = *in.Active
	}

	b.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, b); err != nil {
		return Business{}, err
	}
	return b, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperr.ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

// LandingURL es la URL pública que codifica el QR del comercio.
func (s *Service) LandingURL(b Business) string {
	return s.opts.BaseURL + "/comercios/" + b.Code
}

// StyleOverride llega de la query (?color=&color2=&tamano=); vacío = config.
type StyleOverride struct {
	Primary   string
	Secondary string
	Width     int
}

func (s *Service) resolveStyle(o StyleOverride) (qrcard.Style, error) {
	st := s.opts.Style
	if o.Primary != "" {
		c, err := qrcard.ParseHexColor(o.Primary)
		if err != nil {
			return qrcard.Style{}, apperr.WithFields(apperr.ErrBadRequest, map[string]any{"color": err.Error()})
		}
		st.Primary = c
	}
	if o.Secondary != "" {
		c, err := qrcard.ParseHexColor(o.Secondary)
		if err != nil {
			return qrcard.Style{}, apperr.WithFields(apperr.ErrBadRequest, map[string]any{"color2": err.Error()})
		}
		st.Secondary = c
	}
	if o.Width > 0 {
		st.Width = o.Width
	}
	return st, nil
}

// QRCard arma la tarjeta PNG del comercio.
func (s *Service) QRCard(b Business, o StyleOverride) (qrcard.Card, error) {
	style, err := s.resolveStyle(o)
	if err != nil {
		return qrcard.Card{}, err
	}
	card, err := qrcard.Compose(qrcard.Input{
		URL:   s.LandingURL(b),
		Name:  b.Name,
		Code:  b.Code,
		Style: style,
	})
	if err != nil {
		if errors.Is(err, qrcard.ErrLowContrast) || errors.Is(err, qrcard.ErrTooDense) {
			return qrcard.Card{}, apperr.Wrap(err, apperr.ErrBadRequest, err.Error())
		}
		return qrcard.Card{}, apperr.Wrap(err, apperr.ErrInternal, "")
	}
	s.opts.Metrics.RecordQRCard()
	return card, nil
}
