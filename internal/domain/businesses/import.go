package businesses

import (
	"context"
	"fmt"
	"strings"

	"pet-adoption/internal/platform/apperr"
	"pet-adoption/internal/platform/validate"
)

var ImportColumns = []string{"nombre", "categoria", "direccion", "telefono", "email", "sitio_web", "descripcion"}

type ImportTarget struct {
	svc *Service
}

func NewImportTarget(svc *Service) *ImportTarget {
	return &ImportTarget{svc: svc}
}

func (t *ImportTarget) Entity() string     { return "comercios" }
func (t *ImportTarget) Columns() []string  { return ImportColumns }
func (t *ImportTarget) Required() []string { return []string{"nombre", "direccion"} }

func (t *ImportTarget) Create(ctx context.Context, rec map[string]string) (string, error) {
	in, err := inputFromRecord(rec)
	if err != nil {
		return "", err
	}
	b, err := t.svc.Create(ctx, in)
	if err != nil {
		return "", err
	}
	return b.ID, nil
}

func (t *ImportTarget) Check(rec map[string]string) error {
	in, err := inputFromRecord(rec)
	if err != nil {
		return err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	return validate.Struct(in)
}

func inputFromRecord(rec map[string]string) (CreateInput, error) {
	cat, ok := ParseCategory(rec["categoria"])
	if !ok {
		return CreateInput{}, apperr.WithMessage(apperr.ErrValidation, fmt.Sprintf("categoria %q no reconocida", rec["categoria"]))
	}
	return CreateInput{
		Name:        rec["nombre"],
		Category:    cat,
		Address:     rec["direccion"],
		Phone:       rec["telefono"],
		Email:       rec["email"],
		Website:     rec["sitio_web"],
		Description: rec["descripcion"],
	}, nil
}
