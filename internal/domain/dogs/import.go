package dogs

import (
	"context"
	"fmt"
	"strings"

	"pet-adoption/internal/platform/apperr"
	"pet-adoption/internal/platform/validate"
)

// ImportColumns es la plantilla CSV de perritos.
var ImportColumns = []string{
	"nombre", "edad", "sexo", "tamano", "raza", "color",
	"descripcion", "esterilizado", "vacunado", "foto_url",
}

// ImportTarget adapta el Service al importador CSV.
type ImportTarget struct {
	svc *Service
}

func NewImportTarget(svc *Service) *ImportTarget {
	return &ImportTarget{svc: svc}
}

func (t *ImportTarget) Entity() string     { return "perritos" }
func (t *ImportTarget) Columns() []string  { return ImportColumns }
func (t *ImportTarget) Required() []string { return []string{"nombre"} }

// Create convierte una fila (clave = encabezado) en un perrito nuevo.
func (t *ImportTarget) Create(ctx context.Context, rec map[string]string) (string, error) {
	in, err := InputFromRecord(rec)
	if err != nil {
		return "", err
	}
	d, err := t.svc.Create(ctx, in)
	if err != nil {
		return "", err
	}
	return d.ID, nil
}

// Check valida la fila sin crear el perrito.
func (t *ImportTarget) Check(rec map[string]string) error {
	in, err := InputFromRecord(rec)
	if err != nil {
		return err
	}
	in.Name = strings.TrimSpace(in.Name)
	return validate.Struct(in)
}

func rowError(format string, args ...any) error {
	return apperr.WithMessage(apperr.ErrValidation, fmt.Sprintf(format, args...))
}

// InputFromRecord normaliza los valores de planilla (acentos, sí/no).
func InputFromRecord(rec map[string]string) (CreateInput, error) {
	sex, ok := ParseSex(rec["sexo"])
	if !ok {
		return CreateInput{}, rowError("sexo %q no reconocido (macho/hembra)", rec["sexo"])
	}
	size, ok := ParseSize(rec["tamano"])
	if !ok {
		return CreateInput{}, rowError("tamano %q no reconocido (pequeno/mediano/grande)", rec["tamano"])
	}
	sterilized, ok := ParseFlag(rec["esterilizado"])
	if !ok {
		return CreateInput{}, rowError("esterilizado %q no reconocido (si/no)", rec["esterilizado"])
	}
	vaccinated, ok := ParseFlag(rec["vacunado"])
	if !ok {
		return CreateInput{}, rowError("vacunado %q no reconocido (si/no)", rec["vacunado"])
	}
	return CreateInput{
		Name:        rec["nombre"],
		Age:         rec["edad"],
		Sex:         sex,
		Size:        size,
		Breed:       rec["raza"],
		Color:       rec["color"],
		Description: rec["descripcion"],
		PhotoURL:    rec["foto_url"],
		Sterilized:  sterilized,
		Vaccinated:  vaccinated,
	}, nil
}
