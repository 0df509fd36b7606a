package imports

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"pet-adoption/internal/platform/apperr"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/platform/metrics"
)

// PreviewRows es la cantidad de filas de datos que muestra la vista previa.
const PreviewRows = 5

// Target es una entidad importable (perritos, comercios).
type Target interface {
	Entity() string
	Columns() []string
	Required() []string
	Create(ctx context.Context, rec map[string]string) (string, error)
}

// Checker lo implementan los targets que pueden validar una fila sin escribirla.
type Checker interface {
	Check(rec map[string]string) error
}

type Service struct {
	targets map[string]Target
	metrics *metrics.Metrics
}

func NewService(m *metrics.Metrics, targets ...Target) *Service {
	s := &Service{targets: make(map[string]Target, len(targets)), metrics: m}
	for _, t := range targets {
		s.targets[t.Entity()] = t
	}
	return s
}

// Entities lista las entidades registradas, ordenadas.
func (s *Service) Entities() []string {
	out := make([]string, 0, len(s.targets))
	for k := range s.targets {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (s *Service) target(entity string) (Target, error) {
	t, ok := s.targets[strings.ToLower(strings.TrimSpace(entity))]
	if !ok {
		return nil, apperr.WithMessage(apperr.ErrNotFound, fmt.Sprintf("entidad %q no importable (%s)", entity, strings.Join(s.Entities(), ", ")))
	}
	return t, nil
}

func (s *Service) Template(entity string) ([]byte, error) {
	t, err := s.target(entity)
	if err != nil {
		return nil, err
	}
	b, err := Template(t.Columns())
	if err != nil {
		return nil, apperr.Wrap(err, apperr.ErrInternal, "")
	}
	return b, nil
}

type Preview struct {
	Entity   string     `json:"entidad"`
	Headers  []string   `json:"encabezados"`
	Rows     [][]string `json:"filas"`
	Total    int        `json:"total"`
	Missing  []string   `json:"faltantes"`
	Columns  []string   `json:"columnas"`
	Required []string   `json:"requeridas"`
}

func (s *Service) Preview(entity string, tbl Table) (Preview, error) {
	t, err := s.target(entity)
	if err != nil {
		return Preview{}, err
	}
	rows := tbl.Rows
	if len(rows) > PreviewRows {
		rows = rows[:PreviewRows]
	}
	return Preview{
		Entity:   t.Entity(),
		Headers:  tbl.Headers,
		Rows:     rows,
		Total:    len(tbl.Rows),
		Missing:  tbl.Missing(t.Required()),
		Columns:  t.Columns(),
		Required: t.Required(),
	}, nil
}

type RowError struct {
	Row     int    `json:"fila"`
	Message string `json:"mensaje"`
}

type Result struct {
	Entity   string     `json:"entidad"`
	Total    int        `json:"total"`
	Imported int        `json:"importados"`
	DryRun   bool       `json:"dry_run"`
	IDs      []string   `json:"ids,omitempty"`
	Errors   []RowError `json:"errores"`
}

// ImportTable rechaza el archivo entero si faltan columnas requeridas.
func (s *Service) ImportTable(ctx context.Context, entity string, tbl Table, dryRun bool) (Result, error) {
	t, err := s.target(entity)
	if err != nil {
		return Result{}, err
	}
	if missing := tbl.Missing(t.Required()); len(missing) > 0 {
		fields := make(map[string]any, len(missing))
		for _, c := range missing {
			fields[c] = "columna requerida"
		}
		return Result{}, apperr.WithFields(apperr.ErrValidation, fields)
	}
	return s.importRecords(ctx, t, tbl.Records(), dryRun)
}

// ImportRecords commitea objetos ya armados (por ejemplo desde el admin).
func (s *Service) ImportRecords(ctx context.Context, entity string, recs []map[string]string, dryRun bool) (Result, error) {
	t, err := s.target(entity)
	if err != nil {
		return Result{}, err
	}
	// Registros en blanco se descartan igual que las filas vacías del CSV.
	normalized := make([]map[string]string, 0, len(recs))
	for _, rec := range recs {
		n := make(map[string]string, len(rec))
		blank := true
		for k, v := range rec {
			v = strings.TrimSpace(v)
			n[strings.ToLower(strings.TrimSpace(k))] = v
			if v != "" {
				blank = false
			}
		}
		if !blank {
			normalized = append(normalized, n)
		}
	}
	if len(normalized) == 0 {
		return Result{}, apperr.WithMessage(apperr.ErrBadRequest, "no hay registros para importar")
	}
	return s.importRecords(ctx, t, normalized, dryRun)
}

func (s *Service) importRecords(ctx context.Context, t Target, recs []map[string]string, dryRun bool) (Result, error) {
	res := Result{Entity: t.Entity(), Total: len(recs), DryRun: dryRun, Errors: make([]RowError, 0)}
	checker, canCheck := t.(Checker)

	for i, rec := range recs {
		row := i + 1
		if err := requireValues(rec, t.Required()); err != nil {
			res.Errors = append(res.Errors, RowError{Row: row, Message: err.Error()})
			continue
		}
		if dryRun {
			if canCheck {
				if err := checker.Check(rec); err != nil {
					res.Errors = append(res.Errors, RowError{Row: row, Message: rowMessage(err)})
					continue
				}
			}
			res.Imported++
			continue
		}
		id, err := t.Create(ctx, rec)
		if err != nil {
			// errores de infraestructura cortan la importación
			if apperr.Status(err) >= 500 {
				return res, err
			}
			res.Errors = append(res.Errors, RowError{Row: row, Message: rowMessage(err)})
			continue
		}
		res.Imported++
		res.IDs = append(res.IDs, id)
	}

	if !dryRun {
		s.metrics.RecordImportRows(t.Entity(), res.Imported, len(res.Errors))
	}
	logger.FromContext(ctx).Info("import finished", map[string]any{
		"entity":   t.Entity(),
		"total":    res.Total,
		"imported": res.Imported,
		"failed":   len(res.Errors),
		"dry_run":  dryRun,
	})
	return res, nil
}

func requireValues(rec map[string]string, required []string) error {
	for _, c := range required {
		if strings.TrimSpace(rec[c]) == "" {
			return fmt.Errorf("falta %s", c)
		}
	}
	return nil
}

// rowMessage aplana un error de validación en una línea legible.
func rowMessage(err error) string {
	e, ok := apperr.As(err)
	if !ok {
		return err.Error()
	}
	if len(e.Fields) == 0 {
		return apperr.Message(e)
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %v", k, e.Fields[k]))
	}
	return apperr.Message(e) + " (" + strings.Join(parts, "; ") + ")"
}
