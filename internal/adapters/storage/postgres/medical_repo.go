package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"pet-adoption/internal/domain/medical"
	"pet-adoption/internal/platform/apperr"
)

type MedicalRepo struct {
	db *sql.DB
}

func NewMedicalRepo(db *sql.DB) *MedicalRepo {
	return &MedicalRepo{db: db}
}

const recordColumns = `
	id, perrito_id, tipo, fecha, registrado_en,
	titulo, notas, veterinario, peso_kg, registrado_por,
	estado, motivo_anulacion, anulado_en`

func (r *MedicalRepo) Create(ctx context.Context, rec medical.Record) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO expediente_medico (`+recordColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		rec.ID, rec.DogID, string(rec.Type), rec.Date, rec.RecordedAt,
		rec.Title, rec.Notes, rec.Vet, rec.WeightKg, rec.RecordedBy,
		string(rec.Status), rec.VoidReason, rec.VoidedAt,
	)
	return translate(err)
}

func scanRecord(s scanner) (medical.Record, error) {
	var rec medical.Record
	var typ, status string
	var weight sql.NullFloat64
	var voided sql.NullTime
	if err := s.Scan(
		&rec.ID, &rec.DogID, &typ, &rec.Date, &rec.RecordedAt,
		&rec.Title, &rec.Notes, &rec.Vet, &weight, &rec.RecordedBy,
		&status, &rec.VoidReason, &voided,
	); err != nil {
		return medical.Record{}, err
	}
	rec.Type = medical.RecordType(typ)
	rec.Status = medical.RecordStatus(status)
	if weight.Valid {
		w := weight.Float64
		rec.WeightKg = &w
	}
	if voided.Valid {
		t := voided.Time
		rec.VoidedAt = &t
	}
	return rec, nil
}

func (r *MedicalRepo) GetByID(ctx context.Context, id string) (medical.Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return medical.Record{}, apperr.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, "SELECT "+recordColumns+" FROM expediente_medico WHERE id = $1", id)
	rec, err := scanRecord(row)
	if err != nil {
		return medical.Record{}, translate(err)
	}
	return rec, nil
}

func (r *MedicalRepo) ListByDog(ctx context.Context, dogID string, filter medical.ListFilter) ([]medical.Record, error) {
	dogID = strings.TrimSpace(dogID)
	if dogID == "" {
		return nil, nil
	}

	sb := strings.Builder{}
	sb.WriteString("SELECT " + recordColumns + " FROM expediente_medico WHERE perrito_id = $1")
	args := []any{dogID}
	argN := 2

	if !filter.IncludeVoided {
		sb.WriteString(fmt.Sprintf(" AND estado = $%d", argN))
		args = append(args, string(medical.StatusActive))
		argN++
	}
	if len(filter.Types) > 0 {
		placeholders := make([]string, 0, len(filter.Types))
		for _, t := range filter.Types {
			placeholders = append(placeholders, fmt.Sprintf("$%d", argN))
			args = append(args, string(t))
			argN++
		}
		sb.WriteString(" AND tipo IN (" + strings.Join(placeholders, ",") + ")")
	}
	if filter.From != nil {
		sb.WriteString(fmt.Sprintf(" AND fecha >= $%d", argN))
		args = append(args, *filter.From)
		argN++
	}
	if filter.To != nil {
		sb.WriteString(fmt.Sprintf(" AND fecha <= $%d", argN))
		args = append(args, *filter.To)
		argN++
	}
	// q: búsqueda simple en título, notas y veterinario
	if q := strings.TrimSpace(filter.Query); q != "" {
		sb.WriteString(fmt.Sprintf(" AND (titulo ILIKE $%d OR notas ILIKE $%d OR veterinario ILIKE $%d)", argN, argN, argN))
		args = append(args, "%"+q+"%")
		argN++
	}

	sb.WriteString(" ORDER BY fecha DESC, registrado_en DESC")
	sb.WriteString(fmt.Sprintf(" LIMIT $%d", argN))
	args = append(args, capLimit(filter.Limit, medical.DefaultLimit, medical.MaxLimit))

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]medical.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *MedicalRepo) Void(ctx context.Context, id, reason string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE expediente_medico
		SET estado = $2, motivo_anulacion = $3, anulado_en = $4
		WHERE id = $1
	`, strings.TrimSpace(id), string(medical.StatusVoided), reason, at)
	return expectOne(res, err)
}
