package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"pet-adoption/internal/domain/vaccinations"
	"pet-adoption/internal/platform/apperr"
)

type VaccinationsRepo struct {
	db *sql.DB
}

func NewVaccinationsRepo(db *sql.DB) *VaccinationsRepo {
	return &VaccinationsRepo{db: db}
}

const scheduleColumns = `
	id, perrito_id, vacuna, fecha_programada, aplicada_en, veterinario, notas,
	created_at, updated_at`

func (r *VaccinationsRepo) Create(ctx context.Context, s vaccinations.Schedule) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO vacunas (`+scheduleColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, s.ID, s.DogID, s.Vaccine, s.DueDate, s.AppliedAt, s.Vet, s.Notes, s.CreatedAt, s.UpdatedAt)
	return translate(err)
}

func scanSchedule(sc scanner) (vaccinations.Schedule, error) {
	var s vaccinations.Schedule
	var applied sql.NullTime
	if err := sc.Scan(
		&s.ID, &s.DogID, &s.Vaccine, &s.DueDate, &applied, &s.Vet, &s.Notes,
		&s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return vaccinations.Schedule{}, err
	}
	if applied.Valid {
		t := applied.Time
		s.AppliedAt = &t
	}
	return s, nil
}

func (r *VaccinationsRepo) GetByID(ctx context.Context, id string) (vaccinations.Schedule, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return vaccinations.Schedule{}, apperr.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, "SELECT "+scheduleColumns+" FROM vacunas WHERE id = $1", id)
	s, err := scanSchedule(row)
	if err != nil {
		return vaccinations.Schedule{}, translate(err)
	}
	return s, nil
}

func (r *VaccinationsRepo) ListByDog(ctx context.Context, dogID string) ([]vaccinations.Schedule, error) {
	return r.query(ctx, "SELECT "+scheduleColumns+" FROM vacunas WHERE perrito_id = $1 ORDER BY fecha_programada ASC, vacuna ASC", dogID)
}

func (r *VaccinationsRepo) ListPending(ctx context.Context, until time.Time) ([]vaccinations.Schedule, error) {
	return r.query(ctx, `
		SELECT `+scheduleColumns+`
		FROM vacunas
		WHERE aplicada_en IS NULL AND fecha_programada <= $1
		ORDER BY fecha_programada ASC, vacuna ASC
	`, until)
}

func (r *VaccinationsRepo) query(ctx context.Context, q string, args ...any) ([]vaccinations.Schedule, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]vaccinations.Schedule, 0)
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *VaccinationsRepo) Update(ctx context.Context, s vaccinations.Schedule) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE vacunas SET
			vacuna = $2, fecha_programada = $3, aplicada_en = $4,
			veterinario = $5, notas = $6, updated_at = $7
		WHERE id = $1
	`, s.ID, s.Vaccine, s.DueDate, s.AppliedAt, s.Vet, s.Notes, s.UpdatedAt)
	return expectOne(res, err)
}

func (r *VaccinationsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vacunas WHERE id = $1`, strings.TrimSpace(id))
	return expectOne(res, err)
}
