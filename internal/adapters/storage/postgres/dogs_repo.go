package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"pet-adoption/internal/domain/dogs"
	"pet-adoption/internal/platform/apperr"
)

type DogsRepo struct {
	db *sql.DB
}

func NewDogsRepo(db *sql.DB) *DogsRepo {
	return &DogsRepo{db: db}
}

const dogColumns = `
	id, nombre, edad, sexo, tamano, raza, color, descripcion, foto_url,
	esterilizado, vacunado, estado, fecha_ingreso,
	created_at, updated_at, deleted_at`

func (r *DogsRepo) Create(ctx context.Context, d dogs.Dog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO perritos (`+dogColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
	`,
		d.ID, d.Name, d.Age, string(d.Sex), string(d.Size), d.Breed, d.Color, d.Description, d.PhotoURL,
		d.Sterilized, d.Vaccinated, string(d.Status), d.IntakeDate,
		d.CreatedAt, d.UpdatedAt, d.DeletedAt,
	)
	return translate(err)
}

func scanDog(s scanner) (dogs.Dog, error) {
	var d dogs.Dog
	var sex, size, status string
	var deleted sql.NullTime
	if err := s.Scan(
		&d.ID, &d.Name, &d.Age, &sex, &size, &d.Breed, &d.Color, &d.Description, &d.PhotoURL,
		&d.Sterilized, &d.Vaccinated, &status, &d.IntakeDate,
		&d.CreatedAt, &d.UpdatedAt, &deleted,
	); err != nil {
		return dogs.Dog{}, err
	}
	d.Sex = dogs.Sex(sex)
	d.Size = dogs.Size(size)
	d.Status = dogs.Status(status)
	if deleted.Valid {
		t := deleted.Time
		d.DeletedAt = &t
	}
	return d, nil
}

func (r *DogsRepo) GetByID(ctx context.Context, id string) (dogs.Dog, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return dogs.Dog{}, apperr.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+dogColumns+`
		FROM perritos
		WHERE id = $1 AND deleted_at IS NULL
	`, id)

	d, err := scanDog(row)
	if err != nil {
		return dogs.Dog{}, translate(err)
	}
	return d, nil
}

func (r *DogsRepo) List(ctx context.Context, f dogs.ListFilter) ([]dogs.Dog, int, error) {
	where := strings.Builder{}
	where.WriteString(" WHERE deleted_at IS NULL")
	args := []any{}
	argN := 1

	if len(f.Statuses) > 0 {
		placeholders := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			placeholders = append(placeholders, fmt.Sprintf("$%d", argN))
			args = append(args, string(s))
			argN++
		}
		where.WriteString(" AND estado IN (" + strings.Join(placeholders, ",") + ")")
	}
	if f.Sex != "" {
		where.WriteString(fmt.Sprintf(" AND sexo = $%d", argN))
		args = append(args, string(f.Sex))
		argN++
	}
	if f.Size != "" {
		where.WriteString(fmt.Sprintf(" AND tamano = $%d", argN))
		args = append(args, string(f.Size))
		argN++
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		where.WriteString(fmt.Sprintf(" AND (nombre ILIKE $%d OR raza ILIKE $%d OR color ILIKE $%d OR descripcion ILIKE $%d)", argN, argN, argN, argN))
		args = append(args, "%"+q+"%")
		argN++
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM perritos"+where.String(), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := capLimit(f.Limit, dogs.DefaultLimit, dogs.MaxLimit)
	query := "SELECT " + dogColumns + " FROM perritos" + where.String() +
		fmt.Sprintf(" ORDER BY fecha_ingreso DESC, created_at DESC LIMIT $%d OFFSET $%d", argN, argN+1)
	args = append(args, limit, max(f.Offset, 0))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]dogs.Dog, 0)
	for rows.Next() {
		d, err := scanDog(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}

func (r *DogsRepo) Update(ctx context.Context, d dogs.Dog) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE perritos SET
			nombre = $2, edad = $3, sexo = $4, tamano = $5, raza = $6, color = $7,
			descripcion = $8, foto_url = $9, esterilizado = $10, vacunado = $11,
			estado = $12, fecha_ingreso = $13, updated_at = $14
		WHERE id = $1 AND deleted_at IS NULL
	`,
		d.ID, d.Name, d.Age, string(d.Sex), string(d.Size), d.Breed, d.Color,
		d.Description, d.PhotoURL, d.Sterilized, d.Vaccinated,
		string(d.Status), d.IntakeDate, d.UpdatedAt,
	)
	return expectOne(res, err)
}

func (r *DogsRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE perritos
		SET deleted_at = $2, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL
	`, strings.TrimSpace(id), at)
	return expectOne(res, err)
}
