package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"pet-adoption/internal/domain/adoptions"
	"pet-adoption/internal/platform/apperr"
)

type AdoptionsRepo struct {
	db *sql.DB
}

func NewAdoptionsRepo(db *sql.DB) *AdoptionsRepo {
	return &AdoptionsRepo{db: db}
}

const requestColumns = `
	id, perrito_id, perrito_nombre,
	nombre, email, telefono, direccion, vivienda, tiene_mascotas, tiene_ninos, mensaje,
	estado, notas_admin, estado_cambiado_en,
	created_at, updated_at`

func (r *AdoptionsRepo) Create(ctx context.Context, req adoptions.Request) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO solicitudes (`+requestColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
	`,
		req.ID, req.DogID, req.DogName,
		req.ApplicantName, req.Email, req.Phone, req.Address, string(req.Housing), req.HasPets, req.HasChildren, req.Message,
		string(req.Status), req.AdminNotes, req.StatusChangedAt,
		req.CreatedAt, req.UpdatedAt,
	)
	return translate(err)
}

func scanRequest(s scanner) (adoptions.Request, error) {
	var req adoptions.Request
	var housing, status string
	if err := s.Scan(
		&req.ID, &req.DogID, &req.DogName,
		&req.ApplicantName, &req.Email, &req.Phone, &req.Address, &housing, &req.HasPets, &req.HasChildren, &req.Message,
		&status, &req.AdminNotes, &req.StatusChangedAt,
		&req.CreatedAt, &req.UpdatedAt,
	); err != nil {
		return adoptions.Request{}, err
	}
	req.Housing = adoptions.Housing(housing)
	req.Status = adoptions.Status(status)
	return req, nil
}

func (r *AdoptionsRepo) GetByID(ctx context.Context, id string) (adoptions.Request, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return adoptions.Request{}, apperr.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, "SELECT "+requestColumns+" FROM solicitudes WHERE id = $1", id)
	req, err := scanRequest(row)
	if err != nil {
		return adoptions.Request{}, translate(err)
	}
	return req, nil
}

// List con Limit 0 devuelve todo (lo usan recordatorios y el cierre de adopciones).
func (r *AdoptionsRepo) List(ctx context.Context, f adoptions.ListFilter) ([]adoptions.Request, int, error) {
	where := strings.Builder{}
	where.WriteString(" WHERE TRUE")
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
	if f.DogID != "" {
		where.WriteString(fmt.Sprintf(" AND perrito_id = $%d", argN))
		args = append(args, f.DogID)
		argN++
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM solicitudes"+where.String(), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + requestColumns + " FROM solicitudes" + where.String() + " ORDER BY created_at DESC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argN)
		args = append(args, f.Limit)
		argN++
	}
	if f.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argN)
		args = append(args, f.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]adoptions.Request, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, req)
	}
	return out, total, rows.Err()
}

func (r *AdoptionsRepo) Update(ctx context.Context, req adoptions.Request) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE solicitudes SET
			estado = $2, notas_admin = $3, estado_cambiado_en = $4, updated_at = $5
		WHERE id = $1
	`, req.ID, string(req.Status), req.AdminNotes, req.StatusChangedAt, req.UpdatedAt)
	return expectOne(res, err)
}
