package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"pet-adoption/internal/domain/businesses"
	"pet-adoption/internal/platform/apperr"
)

type BusinessesRepo struct {
	db *sql.DB
}

func NewBusinessesRepo(db *sql.DB) *BusinessesRepo {
	return &BusinessesRepo{db: db}
}

const businessColumns = `
	id, codigo, nombre, categoria, direccion, telefono, email, sitio_web,
	descripcion, activo, created_at, updated_at`

// Create devuelve apperr.ErrConflict si el código ya existe (índice UNIQUE).
func (r *BusinessesRepo) Create(ctx context.Context, b businesses.Business) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO comercios (`+businessColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		b.ID, b.Code, b.Name, string(b.Category), b.Address, b.Phone, b.Email, b.Website,
		b.Description, b.Active, b.CreatedAt, b.UpdatedAt,
	)
	return translate(err)
}

func scanBusiness(s scanner) (businesses.Business, error) {
	var b businesses.Business
	var cat string
	if err := s.Scan(
		&b.ID, &b.Code, &b.Name, &cat, &b.Address, &b.Phone, &b.Email, &b.Website,
		&b.Description, &b.Active, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return businesses.Business{}, err
	}
	b.Category = businesses.Category(cat)
	return b, nil
}

func (r *BusinessesRepo) getBy(ctx context.Context, column, value string) (businesses.Business, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return businesses.Business{}, apperr.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, "SELECT "+businessColumns+" FROM comercios WHERE "+column+" = $1", value)
	b, err := scanBusiness(row)
	if err != nil {
		return businesses.Business{}, translate(err)
	}
	return b, nil
}

func (r *BusinessesRepo) GetByID(ctx context.Context, id string) (businesses.Business, error) {
	return r.getBy(ctx, "id", id)
}

func (r *BusinessesRepo) GetByCode(ctx context.Context, code string) (businesses.Business, error) {
	return r.getBy(ctx, "codigo", strings.ToUpper(code))
}

func (r *BusinessesRepo) List(ctx context.Context, f businesses.ListFilter) ([]businesses.Business, int, error) {
	where := strings.Builder{}
	where.WriteString(" WHERE TRUE")
	args := []any{}
	argN := 1

	if f.ActiveOnly {
		where.WriteString(" AND activo")
	}
	if f.Category != "" {
		where.WriteString(fmt.Sprintf(" AND categoria = $%d", argN))
		args = append(args, string(f.Category))
		argN++
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		where.WriteString(fmt.Sprintf(" AND (nombre ILIKE $%d OR direccion ILIKE $%d OR descripcion ILIKE $%d)", argN, argN, argN))
		args = append(args, "%"+q+"%")
		argN++
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM comercios"+where.String(), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := capLimit(f.Limit, businesses.DefaultLimit, businesses.MaxLimit)
	query := "SELECT " + businessColumns + " FROM comercios" + where.String() +
		fmt.Sprintf(" ORDER BY lower(nombre) ASC LIMIT $%d OFFSET $%d", argN, argN+1)
	args = append(args, limit, max(f.Offset, 0))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]businesses.Business, 0)
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

// Update no toca el código.
func (r *BusinessesRepo) Update(ctx context.Context, b businesses.Business) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE comercios SET
			nombre = $2, categoria = $3, direccion = $4, telefono = $5, email = $6,
			sitio_web = $7, descripcion = $8, activo = $9, updated_at = $10
		WHERE id = $1
	`,
		b.ID, b.Name, string(b.Category), b.Address, b.Phone, b.Email,
		b.Website, b.Description, b.Active, b.UpdatedAt,
	)
	return expectOne(res, err)
}

func (r *BusinessesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comercios WHERE id = $1`, strings.TrimSpace(id))
	return expectOne(res, err)
}
