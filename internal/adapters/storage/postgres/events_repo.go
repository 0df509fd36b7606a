package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"pet-adoption/internal/domain/events"
	"pet-adoption/internal/platform/apperr"
)

type EventsRepo struct {
	db *sql.DB
}

func NewEventsRepo(db *sql.DB) *EventsRepo {
	return &EventsRepo{db: db}
}

const eventColumns = `
	id, titulo, descripcion, tipo, lugar, inicio, fin, publicado,
	created_at, updated_at`

func (r *EventsRepo) Create(ctx context.Context, e events.Event) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO eventos (`+eventColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		e.ID, e.Title, e.Description, string(e.Type), e.Location,
		e.StartsAt, e.EndsAt, e.Published, e.CreatedAt, e.UpdatedAt,
	)
	return translate(err)
}

func scanEvent(s scanner) (events.Event, error) {
	var e events.Event
	var typ string
	var end sql.NullTime
	if err := s.Scan(
		&e.ID, &e.Title, &e.Description, &typ, &e.Location,
		&e.StartsAt, &end, &e.Published, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return events.Event{}, err
	}
	e.Type = events.Type(typ)
	if end.Valid {
		t := end.Time
		e.EndsAt = &t
	}
	return e, nil
}

func (r *EventsRepo) GetByID(ctx context.Context, id string) (events.Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return events.Event{}, apperr.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, "SELECT "+eventColumns+" FROM eventos WHERE id = $1", id)
	e, err := scanEvent(row)
	if err != nil {
		return events.Event{}, translate(err)
	}
	return e, nil
}

func (r *EventsRepo) List(ctx context.Context, filter events.ListFilter) ([]events.Event, error) {
	sb := strings.Builder{}
	sb.WriteString("SELECT " + eventColumns + " FROM eventos WHERE TRUE")
	args := []any{}
	argN := 1

	if filter.PublishedOnly {
		sb.WriteString(" AND publicado")
	}
	if filter.Type != "" {
		sb.WriteString(fmt.Sprintf(" AND tipo = $%d", argN))
		args = append(args, string(filter.Type))
		argN++
	}
	if filter.From != nil {
		sb.WriteString(fmt.Sprintf(" AND COALESCE(fin, inicio) >= $%d", argN))
		args = append(args, *filter.From)
		argN++
	}

	sb.WriteString(" ORDER BY inicio ASC")
	sb.WriteString(fmt.Sprintf(" LIMIT $%d", argN))
	args = append(args, capLimit(filter.Limit, events.DefaultLimit, events.MaxLimit))

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]events.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *EventsRepo) Update(ctx context.Context, e events.Event) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE eventos SET
			titulo = $2, descripcion = $3, tipo = $4, lugar = $5,
			inicio = $6, fin = $7, publicado = $8, updated_at = $9
		WHERE id = $1
	`,
		e.ID, e.Title, e.Description, string(e.Type), e.Location,
		e.StartsAt, e.EndsAt, e.Published, e.UpdatedAt,
	)
	return expectOne(res, err)
}

func (r *EventsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM eventos WHERE id = $1`, strings.TrimSpace(id))
	return expectOne(res, err)
}
