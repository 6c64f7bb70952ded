package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"thesis_hub/internal/common"
	"thesis_hub/internal/domain/model"
)

type CalendarRepository interface {
	Create(ctx context.Context, event *model.CalendarEvent) error
	FindByID(ctx context.Context, id int) (*model.CalendarEvent, error)
	FindAll(ctx context.Context) ([]model.CalendarEvent, error)
	Update(ctx context.Context, event *model.CalendarEvent) error
	DeleteByID(ctx context.Context, id int) error
}

type pgCalendarRepository struct {
	db *sql.DB
}

func NewPgCalendarRepository(db *sql.DB) CalendarRepository {
	return &pgCalendarRepository{db: db}
}

func (r *pgCalendarRepository) Create(ctx context.Context, e *model.CalendarEvent) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO calendar_events (created_at, expires_at, title, description)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		e.CreatedAt, e.ExpiresAt, e.Title, e.Description).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("pgCalendarRepository.Create: %w", err)
	}
	return nil
}

func (r *pgCalendarRepository) FindByID(ctx context.Context, id int) (*model.CalendarEvent, error) {
	e := &model.CalendarEvent{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, created_at, expires_at, title, description FROM calendar_events WHERE id = $1`, id).
		Scan(&e.ID, &e.CreatedAt, &e.ExpiresAt, &e.Title, &e.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgCalendarRepository.FindByID: %w", err)
	}
	return e, nil
}

func (r *pgCalendarRepository) FindAll(ctx context.Context) ([]model.CalendarEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, created_at, expires_at, title, description FROM calendar_events ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("pgCalendarRepository.FindAll: %w", err)
	}
	defer rows.Close()

	var events []model.CalendarEvent
	for rows.Next() {
		e := model.CalendarEvent{}
		if err := rows.Scan(&e.ID, &e.CreatedAt, &e.ExpiresAt, &e.Title, &e.Description); err != nil {
			return nil, fmt.Errorf("pgCalendarRepository.FindAll: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *pgCalendarRepository) Update(ctx context.Context, e *model.CalendarEvent) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE calendar_events SET created_at = $1, expires_at = $2, title = $3, description = $4
		 WHERE id = $5`,
		e.CreatedAt, e.ExpiresAt, e.Title, e.Description, e.ID)
	if err != nil {
		return fmt.Errorf("pgCalendarRepository.Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgCalendarRepository) DeleteByID(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM calendar_events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgCalendarRepository.DeleteByID: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}
