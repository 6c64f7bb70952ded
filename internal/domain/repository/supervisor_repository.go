package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"thesis_hub/internal/common"
	"thesis_hub/internal/domain/model"
)

type SupervisorRepository interface {
	FindByID(ctx context.Context, id int) (*model.Supervisor, error)
	FindAll(ctx context.Context) ([]model.Supervisor, error)

	// RequestSupervision records the student's pending request. The reverse
	// list on the supervisor is a view over the same relation, so the single
	// statement keeps both access paths consistent.
	RequestSupervision(ctx context.Context, studentID, supervisorID int) error

	// ConfirmSupervision atomically clears the pending request and installs
	// the confirmed supervisor.
	ConfirmSupervision(ctx context.Context, studentID, supervisorID int) error
}

type pgSupervisorRepository struct {
	db *sql.DB
}

func NewPgSupervisorRepository(db *sql.DB) SupervisorRepository {
	return &pgSupervisorRepository{db: db}
}

func (r *pgSupervisorRepository) FindByID(ctx context.Context, id int) (*model.Supervisor, error) {
	sup := &model.Supervisor{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1 AND kind = $2`, id, model.KindSupervisor).
		Scan(&sup.ID, &sup.Name, &sup.Surname, &sup.Email, &sup.HashedPassword,
			&sup.Kind, &sup.CreatedAt, &sup.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSupervisorRepository.FindByID: %w", err)
	}
	if err := r.loadStudentLists(ctx, sup); err != nil {
		return nil, err
	}
	return sup, nil
}

func (r *pgSupervisorRepository) FindAll(ctx context.Context) ([]model.Supervisor, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE kind = $1 ORDER BY id`, model.KindSupervisor)
	if err != nil {
		return nil, fmt.Errorf("pgSupervisorRepository.FindAll: %w", err)
	}
	defer rows.Close()

	var sups []model.Supervisor
	for rows.Next() {
		sup := model.Supervisor{}
		if err := rows.Scan(&sup.ID, &sup.Name, &sup.Surname, &sup.Email, &sup.HashedPassword,
			&sup.Kind, &sup.CreatedAt, &sup.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pgSupervisorRepository.FindAll: %w", err)
		}
		sups = append(sups, sup)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range sups {
		if err := r.loadStudentLists(ctx, &sups[i]); err != nil {
			return nil, err
		}
	}
	return sups, nil
}

func (r *pgSupervisorRepository) RequestSupervision(ctx context.Context, studentID, supervisorID int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE students SET requested_supervisor_id = $2 WHERE user_id = $1`, studentID, supervisorID)
	if err != nil {
		return fmt.Errorf("pgSupervisorRepository.RequestSupervision: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgSupervisorRepository) ConfirmSupervision(ctx context.Context, studentID, supervisorID int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE students SET requested_supervisor_id = NULL, supervisor_id = $2 WHERE user_id = $1`,
		studentID, supervisorID)
	if err != nil {
		return fmt.Errorf("pgSupervisorRepository.ConfirmSupervision: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgSupervisorRepository) loadStudentLists(ctx context.Context, sup *model.Supervisor) error {
	var err error
	if sup.StudentIDs, err = r.studentIDsWhere(ctx, `supervisor_id`, sup.ID); err != nil {
		return err
	}
	sup.RequestingStudentIDs, err = r.studentIDsWhere(ctx, `requested_supervisor_id`, sup.ID)
	return err
}

func (r *pgSupervisorRepository) studentIDsWhere(ctx context.Context, column string, supervisorID int) ([]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id FROM students WHERE `+column+` = $1 ORDER BY user_id`, supervisorID)
	if err != nil {
		return nil, fmt.Errorf("pgSupervisorRepository.studentIDsWhere: %w", err)
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("pgSupervisorRepository.studentIDsWhere: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
