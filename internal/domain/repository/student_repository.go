package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"thesis_hub/internal/common"
	"thesis_hub/internal/domain/model"
)

type StudentRepository interface {
	FindByID(ctx context.Context, id int) (*model.Student, error)
	FindByEmail(ctx context.Context, email string) (*model.Student, error)
	FindAll(ctx context.Context) ([]model.Student, error)
}

type pgStudentRepository struct {
	db *sql.DB
}

func NewPgStudentRepository(db *sql.DB) StudentRepository {
	return &pgStudentRepository{db: db}
}

const studentColumns = `u.id, u.name, u.surname, u.email, u.hashed_password, u.kind, u.created_at, u.updated_at,
	s.supervisor_id, s.requested_supervisor_id, s.requested_submission_id,
	s.confirmed_reader_submission_id, s.opponent_submission_id`

const studentSelect = `SELECT ` + studentColumns + `
	FROM users u JOIN students s ON s.user_id = u.id`

func (r *pgStudentRepository) FindByID(ctx context.Context, id int) (*model.Student, error) {
	st, err := r.scanOne(ctx, r.db.QueryRowContext(ctx, studentSelect+` WHERE u.id = $1`, id))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("pgStudentRepository.FindByID: %w", err)
	}
	return st, nil
}

func (r *pgStudentRepository) FindByEmail(ctx context.Context, email string) (*model.Student, error) {
	st, err := r.scanOne(ctx, r.db.QueryRowContext(ctx, studentSelect+` WHERE u.email = $1`, email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("pgStudentRepository.FindByEmail: %w", err)
	}
	return st, nil
}

func (r *pgStudentRepository) FindAll(ctx context.Context) ([]model.Student, error) {
	rows, err := r.db.QueryContext(ctx, studentSelect+` ORDER BY u.id`)
	if err != nil {
		return nil, fmt.Errorf("pgStudentRepository.FindAll: %w", err)
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		st := model.Student{}
		if err := scanStudentFields(rows, &st); err != nil {
			return nil, fmt.Errorf("pgStudentRepository.FindAll: %w", err)
		}
		students = append(students, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range students {
		if students[i].Submissions, err = r.loadSubmissions(ctx, students[i].ID); err != nil {
			return nil, err
		}
	}
	return students, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanStudentFields(row rowScanner, st *model.Student) error {
	return row.Scan(&st.ID, &st.Name, &st.Surname, &st.Email, &st.HashedPassword,
		&st.Kind, &st.CreatedAt, &st.UpdatedAt,
		&st.SupervisorID, &st.RequestedSupervisorID, &st.RequestedSubmissionID,
		&st.ConfirmedReaderSubmissionID, &st.OpponentSubmissionID)
}

func (r *pgStudentRepository) scanOne(ctx context.Context, row *sql.Row) (*model.Student, error) {
	st := &model.Student{}
	if err := scanStudentFields(row, st); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	var err error
	if st.Submissions, err = r.loadSubmissions(ctx, st.ID); err != nil {
		return nil, err
	}
	return st, nil
}

// loadSubmissions fetches the student's owned submissions without the raw
// file bytes; file content is served by the submission repository on demand.
func (r *pgStudentRepository) loadSubmissions(ctx context.Context, studentID int) ([]*model.Submission, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, description, file_name, file_type, grade, stage, student_id, submitted_at, updated_at
		 FROM submissions WHERE student_id = $1 ORDER BY id`, studentID)
	if err != nil {
		return nil, fmt.Errorf("pgStudentRepository.loadSubmissions: %w", err)
	}
	defer rows.Close()

	var subs []*model.Submission
	for rows.Next() {
		sub := &model.Submission{}
		if err := rows.Scan(&sub.ID, &sub.Title, &sub.Description, &sub.FileName, &sub.FileType,
			&sub.Grade, &sub.Stage, &sub.StudentID, &sub.SubmittedAt, &sub.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pgStudentRepository.loadSubmissions: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
