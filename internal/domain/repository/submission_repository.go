package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"thesis_hub/internal/common"
	"thesis_hub/internal/domain/model"
)

type SubmissionRepository interface {
	Create(ctx context.Context, sub *model.Submission) error
	FindByID(ctx context.Context, id int) (*model.Submission, error)
	FindAll(ctx context.Context) ([]model.Submission, error)

	// UpdateContent replaces title, description and the uploaded file; grade
	// and stage are never touched by it.
	UpdateContent(ctx context.Context, sub *model.Submission) error
	UpdateGrade(ctx context.Context, id int, grade model.Grade) error
	DeleteByID(ctx context.Context, id int) error

	// GetFile loads the stored upload (name, content type, bytes).
	GetFile(ctx context.Context, id int) (*model.Submission, error)

	// Bidding transitions. Each one is a single atomic move over the
	// student-side pointer; the submission-side reader/opponent lists are
	// views over the same relation and therefore can never disagree.
	RequestReader(ctx context.Context, studentID, submissionID int) error
	ConfirmReader(ctx context.Context, studentID, submissionID int) error
	SetOpponent(ctx context.Context, studentID, submissionID int) error
	RemoveOpponent(ctx context.Context, studentID int) error
}

type pgSubmissionRepository struct {
	db *sql.DB
}

func NewPgSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &pgSubmissionRepository{db: db}
}

func (r *pgSubmissionRepository) Create(ctx context.Context, sub *model.Submission) error {
	query := `INSERT INTO submissions (title, description, file_name, file_type, data, grade, stage, student_id)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, submitted_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		sub.Title, sub.Description, sub.FileName, sub.FileType, sub.Data, sub.Grade, sub.Stage, sub.StudentID).
		Scan(&sub.ID, &sub.SubmittedAt, &sub.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.Create: %w", err)
	}
	return nil
}

const submissionColumns = `id, title, description, file_name, file_type, grade, stage, student_id, submitted_at, updated_at`

func (r *pgSubmissionRepository) FindByID(ctx context.Context, id int) (*model.Submission, error) {
	sub := &model.Submission{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+submissionColumns+` FROM submissions WHERE id = $1`, id).
		Scan(&sub.ID, &sub.Title, &sub.Description, &sub.FileName, &sub.FileType,
			&sub.Grade, &sub.Stage, &sub.StudentID, &sub.SubmittedAt, &sub.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSubmissionRepository.FindByID: %w", err)
	}
	if err := r.loadBidLists(ctx, sub); err != nil {
		return nil, err
	}
	if err := r.loadComments(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *pgSubmissionRepository) FindAll(ctx context.Context) ([]model.Submission, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+submissionColumns+` FROM submissions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.FindAll: %w", err)
	}
	defer rows.Close()

	var subs []model.Submission
	for rows.Next() {
		sub := model.Submission{}
		if err := rows.Scan(&sub.ID, &sub.Title, &sub.Description, &sub.FileName, &sub.FileType,
			&sub.Grade, &sub.Stage, &sub.StudentID, &sub.SubmittedAt, &sub.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository.FindAll: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range subs {
		if err := r.loadBidLists(ctx, &subs[i]); err != nil {
			return nil, err
		}
	}
	return subs, nil
}

func (r *pgSubmissionRepository) UpdateContent(ctx context.Context, sub *model.Submission) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE submissions SET title = $1, description = $2, file_name = $3, file_type = $4, data = $5,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = $6`,
		sub.Title, sub.Description, sub.FileName, sub.FileType, sub.Data, sub.ID)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.UpdateContent: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgSubmissionRepository) UpdateGrade(ctx context.Context, id int, grade model.Grade) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE submissions SET grade = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`, grade, id)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.UpdateGrade: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgSubmissionRepository) DeleteByID(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM submissions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.DeleteByID: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgSubmissionRepository) GetFile(ctx context.Context, id int) (*model.Submission, error) {
	sub := &model.Submission{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, file_name, file_type, data FROM submissions WHERE id = $1`, id).
		Scan(&sub.ID, &sub.FileName, &sub.FileType, &sub.Data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSubmissionRepository.GetFile: %w", err)
	}
	return sub, nil
}

func (r *pgSubmissionRepository) RequestReader(ctx context.Context, studentID, submissionID int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE students SET requested_submission_id = $2 WHERE user_id = $1`, studentID, submissionID)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.RequestReader: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgSubmissionRepository) ConfirmReader(ctx context.Context, studentID, submissionID int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE students SET confirmed_reader_submission_id = $2, requested_submission_id = NULL
		 WHERE user_id = $1`, studentID, submissionID)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.ConfirmReader: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgSubmissionRepository) SetOpponent(ctx context.Context, studentID, submissionID int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE students SET opponent_submission_id = $2 WHERE user_id = $1`, studentID, submissionID)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.SetOpponent: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgSubmissionRepository) RemoveOpponent(ctx context.Context, studentID int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE students SET opponent_submission_id = NULL WHERE user_id = $1`, studentID)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.RemoveOpponent: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgSubmissionRepository) loadBidLists(ctx context.Context, sub *model.Submission) error {
	var err error
	if sub.RequestedReaderIDs, err = r.bidderIDsWhere(ctx, `requested_submission_id`, sub.ID); err != nil {
		return err
	}
	if sub.ConfirmedReaderIDs, err = r.bidderIDsWhere(ctx, `confirmed_reader_submission_id`, sub.ID); err != nil {
		return err
	}
	sub.OpponentIDs, err = r.bidderIDsWhere(ctx, `opponent_submission_id`, sub.ID)
	return err
}

func (r *pgSubmissionRepository) bidderIDsWhere(ctx context.Context, column string, submissionID int) ([]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id FROM students WHERE `+column+` = $1 ORDER BY user_id`, submissionID)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.bidderIDsWhere: %w", err)
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository.bidderIDsWhere: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *pgSubmissionRepository) loadComments(ctx context.Context, sub *model.Submission) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, text, type, author_id, submission_id, created_at, updated_at
		 FROM comments WHERE submission_id = $1 ORDER BY id`, sub.ID)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.loadComments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c := model.Comment{}
		if err := rows.Scan(&c.ID, &c.Text, &c.Type, &c.AuthorID, &c.SubmissionID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return fmt.Errorf("pgSubmissionRepository.loadComments: %w", err)
		}
		sub.Comments = append(sub.Comments, c)
	}
	return rows.Err()
}
