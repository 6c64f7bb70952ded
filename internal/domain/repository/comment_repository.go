package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"thesis_hub/internal/common"
	"thesis_hub/internal/domain/model"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, id int) (*model.Comment, error)
	Update(ctx context.Context, comment *model.Comment) error
	DeleteByID(ctx context.Context, id int) error
}

type pgCommentRepository struct {
	db *sql.DB
}

func NewPgCommentRepository(db *sql.DB) CommentRepository {
	return &pgCommentRepository{db: db}
}

func (r *pgCommentRepository) Create(ctx context.Context, c *model.Comment) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO comments (text, type, author_id, submission_id)
		 VALUES ($1, $2, $3, $4) RETURNING id, created_at, updated_at`,
		c.Text, c.Type, c.AuthorID, c.SubmissionID).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pgCommentRepository.Create: %w", err)
	}
	return nil
}

func (r *pgCommentRepository) FindByID(ctx context.Context, id int) (*model.Comment, error) {
	c := &model.Comment{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, text, type, author_id, submission_id, created_at, updated_at
		 FROM comments WHERE id = $1`, id).
		Scan(&c.ID, &c.Text, &c.Type, &c.AuthorID, &c.SubmissionID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgCommentRepository.FindByID: %w", err)
	}
	return c, nil
}

func (r *pgCommentRepository) Update(ctx context.Context, c *model.Comment) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE comments SET text = $1, type = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $3`,
		c.Text, c.Type, c.ID)
	if err != nil {
		return fmt.Errorf("pgCommentRepository.Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgCommentRepository) DeleteByID(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgCommentRepository.DeleteByID: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}
