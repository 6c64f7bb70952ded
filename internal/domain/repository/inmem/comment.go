package inmemdb

import (
	"context"
	"thesis_hub/internal/common"
	"thesis_hub/internal/domain/model"
	"thesis_hub/internal/domain/repository"
)

type commentRepository struct {
	db *DB
}

func NewCommentRepository(db *DB) repository.CommentRepository {
	return &commentRepository{db: db}
}

func (repo *commentRepository) Create(_ context.Context, c *model.Comment) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	c.ID = repo.db.nextID()
	c.CreatedAt = now()
	c.UpdatedAt = c.CreatedAt
	stored := *c
	repo.db.comments[c.ID] = &stored
	return nil
}

func (repo *commentRepository) FindByID(_ context.Context, id int) (*model.Comment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	stored, ok := repo.db.comments[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	c := *stored
	return &c, nil
}

func (repo *commentRepository) Update(_ context.Context, c *model.Comment) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	stored, ok := repo.db.comments[c.ID]
	if !ok {
		return common.ErrNotFound
	}
	stored.Text = c.Text
	stored.Type = c.Type
	stored.UpdatedAt = now()
	return nil
}

func (repo *commentRepository) DeleteByID(_ context.Context, id int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.comments[id]; !ok {
		return common.ErrNotFound
	}
	delete(repo.db.comments, id)
	return nil
}
