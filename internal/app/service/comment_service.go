package service

import (
	"context"
	"thesis_hub/internal/common"
	"thesis_hub/internal/domain/model"
	"thesis_hub/internal/domain/repository"
)

type CommentService struct {
	commentRepo    repository.CommentRepository
	submissionRepo repository.SubmissionRepository
	userRepo       repository.UserRepository
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	submissionRepo repository.SubmissionRepository,
	userRepo repository.UserRepository,
) *CommentService {
	return &CommentService{
		commentRepo:    commentRepo,
		submissionRepo: submissionRepo,
		userRepo:       userRepo,
	}
}

type CommentRequest struct {
	Text string            `json:"text" validate:"required"`
	Type model.CommentType `json:"type" validate:"required"`
}

func (s *CommentService) Get(ctx context.Context, id int) (*model.Comment, error) {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, common.Errorf("Comment not found: %w", common.ErrNotFound)
	}
	return comment, nil
}

func (s *CommentService) Delete(ctx context.Context, id int) error {
	if _, err := s.commentRepo.FindByID(ctx, id); err != nil {
		return common.Errorf("Comment not found: %w", common.ErrNotFound)
	}
	return s.commentRepo.DeleteByID(ctx, id)
}

// Post attaches a comment to the submission, authored by the caller.
func (s *CommentService) Post(ctx context.Context, authorEmail string, submissionID int, req CommentRequest) (*model.Comment, error) {
	if err := common.ValidateStruct(req); err != nil {
		return nil, err
	}
	if _, err := s.submissionRepo.FindByID(ctx, submissionID); err != nil {
		return nil, common.Errorf("Submission not found: %w", common.ErrNotFound)
	}
	author, err := s.userRepo.FindByEmail(ctx, authorEmail)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		Text:         req.Text,
		Type:         req.Type,
		AuthorID:     author.ID,
		SubmissionID: submissionID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Update rewrites text and type; only the author may update their comment.
func (s *CommentService) Update(ctx context.Context, authorEmail string, id int, req CommentRequest) error {
	if err := common.ValidateStruct(req); err != nil {
		return err
	}
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		return common.Errorf("Comment not found: %w", common.ErrNotFound)
	}
	author, err := s.userRepo.FindByEmail(ctx, authorEmail)
	if err != nil {
		return err
	}
	if comment.AuthorID != author.ID {
		return common.Errorf("Not your comment: %w", common.ErrMethodNotAllowed)
	}

	comment.Text = req.Text
	comment.Type = req.Type
	return s.commentRepo.Update(ctx, comment)
}
