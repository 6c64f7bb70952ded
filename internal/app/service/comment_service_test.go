package service

import (
	"context"
	"errors"
	"testing"
	"time"
	"thesis_hub/internal/common"
	"thesis_hub/internal/domain/model"
	inmemdb "thesis_hub/internal/domain/repository/inmem"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupComments(t *testing.T) (*CommentService, *SubmissionService, *inmemdb.DB) {
	t.Helper()
	db := inmemdb.Open()
	subRepo := inmemdb.NewSubmissionRepository(db)
	comments := NewCommentService(
		inmemdb.NewCommentRepository(db),
		subRepo,
		inmemdb.NewUserRepository(db),
	)
	submissions := NewSubmissionService(subRepo, inmemdb.NewStudentRepository(db), nil, "status_board", time.Minute)
	return comments, submissions, db
}

func TestPostComment(t *testing.T) {
	comments, submissions, db := setupComments(t)
	ctx := context.Background()
	createStudent(t, db, "Ada", "ada@uni.edu")
	reviewer := createSupervisor(t, db, "Grace", "grace@uni.edu")
	sub := seedSubmission(t, submissions, "ada@uni.edu")

	c, err := comments.Post(ctx, "grace@uni.edu", sub.ID, CommentRequest{
		Text: "Tighten the scope.",
		Type: model.CommentFeedback,
	})
	require.NoError(t, err)
	assert.Equal(t, reviewer.ID, c.AuthorID)
	assert.Equal(t, sub.ID, c.SubmissionID)

	got, err := submissions.FindByID(ctx, sub.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "Tighten the scope.", got.Comments[0].Text)
}

func TestPostCommentMissingSubmission(t *testing.T) {
	comments, _, db := setupComments(t)
	ctx := context.Background()
	createSupervisor(t, db, "Grace", "grace@uni.edu")

	_, err := comments.Post(ctx, "grace@uni.edu", 999, CommentRequest{
		Text: "ghost",
		Type: model.CommentGeneral,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
	assert.Contains(t, err.Error(), "Submission not found")
}

func TestUpdateCommentOwnership(t *testing.T) {
	comments, submissions, db := setupComments(t)
	ctx := context.Background()
	createStudent(t, db, "Ada", "ada@uni.edu")
	createSupervisor(t, db, "Grace", "grace@uni.edu")
	createSupervisor(t, db, "Alan", "alan@uni.edu")
	sub := seedSubmission(t, submissions, "ada@uni.edu")

	c, err := comments.Post(ctx, "grace@uni.edu", sub.ID, CommentRequest{
		Text: "First pass.",
		Type: model.CommentReview,
	})
	require.NoError(t, err)

	err = comments.Update(ctx, "alan@uni.edu", c.ID, CommentRequest{
		Text: "hijacked",
		Type: model.CommentReview,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrMethodNotAllowed))
	assert.Contains(t, err.Error(), "Not your comment")

	require.NoError(t, comments.Update(ctx, "grace@uni.edu", c.ID, CommentRequest{
		Text: "Second pass.",
		Type: model.CommentReview,
	}))
	got, err := comments.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Second pass.", got.Text)
}

func TestDeleteComment(t *testing.T) {
	comments, submissions, db := setupComments(t)
	ctx := context.Background()
	createStudent(t, db, "Ada", "ada@uni.edu")
	createSupervisor(t, db, "Grace", "grace@uni.edu")
	sub := seedSubmission(t, submissions, "ada@uni.edu")

	c, err := comments.Post(ctx, "grace@uni.edu", sub.ID, CommentRequest{
		Text: "temp",
		Type: model.CommentGeneral,
	})
	require.NoError(t, err)

	require.NoError(t, comments.Delete(ctx, c.ID))
	_, err = comments.Get(ctx, c.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
	assert.Contains(t, err.Error(), "Comment not found")
}
