package model

import "time"

type CommentType string

const (
	CommentGeneral  CommentType = "GENERAL"
	CommentFeedback CommentType = "FEEDBACK"
	CommentReview   CommentType = "REVIEW"
)

type Comment struct {
	ID           int         `json:"id"`
	Text         string      `json:"text"`
	Type         CommentType `json:"type"`
	AuthorID     int         `json:"author_id"`
	SubmissionID int         `json:"submission_id"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
