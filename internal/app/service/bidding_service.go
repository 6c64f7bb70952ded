package service

import (
	"context"
	"errors"
	"log"
	"thesis_hub/internal/common"
	"thesis_hub/internal/domain/repository"
)

// BiddingService runs the reader-request -> reader-confirmation protocol and
// opponent assignment. Each transition moves the student-side pointer and the
// submission-side list together in one atomic repository call.
type BiddingService struct {
	studentRepo    repository.StudentRepository
	submissionRepo repository.SubmissionRepository
}

func NewBiddingService(studentRepo repository.StudentRepository, submissionRepo repository.SubmissionRepository) *BiddingService {
	return &BiddingService{studentRepo: studentRepo, submissionRepo: submissionRepo}
}

// RequestToRead marks the calling student as a requested reader of the
// submission. A missing submission is the caller's mistake, so it surfaces
// as BadRequest rather than NotFound. Repeating an identical request is a
// no-op success.
func (s *BiddingService) RequestToRead(ctx context.Context, studentEmail string, submissionID int) error {
	if _, err := s.submissionRepo.FindByID(ctx, submissionID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.Errorf("Submission not found: %w", common.ErrBadRequest)
		}
		return err
	}

	student, err := s.studentRepo.FindByEmail(ctx, studentEmail)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.Errorf("Student not found: %w", common.ErrBadRequest)
		}
		return err
	}

	if student.RequestedSubmissionID != nil && *student.RequestedSubmissionID == submissionID {
		return nil // already requested this one
	}
	return s.submissionRepo.RequestReader(ctx, student.ID, submissionID)
}

// ConfirmReader performs the atomic request->confirm move: the student ends
// up in the confirmed readers of the submission and out of the requested
// ones, with the forward pointers switched accordingly.
func (s *BiddingService) ConfirmReader(ctx context.Context, studentID, submissionID int) error {
	if _, err := s.studentRepo.FindByID(ctx, studentID); err != nil {
		return common.Errorf("Student or submission not found: %w", common.ErrNotFound)
	}
	if _, err := s.submissionRepo.FindByID(ctx, submissionID); err != nil {
		return common.Errorf("Student or submission not found: %w", common.ErrNotFound)
	}
	if err := s.submissionRepo.ConfirmReader(ctx, studentID, submissionID); err != nil {
		return err
	}
	log.Printf("Student %d confirmed as reader of submission %d.", studentID, submissionID)
	return nil
}

// SetOpponent assigns the student as opponent on the submission. Assigning
// the same pair twice is a no-op success.
func (s *BiddingService) SetOpponent(ctx context.Context, studentID, submissionID int) error {
	student, err := s.studentRepo.FindByID(ctx, studentID)
	if err != nil {
		return common.Errorf("User or submission not found: %w", common.ErrNotFound)
	}
	if _, err := s.submissionRepo.FindByID(ctx, submissionID); err != nil {
		return common.Errorf("User or submission not found: %w", common.ErrNotFound)
	}
	if student.OpponentSubmissionID != nil && *student.OpponentSubmissionID == submissionID {
		return nil
	}
	return s.submissionRepo.SetOpponent(ctx, studentID, submissionID)
}

// RemoveOpponent clears the assignment. Both ids must resolve; a missing
// student or submission is a hard NotFound, never a silent no-op.
func (s *BiddingService) RemoveOpponent(ctx context.Context, studentID, submissionID int) error {
	if _, err := s.studentRepo.FindByID(ctx, studentID); err != nil {
		return common.Errorf("User or submission not found: %w", common.ErrNotFound)
	}
	if _, err := s.submissionRepo.FindByID(ctx, submissionID); err != nil {
		return common.Errorf("User or submission not found: %w", common.ErrNotFound)
	}
	return s.submissionRepo.RemoveOpponent(ctx, studentID)
}
