package service

import (
	"context"
	"thesis_hub/internal/common"
	"thesis_hub/internal/domain/repository"
)

// Supervision request/confirm statuses returned to the caller.
const (
	MsgAlreadySupervised  = "Already have a supervisor"
	MsgAlreadyRequested   = "Already have requested a supervisor"
	MsgSupervisionPending = "Requesting supervision successfully"
	MsgSupervisionDone    = "Supervision confirmed"
)

// SupervisionService binds students to supervisors through a request/confirm
// protocol. Duplicate requests are informational successes, never errors.
type SupervisionService struct {
	studentRepo    repository.StudentRepository
	supervisorRepo repository.SupervisorRepository
}

func NewSupervisionService(studentRepo repository.StudentRepository, supervisorRepo repository.SupervisorRepository) *SupervisionService {
	return &SupervisionService{studentRepo: studentRepo, supervisorRepo: supervisorRepo}
}

// Request files a supervision request. A student with a confirmed supervisor
// or an outstanding request gets the matching informational status back and
// nothing changes, so repeated calls cannot duplicate the supervisor's
// pending list.
func (s *SupervisionService) Request(ctx context.Context, studentID, supervisorID int) (string, error) {
	student, err := s.studentRepo.FindByID(ctx, studentID)
	if err != nil {
		return "", common.Errorf("User not found: %w", common.ErrNotFound)
	}
	if _, err := s.supervisorRepo.FindByID(ctx, supervisorID); err != nil {
		return "", common.Errorf("User not found: %w", common.ErrNotFound)
	}

	if student.SupervisorID != nil {
		return MsgAlreadySupervised, nil
	}
	if student.RequestedSupervisorID != nil {
		return MsgAlreadyRequested, nil
	}

	if err := s.supervisorRepo.RequestSupervision(ctx, studentID, supervisorID); err != nil {
		return "", err
	}
	return MsgSupervisionPending, nil
}

// Confirm finalizes a pending request as one atomic move: the student leaves
// the supervisor's pending list and joins the supervised list, the forward
// pointers switching together.
func (s *SupervisionService) Confirm(ctx context.Context, studentID, supervisorID int) (string, error) {
	if _, err := s.studentRepo.FindByID(ctx, studentID); err != nil {
		return "", common.Errorf("User not found: %w", common.ErrNotFound)
	}
	if _, err := s.supervisorRepo.FindByID(ctx, supervisorID); err != nil {
		return "", common.Errorf("User not found: %w", common.ErrNotFound)
	}
	if err := s.supervisorRepo.ConfirmSupervision(ctx, studentID, supervisorID); err != nil {
		return "", err
	}
	return MsgSupervisionDone, nil
}
