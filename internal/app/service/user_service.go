package service

import (
	"context"
	"log"
	"thesis_hub/internal/common"
	"thesis_hub/internal/domain/model"
	"thesis_hub/internal/domain/repository"
)

// UserService manages accounts, the shared role rows and the account-kind
// migration that upgrades plain users to student/supervisor/coordinator
// accounts.
type UserService struct {
	userRepo       repository.UserRepository
	studentRepo    repository.StudentRepository
	supervisorRepo repository.SupervisorRepository
}

func NewUserService(
	userRepo repository.UserRepository,
	studentRepo repository.StudentRepository,
	supervisorRepo repository.SupervisorRepository,
) *UserService {
	return &UserService{
		userRepo:       userRepo,
		studentRepo:    studentRepo,
		supervisorRepo: supervisorRepo,
	}
}

// UserDetails mirrors the original per-user payload: the record plus its
// flattened role names.
type UserDetails struct {
	User  *model.User `json:"user"`
	Roles []string    `json:"roles"`
}

func (s *UserService) FindAll(ctx context.Context) ([]model.User, error) {
	return s.userRepo.FindAll(ctx)
}

func (s *UserService) GetByID(ctx context.Context, id int) (*UserDetails, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, common.Errorf("User not found: %w", common.ErrNotFound)
	}
	return &UserDetails{User: user, Roles: user.RoleNames()}, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.userRepo.FindByEmail(ctx, email)
}

func (s *UserService) Delete(ctx context.Context, id int) error {
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		return common.Errorf("User not found: %w", common.ErrNotFound)
	}
	return s.userRepo.DeleteByID(ctx, id)
}

func (s *UserService) AllSupervisors(ctx context.Context) ([]model.Supervisor, error) {
	return s.supervisorRepo.FindAll(ctx)
}

func (s *UserService) AllStudents(ctx context.Context) ([]model.Student, error) {
	return s.studentRepo.FindAll(ctx)
}

// StudentsWithSupervisors is the coordinator view: every student with their
// confirmed supervisor reference, if any.
func (s *UserService) StudentsWithSupervisors(ctx context.Context) ([]model.Student, error) {
	return s.studentRepo.FindAll(ctx)
}

// RoleMode selects what SetRoles does beyond replacing the role list.
type RoleMode string

const (
	ModeNone        RoleMode = "none"
	ModeStudent     RoleMode = "student"
	ModeSupervisor  RoleMode = "supervisor"
	ModeCoordinator RoleMode = "coordinator"
)

// SetRoles replaces the user's roles with shared role rows (reused by name,
// created when missing). For the migration modes the account is re-created
// under the target kind: identity fields plus the computed role list carry
// over, the old row is deleted and its id stops resolving. Relations owned by
// the old row are not carried; the migration is destructive by contract.
func (s *UserService) SetRoles(ctx context.Context, userID int, roles []model.Role, mode RoleMode) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return common.Errorf("User not found: %w", common.ErrNotFound)
	}

	roleRows := make([]model.RoleRow, 0, len(roles))
	for _, name := range roles {
		if !name.Valid() {
			return common.Errorf("unknown role %q: %w", name, common.ErrBadRequest)
		}
		row, err := s.userRepo.EnsureRole(ctx, name)
		if err != nil {
			return err
		}
		roleRows = append(roleRows, *row)
	}

	switch mode {
	case ModeNone:
		return s.userRepo.UpdateRoles(ctx, user.ID, roleRows)
	case ModeStudent, ModeSupervisor, ModeCoordinator:
		fresh, err := s.userRepo.Migrate(ctx, user.ID, model.AccountKind(mode), roleRows)
		if err != nil {
			return err
		}
		log.Printf("User %d migrated to %s account %d.", user.ID, mode, fresh.ID)
		return nil
	default:
		return common.Errorf("unknown role mode %q: %w", mode, common.ErrBadRequest)
	}
}
