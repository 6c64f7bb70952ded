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

func setupUsers(t *testing.T) (*UserService, *inmemdb.DB) {
	t.Helper()
	db := inmemdb.Open()
	svc := NewUserService(
		inmemdb.NewUserRepository(db),
		inmemdb.NewStudentRepository(db),
		inmemdb.NewSupervisorRepository(db),
	)
	return svc, db
}

func TestGetByID(t *testing.T) {
	svc, db := setupUsers(t)
	ctx := context.Background()
	usr := createStudent(t, db, "Ada", "ada@uni.edu")

	details, err := svc.GetByID(ctx, usr.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@uni.edu", details.User.Email)

	_, err = svc.GetByID(ctx, 999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
	assert.Contains(t, err.Error(), "User not found")
}

func TestDeleteUser(t *testing.T) {
	svc, db := setupUsers(t)
	ctx := context.Background()
	usr := createStudent(t, db, "Ada", "ada@uni.edu")

	require.NoError(t, svc.Delete(ctx, usr.ID))
	_, err := svc.GetByID(ctx, usr.ID)
	require.Error(t, err)

	err = svc.Delete(ctx, usr.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestDeleteStudentCascades(t *testing.T) {
	svc, db := setupUsers(t)
	ctx := context.Background()
	usr := createStudent(t, db, "Ada", "ada@uni.edu")

	subRepo := inmemdb.NewSubmissionRepository(db)
	submissions := NewSubmissionService(subRepo, inmemdb.NewStudentRepository(db), nil, "status_board", time.Minute)
	sub, err := submissions.Create(ctx, "ada@uni.edu", submissionReq(model.StageDescription))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, usr.ID))
	_, err = subRepo.FindByID(ctx, sub.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestSetRolesInPlace(t *testing.T) {
	svc, db := setupUsers(t)
	ctx := context.Background()
	usr := createStudent(t, db, "Ada", "ada@uni.edu")

	err := svc.SetRoles(ctx, usr.ID, []model.Role{model.RoleStudent, model.RoleReader}, ModeNone)
	require.NoError(t, err)

	details, err := svc.GetByID(ctx, usr.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"STUDENT", "READER"}, details.Roles)
	// same id, same account: in-place mode never migrates
	assert.Equal(t, usr.ID, details.User.ID)
}

func TestSetRolesRejectsUnknownRole(t *testing.T) {
	svc, db := setupUsers(t)
	ctx := context.Background()
	usr := createStudent(t, db, "Ada", "ada@uni.edu")

	err := svc.SetRoles(ctx, usr.ID, []model.Role{"WIZARD"}, ModeNone)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrBadRequest))
}

func TestRoleRowsAreShared(t *testing.T) {
	svc, db := setupUsers(t)
	ctx := context.Background()
	ada := createStudent(t, db, "Ada", "ada@uni.edu")
	bob := createStudent(t, db, "Bob", "bob@uni.edu")

	require.NoError(t, svc.SetRoles(ctx, ada.ID, []model.Role{model.RoleStudent}, ModeNone))
	require.NoError(t, svc.SetRoles(ctx, bob.ID, []model.Role{model.RoleStudent}, ModeNone))

	adaDetails, err := svc.GetByID(ctx, ada.ID)
	require.NoError(t, err)
	bobDetails, err := svc.GetByID(ctx, bob.ID)
	require.NoError(t, err)
	// one role row per name, shared across users
	assert.Equal(t, adaDetails.User.Roles[0].ID, bobDetails.User.Roles[0].ID)
}

func TestMigrateToStudent(t *testing.T) {
	svc, db := setupUsers(t)
	ctx := context.Background()

	userRepo := inmemdb.NewUserRepository(db)
	plain := &model.User{Name: "Eve", Surname: "Test", Email: "eve@uni.edu", Kind: model.KindUser}
	require.NoError(t, userRepo.Create(ctx, plain))
	oldID := plain.ID

	err := svc.SetRoles(ctx, oldID, []model.Role{model.RoleStudent}, ModeStudent)
	require.NoError(t, err)

	// the old row is gone
	_, err = svc.GetByID(ctx, oldID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))

	// the account carries over under a fresh id and the target kind
	fresh, err := svc.GetByEmail(ctx, "eve@uni.edu")
	require.NoError(t, err)
	assert.NotEqual(t, oldID, fresh.ID)
	assert.Equal(t, model.KindStudent, fresh.Kind)
	assert.Equal(t, "Eve", fresh.Name)
	assert.Equal(t, []string{"STUDENT"}, fresh.RoleNames())

	// and now resolves as a student
	st, err := inmemdb.NewStudentRepository(db).FindByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Nil(t, st.SupervisorID)
}

func TestMigrateUnknownMode(t *testing.T) {
	svc, db := setupUsers(t)
	ctx := context.Background()
	usr := createStudent(t, db, "Ada", "ada@uni.edu")

	err := svc.SetRoles(ctx, usr.ID, []model.Role{model.RoleStudent}, RoleMode("janitor"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrBadRequest))
}

func TestListings(t *testing.T) {
	svc, db := setupUsers(t)
	ctx := context.Background()
	createStudent(t, db, "Ada", "ada@uni.edu")
	createStudent(t, db, "Bob", "bob@uni.edu")
	createSupervisor(t, db, "Grace", "grace@uni.edu")

	users, err := svc.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)

	students, err := svc.AllStudents(ctx)
	require.NoError(t, err)
	assert.Len(t, students, 2)

	sups, err := svc.AllSupervisors(ctx)
	require.NoError(t, err)
	assert.Len(t, sups, 1)
	assert.Equal(t, "grace@uni.edu", sups[0].Email)
}
