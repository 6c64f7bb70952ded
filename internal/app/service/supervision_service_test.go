package service

import (
	"context"
	"errors"
	"testing"
	"thesis_hub/internal/common"
	"thesis_hub/internal/domain/model"
	inmemdb "thesis_hub/internal/domain/repository/inmem"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSupervision(t *testing.T) (*SupervisionService, *inmemdb.DB) {
	t.Helper()
	db := inmemdb.Open()
	svc := NewSupervisionService(
		inmemdb.NewStudentRepository(db),
		inmemdb.NewSupervisorRepository(db),
	)
	return svc, db
}

func createSupervisor(t *testing.T, db *inmemdb.DB, name, email string) *model.User {
	t.Helper()
	usr := &model.User{
		Name:    name,
		Surname: "Test",
		Email:   email,
		Kind:    model.KindSupervisor,
	}
	if err := inmemdb.NewUserRepository(db).Create(context.Background(), usr); err != nil {
		t.Fatalf("createSupervisor() failed: %v", err)
	}
	return usr
}

func TestSupervisionRequestConfirm(t *testing.T) {
	svc, db := setupSupervision(t)
	ctx := context.Background()
	student := createStudent(t, db, "Ada", "ada@uni.edu")
	supervisor := createSupervisor(t, db, "Grace", "grace@uni.edu")

	msg, err := svc.Request(ctx, student.ID, supervisor.ID)
	require.NoError(t, err)
	assert.Equal(t, MsgSupervisionPending, msg)

	// the request is visible from the supervisor's side
	supRepo := inmemdb.NewSupervisorRepository(db)
	sup, err := supRepo.FindByID(ctx, supervisor.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{student.ID}, sup.RequestingStudentIDs)
	assert.Empty(t, sup.StudentIDs)

	// a second request is an informational status, not an error
	msg, err = svc.Request(ctx, student.ID, supervisor.ID)
	require.NoError(t, err)
	assert.Equal(t, MsgAlreadyRequested, msg)
	sup, err = supRepo.FindByID(ctx, supervisor.ID)
	require.NoError(t, err)
	assert.Len(t, sup.RequestingStudentIDs, 1)

	msg, err = svc.Confirm(ctx, student.ID, supervisor.ID)
	require.NoError(t, err)
	assert.Equal(t, MsgSupervisionDone, msg)

	// confirm moves the student out of pending in the same step
	sup, err = supRepo.FindByID(ctx, supervisor.ID)
	require.NoError(t, err)
	assert.Empty(t, sup.RequestingStudentIDs)
	assert.Equal(t, []int{student.ID}, sup.StudentIDs)

	st, err := inmemdb.NewStudentRepository(db).FindByID(ctx, student.ID)
	require.NoError(t, err)
	assert.Nil(t, st.RequestedSupervisorID)
	require.NotNil(t, st.SupervisorID)
	assert.Equal(t, supervisor.ID, *st.SupervisorID)

	// once supervised, further requests report that
	msg, err = svc.Request(ctx, student.ID, supervisor.ID)
	require.NoError(t, err)
	assert.Equal(t, MsgAlreadySupervised, msg)
}

func TestSupervisionUnknownParties(t *testing.T) {
	svc, db := setupSupervision(t)
	ctx := context.Background()
	student := createStudent(t, db, "Ada", "ada@uni.edu")
	supervisor := createSupervisor(t, db, "Grace", "grace@uni.edu")

	_, err := svc.Request(ctx, 999, supervisor.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
	assert.Contains(t, err.Error(), "User not found")

	_, err = svc.Request(ctx, student.ID, 999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))

	_, err = svc.Confirm(ctx, 999, supervisor.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))

	// a plain user id is not a supervisor id
	plain := &model.User{Name: "Eve", Surname: "Test", Email: "eve@uni.edu", Kind: model.KindUser}
	require.NoError(t, inmemdb.NewUserRepository(db).Create(ctx, plain))
	_, err = svc.Request(ctx, student.ID, plain.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}
