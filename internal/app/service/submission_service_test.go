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

func setupSubmissions(t *testing.T) (*SubmissionService, *inmemdb.DB) {
	t.Helper()
	db := inmemdb.Open()
	svc := NewSubmissionService(
		inmemdb.NewSubmissionRepository(db),
		inmemdb.NewStudentRepository(db),
		nil, // no cache in tests
		"status_board",
		time.Minute,
	)
	return svc, db
}

func createStudent(t *testing.T, db *inmemdb.DB, name, email string) *model.User {
	t.Helper()
	usr := &model.User{
		Name:    name,
		Surname: "Test",
		Email:   email,
		Kind:    model.KindStudent,
	}
	if err := inmemdb.NewUserRepository(db).Create(context.Background(), usr); err != nil {
		t.Fatalf("createStudent() failed: %v", err)
	}
	return usr
}

func submissionReq(stage model.SubmissionStage) CreateSubmissionRequest {
	return CreateSubmissionRequest{
		Title:       "My Thesis",
		Description: "About things",
		Stage:       stage,
		FileName:    "thesis.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.4"),
	}
}

func TestCreateDescription(t *testing.T) {
	svc, db := setupSubmissions(t)
	ctx := context.Background()
	createStudent(t, db, "Ada", "ada@uni.edu")

	sub, err := svc.Create(ctx, "ada@uni.edu", submissionReq(model.StageDescription))
	require.NoError(t, err)
	assert.NotZero(t, sub.ID)
	assert.Equal(t, model.GradePending, sub.Grade)
	assert.Equal(t, model.StageDescription, sub.Stage)
	assert.Equal(t, "thesis.pdf", sub.FileName)
}

func TestCreateNormalizesFileName(t *testing.T) {
	svc, db := setupSubmissions(t)
	ctx := context.Background()
	createStudent(t, db, "Ada", "ada@uni.edu")

	req := submissionReq(model.StageDescription)
	req.FileName = "My Final Thesis (v2).PDF"
	sub, err := svc.Create(ctx, "ada@uni.edu", req)
	require.NoError(t, err)
	assert.Equal(t, "my-final-thesis-v2.pdf", sub.FileName)
}

func TestStageGates(t *testing.T) {
	svc, db := setupSubmissions(t)
	ctx := context.Background()
	createStudent(t, db, "Ada", "ada@uni.edu")

	// PLAN before DESCRIPTION exists
	_, err := svc.Create(ctx, "ada@uni.edu", submissionReq(model.StagePlan))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrBadRequest))
	assert.Contains(t, err.Error(), "Missing description submission")

	desc, err := svc.Create(ctx, "ada@uni.edu", submissionReq(model.StageDescription))
	require.NoError(t, err)

	// DESCRIPTION exists but is ungraded
	_, err = svc.Create(ctx, "ada@uni.edu", submissionReq(model.StagePlan))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrBadRequest))
	assert.Contains(t, err.Error(), "PENDING grade on DESCRIPTION")

	// F is not a passing grade
	require.NoError(t, svc.Grade(ctx, desc.ID, model.GradeF))
	_, err = svc.Create(ctx, "ada@uni.edu", submissionReq(model.StagePlan))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "F grade on DESCRIPTION")

	// C passes
	require.NoError(t, svc.Grade(ctx, desc.ID, model.GradeC))
	plan, err := svc.Create(ctx, "ada@uni.edu", submissionReq(model.StagePlan))
	require.NoError(t, err)

	require.NoError(t, svc.Grade(ctx, plan.ID, model.GradeA))
	report, err := svc.Create(ctx, "ada@uni.edu", submissionReq(model.StageReport))
	require.NoError(t, err)

	// REPORT_FINAL is gated on existence only, not on the REPORT grade
	assert.Equal(t, model.GradePending, report.Grade)
	_, err = svc.Create(ctx, "ada@uni.edu", submissionReq(model.StageReportFinal))
	require.NoError(t, err)
}

func TestCreateDuplicateStage(t *testing.T) {
	svc, db := setupSubmissions(t)
	ctx := context.Background()
	createStudent(t, db, "Ada", "ada@uni.edu")

	_, err := svc.Create(ctx, "ada@uni.edu", submissionReq(model.StageDescription))
	require.NoError(t, err)

	_, err = svc.Create(ctx, "ada@uni.edu", submissionReq(model.StageDescription))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrDuplicateStage))
	assert.Contains(t, err.Error(), "DESCRIPTION already exists")
	assert.Equal(t, 406, common.HTTPStatusFromError(err))
}

func TestCreateRejectsPathTraversal(t *testing.T) {
	svc, db := setupSubmissions(t)
	ctx := context.Background()
	createStudent(t, db, "Ada", "ada@uni.edu")

	_, err := svc.Create(ctx, "ada@uni.edu", submissionReq(model.StageDescription))
	require.NoError(t, err)

	// The filename check fires before the duplicate-stage check.
	req := submissionReq(model.StageDescription)
	req.FileName = "../../etc/passwd"
	_, err = svc.Create(ctx, "ada@uni.edu", req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrFileStorage))
	assert.Contains(t, err.Error(), "Filename contains invalid path sequence")
}

func TestUpdateSubmission(t *testing.T) {
	svc, db := setupSubmissions(t)
	ctx := context.Background()
	createStudent(t, db, "Ada", "ada@uni.edu")
	createStudent(t, db, "Bob", "bob@uni.edu")

	sub, err := svc.Create(ctx, "ada@uni.edu", submissionReq(model.StageDescription))
	require.NoError(t, err)
	require.NoError(t, svc.Grade(ctx, sub.ID, model.GradeB))

	upd := UpdateSubmissionRequest{
		Title:       "Revised Thesis",
		Description: "Sharper scope",
		FileName:    "revised.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.5"),
	}

	// Only the owner may update
	err = svc.Update(ctx, "bob@uni.edu", sub.ID, upd)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrMethodNotAllowed))
	assert.Contains(t, err.Error(), "Not Allowed")

	require.NoError(t, svc.Update(ctx, "ada@uni.edu", sub.ID, upd))
	got, err := svc.FindByID(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, "Revised Thesis", got.Title)
	// updating content never touches the grade
	assert.Equal(t, model.GradeB, got.Grade)
	assert.Equal(t, model.StageDescription, got.Stage)

	err = svc.Update(ctx, "ada@uni.edu", 999, upd)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestRemoveSubmission(t *testing.T) {
	svc, db := setupSubmissions(t)
	ctx := context.Background()
	createStudent(t, db, "Ada", "ada@uni.edu")
	createStudent(t, db, "Bob", "bob@uni.edu")

	sub, err := svc.Create(ctx, "ada@uni.edu", submissionReq(model.StageDescription))
	require.NoError(t, err)

	err = svc.Remove(ctx, "bob@uni.edu", sub.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrMethodNotAllowed))

	require.NoError(t, svc.Remove(ctx, "ada@uni.edu", sub.ID))
	_, err = svc.FindByID(ctx, sub.ID)
	require.Error(t, err)

	// the stage slot is free again
	_, err = svc.Create(ctx, "ada@uni.edu", submissionReq(model.StageDescription))
	require.NoError(t, err)
}

func TestGradeSubmission(t *testing.T) {
	svc, db := setupSubmissions(t)
	ctx := context.Background()
	createStudent(t, db, "Ada", "ada@uni.edu")

	sub, err := svc.Create(ctx, "ada@uni.edu", submissionReq(model.StageDescription))
	require.NoError(t, err)

	err = svc.Grade(ctx, sub.ID, model.Grade("G"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrBadRequest))

	err = svc.Grade(ctx, 999, model.GradeA)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
	assert.Contains(t, err.Error(), "Submission not found")

	require.NoError(t, svc.Grade(ctx, sub.ID, model.GradeA))
	got, err := svc.FindByID(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, model.GradeA, got.Grade)
	// grading never mutates content
	assert.Equal(t, "My Thesis", got.Title)
}

func TestGetFile(t *testing.T) {
	svc, db := setupSubmissions(t)
	ctx := context.Background()
	createStudent(t, db, "Ada", "ada@uni.edu")

	sub, err := svc.Create(ctx, "ada@uni.edu", submissionReq(model.StageDescription))
	require.NoError(t, err)

	file, err := svc.GetFile(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), file.Data)
	assert.Equal(t, "application/pdf", file.FileType)

	_, err = svc.GetFile(ctx, 999)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "File not found")
}

func TestStatusBoard(t *testing.T) {
	svc, db := setupSubmissions(t)
	ctx := context.Background()
	ada := createStudent(t, db, "Ada", "ada@uni.edu")
	bob := createStudent(t, db, "Bob", "bob@uni.edu")

	desc, err := svc.Create(ctx, "ada@uni.edu", submissionReq(model.StageDescription))
	require.NoError(t, err)
	require.NoError(t, svc.Grade(ctx, desc.ID, model.GradeA))
	_, err = svc.Create(ctx, "ada@uni.edu", submissionReq(model.StagePlan))
	require.NoError(t, err)

	rows, err := svc.StatusBoard(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, ada.ID, rows[0].StudentID)
	require.NotNil(t, rows[0].Description)
	assert.Equal(t, model.GradeA, rows[0].Description.Grade)
	assert.NotNil(t, rows[0].Plan)
	assert.Nil(t, rows[0].Report)
	assert.Nil(t, rows[0].ReportFinal)

	// students with no submissions still get a row, all slots null
	assert.Equal(t, bob.ID, rows[1].StudentID)
	assert.Nil(t, rows[1].Description)
	assert.Nil(t, rows[1].Plan)
}

func TestStoredFileName(t *testing.T) {
	assert.Equal(t, "thesis.pdf", storedFileName("thesis.pdf"))
	assert.Equal(t, "my-plan.docx", storedFileName("My Plan.DOCX"))
	assert.Equal(t, ".pdf", storedFileName(".PDF"))
	assert.Equal(t, "report", storedFileName("report"))
}
