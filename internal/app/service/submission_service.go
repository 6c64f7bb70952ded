package service

import (
	"context"
	"encoding/json"
	"log"
	"path/filepath"
	"strings"
	"time"
	"thesis_hub/internal/common"
	"thesis_hub/internal/domain/model"
	"thesis_hub/internal/domain/repository"

	"github.com/gosimple/slug"
	"github.com/redis/go-redis/v9"
)

// SubmissionService enforces the staged submission lifecycle:
// DESCRIPTION -> PLAN -> REPORT -> REPORT_FINAL, where each stage after the
// first is gated on the previous one existing and (except for the final
// stage) carrying a passing grade.
type SubmissionService struct {
	submissionRepo repository.SubmissionRepository
	studentRepo    repository.StudentRepository
	cache          *redis.Client
	cacheKey       string
	cacheTTL       time.Duration
}

func NewSubmissionService(
	subRepo repository.SubmissionRepository,
	studentRepo repository.StudentRepository,
	cache *redis.Client,
	cacheKey string,
	cacheTTL time.Duration,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo: subRepo,
		studentRepo:    studentRepo,
		cache:          cache,
		cacheKey:       cacheKey,
		cacheTTL:       cacheTTL,
	}
}

type CreateSubmissionRequest struct {
	Title       string                `json:"title" validate:"required"`
	Description string                `json:"description" validate:"required"`
	Stage       model.SubmissionStage `json:"type" validate:"required"`
	FileName    string                `json:"file_name"`
	ContentType string                `json:"content_type"`
	Data        []byte                `json:"-"`
}

type UpdateSubmissionRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

func (s *SubmissionService) FindAll(ctx context.Context) ([]model.Submission, error) {
	return s.submissionRepo.FindAll(ctx)
}

func (s *SubmissionService) FindByID(ctx context.Context, id int) (*model.Submission, error) {
	return s.submissionRepo.FindByID(ctx, id)
}

// GetFile returns the stored upload for inline download; NotFound surfaces
// as "File not found".
func (s *SubmissionService) GetFile(ctx context.Context, id int) (*model.Submission, error) {
	sub, err := s.submissionRepo.GetFile(ctx, id)
	if err != nil {
		return nil, common.Errorf("File not found: %w", common.ErrNotFound)
	}
	return sub, nil
}

// Create runs the stage gate, then the filename check, then the
// duplicate-stage check — in that order — before persisting. The ordering of
// the filename check ahead of the duplicate-stage check is part of the
// existing contract.
func (s *SubmissionService) Create(ctx context.Context, studentEmail string, req CreateSubmissionRequest) (*model.Submission, error) {
	if err := common.ValidateStruct(req); err != nil {
		return nil, err
	}
	if !req.Stage.Valid() {
		return nil, common.Errorf("unknown submission type %q: %w", req.Stage, common.ErrBadRequest)
	}

	student, err := s.studentRepo.FindByEmail(ctx, studentEmail)
	if err != nil {
		return nil, err
	}

	if err := checkStageGate(student, req.Stage); err != nil {
		return nil, err
	}

	if strings.Contains(req.FileName, "..") {
		return nil, common.Errorf("Filename contains invalid path sequence %s: %w", req.FileName, common.ErrFileStorage)
	}

	if student.SubmissionByStage(req.Stage) != nil {
		return nil, common.Errorf("%s already exists: %w", req.Stage, common.ErrDuplicateStage)
	}

	sub := &model.Submission{
		Title:       req.Title,
		Description: req.Description,
		FileName:    storedFileName(req.FileName),
		FileType:    req.ContentType,
		Data:        req.Data,
		Grade:       model.GradePending,
		Stage:       req.Stage,
		StudentID:   student.ID,
	}
	if err := s.submissionRepo.Create(ctx, sub); err != nil {
		return nil, err
	}
	s.invalidateStatusBoard(ctx)
	log.Printf("Submission %d (%s) created for student %d.", sub.ID, sub.Stage, student.ID)
	return sub, nil
}

// checkStageGate validates the ordered stage precondition for the stage being
// created. REPORT_FINAL only needs a REPORT to exist; the earlier gates also
// demand a passing grade.
func checkStageGate(student *model.Student, stage model.SubmissionStage) error {
	var required model.SubmissionStage
	var gradeChecked bool

	switch stage {
	case model.StagePlan:
		required, gradeChecked = model.StageDescription, true
	case model.StageReport:
		required, gradeChecked = model.StagePlan, true
	case model.StageReportFinal:
		required, gradeChecked = model.StageReport, false
	default:
		return nil // DESCRIPTION has no gate
	}

	prev := student.SubmissionByStage(required)
	if prev == nil {
		return common.Errorf("Missing %s submission: %w", strings.ToLower(string(required)), common.ErrBadRequest)
	}
	if gradeChecked && !prev.Grade.Passing() {
		return common.Errorf("%s grade on %s: %w", prev.Grade, prev.Stage, common.ErrBadRequest)
	}
	return nil
}

// Update replaces content fields only; grade and stage are never altered
// here.
func (s *SubmissionService) Update(ctx context.Context, studentEmail string, id int, req UpdateSubmissionRequest) error {
	if err := common.ValidateStruct(req); err != nil {
		return err
	}

	sub, err := s.submissionRepo.FindByID(ctx, id)
	if err != nil {
		return common.Errorf("Submission not found: %w", common.ErrNotFound)
	}

	if strings.Contains(req.FileName, "..") {
		return common.Errorf("Filename contains invalid path sequence %s: %w", req.FileName, common.ErrFileStorage)
	}

	student, err := s.studentRepo.FindByEmail(ctx, studentEmail)
	if err != nil {
		return err
	}
	if sub.StudentID != student.ID {
		return common.Errorf("Not Allowed: %w", common.ErrMethodNotAllowed)
	}

	sub.Title = req.Title
	sub.Description = req.Description
	sub.FileName = storedFileName(req.FileName)
	sub.FileType = req.ContentType
	sub.Data = req.Data
	if err := s.submissionRepo.UpdateContent(ctx, sub); err != nil {
		return err
	}
	s.invalidateStatusBoard(ctx)
	return nil
}

// Remove deletes the caller's submission; the owning student's list shrinks
// with it.
func (s *SubmissionService) Remove(ctx context.Context, studentEmail string, id int) error {
	sub, err := s.submissionRepo.FindByID(ctx, id)
	if err != nil {
		return common.Errorf("Submission not found: %w", common.ErrNotFound)
	}
	student, err := s.studentRepo.FindByEmail(ctx, studentEmail)
	if err != nil {
		return err
	}
	if sub.StudentID != student.ID {
		return common.Errorf("Not Allowed: %w", common.ErrMethodNotAllowed)
	}
	if err := s.submissionRepo.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.invalidateStatusBoard(ctx)
	return nil
}

// Grade overwrites the grade field only.
func (s *SubmissionService) Grade(ctx context.Context, id int, grade model.Grade) error {
	if !grade.Valid() {
		return common.Errorf("unknown grade %q: %w", grade, common.ErrBadRequest)
	}
	if _, err := s.submissionRepo.FindByID(ctx, id); err != nil {
		return common.Errorf("Submission not found: %w", common.ErrNotFound)
	}
	if err := s.submissionRepo.UpdateGrade(ctx, id, grade); err != nil {
		return err
	}
	s.invalidateStatusBoard(ctx)
	return nil
}

// StatusBoard produces one row per student, in persistence-iteration order,
// mapping each stage slot to the occupying submission or null. The board is
// cached in redis and invalidated by every submission write.
func (s *SubmissionService) StatusBoard(ctx context.Context) ([]model.StatusRow, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, s.cacheKey).Bytes(); err == nil {
			var rows []model.StatusRow
			if err := json.Unmarshal(cached, &rows); err == nil {
				return rows, nil
			}
		}
	}

	students, err := s.studentRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]model.StatusRow, 0, len(students))
	for i := range students {
		st := &students[i]
		rows = append(rows, model.StatusRow{
			StudentID:   st.ID,
			Description: st.SubmissionByStage(model.StageDescription),
			Plan:        st.SubmissionByStage(model.StagePlan),
			Report:      st.SubmissionByStage(model.StageReport),
			ReportFinal: st.SubmissionByStage(model.StageReportFinal),
		})
	}

	if s.cache != nil {
		if data, err := json.Marshal(rows); err == nil {
			if err := s.cache.Set(ctx, s.cacheKey, data, s.cacheTTL).Err(); err != nil {
				log.Printf("status board cache set failed: %v", err)
			}
		}
	}
	return rows, nil
}

func (s *SubmissionService) invalidateStatusBoard(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, s.cacheKey).Err(); err != nil {
		log.Printf("status board cache invalidation failed: %v", err)
	}
}

// storedFileName normalizes the uploaded name: the base is slugified, the
// extension kept lowercase.
func storedFileName(name string) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(filepath.Base(name), ext)
	if base == "" || base == "." {
		return strings.ToLower(ext)
	}
	return slug.Make(base) + strings.ToLower(ext)
}
