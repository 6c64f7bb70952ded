package inmemdb

import (
	"context"
	"thesis_hub/internal/common"
	"thesis_hub/internal/domain/model"
	"thesis_hub/internal/domain/repository"
)

type submissionRepository struct {
	db *DB
}

func NewSubmissionRepository(db *DB) repository.SubmissionRepository {
	return &submissionRepository{db: db}
}

func (repo *submissionRepository) Create(_ context.Context, sub *model.Submission) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	sub.ID = repo.db.nextID()
	sub.SubmittedAt = now()
	sub.UpdatedAt = sub.SubmittedAt
	stored := *sub
	repo.db.submissions[sub.ID] = &stored
	return nil
}

func (repo *submissionRepository) FindByID(_ context.Context, id int) (*model.Submission, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return repo.db.submissionByIDLocked(id)
}

func (repo *submissionRepository) FindAll(_ context.Context) ([]model.Submission, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var subs []model.Submission
	for _, id := range repo.db.sortedSubmissionIDs() {
		sub, _ := repo.db.submissionByIDLocked(id)
		subs = append(subs, *sub)
	}
	return subs, nil
}

func (repo *submissionRepository) UpdateContent(_ context.Context, sub *model.Submission) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	stored, ok := repo.db.submissions[sub.ID]
	if !ok {
		return common.ErrNotFound
	}
	stored.Title = sub.Title
	stored.Description = sub.Description
	stored.FileName = sub.FileName
	stored.FileType = sub.FileType
	stored.Data = append([]byte(nil), sub.Data...)
	stored.UpdatedAt = now()
	return nil
}

func (repo *submissionRepository) UpdateGrade(_ context.Context, id int, grade model.Grade) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	stored, ok := repo.db.submissions[id]
	if !ok {
		return common.ErrNotFound
	}
	stored.Grade = grade
	stored.UpdatedAt = now()
	return nil
}

func (repo *submissionRepository) DeleteByID(_ context.Context, id int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.submissions[id]; !ok {
		return common.ErrNotFound
	}
	repo.db.deleteSubmissionLocked(id)
	return nil
}

func (repo *submissionRepository) GetFile(_ context.Context, id int) (*model.Submission, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	stored, ok := repo.db.submissions[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &model.Submission{
		ID:       stored.ID,
		FileName: stored.FileName,
		FileType: stored.FileType,
		Data:     append([]byte(nil), stored.Data...),
	}, nil
}

func (repo *submissionRepository) RequestReader(_ context.Context, studentID, submissionID int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	assoc, ok := repo.db.students[studentID]
	if !ok {
		return common.ErrNotFound
	}
	assoc.requestedSubmissionID = intPtr(submissionID)
	return nil
}

func (repo *submissionRepository) ConfirmReader(_ context.Context, studentID, submissionID int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	assoc, ok := repo.db.students[studentID]
	if !ok {
		return common.ErrNotFound
	}
	assoc.confirmedReaderSubmissionID = intPtr(submissionID)
	assoc.requestedSubmissionID = nil
	return nil
}

func (repo *submissionRepository) SetOpponent(_ context.Context, studentID, submissionID int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	assoc, ok := repo.db.students[studentID]
	if !ok {
		return common.ErrNotFound
	}
	assoc.opponentSubmissionID = intPtr(submissionID)
	return nil
}

func (repo *submissionRepository) RemoveOpponent(_ context.Context, studentID int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	assoc, ok := repo.db.students[studentID]
	if !ok {
		return common.ErrNotFound
	}
	assoc.opponentSubmissionID = nil
	return nil
}

func (db *DB) submissionByIDLocked(id int) (*model.Submission, error) {
	stored, ok := db.submissions[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	sub := *stored
	sub.Data = nil
	sub.RequestedReaderIDs = []int{}
	sub.ConfirmedReaderIDs = []int{}
	sub.OpponentIDs = []int{}

	for _, sid := range db.sortedUserIDs() {
		assoc, ok := db.students[sid]
		if !ok {
			continue
		}
		if assoc.requestedSubmissionID != nil && *assoc.requestedSubmissionID == id {
			sub.RequestedReaderIDs = append(sub.RequestedReaderIDs, sid)
		}
		if assoc.confirmedReaderSubmissionID != nil && *assoc.confirmedReaderSubmissionID == id {
			sub.ConfirmedReaderIDs = append(sub.ConfirmedReaderIDs, sid)
		}
		if assoc.opponentSubmissionID != nil && *assoc.opponentSubmissionID == id {
			sub.OpponentIDs = append(sub.OpponentIDs, sid)
		}
	}

	for cID := 1; cID <= db.seq; cID++ {
		if c, ok := db.comments[cID]; ok && c.SubmissionID == id {
			sub.Comments = append(sub.Comments, *c)
		}
	}
	return &sub, nil
}
