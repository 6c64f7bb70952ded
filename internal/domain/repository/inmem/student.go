package inmemdb

import (
	"context"
	"thesis_hub/internal/common"
	"thesis_hub/internal/domain/model"
	"thesis_hub/internal/domain/repository"
)

type studentRepository struct {
	db *DB
}

func NewStudentRepository(db *DB) repository.StudentRepository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) FindByID(_ context.Context, id int) (*model.Student, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return repo.db.studentByIDLocked(id)
}

func (repo *studentRepository) FindByEmail(_ context.Context, email string) (*model.Student, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for id, u := range repo.db.users {
		if u.Email == email {
			return repo.db.studentByIDLocked(id)
		}
	}
	return nil, common.ErrNotFound
}

func (repo *studentRepository) FindAll(_ context.Context) ([]model.Student, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var students []model.Student
	for _, id := range repo.db.sortedUserIDs() {
		if _, ok := repo.db.students[id]; !ok {
			continue
		}
		st, _ := repo.db.studentByIDLocked(id)
		students = append(students, *st)
	}
	return students, nil
}

func (db *DB) studentByIDLocked(id int) (*model.Student, error) {
	u, ok := db.users[id]
	assoc, isStudent := db.students[id]
	if !ok || !isStudent {
		return nil, common.ErrNotFound
	}

	st := &model.Student{User: *u}
	st.Roles = append([]model.RoleRow(nil), db.userRoles[id]...)
	st.SupervisorID = copyIntPtr(assoc.supervisorID)
	st.RequestedSupervisorID = copyIntPtr(assoc.requestedSupervisorID)
	st.RequestedSubmissionID = copyIntPtr(assoc.requestedSubmissionID)
	st.ConfirmedReaderSubmissionID = copyIntPtr(assoc.confirmedReaderSubmissionID)
	st.OpponentSubmissionID = copyIntPtr(assoc.opponentSubmissionID)

	for _, subID := range db.sortedSubmissionIDs() {
		if db.submissions[subID].StudentID == id {
			sub := *db.submissions[subID]
			sub.Data = nil // file bytes are served on demand
			st.Submissions = append(st.Submissions, &sub)
		}
	}
	return st, nil
}

func copyIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
