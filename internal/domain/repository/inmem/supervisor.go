package inmemdb

import (
	"context"
	"thesis_hub/internal/common"
	"thesis_hub/internal/domain/model"
	"thesis_hub/internal/domain/repository"
)

type supervisorRepository struct {
	db *DB
}

func NewSupervisorRepository(db *DB) repository.SupervisorRepository {
	return &supervisorRepository{db: db}
}

func (repo *supervisorRepository) FindByID(_ context.Context, id int) (*model.Supervisor, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return repo.db.supervisorByIDLocked(id)
}

func (repo *supervisorRepository) FindAll(_ context.Context) ([]model.Supervisor, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var sups []model.Supervisor
	for _, id := range repo.db.sortedUserIDs() {
		if repo.db.users[id].Kind != model.KindSupervisor {
			continue
		}
		sup, _ := repo.db.supervisorByIDLocked(id)
		sups = append(sups, *sup)
	}
	return sups, nil
}

func (repo *supervisorRepository) RequestSupervision(_ context.Context, studentID, supervisorID int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	assoc, ok := repo.db.students[studentID]
	if !ok {
		return common.ErrNotFound
	}
	assoc.requestedSupervisorID = intPtr(supervisorID)
	return nil
}

func (repo *supervisorRepository) ConfirmSupervision(_ context.Context, studentID, supervisorID int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	assoc, ok := repo.db.students[studentID]
	if !ok {
		return common.ErrNotFound
	}
	assoc.requestedSupervisorID = nil
	assoc.supervisorID = intPtr(supervisorID)
	return nil
}

func (db *DB) supervisorByIDLocked(id int) (*model.Supervisor, error) {
	u, ok := db.users[id]
	if !ok || u.Kind != model.KindSupervisor {
		return nil, common.ErrNotFound
	}

	sup := &model.Supervisor{User: *u}
	sup.Roles = append([]model.RoleRow(nil), db.userRoles[id]...)
	sup.StudentIDs = []int{}
	sup.RequestingStudentIDs = []int{}
	for _, sid := range db.sortedUserIDs() {
		assoc, ok := db.students[sid]
		if !ok {
			continue
		}
		if assoc.supervisorID != nil && *assoc.supervisorID == id {
			sup.StudentIDs = append(sup.StudentIDs, sid)
		}
		if assoc.requestedSupervisorID != nil && *assoc.requestedSupervisorID == id {
			sup.RequestingStudentIDs = append(sup.RequestingStudentIDs, sid)
		}
	}
	return sup, nil
}
