package inmemdb

import (
	"context"
	"thesis_hub/internal/common"
	"thesis_hub/internal/domain/model"
	"thesis_hub/internal/domain/repository"
)

type userRepository struct {
	db *DB
}

func NewUserRepository(db *DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (repo *userRepository) Create(_ context.Context, user *model.User) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, u := range repo.db.users {
		if u.Email == user.Email {
			return common.ErrConflict
		}
	}

	user.ID = repo.db.nextID()
	user.CreatedAt = now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	stored.Roles = nil
	repo.db.users[user.ID] = &stored
	repo.db.userRoles[user.ID] = append([]model.RoleRow(nil), user.Roles...)
	if user.Kind == model.KindStudent {
		repo.db.students[user.ID] = &studentAssoc{}
	}
	return nil
}

func (repo *userRepository) FindByID(_ context.Context, id int) (*model.User, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return repo.db.userByIDLocked(id)
}

func (repo *userRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, u := range repo.db.users {
		if u.Email == email {
			return repo.db.userByIDLocked(u.ID)
		}
	}
	return nil, common.ErrNotFound
}

func (repo *userRepository) FindAll(_ context.Context) ([]model.User, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	users := make([]model.User, 0, len(repo.db.users))
	for _, id := range repo.db.sortedUserIDs() {
		u, _ := repo.db.userByIDLocked(id)
		users = append(users, *u)
	}
	return users, nil
}

func (repo *userRepository) DeleteByID(_ context.Context, id int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.users[id]; !ok {
		return common.ErrNotFound
	}
	repo.db.deleteUserLocked(id)
	return nil
}

func (repo *userRepository) EnsureRole(_ context.Context, name model.Role) (*model.RoleRow, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if row, ok := repo.db.roles[name]; ok {
		copied := *row
		return &copied, nil
	}
	row := &model.RoleRow{ID: repo.db.nextID(), Name: name}
	repo.db.roles[name] = row
	copied := *row
	return &copied, nil
}

func (repo *userRepository) UpdateRoles(_ context.Context, userID int, roles []model.RoleRow) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.users[userID]; !ok {
		return common.ErrNotFound
	}
	repo.db.userRoles[userID] = append([]model.RoleRow(nil), roles...)
	return nil
}

func (repo *userRepository) Migrate(_ context.Context, userID int, kind model.AccountKind, roles []model.RoleRow) (*model.User, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	old, ok := repo.db.users[userID]
	if !ok {
		return nil, common.ErrNotFound
	}

	fresh := &model.User{
		ID:             repo.db.nextID(),
		Name:           old.Name,
		Surname:        old.Surname,
		Email:          old.Email,
		HashedPassword: old.HashedPassword,
		Kind:           kind,
		CreatedAt:      now(),
		UpdatedAt:      now(),
	}
	repo.db.deleteUserLocked(userID)
	repo.db.users[fresh.ID] = fresh
	repo.db.userRoles[fresh.ID] = append([]model.RoleRow(nil), roles...)
	if kind == model.KindStudent {
		repo.db.students[fresh.ID] = &studentAssoc{}
	}

	out := *fresh
	out.Roles = append([]model.RoleRow(nil), roles...)
	return &out, nil
}

// userByIDLocked returns a copy with roles attached; callers hold the lock.
func (db *DB) userByIDLocked(id int) (*model.User, error) {
	u, ok := db.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	out := *u
	out.Roles = append([]model.RoleRow(nil), db.userRoles[id]...)
	return &out, nil
}
