package inmemdb

import (
	"context"
	"thesis_hub/internal/common"
	"thesis_hub/internal/domain/model"
	"thesis_hub/internal/domain/repository"
)

type calendarRepository struct {
	db *DB
}

func NewCalendarRepository(db *DB) repository.CalendarRepository {
	return &calendarRepository{db: db}
}

func (repo *calendarRepository) Create(_ context.Context, e *model.CalendarEvent) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	e.ID = repo.db.nextID()
	stored := *e
	repo.db.events[e.ID] = &stored
	return nil
}

func (repo *calendarRepository) FindByID(_ context.Context, id int) (*model.CalendarEvent, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	stored, ok := repo.db.events[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	e := *stored
	return &e, nil
}

func (repo *calendarRepository) FindAll(_ context.Context) ([]model.CalendarEvent, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var events []model.CalendarEvent
	for id := 1; id <= repo.db.seq; id++ {
		if e, ok := repo.db.events[id]; ok {
			events = append(events, *e)
		}
	}
	return events, nil
}

func (repo *calendarRepository) Update(_ context.Context, e *model.CalendarEvent) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	stored, ok := repo.db.events[e.ID]
	if !ok {
		return common.ErrNotFound
	}
	stored.CreatedAt = e.CreatedAt
	stored.ExpiresAt = e.ExpiresAt
	stored.Title = e.Title
	stored.Description = e.Description
	return nil
}

func (repo *calendarRepository) DeleteByID(_ context.Context, id int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.events[id]; !ok {
		return common.ErrNotFound
	}
	delete(repo.db.events, id)
	return nil
}
