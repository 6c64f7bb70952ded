package service

import (
	"context"
	"time"
	"thesis_hub/internal/common"
	"thesis_hub/internal/domain/model"
	"thesis_hub/internal/domain/repository"
)

type CalendarService struct {
	calendarRepo repository.CalendarRepository
}

func NewCalendarService(calendarRepo repository.CalendarRepository) *CalendarService {
	return &CalendarService{calendarRepo: calendarRepo}
}

type CalendarEventRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (s *CalendarService) List(ctx context.Context) ([]model.CalendarEvent, error) {
	return s.calendarRepo.FindAll(ctx)
}

func (s *CalendarService) Get(ctx context.Context, id int) (*model.CalendarEvent, error) {
	event, err := s.calendarRepo.FindByID(ctx, id)
	if err != nil {
		return nil, common.Errorf("Calendar event not found: %w", common.ErrNotFound)
	}
	return event, nil
}

func (s *CalendarService) Create(ctx context.Context, req CalendarEventRequest) (*model.CalendarEvent, error) {
	if err := common.ValidateStruct(req); err != nil {
		return nil, err
	}
	event := &model.CalendarEvent{
		CreatedAt:   req.CreatedAt,
		ExpiresAt:   req.ExpiresAt,
		Title:       req.Title,
		Description: req.Description,
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	if err := s.calendarRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *CalendarService) Update(ctx context.Context, id int, req CalendarEventRequest) error {
	if err := common.ValidateStruct(req); err != nil {
		return err
	}
	event, err := s.calendarRepo.FindByID(ctx, id)
	if err != nil {
		return common.Errorf("Calendar event not found: %w", common.ErrNotFound)
	}
	event.CreatedAt = req.CreatedAt
	event.ExpiresAt = req.ExpiresAt
	event.Title = req.Title
	event.Description = req.Description
	return s.calendarRepo.Update(ctx, event)
}

func (s *CalendarService) Remove(ctx context.Context, id int) error {
	if _, err := s.calendarRepo.FindByID(ctx, id); err != nil {
		return common.Errorf("Calendar event not found: %w", common.ErrNotFound)
	}
	return s.calendarRepo.DeleteByID(ctx, id)
}
