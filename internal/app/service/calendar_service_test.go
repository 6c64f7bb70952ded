package service

import (
	"context"
	"errors"
	"testing"
	"time"
	"thesis_hub/internal/common"
	inmemdb "thesis_hub/internal/domain/repository/inmem"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCalendar(t *testing.T) *CalendarService {
	t.Helper()
	db := inmemdb.Open()
	return NewCalendarService(inmemdb.NewCalendarRepository(db))
}

func TestCalendarLifecycle(t *testing.T) {
	svc := setupCalendar(t)
	ctx := context.Background()

	deadline := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	event, err := svc.Create(ctx, CalendarEventRequest{
		Title:       "Plan deadline",
		Description: "Last day to hand in the plan",
		ExpiresAt:   deadline,
	})
	require.NoError(t, err)
	assert.NotZero(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero())
	assert.Equal(t, deadline, event.ExpiresAt)

	events, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)

	require.NoError(t, svc.Update(ctx, event.ID, CalendarEventRequest{
		Title:     "Plan deadline (extended)",
		CreatedAt: event.CreatedAt,
		ExpiresAt: deadline.AddDate(0, 0, 7),
	}))
	got, err := svc.Get(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Plan deadline (extended)", got.Title)

	require.NoError(t, svc.Remove(ctx, event.ID))
	_, err = svc.Get(ctx, event.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
	assert.Contains(t, err.Error(), "Calendar event not found")
}

func TestCalendarValidation(t *testing.T) {
	svc := setupCalendar(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CalendarEventRequest{Description: "no title"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrValidation))
}
