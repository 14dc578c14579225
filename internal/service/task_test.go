package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmarkhas/tasklane-server/internal/mocks"
	"github.com/dmarkhas/tasklane-server/internal/model"
	"github.com/dmarkhas/tasklane-server/internal/testutil"
)

func strPtr(s string) *string { return &s }

func TestTask_Create_TitleRequired(t *testing.T) {
	s := NewTask(&mocks.TaskStore{}, &mocks.EventPublisher{}, testutil.MakeNoopLogger())

	_, err := s.Create(context.Background(), model.Task{UserID: 1, Title: "   "})
	require.ErrorIs(t, err, model.ErrValidation)
}

func TestTask_Create_NoDueDate_NoEvent(t *testing.T) {
	tasks := &mocks.TaskStore{}
	events := &mocks.EventPublisher{}

	tasks.On("Create", mock.Anything, mock.Anything).Return(model.Task{ID: 1, Title: "write report"}, nil)

	s := NewTask(tasks, events, testutil.MakeNoopLogger())

	_, err := s.Create(context.Background(), model.Task{UserID: 1, Title: "write report"})
	require.NoError(t, err)

	// Give a stray publish goroutine a moment to show up before asserting.
	time.Sleep(50 * time.Millisecond)
	events.AssertNotCalled(t, "PublishTaskDue", mock.Anything, mock.Anything)
}

func TestTask_Create_DueDate_PublishesEvent(t *testing.T) {
	tasks := &mocks.TaskStore{}
	events := &mocks.EventPublisher{}

	saved := model.Task{ID: 42, Title: "file taxes", DueDate: strPtr("2026-04-15"), Notes: strPtr("bring receipts")}
	tasks.On("Create", mock.Anything, mock.Anything).Return(saved, nil)

	published := make(chan model.TaskDueEvent, 1)
	events.On("PublishTaskDue", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		published <- args.Get(1).(model.TaskDueEvent)
	}).Return(nil)

	s := NewTask(tasks, events, testutil.MakeNoopLogger())

	_, err := s.Create(context.Background(), model.Task{UserID: 1, Title: "file taxes", DueDate: strPtr("2026-04-15")})
	require.NoError(t, err)

	select {
	case event := <-published:
		assert.Equal(t, int64(42), event.TaskID)
		assert.Equal(t, "file taxes", event.Title)
		assert.Equal(t, "2026-04-15", event.DueDate)
		assert.Equal(t, "bring receipts", event.Notes)
	case <-time.After(2 * time.Second):
		t.Fatal("due event was never published")
	}
}

func TestTask_Create_PublishFailureIgnored(t *testing.T) {
	tasks := &mocks.TaskStore{}
	events := &mocks.EventPublisher{}

	saved := model.Task{ID: 1, Title: "call bank", DueDate: strPtr("2026-01-10")}
	tasks.On("Create", mock.Anything, mock.Anything).Return(saved, nil)

	published := make(chan struct{}, 1)
	events.On("PublishTaskDue", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		published <- struct{}{}
	}).Return(errors.New("broker down"))

	s := NewTask(tasks, events, testutil.MakeNoopLogger())

	// The mutation result is unaffected by the broker failure.
	created, err := s.Create(context.Background(), model.Task{UserID: 1, Title: "call bank", DueDate: strPtr("2026-01-10")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	select {
	case <-published:
	case <-time.After(2 * time.Second):
		t.Fatal("publish was never attempted")
	}
}

func TestTask_Update_DueDate_PublishesEvent(t *testing.T) {
	tasks := &mocks.TaskStore{}
	events := &mocks.EventPublisher{}

	current := model.Task{ID: 5, UserID: 1, Title: "water plants"}
	updated := model.Task{ID: 5, UserID: 1, Title: "water plants", DueDate: strPtr("2026-09-01")}
	tasks.On("Get", mock.Anything, int64(5), int64(1)).Return(current, nil).Once()
	tasks.On("Update", mock.Anything, int64(5), int64(1), mock.Anything).Return(nil)
	tasks.On("Get", mock.Anything, int64(5), int64(1)).Return(updated, nil).Once()

	published := make(chan model.TaskDueEvent, 1)
	events.On("PublishTaskDue", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		published <- args.Get(1).(model.TaskDueEvent)
	}).Return(nil)

	s := NewTask(tasks, events, testutil.MakeNoopLogger())

	result, err := s.Update(context.Background(), 5, 1, model.TaskUpdate{DueDate: strPtr("2026-09-01")})
	require.NoError(t, err)
	require.NotNil(t, result.DueDate)

	select {
	case event := <-published:
		assert.Equal(t, "2026-09-01", event.DueDate)
	case <-time.After(2 * time.Second):
		t.Fatal("due event was never published")
	}
}

func TestTask_Update_NotFound(t *testing.T) {
	tasks := &mocks.TaskStore{}
	tasks.On("Get", mock.Anything, int64(9), int64(1)).Return(model.Task{}, model.ErrNotFound)

	s := NewTask(tasks, &mocks.EventPublisher{}, testutil.MakeNoopLogger())

	_, err := s.Update(context.Background(), 9, 1, model.TaskUpdate{Title: strPtr("x")})
	require.ErrorIs(t, err, model.ErrNotFound)
	tasks.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTask_Delete(t *testing.T) {
	tasks := &mocks.TaskStore{}
	tasks.On("Delete", mock.Anything, int64(3), int64(1)).Return(nil)

	s := NewTask(tasks, &mocks.EventPublisher{}, testutil.MakeNoopLogger())

	require.NoError(t, s.Delete(context.Background(), 3, 1))
	tasks.AssertExpectations(t)
}
