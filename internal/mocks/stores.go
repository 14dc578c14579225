// Package mocks provides testify mocks for the model interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dmarkhas/tasklane-server/internal/model"
)

type UserStore struct {
	mock.Mock
}

func (m *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByID(ctx context.Context, id int64) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) Create(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetOrCreate(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

type LoginLinkStore struct {
	mock.Mock
}

func (m *LoginLinkStore) Create(ctx context.Context, link model.LoginLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *LoginLinkStore) GetValid(ctx context.Context, token string) (model.LoginLink, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(model.LoginLink), args.Error(1)
}

func (m *LoginLinkStore) Consume(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

type SessionStore struct {
	mock.Mock
}

func (m *SessionStore) Create(ctx context.Context, session model.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *SessionStore) GetValid(ctx context.Context, token string) (model.Session, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(model.Session), args.Error(1)
}

func (m *SessionStore) Delete(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

type TaskStore struct {
	mock.Mock
}

func (m *TaskStore) List(ctx context.Context, userID int64, listID *int64) ([]model.Task, error) {
	args := m.Called(ctx, userID, listID)
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *TaskStore) Get(ctx context.Context, id, userID int64) (model.Task, error) {
	args := m.Called(ctx, id, userID)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *TaskStore) Create(ctx context.Context, task model.Task) (model.Task, error) {
	args := m.Called(ctx, task)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *TaskStore) Update(ctx context.Context, id, userID int64, update model.TaskUpdate) error {
	args := m.Called(ctx, id, userID, update)
	return args.Error(0)
}

func (m *TaskStore) Delete(ctx context.Context, id, userID int64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

type ListStore struct {
	mock.Mock
}

func (m *ListStore) List(ctx context.Context, userID int64) ([]model.List, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.List), args.Error(1)
}

func (m *ListStore) Create(ctx context.Context, userID int64, name string) (model.List, error) {
	args := m.Called(ctx, userID, name)
	return args.Get(0).(model.List), args.Error(1)
}

func (m *ListStore) Delete(ctx context.Context, id, userID int64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

type Notifier struct {
	mock.Mock
}

func (m *Notifier) Send(ctx context.Context, email, linkURL string) error {
	args := m.Called(ctx, email, linkURL)
	return args.Error(0)
}

type EventPublisher struct {
	mock.Mock
}

func (m *EventPublisher) PublishTaskDue(ctx context.Context, event model.TaskDueEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type Calendar struct {
	mock.Mock
}

func (m *Calendar) CreateEvent(ctx context.Context, title, dueDate, notes string) error {
	args := m.Called(ctx, title, dueDate, notes)
	return args.Error(0)
}
